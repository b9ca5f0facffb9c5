// Package config loads the calculator configuration from YAML and the
// environment.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"

	"github.com/danielb987/SuperCalculator/pkg/expr"
	"github.com/danielb987/SuperCalculator/pkg/types"
)

// Defaults used when neither the file nor the environment sets a value.
const (
	DefaultHost        = "0.0.0.0"
	DefaultPort        = 8787
	DefaultGRPCPort    = 8788
	DefaultHistorySize = 100
	DefaultLocale      = "en"
)

// Config is the calculator configuration.
type Config struct {
	// Locale selects the language of error messages and, when Localize is
	// set, the number format of results.
	Locale      string `yaml:"locale"`
	Localize    bool   `yaml:"localize"`
	MaxDepth    int    `yaml:"maxDepth"`
	Debug       bool   `yaml:"debug"`
	HistorySize int    `yaml:"historySize"`

	// Variables are defined in the calculator scope at start-up.
	Variables map[string]interface{} `yaml:"variables"`

	HTTP HTTPConfig `yaml:"http"`
	GRPC GRPCConfig `yaml:"grpc"`
}

// HTTPConfig configures the HTTP API and web UI listener.
type HTTPConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// GRPCConfig configures the gRPC listener.
type GRPCConfig struct {
	Port int `yaml:"port"`
}

// Default returns the configuration used without a file.
func Default() *Config {
	return &Config{
		Locale:      DefaultLocale,
		MaxDepth:    expr.DefaultMaxDepth,
		HistorySize: DefaultHistorySize,
		HTTP:        HTTPConfig{Host: DefaultHost, Port: DefaultPort},
		GRPC:        GRPCConfig{Port: DefaultGRPCPort},
	}
}

// Load reads the YAML file at path over the defaults and applies
// environment overrides. An empty path skips the file.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config: %w", err)
		}
		if err := cfg.decode(data); err != nil {
			return nil, fmt.Errorf("parsing config %s: %w", path, err)
		}
	}
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Parse decodes YAML over the defaults without consulting the environment.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := cfg.decode(data); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) decode(data []byte) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// applyEnv overrides settings from HOST, PORT, GRPC_PORT and
// SUPERCALC_LOCALE.
func (c *Config) applyEnv() error {
	c.HTTP.Host = envOrDefault("HOST", c.HTTP.Host)
	c.Locale = envOrDefault("SUPERCALC_LOCALE", c.Locale)

	port, err := envInt("PORT", c.HTTP.Port)
	if err != nil {
		return err
	}
	c.HTTP.Port = port

	grpcPort, err := envInt("GRPC_PORT", c.GRPC.Port)
	if err != nil {
		return err
	}
	c.GRPC.Port = grpcPort
	return nil
}

// Validate checks the configuration for values that cannot be used.
func (c *Config) Validate() error {
	if _, err := language.Parse(c.Locale); err != nil {
		return fmt.Errorf("invalid locale %q: %w", c.Locale, err)
	}
	if c.MaxDepth < 0 {
		return fmt.Errorf("maxDepth must not be negative, got %d", c.MaxDepth)
	}
	if c.HistorySize < 0 {
		return fmt.Errorf("historySize must not be negative, got %d", c.HistorySize)
	}
	for name, v := range c.Variables {
		if _, err := types.FromGo(v); err != nil {
			return fmt.Errorf("variable %s: %w", name, err)
		}
	}
	return nil
}

// Language returns the configured locale as a language tag. An unparsable
// locale yields English.
func (c *Config) Language() language.Tag {
	tag, err := language.Parse(c.Locale)
	if err != nil {
		return language.English
	}
	return tag
}

// Values converts the configured variables to calculator values.
func (c *Config) Values() (map[string]types.Value, error) {
	out := make(map[string]types.Value, len(c.Variables))
	for name, v := range c.Variables {
		val, err := types.FromGo(v)
		if err != nil {
			return nil, fmt.Errorf("variable %s: %w", name, err)
		}
		out[name] = val
	}
	return out, nil
}

// HTTPAddr returns the host:port the HTTP server listens on.
func (c *Config) HTTPAddr() string {
	return fmt.Sprintf("%s:%d", c.HTTP.Host, c.HTTP.Port)
}

// GRPCAddr returns the host:port the gRPC server listens on.
func (c *Config) GRPCAddr() string {
	return fmt.Sprintf("%s:%d", c.HTTP.Host, c.GRPC.Port)
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	return n, nil
}
