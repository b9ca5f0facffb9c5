package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	require.Equal(t, "en", cfg.Locale)
	require.Equal(t, 256, cfg.MaxDepth)
	require.Equal(t, "0.0.0.0:8787", cfg.HTTPAddr())
	require.Equal(t, "0.0.0.0:8788", cfg.GRPCAddr())
}

func TestParse(t *testing.T) {
	cfg, err := Parse([]byte(`
locale: sv
localize: true
maxDepth: 32
debug: true
historySize: 5
variables:
  rate: 0.25
  count: 3
  label: total
  enabled: true
http:
  host: 127.0.0.1
  port: 9000
grpc:
  port: 9001
`))
	require.NoError(t, err)
	require.Equal(t, "sv", cfg.Language().String())
	require.True(t, cfg.Localize)
	require.True(t, cfg.Debug)
	require.Equal(t, 32, cfg.MaxDepth)
	require.Equal(t, 5, cfg.HistorySize)
	require.Equal(t, "127.0.0.1:9000", cfg.HTTPAddr())
	require.Equal(t, "127.0.0.1:9001", cfg.GRPCAddr())

	values, err := cfg.Values()
	require.NoError(t, err)
	require.Equal(t, 0.25, values["rate"].AsDouble())
	require.Equal(t, int64(3), values["count"].AsInt())
	require.Equal(t, "total", values["label"].AsString())
	require.True(t, values["enabled"].AsBool())
}

func TestParseEmpty(t *testing.T) {
	cfg, err := Parse(nil)
	require.NoError(t, err)
	require.Equal(t, Default(), cfg)
}

func TestParseErrors(t *testing.T) {
	tests := map[string]string{
		"unknown key":      "colour: blue\n",
		"bad locale":       "locale: \"!!\"\n",
		"negative depth":   "maxDepth: -1\n",
		"negative history": "historySize: -3\n",
		"nested variable":  "variables:\n  v:\n    a: 1\n",
		"malformed":        "locale: [\n",
	}
	for name, doc := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(doc))
			require.Error(t, err)
		})
	}
}

func TestLoadWithEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "supercalc.yaml")
	require.NoError(t, os.WriteFile(path, []byte("http:\n  port: 9000\n"), 0o644))

	t.Setenv("PORT", "9100")
	t.Setenv("GRPC_PORT", "9101")
	t.Setenv("HOST", "localhost")
	t.Setenv("SUPERCALC_LOCALE", "sv-SE")

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "localhost:9100", cfg.HTTPAddr())
	require.Equal(t, "localhost:9101", cfg.GRPCAddr())
	require.Equal(t, "sv-SE", cfg.Locale)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)

	t.Setenv("PORT", "eighty")
	_, err = Load("")
	require.ErrorContains(t, err, "PORT")
}
