// Package main is the entry point for the supercalc command.
package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/danielb987/SuperCalculator/pkg/api"
	grpcapi "github.com/danielb987/SuperCalculator/pkg/api/grpc"
	"github.com/danielb987/SuperCalculator/pkg/calculator"
	"github.com/danielb987/SuperCalculator/pkg/config"
	"github.com/danielb987/SuperCalculator/pkg/store"
	"github.com/danielb987/SuperCalculator/web"
)

// Set via -ldflags at build time.
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "supercalc",
		Short:         "Expression calculator with HTTP, gRPC and web frontends",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.Version = version + " (commit=" + commit + ", built=" + date + ")"
	root.SetVersionTemplate("supercalc version {{.Version}}\n")

	root.PersistentFlags().String("config", "", "YAML configuration file (env SUPERCALC_CONFIG)")
	root.PersistentFlags().String("locale", "", "Message language, e.g. en or sv (env SUPERCALC_LOCALE)")
	root.PersistentFlags().Bool("debug", false, "Log parse trees and requests")
	root.PersistentFlags().Int("max-depth", 0, "Maximum expression nesting depth")

	root.AddCommand(newEvalCmd(), newReplCmd(), newFunctionsCmd(), newServeCmd())
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// loadConfig reads the configuration file and applies the persistent flags.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path := os.Getenv("SUPERCALC_CONFIG")
	if v, _ := cmd.Flags().GetString("config"); v != "" {
		path = v
	}

	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}

	if v, _ := cmd.Flags().GetString("locale"); v != "" {
		cfg.Locale = v
	}
	if v, _ := cmd.Flags().GetBool("debug"); v {
		cfg.Debug = true
	}
	if v, _ := cmd.Flags().GetInt("max-depth"); v != 0 {
		cfg.MaxDepth = v
	}
	return cfg, cfg.Validate()
}

func newCalculator(cmd *cobra.Command) (*calculator.Calculator, *config.Config, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, nil, err
	}
	calc, err := calculator.New(cfg)
	if err != nil {
		return nil, nil, err
	}
	return calc, cfg, nil
}

func newFunctionsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "functions",
		Short: "List the available functions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			calc, _, err := newCalculator(cmd)
			if err != nil {
				return err
			}
			for _, name := range calc.Functions().Names() {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return nil
		},
	}
}

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP API, gRPC API and web UI",
		Args:  cobra.NoArgs,
		RunE:  serve,
	}
	cmd.Flags().Int("port", 0, "HTTP server port (default 8787, env PORT)")
	cmd.Flags().Int("grpc-port", 0, "gRPC server port (default 8788, env GRPC_PORT)")
	cmd.Flags().String("host", "", "Bind address (default 0.0.0.0, env HOST)")
	cmd.Flags().Int("history", -1, "Number of evaluations kept in history (default 100)")
	return cmd
}

func serve(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if v, _ := cmd.Flags().GetInt("port"); v != 0 {
		cfg.HTTP.Port = v
	}
	if v, _ := cmd.Flags().GetInt("grpc-port"); v != 0 {
		cfg.GRPC.Port = v
	}
	if v, _ := cmd.Flags().GetString("host"); v != "" {
		cfg.HTTP.Host = v
	}
	if v, _ := cmd.Flags().GetInt("history"); v >= 0 {
		cfg.HistorySize = v
	}

	calc, err := calculator.New(cfg)
	if err != nil {
		return err
	}
	history := store.New(cfg.HistorySize)
	server := api.New(calc, history, cfg.Debug)

	web.New(calc, history).Register(server.App())

	grpcServer := grpcapi.New(calc, history, cfg.Debug)
	go func() {
		log.Printf("gRPC server listening on %s", cfg.GRPCAddr())
		if err := grpcServer.Serve(cfg.GRPCAddr()); err != nil {
			log.Fatalf("gRPC server error: %v", err)
		}
	}()

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Println("Shutting down supercalc...")
		grpcServer.GracefulStop()
		if err := server.Shutdown(); err != nil {
			log.Printf("Error during shutdown: %v", err)
		}
	}()

	log.Printf("SuperCalculator listening on %s (locale=%s, history=%d)", cfg.HTTPAddr(), cfg.Language(), cfg.HistorySize)
	return server.Listen(cfg.HTTPAddr())
}
