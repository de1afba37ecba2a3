package main

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/plotset/plotembed/internal/config"
	"github.com/plotset/plotembed/internal/server"
)

// Serve-specific flag values.
var (
	serveAddr        string
	serveEnvFile     string
	serveExternalURL string
)

// serveCmd runs the HTTP API.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the embed generator over HTTP",
	Long: `Run an HTTP server exposing:
  POST /api/embed              JSON request, returns the embed document
  POST /api/settings/flatten   settings tree body, ?format=json|annotated|yaml
  GET  /healthz                liveness probe

Variables from a .env file are loaded before configuration is read; values
already set in the environment win.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default from config, else :8080)")
	serveCmd.Flags().StringVar(&serveEnvFile, "env-file", ".env", "dotenv file to load; missing files are ignored")
	serveCmd.Flags().StringVar(&serveExternalURL, "external-url", "", "base URL for relative script sources")
}

func runServe(cmd *cobra.Command, _ []string) error {
	if err := config.LoadDotEnv(serveEnvFile); err != nil {
		return exitError(ExitInvalidArgs, "plotembed: loading %s (%v)", serveEnvFile, err)
	}
	opts, err := loadOptions(cmd, flagOverrides{
		ExternalURL: &serveExternalURL,
		Addr:        &serveAddr,
	})
	if err != nil {
		return err
	}
	asm, err := newAssembler(opts)
	if err != nil {
		return err
	}

	srv := server.New(asm, server.Options{
		Watermark:      opts.Watermark,
		ReferenceURL:   opts.ReferenceURL,
		RequestTimeout: opts.RequestTimeout,
		MaxBodyBytes:   opts.MaxBodyBytes,
	})

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	if err := srv.ListenAndServe(ctx, opts.Addr); err != nil {
		return exitError(ExitFailure, "plotembed: %v", err)
	}
	return nil
}
