package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/Veraticus/fintrack/internal/api"
	"github.com/Veraticus/fintrack/internal/certs"
	"github.com/Veraticus/fintrack/internal/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const shutdownTimeout = 10 * time.Second

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve duplicate detection and suggestions over HTTP",
		Long: `Start the JSON API. Every route is scoped to an owner in the path:

  GET  /api/owners/{ownerID}/duplicates
  POST /api/owners/{ownerID}/duplicates/check
  GET  /api/owners/{ownerID}/suggest?description=...
  GET  /api/owners/{ownerID}/category-patterns
  GET  /health`,
		RunE: runServe,
	}

	cmd.Flags().Int("port", 8080, "port to listen on")
	cmd.Flags().Bool("tls", false, "serve HTTPS with a self-signed localhost certificate")
	_ = viper.BindPFlag(config.KeyServerPort, cmd.Flags().Lookup("port"))

	return cmd
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	store, err := initStorage(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	serverConfig := api.Config{
		Port:           cfg.ServerPort,
		AllowedOrigins: cfg.AllowedOrigins,
	}

	if useTLS, _ := cmd.Flags().GetBool("tls"); useTLS {
		manager := certs.NewManager(filepath.Join(filepath.Dir(cfg.DatabasePath), "certs"))
		cert, err := manager.Certificate()
		if err != nil {
			return fmt.Errorf("failed to prepare TLS certificate: %w", err)
		}
		serverConfig.Certificate = &cert
		slog.Info("Serving HTTPS; trust this certificate in your browser", "certificate", manager.CertFile())
	}

	server := api.NewServer(serverConfig, newEngine(store), slog.Default())

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return <-errCh
}
