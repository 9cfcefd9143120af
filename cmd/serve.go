package cmd

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/musicjoeyoung/MCP-ElevenLabs/api"
	"github.com/musicjoeyoung/MCP-ElevenLabs/internal/services/cleanup"
	"github.com/musicjoeyoung/MCP-ElevenLabs/pkg/config"
)

func newServeCmd() *cobra.Command {
	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the API server",
		Long: `Start the Podgen API server with the configured settings.

The server accepts generation requests and serves the episode catalog,
scripts and audio over HTTP.

Example:
  podgen serve
  podgen serve --port 9090
  podgen serve --host 0.0.0.0 --port 8080`,
		RunE: runServer,
	}

	// Server flags
	serveCmd.Flags().String("host", "", "server host (overrides config)")
	serveCmd.Flags().Int("port", 0, "server port (overrides config)")
	return serveCmd
}

func runServer(cmd *cobra.Command, args []string) error {
	cfg, err := config.GetConfig()
	if err != nil {
		return err
	}

	// Use config values if flags not provided
	if host, _ := cmd.Flags().GetString("host"); host != "" {
		cfg.Server.Host = host
	}
	if port, _ := cmd.Flags().GetInt("port"); port != 0 {
		cfg.Server.Port = port
	}
	setGinMode(cfg.Logging.Level)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	app, err := newApplication(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := app.Close(closeCtx); err != nil {
			log.Printf("[WARN] Failed to release resources: %v", err)
		}
	}()

	if cfg.Generation.StaleAfter > 0 {
		sweep := cleanup.NewService(app.repo, cfg.Generation.StaleAfter, cfg.Generation.SweepInterval)
		sweep.Start(ctx)
		defer sweep.Stop()
	}

	server := api.NewServer(cfg, app.dependencies())
	if err := server.Initialize(); err != nil {
		return fmt.Errorf("failed to initialize server: %w", err)
	}

	// Channel to listen for interrupt signals
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(stop)

	// Channel to receive server errors
	serverErr := make(chan error, 1)

	go func() {
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- fmt.Errorf("server error: %w", err)
		}
	}()

	log.Printf("[INFO] Podgen API listening on %s", server.Addr())

	// Wait for interrupt signal, cancellation or server error
	var runErr error
	select {
	case <-stop:
		log.Printf("[INFO] Shutting down server...")
	case <-ctx.Done():
		log.Printf("[INFO] Context cancelled, shutting down server...")
	case runErr = <-serverErr:
		log.Printf("[ERROR] %v", runErr)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("[ERROR] Server forced to shutdown: %v", err)
		return err
	}

	log.Printf("[INFO] Server gracefully stopped")
	return runErr
}
