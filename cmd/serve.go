package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"receiptscan/internal/api"
	"receiptscan/internal/config"
	"receiptscan/internal/logger"
)

// shutdownGrace bounds how long in-flight requests may run after a signal.
const shutdownGrace = 15 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the receipt scanning HTTP API",
	Long: `Start the HTTP server exposing the receipt scanning pipeline.

The API accepts GET or POST on /api/receipts with the image URL in the
imgUrl query parameter or a JSON body. Responses carry the extracted fields
with confidence scores; partial failures are listed in the payload's error
field rather than failing the request.

Required environment variables:
  GOOGLE_APPLICATION_CREDENTIALS - Path to service account JSON file, OR
  GOOGLE_CREDENTIALS - Inline JSON credentials string
  GOOGLE_CLOUD_PROJECT - Google Cloud project hosting the processors
  RECEIPT_PROCESSOR_ID - Document AI expense processor ID`,
	Example: `  # Serve on the configured port (default 8080)
  receiptscan serve

  # Then scan a receipt
  curl "http://localhost:8080/api/receipts?imgUrl=https://example.com/receipt.jpg"`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("serve")

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	service, cleanup, err := buildPipeline(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("failed to build pipeline: %w", err)
	}
	defer cleanup()

	server := api.NewServer(service)
	addr := fmt.Sprintf("%s:%d", cfg.ServerAddress, cfg.ServerPort)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start(addr)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server stopped: %w", err)
	case <-ctx.Done():
		log.Info().Msg("Shutdown signal received, draining requests")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown failed: %w", err)
	}

	log.Info().Msg("Server stopped")
	return nil
}
