package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"receiptscan/internal/config"
	"receiptscan/internal/logger"
)

var scanCmd = &cobra.Command{
	Use:   "scan [image-url]",
	Short: "Scan a single receipt image and print the result as JSON",
	Long: `Run the full scanning pipeline once for the receipt image at the given
URL and print the structured result.

The image is fetched, the receipt region isolated and enhanced, the document
read with Google Document AI, and the CNPJ enriched against the public
registry. Partial failures are listed in the result's error field.

Required environment variables:
  GOOGLE_APPLICATION_CREDENTIALS - Path to service account JSON file, OR
  GOOGLE_CREDENTIALS - Inline JSON credentials string
  GOOGLE_CLOUD_PROJECT - Google Cloud project hosting the processors
  RECEIPT_PROCESSOR_ID - Document AI expense processor ID`,
	Example: `  # Scan a receipt to stdout
  receiptscan scan https://example.com/receipt.jpg

  # Save the result to a file
  receiptscan scan https://example.com/receipt.jpg -o result.json

  # Scan with a custom timeout
  receiptscan scan https://example.com/receipt.jpg --timeout 120`,
	Args: cobra.ExactArgs(1),
	RunE: runScan,
}

func init() {
	rootCmd.AddCommand(scanCmd)

	scanCmd.Flags().StringP("output", "o", "", "Output file path (default: stdout)")
	scanCmd.Flags().Int("timeout", 120, "Processing timeout in seconds")
}

func runScan(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("scan")

	outputPath, _ := cmd.Flags().GetString("output")
	timeoutSecs, _ := cmd.Flags().GetInt("timeout")
	imgURL := args[0]

	log.Info().
		Str("img_url", imgURL).
		Int("timeout", timeoutSecs).
		Msg("Starting receipt scan")

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(timeoutSecs)*time.Second)
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		select {
		case sig := <-sigChan:
			log.Info().Str("signal", sig.String()).Msg("Received interrupt signal, canceling scan")
			cancel()
		case <-ctx.Done():
		}
	}()

	service, cleanup, err := buildPipeline(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("failed to build pipeline: %w", err)
	}
	defer cleanup()

	start := time.Now()
	rec, err := service.Process(ctx, imgURL)
	if err != nil {
		log.Error().Err(err).Msg("Receipt scan failed")
		return fmt.Errorf("scan failed: %w", err)
	}

	log.Info().
		Str("id_ocr", rec.IDOCR).
		Dur("duration", time.Since(start)).
		Int("errors", len(rec.Errors)).
		Msg("Receipt scan completed")

	output, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode result: %w", err)
	}

	if outputPath != "" {
		if err := os.WriteFile(outputPath, output, 0644); err != nil {
			return fmt.Errorf("failed to write output file: %w", err)
		}
		log.Info().Str("output_file", outputPath).Msg("Result written to file")
		return nil
	}

	fmt.Println(string(output))
	return nil
}
