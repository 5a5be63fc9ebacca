package cmd

import (
	"context"

	"github.com/rs/zerolog"

	"receiptscan/internal/config"
	"receiptscan/internal/fetch"
	"receiptscan/internal/imgproc"
	"receiptscan/internal/ocr"
	"receiptscan/internal/receipt"
	"receiptscan/internal/registry"
	"receiptscan/internal/storage"
)

// buildPipeline wires the scanning pipeline from configuration. The returned
// cleanup releases the Document AI client and must run before exit.
func buildPipeline(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*receipt.Service, func(), error) {
	analyzer, err := ocr.NewDocumentAIAnalyzer(ctx, ocr.Config{
		ProjectID:          cfg.GoogleCloudProject,
		Location:           cfg.GoogleCloudLocation,
		ReceiptProcessorID: cfg.ReceiptProcessorID,
		FormProcessorID:    cfg.FormProcessorID,
		Timeout:            cfg.ProcessTimeout,
	})
	if err != nil {
		return nil, nil, err
	}

	var uploader storage.Uploader
	if cfg.StorageConnectionString != "" {
		blobUploader, err := storage.NewAzureBlobUploader(cfg.StorageConnectionString, cfg.StorageContainer)
		if err != nil {
			analyzer.Close()
			return nil, nil, err
		}
		uploader = blobUploader
	} else {
		log.Warn().Msg("No storage connection string configured, processed images will not be persisted")
	}

	reg := registry.NewClient(nil, cfg.CNPJEndpoint, cfg.CNAEEndpoint)

	service := receipt.NewService(fetch.NewLoader(nil), imgproc.NewNormalizer(), analyzer, uploader, reg)

	cleanup := func() {
		if err := analyzer.Close(); err != nil {
			log.Warn().Err(err).Msg("Failed to close Document AI client")
		}
	}

	return service, cleanup, nil
}
