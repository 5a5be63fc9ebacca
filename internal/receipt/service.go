// Package receipt orchestrates the full scanning pipeline: fetch the image,
// isolate and enhance the receipt region, run document understanding,
// extract Brazilian fiscal fields, and enrich the CNPJ against the public
// registry.
//
// Only the primary document read is fatal. Every other stage degrades: its
// failure is recorded on the receipt's error list and processing continues
// with whatever data is available.
package receipt

import (
	"bytes"
	"context"
	"errors"
	"image"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"receiptscan/internal/fetch"
	"receiptscan/internal/imgproc"
	"receiptscan/internal/logger"
	"receiptscan/internal/ocr"
	"receiptscan/internal/registry"
	"receiptscan/internal/storage"
	"receiptscan/pkg/models"
)

// ErrCNPJNotFound carries the registry failure annotation. The message is
// user-facing and stays in Portuguese like the receipts themselves.
var ErrCNPJNotFound = errors.New("CNPJ não encontrado")

// jpegQuality for re-encoding processed images before OCR and upload.
const jpegQuality = 90

// Service runs the receipt scanning pipeline.
type Service struct {
	loader     *fetch.Loader
	normalizer *imgproc.Normalizer
	analyzer   ocr.Analyzer
	uploader   storage.Uploader
	registry   *registry.Client
	log        zerolog.Logger
}

// NewService wires the pipeline stages together. uploader may be nil, in
// which case processed images are not persisted and the response carries no
// image URL.
func NewService(loader *fetch.Loader, normalizer *imgproc.Normalizer, analyzer ocr.Analyzer, uploader storage.Uploader, reg *registry.Client) *Service {
	return &Service{
		loader:     loader,
		normalizer: normalizer,
		analyzer:   analyzer,
		uploader:   uploader,
		registry:   reg,
		log:        logger.WithComponent("receipt"),
	}
}

// Process scans the receipt at imgURL and returns the populated receipt. A
// non-nil error means the primary document read failed and there is nothing
// to report.
func (s *Service) Process(ctx context.Context, imgURL string) (*models.Receipt, error) {
	img, err := s.loader.Fetch(ctx, imgURL)
	if err != nil {
		return nil, err
	}

	rec := models.NewReceipt()

	norm, err := s.normalizer.Normalize(img)
	if err != nil {
		rec.RecordError(err.Error())
	}

	data, err := encodeJPEG(norm.Image)
	if err != nil {
		return nil, err
	}

	result, err := s.analyzer.AnalyzeReceipt(ctx, data)
	if err != nil {
		return nil, err
	}

	rec.IDOCR = uuid.NewString()
	log := logger.WithRequestID(rec.IDOCR)

	applyFields(rec, result.Fields)

	if s.uploader != nil {
		if url, err := s.uploader.Upload(ctx, rec.IDOCR+".jpg", data); err != nil {
			log.Warn().Err(err).Msg("Processed image upload failed")
			rec.RecordError(err.Error())
		} else {
			rec.ImgProcURL = url
		}
	}

	pairs := s.analyzeHeader(ctx, rec, norm.Header, data, log)

	rec.TipoPagamento = paymentMethod(result.Content)
	rec.Moeda = currencySymbol(result.Content)

	if printed, digits, ok := extractCNPJ(pairs, result.Content); ok {
		s.enrich(ctx, rec, printed, digits, log)
	} else {
		log.Info().Msg("No CNPJ found on receipt")
		rec.RecordError(ErrCNPJNotFound.Error())
	}

	log.Info().
		Str("cnpj", rec.CNPJ).
		Str("cidade", rec.Cidade).
		Int("errors", len(rec.Errors)).
		Msg("Receipt processed")

	return rec, nil
}

// analyzeHeader runs the form parser over the header crop, falling back to
// the full processed image when no header was isolated. Failures degrade to
// text-only CNPJ extraction.
func (s *Service) analyzeHeader(ctx context.Context, rec *models.Receipt, header image.Image, full []byte, log zerolog.Logger) []ocr.KeyValue {
	data := full
	if header != nil {
		if encoded, err := encodeJPEG(header); err == nil {
			data = encoded
		}
	}

	pairs, err := s.analyzer.AnalyzeForm(ctx, data)
	if err != nil {
		log.Warn().Err(err).Msg("Form analysis failed, falling back to text scan")
		rec.RecordError(err.Error())
		return nil
	}
	return pairs
}

// enrich resolves the CNPJ against the registry. A failed lookup invalidates
// the extracted number entirely: cnpj, cidade and tipo are all cleared so the
// response never carries an unverified identifier. A failed classification
// only costs the tipo field.
func (s *Service) enrich(ctx context.Context, rec *models.Receipt, printed, digits string, log zerolog.Logger) {
	rec.CNPJ = printed

	record, err := s.registry.Lookup(ctx, digits)
	if err != nil {
		log.Warn().Err(err).Str("cnpj", digits).Msg("Registry lookup failed")
		rec.CNPJ = ""
		rec.Cidade = ""
		rec.Tipo = ""
		rec.RecordError(ErrCNPJNotFound.Error())
		return
	}
	rec.Cidade = record.Cidade

	// No activity code on record is absent data, not a failure.
	if record.Divisao == "" {
		return
	}

	desc, err := s.registry.Classify(ctx, record.Divisao)
	if err != nil {
		log.Warn().Err(err).Str("divisao", record.Divisao).Msg("Activity classification failed")
		rec.RecordError(err.Error())
		return
	}
	rec.Tipo = desc
}

func encodeJPEG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(jpegQuality)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
