package ocr

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	documentai "cloud.google.com/go/documentai/apiv1"
	"cloud.google.com/go/documentai/apiv1/documentaipb"
	"github.com/rs/zerolog"
	"google.golang.org/api/option"

	"receiptscan/internal/logger"
)

const (
	// MaxImageSizeBytes is the maximum image size for synchronous processing (20MB)
	MaxImageSizeBytes = 20 * 1024 * 1024

	// DefaultTimeout for a single Document AI call
	DefaultTimeout = 60 * time.Second

	mimeTypeJPEG = "image/jpeg"
)

// Config holds the Document AI connection settings.
type Config struct {
	// ProjectID is the Google Cloud project hosting the processors.
	ProjectID string

	// Location is the processor region, e.g. "us" or "eu".
	Location string

	// ReceiptProcessorID identifies the expense processor.
	ReceiptProcessorID string

	// FormProcessorID identifies the form parser. When empty, AnalyzeForm
	// returns no pairs instead of failing.
	FormProcessorID string

	// Timeout bounds each ProcessDocument call.
	Timeout time.Duration
}

// DocumentAIAnalyzer implements Analyzer using Google Document AI.
type DocumentAIAnalyzer struct {
	client *documentai.DocumentProcessorClient
	config Config
	log    zerolog.Logger
}

// NewDocumentAIAnalyzer creates an analyzer with credentials from environment.
// Expects: GOOGLE_APPLICATION_CREDENTIALS or GOOGLE_CREDENTIALS
func NewDocumentAIAnalyzer(ctx context.Context, config Config) (*DocumentAIAnalyzer, error) {
	const op = "NewDocumentAIAnalyzer"

	if config.ProjectID == "" {
		return nil, WrapOCRError(op, ErrProcessingFailed, "project ID is required")
	}
	if config.ReceiptProcessorID == "" {
		return nil, WrapOCRError(op, ErrProcessorNotFound, "receipt processor ID is required")
	}
	if config.Location == "" {
		config.Location = "us"
	}
	if config.Timeout <= 0 {
		config.Timeout = DefaultTimeout
	}

	var clientOptions []option.ClientOption

	// Regional processors live behind regional endpoints
	if config.Location != "us" {
		endpoint := fmt.Sprintf("%s-documentai.googleapis.com:443", config.Location)
		clientOptions = append(clientOptions, option.WithEndpoint(endpoint))
	}

	if credJSON := os.Getenv("GOOGLE_CREDENTIALS"); credJSON != "" {
		clientOptions = append(clientOptions, option.WithCredentialsJSON([]byte(credJSON)))
	} else if credFile := os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"); credFile != "" {
		clientOptions = append(clientOptions, option.WithCredentialsFile(credFile))
	}

	client, err := documentai.NewDocumentProcessorClient(ctx, clientOptions...)
	if err != nil {
		if len(clientOptions) == 0 {
			return nil, WrapOCRError(op, ErrMissingCredentials, "no credentials found in environment")
		}
		return nil, WrapOCRError(op, err, fmt.Sprintf("failed to create Document AI client for location: %s", config.Location))
	}

	return &DocumentAIAnalyzer{
		client: client,
		config: config,
		log:    logger.WithComponent("document-ai"),
	}, nil
}

// NewDocumentAIAnalyzerWithClient creates an analyzer with an explicit client (for testing).
func NewDocumentAIAnalyzerWithClient(config Config, client *documentai.DocumentProcessorClient) *DocumentAIAnalyzer {
	if config.Timeout <= 0 {
		config.Timeout = DefaultTimeout
	}
	return &DocumentAIAnalyzer{
		client: client,
		config: config,
		log:    logger.WithComponent("document-ai"),
	}
}

// AnalyzeReceipt runs the expense processor and extracts typed receipt fields.
func (a *DocumentAIAnalyzer) AnalyzeReceipt(ctx context.Context, imageData []byte) (*Result, error) {
	const op = "AnalyzeReceipt"

	doc, err := a.process(ctx, op, a.config.ReceiptProcessorID, imageData)
	if err != nil {
		return nil, err
	}

	result := &Result{
		Content: doc.Text,
		Fields:  a.extractFields(doc),
	}

	a.log.Info().
		Int("entities", len(doc.Entities)).
		Int("text_length", len(doc.Text)).
		Msg("Receipt analysis completed")

	return result, nil
}

// AnalyzeForm runs the form parser and returns labeled key/value pairs.
func (a *DocumentAIAnalyzer) AnalyzeForm(ctx context.Context, imageData []byte) ([]KeyValue, error) {
	const op = "AnalyzeForm"

	if a.config.FormProcessorID == "" {
		a.log.Debug().Msg("No form processor configured, skipping key/value extraction")
		return nil, nil
	}

	doc, err := a.process(ctx, op, a.config.FormProcessorID, imageData)
	if err != nil {
		return nil, err
	}

	pairs := extractKeyValues(doc)

	a.log.Debug().
		Int("pairs", len(pairs)).
		Msg("Form analysis completed")

	return pairs, nil
}

// process sends one synchronous ProcessDocument request.
func (a *DocumentAIAnalyzer) process(ctx context.Context, op, processorID string, imageData []byte) (*documentaipb.Document, error) {
	if len(imageData) == 0 {
		return nil, WrapOCRError(op, ErrEmptyImage, "no image data provided")
	}
	if len(imageData) > MaxImageSizeBytes {
		return nil, WrapOCRError(op, ErrImageTooLarge, fmt.Sprintf("image size: %d bytes", len(imageData)))
	}

	processCtx, cancel := context.WithTimeout(ctx, a.config.Timeout)
	defer cancel()

	req := &documentaipb.ProcessRequest{
		Name: a.processorName(processorID),
		Source: &documentaipb.ProcessRequest_RawDocument{
			RawDocument: &documentaipb.RawDocument{
				Content:  imageData,
				MimeType: mimeTypeJPEG,
			},
		},
	}

	resp, err := a.client.ProcessDocument(processCtx, req)
	if err != nil {
		return nil, a.handleProcessingError(op, processorID, err)
	}
	if resp.Document == nil {
		return nil, WrapOCRError(op, ErrProcessingFailed, "no document in response")
	}

	return resp.Document, nil
}

// processorName constructs the full processor resource name.
func (a *DocumentAIAnalyzer) processorName(processorID string) string {
	return fmt.Sprintf("projects/%s/locations/%s/processors/%s",
		a.config.ProjectID, a.config.Location, processorID)
}

// handleProcessingError converts Document AI errors to package errors.
func (a *DocumentAIAnalyzer) handleProcessingError(op, processorID string, err error) error {
	errStr := err.Error()

	switch {
	case strings.Contains(errStr, "PERMISSION_DENIED"):
		return WrapOCRError(op, ErrInvalidCredentials, "insufficient permissions for Document AI")
	case strings.Contains(errStr, "QUOTA_EXCEEDED") || strings.Contains(errStr, "RESOURCE_EXHAUSTED"):
		return WrapOCRError(op, ErrQuotaExceeded, "Document AI API quota exceeded")
	case strings.Contains(errStr, "NOT_FOUND"):
		return WrapOCRError(op, ErrProcessorNotFound, fmt.Sprintf("processor not found: %s", processorID))
	case strings.Contains(errStr, "DeadlineExceeded") || strings.Contains(errStr, "context deadline exceeded"):
		return WrapOCRError(op, context.DeadlineExceeded, "processing timeout")
	case strings.Contains(errStr, "Canceled") || strings.Contains(errStr, "context canceled"):
		return WrapOCRError(op, ErrContextCanceled, "processing was canceled")
	default:
		return WrapOCRError(op, ErrProcessingFailed, fmt.Sprintf("Document AI error: %v", err))
	}
}

// extractFields converts expense processor entities into typed fields.
func (a *DocumentAIAnalyzer) extractFields(doc *documentaipb.Document) ReceiptFields {
	var fields ReceiptFields

	for _, entity := range doc.Entities {
		value := strings.TrimSpace(entity.MentionText)
		conf := float64(entity.Confidence)

		a.log.Debug().
			Str("entity_type", entity.Type).
			Str("value", value).
			Float64("confidence", conf).
			Msg("Processing Document AI entity")

		switch entity.Type {
		case "supplier_name", "merchant_name":
			fields.MerchantName = &TextField{Value: value, Confidence: conf}
		case "receipt_date", "transaction_date", "invoice_date":
			date, err := extractDate(entity)
			if err != nil {
				a.log.Warn().Err(err).Str("raw_value", value).Msg("Failed to parse receipt date")
			}
			fields.TransactionDate = &DateField{Value: date, Raw: value, Confidence: conf}
		case "net_amount", "subtotal_amount":
			if amount, err := extractAmount(entity); err == nil {
				fields.Subtotal = &AmountField{Value: amount, Confidence: conf}
			} else {
				a.log.Warn().Err(err).Str("raw_value", value).Msg("Failed to parse subtotal")
			}
		case "total_tax_amount", "vat_amount":
			if amount, err := extractAmount(entity); err == nil {
				fields.TotalTax = &AmountField{Value: amount, Confidence: conf}
			} else {
				a.log.Warn().Err(err).Str("raw_value", value).Msg("Failed to parse tax amount")
			}
		case "total_amount", "gross_amount":
			if amount, err := extractAmount(entity); err == nil {
				fields.Total = &AmountField{Value: amount, Confidence: conf}
			} else {
				a.log.Warn().Err(err).Str("raw_value", value).Msg("Failed to parse total")
			}
		}
	}

	return fields
}

// extractDate reads the normalized date value, falling back to parsing the
// mention text with formats common on Brazilian receipts.
func extractDate(entity *documentaipb.Document_Entity) (time.Time, error) {
	if entity.NormalizedValue != nil {
		if dateValue := entity.NormalizedValue.GetDateValue(); dateValue != nil {
			return time.Date(
				int(dateValue.Year),
				time.Month(dateValue.Month),
				int(dateValue.Day),
				0, 0, 0, 0,
				time.UTC,
			), nil
		}
	}

	dateStr := strings.TrimSpace(entity.MentionText)
	if dateStr == "" {
		return time.Time{}, fmt.Errorf("empty date value")
	}

	formats := []string{
		"02/01/2006",
		"02/01/06",
		"2006-01-02",
		"02-01-2006",
		"02.01.2006",
	}

	for _, format := range formats {
		if date, err := time.Parse(format, dateStr); err == nil {
			return date, nil
		}
	}

	return time.Time{}, fmt.Errorf("unable to parse date: %s", dateStr)
}

// extractAmount reads the normalized money value, falling back to parsing
// the mention text.
func extractAmount(entity *documentaipb.Document_Entity) (float64, error) {
	if entity.NormalizedValue != nil {
		if moneyValue := entity.NormalizedValue.GetMoneyValue(); moneyValue != nil {
			return float64(moneyValue.Units) + float64(moneyValue.Nanos)/1e9, nil
		}
	}

	amountStr := strings.TrimSpace(entity.MentionText)
	if amountStr == "" {
		return 0, fmt.Errorf("empty amount value")
	}

	return parseAmount(amountStr)
}

// parseAmount parses amount strings in Brazilian and English formats
// ("R$ 1.234,56" -> 1234.56, "12.34" -> 12.34).
func parseAmount(amountStr string) (float64, error) {
	cleaned := strings.TrimSpace(amountStr)
	cleaned = strings.ReplaceAll(cleaned, " ", "")
	cleaned = strings.ReplaceAll(cleaned, "R$", "")
	cleaned = strings.ReplaceAll(cleaned, "$", "")
	cleaned = strings.ReplaceAll(cleaned, "BRL", "")

	if strings.Contains(cleaned, ",") {
		if strings.Contains(cleaned, ".") {
			// Both separators: Brazilian format, dot is thousands.
			cleaned = strings.ReplaceAll(cleaned, ".", "")
			cleaned = strings.ReplaceAll(cleaned, ",", ".")
		} else {
			parts := strings.Split(cleaned, ",")
			if len(parts) == 2 && len(parts[1]) <= 2 {
				cleaned = strings.ReplaceAll(cleaned, ",", ".")
			}
		}
	}

	amount, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, fmt.Errorf("unable to parse amount: %s (cleaned: %s)", amountStr, cleaned)
	}

	return amount, nil
}

// extractKeyValues flattens form parser output into key/value pairs, resolving
// layout text anchors against the full document text.
func extractKeyValues(doc *documentaipb.Document) []KeyValue {
	var pairs []KeyValue

	for _, page := range doc.Pages {
		for _, field := range page.FormFields {
			if field.FieldName == nil || field.FieldValue == nil {
				continue
			}
			key := textFromLayout(doc.Text, field.FieldName)
			value := textFromLayout(doc.Text, field.FieldValue)
			if key == "" {
				continue
			}
			pairs = append(pairs, KeyValue{
				Key:        key,
				Value:      value,
				Confidence: float64(field.FieldValue.Confidence),
			})
		}
	}

	return pairs
}

// textFromLayout resolves a layout's text anchor segments against the
// document text.
func textFromLayout(docText string, layout *documentaipb.Document_Page_Layout) string {
	if layout == nil || layout.TextAnchor == nil {
		return ""
	}

	var sb strings.Builder
	for _, segment := range layout.TextAnchor.TextSegments {
		start := int(segment.StartIndex)
		end := int(segment.EndIndex)
		if start < 0 || end > len(docText) || start >= end {
			continue
		}
		sb.WriteString(docText[start:end])
	}

	return strings.TrimSpace(sb.String())
}

// Close closes the underlying Document AI client.
func (a *DocumentAIAnalyzer) Close() error {
	if a.client != nil {
		return a.client.Close()
	}
	return nil
}
