// Package ocr provides document-understanding for receipt images using
// Google Document AI.
//
// Two processors cooperate: an expense processor that returns typed receipt
// fields (merchant, date, amounts) with per-field confidence scores, and a
// form parser that returns labeled key/value pairs used to locate the CNPJ
// printed in the receipt header.
//
// The Analyzer interface allows swapping implementations for testing.
//
// Example usage:
//
//	analyzer, err := ocr.NewDocumentAIAnalyzer(ctx, cfg)
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer analyzer.Close()
//
//	result, err := analyzer.AnalyzeReceipt(ctx, jpegData)
//	if err != nil {
//		log.Fatal(err)
//	}
//	fmt.Println(result.Fields.Total)
package ocr

import (
	"context"
	"time"
)

// Analyzer defines the interface for receipt document understanding.
type Analyzer interface {
	// AnalyzeReceipt runs the expense processor over a JPEG-encoded receipt
	// image and returns typed fields with confidence scores. An error here is
	// fatal for the pipeline: without the primary read there is nothing to
	// report.
	AnalyzeReceipt(ctx context.Context, imageData []byte) (*Result, error)

	// AnalyzeForm runs the form parser over a JPEG-encoded image (typically
	// the receipt header crop) and returns labeled key/value pairs. Callers
	// treat failures as degraded output, not as pipeline errors.
	AnalyzeForm(ctx context.Context, imageData []byte) ([]KeyValue, error)

	// Close releases underlying API clients.
	Close() error
}

// Result holds the outcome of the expense processor pass.
type Result struct {
	// Content is the full recognized text of the document.
	Content string

	// Fields are the typed receipt fields. A nil field means the processor
	// did not report it.
	Fields ReceiptFields
}

// ReceiptFields collects the typed fields the expense processor can report.
// Nil pointers mark fields absent from the document.
type ReceiptFields struct {
	MerchantName    *TextField
	TransactionDate *DateField
	Subtotal        *AmountField
	TotalTax        *AmountField
	Total           *AmountField
}

// TextField is a free-text field with its recognition confidence.
type TextField struct {
	Value      string
	Confidence float64
}

// DateField is a date field. Raw preserves the text as printed on the
// receipt, which is what the response reports.
type DateField struct {
	Value      time.Time
	Raw        string
	Confidence float64
}

// AmountField is a monetary field in currency units.
type AmountField struct {
	Value      float64
	Confidence float64
}

// KeyValue is one labeled pair recognized by the form parser.
type KeyValue struct {
	Key        string
	Value      string
	Confidence float64
}
