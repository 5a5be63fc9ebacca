package receipt

import (
	"regexp"
	"strings"

	"receiptscan/internal/ocr"
	"receiptscan/pkg/models"
)

// DefaultCurrency is reported when no currency symbol appears in the text.
// Receipts in scope are Brazilian, so the real answer is almost always R$.
const DefaultCurrency = "R$"

var (
	rePaymentMethod = regexp.MustCompile(`(?i)cr[eé]dito|d[eé]bito|dinheiro`)
	reCurrency      = regexp.MustCompile(`R?\$`)

	// reCNPJContext requires the CNPJ label near the number so stray
	// 14-digit runs (barcodes, fiscal keys) don't match.
	reCNPJContext = regexp.MustCompile(`(?i)CNPJ.{0,3}\d{2}\.?\d{3}\.?\d{3}/?\d{4}-?\d{2}`)
	reCNPJNumber  = regexp.MustCompile(`\d{2}\.?\d{3}\.?\d{3}/?\d{4}-?\d{2}`)

	// reDigitRun accepts partially recognized numbers in labeled form
	// fields, where the label itself vouches for the value.
	reDigitRun = regexp.MustCompile(`\d{9,}`)

	cnpjStripper = strings.NewReplacer(".", "", "/", "", "-", "", " ", "")
)

// paymentMethod returns the payment method mention found in the text, as
// printed, or "" when none appears.
func paymentMethod(text string) string {
	return rePaymentMethod.FindString(text)
}

// currencySymbol returns the first currency symbol in the text, defaulting
// to DefaultCurrency.
func currencySymbol(text string) string {
	if m := reCurrency.FindString(text); m != "" {
		return m
	}
	return DefaultCurrency
}

// extractCNPJ locates the establishment's CNPJ using two tiers.
//
// Tier one trusts the form parser: the first pair whose key mentions CNPJ
// has its value stripped of punctuation and accepted if a long digit run
// remains. Only the first such pair is considered, matching how receipts
// print a single CNPJ in the header.
//
// Tier two falls back to scanning the full text for the label followed by a
// formatted CNPJ number.
//
// printed is the value as reported (labeled digits or the formatted number),
// digits is the bare digit string used for registry lookups.
func extractCNPJ(pairs []ocr.KeyValue, fullText string) (printed, digits string, ok bool) {
	for _, pair := range pairs {
		if !strings.Contains(strings.ToLower(pair.Key), "cnpj") {
			continue
		}
		stripped := cnpjStripper.Replace(pair.Value)
		if m := reDigitRun.FindString(stripped); m != "" {
			return m, m, true
		}
		// The labeled field exists but holds no usable number; the
		// free-text scan below gets a chance instead.
		break
	}

	if m := reCNPJContext.FindString(fullText); m != "" {
		num := reCNPJNumber.FindString(m)
		return num, digitsOnly(num), true
	}

	return "", "", false
}

func digitsOnly(s string) string {
	var sb strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

// applyFields copies typed OCR fields onto the receipt. Absent fields keep
// the empty sentinel set by models.NewReceipt.
func applyFields(rec *models.Receipt, fields ocr.ReceiptFields) {
	if f := fields.MerchantName; f != nil {
		rec.MerchantName = models.Field{Value: f.Value, Confidence: f.Confidence}
	}
	if f := fields.TransactionDate; f != nil {
		rec.TransactionDate = models.Field{Value: f.Raw, Confidence: f.Confidence}
	}
	if f := fields.Subtotal; f != nil {
		rec.Subtotal = models.Field{Value: f.Value, Confidence: f.Confidence}
	}
	if f := fields.TotalTax; f != nil {
		rec.Imposto = models.Field{Value: f.Value, Confidence: f.Confidence}
	}
	if f := fields.Total; f != nil {
		rec.Total = models.Field{Value: f.Value, Confidence: f.Confidence}
	}
}
