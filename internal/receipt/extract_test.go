package receipt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"receiptscan/internal/ocr"
	"receiptscan/pkg/models"
)

func TestPaymentMethod(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{"Pagamento: Crédito", "Crédito"},
		{"CARTAO DE DEBITO", "DEBITO"},
		{"pago em dinheiro", "dinheiro"},
		{"CARTAO DE CREDITO", "CREDITO"},
		{"pix", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, paymentMethod(tt.text), "text: %q", tt.text)
	}
}

func TestCurrencySymbol(t *testing.T) {
	assert.Equal(t, "R$", currencySymbol("TOTAL R$ 10,00"))
	assert.Equal(t, "$", currencySymbol("TOTAL $10.00"))
	assert.Equal(t, DefaultCurrency, currencySymbol("TOTAL 10,00"))
}

func TestExtractCNPJFromFormPairs(t *testing.T) {
	pairs := []ocr.KeyValue{
		{Key: "DATA:", Value: "15/03/2024"},
		{Key: "CNPJ:", Value: "12.345.678/0001-95"},
		{Key: "CNPJ", Value: "99.999.999/9999-99"},
	}

	printed, digits, ok := extractCNPJ(pairs, "")
	require.True(t, ok)
	assert.Equal(t, "12345678000195", printed)
	assert.Equal(t, "12345678000195", digits)
}

func TestExtractCNPJPartialDigitsAccepted(t *testing.T) {
	// The labeled field vouches for the value even when OCR dropped the
	// check digits.
	pairs := []ocr.KeyValue{{Key: "cnpj:", Value: "12.345.678/0001"}}

	printed, digits, ok := extractCNPJ(pairs, "")
	require.True(t, ok)
	assert.Equal(t, "123456780001", printed)
	assert.Equal(t, "123456780001", digits)
}

func TestExtractCNPJFallsBackToText(t *testing.T) {
	// First CNPJ-labeled pair has no usable number, so the free-text scan
	// takes over.
	pairs := []ocr.KeyValue{{Key: "CNPJ:", Value: "ilegível"}}
	text := "SUPERMERCADO X\nCNPJ: 12.345.678/0001-95\nCUPOM FISCAL"

	printed, digits, ok := extractCNPJ(pairs, text)
	require.True(t, ok)
	assert.Equal(t, "12.345.678/0001-95", printed)
	assert.Equal(t, "12345678000195", digits)
}

func TestExtractCNPJTextRequiresLabel(t *testing.T) {
	// A bare 14-digit number without the CNPJ label must not match.
	_, _, ok := extractCNPJ(nil, "CHAVE 12.345.678/0001-95")
	assert.False(t, ok)

	_, _, ok = extractCNPJ(nil, "sem identificação fiscal")
	assert.False(t, ok)
}

func TestExtractCNPJUnformattedText(t *testing.T) {
	printed, digits, ok := extractCNPJ(nil, "CNPJ 12345678000195 LOJA 03")
	require.True(t, ok)
	assert.Equal(t, "12345678000195", printed)
	assert.Equal(t, "12345678000195", digits)
}

func TestApplyFields(t *testing.T) {
	rec := models.NewReceipt()
	applyFields(rec, ocr.ReceiptFields{
		MerchantName: &ocr.TextField{Value: "PADARIA CENTRAL", Confidence: 0.97},
		Total:        &ocr.AmountField{Value: 42.9, Confidence: 0.88},
	})

	assert.Equal(t, "PADARIA CENTRAL", rec.MerchantName.Value)
	assert.InDelta(t, 0.97, rec.MerchantName.Confidence, 0.001)
	assert.Equal(t, 42.9, rec.Total.Value)

	// Absent fields keep the empty sentinel.
	assert.Equal(t, models.EmptyField(), rec.Subtotal)
	assert.Equal(t, models.EmptyField(), rec.TransactionDate)
}
