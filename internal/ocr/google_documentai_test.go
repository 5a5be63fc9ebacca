package ocr

import (
	"testing"
	"time"

	"cloud.google.com/go/documentai/apiv1/documentaipb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genproto/googleapis/type/date"
	"google.golang.org/genproto/googleapis/type/money"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    float64
		wantErr bool
	}{
		{name: "brazilian with symbol", input: "R$ 1.234,56", want: 1234.56},
		{name: "brazilian decimal only", input: "45,90", want: 45.90},
		{name: "english decimal", input: "12.34", want: 12.34},
		{name: "thousands and decimal", input: "7.303,08", want: 7303.08},
		{name: "integer", input: "100", want: 100},
		{name: "currency code", input: "BRL 89,00", want: 89},
		{name: "garbage", input: "abc", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseAmount(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 0.0001)
		})
	}
}

func TestExtractDateNormalizedValue(t *testing.T) {
	entity := &documentaipb.Document_Entity{
		Type:        "receipt_date",
		MentionText: "15/03/2024",
		NormalizedValue: &documentaipb.Document_Entity_NormalizedValue{
			StructuredValue: &documentaipb.Document_Entity_NormalizedValue_DateValue{
				DateValue: &date.Date{Year: 2024, Month: 3, Day: 15},
			},
		},
	}

	got, err := extractDate(entity)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC), got)
}

func TestExtractDateMentionTextFallback(t *testing.T) {
	entity := &documentaipb.Document_Entity{
		Type:        "receipt_date",
		MentionText: "02/07/2023",
	}

	got, err := extractDate(entity)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2023, time.July, 2, 0, 0, 0, 0, time.UTC), got)
}

func TestExtractDateUnparseable(t *testing.T) {
	entity := &documentaipb.Document_Entity{MentionText: "sometime last week"}

	_, err := extractDate(entity)
	assert.Error(t, err)
}

func TestExtractAmountNormalizedValue(t *testing.T) {
	entity := &documentaipb.Document_Entity{
		Type:        "total_amount",
		MentionText: "R$ 59,50",
		NormalizedValue: &documentaipb.Document_Entity_NormalizedValue{
			StructuredValue: &documentaipb.Document_Entity_NormalizedValue_MoneyValue{
				MoneyValue: &money.Money{CurrencyCode: "BRL", Units: 59, Nanos: 500000000},
			},
		},
	}

	got, err := extractAmount(entity)
	require.NoError(t, err)
	assert.InDelta(t, 59.50, got, 0.0001)
}

func TestExtractFields(t *testing.T) {
	a := &DocumentAIAnalyzer{}
	doc := &documentaipb.Document{
		Text: "PADARIA CENTRAL\n15/03/2024\nTOTAL R$ 42,90",
		Entities: []*documentaipb.Document_Entity{
			{Type: "supplier_name", MentionText: "PADARIA CENTRAL", Confidence: 0.97},
			{Type: "receipt_date", MentionText: "15/03/2024", Confidence: 0.92},
			{Type: "total_amount", MentionText: "R$ 42,90", Confidence: 0.88},
			{Type: "total_tax_amount", MentionText: "3,20", Confidence: 0.75},
			{Type: "line_item", MentionText: "PAO FRANCES", Confidence: 0.9},
		},
	}

	fields := a.extractFields(doc)

	require.NotNil(t, fields.MerchantName)
	assert.Equal(t, "PADARIA CENTRAL", fields.MerchantName.Value)
	assert.InDelta(t, 0.97, fields.MerchantName.Confidence, 0.001)

	require.NotNil(t, fields.TransactionDate)
	assert.Equal(t, "15/03/2024", fields.TransactionDate.Raw)
	assert.Equal(t, time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC), fields.TransactionDate.Value)

	require.NotNil(t, fields.Total)
	assert.InDelta(t, 42.90, fields.Total.Value, 0.0001)

	require.NotNil(t, fields.TotalTax)
	assert.InDelta(t, 3.20, fields.TotalTax.Value, 0.0001)

	assert.Nil(t, fields.Subtotal)
}

func anchoredLayout(start, end int, conf float32) *documentaipb.Document_Page_Layout {
	return &documentaipb.Document_Page_Layout{
		Confidence: conf,
		TextAnchor: &documentaipb.Document_TextAnchor{
			TextSegments: []*documentaipb.Document_TextAnchor_TextSegment{
				{StartIndex: int64(start), EndIndex: int64(end)},
			},
		},
	}
}

func TestExtractKeyValues(t *testing.T) {
	text := "CNPJ: 12.345.678/0001-95\nDATA: 15/03/2024"
	doc := &documentaipb.Document{
		Text: text,
		Pages: []*documentaipb.Document_Page{
			{
				FormFields: []*documentaipb.Document_Page_FormField{
					{
						FieldName:  anchoredLayout(0, 5, 0.95),
						FieldValue: anchoredLayout(6, 24, 0.91),
					},
					{
						FieldName:  anchoredLayout(25, 30, 0.9),
						FieldValue: anchoredLayout(31, 41, 0.89),
					},
					{
						// Missing value layout is skipped.
						FieldName: anchoredLayout(0, 5, 0.5),
					},
				},
			},
		},
	}

	pairs := extractKeyValues(doc)
	require.Len(t, pairs, 2)

	assert.Equal(t, "CNPJ:", pairs[0].Key)
	assert.Equal(t, "12.345.678/0001-95", pairs[0].Value)
	assert.InDelta(t, 0.91, pairs[0].Confidence, 0.001)

	assert.Equal(t, "DATA:", pairs[1].Key)
	assert.Equal(t, "15/03/2024", pairs[1].Value)
}

func TestTextFromLayoutOutOfRange(t *testing.T) {
	layout := anchoredLayout(10, 100, 0.9)
	assert.Equal(t, "", textFromLayout("short", layout))
	assert.Equal(t, "", textFromLayout("short", nil))
}
