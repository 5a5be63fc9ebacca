package models

import "encoding/json"

// Field is a single extracted value together with the oracle's confidence
// score. A field the oracle did not populate is represented by the ("", 0.0)
// sentinel, never by a missing key.
type Field struct {
	Value      any
	Confidence float64
}

// EmptyField returns the sentinel for an undetected field.
func EmptyField() Field {
	return Field{Value: "", Confidence: 0}
}

// MarshalJSON renders the pair as {"value": ..., "confidence": ...}.
func (f Field) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Value      any     `json:"value"`
		Confidence float64 `json:"confidence"`
	}{f.Value, f.Confidence})
}

// Receipt is the assembled response for one processed image. Fields are set
// incrementally by the pipeline stages; confidence-carrying fields are always
// present in the serialized output.
type Receipt struct {
	IDOCR      string `json:"id_ocr"`
	ImgProcURL string `json:"img_proc_url,omitempty"`

	MerchantName    Field `json:"merchant_name"`
	TransactionDate Field `json:"transaction_date"`
	Subtotal        Field `json:"subtotal"`
	Imposto         Field `json:"imposto"`
	Total           Field `json:"total"`

	CNPJ          string `json:"cnpj"`
	Cidade        string `json:"cidade"`
	Tipo          string `json:"tipo"`
	TipoPagamento string `json:"tipo_pagamento"`
	Moeda         string `json:"moeda"`

	// Errors collects non-fatal stage failures in the order they occurred.
	Errors []string `json:"error,omitempty"`
}

// NewReceipt returns a response with every confidence field initialized to
// the empty sentinel.
func NewReceipt() *Receipt {
	return &Receipt{
		MerchantName:    EmptyField(),
		TransactionDate: EmptyField(),
		Subtotal:        EmptyField(),
		Imposto:         EmptyField(),
		Total:           EmptyField(),
	}
}

// RecordError appends a non-fatal stage failure annotation.
func (r *Receipt) RecordError(msg string) {
	r.Errors = append(r.Errors, msg)
}
