package registry

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookup(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/cnpj/12345678000195", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"estabelecimento": {
				"cidade": {"nome": "Curitiba"},
				"atividade_principal": {"divisao": "47"}
			}
		}`))
	}))
	defer srv.Close()

	c := NewClient(srv.Client(), srv.URL+"/cnpj/", srv.URL+"/cnae/")

	record, err := c.Lookup(context.Background(), "12345678000195")
	require.NoError(t, err)
	assert.Equal(t, "Curitiba", record.Cidade)
	assert.Equal(t, "47", record.Divisao)
}

func TestLookupNumericDivision(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"estabelecimento": {
				"cidade": {"nome": "São Paulo"},
				"atividade_principal": {"divisao": 56}
			}
		}`))
	}))
	defer srv.Close()

	c := NewClient(srv.Client(), srv.URL+"/", srv.URL+"/")

	record, err := c.Lookup(context.Background(), "11222333000181")
	require.NoError(t, err)
	assert.Equal(t, "São Paulo", record.Cidade)
	assert.Equal(t, "56", record.Divisao)
}

func TestLookupNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "not found", http.StatusNotFound)
	}))
	defer srv.Close()

	c := NewClient(srv.Client(), srv.URL+"/", srv.URL+"/")

	_, err := c.Lookup(context.Background(), "00000000000000")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLookupEmptyCNPJ(t *testing.T) {
	c := NewClient(nil, "http://unused/", "http://unused/")

	_, err := c.Lookup(context.Background(), "")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLookupMalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"estabelecimento": `))
	}))
	defer srv.Close()

	c := NewClient(srv.Client(), srv.URL+"/", srv.URL+"/")

	_, err := c.Lookup(context.Background(), "12345678000195")
	assert.ErrorIs(t, err, ErrMalformedResponse)
}

func TestClassify(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/cnae/47", r.URL.Path)
		w.Write([]byte(`{"id": "47", "descricao": "Comércio varejista"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.Client(), srv.URL+"/cnpj/", srv.URL+"/cnae/")

	desc, err := c.Classify(context.Background(), "47")
	require.NoError(t, err)
	assert.Equal(t, "Comércio varejista", desc)
}

func TestClassifyUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	c := NewClient(nil, srv.URL+"/", srv.URL+"/")

	_, err := c.Classify(context.Background(), "47")
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestDivisaoString(t *testing.T) {
	assert.Equal(t, "47", divisaoString("47"))
	assert.Equal(t, "47", divisaoString(" 47 "))
	assert.Equal(t, "56", divisaoString(float64(56)))
	assert.Equal(t, "", divisaoString(nil))
}
