// Package registry enriches extracted CNPJ numbers against the public
// Brazilian company registry and the IBGE CNAE table.
//
// Lookup answers "where is this establishment and what does it do" from a
// bare CNPJ digit string; Classify turns the activity division code into its
// human-readable description.
package registry

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"receiptscan/internal/logger"
)

// DefaultTimeout bounds a single registry call.
const DefaultTimeout = 15 * time.Second

// Record is the registry data the pipeline cares about.
type Record struct {
	// Cidade is the establishment's city name.
	Cidade string

	// Divisao is the CNAE division code of the primary activity.
	Divisao string
}

// Client queries the CNPJ registry and the CNAE classification endpoints.
type Client struct {
	http         *http.Client
	lookupBase   string
	classifyBase string
	log          zerolog.Logger
}

// NewClient creates a registry client. lookupBase and classifyBase are the
// CNPJ and CNAE endpoint prefixes; the identifier is appended to each. A nil
// httpClient falls back to a client with DefaultTimeout.
func NewClient(httpClient *http.Client, lookupBase, classifyBase string) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: DefaultTimeout}
	}
	return &Client{
		http:         httpClient,
		lookupBase:   lookupBase,
		classifyBase: classifyBase,
		log:          logger.WithComponent("registry"),
	}
}

// lookupResponse mirrors the registry payload shape. The division code
// arrives as a number or a string depending on the upstream, so it is
// decoded loosely.
type lookupResponse struct {
	Estabelecimento struct {
		Cidade struct {
			Nome string `json:"nome"`
		} `json:"cidade"`
		AtividadePrincipal struct {
			Divisao any `json:"divisao"`
		} `json:"atividade_principal"`
	} `json:"estabelecimento"`
}

// classifyResponse mirrors the CNAE division payload.
type classifyResponse struct {
	Descricao string `json:"descricao"`
}

// Lookup fetches the registry record for a CNPJ given as bare digits. A
// non-200 answer means the CNPJ is unknown and maps to ErrNotFound.
func (c *Client) Lookup(ctx context.Context, cnpjDigits string) (*Record, error) {
	const op = "Lookup"

	if cnpjDigits == "" {
		return nil, WrapRegistryError(op, ErrNotFound, "empty CNPJ")
	}

	var payload lookupResponse
	if err := c.getJSON(ctx, op, c.lookupBase+cnpjDigits, &payload); err != nil {
		return nil, err
	}

	record := &Record{
		Cidade:  payload.Estabelecimento.Cidade.Nome,
		Divisao: divisaoString(payload.Estabelecimento.AtividadePrincipal.Divisao),
	}

	c.log.Debug().
		Str("cnpj", cnpjDigits).
		Str("cidade", record.Cidade).
		Str("divisao", record.Divisao).
		Msg("Registry lookup completed")

	return record, nil
}

// Classify resolves a CNAE division code to its description.
func (c *Client) Classify(ctx context.Context, divisao string) (string, error) {
	const op = "Classify"

	if divisao == "" {
		return "", WrapRegistryError(op, ErrNotFound, "empty division code")
	}

	var payload classifyResponse
	if err := c.getJSON(ctx, op, c.classifyBase+divisao, &payload); err != nil {
		return "", err
	}

	return payload.Descricao, nil
}

func (c *Client) getJSON(ctx context.Context, op, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return WrapRegistryError(op, err, "building request")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return WrapRegistryError(op, ErrUnavailable, err.Error())
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return WrapRegistryError(op, ErrNotFound, fmt.Sprintf("status %d from %s", resp.StatusCode, url))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return WrapRegistryError(op, ErrUnavailable, "reading response body")
	}

	if err := json.Unmarshal(body, out); err != nil {
		return WrapRegistryError(op, ErrMalformedResponse, err.Error())
	}

	return nil
}

// divisaoString normalizes the loosely-typed division code. JSON numbers
// decode as float64, so integral values are printed without a fraction.
func divisaoString(v any) string {
	switch d := v.(type) {
	case string:
		return strings.TrimSpace(d)
	case float64:
		if d == float64(int64(d)) {
			return strconv.FormatInt(int64(d), 10)
		}
		return strconv.FormatFloat(d, 'f', -1, 64)
	case json.Number:
		return d.String()
	default:
		return ""
	}
}
