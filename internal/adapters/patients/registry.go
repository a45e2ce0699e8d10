// Package patients adapta el cadastro central de pacientes del ERP al
// puerto patients.Registry.
package patients

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"pet-inpatient-care/internal/platform/httpclient"
)

var ErrNotConfigured = errors.New("patient registry client not configured")

type Config struct {
	BaseURL string
	APIKey  string

	APIKeyHeader string
	Timeout      time.Duration
}

type HTTPRegistry struct {
	client       *httpclient.Client
	apiKey       string
	apiKeyHeader string
}

func NewHTTPRegistry(cfg Config) (*HTTPRegistry, error) {
	client, err := httpclient.New(cfg.BaseURL, cfg.Timeout)
	if err != nil {
		return nil, err
	}
	header := strings.TrimSpace(cfg.APIKeyHeader)
	if header == "" {
		header = "X-Api-Key"
	}
	return &HTTPRegistry{
		client:       client,
		apiKey:       strings.TrimSpace(cfg.APIKey),
		apiKeyHeader: header,
	}, nil
}

type deceasedRequest struct {
	Falecido bool `json:"falecido"`
}

// MarkDeceased marca el paciente como fallecido en el cadastro central.
// El llamador trata el error como best-effort.
func (r *HTTPRegistry) MarkDeceased(ctx context.Context, petID string) error {
	if r == nil || r.client == nil || r.client.BaseURL == "" {
		return ErrNotConfigured
	}
	petID = strings.TrimSpace(petID)
	if petID == "" {
		return errors.New("petID required")
	}

	path := fmt.Sprintf("/v1/pets/%s/falecimento", url.PathEscape(petID))
	headers := map[string]string{}
	if r.apiKey != "" {
		headers[r.apiKeyHeader] = r.apiKey
	}

	return r.client.DoJSON(ctx, http.MethodPost, path, headers, deceasedRequest{Falecido: true}, nil)
}
