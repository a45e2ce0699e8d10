package erpstaff

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

var (
	ErrStaffNotConfigured = errors.New("erp staff client not configured")
	ErrStaffUnauthorized  = errors.New("erp staff unauthorized")
	ErrStaffUpstream      = errors.New("erp staff upstream error")
)

type Config struct {
	BaseURL string
	APIKey  string

	APIKeyHeader string
	Timeout      time.Duration
}

type Client struct {
	baseURL      string
	apiKey       string
	apiKeyHeader string
	httpClient   *http.Client
}

func NewClient(cfg Config) *Client {
	h := strings.TrimSpace(cfg.APIKeyHeader)
	if h == "" {
		h = "X-Api-Key"
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	return &Client{
		baseURL:      strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"),
		apiKey:       strings.TrimSpace(cfg.APIKey),
		apiKeyHeader: h,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

func (c *Client) IsConfigured() bool {
	return c != nil && c.baseURL != "" && c.apiKey != ""
}

type staffResponse struct {
	// Ejemplo: {"roles": ["funcionario"]}
	Roles []string `json:"roles"`
}

// GetRoles trae los roles de un usuario desde el cadastro de equipo
// del ERP.
func (c *Client) GetRoles(ctx context.Context, userID string) ([]string, error) {
	if !c.IsConfigured() {
		return nil, ErrStaffNotConfigured
	}
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, errors.New("userID required")
	}

	endpoint := fmt.Sprintf("%s/v1/equipe/%s/roles", c.baseURL, url.PathEscape(userID))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStaffUpstream, err)
	}
	req.Header.Set(c.apiKeyHeader, c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStaffUpstream, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		// ok
	case http.StatusUnauthorized, http.StatusForbidden:
		return nil, ErrStaffUnauthorized
	default:
		return nil, fmt.Errorf("%w: status=%d", ErrStaffUpstream, resp.StatusCode)
	}

	var out staffResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("%w: invalid json: %v", ErrStaffUpstream, err)
	}
	return out.Roles, nil
}
