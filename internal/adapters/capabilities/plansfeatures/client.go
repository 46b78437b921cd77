package plansfeatures

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"pet-health-core/internal/platform/httpclient"
	"pet-health-core/internal/platform/storeerr"
)

var (
	ErrPlansNotConfigured = errors.New("plans-features client not configured")
	ErrPlansUnauthorized  = errors.New("plans-features unauthorized")
	ErrPlansUpstream      = errors.New("plans-features upstream error")
)

type Config struct {
	BaseURL string
	APIKey  string

	APIKeyHeader string
	Timeout      time.Duration
}

type Client struct {
	http       *httpclient.Client
	configured bool
}

func NewClient(cfg Config) (*Client, error) {
	h := strings.TrimSpace(cfg.APIKeyHeader)
	if h == "" {
		h = "X-Api-Key"
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	base := strings.TrimSpace(cfg.BaseURL)
	key := strings.TrimSpace(cfg.APIKey)

	hc, err := httpclient.NewWithBaseURL(base, timeout)
	if err != nil {
		return nil, err
	}
	hc.WithHeader(h, key)

	return &Client{
		http:       hc,
		configured: base != "" && key != "",
	}, nil
}

func (c *Client) IsConfigured() bool {
	return c != nil && c.configured
}

// CapabilitiesResponse: {"capabilities": {"premium": true}}
type CapabilitiesResponse struct {
	Capabilities map[string]bool `json:"capabilities"`
}

// GetCapabilities trae las capabilities de un usuario (GET /v1/capabilities?user_id=...).
func (c *Client) GetCapabilities(ctx context.Context, userID string) (CapabilitiesResponse, error) {
	if !c.IsConfigured() {
		return CapabilitiesResponse{}, ErrPlansNotConfigured
	}
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return CapabilitiesResponse{}, errors.New("userID required")
	}

	path := "/v1/capabilities?user_id=" + url.QueryEscape(userID)

	var out CapabilitiesResponse
	if err := c.http.DoJSON(ctx, http.MethodGet, path, nil, nil, &out); err != nil {
		switch httpclient.StatusCode(err) {
		case http.StatusUnauthorized, http.StatusForbidden:
			return CapabilitiesResponse{}, ErrPlansUnauthorized
		default:
			if httpclient.Retryable(err) {
				return CapabilitiesResponse{}, storeerr.Transient(fmt.Errorf("%w: %v", ErrPlansUpstream, err))
			}
			return CapabilitiesResponse{}, fmt.Errorf("%w: %v", ErrPlansUpstream, err)
		}
	}
	if out.Capabilities == nil {
		out.Capabilities = map[string]bool{}
	}
	return out, nil
}
