// Package identity verifica bearer tokens contra el identity provider externo.
package identity

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"pet-health-core/internal/platform/httpclient"
	"pet-health-core/internal/platform/storeerr"
	"pet-health-core/internal/ports/auth"
)

var (
	ErrNotConfigured = errors.New("identity provider not configured")
	ErrUnauthorized  = errors.New("identity provider rejected token")
	ErrUpstream      = errors.New("identity provider upstream error")
	ErrTokenEmpty    = errors.New("token is empty")
)

const verifyPath = "/v1/tokens/verify"

type Config struct {
	BaseURL string
	APIKey  string

	// Header donde se manda la API key. Default "X-Api-Key".
	APIKeyHeader string
	Timeout      time.Duration
}

// Verifier implementa auth.AuthVerifier delegando en el identity provider.
type Verifier struct {
	client *httpclient.Client
}

func NewVerifier(cfg Config) (*Verifier, error) {
	if strings.TrimSpace(cfg.BaseURL) == "" || strings.TrimSpace(cfg.APIKey) == "" {
		return nil, ErrNotConfigured
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	h := strings.TrimSpace(cfg.APIKeyHeader)
	if h == "" {
		h = "X-Api-Key"
	}

	c, err := httpclient.NewWithBaseURL(strings.TrimSpace(cfg.BaseURL), timeout)
	if err != nil {
		return nil, err
	}
	c.WithHeader(h, strings.TrimSpace(cfg.APIKey))

	return &Verifier{client: c}, nil
}

type verifyRequest struct {
	Token string `json:"token"`
}

type verifyResponse struct {
	UserID      string `json:"user_id"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
}

func (v *Verifier) Verify(ctx context.Context, token string) (auth.Claims, error) {
	if v == nil || v.client == nil {
		return auth.Claims{}, ErrNotConfigured
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return auth.Claims{}, ErrTokenEmpty
	}

	var out verifyResponse
	err := v.client.DoJSON(ctx, http.MethodPost, verifyPath,
		map[string]string{"Authorization": "Bearer " + token},
		verifyRequest{Token: token},
		&out,
	)
	if err != nil {
		switch httpclient.StatusCode(err) {
		case http.StatusUnauthorized, http.StatusForbidden:
			return auth.Claims{}, ErrUnauthorized
		default:
			if httpclient.Retryable(err) {
				return auth.Claims{}, storeerr.Transient(fmt.Errorf("%w: %v", ErrUpstream, err))
			}
			return auth.Claims{}, fmt.Errorf("%w: %v", ErrUpstream, err)
		}
	}

	out.UserID = strings.TrimSpace(out.UserID)
	if out.UserID == "" {
		return auth.Claims{}, fmt.Errorf("%w: response missing user_id", ErrUpstream)
	}

	return auth.Claims{
		UserID:      out.UserID,
		Email:       strings.TrimSpace(out.Email),
		DisplayName: strings.TrimSpace(out.DisplayName),
	}, nil
}
