// Package httpclient es el cliente JSON compartido por los adapters que hablan
// con colaboradores externos (identity provider, billing).
package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"
)

const (
	DefaultTimeout = 10 * time.Second

	// RequestIDHeader lleva el request id de chi hacia el colaborador.
	RequestIDHeader = "X-Request-ID"

	maxBody = 1 << 20
)

type Client struct {
	HTTP    *http.Client
	BaseURL string

	// Headers fijos (API key del servicio, etc.).
	Headers map[string]string
}

func New(timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{HTTP: &http.Client{Timeout: timeout}}
}

func NewWithBaseURL(baseURL string, timeout time.Duration) (*Client, error) {
	c := New(timeout)
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return c, nil
	}
	u, err := url.ParseRequestURI(baseURL)
	if err != nil || u.Host == "" {
		return nil, fmt.Errorf("invalid base url %q", baseURL)
	}
	c.BaseURL = strings.TrimRight(baseURL, "/")
	return c, nil
}

// WithHeader agrega un header fijo. Encadenable.
func (c *Client) WithHeader(key, value string) *Client {
	if strings.TrimSpace(key) == "" {
		return c
	}
	if c.Headers == nil {
		c.Headers = map[string]string{}
	}
	c.Headers[key] = value
	return c
}

// HTTPError es una respuesta no-2xx del colaborador.
type HTTPError struct {
	StatusCode int
	Body       string
	RetryAfter time.Duration
}

func (e *HTTPError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("upstream status %d", e.StatusCode)
	}
	return fmt.Sprintf("upstream status %d: %s", e.StatusCode, e.Body)
}

// StatusCode devuelve el status de un *HTTPError (0 si err no lo es).
func StatusCode(err error) int {
	var he *HTTPError
	if errors.As(err, &he) {
		return he.StatusCode
	}
	return 0
}

// Retryable indica si vale la pena reintentar más tarde: errores de red,
// timeouts, 429 y 5xx. Los 4xx restantes son definitivos.
func Retryable(err error) bool {
	if err == nil {
		return false
	}
	var he *HTTPError
	if errors.As(err, &he) {
		return he.StatusCode == http.StatusTooManyRequests || he.StatusCode >= 500
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	if errors.As(err, &ne) {
		return true
	}
	var ue *url.Error
	return errors.As(err, &ue)
}

// DoJSON manda in como JSON (nil => sin body) y decodifica la respuesta en out
// (nil => se descarta). pathOrURL puede ser relativo si hay BaseURL.
func (c *Client) DoJSON(ctx context.Context, method, pathOrURL string, headers map[string]string, in, out any) error {
	if c == nil || c.HTTP == nil {
		return errors.New("httpclient: nil client")
	}

	req, err := c.newRequest(ctx, method, pathOrURL, headers, in)
	if err != nil {
		return err
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return fmt.Errorf("httpclient: %s %s: %w", method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &HTTPError{
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(raw)),
			RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After")),
		}
	}

	if out == nil || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("httpclient: decode response: %w", err)
	}
	return nil
}

func (c *Client) newRequest(ctx context.Context, method, pathOrURL string, headers map[string]string, in any) (*http.Request, error) {
	fullURL, err := c.resolveURL(pathOrURL)
	if err != nil {
		return nil, err
	}

	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return nil, fmt.Errorf("httpclient: encode request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, fullURL, body)
	if err != nil {
		return nil, fmt.Errorf("httpclient: new request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if id := chimw.GetReqID(ctx); id != "" {
		req.Header.Set(RequestIDHeader, id)
	}
	for k, v := range c.Headers {
		req.Header.Set(k, v)
	}
	for k, v := range headers {
		if strings.TrimSpace(k) != "" {
			req.Header.Set(k, v)
		}
	}
	return req, nil
}

func (c *Client) resolveURL(pathOrURL string) (string, error) {
	pathOrURL = strings.TrimSpace(pathOrURL)
	switch {
	case pathOrURL == "":
		return "", errors.New("httpclient: empty url")
	case strings.HasPrefix(pathOrURL, "http://"), strings.HasPrefix(pathOrURL, "https://"):
		return pathOrURL, nil
	case c.BaseURL == "":
		return "", errors.New("httpclient: relative path requires BaseURL")
	}
	if !strings.HasPrefix(pathOrURL, "/") {
		pathOrURL = "/" + pathOrURL
	}
	return c.BaseURL + pathOrURL, nil
}

// parseRetryAfter solo entiende la forma en segundos.
func parseRetryAfter(v string) time.Duration {
	secs, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil || secs <= 0 {
		return 0
	}
	return time.Duration(secs) * time.Second
}
