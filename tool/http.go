package tool

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// HTTPOption configures the HTTP-backed built-in tools.
type HTTPOption func(*httpConfig)

type httpConfig struct {
	client          *http.Client
	maxResponseSize int64
	timeout         time.Duration
	userAgent       string
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(c *http.Client) HTTPOption {
	return func(cfg *httpConfig) {
		cfg.client = c
	}
}

// WithMaxResponseSize sets the maximum response body size.
// Default is 1MB.
func WithMaxResponseSize(bytes int64) HTTPOption {
	return func(cfg *httpConfig) {
		cfg.maxResponseSize = bytes
	}
}

// WithHTTPTimeout sets the request timeout.
// Default is 10 seconds.
func WithHTTPTimeout(d time.Duration) HTTPOption {
	return func(cfg *httpConfig) {
		cfg.timeout = d
	}
}

func applyHTTPOpts(opts []HTTPOption) *httpConfig {
	cfg := &httpConfig{
		maxResponseSize: 1024 * 1024, // 1MB default
		timeout:         10 * time.Second,
		userAgent:       "a2gate/0.1",
	}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.client == nil {
		cfg.client = &http.Client{
			Timeout:   cfg.timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		}
	}
	return cfg
}

// get fetches endpoint with query and returns the size-limited body.
// Non-2xx responses are errors.
func (c *httpConfig) get(ctx context.Context, endpoint string, query url.Values) ([]byte, error) {
	u, err := url.Parse(endpoint)
	if err != nil {
		return nil, err
	}
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxResponseSize))
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%s: unexpected status %s", u.Host, resp.Status)
	}
	return body, nil
}
