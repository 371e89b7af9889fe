package upstream

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/okian/fplboard/internal/domain/metric"
	"github.com/okian/fplboard/pkg/logger"
	"github.com/okian/fplboard/pkg/metrics"
)

const (
	defaultTimeout = 10 * time.Second
	maxBodyBytes   = 32 << 20
	snippetBytes   = 256
)

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// Client reads datasets from the analytics service.
type Client struct {
	baseURL string
	http    *http.Client
	timeout time.Duration
	logger  logger.Logger
}

// New creates a client for the given base URL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{},
		timeout: defaultTimeout,
		logger:  logger.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Fetch downloads and decodes one dataset.
func (c *Client) Fetch(ctx context.Context, ds Dataset) ([]metric.Raw, error) {
	const op = "upstream.fetch"

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	start := time.Now()
	defer func() {
		metrics.RecordUpstreamLatency(ds.Name, float64(time.Since(start).Milliseconds()))
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+ds.Path, nil)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w: %v", op, ds.Name, ErrUpstream, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w: %v", op, ds.Name, ErrUpstream, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("%s %s: read body: %w: %v", op, ds.Name, ErrUpstream, err)
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("%s %s: %w", op, ds.Name, ErrNotFound)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		c.logger.Warn(ctx, "analytics service returned an error",
			logger.String("dataset", ds.Name),
			logger.Int("status", resp.StatusCode),
			logger.String("body", snippet(body)),
		)
		return nil, fmt.Errorf("%s %s: status %d: %w", op, ds.Name, resp.StatusCode, ErrUpstream)
	}

	records, err := ds.Decode(body)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", op, ds.Name, err)
	}
	c.logger.Debug(ctx, "fetched dataset",
		logger.String("dataset", ds.Name),
		logger.Int("records", len(records)),
		logger.Duration("elapsed", time.Since(start)),
	)
	return records, nil
}

func snippet(b []byte) string {
	if len(b) > snippetBytes {
		b = b[:snippetBytes]
	}
	return string(b)
}
