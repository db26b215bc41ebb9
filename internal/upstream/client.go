// Package upstream is the HTTP client for the organizer platform API.
// The console holds no state of its own; every read model and every
// mutation in this package round-trips to the platform.
package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

const (
	// DefaultUserAgent identifies this client.
	DefaultUserAgent = "organizer-console/1.0"
	// DefaultRateLimit caps outbound calls per second.
	DefaultRateLimit = rate.Limit(20.0)
)

// TokenSource yields the organizer access token for one request. The
// server wires this to the console session; tests inject a constant.
type TokenSource func(ctx context.Context) (string, error)

// RequestIDSource yields the correlation ID to forward upstream, if any.
type RequestIDSource func(ctx context.Context) string

// Observer is notified after every upstream round trip. The server
// wires this to the request counter metric.
type Observer func(resource string, status int)

// Client communicates with the organizer platform API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	userAgent  string
	limiter    *rate.Limiter
	tokens     TokenSource
	requestID  RequestIDSource
	observe    Observer
	logger     zerolog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		c.httpClient = client
	}
}

// WithUserAgent sets a custom User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// WithRateLimit sets a custom rate limit (requests per second).
func WithRateLimit(rps float64) Option {
	return func(c *Client) {
		c.limiter = rate.NewLimiter(rate.Limit(rps), 1)
	}
}

// WithTokenSource sets the access-token source.
func WithTokenSource(source TokenSource) Option {
	return func(c *Client) {
		c.tokens = source
	}
}

// WithRequestIDSource sets the correlation-ID source.
func WithRequestIDSource(source RequestIDSource) Option {
	return func(c *Client) {
		c.requestID = source
	}
}

// WithObserver sets the round-trip observer.
func WithObserver(observe Observer) Option {
	return func(c *Client) {
		c.observe = observe
	}
}

// WithLogger sets the client logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient creates an organizer platform API client.
func NewClient(baseURL string, opts ...Option) *Client {
	client := &Client{
		httpClient: http.DefaultClient,
		baseURL:    strings.TrimRight(baseURL, "/"),
		userAgent:  DefaultUserAgent,
		limiter:    rate.NewLimiter(DefaultRateLimit, 1),
		tokens:     func(context.Context) (string, error) { return "", nil },
		requestID:  func(context.Context) string { return "" },
		observe:    func(string, int) {},
		logger:     zerolog.Nop(),
	}

	for _, opt := range opts {
		opt(client)
	}

	return client
}

// do executes one request against the platform API and decodes the JSON
// response into out (when out is non-nil). Failures map onto the error
// taxonomy in errors.go. There are no retries: every submission failure
// is terminal for that attempt and classified for the caller.
func (c *Client) do(ctx context.Context, method, path, resource string, query url.Values, body io.Reader, contentType string, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return &OtherError{Status: http.StatusInternalServerError, Err: fmt.Errorf("rate limiter: %w", err)}
	}

	reqURL := c.baseURL + path
	if len(query) > 0 {
		reqURL += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, body)
	if err != nil {
		return &OtherError{Status: http.StatusInternalServerError, Err: fmt.Errorf("create request: %w", err)}
	}

	token, err := c.tokens(ctx)
	if err != nil {
		return &AuthError{Status: http.StatusUnauthorized}
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if id := c.requestID(ctx); id != "" {
		req.Header.Set("X-Request-ID", id)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &OtherError{Status: http.StatusInternalServerError, Err: fmt.Errorf("http request: %w", err)}
	}
	defer func() { _ = resp.Body.Close() }()

	c.observe(resource, resp.StatusCode)

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return &OtherError{Status: http.StatusInternalServerError, Err: fmt.Errorf("read response: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.Warn().
			Str("method", method).
			Str("path", path).
			Int("status", resp.StatusCode).
			Msg("upstream call failed")
		return decodeError(resource, resp.StatusCode, respBody)
	}

	if out != nil {
		if err := json.Unmarshal(respBody, out); err != nil {
			return &OtherError{Status: http.StatusInternalServerError, Err: fmt.Errorf("parse response: %w", err)}
		}
	}

	return nil
}

// Ping checks platform reachability without authentication. Any HTTP
// response counts as reachable.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	_ = resp.Body.Close()
	return nil
}

// getJSON issues a GET and decodes the response into out.
func (c *Client) getJSON(ctx context.Context, path, resource string, query url.Values, out any) error {
	return c.do(ctx, http.MethodGet, path, resource, query, nil, "", out)
}

// sendJSON issues a request with a JSON body.
func (c *Client) sendJSON(ctx context.Context, method, path, resource string, payload any, out any) error {
	encoded, err := json.Marshal(payload)
	if err != nil {
		return &OtherError{Status: http.StatusInternalServerError, Err: fmt.Errorf("marshal request: %w", err)}
	}
	return c.do(ctx, method, path, resource, nil, bytes.NewReader(encoded), "application/json", out)
}
