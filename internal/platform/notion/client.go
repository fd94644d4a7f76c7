package notion

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	// DefaultBaseURL is the public API endpoint.
	DefaultBaseURL = "https://api.notion.com/v1"
	// DefaultVersion is the API version sent with every request.
	DefaultVersion = "2022-06-28"
	// DefaultTimeout bounds a single call when no timeout is configured.
	DefaultTimeout = 30 * time.Second

	maxErrorBody = 64 << 10
)

// Client is a Notion API client bound to one integration credential.
// It is safe for concurrent use.
type Client struct {
	token         string
	baseURL       string
	version       string
	timeout       time.Duration
	httpClient    *http.Client
	enableMetrics bool
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the API endpoint.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(u, "/") }
}

// WithVersion overrides the API version header.
func WithVersion(v string) Option {
	return func(c *Client) { c.version = v }
}

// WithTimeout sets the per-call deadline.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.httpClient = h }
}

// WithMetrics enables Prometheus instrumentation of API calls.
func WithMetrics(enabled bool) Option {
	return func(c *Client) { c.enableMetrics = enabled }
}

// NewClient creates a client for the given integration token.
func NewClient(token string, opts ...Option) *Client {
	c := &Client{
		token:      token,
		baseURL:    DefaultBaseURL,
		version:    DefaultVersion,
		timeout:    DefaultTimeout,
		httpClient: &http.Client{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// call performs one request. body and out may be nil.
func (c *Client) call(ctx context.Context, op, method, path string, body, out any) (err error) {
	start := time.Now()
	defer func() { c.recordAPICall(op, err, time.Since(start)) }()

	if c.token == "" {
		return &AuthError{Operation: op, Message: "no API token configured"}
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("notion %s: encode request: %w", op, err)
		}
		reader = bytes.NewReader(data)
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	req, err := c.newRequest(ctx, method, path, reader)
	if err != nil {
		return fmt.Errorf("notion %s: %w", op, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &TransportError{Operation: op, Err: unwrapURLError(err)}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return c.decodeError(op, resp)
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &TransportError{Operation: op, Status: resp.StatusCode, Message: "malformed response body", Err: err}
	}
	return nil
}

func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Notion-Version", c.version)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req, nil
}

// decodeError maps a non-2xx response to a typed error using only the
// service's structured envelope.
func (c *Client) decodeError(op string, resp *http.Response) error {
	var env errorEnvelope
	data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err := json.Unmarshal(data, &env); err != nil || env.Message == "" {
		env.Message = http.StatusText(resp.StatusCode)
	}

	if resp.StatusCode == http.StatusUnauthorized {
		return &AuthError{Operation: op, Status: resp.StatusCode, Message: env.Message}
	}
	return &TransportError{
		Operation: op,
		Status:    resp.StatusCode,
		Code:      env.Code,
		Message:   env.Message,
	}
}

// unwrapURLError drops the *url.Error wrapper so the request URL is not
// repeated in messages; the underlying cause is kept for errors.Is.
func unwrapURLError(err error) error {
	var uErr *url.Error
	if errors.As(err, &uErr) && uErr.Err != nil {
		return uErr.Err
	}
	return err
}
