// Package client talks to the llms.txt generation service.
//
// Two entry points exist over the same remote capability:
//
//   - Generate performs a single request/response exchange and returns the
//     finished llms.txt document.
//   - GenerateStream opens a text/event-stream exchange and reports discovery,
//     per-page progress and the final result to caller supplied Handlers as
//     frames arrive. It returns a Stream whose Cancel method aborts the
//     exchange without reporting an error.
//
// The client performs no URL validation beyond rejecting an empty string;
// the service is the authority on what it can generate.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/papercomputeco/llmstxt/pkg/logger"
)

const (
	// DefaultGeneratePath is the one-shot generation endpoint.
	DefaultGeneratePath = "/api/generate"

	// DefaultStreamPath is the streaming generation endpoint.
	DefaultStreamPath = "/api/generate-stream"

	// RequestIDHeader carries the per-exchange id so client and service logs
	// can be correlated.
	RequestIDHeader = "X-Request-Id"

	defaultReadBufferSize = 4 * 1024
)

// Doer is the transport capability the client needs. *http.Client satisfies it.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client issues generation requests against a single service base URL.
// A Client is safe for concurrent use; every call owns its own request,
// response body and decode buffer.
type Client struct {
	baseURL        string
	generatePath   string
	streamPath     string
	readBufferSize int
	headers        http.Header

	httpClient Doer
	logger     *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the transport. Defaults to a plain *http.Client
// without a timeout, since streams may legitimately run for minutes.
func WithHTTPClient(d Doer) Option {
	return func(c *Client) {
		c.httpClient = d
	}
}

// WithLogger sets the logger. Defaults to a no-op logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		c.logger = l
	}
}

// WithGeneratePath overrides the one-shot endpoint path. An empty path keeps
// the default.
func WithGeneratePath(p string) Option {
	return func(c *Client) {
		if p != "" {
			c.generatePath = p
		}
	}
}

// WithStreamPath overrides the streaming endpoint path. An empty path keeps
// the default.
func WithStreamPath(p string) Option {
	return func(c *Client) {
		if p != "" {
			c.streamPath = p
		}
	}
}

// WithReadBufferSize sets how many bytes are requested per body read in
// streaming mode.
func WithReadBufferSize(n int) Option {
	return func(c *Client) {
		c.readBufferSize = n
	}
}

// WithHeader adds a header sent with every request.
func WithHeader(key, value string) Option {
	return func(c *Client) {
		c.headers.Set(key, value)
	}
}

// New creates a Client for the service at baseURL (scheme + host, optionally
// a path prefix).
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid service URL: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid service URL %q: scheme and host are required", baseURL)
	}

	c := &Client{
		baseURL:        strings.TrimRight(baseURL, "/"),
		generatePath:   DefaultGeneratePath,
		streamPath:     DefaultStreamPath,
		readBufferSize: defaultReadBufferSize,
		headers:        http.Header{},
		httpClient:     &http.Client{},
		logger:         logger.Nop(),
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.readBufferSize <= 0 {
		return nil, errors.New("read buffer size must be positive")
	}
	if c.httpClient == nil {
		return nil, errors.New("http client is required")
	}
	if c.logger == nil {
		c.logger = logger.Nop()
	}

	return c, nil
}

// BaseURL returns the service URL the client was created with.
func (c *Client) BaseURL() string {
	return c.baseURL
}

type generateRequest struct {
	URL string `json:"url"`
}

// newRequest builds the POST carrying {"url": siteURL}.
func (c *Client) newRequest(ctx context.Context, path, siteURL, requestID, accept string) (*http.Request, error) {
	body, err := json.Marshal(generateRequest{URL: siteURL})
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	for k, vs := range c.headers {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", accept)
	req.Header.Set(RequestIDHeader, requestID)

	return req, nil
}

func isSuccess(status int) bool {
	return status >= 200 && status < 300
}
