package catapi

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-hclog"
)

const (
	// HeaderAccessToken carries the API key on every request.
	HeaderAccessToken = "access_token"

	// HeaderRequestID correlates a request with client and server logs.
	HeaderRequestID = "X-Request-ID"

	contentTypeJSON = "application/json"
)

// Client talks to a remote Cat over REST. Build one with New and share it; it
// is safe for concurrent use.
type Client struct {
	config     Config
	httpClient *http.Client
	logger     hclog.Logger
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the HTTP client built from Config. The Config timeout
// is not applied to a client supplied this way.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithLogger sets the logger used for request tracing.
func WithLogger(logger hclog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// New creates a Client. The Config is copied, later changes to cfg do not
// affect the Client.
func New(cfg Config, opts ...Option) (*Client, error) {
	cfg = cfg.withDefaults()
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid client config: %w", err)
	}

	c := &Client{
		config: cfg,
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.httpClient == nil {
		c.httpClient = cfg.NewHTTPClient()
	}
	if c.logger == nil {
		c.logger = hclog.NewNullLogger()
	}
	c.logger = c.logger.Named("catapi")

	return c, nil
}

// BaseURL returns the base URL requests are issued against.
func (c *Client) BaseURL() string {
	return c.config.BaseURL
}

// Embedders returns the embedder settings endpoints.
func (c *Client) Embedders() SettingsGroup {
	return SettingsGroup{client: c, prefix: "/settings/embedder/"}
}

// LanguageModels returns the language model settings endpoints.
func (c *Client) LanguageModels() SettingsGroup {
	return SettingsGroup{client: c, prefix: "/settings/llm/"}
}

// Memories returns the memory endpoints.
func (c *Client) Memories() MemoryStore {
	return MemoryStore{client: c}
}

// Plugins returns the plugin endpoints.
func (c *Client) Plugins() PluginRegistry {
	return PluginRegistry{client: c}
}

// RabbitHole returns the ingestion endpoints.
func (c *Client) RabbitHole() IngestionGateway {
	return IngestionGateway{client: c}
}

// requestBody is a payload that knows its own content type.
type requestBody interface {
	encode() (r io.Reader, contentType string, err error)
}

// do executes a single HTTP request. There is no retry: every failure is
// normalized into a *Error and returned.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body requestBody) (*Response, error) {
	endpoint := c.config.BaseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	contentType := contentTypeJSON
	var bodyReader io.Reader
	if body != nil {
		var err error
		bodyReader, contentType, err = body.encode()
		if err != nil {
			return nil, newRequestError(method, endpoint, fmt.Errorf("failed to encode request body: %w", err))
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, bodyReader)
	if err != nil {
		if rc, ok := bodyReader.(io.Closer); ok {
			rc.Close()
		}
		return nil, newRequestError(method, endpoint, fmt.Errorf("failed to create request: %w", err))
	}

	requestID := uuid.NewString()
	req.Header.Set(HeaderAccessToken, c.config.APIKey)
	req.Header.Set("Accept", contentTypeJSON)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set(HeaderRequestID, requestID)
	if c.config.UserAgent != "" {
		req.Header.Set("User-Agent", c.config.UserAgent)
	}

	logger := c.logger.With("method", method, "path", path, "request_id", requestID)
	start := time.Now()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if uerr, ok := asUploadError(err); ok {
			return nil, newRequestError(method, endpoint, uerr)
		}
		e := newTransportError(method, endpoint, requestID, err)
		logger.Debug("request failed", "code", e.Code, "error", err)
		return nil, e
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		e := newTransportError(method, endpoint, requestID, fmt.Errorf("failed to read response: %w", err))
		logger.Debug("request failed", "code", e.Code, "error", err)
		return nil, e
	}

	logger.Debug("request completed",
		"status", resp.StatusCode,
		"duration", time.Since(start),
		"response_bytes", len(respBody),
	)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, newHTTPError(method, endpoint, requestID, resp.StatusCode, respBody)
	}

	return &Response{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       respBody,
		RequestID:  requestID,
	}, nil
}

// segment escapes a caller-supplied value for use as one path segment.
func segment(s string) string {
	return url.PathEscape(s)
}
