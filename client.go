package endpointreg

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"

	"github.com/slashdevops/endpointreg/internal/version"
)

// Client is an authenticated HTTP client for the management server API.
// A Client is safe for concurrent use.
type Client struct {
	baseURL      string
	token        string
	userAgent    string
	httpClient   *http.Client
	insecureTLS  bool
	proxyFromEnv bool
	logger       *slog.Logger
}

// ClientOption configures a [Client].
type ClientOption func(*Client)

// WithHTTPClient uses httpClient as is. TLS and proxy options are ignored.
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithInsecureTLS disables verification of the server certificate.
func WithInsecureTLS(insecure bool) ClientOption {
	return func(c *Client) {
		c.insecureTLS = insecure
	}
}

// WithProxyFromEnvironment routes requests through the proxy named by
// HTTPS_PROXY / HTTP_PROXY / NO_PROXY. Without it no proxy is used.
func WithProxyFromEnvironment(enabled bool) ClientOption {
	return func(c *Client) {
		c.proxyFromEnv = enabled
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(userAgent string) ClientOption {
	return func(c *Client) {
		c.userAgent = userAgent
	}
}

// WithClientLogger sets an optional [*slog.Logger]. A nil logger disables logging.
func WithClientLogger(logger *slog.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient returns a Client for the server at baseURL authenticating with token.
func NewClient(baseURL, token string, opts ...ClientOption) (*Client, error) {
	base := sanitizeBaseURL(baseURL)
	if base == "" {
		return nil, ErrMissingBaseURL
	}

	u, err := url.Parse(base)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidBaseURL, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidBaseURL, baseURL)
	}

	if strings.TrimSpace(token) == "" {
		return nil, ErrMissingAPIToken
	}

	c := &Client{
		baseURL:   base,
		token:     strings.TrimSpace(token),
		userAgent: "endpointreg/" + version.Effective(),
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.httpClient == nil {
		c.httpClient = &http.Client{Transport: c.transport()}
	}

	return c, nil
}

// BaseURL returns the sanitized server URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

func (c *Client) transport() *http.Transport {
	t := http.DefaultTransport.(*http.Transport).Clone()
	t.Proxy = nil
	if c.proxyFromEnv {
		t.Proxy = http.ProxyFromEnvironment
	}
	if c.insecureTLS {
		t.TLSClientConfig = &tls.Config{InsecureSkipVerify: true} //nolint:gosec // operator opt-in
	}

	return t
}

// postJSON sends body as JSON to path relative to the base URL.
// The caller owns the response body.
func (c *Client) postJSON(ctx context.Context, path string, body any) (*http.Response, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, &InternalError{Op: "encode", Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return nil, &InternalError{Op: "send", Err: err}
	}

	requestID := uuid.NewString()
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("X-Request-ID", requestID)

	c.logDebug("sending request", "method", http.MethodPost, "path", path, "request_id", requestID, "bytes", len(payload))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &InternalError{Op: "send", Err: err}
	}

	c.logDebug("received response", "path", path, "request_id", requestID, "status", resp.StatusCode)

	return resp, nil
}

func (c *Client) logDebug(msg string, args ...any) {
	if c.logger != nil {
		c.logger.Debug(msg, args...)
	}
}

func (c *Client) logInfo(msg string, args ...any) {
	if c.logger != nil {
		c.logger.Info(msg, args...)
	}
}

func (c *Client) logWarn(msg string, args ...any) {
	if c.logger != nil {
		c.logger.Warn(msg, args...)
	}
}

func sanitizeBaseURL(raw string) string {
	trimmed := strings.TrimSpace(raw)
	return strings.TrimRight(trimmed, "/")
}
