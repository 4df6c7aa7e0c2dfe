// Package api provides the HTTP client for the floatchat data-assistant backend.
package api

import (
	"context"
	"fmt"
	"strings"
	"time"

	http "github.com/bogdanfinn/fhttp"
	tls_client "github.com/bogdanfinn/tls-client"
	"github.com/bogdanfinn/tls-client/profiles"

	"github.com/diogo/floatchat/internal/models"
)

// HTTPDoer is the subset of tls_client.HttpClient the backend client needs
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// BackendClient is the contract the session controller and commands rely on
type BackendClient interface {
	Chat(ctx context.Context, prompt string) (*models.ChatReply, error)
	Health(ctx context.Context) (*HealthStatus, error)
	BaseURL() string
	ChatURL() string
}

// Client talks to the backend's /chat and / endpoints
type Client struct {
	httpClient HTTPDoer
	baseURL    string
	sessionID  string
	forceSQL   bool
	timeout    time.Duration
}

// Ensure Client implements BackendClient
var _ BackendClient = (*Client)(nil)

// ClientOption is a function that configures the client
type ClientOption func(*Client)

// WithHTTPClient replaces the default TLS client (used by tests)
func WithHTTPClient(doer HTTPDoer) ClientOption {
	return func(c *Client) {
		c.httpClient = doer
	}
}

// WithSessionID sets the session_id sent with every chat request
func WithSessionID(id string) ClientOption {
	return func(c *Client) {
		c.sessionID = id
	}
}

// WithForceSQL sets the force_sql flag sent with every chat request
func WithForceSQL(enabled bool) ClientOption {
	return func(c *Client) {
		c.forceSQL = enabled
	}
}

// WithTimeout sets the transport timeout
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.timeout = timeout
	}
}

// NewClient creates a client for the backend at baseURL.
// baseURL is expected to be normalized already (see config.ResolveBaseURL).
func NewClient(baseURL string, opts ...ClientOption) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		baseURL = models.DefaultBaseURL
	}

	client := &Client{
		baseURL: baseURL,
		timeout: 300 * time.Second,
	}

	for _, opt := range opts {
		opt(client)
	}

	if client.httpClient == nil {
		options := []tls_client.HttpClientOption{
			tls_client.WithTimeoutSeconds(int(client.timeout / time.Second)),
			tls_client.WithClientProfile(profiles.Chrome_120),
			tls_client.WithNotFollowRedirects(),
		}

		httpClient, err := tls_client.NewHttpClient(tls_client.NewNoopLogger(), options...)
		if err != nil {
			return nil, fmt.Errorf("failed to create HTTP client: %w", err)
		}
		client.httpClient = httpClient
	}

	return client, nil
}

// BaseURL returns the backend base address
func (c *Client) BaseURL() string {
	return c.baseURL
}

// ChatURL returns the full chat endpoint URL
func (c *Client) ChatURL() string {
	return c.baseURL + models.ChatPath
}

// HealthURL returns the full health endpoint URL
func (c *Client) HealthURL() string {
	return c.baseURL + models.HealthPath
}

// SessionID returns the session id forwarded to the backend, if any
func (c *Client) SessionID() string {
	return c.sessionID
}
