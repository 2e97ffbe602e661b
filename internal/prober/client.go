package prober

import (
	"errors"
	"net/http"
	"time"
)

// DefaultTimeout is the per-request timeout used when none is configured.
const DefaultTimeout = 1 * time.Second

// connection pooling sized for large batches against a small set of hosts
const (
	defaultMaxIdleConns        = 1000
	defaultMaxIdleConnsPerHost = 100
	defaultIdleConnTimeout     = 60 * time.Second
)

// Client is the HTTP client shared by every probe for the process lifetime.
//
// The timeout is applied at the client level and covers the whole request,
// including connection setup, TLS handshake, and reading the response
// headers. Client is never reconfigured after [NewClient] returns.
type Client struct {
	httpClient *http.Client
	timeout    time.Duration
}

// NewClient creates a [Client] with the given per-request timeout.
//
// No limit is placed on concurrent connections per host; the batch size is
// the only bound on in-flight requests. Returns an error if timeout is not
// positive.
func NewClient(timeout time.Duration) (*Client, error) {
	if timeout <= 0 {
		return nil, errors.New("timeout must be positive")
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				Proxy:               http.ProxyFromEnvironment,
				MaxIdleConns:        defaultMaxIdleConns,
				MaxIdleConnsPerHost: defaultMaxIdleConnsPerHost,
				IdleConnTimeout:     defaultIdleConnTimeout,
				TLSHandshakeTimeout: timeout,
			},
		},
		timeout: timeout,
	}, nil
}

// Timeout returns the configured per-request timeout.
func (c *Client) Timeout() time.Duration {
	return c.timeout
}

// Close closes all idle connections in the client's connection pool.
//
// Safe to call multiple times and on a nil receiver. The client remains
// usable afterwards; new connections are dialled as needed.
func (c *Client) Close() {
	if c == nil || c.httpClient == nil {
		return
	}
	if transport, ok := c.httpClient.Transport.(*http.Transport); ok {
		transport.CloseIdleConnections()
	}
}
