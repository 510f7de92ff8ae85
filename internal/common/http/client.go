// internal/common/http/client.go
package http

import (
	"context"
	"net"
	"net/http"
	"time"
)

// Client is the outbound HTTP client used for provider calls. Each request is
// bounded by a dial timeout and an overall timeout.
type Client struct {
	httpClient *http.Client
}

func NewClient(connectTimeout, timeout time.Duration) *Client {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.DialContext = (&net.Dialer{
		Timeout:   connectTimeout,
		KeepAlive: 30 * time.Second,
	}).DialContext
	transport.TLSHandshakeTimeout = connectTimeout

	return &Client{
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: transport,
		},
	}
}

func (c *Client) Do(req *http.Request) (*http.Response, error) {
	return c.httpClient.Do(req)
}

func (c *Client) DoWithContext(ctx context.Context, req *http.Request) (*http.Response, error) {
	return c.httpClient.Do(req.WithContext(ctx))
}

// HTTPClient exposes the configured *http.Client for SDKs that take one.
func (c *Client) HTTPClient() *http.Client {
	return c.httpClient
}
