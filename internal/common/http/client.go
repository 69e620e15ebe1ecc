// internal/common/http/client.go
package http

import (
	"context"
	"net/http"
	"time"
)

// Client is a thin wrapper around http.Client shared by the external profile
// fetchers. Per-call deadlines come from the request context; the client-level
// timeout is only a backstop.
type Client struct {
	httpClient *http.Client
}

func NewClient(timeout time.Duration) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

func (c *Client) Do(req *http.Request) (*http.Response, error) {
	return c.httpClient.Do(req)
}

func (c *Client) DoWithContext(ctx context.Context, req *http.Request) (*http.Response, error) {
	req = req.WithContext(ctx)
	return c.httpClient.Do(req)
}
