package index

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/arc-language/cargo-sysdeps/pkg/core"
)

// Client fetches repository metadata over HTTP
type Client struct {
	httpClient *http.Client
	userAgent  string
}

// NewClient creates a client. A zero timeout leaves the transport defaults in
// place; there is no retry layer.
func NewClient(timeout time.Duration) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				Proxy:               http.ProxyFromEnvironment,
				MaxIdleConns:        10,
				MaxIdleConnsPerHost: 2,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		userAgent: "cargo-sysdeps/1.0",
	}
}

// Get performs an HTTP GET request and returns the response body
func (c *Client) Get(ctx context.Context, url string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("performing request: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, &core.Error{
			Op:     "fetching",
			Target: url,
			Err:    fmt.Errorf("%w: %d", core.ErrUnexpectedStatus, resp.StatusCode),
		}
	}

	return resp.Body, nil
}
