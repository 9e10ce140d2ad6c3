package http

import (
	"fmt"
	"net/http"
	"time"
)

// Client is the outbound HTTP transport shared by provider clients.
type Client struct {
	httpClient *http.Client
}

// NewClient builds a client with a whole-request timeout. maxRedirects caps
// how many redirects are followed; zero disables following.
func NewClient(timeout time.Duration, maxRedirects int) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) > maxRedirects {
					return fmt.Errorf("stopped after %d redirects", maxRedirects)
				}
				return nil
			},
		},
	}
}

func (c *Client) Do(req *http.Request) (*http.Response, error) {
	return c.httpClient.Do(req)
}

// Timeout reports the configured whole-request timeout.
func (c *Client) Timeout() time.Duration {
	return c.httpClient.Timeout
}
