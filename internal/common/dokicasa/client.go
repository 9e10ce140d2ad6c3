// Package dokicasa is the HTTP client for the Dokicasa form API.
package dokicasa

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	commonhttp "github.com/mojjammil/dokicasa-integration/internal/common/http"
	"github.com/mojjammil/dokicasa-integration/internal/common/logger"
)

// Response is a successful (2xx) provider reply.
type Response struct {
	StatusCode int
	Body       []byte
}

// JSON decodes the body keeping numbers as json.Number. Bodies that are not
// JSON are returned as a string.
func (r *Response) JSON() interface{} {
	return decodeBody(r.Body)
}

// StatusError is returned for non-2xx provider replies.
type StatusError struct {
	Method     string
	URL        string
	StatusCode int
	Body       []byte
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("dokicasa %s %s: status %d", e.Method, e.URL, e.StatusCode)
}

// JSON decodes the error body, see Response.JSON.
func (e *StatusError) JSON() interface{} {
	return decodeBody(e.Body)
}

// TransportError is returned when no response was received.
type TransportError struct {
	Method string
	URL    string
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("dokicasa %s %s: %v", e.Method, e.URL, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// Client talks to the provider with a static bearer token.
type Client struct {
	token      string
	httpClient *commonhttp.Client
	logger     logger.Logger
}

func NewClient(token string, httpClient *commonhttp.Client, log logger.Logger) *Client {
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	return &Client{
		token:      token,
		httpClient: httpClient,
		logger:     log,
	}
}

// Get fetches a form schema.
func (c *Client) Get(ctx context.Context, url string) (*Response, error) {
	return c.do(ctx, http.MethodGet, url, nil)
}

// Post submits a JSON body to a form endpoint.
func (c *Client) Post(ctx context.Context, url string, body interface{}) (*Response, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request body: %w", err)
	}
	return c.do(ctx, http.MethodPost, url, payload)
}

func (c *Client) do(ctx context.Context, method, url string, payload []byte) (*Response, error) {
	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, &TransportError{Method: method, URL: url, Err: err}
	}

	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if id := RequestIDFromContext(ctx); id != "" {
		req.Header.Set("X-Request-ID", id)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("dokicasa request failed", map[string]interface{}{
			"method": method,
			"url":    url,
			"error":  err.Error(),
		})
		return nil, &TransportError{Method: method, URL: url, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Method: method, URL: url, Err: fmt.Errorf("failed to read response body: %w", err)}
	}

	c.logger.Debug("dokicasa response", map[string]interface{}{
		"method": method,
		"url":    url,
		"status": resp.StatusCode,
	})

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{Method: method, URL: url, StatusCode: resp.StatusCode, Body: body}
	}
	return &Response{StatusCode: resp.StatusCode, Body: body}, nil
}

func decodeBody(body []byte) interface{} {
	if len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	var v interface{}
	if err := dec.Decode(&v); err != nil {
		return string(body)
	}
	return v
}

type requestIDKey struct{}

// ContextWithRequestID attaches the correlation id sent as X-Request-ID.
func ContextWithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestIDFromContext returns the correlation id, if any.
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}
