// Package api talks to the boleto extraction backend.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

// Result is an opaque JSON document returned by the backend
type Result = json.RawMessage

// Client is a thin wrapper over the backend HTTP API. It never retries or caches.
type Client struct {
	baseURL string
	token   string
	client  *http.Client
}

// NewClient creates a Client. A zero timeout waits indefinitely for the backend.
func NewClient(baseURL, token string, timeout time.Duration) *Client {
	return NewClientWithHTTP(baseURL, token, &http.Client{Timeout: timeout})
}

// NewClientWithHTTP creates a Client with a custom http.Client
func NewClientWithHTTP(baseURL, token string, httpClient *http.Client) *Client {
	return &Client{
		baseURL: baseURL,
		token:   token,
		client:  httpClient,
	}
}

// BaseURL returns the backend host this client targets
func (c *Client) BaseURL() string {
	return c.baseURL
}

func (c *Client) doJSON(ctx context.Context, method, path string, body any) (Result, error) {
	var reader io.Reader
	contentType := ""
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshaling request: %w", err)
		}
		reader = bytes.NewReader(data)
		contentType = "application/json"
	}
	return c.do(ctx, method, path, contentType, reader)
}

// do sends a single request. Transport errors are returned unmodified and
// non-2xx responses become *APIError; both are logged first.
func (c *Client) do(ctx context.Context, method, path, contentType string, body io.Reader) (Result, error) {
	url := c.baseURL + path
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		slog.Error("Erro da API", "method", method, "path", path, "error", err)
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		slog.Error("Erro da API", "method", method, "path", path, "error", err)
		return nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := newAPIError(resp.StatusCode, data)
		slog.Error("Erro da API", "method", method, "path", path, "status", resp.StatusCode, "error", apiErr)
		return nil, apiErr
	}

	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return Result("null"), nil
	}
	if !json.Valid(data) {
		err := fmt.Errorf("decoding response: body is not valid JSON")
		slog.Error("Erro da API", "method", method, "path", path, "status", resp.StatusCode, "error", err)
		return nil, err
	}

	slog.Debug("API response", "method", method, "path", path, "status", resp.StatusCode, "bytes", len(data))
	return Result(data), nil
}
