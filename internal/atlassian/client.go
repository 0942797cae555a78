// Package atlassian holds the REST plumbing shared by the Jira and
// Confluence clients: request execution, response decoding, and the
// classification of upstream failures.
package atlassian

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// maxErrorBody caps how much of an upstream error response is retained in
// the classified error.
const maxErrorBody = 2048

// APIError wraps a non-2xx response from an Atlassian API with enough
// context for the caller to act: service, operation, status, and a snippet
// of the upstream body. Upstream failures are never swallowed silently.
type APIError struct {
	Service    string
	Operation  string
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s %s failed: upstream status %d: %s",
		e.Service, e.Operation, e.StatusCode, e.Body)
}

// IsAuthError reports whether the upstream rejected our credentials.
func (e *APIError) IsAuthError() bool {
	return e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden
}

// IsNotFound reports whether the requested entity does not exist upstream.
func (e *APIError) IsNotFound() bool {
	return e.StatusCode == http.StatusNotFound
}

// Client executes JSON REST calls against one Atlassian product.
type Client struct {
	service    string
	baseURL    string
	httpClient *http.Client
}

// NewClient builds a REST client. The httpClient must already carry
// authentication (see auth.Context.HTTPClient); baseURL is the instance
// root without a trailing slash.
func NewClient(service, baseURL string, httpClient *http.Client) *Client {
	return &Client{
		service:    service,
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
	}
}

// BaseURL returns the configured instance root.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Get performs a GET against path and decodes the JSON response into out.
func (c *Client) Get(ctx context.Context, operation, path string, out any) error {
	return c.do(ctx, operation, http.MethodGet, path, nil, out)
}

// Post performs a POST with a JSON body and decodes the response into out.
// A nil out discards the response body.
func (c *Client) Post(ctx context.Context, operation, path string, body, out any) error {
	return c.do(ctx, operation, http.MethodPost, path, body, out)
}

// Put performs a PUT with a JSON body and decodes the response into out.
func (c *Client) Put(ctx context.Context, operation, path string, body, out any) error {
	return c.do(ctx, operation, http.MethodPut, path, body, out)
}

// Delete performs a DELETE against path.
func (c *Client) Delete(ctx context.Context, operation, path string) error {
	return c.do(ctx, operation, http.MethodDelete, path, nil, nil)
}

func (c *Client) do(ctx context.Context, operation, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%s %s: failed to marshal request body: %w", c.service, operation, err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("%s %s: failed to create request: %w", c.service, operation, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: request failed: %w", c.service, operation, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &APIError{
			Service:    c.service,
			Operation:  operation,
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(snippet)),
		}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s %s: failed to decode response: %w", c.service, operation, err)
	}
	return nil
}
