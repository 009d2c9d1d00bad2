// Package mediastore talks to the storage service that hosts uploaded course
// media. Lesson snapshots may reference media by object key or relative path;
// the exporter needs public URLs before a document can be played outside the
// platform.
package mediastore

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Client communicates with the mediastore HTTP API.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// RetryableError marks transient failures (5xx responses, transport errors)
// worth retrying with backoff.
type RetryableError struct {
	Err error
}

func (e *RetryableError) Error() string { return e.Err.Error() }
func (e *RetryableError) Unwrap() error { return e.Err }

// urlResponse is the body of GET /api/objects/url.
type urlResponse struct {
	URL string `json:"url"`
}

// ResolveURL returns a public URL for a media reference. Absolute URLs are
// already public and pass through untouched; everything else is treated as an
// object key and resolved by the storage service.
func (c *Client) ResolveURL(ctx context.Context, ref string) (string, error) {
	if ref == "" || strings.Contains(ref, "://") {
		return ref, nil
	}

	u := c.baseURL + "/api/objects/url?key=" + url.QueryEscape(ref)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", &RetryableError{Err: fmt.Errorf("resolve %s: %w", ref, err)}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode >= 500:
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", &RetryableError{Err: fmt.Errorf("resolve %s: status %d: %s", ref, resp.StatusCode, string(respBody))}
	default:
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", fmt.Errorf("resolve %s: status %d: %s", ref, resp.StatusCode, string(respBody))
	}

	var body urlResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("decode url response: %w", err)
	}
	if body.URL == "" {
		return "", fmt.Errorf("resolve %s: empty url in response", ref)
	}
	return body.URL, nil
}

// Close releases idle connections.
func (c *Client) Close() {
	c.httpClient.CloseIdleConnections()
}
