package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/jmylchreest/toastui/internal/toast"
)

// Client talks to a running toastuid over the HTTP API.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a client for addr ("host:port" or a full URL).
func NewClient(addr string) *Client {
	if !strings.Contains(addr, "://") {
		addr = "http://" + addr
	}
	return &Client{
		baseURL: strings.TrimRight(addr, "/"),
		http:    http.DefaultClient,
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func (c *Client) WithHTTPClient(hc *http.Client) *Client {
	c.http = hc
	return c
}

// Show queues a toast. With wait set, it blocks until the toast is
// dismissed and the response carries the reason.
func (c *Client) Show(ctx context.Context, req ToastRequest, wait bool) (ToastResponse, error) {
	path := "/v1/toasts"
	if wait {
		path += "?wait=true"
	}
	var resp ToastResponse
	err := c.do(ctx, http.MethodPost, path, req, &resp)
	return resp, err
}

// Cancel removes a queued or active toast.
func (c *Client) Cancel(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/v1/toasts/"+url.PathEscape(id), nil, nil)
}

// Clear removes every toast and returns how many were affected.
func (c *Client) Clear(ctx context.Context) (int, error) {
	var resp ClearResponse
	err := c.do(ctx, http.MethodDelete, "/v1/toasts", nil, &resp)
	return resp.Cleared, err
}

// Dismiss dismisses the active toast on screen, or on the default screen
// when screen is empty.
func (c *Client) Dismiss(ctx context.Context, screen string) (bool, error) {
	path := "/v1/dismiss"
	if screen != "" {
		path = "/v1/screens/" + url.PathEscape(screen) + "/dismiss"
	}
	var resp DismissResponse
	err := c.do(ctx, http.MethodPost, path, nil, &resp)
	return resp.Dismissed, err
}

// Status returns the presenter status.
func (c *Client) Status(ctx context.Context) (toast.Status, error) {
	var st toast.Status
	err := c.do(ctx, http.MethodGet, "/v1/status", nil, &st)
	return st, err
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("failed to reach toastuid: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		var e ErrorResponse
		if err := json.NewDecoder(resp.Body).Decode(&e); err != nil || e.Error == "" {
			return fmt.Errorf("%s %s: %s", method, path, resp.Status)
		}
		return fmt.Errorf("%s %s: %s", method, path, e.Error)
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
