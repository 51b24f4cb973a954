// Package bookingapi is the HTTP client for the homestay booking core API.
// It covers the authentication surface the session layer depends on: login
// and credential refresh. Both the real backend and test fakes satisfy the
// session layer's TokenAPI contract through this package's types.
package bookingapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// Auth endpoint paths, shared with the session transport so it can recognise
// requests that must never trigger the 401 recovery step.
const (
	LoginPath   = "/v1/auth/login"
	RefreshPath = "/v1/auth/refresh"
)

// Client is a client for the booking core API.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewClient creates a booking API client with a default request timeout.
func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

func (c *Client) url(path string) string {
	return c.BaseURL + path
}

// postJSON sends a JSON request and decodes a successful response into out.
// Non-2xx responses are parsed into a typed *APIError.
func (c *Client) postJSON(
	ctx context.Context,
	path string,
	body any,
	bearer string,
	out any,
) error {
	var reader *bytes.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(encoded)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url(path), reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return parseErrorResponse(resp)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}
