package bookingapi

import (
	"context"
	"fmt"
)

// Login authenticates with username and password and returns the credential
// pair plus the user's identity and permission hints.
func (c *Client) Login(ctx context.Context, username, password string) (*LoginResponse, error) {
	var out LoginResponse
	err := c.postJSON(ctx, LoginPath, LoginRequest{
		Username: username,
		Password: password,
	}, "", &out)
	if err != nil {
		return nil, err
	}

	if out.AccessCredential == "" || out.RefreshCredential == "" {
		return nil, fmt.Errorf("login response missing credential pair")
	}

	return &out, nil
}

// Refresh exchanges the refresh credential for a new pair. The refresh call
// authenticates with the refresh credential itself, never the access one.
func (c *Client) Refresh(ctx context.Context, refreshCredential string) (*RefreshResponse, error) {
	var out RefreshResponse
	if err := c.postJSON(ctx, RefreshPath, nil, refreshCredential, &out); err != nil {
		return nil, err
	}

	return &out, nil
}
