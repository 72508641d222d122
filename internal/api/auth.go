package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"RocketClient/internal/backend"
)

// Health returns the backend's database health report
func (c *Client) Health(ctx context.Context) (backend.HealthStatus, error) {
	var status backend.HealthStatus
	if err := c.doJSON(ctx, http.MethodGet, c.publicURL("/health"), nil, &status); err != nil {
		return nil, fmt.Errorf("health check failed: %w", err)
	}
	return status, nil
}

// Register creates an account. It does not log in.
func (c *Client) Register(ctx context.Context, email, username, password string) error {
	req := backend.RegisterRequest{Email: email, Username: username, Password: password}
	var resp backend.MessageResponse
	if err := c.doJSON(ctx, http.MethodPost, c.publicURL("/register"), req, &resp); err != nil {
		return fmt.Errorf("register failed: %w", err)
	}
	c.logger.Info("registered user", "username", username)
	return nil
}

// Login exchanges credentials for a session. The backend sets the
// session cookie; the returned token is kept for the Authorization header.
func (c *Client) Login(ctx context.Context, email, password string) error {
	var resp backend.LoginResponse
	if err := c.doJSON(ctx, http.MethodPost, c.publicURL("/login"), backend.Credentials{Email: email, Password: password}, &resp); err != nil {
		return fmt.Errorf("login failed: %w", err)
	}
	c.setToken(resp.Token)
	c.logger.Info("logged in", "email", email)
	return nil
}

// Logout asks the backend to expire the session cookie. The local token is
// dropped even if the request fails.
func (c *Client) Logout(ctx context.Context) error {
	defer c.setToken("")
	if err := c.doJSON(ctx, http.MethodPost, c.publicURL("/logout"), nil, nil); err != nil {
		return fmt.Errorf("logout failed: %w", err)
	}
	c.logger.Info("logged out")
	return nil
}

// CheckAuthenticated asks the backend whether the session is valid. A 401
// is a definite "no"; any other failure is returned as an error.
func (c *Client) CheckAuthenticated(ctx context.Context) (bool, error) {
	var status backend.AuthStatus
	if err := c.doJSON(ctx, http.MethodGet, c.protectedURL("/"), nil, &status); err != nil {
		if errors.Is(err, ErrUnauthorized) {
			return false, nil
		}
		return false, fmt.Errorf("auth check failed: %w", err)
	}
	return status.IsAuthenticated(), nil
}
