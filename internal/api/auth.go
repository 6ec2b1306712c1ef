package api

import (
	"context"
	"net/http"

	"github.com/flowboardhq/flowboard/internal/model"
)

// AuthResponse is the payload returned by Register and Login.
type AuthResponse struct {
	Message      string     `json:"message,omitempty"`
	User         model.User `json:"user"`
	AccessToken  string     `json:"access_token"`
	RefreshToken string     `json:"refresh_token"`
}

// Register creates a new account and returns its first token pair.
func (c *Client) Register(ctx context.Context, req RegisterRequest) (AuthResponse, error) {
	if err := c.check(req); err != nil {
		return AuthResponse{}, err
	}
	var out AuthResponse
	if err := c.do(ctx, http.MethodPost, "/api/auth/register", nil, req, &out); err != nil {
		return AuthResponse{}, err
	}
	return out, nil
}

// Login exchanges credentials for a token pair.
func (c *Client) Login(ctx context.Context, req LoginRequest) (AuthResponse, error) {
	if err := c.check(req); err != nil {
		return AuthResponse{}, err
	}
	var out AuthResponse
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", nil, req, &out); err != nil {
		return AuthResponse{}, err
	}
	return out, nil
}

// Logout invalidates the current session on the server.
func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/api/auth/logout", nil, nil, nil)
}

// Me returns the authenticated user.
func (c *Client) Me(ctx context.Context) (model.User, error) {
	var out struct {
		User model.User `json:"user"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/auth/me", nil, nil, &out); err != nil {
		return model.User{}, err
	}
	return out.User, nil
}

// Refresh exchanges a refresh token for a new access token. The refresh
// token rides in the Authorization header in place of the access token.
func (c *Client) Refresh(ctx context.Context, refreshToken string) (string, error) {
	var out struct {
		AccessToken string `json:"access_token"`
	}
	if err := c.doAs(ctx, http.MethodPost, "/api/auth/refresh", refreshToken, nil, nil, &out); err != nil {
		return "", err
	}
	return out.AccessToken, nil
}
