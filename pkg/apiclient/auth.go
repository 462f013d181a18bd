package apiclient

import (
	"time"
)

// LoginRequest represents a login request.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// TokenResponse represents the response from login/refresh endpoints.
type TokenResponse struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	TokenType    string    `json:"token_type"`
	ExpiresIn    int64     `json:"expires_in"` // seconds
	ExpiresAt    time.Time `json:"expires_at"`
	Username     string    `json:"username"`
}

// Login authenticates the operator account and returns a token pair.
func (c *Client) Login(username, password string) (*TokenResponse, error) {
	req := LoginRequest{Username: username, Password: password}

	var resp TokenResponse
	if err := c.post("/api/v1/auth/login", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// RefreshToken exchanges a refresh token for a fresh token pair.
func (c *Client) RefreshToken(refreshToken string) (*TokenResponse, error) {
	req := struct {
		RefreshToken string `json:"refresh_token"`
	}{RefreshToken: refreshToken}

	var resp TokenResponse
	if err := c.post("/api/v1/auth/refresh", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
