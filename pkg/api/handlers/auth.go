package handlers

import (
	"crypto/subtle"
	"errors"
	"net/http"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/martengale/foxbox/pkg/api/auth"
)

// AuthHandler handles authentication endpoints for the single operator
// account. Credentials come from configuration: a username and a bcrypt
// password hash. There is no user store behind this.
type AuthHandler struct {
	jwtService   *auth.JWTService
	username     string
	passwordHash string
}

// NewAuthHandler creates a new AuthHandler. An empty passwordHash disables
// login entirely.
func NewAuthHandler(jwtService *auth.JWTService, username, passwordHash string) *AuthHandler {
	return &AuthHandler{
		jwtService:   jwtService,
		username:     username,
		passwordHash: passwordHash,
	}
}

// LoginRequest is the request body for POST /api/v1/auth/login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse is the response body for login and refresh.
type LoginResponse struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	TokenType    string    `json:"token_type"`
	ExpiresIn    int64     `json:"expires_in"`
	ExpiresAt    time.Time `json:"expires_at"`
	Username     string    `json:"username"`
}

// RefreshRequest is the request body for POST /api/v1/auth/refresh.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// Login handles POST /api/v1/auth/login.
// Checks the operator credentials and returns a JWT token pair.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}

	if req.Username == "" || req.Password == "" {
		BadRequest(w, "Username and password are required")
		return
	}

	if h.passwordHash == "" {
		Unauthorized(w, "Login is disabled: no admin password configured")
		return
	}

	usernameOK := subtle.ConstantTimeCompare([]byte(req.Username), []byte(h.username)) == 1
	passwordErr := bcrypt.CompareHashAndPassword([]byte(h.passwordHash), []byte(req.Password))
	if !usernameOK || passwordErr != nil {
		Unauthorized(w, "Invalid username or password")
		return
	}

	tokenPair, err := h.jwtService.GenerateTokenPair(h.username)
	if err != nil {
		InternalServerError(w, "Failed to generate token")
		return
	}

	WriteJSONOK(w, tokenResponse(tokenPair, h.username))
}

// Refresh handles POST /api/v1/auth/refresh.
// Returns a new token pair for a valid refresh token.
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req RefreshRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}

	if req.RefreshToken == "" {
		BadRequest(w, "Refresh token is required")
		return
	}

	claims, err := h.jwtService.ValidateRefreshToken(req.RefreshToken)
	if err != nil {
		if errors.Is(err, auth.ErrExpiredToken) {
			Unauthorized(w, "Refresh token has expired")
			return
		}
		Unauthorized(w, "Invalid refresh token")
		return
	}

	// The account may have been renamed since the token was issued.
	if claims.Username != h.username {
		Unauthorized(w, "Unknown account")
		return
	}

	tokenPair, err := h.jwtService.GenerateTokenPair(h.username)
	if err != nil {
		InternalServerError(w, "Failed to generate token")
		return
	}

	WriteJSONOK(w, tokenResponse(tokenPair, h.username))
}

func tokenResponse(pair *auth.TokenPair, username string) LoginResponse {
	return LoginResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		TokenType:    pair.TokenType,
		ExpiresIn:    pair.ExpiresIn,
		ExpiresAt:    pair.ExpiresAt,
		Username:     username,
	}
}
