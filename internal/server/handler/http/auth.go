package http

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/benchmarked/api/internal/apperr"
	"github.com/benchmarked/api/internal/middleware"
	"github.com/benchmarked/api/internal/service"
)

// AuthService defines the interface for authentication operations
// required by the HTTP handlers.
type AuthService interface {
	// Login validates the credentials and mints a session token.
	Login(ctx context.Context, username, password string) (*service.LoginResult, error)
	// Verify validates a presented token and returns its claims.
	Verify(tokenString string) (*service.Claims, error)
}

// AuthHandler handles HTTP requests for login and token verification.
type AuthHandler struct {
	// AuthService performs the underlying authentication operations.
	AuthService AuthService
}

// LoginRequest represents the JSON payload for login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login handles POST /api/auth/login.
// It expects a JSON body with "username" and "password" and responds with
// the signed token, the username, the role, and the token lifetime in
// seconds. Unknown users and wrong passwords are indistinguishable.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperr.Validationf("Invalid request body"))
		return
	}

	result, err := h.AuthService.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":   true,
		"token":     result.Token,
		"username":  result.Username,
		"role":      result.Role,
		"expiresIn": result.ExpiresIn,
	})
}

// VerifyRequest represents the optional JSON payload for verification when
// the token is not supplied in the Authorization header.
type VerifyRequest struct {
	Token string `json:"token"`
}

// Verify handles POST /api/auth/verify.
// The token may arrive either as a bearer credential or in the request
// body. On success it reports the claims the token carries; expired and
// invalid tokens are rejected with 401.
func (h *AuthHandler) Verify(w http.ResponseWriter, r *http.Request) {
	token, ok := middleware.BearerToken(r)
	if !ok {
		var req VerifyRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Token == "" {
			writeError(w, apperr.Validationf("Token is required"))
			return
		}
		token = req.Token
	}

	claims, err := h.AuthService.Verify(token)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"valid":     true,
		"username":  claims.Username,
		"subject":   claims.Subject,
		"expiresAt": claims.ExpiresAt.Unix(),
	})
}
