package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/benchmarked/api/internal/apperr"
	"github.com/benchmarked/api/internal/models"
	"github.com/benchmarked/api/internal/service"
)

// fakeAuthService implements AuthService for testing.
type fakeAuthService struct {
	loginResult *service.LoginResult
	loginErr    error
	claims      *service.Claims
	verifyErr   error
}

func (f *fakeAuthService) Login(ctx context.Context, username, password string) (*service.LoginResult, error) {
	return f.loginResult, f.loginErr
}

func (f *fakeAuthService) Verify(tokenString string) (*service.Claims, error) {
	return f.claims, f.verifyErr
}

func TestAuthHandler_Login(t *testing.T) {
	okResult := &service.LoginResult{
		Token:     "signed-token",
		Username:  "admin",
		Role:      models.RoleAdmin,
		ExpiresIn: 1800,
	}

	tests := []struct {
		name           string
		body           string
		service        *fakeAuthService
		expectedCode   int
		expectedSubstr string
	}{
		{
			name:           "invalid JSON",
			body:           `not a json`,
			service:        &fakeAuthService{},
			expectedCode:   http.StatusBadRequest,
			expectedSubstr: "Invalid request body",
		},
		{
			name:           "missing fields",
			body:           `{"username":"admin"}`,
			service:        &fakeAuthService{loginErr: apperr.Validationf("Username and password are required")},
			expectedCode:   http.StatusBadRequest,
			expectedSubstr: "Username and password are required",
		},
		{
			name:           "bad credentials",
			body:           `{"username":"admin","password":"wrong"}`,
			service:        &fakeAuthService{loginErr: apperr.ErrInvalidCredentials},
			expectedCode:   http.StatusUnauthorized,
			expectedSubstr: "Invalid username or password",
		},
		{
			name:           "store unreachable",
			body:           `{"username":"admin","password":"adminpass"}`,
			service:        &fakeAuthService{loginErr: apperr.ErrUnavailable},
			expectedCode:   http.StatusServiceUnavailable,
			expectedSubstr: "Service unavailable",
		},
		{
			name:           "success",
			body:           `{"username":"admin","password":"adminpass"}`,
			service:        &fakeAuthService{loginResult: okResult},
			expectedCode:   http.StatusOK,
			expectedSubstr: "signed-token",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest("POST", "/api/auth/login", bytes.NewBufferString(tt.body))
			h := &AuthHandler{AuthService: tt.service}
			h.Login(rec, req)
			res := rec.Result()
			defer res.Body.Close()

			if res.StatusCode != tt.expectedCode {
				t.Fatalf("expected status %d, got %d", tt.expectedCode, res.StatusCode)
			}

			buf := new(bytes.Buffer)
			if _, err := buf.ReadFrom(res.Body); err != nil {
				t.Fatalf("failed to read body: %v", err)
			}
			if !bytes.Contains(buf.Bytes(), []byte(tt.expectedSubstr)) {
				t.Errorf("expected body to contain %q, got %q", tt.expectedSubstr, buf.String())
			}
		})
	}
}

func TestAuthHandler_Login_ResponseShape(t *testing.T) {
	h := &AuthHandler{AuthService: &fakeAuthService{
		loginResult: &service.LoginResult{
			Token:     "signed-token",
			Username:  "admin",
			Role:      models.RoleAdmin,
			ExpiresIn: 1800,
		},
	}}

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/api/auth/login",
		bytes.NewBufferString(`{"username":"admin","password":"adminpass"}`))
	h.Login(rec, req)

	var resp struct {
		Success   bool   `json:"success"`
		Token     string `json:"token"`
		Username  string `json:"username"`
		Role      string `json:"role"`
		ExpiresIn int64  `json:"expiresIn"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if !resp.Success || resp.Token != "signed-token" || resp.Role != "admin" || resp.ExpiresIn != 1800 {
		t.Errorf("unexpected response: %+v", resp)
	}
}

func TestAuthHandler_Verify(t *testing.T) {
	expiresAt := time.Now().Add(30 * time.Minute)
	validClaims := &service.Claims{
		Username: "admin",
		Role:     models.RoleAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "id-1",
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	tests := []struct {
		name         string
		header       string
		body         string
		service      *fakeAuthService
		expectedCode int
	}{
		{
			name:         "no token anywhere",
			body:         `{}`,
			service:      &fakeAuthService{},
			expectedCode: http.StatusBadRequest,
		},
		{
			name:         "token in body",
			body:         `{"token":"abc"}`,
			service:      &fakeAuthService{claims: validClaims},
			expectedCode: http.StatusOK,
		},
		{
			name:         "token in header",
			header:       "Bearer abc",
			service:      &fakeAuthService{claims: validClaims},
			expectedCode: http.StatusOK,
		},
		{
			name:         "expired token",
			header:       "Bearer old",
			service:      &fakeAuthService{verifyErr: apperr.ErrExpiredToken},
			expectedCode: http.StatusUnauthorized,
		},
		{
			name:         "invalid token",
			header:       "Bearer bad",
			service:      &fakeAuthService{verifyErr: apperr.ErrInvalidToken},
			expectedCode: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest("POST", "/api/auth/verify", bytes.NewBufferString(tt.body))
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			h := &AuthHandler{AuthService: tt.service}
			h.Verify(rec, req)

			if rec.Code != tt.expectedCode {
				t.Fatalf("status = %d; want %d; body %s", rec.Code, tt.expectedCode, rec.Body.String())
			}

			if tt.expectedCode == http.StatusOK {
				var resp struct {
					Valid     bool   `json:"valid"`
					Username  string `json:"username"`
					Subject   string `json:"subject"`
					ExpiresAt int64  `json:"expiresAt"`
				}
				if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
					t.Fatalf("failed to decode response: %v", err)
				}
				if !resp.Valid || resp.Username != "admin" || resp.Subject != "id-1" {
					t.Errorf("unexpected response: %+v", resp)
				}
				if resp.ExpiresAt != expiresAt.Unix() {
					t.Errorf("expiresAt = %d; want %d", resp.ExpiresAt, expiresAt.Unix())
				}
			}
		})
	}
}
