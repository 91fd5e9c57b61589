package http

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/benchmarked/api/internal/models"
	"github.com/benchmarked/api/internal/service"
)

// testRouter wires the real router with a real token service and fake
// auth/bench services, mirroring the production wiring in cmd/server.
func testRouter(t *testing.T, jwtSvc service.JWTService) http.Handler {
	t.Helper()
	auth := &fakeAuthService{loginResult: &service.LoginResult{
		Token:     "signed-token",
		Username:  "admin",
		Role:      models.RoleAdmin,
		ExpiresIn: 1800,
	}}
	bench := &fakeBenchService{listResult: []models.Bench{}}
	return NewRouter(
		&AuthHandler{AuthService: auth},
		&BenchHandler{BenchService: bench},
		nil,
		jwtSvc,
		zap.NewNop(),
	)
}

func TestRouter_ProtectedRoutesRejectWithoutToken(t *testing.T) {
	jwtSvc := service.NewJWTService("test-secret", 30*time.Minute)
	router := testRouter(t, jwtSvc)

	routes := []struct {
		method string
		path   string
	}{
		{"GET", "/api/benchdata"},
		{"POST", "/api/benchdata"},
		{"GET", "/api/benchdata/" + testID},
		{"PUT", "/api/benchdata/" + testID},
		{"DELETE", "/api/benchdata/" + testID},
	}

	for _, rt := range routes {
		t.Run(rt.method+" "+rt.path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(rt.method, rt.path, nil)
			router.ServeHTTP(rec, req)

			if rec.Code != http.StatusUnauthorized {
				t.Fatalf("status = %d; want 401", rec.Code)
			}
		})
	}
}

func TestRouter_ProtectedRoutesRejectExpiredToken(t *testing.T) {
	issuer := service.NewJWTService("test-secret", -time.Minute)
	token, _, err := issuer.Generate("id-1", "admin", models.RoleAdmin)
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}

	router := testRouter(t, service.NewJWTService("test-secret", 30*time.Minute))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/benchdata", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d; want 401", rec.Code)
	}
	if !bytes.Contains(rec.Body.Bytes(), []byte("Token expired")) {
		t.Errorf("unexpected body: %s", rec.Body.String())
	}
}

func TestRouter_ValidTokenReachesHandler(t *testing.T) {
	jwtSvc := service.NewJWTService("test-secret", 30*time.Minute)
	token, _, err := jwtSvc.Generate("id-1", "admin", models.RoleAdmin)
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}

	router := testRouter(t, jwtSvc)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/benchdata", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d; want 200; body %s", rec.Code, rec.Body.String())
	}
}

func TestRouter_RejectsNonJSONContentType(t *testing.T) {
	router := testRouter(t, service.NewJWTService("test-secret", 30*time.Minute))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/api/auth/login", bytes.NewBufferString("username=admin"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnsupportedMediaType {
		t.Fatalf("status = %d; want 415", rec.Code)
	}
}

func TestRouter_LoginIsPublic(t *testing.T) {
	router := testRouter(t, service.NewJWTService("test-secret", 30*time.Minute))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/api/auth/login",
		bytes.NewBufferString(`{"username":"admin","password":"adminpass"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(rec, req)

	// The fake auth service returns a nil result; the point is that the
	// request is not intercepted by the auth middleware.
	if rec.Code == http.StatusUnauthorized {
		t.Fatalf("login must not require a token; got 401")
	}
}
