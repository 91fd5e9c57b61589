package http

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/benchmarked/api/internal/middleware"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
)

// NewRouter constructs and returns an HTTP handler that serves the bench
// API. It applies JSON content-type enforcement and request logging, and
// mounts the auth and record endpoints under /api. Record endpoints sit
// behind bearer-token authentication.
//
// Routes:
//
//	GET    /healthz                → healthHandler.Health
//	POST   /api/auth/login         → authHandler.Login
//	POST   /api/auth/verify        → authHandler.Verify
//	GET    /api/benchdata          → benchHandler.List    (bearer)
//	POST   /api/benchdata          → benchHandler.Create  (bearer, admin)
//	GET    /api/benchdata/{id}     → benchHandler.Get     (bearer)
//	PUT    /api/benchdata/{id}     → benchHandler.Update  (bearer)
//	DELETE /api/benchdata/{id}     → benchHandler.Delete  (bearer)
func NewRouter(
	authHandler *AuthHandler,
	benchHandler *BenchHandler,
	healthHandler *HealthHandler,
	validator middleware.TokenValidator,
	logger *zap.Logger,
) http.Handler {
	r := chi.NewRouter()

	// Only allow requests with Content-Type: application/json (bodyless
	// requests pass through)
	r.Use(chiMiddleware.AllowContentType("application/json"))

	// Log each request and its metadata
	r.Use(middleware.WithRequestLogging(logger))

	r.Get("/healthz", healthHandler.Health)

	// Mount API routes
	r.Route("/api", func(r chi.Router) {
		// Public endpoints
		r.Post("/auth/login", authHandler.Login)
		r.Post("/auth/verify", authHandler.Verify)

		// Protected group: requires a valid bearer token
		r.Group(func(r chi.Router) {
			r.Use(middleware.BearerAuth(validator))

			r.Get("/benchdata", benchHandler.List)
			r.Post("/benchdata", benchHandler.Create)
			r.Route("/benchdata/{id}", func(r chi.Router) {
				r.Get("/", benchHandler.Get)
				r.Put("/", benchHandler.Update)
				r.Delete("/", benchHandler.Delete)
			})
		})
	})

	return r
}
