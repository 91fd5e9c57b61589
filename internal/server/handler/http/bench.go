package http

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/benchmarked/api/internal/apperr"
	"github.com/benchmarked/api/internal/middleware"
	"github.com/benchmarked/api/internal/models"
	"github.com/benchmarked/api/internal/service"
)

// BenchService defines the interface for bench record operations required
// by the HTTP handlers.
type BenchService interface {
	List(ctx context.Context) ([]models.Bench, error)
	Get(ctx context.Context, id string) (*models.Bench, error)
	Create(ctx context.Context, claims *service.Claims, in service.CreateBenchInput, meta service.RequestMeta) (*models.Bench, error)
	Update(ctx context.Context, id string, upd models.BenchUpdate) (*models.Bench, error)
	Delete(ctx context.Context, id string) (string, error)
}

// BenchHandler handles HTTP requests for bench records. All routes are
// mounted behind BearerAuth, so claims are always present in the context.
type BenchHandler struct {
	BenchService BenchService
}

// List handles GET /api/benchdata.
// Returns all records sorted by creation time descending.
func (h *BenchHandler) List(w http.ResponseWriter, r *http.Request) {
	benches, err := h.BenchService.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"benches": benches,
		"count":   len(benches),
	})
}

// CreateBenchRequest represents the JSON payload for creating a record.
type CreateBenchRequest struct {
	Timestamp string   `json:"timestamp"`
	Location  string   `json:"location"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	Accuracy  *float64 `json:"accuracy"`
	Notes     string   `json:"notes"`
	Tags      []string `json:"tags"`
	IsPublic  bool     `json:"isPublic"`
}

// Create handles POST /api/benchdata. Admin role required.
// The server stamps the logging identity from the token claims and captures
// the client agent string and network address for audit.
func (h *BenchHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromContext(r.Context())
	if claims == nil {
		writeError(w, apperr.ErrMissingCredential)
		return
	}

	var req CreateBenchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperr.Validationf("Invalid request body"))
		return
	}

	bench, err := h.BenchService.Create(r.Context(), claims, service.CreateBenchInput{
		Timestamp: req.Timestamp,
		Location:  req.Location,
		Latitude:  req.Latitude,
		Longitude: req.Longitude,
		Accuracy:  req.Accuracy,
		Notes:     req.Notes,
		Tags:      req.Tags,
		IsPublic:  req.IsPublic,
	}, service.RequestMeta{
		UserAgent: userAgent(r),
		IPAddress: clientIP(r),
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"success": true,
		"message": "Bench record created successfully",
		"data":    bench,
	})
}

// Get handles GET /api/benchdata/{id}.
func (h *BenchHandler) Get(w http.ResponseWriter, r *http.Request) {
	bench, err := h.BenchService.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"data":    bench,
	})
}

// Update handles PUT /api/benchdata/{id}.
// Only location, latitude, longitude, notes, and tags may change; a request
// touching none of them is rejected.
func (h *BenchHandler) Update(w http.ResponseWriter, r *http.Request) {
	var upd models.BenchUpdate
	if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
		writeError(w, apperr.Validationf("Invalid request body"))
		return
	}

	bench, err := h.BenchService.Update(r.Context(), chi.URLParam(r, "id"), upd)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Bench record updated successfully",
		"data":    bench,
	})
}

// Delete handles DELETE /api/benchdata/{id}.
// Hard-deletes the record and returns the deleted identifier as confirmation.
func (h *BenchHandler) Delete(w http.ResponseWriter, r *http.Request) {
	deletedID, err := h.BenchService.Delete(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":   true,
		"message":   "Bench record deleted successfully",
		"deletedId": deletedID,
	})
}

func userAgent(r *http.Request) string {
	if ua := r.UserAgent(); ua != "" {
		return ua
	}
	return "Unknown"
}

// clientIP prefers the forwarding headers set by a reverse proxy and falls
// back to the connection's remote address.
func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		// First hop is the originating client.
		return strings.TrimSpace(strings.Split(fwd, ",")[0])
	}
	if real := r.Header.Get("X-Real-Ip"); real != "" {
		return real
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
