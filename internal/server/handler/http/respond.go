// Package http provides the HTTP handlers and routing for the bench API.
package http

import (
	"encoding/json"
	"net/http"

	"github.com/benchmarked/api/internal/apperr"
)

// writeJSON writes v as a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps err through the taxonomy to a status code and writes a
// JSON error body. Unexpected errors surface as a generic 500 message so
// internals never leak to the client.
func writeError(w http.ResponseWriter, err error) {
	status := apperr.HTTPStatus(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		msg = "Internal server error"
	}
	writeJSON(w, status, map[string]string{"error": msg})
}
