// Package apperr defines the error taxonomy shared by services and HTTP
// handlers. Services return these sentinels (possibly wrapped); handlers
// map them to status codes with HTTPStatus. Error strings double as
// client-facing messages, hence the capitalization.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrValidation indicates malformed or missing input. Usually wrapped
	// with a specific message via Validationf.
	ErrValidation = errors.New("Invalid request")
	// ErrInvalidCredentials is returned for an unknown user or a wrong
	// password. The two cases are deliberately indistinguishable.
	ErrInvalidCredentials = errors.New("Invalid username or password")
	// ErrMissingCredential indicates an absent or malformed Authorization header.
	ErrMissingCredential = errors.New("Missing or invalid authorization header")
	// ErrInvalidToken indicates a token whose signature check failed.
	ErrInvalidToken = errors.New("Invalid token")
	// ErrExpiredToken indicates a token past its expiry.
	ErrExpiredToken = errors.New("Token expired")
	// ErrForbidden indicates an authenticated caller with insufficient role.
	ErrForbidden = errors.New("Insufficient permissions. Admin access required.")
	// ErrNotFound indicates an absent record.
	ErrNotFound = errors.New("Bench record not found")
	// ErrNoChanges indicates an update that touched no fields.
	ErrNoChanges = errors.New("No changes were made to the record")
	// ErrUnavailable indicates the underlying store is unreachable.
	ErrUnavailable = errors.New("Service unavailable")
)

// Error pairs a taxonomy sentinel with a specific client-facing message.
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string { return e.Message }

// Unwrap lets errors.Is match the sentinel.
func (e *Error) Unwrap() error { return e.Kind }

// Validationf builds a ValidationError with a formatted message.
func Validationf(format string, args ...any) error {
	return &Error{Kind: ErrValidation, Message: fmt.Sprintf(format, args...)}
}

// HTTPStatus maps an error to the HTTP status code the boundary should
// return. Unrecognized errors map to 500.
func HTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrValidation), errors.Is(err, ErrNoChanges):
		return http.StatusBadRequest
	case errors.Is(err, ErrInvalidCredentials),
		errors.Is(err, ErrMissingCredential),
		errors.Is(err, ErrInvalidToken),
		errors.Is(err, ErrExpiredToken):
		return http.StatusUnauthorized
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
