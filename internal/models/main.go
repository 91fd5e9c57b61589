// Package models defines the core data structures for users and bench records.
package models

import "time"

// Role identifies a user's permission level.
type Role string

const (
	// RoleAdmin may create bench records in addition to reading and editing them.
	RoleAdmin Role = "admin"
	// RoleUser may read, edit, and delete bench records but not create them.
	RoleUser Role = "user"
)

// User represents an application user with credentials. Users are created
// out-of-band; the service only ever reads them.
type User struct {
	// ID is the unique identifier for the user.
	ID string
	// Username is the login name chosen by the user.
	Username string
	// PasswordHash is the bcrypt hash of the user's password.
	PasswordHash string
	// Role is the user's permission level ("admin" or "user").
	Role Role
}

// Bench is one logged location-visit entry.
type Bench struct {
	// ID is the unique identifier for the record.
	ID string `json:"id"`
	// Timestamp is the formatted display string captured at logging time,
	// e.g. "2025-01-19 5:30 PM CT".
	Timestamp string `json:"timestamp"`
	// Location is the human-readable place name.
	Location string `json:"location"`
	// Latitude is the GPS coordinate (north/south).
	Latitude float64 `json:"latitude"`
	// Longitude is the GPS coordinate (east/west).
	Longitude float64 `json:"longitude"`
	// DateLogged is the timestamp parsed into an instant for queries.
	DateLogged time.Time `json:"dateLogged"`
	// LoggedBy is the username of the user who created the record.
	LoggedBy string `json:"loggedBy"`
	// UserID is the creator's user ID.
	UserID string `json:"userId,omitempty"`
	// Accuracy is the reported geolocation accuracy in meters, if any.
	Accuracy *float64 `json:"accuracy,omitempty"`
	// Notes holds free-form user notes.
	Notes string `json:"notes"`
	// Tags is an ordered list of user-supplied labels.
	Tags []string `json:"tags"`
	// IsActive flags the record as live. No query filters on it.
	IsActive bool `json:"isActive"`
	// IsPublic flags the record as publicly visible.
	IsPublic bool `json:"isPublic"`
	// UserAgent is the client agent string captured at creation for audit.
	UserAgent string `json:"-"`
	// IPAddress is the client network address captured at creation for audit.
	IPAddress string `json:"-"`
	// CreatedAt is the creation instant.
	CreatedAt time.Time `json:"createdAt"`
	// UpdatedAt is the last-modification instant.
	UpdatedAt time.Time `json:"updatedAt"`
	// Version increases by exactly 1 on every successful update. It is an
	// audit counter, not a compare-and-swap precondition.
	Version int64 `json:"version"`
}

// BenchUpdate carries a partial update. Nil fields are left untouched;
// only the fields present here may be changed by an update.
type BenchUpdate struct {
	Location  *string   `json:"location"`
	Latitude  *float64  `json:"latitude"`
	Longitude *float64  `json:"longitude"`
	Notes     *string   `json:"notes"`
	Tags      *[]string `json:"tags"`
}

// Empty reports whether the update contains no fields.
func (u BenchUpdate) Empty() bool {
	return u.Location == nil && u.Latitude == nil && u.Longitude == nil &&
		u.Notes == nil && u.Tags == nil
}
