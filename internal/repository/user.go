// Package repository provides PostgreSQL persistence for users and bench records.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/benchmarked/api/internal/apperr"
	"github.com/benchmarked/api/internal/models"
)

// PostgresUserRepository reads user credentials from a PostgreSQL database.
// Users are provisioned out-of-band; this repository never writes.
type PostgresUserRepository struct {
	// DB is the database handle for executing queries.
	DB *sql.DB
}

// NewPostgresUserRepository creates a new PostgresUserRepository with the
// given database connection.
func NewPostgresUserRepository(db *sql.DB) *PostgresUserRepository {
	return &PostgresUserRepository{DB: db}
}

// GetByUsername fetches the user with the given username.
// Returns apperr.ErrNotFound if no such user exists.
func (r *PostgresUserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	var u models.User
	var role sql.NullString
	err := r.DB.QueryRowContext(ctx, `
		SELECT id, username, password_hash, role FROM users WHERE username = $1
	`, username).Scan(&u.ID, &u.Username, &u.PasswordHash, &role)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("GetByUsername: %w", err)
	}

	// Default the role claim when the column was never populated.
	u.Role = models.RoleUser
	if role.Valid && role.String != "" {
		u.Role = models.Role(role.String)
	}
	return &u, nil
}
