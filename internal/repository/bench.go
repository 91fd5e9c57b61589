package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"

	"github.com/benchmarked/api/internal/apperr"
	"github.com/benchmarked/api/internal/models"
)

// benchColumns is the canonical column list shared by all bench queries.
const benchColumns = `id, ts, location, latitude, longitude, date_logged, logged_by, user_id,
		accuracy, notes, tags, is_active, is_public, user_agent, ip_address,
		created_at, updated_at, version`

// PostgresBenchRepository implements bench record persistence against a
// PostgreSQL database.
type PostgresBenchRepository struct {
	// DB is the database handle for executing queries.
	DB *sql.DB
}

// NewPostgresBenchRepository creates a new PostgresBenchRepository using the
// provided *sql.DB.
func NewPostgresBenchRepository(db *sql.DB) *PostgresBenchRepository {
	return &PostgresBenchRepository{DB: db}
}

// Insert stores a new bench record. All server-stamped fields (id, audit
// metadata, instants, version) must already be set by the caller.
func (r *PostgresBenchRepository) Insert(ctx context.Context, b *models.Bench) error {
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO benches (`+benchColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
	`,
		b.ID, b.Timestamp, b.Location, b.Latitude, b.Longitude, nullTime(b.DateLogged),
		b.LoggedBy, nullString(b.UserID), b.Accuracy, b.Notes, pq.Array(b.Tags),
		b.IsActive, b.IsPublic, b.UserAgent, b.IPAddress,
		b.CreatedAt, b.UpdatedAt, b.Version,
	)
	if err != nil {
		return fmt.Errorf("Insert: %w", err)
	}
	return nil
}

// GetByID fetches a single bench record by its identifier.
// Returns apperr.ErrNotFound if the record does not exist.
func (r *PostgresBenchRepository) GetByID(ctx context.Context, id string) (*models.Bench, error) {
	row := r.DB.QueryRowContext(ctx, `
		SELECT `+benchColumns+` FROM benches WHERE id = $1
	`, id)
	b, err := scanBench(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("GetByID: %w", err)
	}
	return b, nil
}

// List returns all bench records sorted by creation time, newest first.
func (r *PostgresBenchRepository) List(ctx context.Context) ([]models.Bench, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT `+benchColumns+` FROM benches ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("List: %w", err)
	}
	defer rows.Close()

	var benches []models.Bench
	for rows.Next() {
		b, err := scanBench(rows)
		if err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		benches = append(benches, *b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("List: %w", err)
	}
	return benches, nil
}

// Update applies the non-nil fields of upd to the record with the given id,
// unconditionally bumping updated_at and version. Returns the updated record.
// Returns apperr.ErrNoChanges when upd carries no fields and
// apperr.ErrNotFound when the record does not exist.
func (r *PostgresBenchRepository) Update(ctx context.Context, id string, upd models.BenchUpdate) (*models.Bench, error) {
	set := []string{"updated_at = NOW()", "version = version + 1"}
	var args []any
	add := func(col string, v any) {
		args = append(args, v)
		set = append(set, fmt.Sprintf("%s = $%d", col, len(args)))
	}

	if upd.Location != nil {
		add("location", *upd.Location)
	}
	if upd.Latitude != nil {
		add("latitude", *upd.Latitude)
	}
	if upd.Longitude != nil {
		add("longitude", *upd.Longitude)
	}
	if upd.Notes != nil {
		add("notes", *upd.Notes)
	}
	if upd.Tags != nil {
		add("tags", pq.Array(*upd.Tags))
	}

	if len(args) == 0 {
		return nil, apperr.ErrNoChanges
	}

	args = append(args, id)
	query := fmt.Sprintf(`
		UPDATE benches SET %s WHERE id = $%d
		RETURNING `+benchColumns,
		strings.Join(set, ", "), len(args))

	row := r.DB.QueryRowContext(ctx, query, args...)
	b, err := scanBench(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("Update: %w", err)
	}
	return b, nil
}

// Delete hard-deletes the record with the given id.
// Returns apperr.ErrNotFound if no row was removed.
func (r *PostgresBenchRepository) Delete(ctx context.Context, id string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM benches WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("Delete: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("Delete: %w", err)
	}
	if rows == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

// scanner abstracts *sql.Row and *sql.Rows for scanBench.
type scanner interface {
	Scan(dest ...any) error
}

func scanBench(s scanner) (*models.Bench, error) {
	var b models.Bench
	var dateLogged sql.NullTime
	var userID sql.NullString
	var accuracy sql.NullFloat64
	err := s.Scan(
		&b.ID, &b.Timestamp, &b.Location, &b.Latitude, &b.Longitude, &dateLogged,
		&b.LoggedBy, &userID, &accuracy, &b.Notes, pq.Array(&b.Tags),
		&b.IsActive, &b.IsPublic, &b.UserAgent, &b.IPAddress,
		&b.CreatedAt, &b.UpdatedAt, &b.Version,
	)
	if err != nil {
		return nil, err
	}
	if dateLogged.Valid {
		b.DateLogged = dateLogged.Time
	}
	if userID.Valid {
		b.UserID = userID.String
	}
	if accuracy.Valid {
		b.Accuracy = &accuracy.Float64
	}
	return &b, nil
}

func nullTime(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
