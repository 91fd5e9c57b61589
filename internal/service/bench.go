package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/benchmarked/api/internal/apperr"
	"github.com/benchmarked/api/internal/models"
)

// BenchRepository defines the persistence operations needed by the BenchService.
type BenchRepository interface {
	// Insert stores a fully-stamped bench record.
	Insert(ctx context.Context, b *models.Bench) error
	// GetByID fetches a record; apperr.ErrNotFound when absent.
	GetByID(ctx context.Context, id string) (*models.Bench, error)
	// List returns all records, newest first.
	List(ctx context.Context) ([]models.Bench, error)
	// Update applies the non-nil fields of upd and bumps updated_at/version.
	Update(ctx context.Context, id string, upd models.BenchUpdate) (*models.Bench, error)
	// Delete hard-deletes a record; apperr.ErrNotFound when absent.
	Delete(ctx context.Context, id string) error
}

// CreateBenchInput carries the caller-supplied fields of a new record.
// Latitude and longitude are pointers so a missing coordinate is
// distinguishable from zero.
type CreateBenchInput struct {
	Timestamp string
	Location  string
	Latitude  *float64
	Longitude *float64
	Accuracy  *float64
	Notes     string
	Tags      []string
	IsPublic  bool
}

// RequestMeta is the audit metadata captured from the incoming request.
type RequestMeta struct {
	UserAgent string
	IPAddress string
}

// BenchService implements bench record operations. Callers must already be
// authenticated; the service enforces the role requirement on creation.
type BenchService struct {
	repo BenchRepository
}

// NewBenchService constructs a BenchService with the provided repository.
func NewBenchService(repo BenchRepository) *BenchService {
	return &BenchService{repo: repo}
}

// List returns all bench records sorted by creation time descending.
func (s *BenchService) List(ctx context.Context) ([]models.Bench, error) {
	benches, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	if benches == nil {
		benches = []models.Bench{}
	}
	return benches, nil
}

// Get fetches a single record. A malformed identifier fails with a
// ValidationError before any lookup.
func (s *BenchService) Get(ctx context.Context, id string) (*models.Bench, error) {
	if err := validateID(id); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, id)
}

// Create stores a new record on behalf of an admin caller. The record is
// stamped with the caller identity, audit metadata, creation instants, and
// version 1.
func (s *BenchService) Create(ctx context.Context, claims *Claims, in CreateBenchInput, meta RequestMeta) (*models.Bench, error) {
	if claims.Role != models.RoleAdmin {
		return nil, apperr.ErrForbidden
	}
	if in.Timestamp == "" || in.Location == "" || in.Latitude == nil || in.Longitude == nil {
		return nil, apperr.Validationf("Missing required fields: timestamp, location, latitude, longitude")
	}

	now := time.Now().UTC()
	tags := in.Tags
	if tags == nil {
		tags = []string{}
	}

	b := &models.Bench{
		ID:         uuid.NewString(),
		Timestamp:  in.Timestamp,
		Location:   in.Location,
		Latitude:   *in.Latitude,
		Longitude:  *in.Longitude,
		DateLogged: parseDisplayTimestamp(in.Timestamp),
		LoggedBy:   claims.Username,
		UserID:     claims.Subject,
		Accuracy:   in.Accuracy,
		Notes:      in.Notes,
		Tags:       tags,
		IsActive:   true,
		IsPublic:   in.IsPublic,
		UserAgent:  meta.UserAgent,
		IPAddress:  meta.IPAddress,
		CreatedAt:  now,
		UpdatedAt:  now,
		Version:    1,
	}

	if err := s.repo.Insert(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

// Update applies a partial update to the allowlisted fields. An update
// carrying none of them fails with apperr.ErrNoChanges.
func (s *BenchService) Update(ctx context.Context, id string, upd models.BenchUpdate) (*models.Bench, error) {
	if err := validateID(id); err != nil {
		return nil, err
	}
	if upd.Empty() {
		return nil, apperr.ErrNoChanges
	}
	return s.repo.Update(ctx, id, upd)
}

// Delete hard-deletes a record and returns its identifier as confirmation.
func (s *BenchService) Delete(ctx context.Context, id string) (string, error) {
	if err := validateID(id); err != nil {
		return "", err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return "", err
	}
	return id, nil
}

func validateID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return apperr.Validationf("Invalid bench ID format")
	}
	return nil
}

// displayTimestampLayouts are tried in order when parsing the display
// string into an instant for date_logged.
var displayTimestampLayouts = []string{
	"2006-01-02 3:04 PM",
	"2006-01-02 15:04",
	"2006-01-02",
}

// parseDisplayTimestamp best-effort parses a display string like
// "2025-01-19 5:30 PM CT" after stripping a trailing zone abbreviation.
// Returns the zero time when no layout matches; the display string itself
// is always preserved verbatim on the record.
func parseDisplayTimestamp(ts string) time.Time {
	trimmed := strings.TrimSpace(ts)
	if i := strings.LastIndex(trimmed, " "); i > 0 {
		last := trimmed[i+1:]
		if last != "AM" && last != "PM" && len(last) <= 4 && last == strings.ToUpper(last) {
			trimmed = strings.TrimSpace(trimmed[:i])
		}
	}
	for _, layout := range displayTimestampLayouts {
		if t, err := time.Parse(layout, trimmed); err == nil {
			return t
		}
	}
	return time.Time{}
}
