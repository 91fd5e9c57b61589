package service

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/benchmarked/api/internal/apperr"
	"github.com/benchmarked/api/internal/models"
)

// UserRepository defines the persistence operations required by the
// authentication service.
type UserRepository interface {
	// GetByUsername fetches a user by username. Returns apperr.ErrNotFound
	// if no such user exists.
	GetByUsername(ctx context.Context, username string) (*models.User, error)
}

// LoginResult is what a successful login returns to the caller.
type LoginResult struct {
	Token    string
	Username string
	Role     models.Role
	// ExpiresIn is the token lifetime in seconds.
	ExpiresIn int64
}

// AuthService issues and verifies session tokens against the user store.
// Issuance is stateless; validity is entirely a function of signature
// and expiry.
type AuthService struct {
	repo UserRepository
	jwt  JWTService
}

// NewAuthService constructs an AuthService using the provided repository
// and token service.
func NewAuthService(repo UserRepository, jwt JWTService) *AuthService {
	return &AuthService{repo: repo, jwt: jwt}
}

// Login validates the username/password pair and mints a session token.
// An unknown user and a wrong password produce the identical
// apperr.ErrInvalidCredentials so callers cannot enumerate accounts.
// Store failures map to apperr.ErrUnavailable.
func (s *AuthService) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	if username == "" || password == "" {
		return nil, apperr.Validationf("Username and password are required")
	}

	user, err := s.repo.GetByUsername(ctx, username)
	if errors.Is(err, apperr.ErrNotFound) {
		return nil, apperr.ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", apperr.ErrUnavailable, err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, apperr.ErrInvalidCredentials
	}

	role := user.Role
	if role == "" {
		role = models.RoleUser
	}

	token, _, err := s.jwt.Generate(user.ID, user.Username, role)
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}

	return &LoginResult{
		Token:     token,
		Username:  user.Username,
		Role:      role,
		ExpiresIn: int64(s.jwt.TTL().Seconds()),
	}, nil
}

// Verify validates a presented token and returns its claims.
func (s *AuthService) Verify(tokenString string) (*Claims, error) {
	return s.jwt.Validate(tokenString)
}
