// Package service provides the business logic for session issuance,
// session verification, and bench record operations, delegating
// persistence to repository interfaces.
package service

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/benchmarked/api/internal/apperr"
	"github.com/benchmarked/api/internal/models"
)

// Claims represents the session token claims. The registered Subject holds
// the user ID.
type Claims struct {
	Username string      `json:"username"`
	Role     models.Role `json:"role"`
	jwt.RegisteredClaims
}

// JWTService signs and verifies session tokens.
type JWTService interface {
	// Generate mints a signed token for the given identity, expiring TTL
	// from now. Returns the token and its expiry instant.
	Generate(userID, username string, role models.Role) (string, time.Time, error)
	// Validate checks the token's signature and expiry and returns its claims.
	// Returns apperr.ErrExpiredToken or apperr.ErrInvalidToken on failure.
	Validate(tokenString string) (*Claims, error)
	// TTL reports the configured token lifetime.
	TTL() time.Duration
}

type jwtService struct {
	secret []byte
	ttl    time.Duration
}

// NewJWTService creates a JWTService signing with the given HMAC secret.
func NewJWTService(secret string, ttl time.Duration) JWTService {
	return &jwtService{secret: []byte(secret), ttl: ttl}
}

func (s *jwtService) TTL() time.Duration {
	return s.ttl
}

func (s *jwtService) Generate(userID, username string, role models.Role) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(s.ttl)
	claims := Claims{
		Username: username,
		Role:     role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

func (s *jwtService) Validate(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, apperr.ErrInvalidToken
		}
		return s.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, apperr.ErrExpiredToken
		}
		return nil, apperr.ErrInvalidToken
	}
	if !token.Valid {
		return nil, apperr.ErrInvalidToken
	}

	// The library already rejects expired tokens; re-check explicitly.
	if claims.ExpiresAt == nil || claims.ExpiresAt.Before(time.Now()) {
		return nil, apperr.ErrExpiredToken
	}
	return claims, nil
}
