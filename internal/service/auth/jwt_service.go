package auth

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// JWTService defines operations for managing JWT authentication tokens.
type JWTService interface {
	// GenerateToken creates a signed JWT access token for the user.
	// Returns the token string and its expiry time.
	GenerateToken(ctx context.Context, userID uuid.UUID) (string, time.Time, error)

	// ValidateToken validates the provided token string and extracts the claims.
	// Returns ErrExpiredToken for expired tokens and ErrInvalidToken for any
	// other failure (bad signature, malformed, wrong algorithm, missing user).
	ValidateToken(ctx context.Context, tokenString string) (*Claims, error)
}

// Claims is the validated content of a token.
type Claims struct {
	// UserID is the unique identifier of the user the token was issued for.
	UserID    uuid.UUID
	IssuedAt  time.Time
	ExpiresAt time.Time
	ID        string
}
