// Package auth verifies the bearer tokens issued by the hosted auth backend.
package auth

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// JWTService defines operations for JWT authentication tokens.
type JWTService interface {
	// ValidateToken verifies signature and time claims and extracts the
	// account identity. The subject must be an account UUID.
	ValidateToken(ctx context.Context, tokenString string) (*Claims, error)

	// GenerateToken signs a token for userID. Production tokens come from
	// the auth backend; this exists for local development and tests.
	GenerateToken(ctx context.Context, userID uuid.UUID, email string) (string, error)
}

// Claims is the validated identity carried by a token.
type Claims struct {
	UserID    uuid.UUID `json:"sub"`
	Email     string    `json:"email,omitempty"`
	IssuedAt  time.Time `json:"iat,omitempty"`
	ExpiresAt time.Time `json:"exp,omitempty"`
	ID        string    `json:"jti,omitempty"`
}
