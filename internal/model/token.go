package model

import (
	"time"

	"github.com/google/uuid"
)

// AccessClaims is the identity snapshot carried inside a signed access
// token. Roles are captured at mint time; later role changes do not affect
// already-issued tokens until they expire.
type AccessClaims struct {
	UserID    uuid.UUID
	Email     string
	Roles     []string
	IssuedAt  time.Time
	ExpiresAt time.Time
	TokenID   string
}

// TokenManager signs and verifies stateless access tokens.
type TokenManager interface {
	GenerateAccessToken(userID uuid.UUID, email string, roles []string) (string, AccessClaims, error)
	ParseAccessToken(token string) (AccessClaims, error)
}
