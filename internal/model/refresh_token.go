package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type RefreshTokenStore interface {
	Create(ctx context.Context, token RefreshToken) error
	GetByHash(ctx context.Context, tokenHash string) (RefreshToken, error)
	// Rotate atomically revokes the old record and inserts its replacement.
	// The revoke is conditional on the record still being unrevoked; if a
	// concurrent rotation won, Rotate returns ErrTokenRevoked and inserts
	// nothing.
	Rotate(ctx context.Context, oldID uuid.UUID, replacement RefreshToken) error
	// RevokeByHash marks the matching record revoked. Revoking an unknown or
	// already-revoked token is not an error.
	RevokeByHash(ctx context.Context, tokenHash string) error
	RevokeBySession(ctx context.Context, sessionID uuid.UUID) error
	RevokeAllByUser(ctx context.Context, userID uuid.UUID) error
}

// RefreshTokenStatus is the closed set of states a refresh token can be in.
type RefreshTokenStatus int

const (
	RefreshTokenActive RefreshTokenStatus = iota
	RefreshTokenRevoked
	RefreshTokenExpired
)

// RefreshToken is the server-side record of one refresh credential. The
// store holds only a keyed hash of the opaque secret; the raw value exists
// transiently in the response cookie and the caller's memory. Records are
// never deleted so rotation history remains available for replay detection.
type RefreshToken struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	SessionID *uuid.UUID
	TokenHash string
	ExpiresAt time.Time
	Revoked   bool
	CreatedAt time.Time
}

// StatusAt derives the token state at the given instant. Revocation takes
// precedence over expiry.
func (t RefreshToken) StatusAt(now time.Time) RefreshTokenStatus {
	if t.Revoked {
		return RefreshTokenRevoked
	}
	if now.After(t.ExpiresAt) {
		return RefreshTokenExpired
	}
	return RefreshTokenActive
}
