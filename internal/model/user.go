package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// DefaultRole is granted to every user at creation.
const DefaultRole = "user"

// UserStore defines persistence operations for users.
type UserStore interface {
	GetByEmail(ctx context.Context, email string) (User, error)
	GetByID(ctx context.Context, id uuid.UUID) (User, error)
	// CreateWithDefaults inserts the user together with an empty profile and
	// the default role grant in a single transaction.
	CreateWithDefaults(ctx context.Context, user User, fullName *string) (User, error)
	SetEmailVerified(ctx context.Context, id uuid.UUID) error
}

// RoleStore defines persistence operations for role grants.
type RoleStore interface {
	ListByUser(ctx context.Context, userID uuid.UUID) ([]string, error)
}

// ProfileStore defines persistence operations for user profiles.
type ProfileStore interface {
	GetByUserID(ctx context.Context, userID uuid.UUID) (Profile, error)
}

// User represents a stored identity record. PasswordHash is nil for
// accounts created through a magic link until a password is set.
type User struct {
	ID            uuid.UUID
	Email         string
	PasswordHash  *string
	EmailVerified bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Profile holds optional display data attached to a user.
type Profile struct {
	UserID    uuid.UUID
	FullName  *string
	AvatarURL *string
	CreatedAt time.Time
	UpdatedAt time.Time
}
