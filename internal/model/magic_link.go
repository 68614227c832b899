package model

import (
	"context"
	"time"
)

type MagicLinkStore interface {
	Create(ctx context.Context, link MagicLink) error
	GetByToken(ctx context.Context, token string) (MagicLink, error)
	// Consume marks the link used. The write is conditional on the link
	// still being unconsumed; a concurrent second consumption returns
	// ErrLinkConsumed.
	Consume(ctx context.Context, token string) error
}

// MagicLinkStatus is the closed set of states a magic link can be in.
type MagicLinkStatus int

const (
	MagicLinkActive MagicLinkStatus = iota
	MagicLinkConsumed
	MagicLinkExpired
)

// MagicLink is a single-use passwordless credential delivered by email.
//
// The token is stored in cleartext, unlike refresh-token secrets which are
// stored hashed. The asymmetry is deliberate: the magic link is a
// short-TTL, single-use secret delivered over a side channel, and hashing
// it would complicate the lookup without changing the threat model of a
// long-lived bearer cookie.
type MagicLink struct {
	Token      string
	Email      string
	ExpiresAt  time.Time
	Consumed   bool
	RedirectTo string
	CreatedAt  time.Time
}

// StatusAt derives the link state at the given instant. Consumption takes
// precedence over expiry.
func (l MagicLink) StatusAt(now time.Time) MagicLinkStatus {
	if l.Consumed {
		return MagicLinkConsumed
	}
	if now.After(l.ExpiresAt) {
		return MagicLinkExpired
	}
	return MagicLinkActive
}
