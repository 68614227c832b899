package context

import (
	"context"

	"github.com/ideaforge/auth-server/internal/model"
)

type contextKey int

const claimsKey contextKey = iota

// Manager stores and retrieves verified access-token claims on a request
// context. An unexported key type keeps other packages from writing the
// value directly.
type Manager struct{}

// NewManager creates a new request context manager.
func NewManager() *Manager {
	return &Manager{}
}

// SetClaimsToContext returns a child context carrying the claims.
func (m *Manager) SetClaimsToContext(ctx context.Context, claims model.AccessClaims) context.Context {
	return context.WithValue(ctx, claimsKey, claims)
}

// GetClaimsFromContext retrieves claims previously stored on the context.
// The boolean reports whether the request was authenticated.
func (m *Manager) GetClaimsFromContext(ctx context.Context) (model.AccessClaims, bool) {
	claims, ok := ctx.Value(claimsKey).(model.AccessClaims)
	return claims, ok
}
