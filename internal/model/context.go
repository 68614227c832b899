package model

import "context"

// ContextManager stores and retrieves the authenticated caller's claims on
// a request context.
type ContextManager interface {
	SetClaimsToContext(ctx context.Context, claims AccessClaims) context.Context
	GetClaimsFromContext(ctx context.Context) (AccessClaims, bool)
}
