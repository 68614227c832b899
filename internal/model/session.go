package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// SessionAuditStore persists login audit rows. Writes are best-effort: a
// failed insert must never fail the surrounding operation.
type SessionAuditStore interface {
	Create(ctx context.Context, session SessionAudit) (SessionAudit, error)
	GetByID(ctx context.Context, id uuid.UUID) (SessionAudit, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]SessionAudit, error)
}

// SessionAudit records one login event. It is not authoritative for
// authorization decisions.
type SessionAudit struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	IP        *string
	UserAgent *string
	CreatedAt time.Time
	LastSeen  *time.Time
}
