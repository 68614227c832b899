package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/ideaforge/auth-server/internal/model"
)

var _ model.SessionAuditStore = (*SessionAuditRepository)(nil)

type SessionAuditRepository struct {
	db DB
}

func NewSessionAuditRepository(db DB) *SessionAuditRepository {
	return &SessionAuditRepository{db: db}
}

func (r *SessionAuditRepository) Create(ctx context.Context, session model.SessionAudit) (model.SessionAudit, error) {
	const query = `
        INSERT INTO user_sessions (id, user_id, ip, user_agent)
        VALUES ($1, $2, $3, $4)
        RETURNING id, user_id, ip, user_agent, created_at, last_seen
    `

	if session.ID == uuid.Nil {
		session.ID = uuid.New()
	}

	var saved model.SessionAudit
	err := r.db.QueryRow(ctx, query,
		session.ID, session.UserID, session.IP, session.UserAgent,
	).Scan(
		&saved.ID, &saved.UserID, &saved.IP, &saved.UserAgent, &saved.CreatedAt, &saved.LastSeen,
	)
	if err != nil {
		return model.SessionAudit{}, fmt.Errorf("failed to create session audit: %w", err)
	}
	return saved, nil
}

func (r *SessionAuditRepository) GetByID(ctx context.Context, id uuid.UUID) (model.SessionAudit, error) {
	const query = `
        SELECT id, user_id, ip, user_agent, created_at, last_seen
        FROM user_sessions WHERE id = $1
    `
	var session model.SessionAudit
	err := r.db.QueryRow(ctx, query, id).Scan(
		&session.ID, &session.UserID, &session.IP, &session.UserAgent, &session.CreatedAt, &session.LastSeen,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.SessionAudit{}, model.ErrNotFound
		}
		return model.SessionAudit{}, fmt.Errorf("failed to get session audit: %w", err)
	}
	return session, nil
}

func (r *SessionAuditRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]model.SessionAudit, error) {
	const query = `
        SELECT id, user_id, ip, user_agent, created_at, last_seen
        FROM user_sessions WHERE user_id = $1 ORDER BY created_at DESC
    `
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list session audits: %w", err)
	}
	defer rows.Close()

	var sessions []model.SessionAudit
	for rows.Next() {
		var s model.SessionAudit
		if err := rows.Scan(&s.ID, &s.UserID, &s.IP, &s.UserAgent, &s.CreatedAt, &s.LastSeen); err != nil {
			return nil, fmt.Errorf("failed to scan session audit: %w", err)
		}
		sessions = append(sessions, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate session audits: %w", err)
	}

	return sessions, nil
}
