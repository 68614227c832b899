package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/ideaforge/auth-server/internal/model"
)

var _ model.RefreshTokenStore = (*RefreshTokenRepository)(nil)

type RefreshTokenRepository struct {
	db DB
}

func NewRefreshTokenRepository(db DB) *RefreshTokenRepository {
	return &RefreshTokenRepository{db: db}
}

func (r *RefreshTokenRepository) Create(ctx context.Context, token model.RefreshToken) error {
	const query = `
        INSERT INTO refresh_tokens (id, user_id, session_id, token_hash, expires_at, revoked)
        VALUES ($1, $2, $3, $4, $5, $6)
    `

	if token.ID == uuid.Nil {
		token.ID = uuid.New()
	}

	_, err := r.db.Exec(ctx, query,
		token.ID, token.UserID, token.SessionID, token.TokenHash, token.ExpiresAt, token.Revoked,
	)
	if err != nil {
		return fmt.Errorf("failed to create refresh token: %w", err)
	}
	return nil
}

func (r *RefreshTokenRepository) GetByHash(ctx context.Context, tokenHash string) (model.RefreshToken, error) {
	const query = `
        SELECT id, user_id, session_id, token_hash, expires_at, revoked, created_at
        FROM refresh_tokens WHERE token_hash = $1
    `
	var rt model.RefreshToken
	err := r.db.QueryRow(ctx, query, tokenHash).Scan(
		&rt.ID, &rt.UserID, &rt.SessionID, &rt.TokenHash, &rt.ExpiresAt, &rt.Revoked, &rt.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.RefreshToken{}, model.ErrNotFound
		}
		return model.RefreshToken{}, fmt.Errorf("failed to get refresh token by hash: %w", err)
	}
	return rt, nil
}

// Rotate revokes the old record and inserts its replacement as one atomic
// unit. The revoke is a compare-and-set on revoked = FALSE; when two callers
// race on the same stale token exactly one sees the row flip and the other
// gets ErrTokenRevoked.
func (r *RefreshTokenRepository) Rotate(ctx context.Context, oldID uuid.UUID, replacement model.RefreshToken) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin rotation: %w", err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx,
		`UPDATE refresh_tokens SET revoked = TRUE WHERE id = $1 AND revoked = FALSE`,
		oldID,
	)
	if err != nil {
		return fmt.Errorf("failed to revoke rotated token: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrTokenRevoked
	}

	if replacement.ID == uuid.Nil {
		replacement.ID = uuid.New()
	}
	if _, err := tx.Exec(ctx,
		`INSERT INTO refresh_tokens (id, user_id, session_id, token_hash, expires_at, revoked)
		 VALUES ($1, $2, $3, $4, $5, FALSE)`,
		replacement.ID, replacement.UserID, replacement.SessionID, replacement.TokenHash, replacement.ExpiresAt,
	); err != nil {
		return fmt.Errorf("failed to insert replacement token: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit rotation: %w", err)
	}
	return nil
}

func (r *RefreshTokenRepository) RevokeByHash(ctx context.Context, tokenHash string) error {
	const query = `
        UPDATE refresh_tokens SET revoked = TRUE
        WHERE token_hash = $1 AND revoked = FALSE
    `
	if _, err := r.db.Exec(ctx, query, tokenHash); err != nil {
		return fmt.Errorf("failed to revoke refresh token: %w", err)
	}
	return nil
}

func (r *RefreshTokenRepository) RevokeBySession(ctx context.Context, sessionID uuid.UUID) error {
	const query = `
        UPDATE refresh_tokens SET revoked = TRUE
        WHERE session_id = $1 AND revoked = FALSE
    `
	if _, err := r.db.Exec(ctx, query, sessionID); err != nil {
		return fmt.Errorf("failed to revoke refresh tokens by session: %w", err)
	}
	return nil
}

func (r *RefreshTokenRepository) RevokeAllByUser(ctx context.Context, userID uuid.UUID) error {
	const query = `
        UPDATE refresh_tokens SET revoked = TRUE
        WHERE user_id = $1 AND revoked = FALSE
    `
	if _, err := r.db.Exec(ctx, query, userID); err != nil {
		return fmt.Errorf("failed to revoke refresh tokens by user: %w", err)
	}
	return nil
}
