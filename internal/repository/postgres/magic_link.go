package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/ideaforge/auth-server/internal/model"
)

var _ model.MagicLinkStore = (*MagicLinkRepository)(nil)

type MagicLinkRepository struct {
	db DB
}

func NewMagicLinkRepository(db DB) *MagicLinkRepository {
	return &MagicLinkRepository{db: db}
}

func (r *MagicLinkRepository) Create(ctx context.Context, link model.MagicLink) error {
	const query = `
        INSERT INTO magic_links (token, email, expires_at, consumed, redirect_to)
        VALUES ($1, $2, $3, FALSE, $4)
    `
	_, err := r.db.Exec(ctx, query, link.Token, link.Email, link.ExpiresAt, link.RedirectTo)
	if err != nil {
		return fmt.Errorf("failed to create magic link: %w", err)
	}
	return nil
}

func (r *MagicLinkRepository) GetByToken(ctx context.Context, token string) (model.MagicLink, error) {
	const query = `
        SELECT token, email, expires_at, consumed, redirect_to, created_at
        FROM magic_links WHERE token = $1
    `
	var link model.MagicLink
	err := r.db.QueryRow(ctx, query, token).Scan(
		&link.Token, &link.Email, &link.ExpiresAt, &link.Consumed, &link.RedirectTo, &link.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.MagicLink{}, model.ErrNotFound
		}
		return model.MagicLink{}, fmt.Errorf("failed to get magic link: %w", err)
	}
	return link, nil
}

// Consume flips the consumed flag. The compare-and-set on consumed = FALSE
// guarantees that of two concurrent verifications exactly one succeeds; the
// loser gets ErrLinkConsumed.
func (r *MagicLinkRepository) Consume(ctx context.Context, token string) error {
	const query = `
        UPDATE magic_links SET consumed = TRUE
        WHERE token = $1 AND consumed = FALSE
    `
	tag, err := r.db.Exec(ctx, query, token)
	if err != nil {
		return fmt.Errorf("failed to consume magic link: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrLinkConsumed
	}
	return nil
}
