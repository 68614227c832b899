package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ideaforge/auth-server/internal/model"
)

func TestMagicLinkRepository_Create(t *testing.T) {
	mock := newMockPool(t)
	repo := NewMagicLinkRepository(mock)

	link := model.MagicLink{
		Token:      "opaque-token",
		Email:      "a@b.com",
		ExpiresAt:  time.Now().Add(15 * time.Minute),
		RedirectTo: "/dashboard",
	}

	mock.ExpectExec("INSERT INTO magic_links").
		WithArgs(link.Token, link.Email, link.ExpiresAt, link.RedirectTo).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	require.NoError(t, repo.Create(context.Background(), link))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMagicLinkRepository_GetByToken(t *testing.T) {
	mock := newMockPool(t)
	repo := NewMagicLinkRepository(mock)
	now := time.Now()

	t.Run("found", func(t *testing.T) {
		rows := pgxmock.NewRows([]string{"token", "email", "expires_at", "consumed", "redirect_to", "created_at"}).
			AddRow("opaque-token", "a@b.com", now.Add(15*time.Minute), false, "/", now)
		mock.ExpectQuery("SELECT token, email, expires_at, consumed, redirect_to, created_at").
			WithArgs("opaque-token").
			WillReturnRows(rows)

		link, err := repo.GetByToken(context.Background(), "opaque-token")
		require.NoError(t, err)
		assert.Equal(t, "a@b.com", link.Email)
		assert.Equal(t, model.MagicLinkActive, link.StatusAt(now))
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectQuery("SELECT token, email, expires_at, consumed, redirect_to, created_at").
			WithArgs("missing").
			WillReturnError(errNoRows(t))

		_, err := repo.GetByToken(context.Background(), "missing")
		assert.ErrorIs(t, err, model.ErrNotFound)
	})

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMagicLinkRepository_Consume(t *testing.T) {
	t.Run("first consumption succeeds", func(t *testing.T) {
		mock := newMockPool(t)
		repo := NewMagicLinkRepository(mock)

		mock.ExpectExec("UPDATE magic_links SET consumed = TRUE").
			WithArgs("opaque-token").
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))

		require.NoError(t, repo.Consume(context.Background(), "opaque-token"))
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("second consumption fails", func(t *testing.T) {
		mock := newMockPool(t)
		repo := NewMagicLinkRepository(mock)

		mock.ExpectExec("UPDATE magic_links SET consumed = TRUE").
			WithArgs("opaque-token").
			WillReturnResult(pgxmock.NewResult("UPDATE", 0))

		err := repo.Consume(context.Background(), "opaque-token")
		assert.ErrorIs(t, err, model.ErrLinkConsumed)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}
