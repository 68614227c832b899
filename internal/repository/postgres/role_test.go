package postgres

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoleRepository_ListByUser(t *testing.T) {
	mock := newMockPool(t)
	repo := NewRoleRepository(mock)
	userID := uuid.New()

	t.Run("multiple roles", func(t *testing.T) {
		rows := pgxmock.NewRows([]string{"role_name"}).
			AddRow("admin").
			AddRow("user")
		mock.ExpectQuery("SELECT role_name FROM user_roles").
			WithArgs(userID).
			WillReturnRows(rows)

		roles, err := repo.ListByUser(context.Background(), userID)
		require.NoError(t, err)
		assert.Equal(t, []string{"admin", "user"}, roles)
	})

	t.Run("no roles", func(t *testing.T) {
		mock.ExpectQuery("SELECT role_name FROM user_roles").
			WithArgs(userID).
			WillReturnRows(pgxmock.NewRows([]string{"role_name"}))

		roles, err := repo.ListByUser(context.Background(), userID)
		require.NoError(t, err)
		assert.Empty(t, roles)
	})

	require.NoError(t, mock.ExpectationsWereMet())
}
