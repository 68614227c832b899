package context

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ideaforge/auth-server/internal/model"
)

func TestManager_RoundTrip(t *testing.T) {
	m := NewManager()
	claims := model.AccessClaims{UserID: uuid.New(), Email: "a@b.c", Roles: []string{"user"}}

	ctx := m.SetClaimsToContext(context.Background(), claims)

	got, ok := m.GetClaimsFromContext(ctx)
	require.True(t, ok)
	assert.Equal(t, claims, got)
}

func TestManager_Empty(t *testing.T) {
	m := NewManager()

	_, ok := m.GetClaimsFromContext(context.Background())
	assert.False(t, ok)
}
