package token

import (
	"encoding/base64"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate(t *testing.T) {
	got, err := Generate(RefreshTokenBytes)
	require.NoError(t, err)

	// base64url without padding
	assert.NotContains(t, got, "=")
	assert.NotContains(t, got, "+")
	assert.NotContains(t, got, "/")

	decoded, err := base64.RawURLEncoding.DecodeString(got)
	require.NoError(t, err)
	assert.Len(t, decoded, RefreshTokenBytes)
}

func TestGenerate_Unique(t *testing.T) {
	seen := make(map[string]struct{})
	for range 100 {
		got, err := Generate(MagicLinkBytes)
		require.NoError(t, err)
		_, dup := seen[got]
		require.False(t, dup)
		seen[got] = struct{}{}
	}
}

func TestRefreshHasher_Hash(t *testing.T) {
	h := NewRefreshHasher("refresh-secret")

	first := h.Hash("raw-token")
	second := h.Hash("raw-token")
	assert.Equal(t, first, second)
	assert.Len(t, first, 64)
	assert.Equal(t, strings.ToLower(first), first)

	assert.NotEqual(t, first, h.Hash("other-token"))
}

func TestRefreshHasher_KeyedWithSecret(t *testing.T) {
	// A plain sha256 of the token must not verify against a different key,
	// otherwise a database leak plus a known algorithm would be enough.
	a := NewRefreshHasher("secret-a")
	b := NewRefreshHasher("secret-b")

	assert.NotEqual(t, a.Hash("raw-token"), b.Hash("raw-token"))
}
