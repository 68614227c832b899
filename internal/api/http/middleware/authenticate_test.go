package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	httpcontext "github.com/ideaforge/auth-server/internal/api/http/context"
	"github.com/ideaforge/auth-server/internal/model"
	"github.com/ideaforge/auth-server/internal/testutil"
)

type tokenSvcStub struct {
	claims model.AccessClaims
	err    error
}

func (s tokenSvcStub) Claims(_ context.Context, _ string) (model.AccessClaims, error) {
	return s.claims, s.err
}

func newProtectedHandler(t *testing.T, svc TokenService) (http.Handler, *model.AccessClaims) {
	t.Helper()
	ctxManager := httpcontext.NewManager()
	m := NewAuthenticate(svc, ctxManager, testutil.MakeNoopLogger())

	var seen model.AccessClaims
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := ctxManager.GetClaimsFromContext(r.Context())
		require.True(t, ok)
		seen = claims
		w.WriteHeader(http.StatusNoContent)
	})
	return m.Handler(next), &seen
}

func TestAuthenticate_BearerHeader(t *testing.T) {
	claims := model.AccessClaims{UserID: uuid.New(), Email: "a@b.c", Roles: []string{"user"}}
	h, seen := newProtectedHandler(t, tokenSvcStub{claims: claims})

	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.Header.Set("Authorization", "Bearer signed-access")
	rec := httptest.NewRecorder()

	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, claims, *seen)
}

func TestAuthenticate_AccessCookie(t *testing.T) {
	claims := model.AccessClaims{UserID: uuid.New(), Email: "a@b.c"}
	h, seen := newProtectedHandler(t, tokenSvcStub{claims: claims})

	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.AddCookie(&http.Cookie{Name: "access_token", Value: "signed-access"})
	rec := httptest.NewRecorder()

	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, claims.UserID, seen.UserID)
}

func TestAuthenticate_MissingToken(t *testing.T) {
	h, _ := newProtectedHandler(t, tokenSvcStub{})

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/auth/me", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "missing_token")
}

func TestAuthenticate_MalformedHeader(t *testing.T) {
	h, _ := newProtectedHandler(t, tokenSvcStub{})

	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.Header.Set("Authorization", "Token abc")
	rec := httptest.NewRecorder()

	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthenticate_InvalidToken(t *testing.T) {
	h, _ := newProtectedHandler(t, tokenSvcStub{err: assert.AnError})

	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.Header.Set("Authorization", "Bearer expired")
	rec := httptest.NewRecorder()

	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid_token")
}

func TestAuthenticate_HeaderWinsOverCookie(t *testing.T) {
	headerClaims := model.AccessClaims{UserID: uuid.New(), Email: "header@b.c"}
	h, seen := newProtectedHandler(t, tokenSvcStub{claims: headerClaims})

	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.Header.Set("Authorization", "Bearer header-token")
	req.AddCookie(&http.Cookie{Name: "access_token", Value: "cookie-token"})
	rec := httptest.NewRecorder()

	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, headerClaims.UserID, seen.UserID)
}
