package router

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	httpcontext "github.com/ideaforge/auth-server/internal/api/http/context"
	"github.com/ideaforge/auth-server/internal/mocks"
	"github.com/ideaforge/auth-server/internal/model"
	"github.com/ideaforge/auth-server/internal/password"
	"github.com/ideaforge/auth-server/internal/service"
	"github.com/ideaforge/auth-server/internal/testutil"
	"github.com/ideaforge/auth-server/internal/token"
)

type routerFixture struct {
	userStore    *mocks.UserStore
	roleStore    *mocks.RoleStore
	profileStore *mocks.ProfileStore
	magicStore   *mocks.MagicLinkStore
	sessionStore *mocks.SessionAuditStore
	refreshStore *mocks.RefreshTokenStore
	mailer       *mocks.Mailer
	handler      http.Handler
}

// newRouterFixture wires the full stack with mocked stores and a real JWT
// manager so requests exercise the same token path as production.
func newRouterFixture() *routerFixture {
	f := &routerFixture{
		userStore:    &mocks.UserStore{},
		roleStore:    &mocks.RoleStore{},
		profileStore: &mocks.ProfileStore{},
		magicStore:   &mocks.MagicLinkStore{},
		sessionStore: &mocks.SessionAuditStore{},
		refreshStore: &mocks.RefreshTokenStore{},
		mailer:       &mocks.Mailer{},
	}
	log := testutil.MakeNoopLogger()
	manager := token.NewJWT("test-jwt-secret")
	tokens := service.NewTokenService(manager, f.refreshStore, f.userStore, f.roleStore,
		token.NewRefreshHasher("test-refresh-secret"), log)
	auth := service.NewAuth(f.userStore, f.roleStore, f.profileStore, f.magicStore, f.sessionStore,
		password.NewHasher(), tokens, f.mailer, "http://localhost:8080", log)
	f.handler = New(auth, tokens, httpcontext.NewManager(), log).Handler()
	return f
}

func TestRouter_SignupThenMe(t *testing.T) {
	f := newRouterFixture()
	userID := uuid.New()

	f.userStore.On("GetByEmail", mock.Anything, "ada@example.com").Return(model.User{}, model.ErrNotFound)
	f.userStore.On("CreateWithDefaults", mock.Anything, mock.Anything, mock.Anything).
		Return(model.User{ID: userID, Email: "ada@example.com"}, nil)
	f.sessionStore.On("Create", mock.Anything, mock.Anything).
		Return(model.SessionAudit{ID: uuid.New(), UserID: userID}, nil)
	f.refreshStore.On("Create", mock.Anything, mock.Anything).Return(nil)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/signup",
		strings.NewReader(`{"email":"ada@example.com","password":"correct horse"}`))
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)

	var accessToken string
	for _, c := range rec.Result().Cookies() {
		if c.Name == "access_token" {
			accessToken = c.Value
		}
	}
	require.NotEmpty(t, accessToken)

	// the minted cookie authenticates the protected endpoint
	f.userStore.On("GetByID", mock.Anything, userID).
		Return(model.User{ID: userID, Email: "ada@example.com"}, nil)
	f.profileStore.On("GetByUserID", mock.Anything, userID).
		Return(model.Profile{UserID: userID}, nil)
	f.roleStore.On("ListByUser", mock.Anything, userID).Return([]string{"user"}, nil)

	meReq := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	meReq.Header.Set("Authorization", "Bearer "+accessToken)
	meRec := httptest.NewRecorder()
	f.handler.ServeHTTP(meRec, meReq)

	assert.Equal(t, http.StatusOK, meRec.Code)
	assert.Contains(t, meRec.Body.String(), "ada@example.com")
}

func TestRouter_ProtectedRoutesRequireAuth(t *testing.T) {
	f := newRouterFixture()

	routes := []struct {
		method string
		target string
	}{
		{http.MethodGet, "/api/auth/me"},
		{http.MethodGet, "/api/auth/sessions"},
		{http.MethodDelete, "/api/auth/sessions/" + uuid.NewString()},
		{http.MethodPost, "/api/auth/sessions/revoke-all"},
	}

	for _, rt := range routes {
		rec := httptest.NewRecorder()
		f.handler.ServeHTTP(rec, httptest.NewRequest(rt.method, rt.target, nil))
		assert.Equal(t, http.StatusUnauthorized, rec.Code, "%s %s", rt.method, rt.target)
	}
}

func TestRouter_PublicRoutesSkipAuth(t *testing.T) {
	f := newRouterFixture()
	f.magicStore.On("Create", mock.Anything, mock.Anything).Return(nil)
	f.mailer.On("SendMagicLink", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/magic/send",
		strings.NewReader(`{"email":"a@b.c"}`))
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRouter_UnknownRoute(t *testing.T) {
	f := newRouterFixture()

	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/other", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
