// Package handler implements the HTTP endpoints for the auth API.
package handler

import (
	"encoding/json"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/ideaforge/auth-server/internal/apierrors"
	"github.com/ideaforge/auth-server/internal/logger"
	"github.com/ideaforge/auth-server/internal/model"
	"github.com/ideaforge/auth-server/internal/service"
)

// Auth handles the HTTP surface of signup, login, token refresh and session
// management.
type Auth struct {
	authService    *service.Auth
	tokenService   *service.TokenService
	contextManager model.ContextManager
	logger         *logger.Logger
}

// NewAuth creates a new Auth handler instance.
func NewAuth(
	authService *service.Auth,
	tokenService *service.TokenService,
	contextManager model.ContextManager,
	logger *logger.Logger,
) *Auth {
	return &Auth{
		authService:    authService,
		tokenService:   tokenService,
		contextManager: contextManager,
		logger:         logger,
	}
}

type signupRequest struct {
	Email    string  `json:"email"`
	Password string  `json:"password"`
	Name     *string `json:"name,omitempty"`
}

type magicRequest struct {
	Email      string `json:"email"`
	RedirectTo string `json:"redirect_to,omitempty"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token,omitempty"`
}

type userResponse struct {
	ID    uuid.UUID `json:"id"`
	Email string    `json:"email"`
}

type sessionResponse struct {
	User         userResponse `json:"user"`
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	RedirectTo   string       `json:"redirect_to,omitempty"`
}

type statusResponse struct {
	Status string `json:"status"`
}

type currentUserResponse struct {
	ID            uuid.UUID `json:"id"`
	Email         string    `json:"email"`
	EmailVerified bool      `json:"email_verified"`
	FullName      *string   `json:"full_name"`
	AvatarURL     *string   `json:"avatar_url"`
	Roles         []string  `json:"roles"`
	CreatedAt     time.Time `json:"created_at"`
}

type sessionInfoResponse struct {
	ID        uuid.UUID  `json:"id"`
	IP        *string    `json:"ip"`
	UserAgent *string    `json:"user_agent"`
	CreatedAt time.Time  `json:"created_at"`
	LastSeen  *time.Time `json:"last_seen"`
}

func decodeBody(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return apierrors.NewErrInvalidArgument("invalid request body")
	}
	return nil
}

// sessionMeta extracts client attributes recorded in the session audit
// trail. The first X-Forwarded-For hop wins over the socket address.
func sessionMeta(r *http.Request) service.SessionMeta {
	meta := service.SessionMeta{}

	ip := r.RemoteAddr
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		ip = host
	}
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		ip = strings.TrimSpace(strings.Split(fwd, ",")[0])
	}
	if ip != "" {
		meta.IP = &ip
	}

	if ua := r.UserAgent(); ua != "" {
		meta.UserAgent = &ua
	}

	return meta
}

func newSessionResponse(res service.SessionResult) sessionResponse {
	return sessionResponse{
		User:         userResponse{ID: res.UserID, Email: res.Email},
		AccessToken:  res.AccessToken,
		RefreshToken: res.RefreshToken,
		RedirectTo:   res.RedirectTo,
	}
}

// SignupPassword handles POST /api/auth/signup.
func (h *Auth) SignupPassword(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	res, err := h.authService.SignupPassword(r.Context(), req.Email, req.Password, req.Name, sessionMeta(r))
	if err != nil {
		h.logger.Debug("Auth handler: signup failed", "error", err)
		writeError(w, err)
		return
	}

	setSessionCookies(w, res.AccessToken, res.RefreshToken)
	writeJSON(w, http.StatusCreated, newSessionResponse(res))
}

// SignupMagic handles POST /api/auth/signup/magic.
func (h *Auth) SignupMagic(w http.ResponseWriter, r *http.Request) {
	var req magicRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	if err := h.authService.SignupMagic(r.Context(), req.Email, req.RedirectTo); err != nil {
		h.logger.Debug("Auth handler: magic signup failed", "error", err)
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, statusResponse{Status: "sent"})
}

// MagicSend handles POST /api/auth/magic/send.
func (h *Auth) MagicSend(w http.ResponseWriter, r *http.Request) {
	var req magicRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	if err := h.authService.MagicSend(r.Context(), req.Email, req.RedirectTo); err != nil {
		h.logger.Debug("Auth handler: magic send failed", "error", err)
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, statusResponse{Status: "sent"})
}

// MagicVerify handles GET /api/auth/magic/verify. On success the session
// cookies are set and the caller is redirected when the link carried a
// redirect target, otherwise the token pair is returned as JSON.
func (h *Auth) MagicVerify(w http.ResponseWriter, r *http.Request) {
	res, err := h.authService.MagicVerify(r.Context(), r.URL.Query().Get("token"), sessionMeta(r))
	if err != nil {
		h.logger.Debug("Auth handler: magic verify failed", "error", err)
		writeError(w, err)
		return
	}

	setSessionCookies(w, res.AccessToken, res.RefreshToken)

	if res.RedirectTo != "" {
		http.Redirect(w, r, res.RedirectTo, http.StatusSeeOther)
		return
	}
	writeJSON(w, http.StatusOK, newSessionResponse(res))
}

// Login handles POST /api/auth/login.
func (h *Auth) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	res, err := h.authService.Login(r.Context(), req.Email, req.Password, sessionMeta(r))
	if err != nil {
		h.logger.Debug("Auth handler: login failed", "error", err)
		writeError(w, err)
		return
	}

	setSessionCookies(w, res.AccessToken, res.RefreshToken)
	writeJSON(w, http.StatusOK, newSessionResponse(res))
}

// refreshTokenFromRequest prefers the scoped cookie and falls back to the
// JSON body for clients that do not use cookies.
func refreshTokenFromRequest(r *http.Request) string {
	if c, err := r.Cookie(RefreshCookieName); err == nil && c.Value != "" {
		return c.Value
	}
	var req refreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err == nil {
		return req.RefreshToken
	}
	return ""
}

// Refresh handles POST /api/auth/refresh. The presented refresh token is
// rotated; failure clears the session cookies so clients fall back to a
// full login.
func (h *Auth) Refresh(w http.ResponseWriter, r *http.Request) {
	access, refresh, err := h.tokenService.Refresh(r.Context(), refreshTokenFromRequest(r))
	if err != nil {
		h.logger.Debug("Auth handler: refresh failed", "error", err)
		clearSessionCookies(w)
		writeError(w, err)
		return
	}

	setSessionCookies(w, access, refresh)
	writeJSON(w, http.StatusOK, struct {
		AccessToken  string `json:"access_token"`
		RefreshToken string `json:"refresh_token"`
	}{AccessToken: access, RefreshToken: refresh})
}

// Logout handles POST /api/auth/logout. It revokes the presented refresh
// token and clears the session cookies; it succeeds even with no token.
func (h *Auth) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.authService.Logout(r.Context(), refreshTokenFromRequest(r)); err != nil {
		h.logger.Error("Auth handler: logout failed", "error", err)
		writeError(w, err)
		return
	}

	clearSessionCookies(w)
	writeJSON(w, http.StatusOK, statusResponse{Status: "logged_out"})
}

func (h *Auth) callerID(r *http.Request) (uuid.UUID, bool) {
	claims, ok := h.contextManager.GetClaimsFromContext(r.Context())
	if !ok {
		return uuid.Nil, false
	}
	return claims.UserID, true
}

// Me handles GET /api/auth/me.
func (h *Auth) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.callerID(r)
	if !ok {
		writeError(w, apierrors.NewErrMissingAuthorizationToken())
		return
	}

	cu, err := h.authService.CurrentUser(r.Context(), userID)
	if err != nil {
		h.logger.Error("Auth handler: current user failed", "error", err)
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, currentUserResponse{
		ID:            cu.User.ID,
		Email:         cu.User.Email,
		EmailVerified: cu.User.EmailVerified,
		FullName:      cu.Profile.FullName,
		AvatarURL:     cu.Profile.AvatarURL,
		Roles:         cu.Roles,
		CreatedAt:     cu.User.CreatedAt,
	})
}

// ListSessions handles GET /api/auth/sessions.
func (h *Auth) ListSessions(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.callerID(r)
	if !ok {
		writeError(w, apierrors.NewErrMissingAuthorizationToken())
		return
	}

	sessions, err := h.authService.ListSessions(r.Context(), userID)
	if err != nil {
		h.logger.Error("Auth handler: list sessions failed", "error", err)
		writeError(w, err)
		return
	}

	out := make([]sessionInfoResponse, 0, len(sessions))
	for _, s := range sessions {
		out = append(out, sessionInfoResponse{
			ID:        s.ID,
			IP:        s.IP,
			UserAgent: s.UserAgent,
			CreatedAt: s.CreatedAt,
			LastSeen:  s.LastSeen,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

// RevokeSession handles DELETE /api/auth/sessions/{id}.
func (h *Auth) RevokeSession(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.callerID(r)
	if !ok {
		writeError(w, apierrors.NewErrMissingAuthorizationToken())
		return
	}

	sessionID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, apierrors.NewErrInvalidArgument("invalid session id"))
		return
	}

	if err := h.authService.RevokeSession(r.Context(), userID, sessionID); err != nil {
		h.logger.Debug("Auth handler: revoke session failed", "error", err)
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, statusResponse{Status: "revoked"})
}

// RevokeAllSessions handles POST /api/auth/sessions/revoke-all. The current
// access token keeps working until it expires; only refresh stops.
func (h *Auth) RevokeAllSessions(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.callerID(r)
	if !ok {
		writeError(w, apierrors.NewErrMissingAuthorizationToken())
		return
	}

	if err := h.authService.RevokeAllSessions(r.Context(), userID); err != nil {
		h.logger.Error("Auth handler: revoke all sessions failed", "error", err)
		writeError(w, err)
		return
	}

	clearSessionCookies(w)
	writeJSON(w, http.StatusOK, statusResponse{Status: "revoked"})
}
