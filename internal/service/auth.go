package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ideaforge/auth-server/internal/apierrors"
	"github.com/ideaforge/auth-server/internal/logger"
	"github.com/ideaforge/auth-server/internal/model"
	"github.com/ideaforge/auth-server/internal/password"
	"github.com/ideaforge/auth-server/internal/token"
)

// MagicLinkTTL is the window within which a sent magic link can be verified.
const MagicLinkTTL = 15 * time.Minute

// SessionMeta carries the request attributes recorded in the session audit
// trail. Both fields are optional.
type SessionMeta struct {
	IP        *string
	UserAgent *string
}

// SessionResult is returned by every operation that establishes a session.
// RefreshToken holds the raw opaque secret; it is never reconstructible
// after this value is dropped.
type SessionResult struct {
	UserID       uuid.UUID
	Email        string
	AccessToken  string
	RefreshToken string
	RedirectTo   string
}

// CurrentUser aggregates the account, profile and role rows for the
// authenticated identity endpoint.
type CurrentUser struct {
	User    model.User
	Profile model.Profile
	Roles   []string
}

// Auth implements signup, login, magic-link verification and session
// revocation on top of the persistence stores and the token service.
type Auth struct {
	userStore    model.UserStore
	roleStore    model.RoleStore
	profileStore model.ProfileStore
	magicStore   model.MagicLinkStore
	sessionStore model.SessionAuditStore
	hasher       *password.Hasher
	tokens       *TokenService
	mailer       model.Mailer
	baseURL      string
	logger       *logger.Logger
}

func NewAuth(
	userStore model.UserStore,
	roleStore model.RoleStore,
	profileStore model.ProfileStore,
	magicStore model.MagicLinkStore,
	sessionStore model.SessionAuditStore,
	hasher *password.Hasher,
	tokens *TokenService,
	mailer model.Mailer,
	baseURL string,
	logger *logger.Logger,
) *Auth {
	return &Auth{
		userStore:    userStore,
		roleStore:    roleStore,
		profileStore: profileStore,
		magicStore:   magicStore,
		sessionStore: sessionStore,
		hasher:       hasher,
		tokens:       tokens,
		mailer:       mailer,
		baseURL:      baseURL,
		logger:       logger,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// recordSession writes a session audit row. Audit is best-effort: failures
// are logged and a nil session ID is returned, never an error, so a broken
// audit table cannot lock users out.
func (s *Auth) recordSession(ctx context.Context, userID uuid.UUID, meta SessionMeta) *uuid.UUID {
	saved, err := s.sessionStore.Create(ctx, model.SessionAudit{
		ID:        uuid.New(),
		UserID:    userID,
		IP:        meta.IP,
		UserAgent: meta.UserAgent,
	})
	if err != nil {
		s.logger.Error("Auth service: failed to record session", "error", err, "user_id", userID)
		return nil
	}
	return &saved.ID
}

// SignupPassword registers a new account with a password credential and
// establishes a session.
func (s *Auth) SignupPassword(ctx context.Context, email, plainPassword string, fullName *string, meta SessionMeta) (SessionResult, error) {
	email = normalizeEmail(email)
	s.logger.Debug("Auth service: signup with password", "email", email)

	if email == "" {
		return SessionResult{}, apierrors.NewErrInvalidArgument("email is required")
	}
	if plainPassword == "" {
		return SessionResult{}, apierrors.NewErrInvalidArgument("password is required")
	}

	if _, err := s.userStore.GetByEmail(ctx, email); err == nil {
		return SessionResult{}, apierrors.NewErrEmailIsTaken()
	} else if !errors.Is(err, model.ErrNotFound) {
		return SessionResult{}, fmt.Errorf("failed to check email: %w", err)
	}

	hash, err := s.hasher.Hash(plainPassword)
	if err != nil {
		return SessionResult{}, fmt.Errorf("failed to hash password: %w", err)
	}

	user, err := s.userStore.CreateWithDefaults(ctx, model.User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: &hash,
	}, fullName)
	if err != nil {
		return SessionResult{}, fmt.Errorf("failed to create user: %w", err)
	}

	sessionID := s.recordSession(ctx, user.ID, meta)

	access, refresh, err := s.tokens.Issue(ctx, user, []string{model.DefaultRole}, sessionID)
	if err != nil {
		return SessionResult{}, fmt.Errorf("failed to issue tokens: %w", err)
	}

	s.logger.Info("Auth service: user registered", "user_id", user.ID)

	return SessionResult{
		UserID:       user.ID,
		Email:        user.Email,
		AccessToken:  access,
		RefreshToken: refresh,
	}, nil
}

// SignupMagic starts passwordless registration: it rejects taken emails and
// sends a magic link. No account is created until the link is verified.
func (s *Auth) SignupMagic(ctx context.Context, email, redirectTo string) error {
	email = normalizeEmail(email)
	s.logger.Debug("Auth service: signup with magic link", "email", email)

	if email == "" {
		return apierrors.NewErrInvalidArgument("email is required")
	}

	if _, err := s.userStore.GetByEmail(ctx, email); err == nil {
		return apierrors.NewErrEmailIsTaken()
	} else if !errors.Is(err, model.ErrNotFound) {
		return fmt.Errorf("failed to check email: %w", err)
	}

	return s.sendMagicLink(ctx, email, redirectTo)
}

// MagicSend issues a magic link regardless of whether the account exists,
// so the login flow does not reveal which emails are registered.
func (s *Auth) MagicSend(ctx context.Context, email, redirectTo string) error {
	email = normalizeEmail(email)
	s.logger.Debug("Auth service: send magic link", "email", email)

	if email == "" {
		return apierrors.NewErrInvalidArgument("email is required")
	}

	return s.sendMagicLink(ctx, email, redirectTo)
}

func (s *Auth) sendMagicLink(ctx context.Context, email, redirectTo string) error {
	raw, err := token.Generate(token.MagicLinkBytes)
	if err != nil {
		return fmt.Errorf("failed to generate magic link token: %w", err)
	}

	err = s.magicStore.Create(ctx, model.MagicLink{
		Token:      raw,
		Email:      email,
		ExpiresAt:  time.Now().Add(MagicLinkTTL),
		RedirectTo: redirectTo,
	})
	if err != nil {
		return fmt.Errorf("failed to persist magic link: %w", err)
	}

	link := fmt.Sprintf("%s/api/auth/magic/verify?token=%s", s.baseURL, url.QueryEscape(raw))
	if err := s.mailer.SendMagicLink(ctx, email, link); err != nil {
		return fmt.Errorf("failed to send magic link: %w", err)
	}

	s.logger.Info("Auth service: magic link sent", "email", email)
	return nil
}

// Login authenticates a password credential. Unknown emails, passwordless
// accounts and wrong passwords all fail with the same error so the response
// does not reveal which part was wrong.
func (s *Auth) Login(ctx context.Context, email, plainPassword string, meta SessionMeta) (SessionResult, error) {
	email = normalizeEmail(email)
	s.logger.Debug("Auth service: login", "email", email)

	user, err := s.userStore.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return SessionResult{}, apierrors.NewErrInvalidCredentials()
		}
		return SessionResult{}, fmt.Errorf("failed to get user: %w", err)
	}

	if user.PasswordHash == nil || !s.hasher.Verify(plainPassword, *user.PasswordHash) {
		return SessionResult{}, apierrors.NewErrInvalidCredentials()
	}

	roles, err := s.roleStore.ListByUser(ctx, user.ID)
	if err != nil {
		return SessionResult{}, fmt.Errorf("failed to list roles: %w", err)
	}

	sessionID := s.recordSession(ctx, user.ID, meta)

	access, refresh, err := s.tokens.Issue(ctx, user, roles, sessionID)
	if err != nil {
		return SessionResult{}, fmt.Errorf("failed to issue tokens: %w", err)
	}

	s.logger.Info("Auth service: user logged in", "user_id", user.ID)

	return SessionResult{
		UserID:       user.ID,
		Email:        user.Email,
		AccessToken:  access,
		RefreshToken: refresh,
	}, nil
}

// MagicVerify consumes a magic link and establishes a session, creating the
// account on first use. Consumption is a compare-and-set so a link verified
// from two tabs at once succeeds exactly once.
func (s *Auth) MagicVerify(ctx context.Context, rawToken string, meta SessionMeta) (SessionResult, error) {
	s.logger.Debug("Auth service: verify magic link")

	if rawToken == "" {
		return SessionResult{}, apierrors.NewErrInvalidArgument("token is required")
	}

	link, err := s.magicStore.GetByToken(ctx, rawToken)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return SessionResult{}, apierrors.NewErrMagicLinkNotFound()
		}
		return SessionResult{}, fmt.Errorf("failed to get magic link: %w", err)
	}

	switch link.StatusAt(time.Now()) {
	case model.MagicLinkConsumed:
		return SessionResult{}, apierrors.NewErrMagicLinkConsumed()
	case model.MagicLinkExpired:
		return SessionResult{}, apierrors.NewErrMagicLinkExpired()
	}

	user, err := s.userStore.GetByEmail(ctx, link.Email)
	switch {
	case errors.Is(err, model.ErrNotFound):
		user, err = s.userStore.CreateWithDefaults(ctx, model.User{
			ID:            uuid.New(),
			Email:         link.Email,
			EmailVerified: true,
		}, nil)
		if err != nil {
			return SessionResult{}, fmt.Errorf("failed to create user: %w", err)
		}
	case err != nil:
		return SessionResult{}, fmt.Errorf("failed to get user: %w", err)
	default:
		if !user.EmailVerified {
			if err := s.userStore.SetEmailVerified(ctx, user.ID); err != nil {
				return SessionResult{}, fmt.Errorf("failed to mark email verified: %w", err)
			}
		}
	}

	if err := s.magicStore.Consume(ctx, rawToken); err != nil {
		if errors.Is(err, model.ErrLinkConsumed) {
			return SessionResult{}, apierrors.NewErrMagicLinkConsumed()
		}
		return SessionResult{}, fmt.Errorf("failed to consume magic link: %w", err)
	}

	roles, err := s.roleStore.ListByUser(ctx, user.ID)
	if err != nil {
		return SessionResult{}, fmt.Errorf("failed to list roles: %w", err)
	}

	sessionID := s.recordSession(ctx, user.ID, meta)

	access, refresh, err := s.tokens.Issue(ctx, user, roles, sessionID)
	if err != nil {
		return SessionResult{}, fmt.Errorf("failed to issue tokens: %w", err)
	}

	s.logger.Info("Auth service: magic link verified", "user_id", user.ID)

	return SessionResult{
		UserID:       user.ID,
		Email:        user.Email,
		AccessToken:  access,
		RefreshToken: refresh,
		RedirectTo:   link.RedirectTo,
	}, nil
}

// Logout revokes the presented refresh token. Logout with no token, an
// unknown token or an already-revoked token succeeds: the end state is the
// same either way.
func (s *Auth) Logout(ctx context.Context, presentedRefresh string) error {
	if presentedRefresh == "" {
		return nil
	}
	if err := s.tokens.RevokeByToken(ctx, presentedRefresh); err != nil {
		return fmt.Errorf("failed to revoke refresh token: %w", err)
	}
	return nil
}

// CurrentUser returns the account, profile and roles for the given user ID.
func (s *Auth) CurrentUser(ctx context.Context, userID uuid.UUID) (CurrentUser, error) {
	user, err := s.userStore.GetByID(ctx, userID)
	if err != nil {
		return CurrentUser{}, fmt.Errorf("failed to get user: %w", err)
	}

	profile, err := s.profileStore.GetByUserID(ctx, userID)
	if err != nil {
		return CurrentUser{}, fmt.Errorf("failed to get profile: %w", err)
	}

	roles, err := s.roleStore.ListByUser(ctx, userID)
	if err != nil {
		return CurrentUser{}, fmt.Errorf("failed to list roles: %w", err)
	}

	return CurrentUser{User: user, Profile: profile, Roles: roles}, nil
}

// ListSessions returns the caller's session audit trail, newest first.
func (s *Auth) ListSessions(ctx context.Context, userID uuid.UUID) ([]model.SessionAudit, error) {
	sessions, err := s.sessionStore.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	return sessions, nil
}

// RevokeSession revokes the refresh tokens bound to one of the caller's
// sessions. Sessions belonging to another user are reported as not owned
// without revealing whether they exist.
func (s *Auth) RevokeSession(ctx context.Context, callerID, sessionID uuid.UUID) error {
	s.logger.Debug("Auth service: revoke session", "session_id", sessionID)

	session, err := s.sessionStore.GetByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return apierrors.NewErrSessionNotOwned()
		}
		return fmt.Errorf("failed to get session: %w", err)
	}
	if session.UserID != callerID {
		return apierrors.NewErrSessionNotOwned()
	}

	if err := s.tokens.RevokeBySession(ctx, sessionID); err != nil {
		return fmt.Errorf("failed to revoke session tokens: %w", err)
	}

	s.logger.Info("Auth service: session revoked", "user_id", callerID, "session_id", sessionID)
	return nil
}

// RevokeAllSessions revokes every active refresh token for the user. The
// caller's current access token stays valid until it expires.
func (s *Auth) RevokeAllSessions(ctx context.Context, userID uuid.UUID) error {
	if err := s.tokens.RevokeAllForUser(ctx, userID); err != nil {
		return fmt.Errorf("failed to revoke tokens: %w", err)
	}
	s.logger.Info("Auth service: all sessions revoked", "user_id", userID)
	return nil
}
