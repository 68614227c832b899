package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ideaforge/auth-server/internal/apierrors"
	"github.com/ideaforge/auth-server/internal/logger"
	"github.com/ideaforge/auth-server/internal/model"
	"github.com/ideaforge/auth-server/internal/token"
)

// RefreshTokenTTL is the lifetime of a refresh credential. Each token is
// single-use; the TTL bounds how long an idle session can be resumed.
const RefreshTokenTTL = 30 * 24 * time.Hour

// TokenService issues, rotates and revokes token pairs. Access tokens are
// stateless JWTs; refresh tokens are opaque secrets tracked server-side by
// their keyed hash only.
type TokenService struct {
	manager   model.TokenManager
	store     model.RefreshTokenStore
	userStore model.UserStore
	roleStore model.RoleStore
	hasher    *token.RefreshHasher
	logger    *logger.Logger
}

func NewTokenService(
	manager model.TokenManager,
	store model.RefreshTokenStore,
	userStore model.UserStore,
	roleStore model.RoleStore,
	hasher *token.RefreshHasher,
	logger *logger.Logger,
) *TokenService {
	return &TokenService{
		manager:   manager,
		store:     store,
		userStore: userStore,
		roleStore: roleStore,
		hasher:    hasher,
		logger:    logger,
	}
}

// Issue mints an access/refresh pair for the user. The refresh secret is
// returned raw exactly once; only its hash is persisted.
func (s *TokenService) Issue(ctx context.Context, user model.User, roles []string, sessionID *uuid.UUID) (accessToken string, refreshToken string, err error) {
	access, _, err := s.manager.GenerateAccessToken(user.ID, user.Email, roles)
	if err != nil {
		return "", "", fmt.Errorf("failed to issue access token: %w", err)
	}

	raw, err := token.Generate(token.RefreshTokenBytes)
	if err != nil {
		return "", "", fmt.Errorf("failed to generate refresh token: %w", err)
	}

	rt := model.RefreshToken{
		ID:        uuid.New(),
		UserID:    user.ID,
		SessionID: sessionID,
		TokenHash: s.hasher.Hash(raw),
		ExpiresAt: time.Now().Add(RefreshTokenTTL),
	}

	if err := s.store.Create(ctx, rt); err != nil {
		return "", "", fmt.Errorf("failed to persist refresh token: %w", err)
	}

	return access, raw, nil
}

// Refresh rotates the presented refresh token: the old record is revoked and
// a replacement inserted in one atomic store operation, so every refresh
// token is single-use. A token that has already been rotated fails the same
// way as any other invalid token.
func (s *TokenService) Refresh(ctx context.Context, presentedRefresh string) (newAccess string, newRefresh string, err error) {
	if presentedRefresh == "" {
		return "", "", apierrors.NewErrInvalidRefreshToken()
	}

	rt, err := s.store.GetByHash(ctx, s.hasher.Hash(presentedRefresh))
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return "", "", apierrors.NewErrInvalidRefreshToken()
		}
		return "", "", fmt.Errorf("failed to get refresh token: %w", err)
	}

	if rt.StatusAt(time.Now()) != model.RefreshTokenActive {
		return "", "", apierrors.NewErrInvalidRefreshToken()
	}

	raw, err := token.Generate(token.RefreshTokenBytes)
	if err != nil {
		return "", "", fmt.Errorf("failed to generate refresh token: %w", err)
	}

	replacement := model.RefreshToken{
		ID:        uuid.New(),
		UserID:    rt.UserID,
		SessionID: rt.SessionID,
		TokenHash: s.hasher.Hash(raw),
		ExpiresAt: time.Now().Add(RefreshTokenTTL),
	}

	if err := s.store.Rotate(ctx, rt.ID, replacement); err != nil {
		if errors.Is(err, model.ErrTokenRevoked) {
			// a concurrent rotation won the compare-and-set
			s.logger.Info("Token service: refresh token reuse detected", "user_id", rt.UserID)
			return "", "", apierrors.NewErrInvalidRefreshToken()
		}
		return "", "", fmt.Errorf("failed to rotate refresh token: %w", err)
	}

	// Re-mint the access token from a fresh role lookup so role changes
	// take effect at the next refresh even though they never take effect
	// mid-access-token-lifetime.
	user, err := s.userStore.GetByID(ctx, rt.UserID)
	if err != nil {
		return "", "", fmt.Errorf("failed to get user: %w", err)
	}
	roles, err := s.roleStore.ListByUser(ctx, rt.UserID)
	if err != nil {
		return "", "", fmt.Errorf("failed to list roles: %w", err)
	}

	access, _, err := s.manager.GenerateAccessToken(user.ID, user.Email, roles)
	if err != nil {
		return "", "", fmt.Errorf("failed to issue access token: %w", err)
	}

	return access, raw, nil
}

// RevokeByToken revokes the record matching the raw refresh token. Unknown
// and already-revoked tokens are not errors: logout is idempotent.
func (s *TokenService) RevokeByToken(ctx context.Context, presentedRefresh string) error {
	return s.store.RevokeByHash(ctx, s.hasher.Hash(presentedRefresh))
}

func (s *TokenService) RevokeBySession(ctx context.Context, sessionID uuid.UUID) error {
	return s.store.RevokeBySession(ctx, sessionID)
}

func (s *TokenService) RevokeAllForUser(ctx context.Context, userID uuid.UUID) error {
	return s.store.RevokeAllByUser(ctx, userID)
}

// Claims verifies a stateless access token and returns its claims.
func (s *TokenService) Claims(_ context.Context, accessToken string) (model.AccessClaims, error) {
	return s.manager.ParseAccessToken(accessToken)
}
