// Package mocks provides testify mocks for model contracts.
package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/ideaforge/auth-server/internal/model"
)

type UserStore struct {
	mock.Mock
}

func (m *UserStore) GetByEmail(ctx context.Context, email string) (model.User, error) {
	args := m.Called(ctx, email)
	return args.Get(0).(model.User), args.Error(1)
}

func (m *UserStore) GetByID(ctx context.Context, id uuid.UUID) (model.User, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.User), args.Error(1)
}

func (m *UserStore) CreateWithDefaults(ctx context.Context, user model.User, fullName *string) (model.User, error) {
	args := m.Called(ctx, user, fullName)
	return args.Get(0).(model.User), args.Error(1)
}

func (m *UserStore) SetEmailVerified(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type RoleStore struct {
	mock.Mock
}

func (m *RoleStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]string, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

type ProfileStore struct {
	mock.Mock
}

func (m *ProfileStore) GetByUserID(ctx context.Context, userID uuid.UUID) (model.Profile, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(model.Profile), args.Error(1)
}

type RefreshTokenStore struct {
	mock.Mock
}

func (m *RefreshTokenStore) Create(ctx context.Context, token model.RefreshToken) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

func (m *RefreshTokenStore) GetByHash(ctx context.Context, tokenHash string) (model.RefreshToken, error) {
	args := m.Called(ctx, tokenHash)
	return args.Get(0).(model.RefreshToken), args.Error(1)
}

func (m *RefreshTokenStore) Rotate(ctx context.Context, oldID uuid.UUID, replacement model.RefreshToken) error {
	args := m.Called(ctx, oldID, replacement)
	return args.Error(0)
}

func (m *RefreshTokenStore) RevokeByHash(ctx context.Context, tokenHash string) error {
	args := m.Called(ctx, tokenHash)
	return args.Error(0)
}

func (m *RefreshTokenStore) RevokeBySession(ctx context.Context, sessionID uuid.UUID) error {
	args := m.Called(ctx, sessionID)
	return args.Error(0)
}

func (m *RefreshTokenStore) RevokeAllByUser(ctx context.Context, userID uuid.UUID) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

type MagicLinkStore struct {
	mock.Mock
}

func (m *MagicLinkStore) Create(ctx context.Context, link model.MagicLink) error {
	args := m.Called(ctx, link)
	return args.Error(0)
}

func (m *MagicLinkStore) GetByToken(ctx context.Context, token string) (model.MagicLink, error) {
	args := m.Called(ctx, token)
	return args.Get(0).(model.MagicLink), args.Error(1)
}

func (m *MagicLinkStore) Consume(ctx context.Context, token string) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

type SessionAuditStore struct {
	mock.Mock
}

func (m *SessionAuditStore) Create(ctx context.Context, session model.SessionAudit) (model.SessionAudit, error) {
	args := m.Called(ctx, session)
	return args.Get(0).(model.SessionAudit), args.Error(1)
}

func (m *SessionAuditStore) GetByID(ctx context.Context, id uuid.UUID) (model.SessionAudit, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.SessionAudit), args.Error(1)
}

func (m *SessionAuditStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]model.SessionAudit, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.SessionAudit), args.Error(1)
}

type TokenManager struct {
	mock.Mock
}

func (m *TokenManager) GenerateAccessToken(userID uuid.UUID, email string, roles []string) (string, model.AccessClaims, error) {
	args := m.Called(userID, email, roles)
	return args.String(0), args.Get(1).(model.AccessClaims), args.Error(2)
}

func (m *TokenManager) ParseAccessToken(token string) (model.AccessClaims, error) {
	args := m.Called(token)
	return args.Get(0).(model.AccessClaims), args.Error(1)
}

type Mailer struct {
	mock.Mock
}

func (m *Mailer) SendMagicLink(ctx context.Context, email, link string) error {
	args := m.Called(ctx, email, link)
	return args.Error(0)
}
