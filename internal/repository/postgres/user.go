package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/ideaforge/auth-server/internal/model"
)

var _ model.UserStore = (*UserRepository)(nil)

type UserRepository struct {
	db DB
}

func NewUserRepository(db DB) *UserRepository {
	return &UserRepository{
		db: db,
	}
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (model.User, error) {
	var user model.User
	query := `SELECT id, email, password_hash, email_verified, created_at, updated_at
			  FROM users WHERE LOWER(email) = LOWER($1)`

	err := r.db.QueryRow(ctx, query, email).Scan(
		&user.ID, &user.Email, &user.PasswordHash, &user.EmailVerified,
		&user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.User{}, model.ErrNotFound
		}
		return model.User{}, fmt.Errorf("failed to get user by email: %w", err)
	}

	return user, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (model.User, error) {
	var user model.User
	query := `SELECT id, email, password_hash, email_verified, created_at, updated_at
			  FROM users WHERE id = $1`

	err := r.db.QueryRow(ctx, query, id).Scan(
		&user.ID, &user.Email, &user.PasswordHash, &user.EmailVerified,
		&user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.User{}, model.ErrNotFound
		}
		return model.User{}, fmt.Errorf("failed to get user by id: %w", err)
	}

	return user, nil
}

// CreateWithDefaults inserts the user, its profile row and the default role
// grant in one transaction. A client disconnect mid-way rolls the whole
// creation back, so no half-created users exist.
func (r *UserRepository) CreateWithDefaults(ctx context.Context, user model.User, fullName *string) (model.User, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return model.User{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `INSERT INTO users (id, email, password_hash, email_verified)
			  VALUES ($1, $2, $3, $4)
			  RETURNING id, email, password_hash, email_verified, created_at, updated_at`

	var savedUser model.User
	err = tx.QueryRow(ctx, query,
		user.ID, user.Email, user.PasswordHash, user.EmailVerified,
	).Scan(
		&savedUser.ID, &savedUser.Email, &savedUser.PasswordHash, &savedUser.EmailVerified,
		&savedUser.CreatedAt, &savedUser.UpdatedAt,
	)
	if err != nil {
		return model.User{}, fmt.Errorf("failed to create user: %w", err)
	}

	if _, err := tx.Exec(ctx,
		`INSERT INTO user_profiles (user_id, full_name) VALUES ($1, $2)`,
		savedUser.ID, fullName,
	); err != nil {
		return model.User{}, fmt.Errorf("failed to create profile: %w", err)
	}

	if _, err := tx.Exec(ctx,
		`INSERT INTO user_roles (user_id, role_name) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
		savedUser.ID, model.DefaultRole,
	); err != nil {
		return model.User{}, fmt.Errorf("failed to grant default role: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return model.User{}, fmt.Errorf("failed to commit user creation: %w", err)
	}

	return savedUser, nil
}

func (r *UserRepository) SetEmailVerified(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE users SET email_verified = TRUE, updated_at = NOW() WHERE id = $1`

	if _, err := r.db.Exec(ctx, query, id); err != nil {
		return fmt.Errorf("failed to set email verified: %w", err)
	}
	return nil
}
