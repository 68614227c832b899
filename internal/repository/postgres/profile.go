package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/ideaforge/auth-server/internal/model"
)

var _ model.ProfileStore = (*ProfileRepository)(nil)

type ProfileRepository struct {
	db DB
}

func NewProfileRepository(db DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

func (r *ProfileRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (model.Profile, error) {
	var profile model.Profile
	query := `SELECT user_id, full_name, avatar_url, created_at, updated_at
			  FROM user_profiles WHERE user_id = $1`

	err := r.db.QueryRow(ctx, query, userID).Scan(
		&profile.UserID, &profile.FullName, &profile.AvatarURL,
		&profile.CreatedAt, &profile.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Profile{}, model.ErrNotFound
		}
		return model.Profile{}, fmt.Errorf("failed to get profile: %w", err)
	}

	return profile, nil
}
