package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/ideaforge/auth-server/internal/model"
)

var _ model.RoleStore = (*RoleRepository)(nil)

type RoleRepository struct {
	db DB
}

func NewRoleRepository(db DB) *RoleRepository {
	return &RoleRepository{db: db}
}

func (r *RoleRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]string, error) {
	query := `SELECT role_name FROM user_roles WHERE user_id = $1 ORDER BY role_name`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list roles: %w", err)
	}
	defer rows.Close()

	var roles []string
	for rows.Next() {
		var role string
		if err := rows.Scan(&role); err != nil {
			return nil, fmt.Errorf("failed to scan role: %w", err)
		}
		roles = append(roles, role)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate roles: %w", err)
	}

	return roles, nil
}
