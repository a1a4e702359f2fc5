package db

import (
	"context"
	"database/sql"

	"github.com/AndresGalvis92/warmtask-pro/shared/models"
)

// defines methods for role db operations
type RoleRepositoryInterface interface {
	Assign(ctx context.Context, userID string, role models.Role) error
	Get(ctx context.Context, userID string) (models.Role, error)
}

type RoleRepository struct {
	db *sql.DB
}

func NewRoleRepository(db *sql.DB) *RoleRepository {
	return &RoleRepository{db: db}
}

func (r *RoleRepository) Assign(ctx context.Context, userID string, role models.Role) error {
	query := `INSERT INTO user_roles (user_id, role) VALUES ($1, $2)`
	_, err := r.db.ExecContext(ctx, query, userID, role)
	return err
}

// Get returns the user's role; users without a role row are members.
func (r *RoleRepository) Get(ctx context.Context, userID string) (models.Role, error) {
	var role models.Role
	query := `SELECT role FROM user_roles WHERE user_id = $1`
	err := r.db.QueryRowContext(ctx, query, userID).Scan(&role)
	if err == sql.ErrNoRows {
		return models.RoleMember, nil
	}
	if err != nil {
		return "", err
	}
	return role, nil
}
