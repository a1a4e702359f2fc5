package db

import (
	"context"
	"database/sql"

	"github.com/AndresGalvis92/warmtask-pro/shared/models"
)

// defines methods for profile db operations
type ProfileRepositoryInterface interface {
	Create(ctx context.Context, profile *models.Profile) error
	GetByID(ctx context.Context, id string) (*models.Profile, error)
	List(ctx context.Context) ([]*models.Profile, error)
}

type ProfileRepository struct {
	db *sql.DB
}

func NewProfileRepository(db *sql.DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

func (r *ProfileRepository) Create(ctx context.Context, profile *models.Profile) error {
	query := `INSERT INTO profiles (id, full_name, email) VALUES ($1, $2, $3)`
	_, err := r.db.ExecContext(ctx, query, profile.ID, profile.FullName, profile.Email)
	return err
}

func (r *ProfileRepository) GetByID(ctx context.Context, id string) (*models.Profile, error) {
	query := `SELECT id, full_name, email FROM profiles WHERE id = $1`
	profile := &models.Profile{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&profile.ID, &profile.FullName, &profile.Email,
	)
	return profile, err
}

// List returns every profile ordered by name, for the assignment picker.
func (r *ProfileRepository) List(ctx context.Context) ([]*models.Profile, error) {
	query := `SELECT id, full_name, email FROM profiles ORDER BY full_name`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var profiles []*models.Profile
	for rows.Next() {
		profile := &models.Profile{}
		if err := rows.Scan(&profile.ID, &profile.FullName, &profile.Email); err != nil {
			return nil, err
		}
		profiles = append(profiles, profile)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return profiles, nil
}
