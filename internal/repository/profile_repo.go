package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/ferreiradrope/praiativa-pay-flow-main/internal/models"
)

type ProfileRepository struct {
	db DBTX
}

func NewProfileRepository(db DBTX) *ProfileRepository {
	return &ProfileRepository{db: db}
}

func (r *ProfileRepository) Create(ctx context.Context, userID uuid.UUID, name, contact *string) (*models.Profile, error) {
	query := `
		INSERT INTO profiles (user_id, name, contact)
		VALUES ($1, $2, $3)
		RETURNING id, user_id, name, contact, created_at, updated_at
	`
	var profile models.Profile
	err := r.db.QueryRow(ctx, query, userID, name, contact).Scan(
		&profile.ID,
		&profile.UserID,
		&profile.Name,
		&profile.Contact,
		&profile.CreatedAt,
		&profile.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *ProfileRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*models.Profile, error) {
	query := `
		SELECT id, user_id, name, contact, created_at, updated_at
		FROM profiles
		WHERE user_id = $1
	`
	var profile models.Profile
	err := r.db.QueryRow(ctx, query, userID).Scan(
		&profile.ID,
		&profile.UserID,
		&profile.Name,
		&profile.Contact,
		&profile.CreatedAt,
		&profile.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *ProfileRepository) Update(ctx context.Context, userID uuid.UUID, name, contact *string) (*models.Profile, error) {
	query := `
		UPDATE profiles
		SET name = COALESCE($2, name), contact = COALESCE($3, contact), updated_at = NOW()
		WHERE user_id = $1
		RETURNING id, user_id, name, contact, created_at, updated_at
	`
	var profile models.Profile
	err := r.db.QueryRow(ctx, query, userID, name, contact).Scan(
		&profile.ID,
		&profile.UserID,
		&profile.Name,
		&profile.Contact,
		&profile.CreatedAt,
		&profile.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &profile, nil
}
