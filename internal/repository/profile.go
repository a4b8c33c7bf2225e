package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/fasalrakshak/backend/pkg/model"
)

// ErrProfileNotFound is returned when no profile exists for an email
var ErrProfileNotFound = errors.New("profile not found")

// ProfileRepository manages farmer profiles
type ProfileRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

// NewProfileRepository creates a new ProfileRepository
func NewProfileRepository(db *pgxpool.Pool, logger *zap.Logger) *ProfileRepository {
	return &ProfileRepository{
		db:     db,
		logger: logger,
	}
}

// Upsert creates or updates a profile keyed by email
func (r *ProfileRepository) Upsert(ctx context.Context, profile *model.Profile) error {
	if profile.ID == "" {
		profile.ID = uuid.New().String()
	}

	query := `
		INSERT INTO user_profiles (id, email, full_name, phone, location, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
		ON CONFLICT (email) DO UPDATE
		SET full_name = EXCLUDED.full_name,
		    phone = EXCLUDED.phone,
		    location = EXCLUDED.location,
		    updated_at = NOW()
	`

	_, err := r.db.Exec(ctx, query,
		profile.ID,
		profile.Email,
		profile.FullName,
		profile.Phone,
		profile.Location,
	)

	if err != nil {
		r.logger.Error("failed to upsert profile", zap.Error(err), zap.String("email", profile.Email))
		return fmt.Errorf("failed to upsert profile: %w", err)
	}

	return nil
}

// GetByEmail retrieves a profile by email
func (r *ProfileRepository) GetByEmail(ctx context.Context, email string) (*model.Profile, error) {
	query := `
		SELECT id, email, full_name, phone, location, created_at, updated_at
		FROM user_profiles
		WHERE email = $1 AND deleted_at IS NULL
	`

	var profile model.Profile
	err := r.db.QueryRow(ctx, query, email).Scan(
		&profile.ID,
		&profile.Email,
		&profile.FullName,
		&profile.Phone,
		&profile.Location,
		&profile.CreatedAt,
		&profile.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrProfileNotFound
		}
		r.logger.Error("failed to get profile", zap.Error(err), zap.String("email", email))
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}

	return &profile, nil
}
