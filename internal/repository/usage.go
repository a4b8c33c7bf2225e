package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// UsageRepository manages per-email image-usage counters
type UsageRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

// NewUsageRepository creates a new UsageRepository
func NewUsageRepository(db *pgxpool.Pool, logger *zap.Logger) *UsageRepository {
	return &UsageRepository{
		db:     db,
		logger: logger,
	}
}

// GetCount returns the stored image count for an email. A missing row is a
// normal state and returns 0, not an error.
func (r *UsageRepository) GetCount(ctx context.Context, email string) (int, error) {
	query := `
		SELECT image_count
		FROM user_image_usage
		WHERE email = $1
	`

	var count int
	err := r.db.QueryRow(ctx, query, email).Scan(&count)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, nil
		}
		r.logger.Error("failed to get image count", zap.Error(err), zap.String("email", email))
		return 0, fmt.Errorf("failed to get image count: %w", err)
	}

	return count, nil
}

// IncrementWithCap adds one to the stored counter unless it already reached
// the cap. The whole operation is a single conditional upsert, so concurrent
// submissions can never push the counter past the cap. Returns the new count
// and whether the increment was applied.
func (r *UsageRepository) IncrementWithCap(ctx context.Context, email string, cap int) (int, bool, error) {
	query := `
		INSERT INTO user_image_usage (email, image_count, created_at, updated_at)
		VALUES ($1, 1, NOW(), NOW())
		ON CONFLICT (email) DO UPDATE
		SET image_count = user_image_usage.image_count + 1, updated_at = NOW()
		WHERE user_image_usage.image_count < $2
		RETURNING image_count
	`

	var count int
	err := r.db.QueryRow(ctx, query, email, cap).Scan(&count)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// Counter already at the cap, nothing was written
			return cap, false, nil
		}
		r.logger.Error("failed to increment image count", zap.Error(err), zap.String("email", email))
		return 0, false, fmt.Errorf("failed to increment image count: %w", err)
	}

	return count, true, nil
}
