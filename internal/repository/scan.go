package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/fasalrakshak/backend/pkg/model"
)

// ScanRepository manages persisted scan results
type ScanRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

// NewScanRepository creates a new ScanRepository
func NewScanRepository(db *pgxpool.Pool, logger *zap.Logger) *ScanRepository {
	return &ScanRepository{
		db:     db,
		logger: logger,
	}
}

// Save stores a scan result
func (r *ScanRepository) Save(ctx context.Context, scan *model.ScanResult) error {
	if scan.ID == "" {
		scan.ID = uuid.New().String()
	}

	query := `
		INSERT INTO scan_results (id, email, crop, disease, confidence, image_url, scanned_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.db.Exec(ctx, query,
		scan.ID,
		scan.Email,
		scan.Crop,
		scan.Disease,
		scan.Confidence,
		scan.ImageURL,
		scan.ScannedAt,
	)

	if err != nil {
		r.logger.Error("failed to save scan result",
			zap.Error(err),
			zap.String("email", scan.Email),
			zap.String("scan_id", scan.ID),
		)
		return fmt.Errorf("failed to save scan result: %w", err)
	}

	return nil
}

// ListByEmail retrieves scan history for an email, newest first
func (r *ScanRepository) ListByEmail(ctx context.Context, email string, limit int) ([]model.ScanResult, error) {
	query := `
		SELECT id, email, crop, disease, confidence, image_url, scanned_at
		FROM scan_results
		WHERE email = $1
		ORDER BY scanned_at DESC
		LIMIT $2
	`

	rows, err := r.db.Query(ctx, query, email, limit)
	if err != nil {
		r.logger.Error("failed to list scan results", zap.Error(err), zap.String("email", email))
		return nil, fmt.Errorf("failed to list scan results: %w", err)
	}
	defer rows.Close()

	var scans []model.ScanResult
	for rows.Next() {
		var scan model.ScanResult
		if err := rows.Scan(
			&scan.ID,
			&scan.Email,
			&scan.Crop,
			&scan.Disease,
			&scan.Confidence,
			&scan.ImageURL,
			&scan.ScannedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan result row: %w", err)
		}
		scans = append(scans, scan)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate scan results: %w", err)
	}

	return scans, nil
}
