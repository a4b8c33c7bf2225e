package service

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fasalrakshak/backend/internal/classifier"
	"github.com/fasalrakshak/backend/pkg/model"
	"go.uber.org/zap"
)

// ScanHistoryStore persists classifier verdicts
type ScanHistoryStore interface {
	Save(ctx context.Context, scan *model.ScanResult) error
	ListByEmail(ctx context.Context, email string, limit int) ([]model.ScanResult, error)
}

// ScanService classifies leaf photos through the ML service and records the
// verdicts for signed-in users.
type ScanService struct {
	classifier *classifier.Client
	scans      ScanHistoryStore
	logger     *zap.Logger
}

// NewScanService creates a new ScanService
func NewScanService(classifier *classifier.Client, scans ScanHistoryStore, logger *zap.Logger) *ScanService {
	return &ScanService{
		classifier: classifier,
		scans:      scans,
		logger:     logger,
	}
}

// Classify runs the image through the ML classifier. When email is non-empty
// the verdict is recorded in scan history; a failed classification records
// nothing.
func (s *ScanService) Classify(ctx context.Context, email, filename string, image io.Reader) (*model.Prediction, error) {
	prediction, err := s.classifier.Predict(ctx, filename, image)
	if err != nil {
		s.logger.Error("classification failed",
			zap.Error(err),
			zap.String("filename", filename),
		)
		return nil, fmt.Errorf("failed to classify image: %w", err)
	}

	if strings.TrimSpace(email) != "" {
		crop, disease := SplitDiseaseLabel(prediction.Disease)
		scan := &model.ScanResult{
			Email:      email,
			Crop:       crop,
			Disease:    disease,
			Confidence: prediction.Confidence,
			ScannedAt:  time.Now().UTC(),
		}
		if err := s.scans.Save(ctx, scan); err != nil {
			s.logger.Error("failed to save scan result",
				zap.Error(err),
				zap.String("email", email),
			)
		}
	}

	return prediction, nil
}

// History returns the most recent scans for the email
func (s *ScanService) History(ctx context.Context, email string, limit int) ([]model.ScanResult, error) {
	if strings.TrimSpace(email) == "" {
		return nil, ErrMissingIdentity
	}

	return s.scans.ListByEmail(ctx, email, limit)
}

// Record persists a scan the client classified elsewhere
func (s *ScanService) Record(ctx context.Context, scan *model.ScanResult) error {
	if strings.TrimSpace(scan.Email) == "" {
		return ErrMissingIdentity
	}

	if scan.ScannedAt.IsZero() {
		scan.ScannedAt = time.Now().UTC()
	}

	return s.scans.Save(ctx, scan)
}
