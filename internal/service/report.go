package service

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"github.com/fasalrakshak/backend/internal/pdf"
	"github.com/fasalrakshak/backend/internal/storage"
	"github.com/fasalrakshak/backend/pkg/model"
	"go.uber.org/zap"
)

const reportIDAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// ReportService renders bilingual disease reports as PDF documents and
// archives them in blob storage when a storage client is configured.
type ReportService struct {
	generator  *pdf.Generator
	blobClient storage.BlobStorage
	logger     *zap.Logger
}

// NewReportService creates a new ReportService. blobClient may be nil, in
// which case reports are returned to the caller without archival.
func NewReportService(generator *pdf.Generator, blobClient storage.BlobStorage, logger *zap.Logger) *ReportService {
	return &ReportService{
		generator:  generator,
		blobClient: blobClient,
		logger:     logger,
	}
}

// NewReportID returns a report identifier of the form PD-<year>-<4 chars>
func NewReportID() string {
	suffix := make([]byte, 4)
	for i := range suffix {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(reportIDAlphabet))))
		if err != nil {
			// crypto/rand only fails when the OS entropy source is broken
			panic(fmt.Sprintf("report id generation: %v", err))
		}
		suffix[i] = reportIDAlphabet[n.Int64()]
	}

	return fmt.Sprintf("PD-%d-%s", time.Now().Year(), suffix)
}

// ReportFilename returns the download filename for a report ID
func ReportFilename(reportID string) string {
	return fmt.Sprintf("FasalRakshak_Official_Report_%s.pdf", reportID)
}

// Generate renders the report and returns its filename and PDF bytes. A
// missing report ID or date is filled in; archival failures are logged but
// never fail generation.
func (s *ReportService) Generate(ctx context.Context, input model.ReportInput) (string, []byte, error) {
	if input.ReportID == "" {
		input.ReportID = NewReportID()
	}
	if input.Date == "" {
		input.Date = time.Now().Format("02/01/2006")
	}

	s.logger.Info("generating disease report",
		zap.String("report_id", input.ReportID),
		zap.String("plant", input.Plant),
		zap.String("disease", input.Disease),
	)

	data, err := s.generator.Generate(input)
	if err != nil {
		s.logger.Error("failed to generate report PDF",
			zap.Error(err),
			zap.String("report_id", input.ReportID),
		)
		return "", nil, fmt.Errorf("failed to generate report: %w", err)
	}

	filename := ReportFilename(input.ReportID)

	if s.blobClient != nil {
		if _, err := s.blobClient.UploadReport(ctx, filename, data); err != nil {
			s.logger.Error("failed to archive report",
				zap.Error(err),
				zap.String("report_id", input.ReportID),
			)
		}
	}

	return filename, data, nil
}

// ArchivedReport fetches a previously generated report from blob storage
func (s *ReportService) ArchivedReport(ctx context.Context, reportID string) ([]byte, error) {
	if s.blobClient == nil {
		return nil, fmt.Errorf("report archival is not configured")
	}

	return s.blobClient.DownloadReport(ctx, "reports/"+ReportFilename(reportID))
}
