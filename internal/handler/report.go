package handler

import (
	"fmt"
	"net/http"

	"github.com/fasalrakshak/backend/internal/service"
	"github.com/fasalrakshak/backend/pkg/model"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ReportHandler implements disease report endpoints
type ReportHandler struct {
	enrichment *service.EnrichmentService
	reports    *service.ReportService
	logger     *zap.Logger
}

// NewReportHandler creates a new ReportHandler
func NewReportHandler(enrichment *service.EnrichmentService, reports *service.ReportService, logger *zap.Logger) *ReportHandler {
	return &ReportHandler{
		enrichment: enrichment,
		reports:    reports,
		logger:     logger,
	}
}

type diseaseReportRequest struct {
	Disease string `json:"disease" binding:"required"`
}

// DiseaseReport handles POST /api/disease-report. It expands a classifier
// label into the full AI-elaborated report.
func (h *ReportHandler) DiseaseReport(c *gin.Context) {
	var req diseaseReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "Disease label is required"})
		return
	}

	report := h.enrichment.GenerateReport(c.Request.Context(), req.Disease)

	c.JSON(http.StatusOK, gin.H{
		"disease":   req.Disease,
		"ai_report": report,
	})
}

type generateReportRequest struct {
	model.ReportInput
	AIReport *model.DiseaseReport `json:"ai_report"`
}

// resolve fills the recommendations table from the attached AI report when
// the caller did not supply one explicitly.
func (r *generateReportRequest) resolve() model.ReportInput {
	input := r.ReportInput
	if len(input.Recommendations) == 0 && r.AIReport != nil {
		input.Recommendations = r.AIReport.Recommendations()
	}
	return input
}

// Generate handles POST /api/reports/generate and streams the rendered PDF
// back as a download. The request body is the report input, optionally
// carrying the enrichment endpoint's ai_report whose actionable lists feed
// the recommendations table.
func (h *ReportHandler) Generate(c *gin.Context) {
	var req generateReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "Invalid request body"})
		return
	}

	filename, data, err := h.reports.Generate(c.Request.Context(), req.resolve())
	if err != nil {
		writeError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/pdf", data)
}

// Download handles GET /api/reports/:id, serving a previously archived
// report from blob storage.
func (h *ReportHandler) Download(c *gin.Context) {
	reportID := c.Param("id")

	data, err := h.reports.ArchivedReport(c.Request.Context(), reportID)
	if err != nil {
		h.logger.Warn("archived report unavailable",
			zap.Error(err),
			zap.String("report_id", reportID),
		)
		c.JSON(http.StatusNotFound, errorResponse{Error: "Report not found"})
		return
	}

	c.Header("Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", service.ReportFilename(reportID)))
	c.Data(http.StatusOK, "application/pdf", data)
}
