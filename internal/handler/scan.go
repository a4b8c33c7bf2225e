package handler

import (
	"net/http"
	"strconv"

	"github.com/fasalrakshak/backend/internal/service"
	"github.com/fasalrakshak/backend/pkg/model"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ScanHandler implements the leaf classification endpoints
type ScanHandler struct {
	service *service.ScanService
	logger  *zap.Logger
}

// NewScanHandler creates a new ScanHandler
func NewScanHandler(service *service.ScanService, logger *zap.Logger) *ScanHandler {
	return &ScanHandler{
		service: service,
		logger:  logger,
	}
}

// Predict handles POST /predict. The image arrives as a multipart form
// field; email is optional and, when present, records the verdict in the
// caller's scan history.
func (h *ScanHandler) Predict(c *gin.Context) {
	file, header, err := c.Request.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "Image file is required"})
		return
	}
	defer file.Close()

	email := c.PostForm("email")

	prediction, err := h.service.Classify(c.Request.Context(), email, header.Filename, file)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, prediction)
}

type scanRecordRequest struct {
	Email      string  `json:"email"`
	Crop       string  `json:"crop"`
	Disease    string  `json:"disease"`
	Confidence float64 `json:"confidence"`
	ImageURL   *string `json:"image_url"`
}

// Record handles POST /api/scans
func (h *ScanHandler) Record(c *gin.Context) {
	var req scanRecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "Invalid request body"})
		return
	}

	scan := &model.ScanResult{
		Email:      req.Email,
		Crop:       req.Crop,
		Disease:    req.Disease,
		Confidence: req.Confidence,
		ImageURL:   req.ImageURL,
	}

	if err := h.service.Record(c.Request.Context(), scan); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, scan)
}

// History handles GET /api/scans
func (h *ScanHandler) History(c *gin.Context) {
	email := c.Query("email")

	limit := 50
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			c.JSON(http.StatusBadRequest, errorResponse{Error: "Invalid limit"})
			return
		}
		limit = parsed
	}

	scans, err := h.service.History(c.Request.Context(), email, limit)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"scans": scans})
}
