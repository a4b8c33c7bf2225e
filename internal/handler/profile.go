package handler

import (
	"errors"
	"net/http"

	"github.com/fasalrakshak/backend/internal/repository"
	"github.com/fasalrakshak/backend/internal/service"
	"github.com/fasalrakshak/backend/pkg/model"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ProfileHandler implements farmer profile endpoints
type ProfileHandler struct {
	service *service.ProfileService
	logger  *zap.Logger
}

// NewProfileHandler creates a new ProfileHandler
func NewProfileHandler(service *service.ProfileService, logger *zap.Logger) *ProfileHandler {
	return &ProfileHandler{
		service: service,
		logger:  logger,
	}
}

type profileRequest struct {
	Email    string  `json:"email" binding:"required"`
	FullName string  `json:"full_name"`
	Phone    *string `json:"phone"`
	Location *string `json:"location"`
}

// Save handles POST /api/profile
func (h *ProfileHandler) Save(c *gin.Context) {
	var req profileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "Email is required"})
		return
	}

	profile := &model.Profile{
		Email:    req.Email,
		FullName: req.FullName,
		Phone:    req.Phone,
		Location: req.Location,
	}

	if err := h.service.Save(c.Request.Context(), profile); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, profile)
}

// Get handles GET /api/profile
func (h *ProfileHandler) Get(c *gin.Context) {
	email := c.Query("email")

	profile, err := h.service.Get(c.Request.Context(), email)
	if err != nil {
		if errors.Is(err, repository.ErrProfileNotFound) {
			c.JSON(http.StatusNotFound, errorResponse{Error: "Profile not found"})
			return
		}
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, profile)
}
