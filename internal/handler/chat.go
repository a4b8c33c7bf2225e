package handler

import (
	"net/http"
	"strconv"

	"github.com/fasalrakshak/backend/internal/service"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ChatHandler implements the assistant chat endpoints
type ChatHandler struct {
	service *service.ChatService
	logger  *zap.Logger
}

// NewChatHandler creates a new ChatHandler
func NewChatHandler(service *service.ChatService, logger *zap.Logger) *ChatHandler {
	return &ChatHandler{
		service: service,
		logger:  logger,
	}
}

type chatRequest struct {
	Email   string `json:"email"`
	Message string `json:"message"`
	Image   string `json:"image"`
}

// Chat handles POST /api/chat/gemini
func (h *ChatHandler) Chat(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "Invalid request body"})
		return
	}

	reply, err := h.service.Submit(c.Request.Context(), service.ChatRequest{
		Email:   req.Email,
		Message: req.Message,
		Image:   req.Image,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"reply": reply})
}

type emailRequest struct {
	Email string `json:"email"`
}

// ImageCount handles POST /api/chat/image-count
func (h *ChatHandler) ImageCount(c *gin.Context) {
	var req emailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "Invalid request body"})
		return
	}

	count, err := h.service.ImageCount(c.Request.Context(), req.Email)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"count": count})
}

// History handles GET /api/chat/history
func (h *ChatHandler) History(c *gin.Context) {
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

	entries, err := h.service.History(c.Request.Context(), email, limit)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"history": entries})
}
