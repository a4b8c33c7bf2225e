package handler

import (
	"errors"
	"net/http"

	"github.com/fasalrakshak/backend/internal/llm"
	"github.com/fasalrakshak/backend/internal/service"
	"github.com/gin-gonic/gin"
)

// errorResponse is the wire shape for all error replies
type errorResponse struct {
	Error string `json:"error"`
}

// writeError maps service errors onto HTTP status codes and user-facing
// messages. Overloaded-model errors surface as 503 with a friendly retry
// message rather than the raw upstream error.
func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrMissingIdentity):
		c.JSON(http.StatusBadRequest, errorResponse{Error: "Email is required"})
	case errors.Is(err, service.ErrEmptyRequest):
		c.JSON(http.StatusBadRequest, errorResponse{Error: "Message or image is required"})
	case errors.Is(err, service.ErrInvalidImage):
		c.JSON(http.StatusBadRequest, errorResponse{Error: "Invalid image payload"})
	case errors.Is(err, service.ErrQuotaExceeded):
		c.JSON(http.StatusTooManyRequests, errorResponse{Error: service.QuotaExceededMessage})
	case llm.IsOverloaded(err):
		c.JSON(http.StatusServiceUnavailable, errorResponse{Error: llm.BusyMessage})
	default:
		c.JSON(http.StatusInternalServerError, errorResponse{Error: err.Error()})
	}
}
