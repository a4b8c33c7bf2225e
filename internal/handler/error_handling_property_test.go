package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fasalrakshak/backend/internal/llm"
	"github.com/fasalrakshak/backend/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
)

// writeErrorStatus runs writeError through a throwaway context and returns
// the response it produced.
func writeErrorStatus(err error) (int, errorResponse) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	writeError(c, err)

	var body errorResponse
	_ = json.Unmarshal(w.Body.Bytes(), &body)
	return w.Code, body
}

func TestWriteError_Mapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantError  string
	}{
		{"missing identity", service.ErrMissingIdentity, http.StatusBadRequest, "Email is required"},
		{"empty request", service.ErrEmptyRequest, http.StatusBadRequest, "Message or image is required"},
		{"invalid image", service.ErrInvalidImage, http.StatusBadRequest, "Invalid image payload"},
		{"quota exceeded", service.ErrQuotaExceeded, http.StatusTooManyRequests, service.QuotaExceededMessage},
		{"busy model", llm.ErrBusy, http.StatusServiceUnavailable, llm.BusyMessage},
		{"wrapped busy model", fmt.Errorf("failed to generate response: %w", llm.ErrBusy), http.StatusServiceUnavailable, llm.BusyMessage},
		{"overloaded text", errors.New("the model is overloaded"), http.StatusServiceUnavailable, llm.BusyMessage},
		{"unknown", errors.New("wires crossed"), http.StatusInternalServerError, "wires crossed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := writeErrorStatus(tt.err)
			assert.Equal(t, tt.wantStatus, status)
			assert.Equal(t, tt.wantError, body.Error)
		})
	}
}

func TestProperty_ErrorResponsesAlwaysCarryMessage(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("every error maps to a 4xx/5xx with a non-empty error field", prop.ForAll(
		func(message string, wrapSentinel int) bool {
			var err error
			switch wrapSentinel {
			case 0:
				err = errors.New(message)
			case 1:
				err = fmt.Errorf("%s: %w", message, service.ErrQuotaExceeded)
			case 2:
				err = fmt.Errorf("%s: %w", message, llm.ErrBusy)
			case 3:
				err = fmt.Errorf("%s: %w", message, service.ErrMissingIdentity)
			}

			status, body := writeErrorStatus(err)
			return status >= 400 && status < 600 && body.Error != ""
		},
		gen.RegexMatch(`[a-z ]{1,40}`).SuchThat(func(s string) bool { return len(s) > 0 }),
		gen.IntRange(0, 3),
	))

	properties.TestingRun(t)
}
