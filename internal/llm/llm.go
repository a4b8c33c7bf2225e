package llm

import (
	"context"
	"errors"
	"strings"

	"github.com/fasalrakshak/backend/pkg/model"
)

// Engine is a text/image generation backend. Implementations wrap a hosted
// LLM; they are interchangeable and selected by configuration.
type Engine interface {
	// GenerateText produces a freeform reply for a text-only prompt.
	GenerateText(ctx context.Context, prompt string) (string, error)
	// GenerateWithImage produces a reply for a prompt plus an inline image.
	GenerateWithImage(ctx context.Context, prompt string, image model.InlineImage) (string, error)
}

// ErrBusy marks upstream overload (HTTP 503 or "overloaded" responses).
// Callers surface it as a user-friendly busy message instead of the raw error.
var ErrBusy = errors.New("llm: upstream busy")

// BusyMessage is the standard user-facing translation of ErrBusy.
const BusyMessage = "AI servers are busy right now. Please try again in a moment."

// IsOverloaded reports whether an upstream error indicates transient overload.
func IsOverloaded(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrBusy) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "overloaded") || strings.Contains(msg, "503")
}
