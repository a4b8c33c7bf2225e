package gemini

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"go.uber.org/zap"
	"google.golang.org/api/option"

	"github.com/fasalrakshak/backend/internal/llm"
	"github.com/fasalrakshak/backend/pkg/model"
)

// Engine wraps the Gemini SDK with retry logic and logging
type Engine struct {
	client     *genai.Client
	model      string
	logger     *zap.Logger
	maxRetries int
	baseDelay  time.Duration
}

// New creates a Gemini engine
func New(ctx context.Context, apiKey, model string, logger *zap.Logger) (*Engine, error) {
	apiKey = strings.TrimSpace(apiKey)
	model = strings.TrimSpace(model)
	if apiKey == "" || model == "" {
		return nil, fmt.Errorf("apiKey and model are required")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &Engine{
		client:     client,
		model:      model,
		logger:     logger,
		maxRetries: 3,
		baseDelay:  300 * time.Millisecond,
	}, nil
}

// Close releases the underlying client
func (e *Engine) Close() error {
	return e.client.Close()
}

// GenerateText produces a reply for a text-only prompt
func (e *Engine) GenerateText(ctx context.Context, prompt string) (string, error) {
	return e.generate(ctx, genai.Text(prompt))
}

// GenerateWithImage produces a reply for a prompt plus an inline image
func (e *Engine) GenerateWithImage(ctx context.Context, prompt string, image model.InlineImage) (string, error) {
	return e.generate(ctx,
		genai.Text(prompt),
		&genai.Blob{MIMEType: image.MIMEType, Data: image.Data},
	)
}

// generate runs a GenerateContent call with retries on transient failures
func (e *Engine) generate(ctx context.Context, parts ...genai.Part) (string, error) {
	startTime := time.Now()
	m := e.client.GenerativeModel(e.model)

	var lastErr error
	for attempt := 0; attempt < e.maxRetries; attempt++ {
		if attempt > 0 {
			delay := e.baseDelay * time.Duration(1<<uint(attempt-1))
			e.logger.Info("retrying Gemini request",
				zap.Int("attempt", attempt+1),
				zap.Duration("delay", delay),
			)
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(delay):
			}
		}

		resp, err := m.GenerateContent(ctx, parts...)
		if err != nil {
			lastErr = err
			if ctx.Err() != nil {
				return "", ctx.Err()
			}
			if llm.IsOverloaded(err) {
				lastErr = fmt.Errorf("%w: %v", llm.ErrBusy, err)
			}
			e.logger.Warn("Gemini request failed, will retry",
				zap.Error(err),
				zap.Int("attempt", attempt+1),
			)
			continue
		}

		text := firstText(resp)
		if text == "" {
			lastErr = fmt.Errorf("empty Gemini response")
			continue
		}

		e.logger.Info("Gemini request completed",
			zap.Duration("processing_time", time.Since(startTime)),
			zap.Int("attempts", attempt+1),
		)
		return text, nil
	}

	e.logger.Error("Gemini request failed after retries",
		zap.Error(lastErr),
		zap.Duration("total_time", time.Since(startTime)),
		zap.Int("max_retries", e.maxRetries),
	)
	return "", fmt.Errorf("gemini request failed after %d attempts: %w", e.maxRetries, lastErr)
}

func firstText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 {
		return ""
	}
	for _, c := range resp.Candidates {
		if c.Content == nil {
			continue
		}
		for _, p := range c.Content.Parts {
			if t, ok := p.(genai.Text); ok {
				return strings.TrimSpace(string(t))
			}
		}
	}
	return ""
}
