package openai

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"go.uber.org/zap"

	"github.com/fasalrakshak/backend/internal/llm"
	"github.com/fasalrakshak/backend/pkg/model"
)

// Engine wraps the OpenAI SDK with retry logic and logging. It implements
// the same llm.Engine contract as the Gemini engine and is selected with
// LLM_PROVIDER=openai.
type Engine struct {
	client     *openai.Client
	model      string
	logger     *zap.Logger
	maxRetries int
	baseDelay  time.Duration
}

// New creates an OpenAI engine
func New(apiKey, model string, logger *zap.Logger) (*Engine, error) {
	apiKey = strings.TrimSpace(apiKey)
	model = strings.TrimSpace(model)
	if apiKey == "" || model == "" {
		return nil, fmt.Errorf("apiKey and model are required")
	}

	client := openai.NewClient(option.WithAPIKey(apiKey))

	return &Engine{
		client:     &client,
		model:      model,
		logger:     logger,
		maxRetries: 3,
		baseDelay:  time.Second,
	}, nil
}

// GenerateText produces a reply for a text-only prompt
func (e *Engine) GenerateText(ctx context.Context, prompt string) (string, error) {
	return e.completeWithRetry(ctx, []openai.ChatCompletionMessageParamUnion{
		openai.UserMessage(prompt),
	})
}

// GenerateWithImage produces a reply for a prompt plus an inline image
func (e *Engine) GenerateWithImage(ctx context.Context, prompt string, image model.InlineImage) (string, error) {
	dataURI := fmt.Sprintf("data:%s;base64,%s",
		image.MIMEType, base64.StdEncoding.EncodeToString(image.Data))

	parts := []openai.ChatCompletionContentPartUnionParam{
		openai.TextContentPart(prompt),
		openai.ImageContentPart(openai.ChatCompletionContentPartImageImageURLParam{
			URL: dataURI,
		}),
	}

	return e.completeWithRetry(ctx, []openai.ChatCompletionMessageParamUnion{
		openai.UserMessage(parts),
	})
}

// completeWithRetry sends a chat completion request with exponential backoff
func (e *Engine) completeWithRetry(ctx context.Context, messages []openai.ChatCompletionMessageParamUnion) (string, error) {
	startTime := time.Now()
	var lastErr error

	for attempt := 0; attempt < e.maxRetries; attempt++ {
		if attempt > 0 {
			delay := e.baseDelay * time.Duration(1<<uint(attempt-1))
			e.logger.Info("retrying OpenAI request",
				zap.Int("attempt", attempt+1),
				zap.Duration("delay", delay),
			)
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(delay):
			}
		}

		result, err := e.complete(ctx, messages)
		if err == nil {
			e.logger.Info("OpenAI request completed",
				zap.Duration("processing_time", time.Since(startTime)),
				zap.Int("attempts", attempt+1),
			)
			return result, nil
		}

		lastErr = err
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		if llm.IsOverloaded(err) {
			lastErr = fmt.Errorf("%w: %v", llm.ErrBusy, err)
		}
		if !e.isRetryable(err) {
			e.logger.Error("non-retryable OpenAI error",
				zap.Error(err),
				zap.Int("attempt", attempt+1),
			)
			break
		}

		e.logger.Warn("OpenAI request failed, will retry",
			zap.Error(err),
			zap.Int("attempt", attempt+1),
		)
	}

	e.logger.Error("OpenAI request failed after retries",
		zap.Error(lastErr),
		zap.Duration("total_time", time.Since(startTime)),
		zap.Int("max_retries", e.maxRetries),
	)
	return "", fmt.Errorf("openai request failed after %d attempts: %w", e.maxRetries, lastErr)
}

// complete performs a single chat completion request
func (e *Engine) complete(ctx context.Context, messages []openai.ChatCompletionMessageParamUnion) (string, error) {
	resp, err := e.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(e.model),
		Messages: messages,
	})
	if err != nil {
		return "", fmt.Errorf("chat completion request failed: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no choices returned from OpenAI")
	}

	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	if content == "" {
		return "", fmt.Errorf("empty content in response")
	}

	e.logger.Info("OpenAI token usage",
		zap.Int64("prompt_tokens", resp.Usage.PromptTokens),
		zap.Int64("completion_tokens", resp.Usage.CompletionTokens),
		zap.Int64("total_tokens", resp.Usage.TotalTokens),
	)

	return content, nil
}

// isRetryable determines if an error should trigger a retry
func (e *Engine) isRetryable(err error) bool {
	if err == nil {
		return false
	}

	errStr := err.Error()

	// Don't retry authentication errors
	if strings.Contains(errStr, "authentication") || strings.Contains(errStr, "unauthorized") || strings.Contains(errStr, "401") {
		return false
	}

	// Don't retry invalid request errors
	if strings.Contains(errStr, "invalid") || strings.Contains(errStr, "bad request") || strings.Contains(errStr, "400") {
		return false
	}

	// Retry everything else (rate limits, timeouts, network errors)
	return true
}
