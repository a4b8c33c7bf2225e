package service

import (
	"context"

	"github.com/fasalrakshak/backend/internal/llm"
	"github.com/fasalrakshak/backend/pkg/model"
)

// systemPrompt frames every chat exchange as an agricultural consultation
const systemPrompt = `You are FasalRakshak AI Assistant, an expert in agriculture, crop diseases, soil health, and plant treatment.

Analyze the given image carefully and answer the user's question accurately.

Rules:
- Focus only on agriculture-related insights
- If disease is detected, mention:
   - Crop name
   - Disease name
   - Severity (Low / Medium / High)
   - Symptoms
   - Organic treatment
   - Chemical treatment (if needed)
   - Prevention tips
- If image is unclear, politely ask for a clearer image
- Keep language simple and farmer-friendly
- Do not include markdown unless necessary`

// ChatResponder produces a reply to a user message. Implementations may call
// an external model or answer from a local knowledge table.
type ChatResponder interface {
	Respond(ctx context.Context, question string) (string, error)
	RespondWithImage(ctx context.Context, question string, img model.InlineImage) (string, error)
}

// LLMResponder answers through a generative model engine
type LLMResponder struct {
	engine llm.Engine
}

// NewLLMResponder creates a responder backed by the given engine
func NewLLMResponder(engine llm.Engine) *LLMResponder {
	return &LLMResponder{engine: engine}
}

func (r *LLMResponder) Respond(ctx context.Context, question string) (string, error) {
	return r.engine.GenerateText(ctx, systemPrompt+"\n\nUser Question:\n"+question)
}

func (r *LLMResponder) RespondWithImage(ctx context.Context, question string, img model.InlineImage) (string, error) {
	return r.engine.GenerateWithImage(ctx, systemPrompt+"\n\nUser Question:\n"+question, img)
}
