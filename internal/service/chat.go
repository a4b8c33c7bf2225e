package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/fasalrakshak/backend/pkg/model"
	"go.uber.org/zap"
)

// defaultImageQuestion is used when a request carries an image but no text
const defaultImageQuestion = "Analyze this image"

// UsageStore tracks per-email image submission counts
type UsageStore interface {
	GetCount(ctx context.Context, email string) (int, error)
	IncrementWithCap(ctx context.Context, email string, cap int) (int, bool, error)
}

// ChatHistoryStore persists chat exchanges
type ChatHistoryStore interface {
	Save(ctx context.Context, entry *model.ChatEntry) error
	ListByEmail(ctx context.Context, email string, limit int) ([]model.ChatEntry, error)
}

// ChatRequest is one user turn of the assistant conversation. Image, when
// present, is a base64 data URI.
type ChatRequest struct {
	Email   string
	Message string
	Image   string
}

// ChatService runs the bounded image-chat workflow: requests with images are
// gated by a per-email cap, the cap is consumed only after the responder
// succeeds, and every exchange is logged to history on a best-effort basis.
type ChatService struct {
	responder  ChatResponder
	usage      UsageStore
	history    ChatHistoryStore
	imageLimit int
	logger     *zap.Logger
}

// NewChatService creates a new ChatService
func NewChatService(responder ChatResponder, usage UsageStore, history ChatHistoryStore, imageLimit int, logger *zap.Logger) *ChatService {
	return &ChatService{
		responder:  responder,
		usage:      usage,
		history:    history,
		imageLimit: imageLimit,
		logger:     logger,
	}
}

// Submit handles one chat turn and returns the assistant reply
func (s *ChatService) Submit(ctx context.Context, req ChatRequest) (string, error) {
	if strings.TrimSpace(req.Email) == "" {
		return "", ErrMissingIdentity
	}

	if strings.TrimSpace(req.Message) == "" && req.Image == "" {
		return "", ErrEmptyRequest
	}

	if req.Image != "" {
		return s.submitWithImage(ctx, req)
	}

	reply, err := s.responder.Respond(ctx, req.Message)
	if err != nil {
		s.logger.Error("chat response failed",
			zap.Error(err),
			zap.String("email", req.Email),
		)
		return "", fmt.Errorf("failed to generate response: %w", err)
	}

	s.logExchange(req, reply, false)

	return reply, nil
}

func (s *ChatService) submitWithImage(ctx context.Context, req ChatRequest) (string, error) {
	count, err := s.usage.GetCount(ctx, req.Email)
	if err != nil {
		s.logger.Error("failed to check image usage",
			zap.Error(err),
			zap.String("email", req.Email),
		)
		return "", fmt.Errorf("failed to check image usage: %w", err)
	}

	if count >= s.imageLimit {
		s.logger.Info("image limit reached",
			zap.String("email", req.Email),
			zap.Int("count", count),
		)
		return "", ErrQuotaExceeded
	}

	img, err := model.ParseImageDataURI(req.Image)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}

	question := req.Message
	if strings.TrimSpace(question) == "" {
		question = defaultImageQuestion
	}

	reply, err := s.responder.RespondWithImage(ctx, question, img)
	if err != nil {
		s.logger.Error("chat image response failed",
			zap.Error(err),
			zap.String("email", req.Email),
		)
		return "", fmt.Errorf("failed to generate response: %w", err)
	}

	// The cap is consumed only after a successful reply. A failed increment
	// must not throw away the reply the user already paid a model call for.
	if _, ok, err := s.usage.IncrementWithCap(ctx, req.Email, s.imageLimit); err != nil {
		s.logger.Error("failed to increment image usage",
			zap.Error(err),
			zap.String("email", req.Email),
		)
	} else if !ok {
		s.logger.Warn("image usage already at limit after generation",
			zap.String("email", req.Email),
		)
	}

	s.logExchange(req, reply, true)

	return reply, nil
}

// logExchange writes the exchange to chat history. History is advisory; a
// storage failure never fails the chat turn.
func (s *ChatService) logExchange(req ChatRequest, reply string, hasImage bool) {
	entry := &model.ChatEntry{
		Email:     req.Email,
		Message:   req.Message,
		Reply:     reply,
		HasImage:  hasImage,
		CreatedAt: time.Now().UTC(),
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.history.Save(ctx, entry); err != nil {
		s.logger.Error("failed to save chat history",
			zap.Error(err),
			zap.String("email", req.Email),
		)
	}
}

// ImageCount reports how many images the email has submitted so far
func (s *ChatService) ImageCount(ctx context.Context, email string) (int, error) {
	if strings.TrimSpace(email) == "" {
		return 0, ErrMissingIdentity
	}

	return s.usage.GetCount(ctx, email)
}

// History returns the most recent chat exchanges for the email
func (s *ChatService) History(ctx context.Context, email string, limit int) ([]model.ChatEntry, error) {
	if strings.TrimSpace(email) == "" {
		return nil, ErrMissingIdentity
	}

	return s.history.ListByEmail(ctx, email, limit)
}
