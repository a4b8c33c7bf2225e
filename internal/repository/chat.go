package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/fasalrakshak/backend/pkg/model"
)

// ChatRepository manages persisted chat history
type ChatRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

// NewChatRepository creates a new ChatRepository
func NewChatRepository(db *pgxpool.Pool, logger *zap.Logger) *ChatRepository {
	return &ChatRepository{
		db:     db,
		logger: logger,
	}
}

// Save appends a chat exchange to the history log
func (r *ChatRepository) Save(ctx context.Context, entry *model.ChatEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}

	query := `
		INSERT INTO chat_history (id, email, message, reply, has_image, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.db.Exec(ctx, query,
		entry.ID,
		entry.Email,
		entry.Message,
		entry.Reply,
		entry.HasImage,
		entry.CreatedAt,
	)

	if err != nil {
		r.logger.Error("failed to save chat entry",
			zap.Error(err),
			zap.String("email", entry.Email),
			zap.String("entry_id", entry.ID),
		)
		return fmt.Errorf("failed to save chat entry: %w", err)
	}

	return nil
}

// ListByEmail retrieves chat history for an email, newest first
func (r *ChatRepository) ListByEmail(ctx context.Context, email string, limit int) ([]model.ChatEntry, error) {
	query := `
		SELECT id, email, message, reply, has_image, created_at
		FROM chat_history
		WHERE email = $1
		ORDER BY created_at DESC
		LIMIT $2
	`

	rows, err := r.db.Query(ctx, query, email, limit)
	if err != nil {
		r.logger.Error("failed to list chat history", zap.Error(err), zap.String("email", email))
		return nil, fmt.Errorf("failed to list chat history: %w", err)
	}
	defer rows.Close()

	var entries []model.ChatEntry
	for rows.Next() {
		var entry model.ChatEntry
		if err := rows.Scan(
			&entry.ID,
			&entry.Email,
			&entry.Message,
			&entry.Reply,
			&entry.HasImage,
			&entry.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan chat entry: %w", err)
		}
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate chat history: %w", err)
	}

	return entries, nil
}
