package repository

import (
	"context"

	"tracker/internal/domain/entity"
)

// MessageRepository defines the persistence operations for chat messages.
type MessageRepository interface {
	// Create persists a new chat message.
	Create(ctx context.Context, message *entity.Message) error

	// ListRecent retrieves up to limit most recent messages, oldest first,
	// with authors preloaded.
	ListRecent(ctx context.Context, limit int) ([]*entity.Message, error)
}
