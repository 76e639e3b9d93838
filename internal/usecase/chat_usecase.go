package usecase

import (
	"context"

	"tracker/internal/domain/entity"
)

// ChatUsecase defines the interface for the shared chat room.
type ChatUsecase interface {
	// Post stores a message authored by the actor.
	Post(ctx context.Context, actor *entity.User, content string) (*entity.Message, error)

	// History retrieves the recent message history, oldest first.
	History(ctx context.Context) ([]*entity.Message, error)
}
