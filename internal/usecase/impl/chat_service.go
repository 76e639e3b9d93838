package impl

import (
	"context"
	"log/slog"
	"strings"

	"tracker/config"
	deliverycontext "tracker/internal/delivery/context"
	"tracker/internal/domain/entity"
	domainerrors "tracker/internal/domain/errors"
	"tracker/internal/domain/policy"
	"tracker/internal/domain/repository"
	"tracker/internal/usecase"

	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// chatService implements the ChatUsecase interface.
type chatService struct {
	messageRepo  repository.MessageRepository
	historyLimit int
	logger       *slog.Logger
}

// ChatServiceParams holds dependencies for chatService, injected by Fx.
type ChatServiceParams struct {
	fx.In

	MessageRepo repository.MessageRepository
	Config      *config.Config
	Logger      *slog.Logger
}

// NewChatService is the constructor for chatService.
func NewChatService(params ChatServiceParams) usecase.ChatUsecase {
	historyLimit := 50
	if params.Config != nil && params.Config.Chat != nil && params.Config.Chat.HistoryLimit > 0 {
		historyLimit = params.Config.Chat.HistoryLimit
	}

	return &chatService{
		messageRepo:  params.MessageRepo,
		historyLimit: historyLimit,
		logger:       params.Logger,
	}
}

func (srv *chatService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.LoggerOrDefault(ctx, srv.logger)
}

// Post stores a message authored by the actor.
func (srv *chatService) Post(ctx context.Context, actor *entity.User, content string) (*entity.Message, error) {
	decision := policy.Decide(policy.Request{
		Actor:    actor,
		Action:   policy.ActionCreate,
		Resource: policy.ResourceMessage,
	})
	if !decision.Allowed() {
		return nil, denialError(decision)
	}

	content = strings.TrimSpace(content)
	if content == "" {
		return nil, domainerrors.ErrValidationFailed.WithDetails("message must not be empty")
	}

	message := &entity.Message{
		UserID:  actor.ID,
		Author:  actor,
		Content: content,
	}

	if err := srv.messageRepo.Create(ctx, message); err != nil {
		srv.log(ctx).Warn("Message creation failed", slog.Int64("userID", actor.ID), slog.Any("error", err))

		return nil, err
	}

	return message, nil
}

// History retrieves the recent message history, oldest first.
func (srv *chatService) History(ctx context.Context) ([]*entity.Message, error) {
	messages, err := srv.messageRepo.ListRecent(ctx, srv.historyLimit)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load chat history")
	}

	return messages, nil
}
