package postgres

import (
	"context"
	"slices"

	"tracker/internal/domain/entity"
	domainerrors "tracker/internal/domain/errors"
	"tracker/internal/domain/repository"
	"tracker/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// messageRepository implements the domain.MessageRepository interface using GORM.
type messageRepository struct {
	db *gorm.DB
}

// NewMessageRepository is the constructor for messageRepository.
func NewMessageRepository(db *gorm.DB) repository.MessageRepository {
	return &messageRepository{db: db}
}

// Create persists a new chat message.
func (repo *messageRepository) Create(ctx context.Context, message *entity.Message) error {
	messageM := fromMessageDomain(message)
	if messageM.ID == uuid.Nil {
		messageM.ID = uuid.New()
	}

	if err := repo.db.WithContext(ctx).Create(messageM).Error; err != nil {
		if isForeignKeyConstraintViolation(err) {
			return domainerrors.ErrNotFound.WrapMessage("message references a missing user")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create message")
	}

	message.ID = messageM.ID
	message.CreatedAt = messageM.CreatedAt

	return nil
}

// ListRecent retrieves up to limit most recent messages, oldest first.
func (repo *messageRepository) ListRecent(ctx context.Context, limit int) ([]*entity.Message, error) {
	var messageMs []*model.MessageModel
	err := repo.db.WithContext(ctx).
		Preload("Author").
		Order("created_at DESC").
		Limit(limit).
		Find(&messageMs).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to list messages")
	}

	// The query walks newest-first to apply the limit; flip to oldest-first
	// for presentation.
	slices.Reverse(messageMs)

	messages := make([]*entity.Message, 0, len(messageMs))
	for _, messageM := range messageMs {
		messages = append(messages, toMessageDomain(messageM))
	}

	return messages, nil
}

// --- Mapper Functions ---

// toMessageDomain converts a GORM MessageModel to a domain Message entity.
func toMessageDomain(data *model.MessageModel) *entity.Message {
	if data == nil {
		return nil
	}

	return &entity.Message{
		ID:        data.ID,
		UserID:    data.UserID,
		Author:    toUserDomain(data.Author),
		Content:   data.Content,
		CreatedAt: data.CreatedAt,
	}
}

// fromMessageDomain converts a domain Message entity to a GORM MessageModel.
func fromMessageDomain(data *entity.Message) *model.MessageModel {
	if data == nil {
		return nil
	}

	return &model.MessageModel{
		ID:        data.ID,
		UserID:    data.UserID,
		Content:   data.Content,
		CreatedAt: data.CreatedAt,
	}
}
