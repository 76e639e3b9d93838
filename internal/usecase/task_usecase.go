package usecase

import (
	"context"
	"time"

	"tracker/internal/domain/entity"

	"github.com/google/uuid"
)

// CreateTaskInput defines the data required to create a task.
type CreateTaskInput struct {
	Title       string
	Description string
	Status      string
	ProjectID   uuid.UUID
	OwnerID     int64
}

// UpdateTaskInput defines a partial task update. Nil pointers leave the
// field untouched; the set of non-nil fields is what the authorization
// policy inspects.
type UpdateTaskInput struct {
	Title       *string
	Description *string
	Status      *string
	Comment     *string
	ProjectID   *uuid.UUID
	OwnerID     *int64
}

// TaskListFilter narrows a task listing.
type TaskListFilter struct {
	CreatedAfter  time.Time
	CreatedBefore time.Time
	OwnerID       int64
}

// TaskUsecase defines the interface for task-related business operations.
type TaskUsecase interface {
	// Create creates a task on behalf of the actor.
	Create(ctx context.Context, actor *entity.User, input CreateTaskInput) (*entity.Task, error)

	// GetByID retrieves a single task.
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Task, error)

	// List retrieves tasks matching the filter.
	List(ctx context.Context, filter TaskListFilter) ([]*entity.Task, error)

	// Update applies a partial update after the authorization policy clears
	// the actor for every touched field.
	Update(ctx context.Context, actor *entity.User, id uuid.UUID, input UpdateTaskInput) (*entity.Task, error)

	// Delete removes a task on behalf of the actor.
	Delete(ctx context.Context, actor *entity.User, id uuid.UUID) error
}
