package repository

import (
	"context"
	"time"

	"tracker/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// ErrTaskNotFound is returned when a task is not found.
var ErrTaskNotFound = errors.New("task not found")

// TaskFilter narrows down task listings. Zero values mean "no constraint".
type TaskFilter struct {
	CreatedAfter  time.Time
	CreatedBefore time.Time
	OwnerID       int64
}

// TaskRepository defines the persistence operations for tasks.
type TaskRepository interface {
	// Create persists a new task.
	Create(ctx context.Context, task *entity.Task) error

	// FindByID retrieves a task by its ID, with the owner preloaded.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Task, error)

	// List retrieves tasks matching the filter, with owners preloaded.
	List(ctx context.Context, filter TaskFilter) ([]*entity.Task, error)

	// Update modifies an existing task.
	Update(ctx context.Context, task *entity.Task) error

	// Delete removes a task by its ID.
	Delete(ctx context.Context, id uuid.UUID) error
}
