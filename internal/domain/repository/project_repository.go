package repository

import (
	"context"

	"tracker/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// ErrProjectNotFound is returned when a project is not found.
var ErrProjectNotFound = errors.New("project not found")

// ProjectRepository defines the persistence operations for projects.
type ProjectRepository interface {
	// Create persists a new project.
	Create(ctx context.Context, project *entity.Project) error

	// FindByID retrieves a project by its ID, with tasks and their owners preloaded.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Project, error)

	// List retrieves all projects, with tasks and their owners preloaded.
	List(ctx context.Context) ([]*entity.Project, error)

	// Delete removes a project by its ID.
	Delete(ctx context.Context, id uuid.UUID) error
}
