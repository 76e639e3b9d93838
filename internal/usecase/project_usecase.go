package usecase

import (
	"context"

	"tracker/internal/domain/entity"

	"github.com/google/uuid"
)

// CreateProjectInput defines the data required to create a project.
type CreateProjectInput struct {
	Title       string
	Description string
}

// ProjectUsecase defines the interface for project-related business operations.
type ProjectUsecase interface {
	// Create creates a project on behalf of the actor.
	Create(ctx context.Context, actor *entity.User, input CreateProjectInput) (*entity.Project, error)

	// GetByID retrieves a project with its tasks.
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Project, error)

	// List retrieves all projects with their tasks.
	List(ctx context.Context) ([]*entity.Project, error)

	// Delete removes a project on behalf of the actor. Its tasks survive as
	// unassigned.
	Delete(ctx context.Context, actor *entity.User, id uuid.UUID) error
}
