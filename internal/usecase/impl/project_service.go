package impl

import (
	"context"
	"log/slog"
	"strings"

	deliverycontext "tracker/internal/delivery/context"
	"tracker/internal/domain/entity"
	domainerrors "tracker/internal/domain/errors"
	"tracker/internal/domain/policy"
	"tracker/internal/domain/repository"
	"tracker/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// projectService implements the ProjectUsecase interface.
type projectService struct {
	txManager   repository.TransactionManager
	projectRepo repository.ProjectRepository
	logger      *slog.Logger
}

// ProjectServiceParams holds dependencies for projectService, injected by Fx.
type ProjectServiceParams struct {
	fx.In

	TxManager   repository.TransactionManager
	ProjectRepo repository.ProjectRepository
	Logger      *slog.Logger
}

// NewProjectService is the constructor for projectService.
func NewProjectService(params ProjectServiceParams) usecase.ProjectUsecase {
	return &projectService{
		txManager:   params.TxManager,
		projectRepo: params.ProjectRepo,
		logger:      params.Logger,
	}
}

func (srv *projectService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.LoggerOrDefault(ctx, srv.logger)
}

// Create creates a project on behalf of the actor.
func (srv *projectService) Create(ctx context.Context, actor *entity.User, input usecase.CreateProjectInput) (*entity.Project, error) {
	decision := policy.Decide(policy.Request{
		Actor:    actor,
		Action:   policy.ActionCreate,
		Resource: policy.ResourceProject,
	})
	if !decision.Allowed() {
		return nil, denialError(decision)
	}

	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, domainerrors.ErrValidationFailed.WithDetails("project title must not be empty")
	}

	project := &entity.Project{
		Title:       title,
		Description: input.Description,
	}

	if err := srv.projectRepo.Create(ctx, project); err != nil {
		srv.log(ctx).Warn("Project creation failed", slog.Any("error", err))

		return nil, err
	}

	srv.log(ctx).Debug("Project created", slog.String("projectID", project.ID.String()))

	return project, nil
}

// GetByID retrieves a project with its tasks.
func (srv *projectService) GetByID(ctx context.Context, id uuid.UUID) (*entity.Project, error) {
	project, err := srv.projectRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrProjectNotFound) {
			return nil, domainerrors.ErrNotFound
		}

		return nil, errors.Wrap(err, "failed to get project")
	}

	return project, nil
}

// List retrieves all projects with their tasks.
func (srv *projectService) List(ctx context.Context) ([]*entity.Project, error) {
	projects, err := srv.projectRepo.List(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list projects")
	}

	return projects, nil
}

// Delete removes a project on behalf of the actor. The project's tasks
// survive as unassigned tasks.
func (srv *projectService) Delete(ctx context.Context, actor *entity.User, id uuid.UUID) error {
	decision := policy.Decide(policy.Request{
		Actor:    actor,
		Action:   policy.ActionDelete,
		Resource: policy.ResourceProject,
	})
	if !decision.Allowed() {
		return denialError(decision)
	}

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		if err := repoFactory.ProjectRepo().Delete(ctx, id); err != nil {
			if errors.Is(err, repository.ErrProjectNotFound) {
				return domainerrors.ErrNotFound
			}

			return errors.Wrap(err, "failed to delete project")
		}

		return nil
	})
	if err != nil {
		srv.log(ctx).Warn("Project deletion failed", slog.String("projectID", id.String()), slog.Any("error", err))

		return err
	}

	srv.log(ctx).Debug("Project deleted", slog.String("projectID", id.String()))

	return nil
}
