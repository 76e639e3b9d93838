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

// taskService implements the TaskUsecase interface.
type taskService struct {
	txManager repository.TransactionManager
	taskRepo  repository.TaskRepository
	logger    *slog.Logger
}

// TaskServiceParams holds dependencies for taskService, injected by Fx.
type TaskServiceParams struct {
	fx.In

	TxManager repository.TransactionManager
	TaskRepo  repository.TaskRepository
	Logger    *slog.Logger
}

// NewTaskService is the constructor for taskService.
func NewTaskService(params TaskServiceParams) usecase.TaskUsecase {
	return &taskService{
		txManager: params.TxManager,
		taskRepo:  params.TaskRepo,
		logger:    params.Logger,
	}
}

func (srv *taskService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.LoggerOrDefault(ctx, srv.logger)
}

// Create creates a task on behalf of the actor.
func (srv *taskService) Create(ctx context.Context, actor *entity.User, input usecase.CreateTaskInput) (*entity.Task, error) {
	decision := policy.Decide(policy.Request{
		Actor:    actor,
		Action:   policy.ActionCreate,
		Resource: policy.ResourceTask,
	})
	if !decision.Allowed() {
		return nil, denialError(decision)
	}

	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, domainerrors.ErrValidationFailed.WithDetails("task title must not be empty")
	}

	status := entity.TaskStatusTodo
	if input.Status != "" {
		status = entity.TaskStatus(input.Status)
		if !status.IsValid() {
			return nil, domainerrors.ErrValidationFailed.WithDetails("status must be one of todo, in_progress, done")
		}
	}

	ownerID := input.OwnerID
	if ownerID == 0 {
		ownerID = actor.ID
	}

	task := &entity.Task{
		Title:       title,
		Description: input.Description,
		Status:      status,
		ProjectID:   input.ProjectID,
		OwnerID:     ownerID,
	}

	if err := srv.taskRepo.Create(ctx, task); err != nil {
		srv.log(ctx).Warn("Task creation failed", slog.Any("error", err))

		return nil, err
	}

	srv.log(ctx).Debug("Task created", slog.String("taskID", task.ID.String()), slog.Int64("ownerID", ownerID))

	return task, nil
}

// GetByID retrieves a single task.
func (srv *taskService) GetByID(ctx context.Context, id uuid.UUID) (*entity.Task, error) {
	task, err := srv.taskRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrTaskNotFound) {
			return nil, domainerrors.ErrNotFound
		}

		return nil, errors.Wrap(err, "failed to get task")
	}

	return task, nil
}

// List retrieves tasks matching the filter.
func (srv *taskService) List(ctx context.Context, filter usecase.TaskListFilter) ([]*entity.Task, error) {
	tasks, err := srv.taskRepo.List(ctx, repository.TaskFilter{
		CreatedAfter:  filter.CreatedAfter,
		CreatedBefore: filter.CreatedBefore,
		OwnerID:       filter.OwnerID,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to list tasks")
	}

	return tasks, nil
}

// Update applies a partial update. The policy sees exactly the set of fields
// being written, so a member touching anything beyond status or comment on
// their own task is refused before any write happens.
func (srv *taskService) Update(ctx context.Context, actor *entity.User, id uuid.UUID, input usecase.UpdateTaskInput) (*entity.Task, error) {
	var updated *entity.Task
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		taskRepo := repoFactory.TaskRepo()

		task, err := taskRepo.FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, repository.ErrTaskNotFound) {
				return domainerrors.ErrNotFound
			}

			return errors.Wrap(err, "failed to load task for update")
		}

		decision := policy.Decide(policy.Request{
			Actor:    actor,
			Action:   policy.ActionUpdate,
			Resource: policy.ResourceTask,
			OwnerID:  task.OwnerID,
			Fields:   touchedTaskFields(input),
		})
		if !decision.Allowed() {
			return denialError(decision)
		}

		if err := applyTaskChanges(task, input); err != nil {
			return err
		}

		if err := taskRepo.Update(ctx, task); err != nil {
			return errors.Wrap(err, "failed to persist task update")
		}
		updated = task

		return nil
	})
	if err != nil {
		srv.log(ctx).Warn("Task update failed", slog.String("taskID", id.String()), slog.Any("error", err))

		return nil, err
	}

	return updated, nil
}

// Delete removes a task on behalf of the actor.
func (srv *taskService) Delete(ctx context.Context, actor *entity.User, id uuid.UUID) error {
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		taskRepo := repoFactory.TaskRepo()

		task, err := taskRepo.FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, repository.ErrTaskNotFound) {
				return domainerrors.ErrNotFound
			}

			return errors.Wrap(err, "failed to load task for deletion")
		}

		decision := policy.Decide(policy.Request{
			Actor:    actor,
			Action:   policy.ActionDelete,
			Resource: policy.ResourceTask,
			OwnerID:  task.OwnerID,
		})
		if !decision.Allowed() {
			return denialError(decision)
		}

		if err := taskRepo.Delete(ctx, id); err != nil {
			return errors.Wrap(err, "failed to delete task")
		}

		return nil
	})
	if err != nil {
		srv.log(ctx).Warn("Task deletion failed", slog.String("taskID", id.String()), slog.Any("error", err))

		return err
	}

	srv.log(ctx).Debug("Task deleted", slog.String("taskID", id.String()))

	return nil
}

// touchedTaskFields lists the names of the fields a partial update writes.
func touchedTaskFields(input usecase.UpdateTaskInput) []string {
	fields := make([]string, 0, 6)
	if input.Title != nil {
		fields = append(fields, "title")
	}
	if input.Description != nil {
		fields = append(fields, "description")
	}
	if input.Status != nil {
		fields = append(fields, "status")
	}
	if input.Comment != nil {
		fields = append(fields, "comment")
	}
	if input.ProjectID != nil {
		fields = append(fields, "project_id")
	}
	if input.OwnerID != nil {
		fields = append(fields, "owner_id")
	}

	return fields
}

// applyTaskChanges writes the non-nil fields of a partial update onto the task.
func applyTaskChanges(task *entity.Task, input usecase.UpdateTaskInput) error {
	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if title == "" {
			return domainerrors.ErrValidationFailed.WithDetails("task title must not be empty")
		}
		task.Title = title
	}
	if input.Description != nil {
		task.Description = *input.Description
	}
	if input.Status != nil {
		status := entity.TaskStatus(*input.Status)
		if !status.IsValid() {
			return domainerrors.ErrValidationFailed.WithDetails("status must be one of todo, in_progress, done")
		}
		task.Status = status
	}
	if input.Comment != nil {
		task.Comment = *input.Comment
	}
	if input.ProjectID != nil {
		task.ProjectID = *input.ProjectID
	}
	if input.OwnerID != nil {
		task.OwnerID = *input.OwnerID
	}

	return nil
}

// denialError maps a policy denial onto the matching application error.
func denialError(decision policy.Decision) error {
	switch decision.Reason {
	case policy.ReasonNotOwner:
		return domainerrors.ErrNotOwner
	case policy.ReasonFieldNotPermitted:
		return domainerrors.ErrFieldNotPermitted
	default:
		return domainerrors.ErrInsufficientRole
	}
}
