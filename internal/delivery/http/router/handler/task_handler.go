package handler

import (
	"net/http"
	"strconv"
	"time"

	"tracker/internal/delivery/http/middleware"
	"tracker/internal/delivery/http/response"
	domainerrors "tracker/internal/domain/errors"
	"tracker/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// TaskHandler holds dependencies for task-related handlers.
type TaskHandler struct {
	taskUsecase usecase.TaskUsecase
}

// NewTaskHandler is the constructor for TaskHandler, injected by Fx.
func NewTaskHandler(taskUsecase usecase.TaskUsecase) *TaskHandler {
	return &TaskHandler{taskUsecase: taskUsecase}
}

type createTaskRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Status      string `json:"status"`
	ProjectID   string `json:"project_id"`
	OwnerID     int64  `json:"owner_id"`
}

// Create creates a new task.
func (h *TaskHandler) Create(c echo.Context) error {
	var req createTaskRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid task input")
	}

	projectID := uuid.Nil
	if req.ProjectID != "" {
		parsed, err := uuid.Parse(req.ProjectID)
		if err != nil {
			return response.BadRequest(c, "INVALID_INPUT", "project_id must be a UUID")
		}
		projectID = parsed
	}

	task, err := h.taskUsecase.Create(c.Request().Context(), middleware.CurrentUser(c), usecase.CreateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		ProjectID:   projectID,
		OwnerID:     req.OwnerID,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, toTaskView(task), "Task created successfully")
}

// List returns tasks matching the optional query filters: owner_id,
// created_after and created_before (RFC 3339).
func (h *TaskHandler) List(c echo.Context) error {
	filter, err := taskFilterFromQuery(c)
	if err != nil {
		return err
	}

	tasks, err := h.taskUsecase.List(c.Request().Context(), filter)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, toTaskViews(tasks), "Tasks retrieved successfully")
}

// GetByID returns a single task.
func (h *TaskHandler) GetByID(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Task id must be a UUID")
	}

	task, err := h.taskUsecase.GetByID(c.Request().Context(), id)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, toTaskView(task), "Task retrieved successfully")
}

type updateTaskRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Status      *string `json:"status"`
	Comment     *string `json:"comment"`
	ProjectID   *string `json:"project_id"`
	OwnerID     *int64  `json:"owner_id"`
}

// Update applies a partial update to a task. Which fields the actor may touch
// is decided by the authorization policy in the usecase layer.
func (h *TaskHandler) Update(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Task id must be a UUID")
	}

	var req updateTaskRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid task input")
	}

	input := usecase.UpdateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		Comment:     req.Comment,
		OwnerID:     req.OwnerID,
	}
	if req.ProjectID != nil {
		projectID, err := uuid.Parse(*req.ProjectID)
		if err != nil {
			return response.BadRequest(c, "INVALID_INPUT", "project_id must be a UUID")
		}
		input.ProjectID = &projectID
	}

	task, err := h.taskUsecase.Update(c.Request().Context(), middleware.CurrentUser(c), id, input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, toTaskView(task), "Task updated successfully")
}

// Delete removes a task.
func (h *TaskHandler) Delete(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Task id must be a UUID")
	}

	if err := h.taskUsecase.Delete(c.Request().Context(), middleware.CurrentUser(c), id); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, map[string]string{"message": "Task deleted"}, "Task deleted successfully")
}

func taskFilterFromQuery(c echo.Context) (usecase.TaskListFilter, error) {
	var filter usecase.TaskListFilter

	if raw := c.QueryParam("owner_id"); raw != "" {
		ownerID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return filter, domainerrors.ErrValidationFailed.WithDetails("owner_id must be a number")
		}
		filter.OwnerID = ownerID
	}
	if raw := c.QueryParam("created_after"); raw != "" {
		createdAfter, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return filter, domainerrors.ErrValidationFailed.WithDetails("created_after must be an RFC 3339 timestamp")
		}
		filter.CreatedAfter = createdAfter
	}
	if raw := c.QueryParam("created_before"); raw != "" {
		createdBefore, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return filter, domainerrors.ErrValidationFailed.WithDetails("created_before must be an RFC 3339 timestamp")
		}
		filter.CreatedBefore = createdBefore
	}

	return filter, nil
}
