package handler

import (
	"net/http"

	"tracker/internal/delivery/http/middleware"
	"tracker/internal/delivery/http/response"
	"tracker/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// ProjectHandler holds dependencies for project-related handlers.
type ProjectHandler struct {
	projectUsecase usecase.ProjectUsecase
}

// NewProjectHandler is the constructor for ProjectHandler, injected by Fx.
func NewProjectHandler(projectUsecase usecase.ProjectUsecase) *ProjectHandler {
	return &ProjectHandler{projectUsecase: projectUsecase}
}

type createProjectRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// Create creates a new project.
func (h *ProjectHandler) Create(c echo.Context) error {
	var req createProjectRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid project input")
	}

	project, err := h.projectUsecase.Create(c.Request().Context(), middleware.CurrentUser(c), usecase.CreateProjectInput{
		Title:       req.Title,
		Description: req.Description,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, toProjectView(project), "Project created successfully")
}

// List returns all projects with their tasks.
func (h *ProjectHandler) List(c echo.Context) error {
	projects, err := h.projectUsecase.List(c.Request().Context())
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, toProjectViews(projects), "Projects retrieved successfully")
}

// GetByID returns a single project with its tasks.
func (h *ProjectHandler) GetByID(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Project id must be a UUID")
	}

	project, err := h.projectUsecase.GetByID(c.Request().Context(), id)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, toProjectView(project), "Project retrieved successfully")
}

// Delete removes a project. Its tasks survive as unassigned tasks.
func (h *ProjectHandler) Delete(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Project id must be a UUID")
	}

	if err := h.projectUsecase.Delete(c.Request().Context(), middleware.CurrentUser(c), id); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, map[string]string{"message": "Project deleted"}, "Project deleted successfully")
}
