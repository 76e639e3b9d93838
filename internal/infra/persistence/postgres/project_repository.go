package postgres

import (
	"context"

	"tracker/internal/domain/entity"
	domainerrors "tracker/internal/domain/errors"
	"tracker/internal/domain/repository"
	"tracker/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// projectRepository implements the domain.ProjectRepository interface using GORM.
type projectRepository struct {
	db *gorm.DB
}

// NewProjectRepository is the constructor for projectRepository.
func NewProjectRepository(db *gorm.DB) repository.ProjectRepository {
	return &projectRepository{db: db}
}

// Create persists a new project.
func (repo *projectRepository) Create(ctx context.Context, project *entity.Project) error {
	projectM := fromProjectDomain(project)
	if projectM.ID == uuid.Nil {
		projectM.ID = uuid.New()
	}

	if err := repo.db.WithContext(ctx).Create(projectM).Error; err != nil {
		return domainerrors.NewDatabaseExecuteError(err, "failed to create project")
	}

	project.ID = projectM.ID
	project.CreatedAt = projectM.CreatedAt
	project.UpdatedAt = projectM.UpdatedAt

	return nil
}

// FindByID retrieves a project by its ID, with tasks and their owners preloaded.
func (repo *projectRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Project, error) {
	var projectM model.ProjectModel
	err := repo.db.WithContext(ctx).
		Preload("Tasks.Owner").
		First(&projectM, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrProjectNotFound
		}

		return nil, errors.Wrap(err, "failed to find project by id")
	}

	return toProjectDomain(&projectM), nil
}

// List retrieves all projects, with tasks and their owners preloaded.
func (repo *projectRepository) List(ctx context.Context) ([]*entity.Project, error) {
	var projectMs []*model.ProjectModel
	err := repo.db.WithContext(ctx).
		Preload("Tasks.Owner").
		Order("created_at ASC").
		Find(&projectMs).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to list projects")
	}

	projects := make([]*entity.Project, 0, len(projectMs))
	for _, projectM := range projectMs {
		projects = append(projects, toProjectDomain(projectM))
	}

	return projects, nil
}

// Delete removes a project by its ID. Tasks keep their rows; their project
// reference is cleared first so they become unassigned rather than orphaned.
func (repo *projectRepository) Delete(ctx context.Context, id uuid.UUID) error {
	err := repo.db.WithContext(ctx).
		Model(&model.TaskModel{}).
		Where("project_id = ?", id).
		Update("project_id", nil).Error
	if err != nil {
		return errors.Wrap(err, "failed to detach project tasks")
	}

	result := repo.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&model.ProjectModel{})
	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to delete project")
	}
	if result.RowsAffected == 0 {
		return repository.ErrProjectNotFound
	}

	return nil
}

// --- Mapper Functions ---

// toProjectDomain converts a GORM ProjectModel to a domain Project entity.
func toProjectDomain(data *model.ProjectModel) *entity.Project {
	if data == nil {
		return nil
	}

	tasks := make([]*entity.Task, 0, len(data.Tasks))
	for _, taskM := range data.Tasks {
		tasks = append(tasks, toTaskDomain(taskM))
	}

	return &entity.Project{
		ID:          data.ID,
		Title:       data.Title,
		Description: data.Description,
		Tasks:       tasks,
		CreatedAt:   data.CreatedAt,
		UpdatedAt:   data.UpdatedAt,
	}
}

// fromProjectDomain converts a domain Project entity to a GORM ProjectModel.
func fromProjectDomain(data *entity.Project) *model.ProjectModel {
	if data == nil {
		return nil
	}

	return &model.ProjectModel{
		ID:          data.ID,
		Title:       data.Title,
		Description: data.Description,
		CreatedAt:   data.CreatedAt,
	}
}
