package handler

import (
	"time"

	"tracker/internal/domain/entity"

	"github.com/google/uuid"
)

// userView is the public projection of a user. Password material never
// leaves the usecase layer through this type.
type userView struct {
	ID          int64     `json:"id"`
	Login       string    `json:"login"`
	FullName    string    `json:"full_name"`
	Description string    `json:"description,omitempty"`
	AvatarPath  string    `json:"avatar_path,omitempty"`
	Role        string    `json:"role"`
	Referred    bool      `json:"referred"`
	CreatedAt   time.Time `json:"created_at"`
}

func toUserView(user *entity.User) *userView {
	if user == nil {
		return nil
	}

	return &userView{
		ID:          user.ID,
		Login:       user.Login,
		FullName:    user.FullName,
		Description: user.Description,
		AvatarPath:  user.AvatarPath,
		Role:        user.Role.String(),
		Referred:    user.Referred,
		CreatedAt:   user.CreatedAt,
	}
}

func toUserViews(users []*entity.User) []*userView {
	views := make([]*userView, 0, len(users))
	for _, user := range users {
		views = append(views, toUserView(user))
	}

	return views
}

type taskView struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Status      string    `json:"status"`
	Comment     string    `json:"comment,omitempty"`
	ProjectID   string    `json:"project_id,omitempty"`
	OwnerID     int64     `json:"owner_id"`
	Owner       *userView `json:"owner,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func toTaskView(task *entity.Task) *taskView {
	if task == nil {
		return nil
	}

	view := &taskView{
		ID:          task.ID,
		Title:       task.Title,
		Description: task.Description,
		Status:      task.Status.String(),
		Comment:     task.Comment,
		OwnerID:     task.OwnerID,
		Owner:       toUserView(task.Owner),
		CreatedAt:   task.CreatedAt,
		UpdatedAt:   task.UpdatedAt,
	}
	if task.ProjectID != uuid.Nil {
		view.ProjectID = task.ProjectID.String()
	}

	return view
}

func toTaskViews(tasks []*entity.Task) []*taskView {
	views := make([]*taskView, 0, len(tasks))
	for _, task := range tasks {
		views = append(views, toTaskView(task))
	}

	return views
}

type projectView struct {
	ID          uuid.UUID   `json:"id"`
	Title       string      `json:"title"`
	Description string      `json:"description,omitempty"`
	Tasks       []*taskView `json:"tasks,omitempty"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

func toProjectView(project *entity.Project) *projectView {
	if project == nil {
		return nil
	}

	return &projectView{
		ID:          project.ID,
		Title:       project.Title,
		Description: project.Description,
		Tasks:       toTaskViews(project.Tasks),
		CreatedAt:   project.CreatedAt,
		UpdatedAt:   project.UpdatedAt,
	}
}

func toProjectViews(projects []*entity.Project) []*projectView {
	views := make([]*projectView, 0, len(projects))
	for _, project := range projects {
		views = append(views, toProjectView(project))
	}

	return views
}

type messageView struct {
	ID        uuid.UUID `json:"id"`
	UserID    int64     `json:"user_id"`
	Author    string    `json:"author,omitempty"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

func toMessageView(message *entity.Message) *messageView {
	if message == nil {
		return nil
	}

	view := &messageView{
		ID:        message.ID,
		UserID:    message.UserID,
		Content:   message.Content,
		CreatedAt: message.CreatedAt,
	}
	if message.Author != nil {
		view.Author = message.Author.FullName
	}

	return view
}

func toMessageViews(messages []*entity.Message) []*messageView {
	views := make([]*messageView, 0, len(messages))
	for _, message := range messages {
		views = append(views, toMessageView(message))
	}

	return views
}
