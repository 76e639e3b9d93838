package entity

import (
	"time"

	"github.com/google/uuid"
)

// TaskStatus represents the workflow state of a task.
type TaskStatus string

const (
	// TaskStatusTodo is the initial state of a freshly created task.
	TaskStatusTodo TaskStatus = "todo"
	// TaskStatusInProgress marks a task that is being worked on.
	TaskStatusInProgress TaskStatus = "in_progress"
	// TaskStatusDone marks a completed task.
	TaskStatusDone TaskStatus = "done"
)

// String returns the string representation of the TaskStatus.
func (s TaskStatus) String() string {
	return string(s)
}

// IsValid checks if the TaskStatus is a valid value.
func (s TaskStatus) IsValid() bool {
	switch s {
	case TaskStatusTodo, TaskStatusInProgress, TaskStatusDone:
		return true
	default:
		return false
	}
}

// Task is a unit of work inside a project, assigned to a single owner.
type Task struct {
	ID          uuid.UUID
	Title       string
	Description string
	Status      TaskStatus
	Comment     string
	ProjectID   uuid.UUID
	OwnerID     int64 // User the task is assigned to; drives the ownership rules.
	Owner       *User // Preloaded owner record, nil when not loaded.
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
