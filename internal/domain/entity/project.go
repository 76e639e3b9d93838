package entity

import (
	"time"

	"github.com/google/uuid"
)

// Project groups tasks under a common title.
type Project struct {
	ID          uuid.UUID
	Title       string
	Description string
	Tasks       []*Task // Preloaded tasks, nil when not loaded.
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
