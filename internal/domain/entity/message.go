package entity

import (
	"time"

	"github.com/google/uuid"
)

// Message is a single entry in the shared chat.
type Message struct {
	ID        uuid.UUID
	UserID    int64
	Author    *User // Preloaded author record, nil when not loaded.
	Content   string
	CreatedAt time.Time
}
