package model

import (
	"time"

	"github.com/google/uuid"
)

// MessageModel mirrors the 'messages' table holding the shared chat history.
type MessageModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	UserID    int64     `gorm:"not null;index"`
	Content   string    `gorm:"type:text;not null"`
	CreatedAt time.Time `gorm:"index"`

	Author *UserModel `gorm:"foreignKey:UserID"`
}

// TableName explicitly sets the table name for GORM.
func (MessageModel) TableName() string {
	return "messages"
}
