// Package model holds the GORM persistence models mirroring the database schema.
package model

import "time"

// UserModel mirrors the 'users' table. IDs are bigserial so referral tokens
// stay compact.
type UserModel struct {
	ID                int64     `gorm:"primaryKey;autoIncrement"`
	Login             string    `gorm:"type:varchar(20);unique;not null"`
	FullName          string    `gorm:"type:varchar(50);unique;not null"`
	PasswordHash      string    `gorm:"type:varchar(255);not null"`
	Description       string    `gorm:"type:text"`
	AvatarPath        string    `gorm:"type:varchar(255)"`
	Role              string    `gorm:"type:varchar(20);not null;default:guest"`
	Referred          bool      `gorm:"not null;default:false"`
	PasswordChangedAt time.Time `gorm:"not null"`
	CreatedAt         time.Time
	UpdatedAt         time.Time

	Sessions []SessionModel `gorm:"foreignKey:UserID"`
	Tasks    []TaskModel    `gorm:"foreignKey:OwnerID"`
}

// TableName explicitly sets the table name for GORM.
func (UserModel) TableName() string {
	return "users"
}
