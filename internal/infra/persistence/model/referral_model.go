package model

import "time"

// ReferralModel mirrors the 'referrals' table attributing signups to referrers.
type ReferralModel struct {
	ID         int64 `gorm:"primaryKey;autoIncrement"`
	ReferrerID int64 `gorm:"not null;index"`
	ReferredID int64 `gorm:"not null;uniqueIndex"`
	CreatedAt  time.Time
}

// TableName explicitly sets the table name for GORM.
func (ReferralModel) TableName() string {
	return "referrals"
}
