package models

import (
	"time"

	"gorm.io/datatypes"
)

// ActivityLog is part of the persisted schema but has no read or write path
// in the application. It is migrated so that the on-disk layout matches the
// documented schema contract.
type ActivityLog struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	UserID    uint           `gorm:"not null;index" json:"user_id"`
	TaskID    *uint          `json:"task_id"`
	Action    string         `gorm:"not null" json:"action"`
	Details   datatypes.JSON `json:"details"`
	CreatedAt time.Time      `json:"created_at"`

	// Relationships
	User User `gorm:"foreignKey:UserID;constraint:OnUpdate:Cascade,OnDelete:CASCADE" json:"-"`
}
