package models

import (
	"time"

	"gorm.io/datatypes"
)

type TaskPriority string

const (
	PriorityLow    TaskPriority = "low"
	PriorityMedium TaskPriority = "medium"
	PriorityHigh   TaskPriority = "high"
)

type TaskStatus string

const (
	StatusPending   TaskStatus = "pending"
	StatusCompleted TaskStatus = "completed"
)

type Task struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	UserID      uint            `gorm:"not null;index" json:"user_id"`
	CategoryID  *uint           `gorm:"index" json:"category_id"`
	Title       string          `gorm:"not null" json:"title"`
	Description string          `json:"description"`
	Priority    TaskPriority    `gorm:"index;default:medium" json:"priority"`
	Status      TaskStatus      `gorm:"index;default:pending" json:"status"`
	DueDate     *datatypes.Date `gorm:"index" json:"-"`
	CompletedAt *time.Time      `json:"completed_at"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
	IsDeleted   bool            `gorm:"default:false" json:"-"`

	// Relationships
	User     User      `gorm:"foreignKey:UserID;constraint:OnUpdate:Cascade,OnDelete:CASCADE" json:"-"`
	Category *Category `gorm:"foreignKey:CategoryID;constraint:OnUpdate:Cascade,OnDelete:SET NULL" json:"-"`
}

// TaskDetail is the read model for task queries: every task column plus the
// category name and color joined from the categories table. Category fields
// are nil when the task has no category.
type TaskDetail struct {
	ID            uint         `json:"id"`
	UserID        uint         `json:"user_id"`
	CategoryID    *uint        `json:"category_id"`
	Title         string       `json:"title"`
	Description   string       `json:"description"`
	Priority      TaskPriority `json:"priority"`
	Status        TaskStatus   `json:"status"`
	DueDate       *time.Time   `json:"due_date"`
	CompletedAt   *time.Time   `json:"completed_at"`
	CreatedAt     time.Time    `json:"created_at"`
	UpdatedAt     time.Time    `json:"updated_at"`
	Category      *string      `json:"category"`
	CategoryColor *string      `json:"category_color"`
}
