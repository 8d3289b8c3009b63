package models

import "time"

type Category struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index;uniqueIndex:idx_user_category_name" json:"user_id"`
	Name      string    `gorm:"not null;uniqueIndex:idx_user_category_name" json:"name"`
	Color     string    `gorm:"default:#7c3aed" json:"color"`
	Icon      string    `gorm:"default:📁" json:"icon"`
	SortOrder int       `gorm:"default:0" json:"sort_order"`
	CreatedAt time.Time `json:"created_at"`

	// Relationships
	User  User   `gorm:"foreignKey:UserID;constraint:OnUpdate:Cascade,OnDelete:CASCADE" json:"-"`
	Tasks []Task `gorm:"foreignKey:CategoryID;constraint:OnUpdate:Cascade,OnDelete:SET NULL" json:"-"`
}
