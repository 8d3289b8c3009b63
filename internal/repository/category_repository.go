package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/taskmaster-dev/taskmaster/internal/models"
)

// CategoryRepository reads task categories. Categories are seeded, not
// user-managed, so there is no write path here.
type CategoryRepository struct {
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

// ListByUser returns the user's categories in sort order.
func (r *CategoryRepository) ListByUser(ctx context.Context, userID uint) ([]models.Category, error) {
	categories := []models.Category{}
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("sort_order ASC").
		Find(&categories).Error
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return categories, nil
}
