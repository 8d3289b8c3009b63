package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/taskmaster-dev/taskmaster/internal/models"
)

// UserRepository looks up users. The application runs as a single seeded
// user, so this surface is intentionally small.
type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// FindByUsername returns an active user by username.
func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).
		Where("username = ? AND is_active = ?", username, true).
		First(&user).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, err
		}
		return nil, fmt.Errorf("find user %q: %w", username, err)
	}
	return &user, nil
}
