// Package repository provides the data access layer for the event management service.
package repository

import (
	"context"
	"fmt"

	"github.com/Trinhvhao/event-management/internal/models"
	"gorm.io/gorm"
)

// UserRepository defines the interface for user data operations.
type UserRepository interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByStudentID(ctx context.Context, studentID string) (*models.User, error)
	FindByID(ctx context.Context, id int64) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
	UpdatePassword(ctx context.Context, id int64, passwordHash string) error
	MarkEmailVerified(ctx context.Context, id int64) error
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new UserRepository instance.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).Preload("Department").Where("email = ?", email).First(&user).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find user by email %s: %w", email, translate(err))
	}
	return &user, nil
}

func (r *userRepository) FindByStudentID(ctx context.Context, studentID string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).Where("student_id = ?", studentID).First(&user).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find user by student id %s: %w", studentID, translate(err))
	}
	return &user, nil
}

func (r *userRepository) FindByID(ctx context.Context, id int64) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).Preload("Department").First(&user, id).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find user by id %d: %w", id, translate(err))
	}
	return &user, nil
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	if err := r.db.WithContext(ctx).Omit("Department").Create(user).Error; err != nil {
		return fmt.Errorf("failed to create user: %w", translate(err))
	}
	return nil
}

func (r *userRepository) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	return r.updateColumn(ctx, id, "password_hash", passwordHash)
}

func (r *userRepository) MarkEmailVerified(ctx context.Context, id int64) error {
	return r.updateColumn(ctx, id, "email_verified", true)
}

func (r *userRepository) updateColumn(ctx context.Context, id int64, column string, value interface{}) error {
	result := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).
		Updates(map[string]interface{}{column: value})
	if result.Error != nil {
		return fmt.Errorf("failed to update %s for user id %d: %w", column, id, translate(result.Error))
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("failed to update %s for user id %d: %w", column, id, ErrNotFound)
	}
	return nil
}
