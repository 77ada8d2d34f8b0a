package repository

import (
	"context"
	"fmt"

	"github.com/Trinhvhao/event-management/internal/models"
	"gorm.io/gorm"
)

// ReferenceRepository reads the static category and department lists.
type ReferenceRepository interface {
	ListCategories(ctx context.Context) ([]models.Category, error)
	ListDepartments(ctx context.Context) ([]models.Department, error)
}

type referenceRepository struct {
	db *gorm.DB
}

// NewReferenceRepository creates a new ReferenceRepository instance.
func NewReferenceRepository(db *gorm.DB) ReferenceRepository {
	return &referenceRepository{db: db}
}

func (r *referenceRepository) ListCategories(ctx context.Context) ([]models.Category, error) {
	categories := []models.Category{}
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&categories).Error; err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return categories, nil
}

func (r *referenceRepository) ListDepartments(ctx context.Context) ([]models.Department, error) {
	departments := []models.Department{}
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&departments).Error; err != nil {
		return nil, fmt.Errorf("failed to list departments: %w", err)
	}
	return departments, nil
}
