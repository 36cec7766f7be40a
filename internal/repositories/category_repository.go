package repositories

import (
	"context"
	"fmt"

	"taskflow/backend/internal/models"

	"github.com/gofrs/uuid"
	"gorm.io/gorm"
)

const tasksCountSelect = "categories.*, (SELECT COUNT(*) FROM tasks WHERE tasks.category_id = categories.id) AS tasks_count"

// CategoryRepository manages task categories. Task counts are computed by a
// sub-select on every read.
type CategoryRepository struct {
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

func (r *CategoryRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Category, error) {
	categories := []models.Category{}
	if err := r.db.WithContext(ctx).Model(&models.Category{}).
		Select(tasksCountSelect).
		Where("categories.user_id = ?", userID).
		Order("categories.name ASC").
		Find(&categories).Error; err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return categories, nil
}

// FindByID loads a category by id regardless of owner, with its task count.
func (r *CategoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	var category models.Category
	if err := r.db.WithContext(ctx).Model(&models.Category{}).
		Select(tasksCountSelect).
		Where("categories.id = ?", id).
		First(&category).Error; err != nil {
		return nil, translate(err)
	}
	return &category, nil
}

func (r *CategoryRepository) ExistsForUser(ctx context.Context, id, userID uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Category{}).
		Where("id = ? AND user_id = ?", id, userID).
		Count(&count).Error; err != nil {
		return false, fmt.Errorf("check category: %w", err)
	}
	return count > 0, nil
}

func (r *CategoryRepository) Create(ctx context.Context, category *models.Category) error {
	if err := r.db.WithContext(ctx).Create(category).Error; err != nil {
		return fmt.Errorf("create category: %w", err)
	}
	return nil
}

func (r *CategoryRepository) Update(ctx context.Context, category *models.Category, fields map[string]interface{}) error {
	if len(fields) == 0 {
		return nil
	}
	if err := r.db.WithContext(ctx).Model(category).Updates(fields).Error; err != nil {
		return fmt.Errorf("update category: %w", err)
	}
	return nil
}

// Delete detaches the category's tasks and removes the category in one
// transaction. Tasks are never deleted.
func (r *CategoryRepository) Delete(ctx context.Context, category *models.Category) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Task{}).
			Where("category_id = ?", category.ID).
			UpdateColumn("category_id", nil).Error; err != nil {
			return fmt.Errorf("detach tasks: %w", err)
		}
		if err := tx.Where("id = ?", category.ID).Delete(&models.Category{}).Error; err != nil {
			return fmt.Errorf("delete category: %w", err)
		}
		return nil
	})
}
