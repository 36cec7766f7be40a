package services

import (
	"context"
	"fmt"
	"strings"

	"taskflow/backend/internal/models"

	"github.com/gofrs/uuid"
)

// CategoryInput is the body of a category create or update.
type CategoryInput struct {
	Name  Optional[string] `json:"name"`
	Color Optional[string] `json:"color"`
}

type CategoryService interface {
	ListCategories(ctx context.Context, userID uuid.UUID) ([]models.Category, error)
	CreateCategory(ctx context.Context, userID uuid.UUID, input CategoryInput) (*models.Category, error)
	GetCategory(ctx context.Context, userID, categoryID uuid.UUID) (*models.Category, error)
	UpdateCategory(ctx context.Context, userID, categoryID uuid.UUID, input CategoryInput) (*models.Category, error)
	DeleteCategory(ctx context.Context, userID, categoryID uuid.UUID) error
}

type CategoryServiceImpl struct {
	categories CategoryStore
}

func NewCategoryService(categories CategoryStore) *CategoryServiceImpl {
	return &CategoryServiceImpl{categories: categories}
}

func (s *CategoryServiceImpl) ListCategories(ctx context.Context, userID uuid.UUID) ([]models.Category, error) {
	return s.categories.ListByUser(ctx, userID)
}

func (s *CategoryServiceImpl) CreateCategory(ctx context.Context, userID uuid.UUID, input CategoryInput) (*models.Category, error) {
	fields, err := validateCategory(input, true)
	if err != nil {
		return nil, err
	}

	category := &models.Category{UserID: userID, Name: fields["name"].(string)}
	if color, ok := fields["color"].(string); ok {
		category.Color = &color
	}

	if err := s.categories.Create(ctx, category); err != nil {
		return nil, err
	}

	var none int64
	category.TasksCount = &none
	return category, nil
}

func (s *CategoryServiceImpl) GetCategory(ctx context.Context, userID, categoryID uuid.UUID) (*models.Category, error) {
	return s.ownedCategory(ctx, userID, categoryID)
}

func (s *CategoryServiceImpl) UpdateCategory(ctx context.Context, userID, categoryID uuid.UUID, input CategoryInput) (*models.Category, error) {
	category, err := s.ownedCategory(ctx, userID, categoryID)
	if err != nil {
		return nil, err
	}

	fields, err := validateCategory(input, false)
	if err != nil {
		return nil, err
	}

	if err := s.categories.Update(ctx, category, fields); err != nil {
		return nil, err
	}

	updated, err := s.categories.FindByID(ctx, category.ID)
	if err != nil {
		return nil, fmt.Errorf("reload category: %w", storeError(err))
	}
	return updated, nil
}

// DeleteCategory removes the category and detaches its tasks.
func (s *CategoryServiceImpl) DeleteCategory(ctx context.Context, userID, categoryID uuid.UUID) error {
	category, err := s.ownedCategory(ctx, userID, categoryID)
	if err != nil {
		return err
	}
	return s.categories.Delete(ctx, category)
}

func (s *CategoryServiceImpl) ownedCategory(ctx context.Context, userID, categoryID uuid.UUID) (*models.Category, error) {
	category, err := s.categories.FindByID(ctx, categoryID)
	if err != nil {
		return nil, storeError(err)
	}
	if err := authorizeOwnership(category, userID); err != nil {
		return nil, err
	}
	return category, nil
}

func validateCategory(input CategoryInput, creating bool) (map[string]interface{}, error) {
	fields := map[string]interface{}{}
	errs := NewValidationError()

	if input.Name.Set || creating {
		name := strings.TrimSpace(input.Name.Value)
		checkField(errs, "name", name, "required,max=255")
		fields["name"] = name
	}

	if color := blankToNull(input.Color); color.Set {
		fields["color"] = nil
		if color.Valid {
			checkField(errs, "color", color.Value, "max=7,hexcolor")
			fields["color"] = color.Value
		}
	}

	if err := errs.OrNil(); err != nil {
		return nil, err
	}
	return fields, nil
}
