package repositories

import (
	"context"
	"fmt"
	"strings"
	"time"

	"taskflow/backend/internal/models"

	"github.com/gofrs/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// TaskFilter narrows a task listing. Values are expected to be normalized
// by the caller; SortBy must be a task column name.
type TaskFilter struct {
	Status     string
	Priority   string
	CategoryID *uuid.UUID
	Search     string
	SortBy     string
	SortDesc   bool
	Page       int
	PerPage    int
}

// TaskRepository handles CRUD and aggregate reads for tasks.
type TaskRepository struct {
	db *gorm.DB
}

func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

func (r *TaskRepository) Create(ctx context.Context, task *models.Task) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(task).Error; err != nil {
		return fmt.Errorf("create task: %w", err)
	}
	return nil
}

// FindByID loads a task by id regardless of owner, with its category.
func (r *TaskRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Task, error) {
	var task models.Task
	if err := r.db.WithContext(ctx).Preload("Category").Where("id = ?", id).First(&task).Error; err != nil {
		return nil, translate(err)
	}
	return &task, nil
}

// List returns one page of the user's tasks and the total number of rows
// matching the filter.
func (r *TaskRepository) List(ctx context.Context, userID uuid.UUID, filter TaskFilter) ([]models.Task, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Task{}).Where("user_id = ?", userID)

	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Priority != "" {
		query = query.Where("priority = ?", filter.Priority)
	}
	if filter.CategoryID != nil {
		query = query.Where("category_id = ?", *filter.CategoryID)
	}
	if filter.Search != "" {
		query = query.Where("LOWER(title) LIKE ? ESCAPE '\\'", "%"+escapeLike(strings.ToLower(filter.Search))+"%")
	}

	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count tasks: %w", err)
	}

	sortBy := filter.SortBy
	if sortBy == "" {
		sortBy = "created_at"
	}
	perPage := filter.PerPage
	if perPage < 1 {
		perPage = 10
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}

	tasks := []models.Task{}
	if err := query.
		Preload("Category").
		Order(clause.OrderByColumn{Column: clause.Column{Name: sortBy}, Desc: filter.SortDesc}).
		Order("id").
		Limit(perPage).
		Offset((page - 1) * perPage).
		Find(&tasks).Error; err != nil {
		return nil, 0, fmt.Errorf("list tasks: %w", err)
	}
	return tasks, total, nil
}

func (r *TaskRepository) Update(ctx context.Context, task *models.Task, fields map[string]interface{}) error {
	if len(fields) == 0 {
		return nil
	}
	if err := r.db.WithContext(ctx).Model(task).Omit(clause.Associations).Updates(fields).Error; err != nil {
		return fmt.Errorf("update task: %w", err)
	}
	return nil
}

func (r *TaskRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if err := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Task{}).Error; err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	return nil
}

func (r *TaskRepository) CountByUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Task{}).Where("user_id = ?", userID).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("count tasks: %w", err)
	}
	return count, nil
}

// CountGroupedBy counts the user's tasks per distinct value of column,
// which must be "status" or "priority".
func (r *TaskRepository) CountGroupedBy(ctx context.Context, userID uuid.UUID, column string) (map[string]int64, error) {
	if column != "status" && column != "priority" {
		return nil, fmt.Errorf("unsupported group column %q", column)
	}

	var rows []struct {
		Value string
		Count int64
	}
	if err := r.db.WithContext(ctx).Model(&models.Task{}).
		Select(column+" AS value, COUNT(*) AS count").
		Where("user_id = ?", userID).
		Group(column).
		Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("count tasks by %s: %w", column, err)
	}

	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.Value] = row.Count
	}
	return counts, nil
}

func (r *TaskRepository) CountOverdue(ctx context.Context, userID uuid.UUID, now time.Time) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Task{}).
		Where("user_id = ? AND due_date < ? AND status <> ?", userID, now.UTC(), models.StatusCompleted).
		Count(&count).Error; err != nil {
		return 0, fmt.Errorf("count overdue tasks: %w", err)
	}
	return count, nil
}

// Upcoming lists unfinished tasks due within [from, to], soonest first.
// Categories are not preloaded.
func (r *TaskRepository) Upcoming(ctx context.Context, userID uuid.UUID, from, to time.Time, limit int) ([]models.Task, error) {
	tasks := []models.Task{}
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND due_date >= ? AND due_date <= ? AND status <> ?",
			userID, from.UTC(), to.UTC(), models.StatusCompleted).
		Order("due_date ASC").
		Limit(limit).
		Find(&tasks).Error; err != nil {
		return nil, fmt.Errorf("list upcoming tasks: %w", err)
	}
	return tasks, nil
}

func (r *TaskRepository) Recent(ctx context.Context, userID uuid.UUID, limit int) ([]models.Task, error) {
	tasks := []models.Task{}
	if err := r.db.WithContext(ctx).
		Preload("Category").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Order("id").
		Limit(limit).
		Find(&tasks).Error; err != nil {
		return nil, fmt.Errorf("list recent tasks: %w", err)
	}
	return tasks, nil
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
