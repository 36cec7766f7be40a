package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"taskflow/backend/internal/models"
	"taskflow/backend/internal/repositories"

	"github.com/gofrs/uuid"
)

const TasksPerPage = 10

var sortableTaskColumns = map[string]bool{
	"id":          true,
	"title":       true,
	"description": true,
	"status":      true,
	"priority":    true,
	"due_date":    true,
	"category_id": true,
	"user_id":     true,
	"created_at":  true,
	"updated_at":  true,
}

// TaskQuery carries the raw listing parameters. Unknown or invalid values
// fall back to defaults instead of failing the request.
type TaskQuery struct {
	Status     string
	Priority   string
	CategoryID string
	Search     string
	SortBy     string
	SortOrder  string
	Page       int
}

// TaskInput is the body of a task create or update. Absent fields are left
// untouched on update; null clears nullable fields.
type TaskInput struct {
	Title       Optional[string] `json:"title"`
	Description Optional[string] `json:"description"`
	Status      Optional[string] `json:"status"`
	Priority    Optional[string] `json:"priority"`
	DueDate     Optional[string] `json:"due_date"`
	CategoryID  Optional[string] `json:"category_id"`
}

type TaskPage struct {
	Tasks    []models.Task
	Total    int64
	Page     int
	PerPage  int
	LastPage int
}

type TaskService interface {
	ListTasks(ctx context.Context, userID uuid.UUID, query TaskQuery) (*TaskPage, error)
	CreateTask(ctx context.Context, userID uuid.UUID, input TaskInput) (*models.Task, error)
	GetTask(ctx context.Context, userID, taskID uuid.UUID) (*models.Task, error)
	UpdateTask(ctx context.Context, userID, taskID uuid.UUID, input TaskInput) (*models.Task, error)
	DeleteTask(ctx context.Context, userID, taskID uuid.UUID) error
}

type TaskServiceImpl struct {
	tasks      TaskStore
	categories CategoryStore
}

func NewTaskService(tasks TaskStore, categories CategoryStore) *TaskServiceImpl {
	return &TaskServiceImpl{tasks: tasks, categories: categories}
}

func (s *TaskServiceImpl) ListTasks(ctx context.Context, userID uuid.UUID, query TaskQuery) (*TaskPage, error) {
	filter := repositories.TaskFilter{
		Search:   strings.TrimSpace(query.Search),
		SortBy:   "created_at",
		SortDesc: true,
		Page:     query.Page,
		PerPage:  TasksPerPage,
	}
	if models.IsValidStatus(query.Status) {
		filter.Status = query.Status
	}
	if models.IsValidPriority(query.Priority) {
		filter.Priority = query.Priority
	}
	if id, err := uuid.FromString(query.CategoryID); err == nil {
		filter.CategoryID = &id
	}
	if sortableTaskColumns[query.SortBy] {
		filter.SortBy = query.SortBy
	}
	if strings.EqualFold(query.SortOrder, "asc") {
		filter.SortDesc = false
	}
	if filter.Page < 1 {
		filter.Page = 1
	}

	tasks, total, err := s.tasks.List(ctx, userID, filter)
	if err != nil {
		return nil, err
	}

	lastPage := int((total + TasksPerPage - 1) / TasksPerPage)
	if lastPage < 1 {
		lastPage = 1
	}

	return &TaskPage{
		Tasks:    tasks,
		Total:    total,
		Page:     filter.Page,
		PerPage:  TasksPerPage,
		LastPage: lastPage,
	}, nil
}

func (s *TaskServiceImpl) CreateTask(ctx context.Context, userID uuid.UUID, input TaskInput) (*models.Task, error) {
	changes, err := s.validateTask(ctx, userID, input, true)
	if err != nil {
		return nil, err
	}

	task := &models.Task{UserID: userID}
	changes.apply(task)

	if err := s.tasks.Create(ctx, task); err != nil {
		return nil, err
	}
	return s.reload(ctx, task.ID)
}

func (s *TaskServiceImpl) GetTask(ctx context.Context, userID, taskID uuid.UUID) (*models.Task, error) {
	return s.ownedTask(ctx, userID, taskID)
}

func (s *TaskServiceImpl) UpdateTask(ctx context.Context, userID, taskID uuid.UUID, input TaskInput) (*models.Task, error) {
	task, err := s.ownedTask(ctx, userID, taskID)
	if err != nil {
		return nil, err
	}

	changes, err := s.validateTask(ctx, userID, input, false)
	if err != nil {
		return nil, err
	}

	if err := s.tasks.Update(ctx, task, changes.fields()); err != nil {
		return nil, err
	}
	return s.reload(ctx, task.ID)
}

func (s *TaskServiceImpl) DeleteTask(ctx context.Context, userID, taskID uuid.UUID) error {
	task, err := s.ownedTask(ctx, userID, taskID)
	if err != nil {
		return err
	}
	return s.tasks.Delete(ctx, task.ID)
}

func (s *TaskServiceImpl) ownedTask(ctx context.Context, userID, taskID uuid.UUID) (*models.Task, error) {
	task, err := s.tasks.FindByID(ctx, taskID)
	if err != nil {
		return nil, storeError(err)
	}
	if err := authorizeOwnership(task, userID); err != nil {
		return nil, err
	}
	return task, nil
}

func (s *TaskServiceImpl) reload(ctx context.Context, taskID uuid.UUID) (*models.Task, error) {
	task, err := s.tasks.FindByID(ctx, taskID)
	if err != nil {
		return nil, fmt.Errorf("reload task: %w", storeError(err))
	}
	return task, nil
}

type taskChanges struct {
	title       *string
	description Optional[string]
	status      *string
	priority    *string
	dueDate     Optional[time.Time]
	categoryID  Optional[uuid.UUID]
}

func (c taskChanges) apply(task *models.Task) {
	if c.title != nil {
		task.Title = *c.title
	}
	if c.description.Set {
		task.Description = c.description.Ptr()
	}
	if c.status != nil {
		task.Status = *c.status
	}
	if c.priority != nil {
		task.Priority = *c.priority
	}
	if c.dueDate.Set {
		task.DueDate = c.dueDate.Ptr()
	}
	if c.categoryID.Set {
		task.CategoryID = c.categoryID.Ptr()
	}
}

func (c taskChanges) fields() map[string]interface{} {
	fields := map[string]interface{}{}
	if c.title != nil {
		fields["title"] = *c.title
	}
	if c.description.Set {
		fields["description"] = nullable(c.description)
	}
	if c.status != nil {
		fields["status"] = *c.status
	}
	if c.priority != nil {
		fields["priority"] = *c.priority
	}
	if c.dueDate.Set {
		fields["due_date"] = nullable(c.dueDate)
	}
	if c.categoryID.Set {
		fields["category_id"] = nullable(c.categoryID)
	}
	return fields
}

// validateTask checks every supplied field and collects all failures before
// returning. On create the title is mandatory.
func (s *TaskServiceImpl) validateTask(ctx context.Context, userID uuid.UUID, input TaskInput, creating bool) (taskChanges, error) {
	var changes taskChanges
	errs := NewValidationError()

	if input.Title.Set || creating {
		title := strings.TrimSpace(input.Title.Value)
		checkField(errs, "title", title, "required,max=255")
		changes.title = &title
	}

	if input.Description.Set {
		changes.description = blankToNull(input.Description)
	}

	if input.Status.Set {
		changes.status = enumValue(errs, "status", input.Status, models.TaskStatuses)
	}

	if input.Priority.Set {
		changes.priority = enumValue(errs, "priority", input.Priority, models.TaskPriorities)
	}

	if raw := blankToNull(input.DueDate); raw.Set {
		changes.dueDate = Null[time.Time]()
		if raw.Valid {
			checkField(errs, "due_date", raw.Value, "taskdate")
			if due, err := parseDueDate(raw.Value); err == nil {
				changes.dueDate = Some(due)
			}
		}
	}

	if raw := blankToNull(input.CategoryID); raw.Set {
		changes.categoryID = Null[uuid.UUID]()
		if raw.Valid {
			id, err := uuid.FromString(raw.Value)
			owned := false
			if err == nil {
				if owned, err = s.categories.ExistsForUser(ctx, id, userID); err != nil {
					return changes, err
				}
			}
			if owned {
				changes.categoryID = Some(id)
			} else {
				errs.Add("category_id", "The selected category id is invalid.")
			}
		}
	}

	return changes, errs.OrNil()
}

// enumValue validates an enum field. Null and blank values are rejected:
// status and priority are never nullable.
func enumValue(errs *ValidationError, field string, value Optional[string], allowed []string) *string {
	v := strings.TrimSpace(value.Value)
	checkField(errs, field, v, "oneof="+strings.Join(allowed, " "))
	return &v
}

func blankToNull(value Optional[string]) Optional[string] {
	if !value.Set {
		return value
	}
	trimmed := strings.TrimSpace(value.Value)
	if !value.Valid || trimmed == "" {
		return Null[string]()
	}
	return Some(trimmed)
}

func nullable[T any](value Optional[T]) interface{} {
	if !value.Valid {
		return nil
	}
	return value.Value
}

func storeError(err error) error {
	if errors.Is(err, repositories.ErrNotFound) {
		return ErrNotFound
	}
	return err
}
