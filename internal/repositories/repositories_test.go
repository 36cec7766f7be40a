package repositories_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"taskflow/backend/internal/database"
	"taskflow/backend/internal/models"
	"taskflow/backend/internal/repositories"

	"github.com/gofrs/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	config := database.DefaultPoolConfig()
	config.Driver = database.DriverSQLite
	config.DSN = ":memory:"
	config.LogLevel = logger.Silent

	pool, err := database.NewDatabasePool(config)
	require.NoError(t, err)
	require.NoError(t, pool.Migrate(""))
	t.Cleanup(func() { _ = pool.Close() })

	return pool.DB
}

func createUser(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()
	user := &models.User{Name: "User " + email, Email: email, Password: "hash"}
	require.NoError(t, repositories.NewUserRepository(db).Create(context.Background(), user))
	return user
}

func createTask(t *testing.T, db *gorm.DB, task models.Task) *models.Task {
	t.Helper()
	require.NoError(t, repositories.NewTaskRepository(db).Create(context.Background(), &task))
	return &task
}

func TestUserRepository_FindByEmail(t *testing.T) {
	db := setupTestDB(t)
	repo := repositories.NewUserRepository(db)
	ctx := context.Background()

	user := createUser(t, db, "ana@example.com")

	found, err := repo.FindByEmail(ctx, "ANA@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, found.ID)

	exists, err := repo.EmailExists(ctx, "ana@example.com")
	require.NoError(t, err)
	assert.True(t, exists)

	_, err = repo.FindByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, repositories.ErrNotFound)

	_, err = repo.FindByID(ctx, uuid.Must(uuid.NewV4()))
	assert.ErrorIs(t, err, repositories.ErrNotFound)
}

func TestUserRepository_EmailIsUnique(t *testing.T) {
	db := setupTestDB(t)
	createUser(t, db, "dup@example.com")

	err := repositories.NewUserRepository(db).Create(context.Background(),
		&models.User{Name: "Other", Email: "dup@example.com", Password: "hash"})
	assert.Error(t, err)
}

func TestCategoryRepository_ListByUserCountsTasks(t *testing.T) {
	db := setupTestDB(t)
	repo := repositories.NewCategoryRepository(db)
	ctx := context.Background()

	owner := createUser(t, db, "owner@example.com")
	other := createUser(t, db, "other@example.com")

	work := &models.Category{UserID: owner.ID, Name: "Work"}
	home := &models.Category{UserID: owner.ID, Name: "Home"}
	foreign := &models.Category{UserID: other.ID, Name: "Foreign"}
	for _, c := range []*models.Category{work, home, foreign} {
		require.NoError(t, repo.Create(ctx, c))
	}

	createTask(t, db, models.Task{UserID: owner.ID, Title: "a", CategoryID: &work.ID})
	createTask(t, db, models.Task{UserID: owner.ID, Title: "b", CategoryID: &work.ID})

	categories, err := repo.ListByUser(ctx, owner.ID)
	require.NoError(t, err)
	require.Len(t, categories, 2)

	assert.Equal(t, "Home", categories[0].Name)
	require.NotNil(t, categories[0].TasksCount)
	assert.Equal(t, int64(0), *categories[0].TasksCount)

	assert.Equal(t, "Work", categories[1].Name)
	require.NotNil(t, categories[1].TasksCount)
	assert.Equal(t, int64(2), *categories[1].TasksCount)

	found, err := repo.FindByID(ctx, work.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), *found.TasksCount)

	owned, err := repo.ExistsForUser(ctx, foreign.ID, owner.ID)
	require.NoError(t, err)
	assert.False(t, owned)
}

func TestCategoryRepository_DeleteDetachesTasks(t *testing.T) {
	db := setupTestDB(t)
	repo := repositories.NewCategoryRepository(db)
	tasks := repositories.NewTaskRepository(db)
	ctx := context.Background()

	owner := createUser(t, db, "owner@example.com")
	category := &models.Category{UserID: owner.ID, Name: "Work"}
	require.NoError(t, repo.Create(ctx, category))

	var ids []uuid.UUID
	for i := 0; i < 3; i++ {
		task := createTask(t, db, models.Task{UserID: owner.ID, Title: fmt.Sprintf("t%d", i), CategoryID: &category.ID})
		ids = append(ids, task.ID)
	}

	require.NoError(t, repo.Delete(ctx, category))

	_, err := repo.FindByID(ctx, category.ID)
	assert.ErrorIs(t, err, repositories.ErrNotFound)

	for _, id := range ids {
		task, err := tasks.FindByID(ctx, id)
		require.NoError(t, err)
		assert.Nil(t, task.CategoryID)
		assert.Nil(t, task.Category)
	}
}

func TestTaskRepository_ListFiltersAndPaginates(t *testing.T) {
	db := setupTestDB(t)
	repo := repositories.NewTaskRepository(db)
	ctx := context.Background()

	owner := createUser(t, db, "owner@example.com")
	other := createUser(t, db, "other@example.com")

	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 12; i++ {
		createTask(t, db, models.Task{
			UserID:    owner.ID,
			Title:     fmt.Sprintf("Report %02d", i),
			Status:    models.StatusPending,
			CreatedAt: base.Add(time.Duration(i) * time.Hour),
		})
	}
	createTask(t, db, models.Task{UserID: owner.ID, Title: "Groceries 100%", Status: models.StatusCompleted, Priority: models.PriorityHigh})
	createTask(t, db, models.Task{UserID: other.ID, Title: "Report other", Status: models.StatusPending})

	page1, total, err := repo.List(ctx, owner.ID, repositories.TaskFilter{Status: models.StatusPending, SortDesc: true, Page: 1, PerPage: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(12), total)
	require.Len(t, page1, 10)
	assert.Equal(t, "Report 11", page1[0].Title)

	page2, _, err := repo.List(ctx, owner.ID, repositories.TaskFilter{Status: models.StatusPending, SortDesc: true, Page: 2, PerPage: 10})
	require.NoError(t, err)
	assert.Len(t, page2, 2)

	for _, task := range append(page1, page2...) {
		assert.Equal(t, owner.ID, task.UserID)
		assert.Equal(t, models.StatusPending, task.Status)
	}

	asc, _, err := repo.List(ctx, owner.ID, repositories.TaskFilter{SortBy: "title", PerPage: 10})
	require.NoError(t, err)
	assert.Equal(t, "Groceries 100%", asc[0].Title)

	found, total, err := repo.List(ctx, owner.ID, repositories.TaskFilter{Search: "groceries", PerPage: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, models.PriorityHigh, found[0].Priority)

	_, total, err = repo.List(ctx, owner.ID, repositories.TaskFilter{Search: "%", PerPage: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total, "wildcards in search are literal")
}

func TestTaskRepository_DashboardQueries(t *testing.T) {
	db := setupTestDB(t)
	repo := repositories.NewTaskRepository(db)
	ctx := context.Background()

	owner := createUser(t, db, "owner@example.com")
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	yesterday := now.Add(-24 * time.Hour)
	in2Days := now.Add(48 * time.Hour)
	in10Days := now.Add(240 * time.Hour)

	createTask(t, db, models.Task{UserID: owner.ID, Title: "overdue", DueDate: &yesterday, Priority: models.PriorityHigh})
	createTask(t, db, models.Task{UserID: owner.ID, Title: "done late", DueDate: &yesterday, Status: models.StatusCompleted})
	createTask(t, db, models.Task{UserID: owner.ID, Title: "soon", DueDate: &in2Days, Status: models.StatusInProgress})
	createTask(t, db, models.Task{UserID: owner.ID, Title: "later", DueDate: &in10Days, Priority: models.PriorityLow})

	total, err := repo.CountByUser(ctx, owner.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(4), total)

	byStatus, err := repo.CountGroupedBy(ctx, owner.ID, "status")
	require.NoError(t, err)
	assert.Equal(t, map[string]int64{"pending": 2, "in_progress": 1, "completed": 1}, byStatus)

	byPriority, err := repo.CountGroupedBy(ctx, owner.ID, "priority")
	require.NoError(t, err)
	assert.Equal(t, map[string]int64{"high": 1, "medium": 2, "low": 1}, byPriority)

	_, err = repo.CountGroupedBy(ctx, owner.ID, "title")
	assert.Error(t, err)

	overdue, err := repo.CountOverdue(ctx, owner.ID, now)
	require.NoError(t, err)
	assert.Equal(t, int64(1), overdue)

	upcoming, err := repo.Upcoming(ctx, owner.ID, now, now.Add(7*24*time.Hour), 5)
	require.NoError(t, err)
	require.Len(t, upcoming, 1)
	assert.Equal(t, "soon", upcoming[0].Title)

	recent, err := repo.Recent(ctx, owner.ID, 3)
	require.NoError(t, err)
	assert.Len(t, recent, 3)
}

func TestTaskRepository_UpdateClearsNullableFields(t *testing.T) {
	db := setupTestDB(t)
	repo := repositories.NewTaskRepository(db)
	ctx := context.Background()

	owner := createUser(t, db, "owner@example.com")
	description := "details"
	task := createTask(t, db, models.Task{UserID: owner.ID, Title: "t", Description: &description})

	require.NoError(t, repo.Update(ctx, task, map[string]interface{}{"description": nil, "status": models.StatusCompleted}))

	reloaded, err := repo.FindByID(ctx, task.ID)
	require.NoError(t, err)
	assert.Nil(t, reloaded.Description)
	assert.Equal(t, models.StatusCompleted, reloaded.Status)

	require.NoError(t, repo.Delete(ctx, task.ID))
	_, err = repo.FindByID(ctx, task.ID)
	assert.ErrorIs(t, err, repositories.ErrNotFound)
}

func TestTokenRepository_RotateRedeemsOnce(t *testing.T) {
	db := setupTestDB(t)
	repo := repositories.NewTokenRepository(db)
	ctx := context.Background()

	owner := createUser(t, db, "owner@example.com")
	first := &models.Token{UserID: owner.ID, RefreshToken: uuid.Must(uuid.NewV4()), ExpiresAt: time.Now().Add(time.Hour)}
	require.NoError(t, repo.Create(ctx, first))

	found, err := repo.FindByRefreshToken(ctx, first.RefreshToken)
	require.NoError(t, err)

	second := &models.Token{UserID: owner.ID, RefreshToken: uuid.Must(uuid.NewV4()), ExpiresAt: time.Now().Add(time.Hour)}
	require.NoError(t, repo.Rotate(ctx, found, second))

	third := &models.Token{UserID: owner.ID, RefreshToken: uuid.Must(uuid.NewV4()), ExpiresAt: time.Now().Add(time.Hour)}
	assert.ErrorIs(t, repo.Rotate(ctx, found, third), repositories.ErrNotFound)

	_, err = repo.FindByRefreshToken(ctx, first.RefreshToken)
	assert.ErrorIs(t, err, repositories.ErrNotFound)

	require.NoError(t, repo.DeleteByUser(ctx, owner.ID))
	_, err = repo.FindByRefreshToken(ctx, second.RefreshToken)
	assert.ErrorIs(t, err, repositories.ErrNotFound)
}

func TestTokenRepository_DeleteExpired(t *testing.T) {
	db := setupTestDB(t)
	repo := repositories.NewTokenRepository(db)
	ctx := context.Background()

	owner := createUser(t, db, "owner@example.com")
	now := time.Now().UTC()
	require.NoError(t, repo.Create(ctx, &models.Token{UserID: owner.ID, RefreshToken: uuid.Must(uuid.NewV4()), ExpiresAt: now.Add(-time.Minute)}))
	require.NoError(t, repo.Create(ctx, &models.Token{UserID: owner.ID, RefreshToken: uuid.Must(uuid.NewV4()), ExpiresAt: now.Add(time.Hour)}))

	removed, err := repo.DeleteExpired(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)
}
