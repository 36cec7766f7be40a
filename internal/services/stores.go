package services

import (
	"context"
	"time"

	"taskflow/backend/internal/models"
	"taskflow/backend/internal/repositories"

	"github.com/gofrs/uuid"
)

// Storage contracts the services depend on. The gorm repositories in
// internal/repositories satisfy them.

type TaskStore interface {
	Create(ctx context.Context, task *models.Task) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Task, error)
	List(ctx context.Context, userID uuid.UUID, filter repositories.TaskFilter) ([]models.Task, int64, error)
	Update(ctx context.Context, task *models.Task, fields map[string]interface{}) error
	Delete(ctx context.Context, id uuid.UUID) error

	CountByUser(ctx context.Context, userID uuid.UUID) (int64, error)
	CountGroupedBy(ctx context.Context, userID uuid.UUID, column string) (map[string]int64, error)
	CountOverdue(ctx context.Context, userID uuid.UUID, now time.Time) (int64, error)
	Upcoming(ctx context.Context, userID uuid.UUID, from, to time.Time, limit int) ([]models.Task, error)
	Recent(ctx context.Context, userID uuid.UUID, limit int) ([]models.Task, error)
}

type CategoryStore interface {
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Category, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Category, error)
	ExistsForUser(ctx context.Context, id, userID uuid.UUID) (bool, error)
	Create(ctx context.Context, category *models.Category) error
	Update(ctx context.Context, category *models.Category, fields map[string]interface{}) error
	Delete(ctx context.Context, category *models.Category) error
}

type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	EmailExists(ctx context.Context, email string) (bool, error)
}

type TokenStore interface {
	Create(ctx context.Context, token *models.Token) error
	FindByRefreshToken(ctx context.Context, refreshToken uuid.UUID) (*models.Token, error)
	Rotate(ctx context.Context, used *models.Token, next *models.Token) error
	DeleteByUser(ctx context.Context, userID uuid.UUID) error
}

// TokenRevoker remembers revoked access token ids until they expire.
type TokenRevoker interface {
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}
