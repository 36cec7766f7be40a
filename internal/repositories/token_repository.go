package repositories

import (
	"context"
	"fmt"
	"time"

	"taskflow/backend/internal/models"

	"github.com/gofrs/uuid"
	"gorm.io/gorm"
)

// TokenRepository stores refresh tokens.
type TokenRepository struct {
	db *gorm.DB
}

func NewTokenRepository(db *gorm.DB) *TokenRepository {
	return &TokenRepository{db: db}
}

func (r *TokenRepository) Create(ctx context.Context, token *models.Token) error {
	if err := r.db.WithContext(ctx).Create(token).Error; err != nil {
		return fmt.Errorf("create token: %w", err)
	}
	return nil
}

func (r *TokenRepository) FindByRefreshToken(ctx context.Context, refreshToken uuid.UUID) (*models.Token, error) {
	var token models.Token
	if err := r.db.WithContext(ctx).Where("refresh_token = ?", refreshToken).First(&token).Error; err != nil {
		return nil, translate(err)
	}
	return &token, nil
}

// Rotate deletes the used token and stores its replacement atomically, so a
// refresh token can be redeemed at most once.
func (r *TokenRepository) Rotate(ctx context.Context, used *models.Token, next *models.Token) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("id = ?", used.ID).Delete(&models.Token{})
		if res.Error != nil {
			return fmt.Errorf("delete used token: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		if err := tx.Create(next).Error; err != nil {
			return fmt.Errorf("create token: %w", err)
		}
		return nil
	})
}

func (r *TokenRepository) DeleteByUser(ctx context.Context, userID uuid.UUID) error {
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&models.Token{}).Error; err != nil {
		return fmt.Errorf("delete user tokens: %w", err)
	}
	return nil
}

func (r *TokenRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Where("expires_at <= ?", now.UTC()).Delete(&models.Token{})
	if res.Error != nil {
		return 0, fmt.Errorf("delete expired tokens: %w", res.Error)
	}
	return res.RowsAffected, nil
}
