package models

import (
	"time"

	"github.com/gofrs/uuid"
	"gorm.io/gorm"
)

type Category struct {
	ID        uuid.UUID `json:"id" gorm:"primaryKey;type:uuid"`
	UserID    uuid.UUID `json:"user_id" gorm:"type:uuid;not null;index"`
	Name      string    `json:"name" gorm:"size:255;not null"`
	Color     *string   `json:"color" gorm:"size:7"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// TasksCount is derived by a COUNT sub-select on read and never stored.
	TasksCount *int64 `json:"tasks_count,omitempty" gorm:"->;-:migration"`
}

func (c *Category) BeforeCreate(tx *gorm.DB) error {
	return assignID(&c.ID)
}

func (c *Category) OwnerID() uuid.UUID {
	return c.UserID
}
