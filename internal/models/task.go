package models

import (
	"time"

	"github.com/gofrs/uuid"
	"gorm.io/gorm"
)

const (
	StatusPending    = "pending"
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"

	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

var (
	TaskStatuses   = []string{StatusPending, StatusInProgress, StatusCompleted}
	TaskPriorities = []string{PriorityLow, PriorityMedium, PriorityHigh}
)

type Task struct {
	ID          uuid.UUID  `json:"id" gorm:"primaryKey;type:uuid"`
	UserID      uuid.UUID  `json:"user_id" gorm:"type:uuid;not null;index"`
	CategoryID  *uuid.UUID `json:"category_id" gorm:"type:uuid;index"`
	Title       string     `json:"title" gorm:"size:255;not null"`
	Description *string    `json:"description" gorm:"type:text"`
	Status      string     `json:"status" gorm:"size:20;not null;default:'pending';index"`
	Priority    string     `json:"priority" gorm:"size:10;not null;default:'medium'"`
	DueDate     *time.Time `json:"due_date" gorm:"index"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`

	Category *Category `json:"category" gorm:"foreignKey:CategoryID;constraint:OnDelete:SET NULL"`
}

func (t *Task) BeforeCreate(tx *gorm.DB) error {
	if t.Status == "" {
		t.Status = StatusPending
	}
	if t.Priority == "" {
		t.Priority = PriorityMedium
	}
	return assignID(&t.ID)
}

func (t *Task) OwnerID() uuid.UUID {
	return t.UserID
}

// IsOverdue reports whether the task is unfinished and past its due date.
func (t *Task) IsOverdue(now time.Time) bool {
	return t.DueDate != nil && t.DueDate.Before(now) && t.Status != StatusCompleted
}

func IsValidStatus(status string) bool {
	return contains(TaskStatuses, status)
}

func IsValidPriority(priority string) bool {
	return contains(TaskPriorities, priority)
}

func contains(values []string, v string) bool {
	for _, candidate := range values {
		if candidate == v {
			return true
		}
	}
	return false
}
