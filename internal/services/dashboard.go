package services

import (
	"context"
	"math"
	"time"

	"taskflow/backend/internal/models"

	"github.com/gofrs/uuid"
)

const (
	upcomingWindow = 7 * 24 * time.Hour
	dashboardLimit = 5
)

type PriorityCounts struct {
	Low    int64 `json:"low"`
	Medium int64 `json:"medium"`
	High   int64 `json:"high"`
}

type Dashboard struct {
	TotalTasks      int64          `json:"total_tasks"`
	PendingTasks    int64          `json:"pending_tasks"`
	InProgressTasks int64          `json:"in_progress_tasks"`
	CompletedTasks  int64          `json:"completed_tasks"`
	TasksByPriority PriorityCounts `json:"tasks_by_priority"`
	OverdueTasks    int64          `json:"overdue_tasks"`
	UpcomingTasks   []models.Task  `json:"upcoming_tasks"`
	RecentTasks     []models.Task  `json:"recent_tasks"`
	CompletionRate  float64        `json:"completion_rate"`
}

type DashboardService interface {
	GetDashboard(ctx context.Context, userID uuid.UUID) (*Dashboard, error)
}

// DashboardServiceImpl recomputes every figure from the store on each call.
type DashboardServiceImpl struct {
	tasks TaskStore
	now   func() time.Time
}

func NewDashboardService(tasks TaskStore) *DashboardServiceImpl {
	return &DashboardServiceImpl{tasks: tasks, now: time.Now}
}

// WithClock replaces the time source used for overdue and upcoming windows.
func (s *DashboardServiceImpl) WithClock(now func() time.Time) *DashboardServiceImpl {
	s.now = now
	return s
}

func (s *DashboardServiceImpl) GetDashboard(ctx context.Context, userID uuid.UUID) (*Dashboard, error) {
	now := s.now().UTC()

	total, err := s.tasks.CountByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	byStatus, err := s.tasks.CountGroupedBy(ctx, userID, "status")
	if err != nil {
		return nil, err
	}

	byPriority, err := s.tasks.CountGroupedBy(ctx, userID, "priority")
	if err != nil {
		return nil, err
	}

	overdue, err := s.tasks.CountOverdue(ctx, userID, now)
	if err != nil {
		return nil, err
	}

	upcoming, err := s.tasks.Upcoming(ctx, userID, now, now.Add(upcomingWindow), dashboardLimit)
	if err != nil {
		return nil, err
	}

	recent, err := s.tasks.Recent(ctx, userID, dashboardLimit)
	if err != nil {
		return nil, err
	}

	return &Dashboard{
		TotalTasks:      total,
		PendingTasks:    byStatus[models.StatusPending],
		InProgressTasks: byStatus[models.StatusInProgress],
		CompletedTasks:  byStatus[models.StatusCompleted],
		TasksByPriority: PriorityCounts{
			Low:    byPriority[models.PriorityLow],
			Medium: byPriority[models.PriorityMedium],
			High:   byPriority[models.PriorityHigh],
		},
		OverdueTasks:   overdue,
		UpcomingTasks:  upcoming,
		RecentTasks:    recent,
		CompletionRate: CompletionRate(byStatus[models.StatusCompleted], total),
	}, nil
}

// CompletionRate is completed/total as a percentage rounded to one decimal,
// and 0 for an empty task list.
func CompletionRate(completed, total int64) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(float64(completed)/float64(total)*1000) / 10
}
