package serviceImp

import (
	"context"
	"fmt"
	"sort"
	"time"

	"plantcare/entities"
	"plantcare/pkg/apperr"
)

const (
	defaultUpcomingDays = 7
	maxUpcomingDays     = 90
	plantTaskLimit      = 20
)

func withStatus(vs []entities.TaskView) []entities.TaskView {
	for i := range vs {
		vs[i].Status = vs[i].Task.Status()
	}
	return vs
}

// Today lists overdue and due-today pending tasks plus anything completed
// today, pending first, then by priority and due date.
func (s *TaskSvc) Today(ctx context.Context, actor string) ([]entities.TaskView, error) {
	ids, err := s.access.AccessiblePlantIDs(ctx, actor)
	if err != nil {
		return nil, fmt.Errorf("accessible plants: %w", err)
	}
	now := s.now()
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	rows, err := s.tasks.Due(ctx, ids, now.Format(entities.DateLayout), start)
	if err != nil {
		return nil, fmt.Errorf("due tasks: %w", err)
	}
	rows = withStatus(rows)
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if a.Pending() != b.Pending() {
			return a.Pending()
		}
		if ra, rb := entities.PriorityRank(a.Priority), entities.PriorityRank(b.Priority); ra != rb {
			return ra < rb
		}
		if a.DueDate != b.DueDate {
			return a.DueDate < b.DueDate
		}
		return a.ID < b.ID
	})
	return rows, nil
}

func (s *TaskSvc) Upcoming(ctx context.Context, actor string, days int) ([]entities.TaskView, error) {
	if days <= 0 {
		days = defaultUpcomingDays
	}
	if days > maxUpcomingDays {
		days = maxUpcomingDays
	}
	ids, err := s.access.AccessiblePlantIDs(ctx, actor)
	if err != nil {
		return nil, fmt.Errorf("accessible plants: %w", err)
	}
	now := s.now()
	rows, err := s.tasks.Upcoming(ctx, ids, now.Format(entities.DateLayout), now.AddDate(0, 0, days).Format(entities.DateLayout))
	if err != nil {
		return nil, fmt.Errorf("upcoming tasks: %w", err)
	}
	rows = withStatus(rows)
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if a.DueDate != b.DueDate {
			return a.DueDate < b.DueDate
		}
		return entities.PriorityRank(a.Priority) < entities.PriorityRank(b.Priority)
	})
	return rows, nil
}

func (s *TaskSvc) ForPlant(ctx context.Context, actor string, plantID uint) ([]entities.Task, error) {
	ok, err := s.access.CanAccess(ctx, actor, plantID)
	if err != nil {
		return nil, fmt.Errorf("check access: %w", err)
	}
	if !ok {
		return nil, apperr.NotFoundf("plant not found")
	}
	return s.tasks.ForPlant(ctx, plantID, plantTaskLimit)
}
