package repository

import (
	"context"
	"time"

	"plantcare/entities"
)

type TaskRepository interface {
	Create(ctx context.Context, t *entities.Task) error
	BulkInsert(ctx context.Context, ts []entities.Task) error
	FindByID(ctx context.Context, id uint) (*entities.Task, error)

	// MarkCompleted and MarkSkipped only touch pending rows and report
	// whether the row changed.
	MarkCompleted(ctx context.Context, id uint, at time.Time, by, notes string) (bool, error)
	MarkSkipped(ctx context.Context, id uint, at time.Time, reason string) (bool, error)

	PendingExists(ctx context.Context, plantID uint, taskType, due string) (bool, error)
	UpdatePendingRecurrence(ctx context.Context, plantID uint, taskType string, rec entities.Recurrence) (int64, error)
	DeletePending(ctx context.Context, plantID uint) (int64, error)

	PendingForPlan(ctx context.Context, planID uint) ([]entities.Task, error)
	ForPlant(ctx context.Context, plantID uint, limit int) ([]entities.Task, error)
	// Due lists pending tasks due on or before today plus tasks completed since completedSince.
	Due(ctx context.Context, plantIDs []uint, today string, completedSince time.Time) ([]entities.TaskView, error)
	Upcoming(ctx context.Context, plantIDs []uint, from, to string) ([]entities.TaskView, error)
	CompletionStats(ctx context.Context, plantID uint) (map[string]int, error)
}
