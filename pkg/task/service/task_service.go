package service

import (
	"context"

	"plantcare/entities"
)

// Adjustment is a suggested interval change; producing one never mutates state.
type Adjustment struct {
	TaskType        string `json:"task_type"`
	CurrentInterval int    `json:"current_interval"`
	NewInterval     int    `json:"new_interval"`
	ShouldAdjust    bool   `json:"should_adjust"`
	Suggestion      string `json:"suggestion"`
	Rationale       string `json:"rationale,omitempty"`
	Source          string `json:"source"` // ai|fallback
}

type AdjustInput struct {
	Plant    entities.Plant
	TaskType string
	Current  int
	Reason   string
	History  entities.SkipHistory
}

// Resolution is a resolved task and the occurrence it spawned, if any.
type Resolution struct {
	Task *entities.Task `json:"task"`
	Next *entities.Task `json:"next_task,omitempty"`
}

type BulkFailure struct {
	ID    uint   `json:"id"`
	Error string `json:"error"`
}

type BulkResult struct {
	Succeeded []uint        `json:"succeeded"`
	Failed    []BulkFailure `json:"failed"`
}

type Scheduler interface {
	// ComputeNextOccurrence returns nil when the task is one-shot or the
	// next pending occurrence already exists.
	ComputeNextOccurrence(ctx context.Context, t *entities.Task) (*entities.Task, error)
	AdjustInterval(ctx context.Context, in AdjustInput) (*Adjustment, error)
	ApplyAdjustment(ctx context.Context, actor string, t *entities.Task, newInterval int, reason string) (*Resolution, error)
}

type TaskService interface {
	Scheduler

	Complete(ctx context.Context, actor string, taskID uint, notes string) (*Resolution, error)
	Skip(ctx context.Context, actor string, taskID uint, reason string) (*Resolution, error)
	BulkComplete(ctx context.Context, actor string, ids []uint, notes string) (*BulkResult, error)

	SuggestAdjustment(ctx context.Context, actor string, taskID uint, reason string) (*Adjustment, error)
	ApplyScheduleChange(ctx context.Context, actor string, taskID uint, newInterval int, reason string) (*Resolution, error)

	Today(ctx context.Context, actor string) ([]entities.TaskView, error)
	Upcoming(ctx context.Context, actor string, days int) ([]entities.TaskView, error)
	ForPlant(ctx context.Context, actor string, plantID uint) ([]entities.Task, error)
}
