package service

import (
	"context"

	"plantcare/entities"
)

type NewEntry struct {
	Action  string `json:"action"`
	Notes   string `json:"notes"`
	Outcome string `json:"outcome"`
}

type CareLogService interface {
	List(ctx context.Context, actor string, plantID uint) ([]entities.CareLogEntry, error)
	// Add records a free-form entry that is not tied to a task.
	Add(ctx context.Context, actor string, plantID uint, in NewEntry) (*entities.CareLogEntry, error)
	SkipHistory(ctx context.Context, plantID uint, taskType string) (entities.SkipHistory, error)
}
