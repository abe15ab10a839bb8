package service

import "context"

type TaskTypeState struct {
	TaskType string `json:"task_type"`
	Enabled  bool   `json:"enabled"`
}

type SettingsService interface {
	// TaskTypes lists the built-in types plus any custom disabled ones.
	TaskTypes(ctx context.Context, userID string) ([]TaskTypeState, error)
	SetDisabled(ctx context.Context, userID string, types []string) ([]TaskTypeState, error)
	DisabledSet(ctx context.Context, userID string) (map[string]bool, error)
}
