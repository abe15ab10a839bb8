package repository

import (
	"context"
	"time"

	"plantcare/entities"
)

type CareLogRepository interface {
	Append(ctx context.Context, e *entities.CareLogEntry) error
	// Recent returns the newest entries first.
	Recent(ctx context.Context, plantID uint, limit int) ([]entities.CareLogEntry, error)
	ByActionSince(ctx context.Context, plantID uint, action string, since time.Time) ([]entities.CareLogEntry, error)
}
