package repository

import (
	"context"
	"time"

	"plantcare/entities"
)

type PlantRepository interface {
	Create(ctx context.Context, p *entities.Plant) error
	FindByID(ctx context.Context, id uint) (*entities.Plant, error)
	// UpdateLive writes only the named fields of p and reports false when
	// the plant has been archived in the meantime.
	UpdateLive(ctx context.Context, p *entities.Plant, fields ...string) (bool, error)
	// MarkArchived reports false when the plant was already archived.
	MarkArchived(ctx context.Context, id uint, at time.Time, reason string) (bool, error)
}
