package repository

import (
	"context"

	"plantcare/entities"
)

type CarePlanRepository interface {
	Create(ctx context.Context, p *entities.CarePlan) error
	DeactivateAll(ctx context.Context, plantID uint) (int64, error)
	Active(ctx context.Context, plantID uint) (*entities.CarePlan, error)
	History(ctx context.Context, plantID uint) ([]entities.CarePlan, error)
}
