package repository

import (
	"context"

	"plantcare/entities"
)

type HouseholdRepository interface {
	Create(ctx context.Context, h *entities.Household) error
	FindByID(ctx context.Context, id uint) (*entities.Household, error)
	AddMember(ctx context.Context, m *entities.HouseholdMember) error
	IsMember(ctx context.Context, householdID uint, userID string) (bool, error)
	SharePlant(ctx context.Context, hp *entities.HouseholdPlant) error
	// CanAccess is true for the plant owner and for members of any
	// household the plant is shared into.
	CanAccess(ctx context.Context, userID string, plantID uint) (bool, error)
	// AccessiblePlantIDs lists non-archived plants visible to userID.
	AccessiblePlantIDs(ctx context.Context, userID string) ([]uint, error)
}
