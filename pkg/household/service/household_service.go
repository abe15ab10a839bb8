package service

import (
	"context"

	"plantcare/entities"
)

type HouseholdService interface {
	Create(ctx context.Context, userID, name string) (*entities.Household, error)
	AddMember(ctx context.Context, actor string, householdID uint, memberID string) (*entities.HouseholdMember, error)
	SharePlant(ctx context.Context, actor string, householdID, plantID uint) (*entities.HouseholdPlant, error)
	CanAccess(ctx context.Context, userID string, plantID uint) (bool, error)
	AccessiblePlantIDs(ctx context.Context, userID string) ([]uint, error)
}
