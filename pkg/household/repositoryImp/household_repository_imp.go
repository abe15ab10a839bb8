package repositoryImp

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"plantcare/database"
	"plantcare/entities"
	"plantcare/pkg/household/repository"
)

type householdRepo struct{ db *gorm.DB }

func New(db *gorm.DB) repository.HouseholdRepository { return &householdRepo{db} }

const sharedWithUser = `SELECT hp.plant_id FROM household_plants hp
JOIN household_members hm ON hm.household_id = hp.household_id
WHERE hm.user_id = ?`

func (r *householdRepo) Create(ctx context.Context, h *entities.Household) error {
	return database.Conn(ctx, r.db).Create(h).Error
}

func (r *householdRepo) FindByID(ctx context.Context, id uint) (*entities.Household, error) {
	var h entities.Household
	if err := database.Conn(ctx, r.db).First(&h, id).Error; err != nil {
		return nil, err
	}
	return &h, nil
}

// AddMember is a no-op when the user already belongs to the household.
func (r *householdRepo) AddMember(ctx context.Context, m *entities.HouseholdMember) error {
	return database.Conn(ctx, r.db).Clauses(clause.OnConflict{DoNothing: true}).Create(m).Error
}

func (r *householdRepo) IsMember(ctx context.Context, householdID uint, userID string) (bool, error) {
	var n int64
	err := database.Conn(ctx, r.db).Model(&entities.HouseholdMember{}).
		Where("household_id = ? AND user_id = ?", householdID, userID).Count(&n).Error
	return n > 0, err
}

func (r *householdRepo) SharePlant(ctx context.Context, hp *entities.HouseholdPlant) error {
	return database.Conn(ctx, r.db).Clauses(clause.OnConflict{DoNothing: true}).Create(hp).Error
}

func (r *householdRepo) CanAccess(ctx context.Context, userID string, plantID uint) (bool, error) {
	var n int64
	err := database.Conn(ctx, r.db).Model(&entities.Plant{}).
		Where("id = ?", plantID).
		Where("(user_id = ? OR id IN ("+sharedWithUser+"))", userID, userID).
		Count(&n).Error
	return n > 0, err
}

func (r *householdRepo) AccessiblePlantIDs(ctx context.Context, userID string) ([]uint, error) {
	var ids []uint
	err := database.Conn(ctx, r.db).Model(&entities.Plant{}).
		Where("archived_at IS NULL").
		Where("(user_id = ? OR id IN ("+sharedWithUser+"))", userID, userID).
		Order("id ASC").
		Pluck("id", &ids).Error
	return ids, err
}
