package repositoryImp

import (
	"context"

	"gorm.io/gorm"

	"plantcare/database"
	"plantcare/entities"
	"plantcare/pkg/careplan/repository"
)

type planRepo struct{ db *gorm.DB }

func New(db *gorm.DB) repository.CarePlanRepository { return &planRepo{db} }

func (r *planRepo) Create(ctx context.Context, p *entities.CarePlan) error {
	return database.Conn(ctx, r.db).Create(p).Error
}

func (r *planRepo) DeactivateAll(ctx context.Context, plantID uint) (int64, error) {
	res := database.Conn(ctx, r.db).Model(&entities.CarePlan{}).
		Where("plant_id = ? AND is_active = ?", plantID, true).
		Update("is_active", false)
	return res.RowsAffected, res.Error
}

func (r *planRepo) Active(ctx context.Context, plantID uint) (*entities.CarePlan, error) {
	var p entities.CarePlan
	err := database.Conn(ctx, r.db).
		Where("plant_id = ? AND is_active = ?", plantID, true).
		Order("id DESC").
		First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *planRepo) History(ctx context.Context, plantID uint) ([]entities.CarePlan, error) {
	var ps []entities.CarePlan
	err := database.Conn(ctx, r.db).Where("plant_id = ?", plantID).Order("id ASC").Find(&ps).Error
	return ps, err
}
