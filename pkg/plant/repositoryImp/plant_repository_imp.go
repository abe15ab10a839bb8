package repositoryImp

import (
	"context"
	"time"

	"gorm.io/gorm"

	"plantcare/database"
	"plantcare/entities"
	"plantcare/pkg/plant/repository"
)

type plantRepo struct{ db *gorm.DB }

func New(db *gorm.DB) repository.PlantRepository { return &plantRepo{db} }

func (r *plantRepo) Create(ctx context.Context, p *entities.Plant) error {
	return database.Conn(ctx, r.db).Create(p).Error
}

func (r *plantRepo) FindByID(ctx context.Context, id uint) (*entities.Plant, error) {
	var p entities.Plant
	if err := database.Conn(ctx, r.db).First(&p, id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *plantRepo) UpdateLive(ctx context.Context, p *entities.Plant, fields ...string) (bool, error) {
	cols := append([]string{"UpdatedAt"}, fields...)
	res := database.Conn(ctx, r.db).Model(p).
		Where("archived_at IS NULL").
		Select(cols).
		Updates(p)
	return res.RowsAffected > 0, res.Error
}

func (r *plantRepo) MarkArchived(ctx context.Context, id uint, at time.Time, reason string) (bool, error) {
	res := database.Conn(ctx, r.db).Model(&entities.Plant{}).
		Where("id = ? AND archived_at IS NULL", id).
		Updates(map[string]any{"archived_at": at.UTC(), "death_reason": reason})
	return res.RowsAffected > 0, res.Error
}
