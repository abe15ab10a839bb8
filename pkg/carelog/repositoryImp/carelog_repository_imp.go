package repositoryImp

import (
	"context"
	"time"

	"gorm.io/gorm"

	"plantcare/database"
	"plantcare/entities"
	"plantcare/pkg/carelog/repository"
)

type careLogRepo struct{ db *gorm.DB }

func New(db *gorm.DB) repository.CareLogRepository { return &careLogRepo{db} }

func (r *careLogRepo) Append(ctx context.Context, e *entities.CareLogEntry) error {
	if e.PerformedAt.IsZero() {
		e.PerformedAt = time.Now()
	}
	e.PerformedAt = e.PerformedAt.UTC()
	return database.Conn(ctx, r.db).Create(e).Error
}

func (r *careLogRepo) Recent(ctx context.Context, plantID uint, limit int) ([]entities.CareLogEntry, error) {
	var out []entities.CareLogEntry
	q := database.Conn(ctx, r.db).Where("plant_id = ?", plantID).Order("performed_at DESC, id DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	return out, q.Find(&out).Error
}

func (r *careLogRepo) ByActionSince(ctx context.Context, plantID uint, action string, since time.Time) ([]entities.CareLogEntry, error) {
	var out []entities.CareLogEntry
	err := database.Conn(ctx, r.db).
		Where("plant_id = ? AND action = ? AND performed_at > ?", plantID, action, since.UTC()).
		Order("performed_at DESC, id DESC").
		Find(&out).Error
	return out, err
}
