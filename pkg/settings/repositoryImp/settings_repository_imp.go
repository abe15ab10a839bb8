package repositoryImp

import (
	"context"

	"gorm.io/gorm"

	"plantcare/database"
	"plantcare/entities"
	"plantcare/pkg/settings/repository"
)

type settingsRepo struct {
	db *gorm.DB
	tx *database.Transactor
}

func New(db *gorm.DB) repository.SettingsRepository {
	return &settingsRepo{db: db, tx: database.NewTransactor(db)}
}

func (r *settingsRepo) DisabledTypes(ctx context.Context, userID string) ([]string, error) {
	var out []string
	err := database.Conn(ctx, r.db).Model(&entities.TaskTypeSetting{}).
		Where("user_id = ? AND enabled = ?", userID, false).
		Order("task_type ASC").
		Pluck("task_type", &out).Error
	return out, err
}

func (r *settingsRepo) ReplaceDisabled(ctx context.Context, userID string, types []string) error {
	return r.tx.WithinTx(ctx, func(ctx context.Context) error {
		conn := database.Conn(ctx, r.db)
		if err := conn.Where("user_id = ?", userID).Delete(&entities.TaskTypeSetting{}).Error; err != nil {
			return err
		}
		if len(types) == 0 {
			return nil
		}
		rows := make([]entities.TaskTypeSetting, 0, len(types))
		for _, t := range types {
			rows = append(rows, entities.TaskTypeSetting{UserID: userID, TaskType: t, Enabled: false})
		}
		return conn.Create(&rows).Error
	})
}
