package repositoryImp

import (
	"context"
	"encoding/json"
	"time"

	"gorm.io/gorm"

	"plantcare/database"
	"plantcare/entities"
	"plantcare/pkg/task/repository"
)

type taskRepo struct{ db *gorm.DB }

func New(db *gorm.DB) repository.TaskRepository { return &taskRepo{db} }

const pending = "completed_at IS NULL AND skipped_at IS NULL"

func (r *taskRepo) Create(ctx context.Context, t *entities.Task) error {
	return database.Conn(ctx, r.db).Create(t).Error
}

func (r *taskRepo) BulkInsert(ctx context.Context, ts []entities.Task) error {
	if len(ts) == 0 {
		return nil
	}
	return database.Conn(ctx, r.db).Create(&ts).Error
}

func (r *taskRepo) FindByID(ctx context.Context, id uint) (*entities.Task, error) {
	var t entities.Task
	if err := database.Conn(ctx, r.db).First(&t, id).Error; err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *taskRepo) MarkCompleted(ctx context.Context, id uint, at time.Time, by, notes string) (bool, error) {
	res := database.Conn(ctx, r.db).Model(&entities.Task{}).
		Where("id = ? AND "+pending, id).
		Updates(map[string]any{"completed_at": at.UTC(), "completed_by": by, "notes": notes})
	return res.RowsAffected > 0, res.Error
}

func (r *taskRepo) MarkSkipped(ctx context.Context, id uint, at time.Time, reason string) (bool, error) {
	res := database.Conn(ctx, r.db).Model(&entities.Task{}).
		Where("id = ? AND "+pending, id).
		Updates(map[string]any{"skipped_at": at.UTC(), "skip_reason": reason})
	return res.RowsAffected > 0, res.Error
}

func (r *taskRepo) PendingExists(ctx context.Context, plantID uint, taskType, due string) (bool, error) {
	var n int64
	err := database.Conn(ctx, r.db).Model(&entities.Task{}).
		Where("plant_id = ? AND task_type = ? AND due_date = ? AND "+pending, plantID, taskType, due).
		Count(&n).Error
	return n > 0, err
}

func (r *taskRepo) UpdatePendingRecurrence(ctx context.Context, plantID uint, taskType string, rec entities.Recurrence) (int64, error) {
	// map updates bypass the field serializer
	b, err := json.Marshal(rec)
	if err != nil {
		return 0, err
	}
	res := database.Conn(ctx, r.db).Model(&entities.Task{}).
		Where("plant_id = ? AND task_type = ? AND "+pending, plantID, taskType).
		Update("recurrence", string(b))
	return res.RowsAffected, res.Error
}

func (r *taskRepo) DeletePending(ctx context.Context, plantID uint) (int64, error) {
	res := database.Conn(ctx, r.db).Where("plant_id = ? AND "+pending, plantID).Delete(&entities.Task{})
	return res.RowsAffected, res.Error
}

func (r *taskRepo) PendingForPlan(ctx context.Context, planID uint) ([]entities.Task, error) {
	var out []entities.Task
	err := database.Conn(ctx, r.db).
		Where("care_plan_id = ? AND "+pending, planID).
		Order("due_date ASC, id ASC").
		Find(&out).Error
	return out, err
}

func (r *taskRepo) ForPlant(ctx context.Context, plantID uint, limit int) ([]entities.Task, error) {
	var out []entities.Task
	q := database.Conn(ctx, r.db).
		Where("plant_id = ? AND skipped_at IS NULL", plantID).
		Order("CASE WHEN completed_at IS NULL THEN 0 ELSE 1 END, due_date ASC, id ASC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	return out, q.Find(&out).Error
}

func (r *taskRepo) views(ctx context.Context) *gorm.DB {
	return database.Conn(ctx, r.db).Table("tasks").
		Select("tasks.*, plants.name AS plant_name, plants.species AS species").
		Joins("JOIN plants ON plants.id = tasks.plant_id").
		Where("plants.archived_at IS NULL")
}

func (r *taskRepo) Due(ctx context.Context, plantIDs []uint, today string, completedSince time.Time) ([]entities.TaskView, error) {
	if len(plantIDs) == 0 {
		return nil, nil
	}
	var out []entities.TaskView
	err := r.views(ctx).
		Where("tasks.plant_id IN ?", plantIDs).
		Where("tasks.skipped_at IS NULL").
		Where("((tasks.completed_at IS NULL AND tasks.due_date <= ?) OR tasks.completed_at >= ?)", today, completedSince.UTC()).
		Find(&out).Error
	return out, err
}

func (r *taskRepo) Upcoming(ctx context.Context, plantIDs []uint, from, to string) ([]entities.TaskView, error) {
	if len(plantIDs) == 0 {
		return nil, nil
	}
	var out []entities.TaskView
	err := r.views(ctx).
		Where("tasks.plant_id IN ?", plantIDs).
		Where("tasks.completed_at IS NULL AND tasks.skipped_at IS NULL").
		Where("tasks.due_date BETWEEN ? AND ?", from, to).
		Order("tasks.due_date ASC, tasks.id ASC").
		Find(&out).Error
	return out, err
}

func (r *taskRepo) CompletionStats(ctx context.Context, plantID uint) (map[string]int, error) {
	var rows []struct {
		TaskType string
		N        int
	}
	err := database.Conn(ctx, r.db).Model(&entities.Task{}).
		Select("task_type, COUNT(*) AS n").
		Where("plant_id = ? AND completed_at IS NOT NULL", plantID).
		Group("task_type").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make(map[string]int, len(rows))
	for _, r := range rows {
		out[r.TaskType] = r.N
	}
	return out, nil
}
