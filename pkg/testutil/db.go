// Package testutil holds shared fixtures for package tests.
package testutil

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"plantcare/database"
	"plantcare/entities"
)

// OpenDB returns a migrated, private in-memory database.
func OpenDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := database.Open(dsn)
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

// FixedClock returns a now func pinned to the given date at 09:00 UTC.
func FixedClock(date string) func() time.Time {
	d, err := time.Parse(entities.DateLayout, date)
	if err != nil {
		panic(err)
	}
	d = d.Add(9 * time.Hour)
	return func() time.Time { return d }
}

// SeedPlant inserts a plant owned by userID with sensible defaults.
func SeedPlant(t *testing.T, db *gorm.DB, userID string, mod ...func(*entities.Plant)) *entities.Plant {
	t.Helper()
	p := &entities.Plant{
		UserID:         userID,
		Name:           "Monty",
		PotSize:        "medium",
		SoilType:       "soil",
		LightCondition: "bright indirect",
		HealthStatus:   entities.HealthHealthy,
	}
	for _, m := range mod {
		m(p)
	}
	require.NoError(t, db.Create(p).Error)
	return p
}

// SeedTask inserts a pending task for plant due on the given date.
func SeedTask(t *testing.T, db *gorm.DB, plantID uint, taskType, due string, rec *entities.Recurrence) *entities.Task {
	t.Helper()
	task := &entities.Task{
		PlantID:    plantID,
		TaskType:   taskType,
		DueDate:    due,
		Recurrence: rec,
		Priority:   entities.PriorityNormal,
	}
	require.NoError(t, db.Create(task).Error)
	return task
}

func Str(s string) *string { return &s }
