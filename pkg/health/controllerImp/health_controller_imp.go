package controllerImp

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

var started = time.Now()

type check struct {
	OK     bool           `json:"ok"`
	Err    string         `json:"err,omitempty"`
	Detail map[string]any `json:"detail,omitempty"`
}

type HealthCtrl struct {
	db         *gorm.DB
	aiProvider string
	species    int
}

// NewHealthCtrl reports the database plus the configured AI provider and
// species catalog size. Only the database decides the status code; without
// a provider every AI feature runs on its fallback.
func NewHealthCtrl(db *gorm.DB, aiProvider string, speciesProfiles int) *HealthCtrl {
	return &HealthCtrl{db: db, aiProvider: aiProvider, species: speciesProfiles}
}

func (h *HealthCtrl) database(ctx context.Context) check {
	if h.db == nil {
		return check{Err: "no database"}
	}
	sqlDB, err := h.db.DB()
	if err != nil {
		return check{Err: err.Error()}
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return check{Err: "ping: " + err.Error()}
	}
	var plants int64
	if err := h.db.WithContext(ctx).Table("plants").Where("archived_at IS NULL").Count(&plants).Error; err != nil {
		return check{Err: "plants: " + err.Error()}
	}
	return check{OK: true, Detail: map[string]any{"open_connections": sqlDB.Stats().OpenConnections, "live_plants": plants}}
}

func (h *HealthCtrl) Health(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 800*time.Millisecond)
	defer cancel()

	db := h.database(ctx)
	checks := map[string]check{
		"database": db,
		"ai":       {OK: true, Detail: map[string]any{"provider": h.aiProvider, "fallback_only": h.aiProvider == "none"}},
		"species":  {OK: h.species > 0, Detail: map[string]any{"profiles": h.species}},
	}
	status := http.StatusOK
	if !db.OK {
		status = http.StatusServiceUnavailable
	}
	return c.JSON(status, map[string]any{
		"ok":         db.OK,
		"uptime_sec": int(time.Since(started).Seconds()),
		"checks":     checks,
		"time":       time.Now().UTC().Format(time.RFC3339),
	})
}
