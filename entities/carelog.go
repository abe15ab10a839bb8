package entities

import "time"

const (
	OutcomePositive = "positive"
	OutcomeNeutral  = "neutral"
	OutcomeNegative = "negative"
)

// CareLogEntry is append-only.
type CareLogEntry struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	PlantID     uint      `gorm:"index" json:"plant_id"`
	TaskID      *uint     `json:"task_id"`
	Action      string    `gorm:"index" json:"action"`
	Notes       string    `json:"notes"`
	Outcome     string    `json:"outcome"`
	PerformedBy string    `json:"performed_by"`
	PerformedAt time.Time `gorm:"index" json:"performed_at"`
}

func (CareLogEntry) TableName() string { return "care_logs" }

// SkipHistory summarises recent skips of one task type.
type SkipHistory struct {
	Count   int      `json:"count"`
	Reasons []string `json:"reasons"`
}
