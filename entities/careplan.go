package entities

import (
	"time"

	"gorm.io/datatypes"
)

const (
	SourceAI       = "ai"
	SourceFallback = "fallback"
)

// CarePlan rows are never deleted; regeneration flips IsActive off on the old row.
type CarePlan struct {
	ID               uint   `gorm:"primaryKey" json:"id"`
	PlantID          uint   `gorm:"index" json:"plant_id"`
	Season           string `json:"season"` // spring|summer|fall|winter
	AIReasoning      string `json:"ai_reasoning"`
	NextPhotoCheck   string `json:"next_photo_check"` // YYYY-MM-DD
	PhotoCheckReason string `json:"photo_check_reason"`
	IsActive         bool   `gorm:"index" json:"is_active"`
	Source           string `json:"source"`
	Trigger          string `json:"trigger"`
	// raw draft as proposed, before filters
	DraftJSON datatypes.JSON `json:"draft,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`

	Tasks []Task `gorm:"-" json:"tasks,omitempty"`
}

// AIUsage records each AI-backed operation, successful or not.
type AIUsage struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    string    `gorm:"index" json:"user_id"`
	PlantID   *uint     `json:"plant_id"`
	Operation string    `json:"operation"` // care_plan|chat|identify|health|recommend|adjust
	Provider  string    `json:"provider"`
	Model     string    `json:"model"`
	Success   bool      `json:"success"`
	Error     string    `json:"error,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func (AIUsage) TableName() string { return "ai_usage" }
