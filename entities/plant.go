package entities

import (
	"strings"
	"time"
)

const (
	HealthThriving   = "thriving"
	HealthHealthy    = "healthy"
	HealthStruggling = "struggling"
	HealthCritical   = "critical"
	HealthUnknown    = "unknown"
)

type Plant struct {
	ID                uint               `gorm:"primaryKey" json:"id"`
	UserID            string             `gorm:"index" json:"user_id"`
	Name              string             `json:"name"`
	Species           *string            `json:"species"`
	SpeciesConfidence *float64           `json:"species_confidence"`
	SpeciesConfirmed  bool               `json:"species_confirmed"`
	SpeciesCandidates []SpeciesCandidate `gorm:"serializer:json" json:"species_candidates,omitempty"`
	PotSize           string             `json:"pot_size"`  // small|medium|large|xlarge
	SoilType          string             `json:"soil_type"` // water|rooting|soil|...
	LightCondition    string             `json:"light_condition"`
	Location          string             `json:"location"`
	Notes             string             `json:"notes"`
	HealthStatus      string             `json:"health_status"`
	LastHealthCheck   *time.Time         `json:"last_health_check"`
	IsPropagation     bool               `json:"is_propagation"`
	PropagationDate   *string            `json:"propagation_date"`
	HasGrowLight      bool               `json:"has_grow_light"`
	GrowLightHours    *float64           `json:"grow_light_hours"`
	// nil means rotatable
	CanRotate   *bool      `json:"can_rotate"`
	ArchivedAt  *time.Time `gorm:"index" json:"archived_at"`
	DeathReason string     `json:"death_reason,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type SpeciesCandidate struct {
	Species    string  `json:"species"`
	Confidence float64 `json:"confidence"`
}

func (p *Plant) Rotatable() bool { return p.CanRotate == nil || *p.CanRotate }

// WaterMedium reports whether the plant is rooting in water.
func (p *Plant) WaterMedium() bool {
	return strings.EqualFold(strings.TrimSpace(p.SoilType), "water")
}

func (p *Plant) SpeciesName() string {
	if p.Species == nil {
		return ""
	}
	return strings.TrimSpace(*p.Species)
}

func (p *Plant) Archived() bool { return p.ArchivedAt != nil }

// NeedsAttention is true for the health states that trigger a plan regeneration.
func NeedsAttention(status string) bool {
	return status == HealthStruggling || status == HealthCritical
}

func ValidHealth(status string) bool {
	switch status {
	case HealthThriving, HealthHealthy, HealthStruggling, HealthCritical, HealthUnknown:
		return true
	}
	return false
}
