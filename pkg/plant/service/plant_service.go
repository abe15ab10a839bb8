package service

import (
	"context"

	"plantcare/entities"
	"plantcare/pkg/ai"
)

type NewPlant struct {
	Name            string   `json:"name"`
	Species         string   `json:"species"`
	PotSize         string   `json:"pot_size"`
	SoilType        string   `json:"soil_type"`
	LightCondition  string   `json:"light_condition"`
	Location        string   `json:"location"`
	Notes           string   `json:"notes"`
	IsPropagation   bool     `json:"is_propagation"`
	PropagationDate *string  `json:"propagation_date"`
	HasGrowLight    bool     `json:"has_grow_light"`
	GrowLightHours  *float64 `json:"grow_light_hours"`
	CanRotate       *bool    `json:"can_rotate"`
}

// PlantPatch is a partial update; nil fields are left untouched.
type PlantPatch struct {
	Name            *string  `json:"name"`
	Species         *string  `json:"species"`
	PotSize         *string  `json:"pot_size"`
	SoilType        *string  `json:"soil_type"`
	LightCondition  *string  `json:"light_condition"`
	Location        *string  `json:"location"`
	Notes           *string  `json:"notes"`
	HealthStatus    *string  `json:"health_status"`
	IsPropagation   *bool    `json:"is_propagation"`
	PropagationDate *string  `json:"propagation_date"`
	HasGrowLight    *bool    `json:"has_grow_light"`
	GrowLightHours  *float64 `json:"grow_light_hours"`
	CanRotate       *bool    `json:"can_rotate"`
}

func (p PlantPatch) Empty() bool {
	return p.Name == nil && p.Species == nil && p.PotSize == nil && p.SoilType == nil &&
		p.LightCondition == nil && p.Location == nil && p.Notes == nil && p.HealthStatus == nil &&
		p.IsPropagation == nil && p.PropagationDate == nil && p.HasGrowLight == nil &&
		p.GrowLightHours == nil && p.CanRotate == nil
}

// Apply copies every set field except HealthStatus, which goes through the
// health transition rule.
func (p PlantPatch) Apply(pl *entities.Plant) {
	set := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	set(&pl.Name, p.Name)
	set(&pl.PotSize, p.PotSize)
	set(&pl.SoilType, p.SoilType)
	set(&pl.LightCondition, p.LightCondition)
	set(&pl.Location, p.Location)
	set(&pl.Notes, p.Notes)
	if p.Species != nil {
		s := *p.Species
		pl.Species = &s
	}
	if p.IsPropagation != nil {
		pl.IsPropagation = *p.IsPropagation
	}
	if p.PropagationDate != nil {
		pl.PropagationDate = p.PropagationDate
	}
	if p.HasGrowLight != nil {
		pl.HasGrowLight = *p.HasGrowLight
	}
	if p.GrowLightHours != nil {
		pl.GrowLightHours = p.GrowLightHours
	}
	if p.CanRotate != nil {
		pl.CanRotate = p.CanRotate
	}
}

// Fields names the Plant fields Apply touches.
func (p PlantPatch) Fields() []string {
	var out []string
	add := func(set bool, name string) {
		if set {
			out = append(out, name)
		}
	}
	add(p.Name != nil, "Name")
	add(p.Species != nil, "Species")
	add(p.PotSize != nil, "PotSize")
	add(p.SoilType != nil, "SoilType")
	add(p.LightCondition != nil, "LightCondition")
	add(p.Location != nil, "Location")
	add(p.Notes != nil, "Notes")
	add(p.IsPropagation != nil, "IsPropagation")
	add(p.PropagationDate != nil, "PropagationDate")
	add(p.HasGrowLight != nil, "HasGrowLight")
	add(p.GrowLightHours != nil, "GrowLightHours")
	add(p.CanRotate != nil, "CanRotate")
	return out
}

type PlantService interface {
	Create(ctx context.Context, actor string, in NewPlant) (*entities.Plant, error)
	Get(ctx context.Context, actor string, id uint) (*entities.Plant, error)
	Update(ctx context.Context, actor string, id uint, patch PlantPatch) (*entities.Plant, error)
	Archive(ctx context.Context, actor string, id uint, reason string) (*entities.Plant, error)
	ConfirmSpecies(ctx context.Context, actor string, id uint, species string) (*entities.Plant, error)
	// SetSpecies records a species suggested by the assistant at full confidence.
	SetSpecies(ctx context.Context, actor string, id uint, species string) (*entities.Plant, error)
	AppendNotes(ctx context.Context, actor string, id uint, notes string) (*entities.Plant, error)
	SetHealth(ctx context.Context, actor string, id uint, status, note string) (*entities.Plant, error)
	Identify(ctx context.Context, actor string, id uint, img ai.Image) (*ai.Identification, error)
	HealthCheck(ctx context.Context, actor string, id uint, img ai.Image) (*ai.HealthAnalysis, error)
}
