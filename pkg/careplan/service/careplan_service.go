package service

import (
	"context"

	"plantcare/entities"
)

// Triggers recorded on each generated plan.
const (
	TriggerRegenerate       = "regenerate"
	TriggerPlantCreated     = "plant_created"
	TriggerSpeciesConfirmed = "species_confirmed"
	TriggerIdentified       = "identified"
	TriggerHealthChanged    = "health_changed"
	TriggerChatAction       = "chat_action"
	TriggerInitial          = "initial"
)

// Generator is the single entry point every plan-producing flow goes through.
type Generator interface {
	Generate(ctx context.Context, plant *entities.Plant, trigger string) (*entities.CarePlan, error)
}

type CarePlanService interface {
	Generator
	// Active returns the active plan with its pending tasks, generating
	// one first when the plant has none.
	Active(ctx context.Context, actor string, plantID uint) (*entities.CarePlan, error)
	Regenerate(ctx context.Context, actor string, plantID uint) (*entities.CarePlan, error)
	Deactivate(ctx context.Context, plantID uint) error
}
