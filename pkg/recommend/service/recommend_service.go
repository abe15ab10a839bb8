package service

import (
	"context"

	"plantcare/entities"
	"plantcare/pkg/season"
)

type Recommendation struct {
	Summary  string   `json:"summary"`
	Steps    []string `json:"steps"`
	Amount   string   `json:"amount"`
	Timing   string   `json:"timing"`
	Warnings []string `json:"warnings"`
	Tips     []string `json:"tips"`
	Source   string   `json:"source"` // ai|fallback
}

// Input is everything a recommendation may draw on for one task.
type Input struct {
	Task          entities.Task
	Plant         entities.Plant
	Plan          *entities.CarePlan
	CareHistory   []entities.CareLogEntry
	HealthHistory []entities.CareLogEntry
	Season        season.Context
}

type Result struct {
	Recommendation *Recommendation `json:"recommendations"`
	Task           entities.Task   `json:"task"`
	Season         season.Context  `json:"season"`
}

type Recommender interface {
	// Recommend never fails; provider problems yield the rule-based answer.
	Recommend(ctx context.Context, in Input) *Recommendation
}

type RecommendService interface {
	Recommender
	ForTask(ctx context.Context, actor string, taskID uint) (*Result, error)
}
