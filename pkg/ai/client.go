// pkg/ai/client.go

package ai

import (
	"context"
	"errors"

	"plantcare/entities"
	"plantcare/pkg/apperr"
)

// ErrUnavailable means no provider is configured.
var ErrUnavailable = errors.New("ai provider unavailable")

// Client is the AI provider contract. Every error it returns is an
// apperr.ExternalProvider error so callers can fall back.
type Client interface {
	Provider() string
	Model() string

	GenerateCarePlan(ctx context.Context, in PlanInput) (*PlanDraft, error)
	Chat(ctx context.Context, in ChatInput) (*ChatReply, error)
	// Complete sends a single prompt and returns the raw model text.
	Complete(ctx context.Context, prompt string) (string, error)
	IdentifyPlant(ctx context.Context, img Image) (*Identification, error)
	AnalyzeHealth(ctx context.Context, img Image, plant entities.Plant) (*HealthAnalysis, error)
}

type PlanInput struct {
	Plant        entities.Plant
	CareLog      []entities.CareLogEntry
	Stats        map[string]int
	Season       string
	Today        string
	SpeciesNotes string
	GuideNotes   string
}

type PlanDraft struct {
	Reasoning        string      `json:"reasoning"`
	NextPhotoCheck   string      `json:"next_photo_check"`
	PhotoCheckReason string      `json:"photo_check_reason"`
	Tasks            []DraftTask `json:"tasks"`
}

type DraftTask struct {
	Type         string               `json:"type"`
	DueDate      string               `json:"due_date"`
	Recurrence   *entities.Recurrence `json:"recurrence"`
	Instructions string               `json:"instructions"`
	Priority     string               `json:"priority"`
}

type Message struct {
	Role    string `json:"role"` // user|assistant
	Content string `json:"content"`
}

type ChatInput struct {
	Plant    entities.Plant
	Messages []Message
	CareLog  []entities.CareLogEntry
	Tasks    []entities.Task
}

type ChatReply struct {
	Content string   `json:"content"`
	Actions []Action `json:"suggested_actions"`
}

type Image struct {
	MediaType string
	Data      []byte
}

type Identification struct {
	Species      string                      `json:"species"`
	Confidence   float64                     `json:"confidence"`
	Candidates   []entities.SpeciesCandidate `json:"candidates"`
	HealthStatus string                      `json:"health_status"`
	Issues       []string                    `json:"issues"`
	Maturity     string                      `json:"maturity"`
	Notes        string                      `json:"notes"`
}

type HealthAnalysis struct {
	HealthStatus          string   `json:"health_status"`
	Issues                []string `json:"issues"`
	Recommendations       []string `json:"recommendations"`
	ConditionsAppropriate bool     `json:"conditions_appropriate"`
	ConditionNotes        string   `json:"condition_notes"`
	Urgency               string   `json:"urgency"`
}

type unavailable struct{}

// NewUnavailable returns a Client whose every call fails with ErrUnavailable.
func NewUnavailable() Client { return unavailable{} }

func (unavailable) Provider() string { return "none" }
func (unavailable) Model() string    { return "" }

func (unavailable) err() error { return apperr.External("ai", ErrUnavailable) }

func (u unavailable) GenerateCarePlan(context.Context, PlanInput) (*PlanDraft, error) {
	return nil, u.err()
}
func (u unavailable) Chat(context.Context, ChatInput) (*ChatReply, error) { return nil, u.err() }
func (u unavailable) Complete(context.Context, string) (string, error)    { return "", u.err() }
func (u unavailable) IdentifyPlant(context.Context, Image) (*Identification, error) {
	return nil, u.err()
}
func (u unavailable) AnalyzeHealth(context.Context, Image, entities.Plant) (*HealthAnalysis, error) {
	return nil, u.err()
}
