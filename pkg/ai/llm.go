package ai

import (
	"context"

	"plantcare/entities"
	"plantcare/pkg/apperr"
)

// completion is one provider round trip.
type completion struct {
	System    string
	Messages  []Message
	Image     *Image
	MaxTokens int
}

type completer interface {
	complete(ctx context.Context, req completion) (string, error)
}

// llm implements Client on top of a provider-specific completer.
type llm struct {
	c        completer
	provider string
	model    string
}

func (l *llm) Provider() string { return l.provider }
func (l *llm) Model() string    { return l.model }

func (l *llm) GenerateCarePlan(ctx context.Context, in PlanInput) (*PlanDraft, error) {
	text, err := l.c.complete(ctx, completion{
		System:    systemPlantExpert,
		Messages:  []Message{{Role: "user", Content: renderCarePlanPrompt(in)}},
		MaxTokens: 2048,
	})
	if err != nil {
		return nil, err
	}
	return parsePlanDraft(text)
}

func (l *llm) Chat(ctx context.Context, in ChatInput) (*ChatReply, error) {
	if len(in.Messages) == 0 {
		return nil, apperr.Validationf("at least one message is required")
	}
	text, err := l.c.complete(ctx, completion{
		System:    renderChatSystem(in),
		Messages:  chatMessages(in),
		MaxTokens: 2048,
	})
	if err != nil {
		return nil, err
	}
	return parseChatReply(text), nil
}

func (l *llm) Complete(ctx context.Context, prompt string) (string, error) {
	return l.c.complete(ctx, completion{
		System:    systemPlantExpert,
		Messages:  []Message{{Role: "user", Content: prompt}},
		MaxTokens: 1024,
	})
}

func (l *llm) IdentifyPlant(ctx context.Context, img Image) (*Identification, error) {
	text, err := l.c.complete(ctx, completion{
		Messages:  []Message{{Role: "user", Content: identifyPrompt}},
		Image:     &img,
		MaxTokens: 1024,
	})
	if err != nil {
		return nil, err
	}
	var out Identification
	if err := DecodeJSON(text, &out); err != nil {
		return nil, err
	}
	if out.Species == "" && len(out.Candidates) > 0 {
		out.Species, out.Confidence = out.Candidates[0].Species, out.Candidates[0].Confidence
	}
	if out.Species == "" {
		return nil, apperr.External("identification returned no species", nil)
	}
	if len(out.Candidates) == 0 {
		out.Candidates = []entities.SpeciesCandidate{{Species: out.Species, Confidence: out.Confidence}}
	}
	return &out, nil
}

func (l *llm) AnalyzeHealth(ctx context.Context, img Image, plant entities.Plant) (*HealthAnalysis, error) {
	text, err := l.c.complete(ctx, completion{
		Messages:  []Message{{Role: "user", Content: renderHealthPrompt(plant)}},
		Image:     &img,
		MaxTokens: 1024,
	})
	if err != nil {
		return nil, err
	}
	var out HealthAnalysis
	if err := DecodeJSON(text, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
