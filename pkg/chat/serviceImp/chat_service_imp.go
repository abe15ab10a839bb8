package serviceImp

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"plantcare/entities"
	"plantcare/pkg/ai"
	"plantcare/pkg/apperr"
	cpservice "plantcare/pkg/careplan/service"
	"plantcare/pkg/chat/service"
)

const (
	contextLimit = 10
	historyLimit = 20
)

type plants interface {
	Get(ctx context.Context, actor string, id uint) (*entities.Plant, error)
	SetSpecies(ctx context.Context, actor string, id uint, species string) (*entities.Plant, error)
	AppendNotes(ctx context.Context, actor string, id uint, notes string) (*entities.Plant, error)
	SetHealth(ctx context.Context, actor string, id uint, status, note string) (*entities.Plant, error)
}

type careLog interface {
	Recent(ctx context.Context, plantID uint, limit int) ([]entities.CareLogEntry, error)
}

type plantTasks interface {
	ForPlant(ctx context.Context, plantID uint, limit int) ([]entities.Task, error)
}

type Deps struct {
	Plants    plants
	Logs      careLog
	Tasks     plantTasks
	Plans     cpservice.Generator
	AI        ai.Client
	AITimeout time.Duration
}

type chatSvc struct {
	d Deps
}

func New(d Deps) service.ChatService {
	if d.AITimeout <= 0 {
		d.AITimeout = 25 * time.Second
	}
	if d.AI == nil {
		d.AI = ai.NewUnavailable()
	}
	return &chatSvc{d: d}
}

func (s *chatSvc) Chat(ctx context.Context, actor string, plantID uint, messages []ai.Message) (*service.Reply, error) {
	msgs := make([]ai.Message, 0, len(messages))
	for _, m := range messages {
		m.Content = strings.TrimSpace(m.Content)
		if m.Content == "" {
			continue
		}
		if m.Role != "assistant" {
			m.Role = "user"
		}
		msgs = append(msgs, m)
	}
	if len(msgs) == 0 || msgs[len(msgs)-1].Role != "user" {
		return nil, apperr.Validationf("message is required")
	}
	if len(msgs) > historyLimit {
		msgs = msgs[len(msgs)-historyLimit:]
	}

	p, err := s.d.Plants.Get(ctx, actor, plantID)
	if err != nil {
		return nil, err
	}
	logs, err := s.d.Logs.Recent(ctx, p.ID, contextLimit)
	if err != nil {
		return nil, fmt.Errorf("recent care log: %w", err)
	}
	all, err := s.d.Tasks.ForPlant(ctx, p.ID, contextLimit)
	if err != nil {
		return nil, fmt.Errorf("plant tasks: %w", err)
	}
	var pending []entities.Task
	for _, t := range all {
		if t.Pending() {
			pending = append(pending, t)
		}
	}

	actx, cancel := context.WithTimeout(ai.WithActor(ctx, actor, p.ID), s.d.AITimeout)
	defer cancel()
	reply, err := s.d.AI.Chat(actx, ai.ChatInput{Plant: *p, Messages: msgs, CareLog: logs, Tasks: pending})
	if err != nil {
		return nil, err
	}
	actions := reply.Actions
	if actions == nil {
		actions = []ai.Action{}
	}
	return &service.Reply{Response: reply.Content, SuggestedActions: actions, Provider: s.d.AI.Provider()}, nil
}

func (s *chatSvc) ApplyAction(ctx context.Context, actor string, plantID uint, action ai.Action) (*service.ApplyResult, error) {
	switch a := action.(type) {
	case ai.UpdateSpecies:
		p, err := s.d.Plants.SetSpecies(ctx, actor, plantID, a.Species)
		if err != nil {
			return nil, err
		}
		return &service.ApplyResult{Success: true, UpdatedField: "species", NewValue: p.SpeciesName()}, nil
	case ai.UpdateNotes:
		p, err := s.d.Plants.AppendNotes(ctx, actor, plantID, a.Notes)
		if err != nil {
			return nil, err
		}
		return &service.ApplyResult{Success: true, UpdatedField: "notes", NewValue: p.Notes}, nil
	case ai.UpdateHealth:
		p, err := s.d.Plants.SetHealth(ctx, actor, plantID, a.Status, a.Reason)
		if err != nil {
			return nil, err
		}
		return &service.ApplyResult{Success: true, UpdatedField: "health_status", NewValue: p.HealthStatus}, nil
	case ai.UpdateCareSchedule:
		p, err := s.d.Plants.Get(ctx, actor, plantID)
		if err != nil {
			return nil, err
		}
		if p.UserID != actor {
			return nil, apperr.NotFoundf("plant not found")
		}
		plan, err := s.d.Plans.Generate(ctx, p, cpservice.TriggerChatAction)
		if err != nil {
			return nil, err
		}
		log.Printf("[chat] plant=%d care plan regenerated (%s)", p.ID, a.Reason)
		return &service.ApplyResult{Success: true, UpdatedField: "care_schedule",
			Message: fmt.Sprintf("Care plan regenerated with %d tasks", len(plan.Tasks))}, nil
	case nil:
		return nil, apperr.Validationf("invalid action")
	}
	return nil, apperr.Validationf("unknown action type %q", action.ActionType())
}
