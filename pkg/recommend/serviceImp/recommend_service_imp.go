package serviceImp

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"gorm.io/gorm"

	"plantcare/entities"
	"plantcare/pkg/ai"
	"plantcare/pkg/apperr"
	logrepo "plantcare/pkg/carelog/repository"
	"plantcare/pkg/recommend/service"
	"plantcare/pkg/season"
	"plantcare/pkg/species"
)

const (
	careHistoryLimit   = 10
	healthHistoryLimit = 3
)

type taskFinder interface {
	FindByID(ctx context.Context, id uint) (*entities.Task, error)
}

type plantFinder interface {
	FindByID(ctx context.Context, id uint) (*entities.Plant, error)
}

type activePlan interface {
	Active(ctx context.Context, plantID uint) (*entities.CarePlan, error)
}

type accessChecker interface {
	CanAccess(ctx context.Context, userID string, plantID uint) (bool, error)
}

type Deps struct {
	Tasks     taskFinder
	Plants    plantFinder
	Plans     activePlan
	Logs      logrepo.CareLogRepository
	Access    accessChecker
	Species   *species.Catalog
	AI        ai.Client
	Now       func() time.Time
	AITimeout time.Duration
}

type RecommendSvc struct {
	d Deps
}

var _ service.RecommendService = (*RecommendSvc)(nil)

func New(d Deps) *RecommendSvc {
	if d.Now == nil {
		d.Now = time.Now
	}
	if d.AITimeout <= 0 {
		d.AITimeout = 25 * time.Second
	}
	if d.AI == nil {
		d.AI = ai.NewUnavailable()
	}
	if d.Species == nil {
		d.Species = species.Builtin()
	}
	return &RecommendSvc{d: d}
}

func (s *RecommendSvc) ForTask(ctx context.Context, actor string, taskID uint) (*service.Result, error) {
	t, err := s.d.Tasks.FindByID(ctx, taskID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFoundf("task not found")
	}
	if err != nil {
		return nil, err
	}
	ok, err := s.d.Access.CanAccess(ctx, actor, t.PlantID)
	if err != nil {
		return nil, fmt.Errorf("check access: %w", err)
	}
	if !ok {
		return nil, apperr.NotFoundf("task not found")
	}
	p, err := s.d.Plants.FindByID(ctx, t.PlantID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFoundf("task not found")
		}
		return nil, err
	}

	in := service.Input{Task: *t, Plant: *p, Season: season.ContextFor(season.Of(s.d.Now()))}
	if plan, err := s.d.Plans.Active(ctx, p.ID); err == nil {
		in.Plan = plan
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("active plan: %w", err)
	}
	logs, err := s.d.Logs.Recent(ctx, p.ID, 50)
	if err != nil {
		return nil, fmt.Errorf("care history: %w", err)
	}
	for _, e := range logs {
		if e.Action == "health_update" {
			if len(in.HealthHistory) < healthHistoryLimit {
				in.HealthHistory = append(in.HealthHistory, e)
			}
			continue
		}
		if len(in.CareHistory) < careHistoryLimit {
			in.CareHistory = append(in.CareHistory, e)
		}
	}
	return &service.Result{Recommendation: s.Recommend(ctx, in), Task: *t, Season: in.Season}, nil
}

func (s *RecommendSvc) Recommend(ctx context.Context, in service.Input) *service.Recommendation {
	r, err := s.fromAI(ctx, in)
	if err == nil {
		return r
	}
	log.Printf("[recommend] task=%d using fallback: %v", in.Task.ID, err)
	return fallback(in, s.arid(in.Plant))
}

func (s *RecommendSvc) arid(p entities.Plant) bool {
	return s.d.Species.Arid(p.SpeciesName())
}

func (s *RecommendSvc) fromAI(ctx context.Context, in service.Input) (*service.Recommendation, error) {
	ctx, cancel := context.WithTimeout(ctx, s.d.AITimeout)
	defer cancel()
	ctx = ai.WithOperation(ai.WithActor(ctx, in.Plant.UserID, in.Plant.ID), "recommend")

	text, err := s.d.AI.Complete(ctx, renderPrompt(in))
	if err != nil {
		return nil, err
	}
	var r service.Recommendation
	if err := ai.DecodeJSON(text, &r); err != nil {
		return nil, err
	}
	if strings.TrimSpace(r.Summary) == "" {
		return nil, apperr.External("ai recommendation", errors.New("missing summary"))
	}
	r.Source = entities.SourceAI
	if r.Steps == nil {
		r.Steps = []string{}
	}
	if r.Warnings == nil {
		r.Warnings = []string{}
	}
	if r.Tips == nil {
		r.Tips = []string{}
	}
	return &r, nil
}

func orUnknown(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}

func renderPrompt(in service.Input) string {
	p, t := in.Plant, in.Task
	var b strings.Builder
	fmt.Fprintf(&b, "You are a plant care expert. Based on the following information about %q, provide specific, actionable recommendations for the upcoming %s task.\n\n", p.Name, t.TaskType)

	b.WriteString("## Plant Information\n")
	fmt.Fprintf(&b, "- Name: %s\n", p.Name)
	fmt.Fprintf(&b, "- Species: %s\n", orUnknown(p.SpeciesName(), "Unknown"))
	fmt.Fprintf(&b, "- Current Health: %s\n", orUnknown(p.HealthStatus, "Unknown"))
	fmt.Fprintf(&b, "- Pot Size: %s\n", orUnknown(p.PotSize, "Medium"))
	fmt.Fprintf(&b, "- Soil Type: %s\n", orUnknown(p.SoilType, "Standard potting mix"))
	fmt.Fprintf(&b, "- Light Condition: %s\n", orUnknown(p.LightCondition, "Unknown"))
	fmt.Fprintf(&b, "- Location: %s\n", orUnknown(p.Location, "Unknown"))
	if p.Notes != "" {
		fmt.Fprintf(&b, "- Owner's Notes: %s\n", p.Notes)
	}

	if in.Plan != nil && in.Plan.AIReasoning != "" {
		b.WriteString("\n## Current Care Plan\n")
		fmt.Fprintf(&b, "- Season: %s\n", orUnknown(in.Plan.Season, "Not specified"))
		fmt.Fprintf(&b, "- AI Care Notes: %s\n", in.Plan.AIReasoning)
	}

	if len(in.CareHistory) > 0 {
		b.WriteString("\n## Recent Care History\n")
		for i, e := range in.CareHistory {
			if i == 5 {
				break
			}
			fmt.Fprintf(&b, "- %s: %s", e.PerformedAt.Format("Jan 2"), e.Action)
			if e.Notes != "" {
				fmt.Fprintf(&b, " - %s", e.Notes)
			}
			if e.Outcome != "" {
				fmt.Fprintf(&b, " (outcome: %s)", e.Outcome)
			}
			b.WriteString("\n")
		}
	}

	if len(in.HealthHistory) > 0 {
		b.WriteString("\n## Recent Health Assessments\n")
		for _, e := range in.HealthHistory {
			fmt.Fprintf(&b, "- %s: %s\n", e.PerformedAt.Format("Jan 2"), e.Notes)
		}
	}

	if in.Season.Season != "" {
		b.WriteString("\n## Current Conditions\n")
		fmt.Fprintf(&b, "- Season: %s\n", in.Season.Season)
		fmt.Fprintf(&b, "- Growth Phase: %s\n", in.Season.GrowthPhase)
		fmt.Fprintf(&b, "- Seasonal Note: %s\n", in.Season.Notes)
	}

	b.WriteString("\n## Task Details\n")
	fmt.Fprintf(&b, "- Task Type: %s\n", t.TaskType)
	fmt.Fprintf(&b, "- Due Date: %s\n", t.DueDate)
	fmt.Fprintf(&b, "- Priority: %s\n", orUnknown(t.Priority, entities.PriorityNormal))
	if t.Instructions != "" {
		fmt.Fprintf(&b, "- Current Instructions: %s\n", t.Instructions)
	}

	b.WriteString(`
Please provide personalized recommendations in the following JSON format:
{
  "summary": "A brief 1-2 sentence summary of what to do",
  "steps": ["Step 1...", "Step 2...", "Step 3..."],
  "amount": "Specific amounts if applicable (e.g., water amount, fertilizer dilution)",
  "timing": "Best time of day or conditions for this task",
  "warnings": ["Any cautions or things to watch for"],
  "tips": ["Optional helpful tips specific to this plant"]
}
`)
	fmt.Fprintf(&b, "\nBe specific to THIS plant's species (%s), current health (%s), and conditions. Do not give generic advice.",
		orUnknown(p.SpeciesName(), "unknown"), orUnknown(p.HealthStatus, "unknown"))
	return b.String()
}
