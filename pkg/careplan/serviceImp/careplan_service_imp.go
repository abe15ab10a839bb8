package serviceImp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"plantcare/database"
	"plantcare/entities"
	"plantcare/pkg/ai"
	"plantcare/pkg/apperr"
	"plantcare/pkg/careplan/repository"
	"plantcare/pkg/careplan/service"
	logrepo "plantcare/pkg/carelog/repository"
	"plantcare/pkg/season"
	"plantcare/pkg/species"
	taskrepo "plantcare/pkg/task/repository"
)

const (
	careLogWindow  = 30
	guideBudget    = 1500
	photoCheckDays = 14
)

type plantFinder interface {
	FindByID(ctx context.Context, id uint) (*entities.Plant, error)
}

type accessChecker interface {
	CanAccess(ctx context.Context, userID string, plantID uint) (bool, error)
}

type disabledTypes interface {
	DisabledSet(ctx context.Context, userID string) (map[string]bool, error)
}

type guideSnippets interface {
	ForSpecies(ctx context.Context, species string, maxChars int) string
}

type Deps struct {
	Plans     repository.CarePlanRepository
	Tasks     taskrepo.TaskRepository
	Logs      logrepo.CareLogRepository
	Plants    plantFinder
	Access    accessChecker
	Settings  disabledTypes
	Species   *species.Catalog
	Guides    guideSnippets
	AI        ai.Client
	Tx        *database.Transactor
	Now       func() time.Time
	AITimeout time.Duration
}

type PlanSvc struct {
	plans     repository.CarePlanRepository
	tasks     taskrepo.TaskRepository
	logs      logrepo.CareLogRepository
	plants    plantFinder
	access    accessChecker
	settings  disabledTypes
	species   *species.Catalog
	guides    guideSnippets
	ai        ai.Client
	tx        *database.Transactor
	now       func() time.Time
	aiTimeout time.Duration
}

var _ service.CarePlanService = (*PlanSvc)(nil)

func New(d Deps) *PlanSvc {
	s := &PlanSvc{
		plans: d.Plans, tasks: d.Tasks, logs: d.Logs, plants: d.Plants, access: d.Access,
		settings: d.Settings, species: d.Species, guides: d.Guides, ai: d.AI, tx: d.Tx,
		now: d.Now, aiTimeout: d.AITimeout,
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.aiTimeout <= 0 {
		s.aiTimeout = 25 * time.Second
	}
	if s.ai == nil {
		s.ai = ai.NewUnavailable()
	}
	if s.species == nil {
		s.species = species.Builtin()
	}
	return s
}

// Generate replaces the plant's active plan. The AI call runs before the
// transaction; deactivation, pending-task cleanup and the inserts commit together.
func (s *PlanSvc) Generate(ctx context.Context, plant *entities.Plant, trigger string) (*entities.CarePlan, error) {
	if plant.Archived() {
		return nil, apperr.Conflictf("plant %d is archived", plant.ID)
	}
	now := s.now()
	today := now.Format(entities.DateLayout)
	seasonName := season.Of(now)

	in, err := s.gather(ctx, plant, seasonName, today)
	if err != nil {
		return nil, err
	}
	draft, source := s.draft(ctx, plant, in, now)
	disabled := map[string]bool{}
	if s.settings != nil {
		if disabled, err = s.settings.DisabledSet(ctx, plant.UserID); err != nil {
			return nil, err
		}
	}
	tasks := filterTasks(plant, disabled, normalizeTasks(plant.ID, draft.Tasks, today))

	raw, _ := json.Marshal(draft)
	plan := &entities.CarePlan{
		PlantID:          plant.ID,
		Season:           seasonName,
		AIReasoning:      draft.Reasoning,
		NextPhotoCheck:   validDate(draft.NextPhotoCheck, now.AddDate(0, 0, photoCheckDays).Format(entities.DateLayout)),
		PhotoCheckReason: orDefault(draft.PhotoCheckReason, "Regular health check"),
		IsActive:         true,
		Source:           source,
		Trigger:          trigger,
		DraftJSON:        datatypes.JSON(raw),
	}

	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if _, err := s.plans.DeactivateAll(ctx, plant.ID); err != nil {
			return fmt.Errorf("deactivate plans: %w", err)
		}
		if _, err := s.tasks.DeletePending(ctx, plant.ID); err != nil {
			return fmt.Errorf("delete pending tasks: %w", err)
		}
		if err := s.plans.Create(ctx, plan); err != nil {
			return fmt.Errorf("create plan: %w", err)
		}
		for i := range tasks {
			tasks[i].CarePlanID = &plan.ID
		}
		if err := s.tasks.BulkInsert(ctx, tasks); err != nil {
			return fmt.Errorf("insert tasks: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	plan.Tasks = tasks
	log.Printf("[careplan] plant=%d plan=%d source=%s trigger=%s tasks=%d/%d",
		plant.ID, plan.ID, source, trigger, len(tasks), len(draft.Tasks))
	return plan, nil
}

func (s *PlanSvc) gather(ctx context.Context, plant *entities.Plant, seasonName, today string) (ai.PlanInput, error) {
	logs, err := s.logs.Recent(ctx, plant.ID, careLogWindow)
	if err != nil {
		return ai.PlanInput{}, fmt.Errorf("recent care log: %w", err)
	}
	stats, err := s.tasks.CompletionStats(ctx, plant.ID)
	if err != nil {
		return ai.PlanInput{}, fmt.Errorf("completion stats: %w", err)
	}
	in := ai.PlanInput{
		Plant:   *plant,
		CareLog: logs,
		Stats:   stats,
		Season:  seasonName,
		Today:   today,
	}
	if name := plant.SpeciesName(); name != "" {
		if p, ok := s.species.Lookup(name); ok {
			in.SpeciesNotes = p.Describe()
		}
		if s.guides != nil {
			in.GuideNotes = s.guides.ForSpecies(ctx, name, guideBudget)
		}
	}
	return in, nil
}

// draft never fails: provider errors and empty drafts fall back to the default plan.
func (s *PlanSvc) draft(ctx context.Context, plant *entities.Plant, in ai.PlanInput, now time.Time) (*ai.PlanDraft, string) {
	actx, cancel := context.WithTimeout(ai.WithActor(ctx, plant.UserID, plant.ID), s.aiTimeout)
	defer cancel()
	d, err := s.ai.GenerateCarePlan(actx, in)
	if err == nil && d != nil && len(d.Tasks) > 0 {
		return d, entities.SourceAI
	}
	if err == nil {
		err = errors.New("empty draft")
	}
	log.Printf("[careplan] plant=%d ai draft failed, using default plan: %v", plant.ID, err)
	return fallbackDraft(plant, in.Season, now), entities.SourceFallback
}

func (s *PlanSvc) accessiblePlant(ctx context.Context, actor string, plantID uint) (*entities.Plant, error) {
	ok, err := s.access.CanAccess(ctx, actor, plantID)
	if err != nil {
		return nil, fmt.Errorf("check access: %w", err)
	}
	if !ok {
		return nil, apperr.NotFoundf("plant not found")
	}
	p, err := s.plants.FindByID(ctx, plantID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFoundf("plant not found")
		}
		return nil, err
	}
	return p, nil
}

func (s *PlanSvc) Active(ctx context.Context, actor string, plantID uint) (*entities.CarePlan, error) {
	p, err := s.accessiblePlant(ctx, actor, plantID)
	if err != nil {
		return nil, err
	}
	plan, err := s.plans.Active(ctx, plantID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		if p.Archived() {
			return nil, apperr.NotFoundf("no active care plan")
		}
		return s.Generate(ctx, p, service.TriggerInitial)
	}
	if err != nil {
		return nil, fmt.Errorf("active plan: %w", err)
	}
	plan.Tasks, err = s.tasks.PendingForPlan(ctx, plan.ID)
	if err != nil {
		return nil, fmt.Errorf("plan tasks: %w", err)
	}
	return plan, nil
}

// Regenerate is limited to the owner; household members only read plans.
func (s *PlanSvc) Regenerate(ctx context.Context, actor string, plantID uint) (*entities.CarePlan, error) {
	p, err := s.accessiblePlant(ctx, actor, plantID)
	if err != nil {
		return nil, err
	}
	if p.UserID != actor {
		return nil, apperr.NotFoundf("plant not found")
	}
	return s.Generate(ctx, p, service.TriggerRegenerate)
}

// Deactivate retires the active plan and its pending tasks. It joins the
// caller's transaction when there is one.
func (s *PlanSvc) Deactivate(ctx context.Context, plantID uint) error {
	return s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if _, err := s.plans.DeactivateAll(ctx, plantID); err != nil {
			return fmt.Errorf("deactivate plans: %w", err)
		}
		if _, err := s.tasks.DeletePending(ctx, plantID); err != nil {
			return fmt.Errorf("delete pending tasks: %w", err)
		}
		return nil
	})
}
