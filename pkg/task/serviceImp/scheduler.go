package serviceImp

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"strings"

	"gorm.io/gorm"

	"plantcare/entities"
	"plantcare/pkg/ai"
	"plantcare/pkg/apperr"
	"plantcare/pkg/task/service"
)

const defaultInterval = 7

func isDuplicate(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey) || strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// ComputeNextOccurrence keys idempotency on plant + type + due date and
// advances from the task's own due date, so late completions keep cadence.
func (s *TaskSvc) ComputeNextOccurrence(ctx context.Context, t *entities.Task) (*entities.Task, error) {
	if t.Recurrence == nil {
		return nil, nil
	}
	rec := t.Recurrence.Normalized()
	due, err := rec.Next(t.DueDate)
	if err != nil {
		return nil, apperr.Validationf("task %d has invalid due date %q", t.ID, t.DueDate)
	}
	exists, err := s.tasks.PendingExists(ctx, t.PlantID, t.TaskType, due)
	if err != nil {
		return nil, fmt.Errorf("check next occurrence: %w", err)
	}
	if exists {
		return nil, nil
	}
	next := &entities.Task{
		CarePlanID:   t.CarePlanID,
		PlantID:      t.PlantID,
		TaskType:     t.TaskType,
		DueDate:      due,
		Recurrence:   &rec,
		Instructions: t.Instructions,
		Priority:     t.Priority,
	}
	if err := s.tasks.Create(ctx, next); err != nil {
		if isDuplicate(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("create next occurrence: %w", err)
	}
	return next, nil
}

// ApplyAdjustment rewrites the interval on every pending task of the same
// plant and type, skips t and spawns its next occurrence on the new interval.
func (s *TaskSvc) ApplyAdjustment(ctx context.Context, actor string, t *entities.Task, newInterval int, reason string) (*service.Resolution, error) {
	if newInterval < 1 {
		return nil, apperr.Validationf("new_interval must be at least 1")
	}
	if !t.Pending() {
		return nil, alreadyResolved(t)
	}
	rec := entities.Recurrence{Type: entities.RecurDays, Interval: defaultInterval}
	if t.Recurrence != nil {
		rec = t.Recurrence.Normalized()
	}
	rec.Interval = newInterval

	reason = strings.TrimSpace(reason)
	skipReason := strings.TrimSpace(reason + " (schedule adjusted)")
	notes := fmt.Sprintf("Adjusted to every %d %s", newInterval, rec.Type)
	if reason != "" {
		notes = reason + " - " + notes
	}

	now := s.now()
	var next *entities.Task
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if _, err := s.tasks.UpdatePendingRecurrence(ctx, t.PlantID, t.TaskType, rec); err != nil {
			return fmt.Errorf("update recurrence: %w", err)
		}
		ok, err := s.tasks.MarkSkipped(ctx, t.ID, now, skipReason)
		if err != nil {
			return fmt.Errorf("skip task: %w", err)
		}
		if !ok {
			return apperr.Conflictf("task %d is already resolved", t.ID)
		}
		id := t.ID
		entry := &entities.CareLogEntry{
			PlantID:     t.PlantID,
			TaskID:      &id,
			Action:      "schedule_adjusted_" + t.TaskType,
			Notes:       notes,
			Outcome:     entities.OutcomePositive,
			PerformedBy: actor,
			PerformedAt: now,
		}
		if err := s.logs.Append(ctx, entry); err != nil {
			return fmt.Errorf("log adjustment: %w", err)
		}
		if t.Recurrence == nil {
			return nil
		}
		adjusted := *t
		adjusted.Recurrence = &rec
		next, err = s.ComputeNextOccurrence(ctx, &adjusted)
		return err
	})
	if err != nil {
		return nil, err
	}
	t.SkippedAt = &now
	t.SkipReason = &skipReason
	t.Recurrence = &rec
	log.Printf("[task] adjusted plant=%d type=%s interval=%d", t.PlantID, t.TaskType, newInterval)
	return &service.Resolution{Task: t, Next: next}, nil
}

// AdjustInterval asks the AI provider first and falls back to keyword
// heuristics on the skip reason.
func (s *TaskSvc) AdjustInterval(ctx context.Context, in service.AdjustInput) (*service.Adjustment, error) {
	cur := in.Current
	if cur < 1 {
		cur = defaultInterval
	}
	adj, err := s.aiAdjustment(ctx, in, cur)
	if err == nil {
		return adj, nil
	}
	log.Printf("[task] ai adjustment unavailable, using heuristics: %v", err)
	return heuristicAdjustment(in.TaskType, cur, in.Reason), nil
}

func (s *TaskSvc) aiAdjustment(ctx context.Context, in service.AdjustInput, cur int) (*service.Adjustment, error) {
	ctx, cancel := context.WithTimeout(ctx, s.aiTimeout)
	defer cancel()
	ctx = ai.WithOperation(ai.WithActor(ctx, in.Plant.UserID, in.Plant.ID), "adjust")

	text, err := s.ai.Complete(ctx, renderAdjustPrompt(in, cur))
	if err != nil {
		return nil, err
	}
	var out struct {
		ShouldAdjust bool   `json:"should_adjust"`
		NewInterval  *int   `json:"new_interval"`
		Suggestion   string `json:"suggestion"`
		Reasoning    string `json:"reasoning"`
	}
	if err := ai.DecodeJSON(text, &out); err != nil {
		return nil, err
	}
	if strings.TrimSpace(out.Suggestion) == "" {
		return nil, apperr.External("ai adjustment", errors.New("missing suggestion"))
	}
	next := cur
	if out.ShouldAdjust && out.NewInterval != nil && *out.NewInterval >= 1 {
		next = *out.NewInterval
	}
	return &service.Adjustment{
		TaskType:        in.TaskType,
		CurrentInterval: cur,
		NewInterval:     next,
		ShouldAdjust:    next != cur,
		Suggestion:      out.Suggestion,
		Rationale:       out.Reasoning,
		Source:          entities.SourceAI,
	}, nil
}

func activity(taskType string) string {
	switch taskType {
	case entities.TaskWater:
		return "watering"
	case entities.TaskFertilize:
		return "fertilizing"
	case entities.TaskMist:
		return "misting"
	}
	return strings.ReplaceAll(taskType, "_", " ") + " tasks"
}

func heuristicAdjustment(taskType string, cur int, reason string) *service.Adjustment {
	r := strings.ToLower(reason)
	next := cur + 1
	var suggestion, rationale string
	switch {
	case strings.Contains(r, "moist") || strings.Contains(r, "wet"):
		next = int(math.Round(math.Min(float64(cur+2), float64(cur)*1.5)))
		suggestion = fmt.Sprintf("Since the soil is still moist, I suggest extending %s to every %d days.", activity(taskType), next)
		rationale = "soil still moist: extend by about half, at most two days"
	case strings.Contains(r, "recently") || strings.Contains(r, "already"):
		suggestion = fmt.Sprintf("Extending the schedule slightly to every %d days to avoid over-caring.", next)
		rationale = "care was done recently: extend by one day"
	case strings.Contains(r, "stressed"):
		next = cur
		suggestion = "When a plant is stressed, maintaining the current schedule is often best. Monitor closely."
		rationale = "plant stressed: keep the schedule"
	default:
		suggestion = fmt.Sprintf("Based on your feedback, consider adjusting to every %d days.", next)
		rationale = "generic skip: extend by one day"
	}
	if next < 1 {
		next = 1
	}
	return &service.Adjustment{
		TaskType:        taskType,
		CurrentInterval: cur,
		NewInterval:     next,
		ShouldAdjust:    next != cur,
		Suggestion:      suggestion,
		Rationale:       rationale,
		Source:          entities.SourceFallback,
	}
}

func renderAdjustPrompt(in service.AdjustInput, cur int) string {
	p := in.Plant
	species := p.SpeciesName()
	if species == "" {
		species = "unidentified"
	}
	reasons := "None"
	if len(in.History.Reasons) > 0 {
		reasons = strings.Join(in.History.Reasons, "; ")
	}
	var b strings.Builder
	fmt.Fprintf(&b, "You are a plant care expert. A user is skipping a %s task for their %s plant.\n\n", in.TaskType, species)
	fmt.Fprintf(&b, "Current schedule: Every %d days\n", cur)
	fmt.Fprintf(&b, "Skip reason: %s\n", in.Reason)
	b.WriteString("Plant details:\n")
	fmt.Fprintf(&b, "- Species: %s\n- Pot size: %s\n- Soil type: %s\n- Light: %s\n- Health: %s\n- Location: %s\n\n",
		species, p.PotSize, p.SoilType, p.LightCondition, p.HealthStatus, p.Location)
	fmt.Fprintf(&b, "Recent skip history (last 30 days): %d skips\n", in.History.Count)
	fmt.Fprintf(&b, "Previous skip reasons: %s\n\n", reasons)
	b.WriteString(`Based on this information, suggest whether the schedule should be adjusted. Respond in JSON format:
{
  "should_adjust": true/false,
  "new_interval": <number of days, or null if no change>,
  "suggestion": "<brief explanation for the user, 1-2 sentences>",
  "reasoning": "<internal reasoning>"
}

Consider:
- If soil is still moist, the plant may need less frequent watering
- Seasonal changes affect watering needs
- The skip history pattern (frequent skips suggest schedule is too aggressive)
- Species-specific needs`)
	return b.String()
}

func (s *TaskSvc) SuggestAdjustment(ctx context.Context, actor string, taskID uint, reason string) (*service.Adjustment, error) {
	t, err := s.accessible(ctx, actor, taskID)
	if err != nil {
		return nil, err
	}
	p, err := s.plants.FindByID(ctx, t.PlantID)
	if err != nil {
		return nil, fmt.Errorf("load plant: %w", err)
	}
	cur := defaultInterval
	if t.Recurrence != nil {
		cur = t.Recurrence.Normalized().Interval
	}
	hist, err := s.history.SkipHistory(ctx, t.PlantID, t.TaskType)
	if err != nil {
		log.Printf("[task] skip history plant=%d: %v", t.PlantID, err)
	}
	return s.AdjustInterval(ctx, service.AdjustInput{
		Plant:    *p,
		TaskType: t.TaskType,
		Current:  cur,
		Reason:   reason,
		History:  hist,
	})
}

func (s *TaskSvc) ApplyScheduleChange(ctx context.Context, actor string, taskID uint, newInterval int, reason string) (*service.Resolution, error) {
	t, err := s.accessible(ctx, actor, taskID)
	if err != nil {
		return nil, err
	}
	return s.ApplyAdjustment(ctx, actor, t, newInterval, reason)
}
