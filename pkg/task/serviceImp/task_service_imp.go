package serviceImp

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"gorm.io/gorm"

	"plantcare/database"
	"plantcare/entities"
	"plantcare/pkg/ai"
	"plantcare/pkg/apperr"
	logrepo "plantcare/pkg/carelog/repository"
	"plantcare/pkg/task/repository"
	"plantcare/pkg/task/service"
)

const defaultBulkLimit = 50

type plantFinder interface {
	FindByID(ctx context.Context, id uint) (*entities.Plant, error)
}

type accessChecker interface {
	CanAccess(ctx context.Context, userID string, plantID uint) (bool, error)
	AccessiblePlantIDs(ctx context.Context, userID string) ([]uint, error)
}

type skipHistory interface {
	SkipHistory(ctx context.Context, plantID uint, taskType string) (entities.SkipHistory, error)
}

type Deps struct {
	Tasks     repository.TaskRepository
	Logs      logrepo.CareLogRepository
	Plants    plantFinder
	Access    accessChecker
	History   skipHistory
	AI        ai.Client
	Tx        *database.Transactor
	Now       func() time.Time
	BulkLimit int
	AITimeout time.Duration
}

type TaskSvc struct {
	tasks     repository.TaskRepository
	logs      logrepo.CareLogRepository
	plants    plantFinder
	access    accessChecker
	history   skipHistory
	ai        ai.Client
	tx        *database.Transactor
	now       func() time.Time
	bulkLimit int
	aiTimeout time.Duration
}

var _ service.TaskService = (*TaskSvc)(nil)

func New(d Deps) *TaskSvc {
	s := &TaskSvc{
		tasks: d.Tasks, logs: d.Logs, plants: d.Plants, access: d.Access, history: d.History,
		ai: d.AI, tx: d.Tx, now: d.Now, bulkLimit: d.BulkLimit, aiTimeout: d.AITimeout,
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.bulkLimit <= 0 {
		s.bulkLimit = defaultBulkLimit
	}
	if s.aiTimeout <= 0 {
		s.aiTimeout = 25 * time.Second
	}
	if s.ai == nil {
		s.ai = ai.NewUnavailable()
	}
	return s
}

// accessible hides missing tasks and tasks on plants the actor cannot see
// behind the same NotFound.
func (s *TaskSvc) accessible(ctx context.Context, actor string, taskID uint) (*entities.Task, error) {
	t, err := s.tasks.FindByID(ctx, taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFoundf("task not found")
		}
		return nil, fmt.Errorf("load task %d: %w", taskID, err)
	}
	ok, err := s.access.CanAccess(ctx, actor, t.PlantID)
	if err != nil {
		return nil, fmt.Errorf("check access: %w", err)
	}
	if !ok {
		return nil, apperr.NotFoundf("task not found")
	}
	return t, nil
}

func alreadyResolved(t *entities.Task) error {
	return apperr.Conflictf("task %d is already %s", t.ID, t.Status())
}

func (s *TaskSvc) Complete(ctx context.Context, actor string, taskID uint, notes string) (*service.Resolution, error) {
	t, err := s.accessible(ctx, actor, taskID)
	if err != nil {
		return nil, err
	}
	if !t.Pending() {
		return nil, alreadyResolved(t)
	}
	notes = strings.TrimSpace(notes)
	now := s.now()
	var next *entities.Task
	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		ok, err := s.tasks.MarkCompleted(ctx, t.ID, now, actor, notes)
		if err != nil {
			return fmt.Errorf("complete task: %w", err)
		}
		if !ok {
			// lost a race with another resolution
			return apperr.Conflictf("task %d is already resolved", t.ID)
		}
		id := t.ID
		entry := &entities.CareLogEntry{
			PlantID:     t.PlantID,
			TaskID:      &id,
			Action:      t.TaskType,
			Notes:       notes,
			Outcome:     entities.OutcomePositive,
			PerformedBy: actor,
			PerformedAt: now,
		}
		if err := s.logs.Append(ctx, entry); err != nil {
			return fmt.Errorf("log completion: %w", err)
		}
		next, err = s.ComputeNextOccurrence(ctx, t)
		return err
	})
	if err != nil {
		return nil, err
	}
	t.CompletedAt = &now
	t.CompletedBy = &actor
	t.Notes = notes
	log.Printf("[task] completed id=%d plant=%d type=%s by=%s", t.ID, t.PlantID, t.TaskType, actor)
	return &service.Resolution{Task: t, Next: next}, nil
}

// Skip is allowed for any pending task, including ones due in the future.
func (s *TaskSvc) Skip(ctx context.Context, actor string, taskID uint, reason string) (*service.Resolution, error) {
	t, err := s.accessible(ctx, actor, taskID)
	if err != nil {
		return nil, err
	}
	if !t.Pending() {
		return nil, alreadyResolved(t)
	}
	reason = strings.TrimSpace(reason)
	now := s.now()
	var next *entities.Task
	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		ok, err := s.tasks.MarkSkipped(ctx, t.ID, now, reason)
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
			Action:      "skipped_" + t.TaskType,
			Notes:       reason,
			Outcome:     entities.OutcomeNeutral,
			PerformedBy: actor,
			PerformedAt: now,
		}
		if err := s.logs.Append(ctx, entry); err != nil {
			return fmt.Errorf("log skip: %w", err)
		}
		next, err = s.ComputeNextOccurrence(ctx, t)
		return err
	})
	if err != nil {
		return nil, err
	}
	t.SkippedAt = &now
	t.SkipReason = &reason
	log.Printf("[task] skipped id=%d plant=%d type=%s reason=%q", t.ID, t.PlantID, t.TaskType, reason)
	return &service.Resolution{Task: t, Next: next}, nil
}

// BulkComplete completes each id in its own transaction. Ids past the batch
// limit are reported as failed; an already completed task counts as success.
func (s *TaskSvc) BulkComplete(ctx context.Context, actor string, ids []uint, notes string) (*service.BulkResult, error) {
	if len(ids) == 0 {
		return nil, apperr.Validationf("task_ids is required")
	}
	res := &service.BulkResult{Succeeded: []uint{}, Failed: []service.BulkFailure{}}
	seen := map[uint]bool{}
	n := 0
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		n++
		if n > s.bulkLimit {
			res.Failed = append(res.Failed, service.BulkFailure{ID: id, Error: fmt.Sprintf("batch limit of %d exceeded", s.bulkLimit)})
			continue
		}
		t, err := s.accessible(ctx, actor, id)
		if err == nil && t.CompletedAt != nil {
			res.Succeeded = append(res.Succeeded, id)
			continue
		}
		if err == nil {
			_, err = s.Complete(ctx, actor, id, notes)
		}
		if err != nil {
			res.Failed = append(res.Failed, service.BulkFailure{ID: id, Error: publicMessage(err)})
			continue
		}
		res.Succeeded = append(res.Succeeded, id)
	}
	return res, nil
}

func publicMessage(err error) string {
	var e *apperr.Error
	if errors.As(err, &e) && e.Kind != apperr.Internal {
		return e.Msg
	}
	log.Printf("[task] bulk item: %v", err)
	return "internal error"
}
