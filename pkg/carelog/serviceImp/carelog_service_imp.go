package serviceImp

import (
	"context"
	"fmt"
	"strings"
	"time"

	"plantcare/entities"
	"plantcare/pkg/apperr"
	"plantcare/pkg/carelog/repository"
	"plantcare/pkg/carelog/service"
)

const (
	listLimit  = 50
	skipWindow = 30 * 24 * time.Hour
)

type accessChecker interface {
	CanAccess(ctx context.Context, userID string, plantID uint) (bool, error)
}

type careLogSvc struct {
	r      repository.CareLogRepository
	access accessChecker
	now    func() time.Time
}

func New(r repository.CareLogRepository, access accessChecker, now func() time.Time) service.CareLogService {
	if now == nil {
		now = time.Now
	}
	return &careLogSvc{r: r, access: access, now: now}
}

func (s *careLogSvc) check(ctx context.Context, actor string, plantID uint) error {
	ok, err := s.access.CanAccess(ctx, actor, plantID)
	if err != nil {
		return err
	}
	if !ok {
		return apperr.NotFoundf("plant not found")
	}
	return nil
}

func (s *careLogSvc) List(ctx context.Context, actor string, plantID uint) ([]entities.CareLogEntry, error) {
	if err := s.check(ctx, actor, plantID); err != nil {
		return nil, err
	}
	return s.r.Recent(ctx, plantID, listLimit)
}

func (s *careLogSvc) Add(ctx context.Context, actor string, plantID uint, in service.NewEntry) (*entities.CareLogEntry, error) {
	action := strings.TrimSpace(in.Action)
	if action == "" {
		return nil, apperr.Validationf("action is required")
	}
	outcome := strings.ToLower(strings.TrimSpace(in.Outcome))
	switch outcome {
	case "":
		outcome = entities.OutcomeNeutral
	case entities.OutcomePositive, entities.OutcomeNeutral, entities.OutcomeNegative:
	default:
		return nil, apperr.Validationf("outcome must be positive, neutral or negative")
	}
	if err := s.check(ctx, actor, plantID); err != nil {
		return nil, err
	}
	e := &entities.CareLogEntry{
		PlantID:     plantID,
		Action:      action,
		Notes:       strings.TrimSpace(in.Notes),
		Outcome:     outcome,
		PerformedBy: actor,
		PerformedAt: s.now(),
	}
	if err := s.r.Append(ctx, e); err != nil {
		return nil, fmt.Errorf("append care log: %w", err)
	}
	return e, nil
}

func (s *careLogSvc) SkipHistory(ctx context.Context, plantID uint, taskType string) (entities.SkipHistory, error) {
	rows, err := s.r.ByActionSince(ctx, plantID, "skipped_"+taskType, s.now().Add(-skipWindow))
	if err != nil {
		return entities.SkipHistory{}, err
	}
	h := entities.SkipHistory{Count: len(rows)}
	for _, e := range rows {
		if e.Notes != "" {
			h.Reasons = append(h.Reasons, e.Notes)
		}
	}
	return h, nil
}
