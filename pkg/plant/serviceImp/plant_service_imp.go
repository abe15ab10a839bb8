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
	cpservice "plantcare/pkg/careplan/service"
	logrepo "plantcare/pkg/carelog/repository"
	"plantcare/pkg/plant/repository"
	"plantcare/pkg/plant/service"
)

type accessChecker interface {
	CanAccess(ctx context.Context, userID string, plantID uint) (bool, error)
}

type planner interface {
	cpservice.Generator
	Deactivate(ctx context.Context, plantID uint) error
}

type Deps struct {
	Plants    repository.PlantRepository
	Logs      logrepo.CareLogRepository
	Access    accessChecker
	Plans     planner
	AI        ai.Client
	Tx        *database.Transactor
	Now       func() time.Time
	AITimeout time.Duration
}

type PlantSvc struct {
	plants    repository.PlantRepository
	logs      logrepo.CareLogRepository
	access    accessChecker
	plans     planner
	ai        ai.Client
	tx        *database.Transactor
	now       func() time.Time
	aiTimeout time.Duration
}

var _ service.PlantService = (*PlantSvc)(nil)

func New(d Deps) *PlantSvc {
	s := &PlantSvc{
		plants: d.Plants, logs: d.Logs, access: d.Access, plans: d.Plans,
		ai: d.AI, tx: d.Tx, now: d.Now, aiTimeout: d.AITimeout,
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
	return s
}

func or(s, def string) string {
	if s = strings.TrimSpace(s); s == "" {
		return def
	}
	return s
}

func (s *PlantSvc) Create(ctx context.Context, actor string, in service.NewPlant) (*entities.Plant, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, apperr.Validationf("plant name is required")
	}
	p := &entities.Plant{
		UserID:          actor,
		Name:            name,
		PotSize:         or(in.PotSize, "medium"),
		SoilType:        or(in.SoilType, "soil"),
		LightCondition:  or(in.LightCondition, "medium"),
		Location:        strings.TrimSpace(in.Location),
		Notes:           strings.TrimSpace(in.Notes),
		HealthStatus:    entities.HealthUnknown,
		IsPropagation:   in.IsPropagation,
		PropagationDate: in.PropagationDate,
		HasGrowLight:    in.HasGrowLight,
		GrowLightHours:  in.GrowLightHours,
		CanRotate:       in.CanRotate,
	}
	if sp := strings.TrimSpace(in.Species); sp != "" {
		p.Species = &sp
		p.SpeciesConfirmed = true
	}
	if err := s.plants.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("create plant: %w", err)
	}
	if p.SpeciesConfirmed {
		s.regenerate(ctx, p, cpservice.TriggerPlantCreated)
	}
	return p, nil
}

// regenerate is best effort: the change that triggered it has already been saved.
func (s *PlantSvc) regenerate(ctx context.Context, p *entities.Plant, trigger string) {
	if _, err := s.plans.Generate(ctx, p, trigger); err != nil {
		log.Printf("[plant] plant=%d regenerate (%s): %v", p.ID, trigger, err)
	}
}

func (s *PlantSvc) load(ctx context.Context, actor string, id uint) (*entities.Plant, error) {
	ok, err := s.access.CanAccess(ctx, actor, id)
	if err != nil {
		return nil, fmt.Errorf("check access: %w", err)
	}
	if !ok {
		return nil, apperr.NotFoundf("plant not found")
	}
	p, err := s.plants.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFoundf("plant not found")
		}
		return nil, err
	}
	return p, nil
}

func (s *PlantSvc) owned(ctx context.Context, actor string, id uint) (*entities.Plant, error) {
	p, err := s.load(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if p.UserID != actor {
		return nil, apperr.NotFoundf("plant not found")
	}
	return p, nil
}

// write persists the named fields; a plant archived since it was loaded is
// left untouched.
func (s *PlantSvc) write(ctx context.Context, p *entities.Plant, fields ...string) error {
	ok, err := s.plants.UpdateLive(ctx, p, fields...)
	if err != nil {
		return fmt.Errorf("save plant: %w", err)
	}
	if !ok {
		return apperr.Conflictf("plant is archived")
	}
	return nil
}

func (s *PlantSvc) Get(ctx context.Context, actor string, id uint) (*entities.Plant, error) {
	return s.load(ctx, actor, id)
}

func (s *PlantSvc) Update(ctx context.Context, actor string, id uint, patch service.PlantPatch) (*entities.Plant, error) {
	if patch.Empty() {
		return nil, apperr.Validationf("no fields to update")
	}
	if patch.Name != nil && strings.TrimSpace(*patch.Name) == "" {
		return nil, apperr.Validationf("plant name cannot be empty")
	}
	if patch.HealthStatus != nil && !entities.ValidHealth(*patch.HealthStatus) {
		return nil, apperr.Validationf("invalid health status %q", *patch.HealthStatus)
	}
	p, err := s.load(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if p.Archived() {
		return nil, apperr.Conflictf("plant is archived")
	}
	patch.Apply(p)
	if patch.HealthStatus == nil {
		if err := s.write(ctx, p, patch.Fields()...); err != nil {
			return nil, err
		}
		return p, nil
	}
	return s.applyHealth(ctx, actor, p, *patch.HealthStatus, "", patch.Fields()...)
}

// applyHealth saves the new status, plus any extra fields already applied to
// p, and regenerates the plan when the plant has just moved into struggling
// or critical.
func (s *PlantSvc) applyHealth(ctx context.Context, actor string, p *entities.Plant, status, note string, extra ...string) (*entities.Plant, error) {
	prev := p.HealthStatus
	now := s.now()
	p.HealthStatus = status
	p.LastHealthCheck = &now
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.write(ctx, p, append(extra, "HealthStatus", "LastHealthCheck")...); err != nil {
			return err
		}
		if prev == status {
			return nil
		}
		notes := fmt.Sprintf("Health changed from %s to %s", or(prev, entities.HealthUnknown), status)
		if note = strings.TrimSpace(note); note != "" {
			notes += ": " + note
		}
		return s.logs.Append(ctx, &entities.CareLogEntry{
			PlantID:     p.ID,
			Action:      "health_update",
			Notes:       notes,
			Outcome:     healthOutcome(status),
			PerformedBy: actor,
			PerformedAt: now,
		})
	})
	if err != nil {
		return nil, err
	}
	if prev != status && entities.NeedsAttention(status) {
		s.regenerate(ctx, p, cpservice.TriggerHealthChanged)
	}
	return p, nil
}

func healthOutcome(status string) string {
	switch status {
	case entities.HealthThriving, entities.HealthHealthy:
		return entities.OutcomePositive
	case entities.HealthStruggling, entities.HealthCritical:
		return entities.OutcomeNegative
	}
	return entities.OutcomeNeutral
}

func (s *PlantSvc) Archive(ctx context.Context, actor string, id uint, reason string) (*entities.Plant, error) {
	p, err := s.owned(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if p.Archived() {
		return nil, apperr.Conflictf("plant is already archived")
	}
	now := s.now()
	reason = strings.TrimSpace(reason)
	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		ok, err := s.plants.MarkArchived(ctx, id, now, reason)
		if err != nil {
			return fmt.Errorf("archive plant: %w", err)
		}
		if !ok {
			return apperr.Conflictf("plant is already archived")
		}
		return s.plans.Deactivate(ctx, id)
	})
	if err != nil {
		return nil, err
	}
	p.ArchivedAt = &now
	p.DeathReason = reason
	log.Printf("[plant] plant=%d archived by %s", id, actor)
	return p, nil
}

func (s *PlantSvc) ConfirmSpecies(ctx context.Context, actor string, id uint, species string) (*entities.Plant, error) {
	species = strings.TrimSpace(species)
	if species == "" {
		return nil, apperr.Validationf("species is required")
	}
	p, err := s.owned(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	p.Species = &species
	p.SpeciesConfirmed = true
	if err := s.write(ctx, p, "Species", "SpeciesConfirmed"); err != nil {
		return nil, err
	}
	s.regenerate(ctx, p, cpservice.TriggerSpeciesConfirmed)
	return p, nil
}

func (s *PlantSvc) SetSpecies(ctx context.Context, actor string, id uint, species string) (*entities.Plant, error) {
	species = strings.TrimSpace(species)
	if species == "" {
		return nil, apperr.Validationf("species is required")
	}
	p, err := s.owned(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	full := 1.0
	p.Species = &species
	p.SpeciesConfidence = &full
	if err := s.write(ctx, p, "Species", "SpeciesConfidence"); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *PlantSvc) AppendNotes(ctx context.Context, actor string, id uint, notes string) (*entities.Plant, error) {
	notes = strings.TrimSpace(notes)
	if notes == "" {
		return nil, apperr.Validationf("notes are required")
	}
	p, err := s.owned(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if p.Notes == "" {
		p.Notes = notes
	} else {
		p.Notes += "\n\n" + notes
	}
	if err := s.write(ctx, p, "Notes"); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *PlantSvc) SetHealth(ctx context.Context, actor string, id uint, status, note string) (*entities.Plant, error) {
	status = strings.ToLower(strings.TrimSpace(status))
	if !entities.ValidHealth(status) {
		return nil, apperr.Validationf("invalid health status %q", status)
	}
	p, err := s.owned(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	return s.applyHealth(ctx, actor, p, status, note)
}

func checkImage(img ai.Image) error {
	if len(img.Data) == 0 {
		return apperr.Validationf("image is required")
	}
	if img.MediaType == "" {
		return apperr.Validationf("media_type is required")
	}
	return nil
}

// Identify replaces the species with the provider's guess, left unconfirmed,
// and regenerates the plan.
func (s *PlantSvc) Identify(ctx context.Context, actor string, id uint, img ai.Image) (*ai.Identification, error) {
	if err := checkImage(img); err != nil {
		return nil, err
	}
	p, err := s.load(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if p.Archived() {
		return nil, apperr.Conflictf("plant is archived")
	}
	actx, cancel := context.WithTimeout(ai.WithActor(ctx, actor, id), s.aiTimeout)
	defer cancel()
	res, err := s.ai.IdentifyPlant(actx, img)
	if err != nil {
		return nil, err
	}
	if sp := strings.TrimSpace(res.Species); sp != "" {
		conf := res.Confidence
		p.Species = &sp
		p.SpeciesConfidence = &conf
		p.SpeciesConfirmed = false
	}
	p.SpeciesCandidates = res.Candidates
	now := s.now()
	p.LastHealthCheck = &now
	if entities.ValidHealth(res.HealthStatus) {
		p.HealthStatus = res.HealthStatus
	}
	if err := s.write(ctx, p, "Species", "SpeciesConfidence", "SpeciesConfirmed",
		"SpeciesCandidates", "LastHealthCheck", "HealthStatus"); err != nil {
		return nil, err
	}
	s.regenerate(ctx, p, cpservice.TriggerIdentified)
	return res, nil
}

func (s *PlantSvc) HealthCheck(ctx context.Context, actor string, id uint, img ai.Image) (*ai.HealthAnalysis, error) {
	if err := checkImage(img); err != nil {
		return nil, err
	}
	p, err := s.load(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if p.Archived() {
		return nil, apperr.Conflictf("plant is archived")
	}
	actx, cancel := context.WithTimeout(ai.WithActor(ctx, actor, id), s.aiTimeout)
	defer cancel()
	res, err := s.ai.AnalyzeHealth(actx, img, *p)
	if err != nil {
		return nil, err
	}
	status := strings.ToLower(strings.TrimSpace(res.HealthStatus))
	if !entities.ValidHealth(status) {
		status = entities.HealthUnknown
	}
	if _, err := s.applyHealth(ctx, actor, p, status, strings.Join(res.Issues, "; ")); err != nil {
		return nil, err
	}
	return res, nil
}
