package serviceImp

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"plantcare/database"
	"plantcare/entities"
	"plantcare/pkg/apperr"
	"plantcare/pkg/household/repository"
	"plantcare/pkg/household/service"
)

type plantOwner interface {
	FindByID(ctx context.Context, id uint) (*entities.Plant, error)
}

type householdSvc struct {
	r      repository.HouseholdRepository
	plants plantOwner
	tx     *database.Transactor
}

func New(r repository.HouseholdRepository, plants plantOwner, tx *database.Transactor) service.HouseholdService {
	return &householdSvc{r: r, plants: plants, tx: tx}
}

func (s *householdSvc) Create(ctx context.Context, userID, name string) (*entities.Household, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperr.Validationf("name is required")
	}
	h := &entities.Household{Name: name, CreatedBy: userID}
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.r.Create(ctx, h); err != nil {
			return fmt.Errorf("create household: %w", err)
		}
		return s.r.AddMember(ctx, &entities.HouseholdMember{HouseholdID: h.ID, UserID: userID, Role: "owner"})
	})
	if err != nil {
		return nil, err
	}
	return h, nil
}

func (s *householdSvc) member(ctx context.Context, householdID uint, userID string) error {
	ok, err := s.r.IsMember(ctx, householdID, userID)
	if err != nil {
		return err
	}
	if !ok {
		return apperr.NotFoundf("household not found")
	}
	return nil
}

func (s *householdSvc) AddMember(ctx context.Context, actor string, householdID uint, memberID string) (*entities.HouseholdMember, error) {
	memberID = strings.TrimSpace(memberID)
	if memberID == "" {
		return nil, apperr.Validationf("user_id is required")
	}
	if err := s.member(ctx, householdID, actor); err != nil {
		return nil, err
	}
	m := &entities.HouseholdMember{HouseholdID: householdID, UserID: memberID, Role: "member"}
	if err := s.r.AddMember(ctx, m); err != nil {
		return nil, fmt.Errorf("add member: %w", err)
	}
	return m, nil
}

// SharePlant is limited to the plant owner, who must also be a member.
func (s *householdSvc) SharePlant(ctx context.Context, actor string, householdID, plantID uint) (*entities.HouseholdPlant, error) {
	if err := s.member(ctx, householdID, actor); err != nil {
		return nil, err
	}
	p, err := s.plants.FindByID(ctx, plantID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if err != nil || p.UserID != actor {
		return nil, apperr.NotFoundf("plant not found")
	}
	hp := &entities.HouseholdPlant{HouseholdID: householdID, PlantID: plantID, SharedBy: actor}
	if err := s.r.SharePlant(ctx, hp); err != nil {
		return nil, fmt.Errorf("share plant: %w", err)
	}
	return hp, nil
}

func (s *householdSvc) CanAccess(ctx context.Context, userID string, plantID uint) (bool, error) {
	if userID == "" {
		return false, nil
	}
	return s.r.CanAccess(ctx, userID, plantID)
}

func (s *householdSvc) AccessiblePlantIDs(ctx context.Context, userID string) ([]uint, error) {
	return s.r.AccessiblePlantIDs(ctx, userID)
}
