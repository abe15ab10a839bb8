package serviceImp

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"plantcare/entities"
	"plantcare/pkg/apperr"
	"plantcare/pkg/settings/repository"
	"plantcare/pkg/settings/service"
)

type settingsSvc struct{ r repository.SettingsRepository }

func New(r repository.SettingsRepository) service.SettingsService { return &settingsSvc{r} }

func (s *settingsSvc) DisabledSet(ctx context.Context, userID string) (map[string]bool, error) {
	types, err := s.r.DisabledTypes(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("disabled task types: %w", err)
	}
	set := make(map[string]bool, len(types))
	for _, t := range types {
		set[t] = true
	}
	return set, nil
}

func (s *settingsSvc) TaskTypes(ctx context.Context, userID string) ([]service.TaskTypeState, error) {
	disabled, err := s.DisabledSet(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := make([]service.TaskTypeState, 0, len(entities.DefaultTaskTypes)+len(disabled))
	seen := map[string]bool{}
	for _, t := range entities.DefaultTaskTypes {
		seen[t] = true
		out = append(out, service.TaskTypeState{TaskType: t, Enabled: !disabled[t]})
	}
	var custom []string
	for t := range disabled {
		if !seen[t] {
			custom = append(custom, t)
		}
	}
	sort.Strings(custom)
	for _, t := range custom {
		out = append(out, service.TaskTypeState{TaskType: t, Enabled: false})
	}
	return out, nil
}

func (s *settingsSvc) SetDisabled(ctx context.Context, userID string, types []string) ([]service.TaskTypeState, error) {
	clean := make([]string, 0, len(types))
	seen := map[string]bool{}
	for _, t := range types {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" {
			return nil, apperr.Validationf("task type must not be empty")
		}
		if !seen[t] {
			seen[t] = true
			clean = append(clean, t)
		}
	}
	if err := s.r.ReplaceDisabled(ctx, userID, clean); err != nil {
		return nil, fmt.Errorf("save task types: %w", err)
	}
	return s.TaskTypes(ctx, userID)
}
