package repository

import "context"

type SettingsRepository interface {
	DisabledTypes(ctx context.Context, userID string) ([]string, error)
	// ReplaceDisabled makes types the user's complete disabled set.
	ReplaceDisabled(ctx context.Context, userID string, types []string) error
}
