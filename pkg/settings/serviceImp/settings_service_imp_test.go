package serviceImp

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"plantcare/entities"
	"plantcare/pkg/apperr"
	"plantcare/pkg/settings/repositoryImp"
	"plantcare/pkg/testutil"
)

func TestSetDisabledReplacesSet(t *testing.T) {
	svc := New(repositoryImp.New(testutil.OpenDB(t)))
	ctx := context.Background()

	states, err := svc.TaskTypes(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, states, len(entities.DefaultTaskTypes))
	for _, s := range states {
		assert.True(t, s.Enabled, s.TaskType)
	}

	states, err = svc.SetDisabled(ctx, "u1", []string{" Mist ", "mist", "dust_leaves"})
	require.NoError(t, err)
	assert.Len(t, states, len(entities.DefaultTaskTypes)+1)
	assert.Equal(t, "dust_leaves", states[len(states)-1].TaskType)

	set, err := svc.DisabledSet(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, map[string]bool{"mist": true, "dust_leaves": true}, set)

	_, err = svc.SetDisabled(ctx, "u1", []string{entities.TaskRotate})
	require.NoError(t, err)
	set, err = svc.DisabledSet(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, map[string]bool{"rotate": true}, set)

	other, err := svc.DisabledSet(ctx, "u2")
	require.NoError(t, err)
	assert.Empty(t, other)

	_, err = svc.SetDisabled(ctx, "u1", []string{""})
	assert.True(t, apperr.IsValidation(err))
}
