package serviceImp

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"plantcare/entities"
	"plantcare/pkg/ai"
	"plantcare/pkg/apperr"
)

type fakePlants struct {
	p      entities.Plant
	health []string
}

func (f *fakePlants) Get(_ context.Context, actor string, id uint) (*entities.Plant, error) {
	if id != f.p.ID || (actor != f.p.UserID && actor != "member") {
		return nil, apperr.NotFoundf("plant not found")
	}
	p := f.p
	return &p, nil
}

func (f *fakePlants) SetSpecies(_ context.Context, _ string, _ uint, species string) (*entities.Plant, error) {
	f.p.Species = &species
	return &f.p, nil
}

func (f *fakePlants) AppendNotes(_ context.Context, _ string, _ uint, notes string) (*entities.Plant, error) {
	f.p.Notes += notes
	return &f.p, nil
}

func (f *fakePlants) SetHealth(_ context.Context, _ string, _ uint, status, note string) (*entities.Plant, error) {
	if !entities.ValidHealth(status) {
		return nil, apperr.Validationf("invalid health status %q", status)
	}
	f.health = append(f.health, note)
	f.p.HealthStatus = status
	return &f.p, nil
}

type fakeLogs []entities.CareLogEntry

func (f fakeLogs) Recent(context.Context, uint, int) ([]entities.CareLogEntry, error) { return f, nil }

type fakeTasks []entities.Task

func (f fakeTasks) ForPlant(context.Context, uint, int) ([]entities.Task, error) { return f, nil }

type fakePlanner struct{ triggers []string }

func (f *fakePlanner) Generate(_ context.Context, p *entities.Plant, trigger string) (*entities.CarePlan, error) {
	f.triggers = append(f.triggers, trigger)
	return &entities.CarePlan{PlantID: p.ID, Tasks: make([]entities.Task, 3)}, nil
}

func newChat(mock *ai.Mock) (*chatSvc, *fakePlants, *fakePlanner) {
	plants := &fakePlants{p: entities.Plant{ID: 7, UserID: "u1", Name: "Monty", HealthStatus: entities.HealthHealthy}}
	planner := &fakePlanner{}
	svc := New(Deps{
		Plants: plants,
		Logs:   fakeLogs{{PlantID: 7, Action: "water"}},
		Tasks:  fakeTasks{{PlantID: 7, TaskType: "water", DueDate: "2024-01-02"}},
		Plans:  planner,
		AI:     mock,
	})
	return svc.(*chatSvc), plants, planner
}

func TestChatReturnsReplyAndActions(t *testing.T) {
	mock := ai.NewMock()
	mock.Reply = &ai.ChatReply{Content: "Looks like a pothos.", Actions: []ai.Action{ai.UpdateSpecies{Species: "Pothos"}}}
	svc, _, _ := newChat(mock)

	reply, err := svc.Chat(context.Background(), "u1", 7, []ai.Message{
		{Role: "assistant", Content: "Hi!"},
		{Role: "", Content: "  what is it?  "},
	})
	require.NoError(t, err)
	assert.Equal(t, "Looks like a pothos.", reply.Response)
	assert.Equal(t, "mock", reply.Provider)
	require.Len(t, reply.SuggestedActions, 1)
	assert.Equal(t, ai.ActionUpdateSpecies, reply.SuggestedActions[0].ActionType())
	assert.Equal(t, 1, mock.CallCount("chat"))
}

func TestChatValidatesAndSurfacesErrors(t *testing.T) {
	mock := ai.NewMock()
	svc, _, _ := newChat(mock)
	ctx := context.Background()

	_, err := svc.Chat(ctx, "u1", 7, nil)
	assert.True(t, apperr.IsValidation(err))
	_, err = svc.Chat(ctx, "u1", 7, []ai.Message{{Role: "user", Content: "hi"}, {Role: "assistant", Content: "hello"}})
	assert.True(t, apperr.IsValidation(err))
	_, err = svc.Chat(ctx, "stranger", 7, []ai.Message{{Role: "user", Content: "hi"}})
	assert.True(t, apperr.IsNotFound(err))

	// no scripted reply: the provider is unreachable
	_, err = svc.Chat(ctx, "u1", 7, []ai.Message{{Role: "user", Content: "hi"}})
	assert.True(t, apperr.IsExternal(err))
}

func TestApplyAction(t *testing.T) {
	ctx := context.Background()

	t.Run("species", func(t *testing.T) {
		svc, plants, _ := newChat(ai.NewMock())
		res, err := svc.ApplyAction(ctx, "u1", 7, ai.UpdateSpecies{Species: "Pothos"})
		require.NoError(t, err)
		assert.Equal(t, "species", res.UpdatedField)
		assert.Equal(t, "Pothos", res.NewValue)
		assert.Equal(t, "Pothos", plants.p.SpeciesName())
	})

	t.Run("notes", func(t *testing.T) {
		svc, _, _ := newChat(ai.NewMock())
		res, err := svc.ApplyAction(ctx, "u1", 7, ai.UpdateNotes{Notes: "likes the kitchen"})
		require.NoError(t, err)
		assert.Equal(t, "notes", res.UpdatedField)
		assert.Equal(t, "likes the kitchen", res.NewValue)
	})

	t.Run("health", func(t *testing.T) {
		svc, plants, _ := newChat(ai.NewMock())
		res, err := svc.ApplyAction(ctx, "u1", 7, ai.UpdateHealth{Status: entities.HealthStruggling, Reason: "droopy"})
		require.NoError(t, err)
		assert.Equal(t, entities.HealthStruggling, res.NewValue)
		assert.Equal(t, []string{"droopy"}, plants.health)

		_, err = svc.ApplyAction(ctx, "u1", 7, ai.UpdateHealth{Status: "sad"})
		assert.True(t, apperr.IsValidation(err))
	})

	t.Run("care schedule", func(t *testing.T) {
		svc, _, planner := newChat(ai.NewMock())
		res, err := svc.ApplyAction(ctx, "u1", 7, ai.UpdateCareSchedule{Reason: "moved to a sunny window"})
		require.NoError(t, err)
		assert.True(t, res.Success)
		assert.Equal(t, "Care plan regenerated with 3 tasks", res.Message)
		assert.Equal(t, []string{"chat_action"}, planner.triggers)

		_, err = svc.ApplyAction(ctx, "member", 7, ai.UpdateCareSchedule{})
		assert.True(t, apperr.IsNotFound(err))
		assert.Len(t, planner.triggers, 1)
	})

	t.Run("nil", func(t *testing.T) {
		svc, _, _ := newChat(ai.NewMock())
		_, err := svc.ApplyAction(ctx, "u1", 7, nil)
		assert.True(t, apperr.IsValidation(err))
	})
}
