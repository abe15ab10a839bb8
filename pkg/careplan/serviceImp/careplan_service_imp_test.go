package serviceImp

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"plantcare/database"
	"plantcare/entities"
	"plantcare/pkg/ai"
	"plantcare/pkg/apperr"
	"plantcare/pkg/careplan/repositoryImp"
	"plantcare/pkg/careplan/service"
	logRepoImp "plantcare/pkg/carelog/repositoryImp"
	hhRepoImp "plantcare/pkg/household/repositoryImp"
	hhSvcImp "plantcare/pkg/household/serviceImp"
	plantRepoImp "plantcare/pkg/plant/repositoryImp"
	setRepoImp "plantcare/pkg/settings/repositoryImp"
	setSvc "plantcare/pkg/settings/service"
	setSvcImp "plantcare/pkg/settings/serviceImp"
	guideRepoImp "plantcare/pkg/guide/repositoryImp"
	guideSvc "plantcare/pkg/guide/service"
	guideSvcImp "plantcare/pkg/guide/serviceImp"
	taskRepoImp "plantcare/pkg/task/repositoryImp"
	"plantcare/pkg/testutil"
)

type fixture struct {
	db       *gorm.DB
	svc      *PlanSvc
	ai       *ai.Mock
	settings setSvc.SettingsService
}

func newFixture(t *testing.T, today string) *fixture {
	t.Helper()
	db := testutil.OpenDB(t)
	tx := database.NewTransactor(db)
	plants := plantRepoImp.New(db)
	settings := setSvcImp.New(setRepoImp.New(db))
	mock := ai.NewMock()
	svc := New(Deps{
		Plans:    repositoryImp.New(db),
		Tasks:    taskRepoImp.New(db),
		Logs:     logRepoImp.New(db),
		Plants:   plants,
		Access:   hhSvcImp.New(hhRepoImp.New(db), plants, tx),
		Settings: settings,
		AI:       mock,
		Tx:       tx,
		Now:      testutil.FixedClock(today),
	})
	return &fixture{db: db, svc: svc, ai: mock, settings: settings}
}

func (f *fixture) pending(t *testing.T, plantID uint) map[string]entities.Task {
	t.Helper()
	var ts []entities.Task
	require.NoError(t, f.db.Where("plant_id = ? AND completed_at IS NULL AND skipped_at IS NULL", plantID).Find(&ts).Error)
	out := map[string]entities.Task{}
	for _, task := range ts {
		out[task.TaskType] = task
	}
	return out
}

func (f *fixture) activePlans(t *testing.T, plantID uint) int64 {
	t.Helper()
	var n int64
	require.NoError(t, f.db.Model(&entities.CarePlan{}).Where("plant_id = ? AND is_active = ?", plantID, true).Count(&n).Error)
	return n
}

func draftWith(tasks ...ai.DraftTask) *ai.PlanDraft {
	return &ai.PlanDraft{Reasoning: "tailored", NextPhotoCheck: "2024-05-01", PhotoCheckReason: "new leaves", Tasks: tasks}
}

func every(days int) *entities.Recurrence {
	return &entities.Recurrence{Type: entities.RecurDays, Interval: days}
}

func allTypesDraft(due string) *ai.PlanDraft {
	var ts []ai.DraftTask
	for _, typ := range []string{entities.TaskWater, entities.TaskFertilize, entities.TaskRotate, entities.TaskChangeWater, entities.TaskCheck, entities.TaskMist} {
		ts = append(ts, ai.DraftTask{Type: typ, DueDate: due, Recurrence: every(7), Priority: "normal"})
	}
	return draftWith(ts...)
}

func TestGenerateStoresProviderPlan(t *testing.T) {
	f := newFixture(t, "2024-04-10")
	f.ai.Draft = draftWith(
		ai.DraftTask{Type: "Water", DueDate: "2024-04-11", Recurrence: every(6), Instructions: " Soak ", Priority: "HIGH"},
		ai.DraftTask{Type: "prune", DueDate: "2024-03-01", Priority: "whenever"},
		ai.DraftTask{Type: "water", DueDate: "2024-04-11", Recurrence: every(6)},
		ai.DraftTask{Type: " "},
	)
	p := testutil.SeedPlant(t, f.db, "u1", func(p *entities.Plant) { p.Species = testutil.Str("Monstera deliciosa") })

	plan, err := f.svc.Generate(context.Background(), p, service.TriggerRegenerate)
	require.NoError(t, err)
	assert.Equal(t, entities.SourceAI, plan.Source)
	assert.Equal(t, "spring", plan.Season)
	assert.Equal(t, "tailored", plan.AIReasoning)
	assert.Equal(t, "2024-05-01", plan.NextPhotoCheck)
	assert.Equal(t, service.TriggerRegenerate, plan.Trigger)
	assert.NotEmpty(t, plan.DraftJSON)
	require.Len(t, plan.Tasks, 2)

	tasks := f.pending(t, p.ID)
	water := tasks[entities.TaskWater]
	assert.Equal(t, "2024-04-11", water.DueDate)
	assert.Equal(t, entities.PriorityHigh, water.Priority)
	assert.Equal(t, "Soak", water.Instructions)
	assert.Equal(t, plan.ID, *water.CarePlanID)
	trim := tasks[entities.TaskTrim]
	assert.Equal(t, "2024-04-10", trim.DueDate)
	assert.Equal(t, entities.PriorityNormal, trim.Priority)
	assert.Nil(t, trim.Recurrence)

	require.Len(t, f.ai.Prompts, 1)
	assert.Contains(t, f.ai.Prompts[0], "Monstera deliciosa")
}

func TestGenerateFallsBackWhenProviderFails(t *testing.T) {
	for name, setup := range map[string]func(m *ai.Mock){
		"error":       func(m *ai.Mock) { m.Err = errors.New("timeout") },
		"empty draft": func(m *ai.Mock) { m.Draft = draftWith() },
	} {
		t.Run(name, func(t *testing.T) {
			f := newFixture(t, "2024-07-01")
			setup(f.ai)
			p := testutil.SeedPlant(t, f.db, "u1")

			plan, err := f.svc.Generate(context.Background(), p, service.TriggerRegenerate)
			require.NoError(t, err)
			assert.Equal(t, entities.SourceFallback, plan.Source)
			assert.GreaterOrEqual(t, len(plan.Tasks), 3)
			assert.Equal(t, "2024-07-15", plan.NextPhotoCheck)

			water := f.pending(t, p.ID)[entities.TaskWater]
			assert.Equal(t, "2024-07-01", water.DueDate)
			assert.Equal(t, 5, water.Recurrence.Interval)
		})
	}
}

func TestFallbackDraftBySeason(t *testing.T) {
	p := &entities.Plant{}
	winter := fallbackDraft(p, "winter", testutil.FixedClock("2024-01-15")())
	assert.Equal(t, 10, winter.Tasks[0].Recurrence.Interval)
	assert.Equal(t, 60, winter.Tasks[2].Recurrence.Interval)
	assert.Equal(t, "2024-01-29", winter.Tasks[2].DueDate)

	fall := fallbackDraft(p, "fall", testutil.FixedClock("2024-10-15")())
	assert.Equal(t, 7, fall.Tasks[0].Recurrence.Interval)
	assert.Equal(t, 30, fall.Tasks[2].Recurrence.Interval)
	assert.Len(t, fall.Tasks, 3)

	cutting := &entities.Plant{IsPropagation: true, SoilType: "Water"}
	assert.Len(t, fallbackDraft(cutting, "fall", testutil.FixedClock("2024-10-15")()).Tasks, 4)
}

func TestPropagationInWaterDropsSoilTasks(t *testing.T) {
	f := newFixture(t, "2024-04-10")
	f.ai.Draft = allTypesDraft("2024-04-12")
	p := testutil.SeedPlant(t, f.db, "u1", func(p *entities.Plant) {
		p.IsPropagation = true
		p.SoilType = "water"
	})

	_, err := f.svc.Generate(context.Background(), p, service.TriggerPlantCreated)
	require.NoError(t, err)
	tasks := f.pending(t, p.ID)
	assert.Contains(t, tasks, entities.TaskChangeWater)
	assert.Contains(t, tasks, entities.TaskCheck)
	assert.Contains(t, tasks, entities.TaskMist)
	assert.NotContains(t, tasks, entities.TaskWater)
	assert.NotContains(t, tasks, entities.TaskFertilize)
	assert.NotContains(t, tasks, entities.TaskRotate)
}

func TestPropagationInSoilDropsChangeWater(t *testing.T) {
	f := newFixture(t, "2024-04-10")
	f.ai.Draft = allTypesDraft("2024-04-12")
	p := testutil.SeedPlant(t, f.db, "u1", func(p *entities.Plant) { p.IsPropagation = true })

	_, err := f.svc.Generate(context.Background(), p, service.TriggerPlantCreated)
	require.NoError(t, err)
	tasks := f.pending(t, p.ID)
	assert.NotContains(t, tasks, entities.TaskChangeWater)
	assert.Contains(t, tasks, entities.TaskWater)
	assert.Contains(t, tasks, entities.TaskRotate)
}

func TestDisabledTypesAndFixedPlantsAreFiltered(t *testing.T) {
	f := newFixture(t, "2024-04-10")
	f.ai.Draft = allTypesDraft("2024-04-12")
	fixed := false
	p := testutil.SeedPlant(t, f.db, "u1", func(p *entities.Plant) { p.CanRotate = &fixed })
	_, err := f.settings.SetDisabled(context.Background(), "u1", []string{entities.TaskMist})
	require.NoError(t, err)

	plan, err := f.svc.Generate(context.Background(), p, service.TriggerRegenerate)
	require.NoError(t, err)
	for _, task := range plan.Tasks {
		assert.NotEqual(t, entities.TaskMist, task.TaskType)
		assert.NotEqual(t, entities.TaskRotate, task.TaskType)
	}
	assert.Contains(t, f.pending(t, p.ID), entities.TaskWater)
}

func TestRegeneratePreservesHistory(t *testing.T) {
	f := newFixture(t, "2024-04-10")
	f.ai.Draft = draftWith(
		ai.DraftTask{Type: "water", DueDate: "2024-04-10", Recurrence: every(7)},
		ai.DraftTask{Type: "mist", DueDate: "2024-04-11", Recurrence: every(3)},
	)
	p := testutil.SeedPlant(t, f.db, "u1")
	ctx := context.Background()

	first, err := f.svc.Generate(ctx, p, service.TriggerInitial)
	require.NoError(t, err)
	done := first.Tasks[0]
	now := time.Date(2024, 4, 10, 9, 0, 0, 0, time.UTC)
	require.NoError(t, f.db.Model(&entities.Task{}).Where("id = ?", done.ID).
		Updates(map[string]any{"completed_at": now, "completed_by": "u1"}).Error)
	require.NoError(t, f.db.Create(&entities.CareLogEntry{PlantID: p.ID, Action: "water", Outcome: entities.OutcomePositive, PerformedBy: "u1", PerformedAt: now}).Error)

	second, err := f.svc.Regenerate(ctx, "u1", p.ID)
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)
	assert.EqualValues(t, 1, f.activePlans(t, p.ID))

	var old entities.CarePlan
	require.NoError(t, f.db.First(&old, first.ID).Error)
	assert.False(t, old.IsActive)

	var kept entities.Task
	require.NoError(t, f.db.First(&kept, done.ID).Error)
	assert.NotNil(t, kept.CompletedAt)

	var stale int64
	require.NoError(t, f.db.Model(&entities.Task{}).Where("care_plan_id = ? AND completed_at IS NULL", first.ID).Count(&stale).Error)
	assert.Zero(t, stale)

	var logs int64
	require.NoError(t, f.db.Model(&entities.CareLogEntry{}).Where("plant_id = ?", p.ID).Count(&logs).Error)
	assert.EqualValues(t, 1, logs)
}

func TestRegenerateIsOwnerOnly(t *testing.T) {
	f := newFixture(t, "2024-04-10")
	p := testutil.SeedPlant(t, f.db, "owner")
	_, err := f.svc.Regenerate(context.Background(), "stranger", p.ID)
	assert.True(t, apperr.IsNotFound(err))
	assert.Zero(t, f.activePlans(t, p.ID))
}

func TestActiveGeneratesOnFirstRead(t *testing.T) {
	f := newFixture(t, "2024-04-10")
	p := testutil.SeedPlant(t, f.db, "u1")
	ctx := context.Background()

	plan, err := f.svc.Active(ctx, "u1", p.ID)
	require.NoError(t, err)
	assert.Equal(t, service.TriggerInitial, plan.Trigger)
	assert.Equal(t, 1, f.ai.CallCount("care_plan"))

	again, err := f.svc.Active(ctx, "u1", p.ID)
	require.NoError(t, err)
	assert.Equal(t, plan.ID, again.ID)
	assert.Len(t, again.Tasks, len(plan.Tasks))
	assert.Equal(t, 1, f.ai.CallCount("care_plan"))
}

func TestArchivedPlantHasNoPlan(t *testing.T) {
	f := newFixture(t, "2024-04-10")
	p := testutil.SeedPlant(t, f.db, "u1")
	ctx := context.Background()
	_, err := f.svc.Generate(ctx, p, service.TriggerInitial)
	require.NoError(t, err)

	require.NoError(t, f.svc.Deactivate(ctx, p.ID))
	assert.Zero(t, f.activePlans(t, p.ID))
	assert.Empty(t, f.pending(t, p.ID))

	archivedAt := time.Date(2024, 4, 10, 9, 0, 0, 0, time.UTC)
	require.NoError(t, f.db.Model(p).Update("archived_at", archivedAt).Error)
	p.ArchivedAt = &archivedAt

	_, err = f.svc.Active(ctx, "u1", p.ID)
	assert.True(t, apperr.IsNotFound(err))
	_, err = f.svc.Generate(ctx, p, service.TriggerRegenerate)
	assert.True(t, apperr.IsConflict(err))
}

func TestGuideNotesReachThePrompt(t *testing.T) {
	f := newFixture(t, "2024-04-10")
	guides := guideSvcImp.New(guideRepoImp.New(f.db), nil)
	_, err := guides.Ingest(context.Background(), guideSvc.NewGuide{
		Title: "Monstera handbook", Species: "monstera", Text: "Monstera care: wipe leaves monthly.",
	})
	require.NoError(t, err)
	f.svc.guides = guides
	p := testutil.SeedPlant(t, f.db, "u1", func(p *entities.Plant) { p.Species = testutil.Str("Monstera deliciosa") })

	_, err = f.svc.Generate(context.Background(), p, service.TriggerRegenerate)
	require.NoError(t, err)
	require.Len(t, f.ai.Prompts, 1)
	assert.Contains(t, f.ai.Prompts[0], "## Monstera handbook")
	assert.Contains(t, f.ai.Prompts[0], "wipe leaves monthly")
}
