package serviceImp

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"plantcare/entities"
	"plantcare/pkg/apperr"
	"plantcare/pkg/testutil"
)

// Next occurrences are based on the original due date: completing late
// does not shift the cadence.
func TestCompleteSchedulesNextFromOriginalDueDate(t *testing.T) {
	f := newFixture(t, "2024-01-05")
	p := testutil.SeedPlant(t, f.db, "u1")
	task := testutil.SeedTask(t, f.db, p.ID, entities.TaskWater, "2024-01-01", weekly())

	res, err := f.svc.Complete(context.Background(), "u1", task.ID, "  soaked  ")
	require.NoError(t, err)
	require.NotNil(t, res.Next)
	assert.Equal(t, "2024-01-08", res.Next.DueDate)
	assert.Equal(t, entities.TaskCompleted, res.Task.Status())
	assert.Equal(t, "u1", *res.Task.CompletedBy)

	pending := f.pending(t, p.ID, entities.TaskWater)
	require.Len(t, pending, 1)
	assert.Equal(t, "2024-01-08", pending[0].DueDate)
	assert.Equal(t, 7, pending[0].Recurrence.Interval)

	logs := f.logs(t, p.ID)
	require.Len(t, logs, 1)
	assert.Equal(t, entities.TaskWater, logs[0].Action)
	assert.Equal(t, entities.OutcomePositive, logs[0].Outcome)
	assert.Equal(t, "soaked", logs[0].Notes)
	assert.Equal(t, task.ID, *logs[0].TaskID)
}

func TestNextDueAddsIntervalInUnits(t *testing.T) {
	tests := []struct {
		rec  entities.Recurrence
		due  string
		want string
	}{
		{entities.Recurrence{Type: entities.RecurDays, Interval: 1}, "2024-02-28", "2024-02-29"},
		{entities.Recurrence{Type: entities.RecurDays, Interval: 7}, "2024-01-01", "2024-01-08"},
		{entities.Recurrence{Type: entities.RecurDays, Interval: 30}, "2024-12-15", "2025-01-14"},
		{entities.Recurrence{Type: entities.RecurWeeks, Interval: 2}, "2024-01-01", "2024-01-15"},
		{entities.Recurrence{Type: entities.RecurMonths, Interval: 1}, "2024-03-10", "2024-04-10"},
	}
	for _, tt := range tests {
		t.Run(tt.rec.Type+"_"+tt.due, func(t *testing.T) {
			f := newFixture(t, tt.due)
			p := testutil.SeedPlant(t, f.db, "u1")
			rec := tt.rec
			task := testutil.SeedTask(t, f.db, p.ID, entities.TaskCheck, tt.due, &rec)
			res, err := f.svc.Complete(context.Background(), "u1", task.ID, "")
			require.NoError(t, err)
			require.NotNil(t, res.Next)
			assert.Equal(t, tt.want, res.Next.DueDate)
		})
	}
}

func TestComputeNextOccurrenceIsIdempotent(t *testing.T) {
	f := newFixture(t, "2024-01-01")
	p := testutil.SeedPlant(t, f.db, "u1")
	task := testutil.SeedTask(t, f.db, p.ID, entities.TaskWater, "2024-01-01", weekly())
	ctx := context.Background()

	first, err := f.svc.ComputeNextOccurrence(ctx, task)
	require.NoError(t, err)
	require.NotNil(t, first)
	second, err := f.svc.ComputeNextOccurrence(ctx, task)
	require.NoError(t, err)
	assert.Nil(t, second)

	var n int64
	require.NoError(t, f.db.Model(&entities.Task{}).Where("plant_id = ? AND due_date = ?", p.ID, "2024-01-08").Count(&n).Error)
	assert.EqualValues(t, 1, n)
}

func TestOneShotTaskHasNoNextOccurrence(t *testing.T) {
	f := newFixture(t, "2024-01-01")
	p := testutil.SeedPlant(t, f.db, "u1")
	task := testutil.SeedTask(t, f.db, p.ID, entities.TaskRepot, "2024-01-01", nil)

	res, err := f.svc.Complete(context.Background(), "u1", task.ID, "")
	require.NoError(t, err)
	assert.Nil(t, res.Next)
	assert.Empty(t, f.pending(t, p.ID, entities.TaskRepot))
}

func TestResolvedTaskConflictsAndIsNotLoggedTwice(t *testing.T) {
	f := newFixture(t, "2024-01-01")
	p := testutil.SeedPlant(t, f.db, "u1")
	task := testutil.SeedTask(t, f.db, p.ID, entities.TaskWater, "2024-01-01", weekly())
	ctx := context.Background()

	_, err := f.svc.Complete(ctx, "u1", task.ID, "")
	require.NoError(t, err)

	_, err = f.svc.Complete(ctx, "u1", task.ID, "")
	assert.True(t, apperr.IsConflict(err))
	_, err = f.svc.Skip(ctx, "u1", task.ID, "changed my mind")
	assert.True(t, apperr.IsConflict(err))

	assert.Len(t, f.logs(t, p.ID), 1)
	assert.Len(t, f.pending(t, p.ID, entities.TaskWater), 1)

	var got entities.Task
	require.NoError(t, f.db.First(&got, task.ID).Error)
	assert.NotNil(t, got.CompletedAt)
	assert.Nil(t, got.SkippedAt)
}

func TestSkipFutureTaskLogsNeutralAndSchedulesNext(t *testing.T) {
	f := newFixture(t, "2024-01-01")
	p := testutil.SeedPlant(t, f.db, "u1")
	task := testutil.SeedTask(t, f.db, p.ID, entities.TaskMist, "2024-01-20", weekly())

	res, err := f.svc.Skip(context.Background(), "u1", task.ID, "on holiday")
	require.NoError(t, err)
	assert.Equal(t, entities.TaskSkipped, res.Task.Status())
	assert.Equal(t, "on holiday", *res.Task.SkipReason)
	require.NotNil(t, res.Next)
	assert.Equal(t, "2024-01-27", res.Next.DueDate)

	logs := f.logs(t, p.ID)
	require.Len(t, logs, 1)
	assert.Equal(t, "skipped_mist", logs[0].Action)
	assert.Equal(t, entities.OutcomeNeutral, logs[0].Outcome)
}

func TestMissingAndForeignTasksAreNotFound(t *testing.T) {
	f := newFixture(t, "2024-01-01")
	p := testutil.SeedPlant(t, f.db, "owner")
	task := testutil.SeedTask(t, f.db, p.ID, entities.TaskWater, "2024-01-01", weekly())
	ctx := context.Background()

	_, err := f.svc.Complete(ctx, "owner", 9999, "")
	assert.True(t, apperr.IsNotFound(err))

	_, err = f.svc.Complete(ctx, "stranger", task.ID, "")
	assert.True(t, apperr.IsNotFound(err))
	_, err = f.svc.Skip(ctx, "stranger", task.ID, "")
	assert.True(t, apperr.IsNotFound(err))
	assert.Empty(t, f.logs(t, p.ID))
}

func TestHouseholdMemberCompletesSharedTask(t *testing.T) {
	f := newFixture(t, "2024-01-01")
	p := testutil.SeedPlant(t, f.db, "owner")
	task := testutil.SeedTask(t, f.db, p.ID, entities.TaskWater, "2024-01-01", weekly())
	f.share(t, "owner", "partner", p.ID)

	res, err := f.svc.Complete(context.Background(), "partner", task.ID, "")
	require.NoError(t, err)
	assert.Equal(t, "partner", *res.Task.CompletedBy)
	assert.Equal(t, "partner", f.logs(t, p.ID)[0].PerformedBy)
}

func TestBulkCompleteIsolatesFailures(t *testing.T) {
	f := newFixture(t, "2024-01-01")
	mine := testutil.SeedPlant(t, f.db, "u1")
	theirs := testutil.SeedPlant(t, f.db, "u2")
	a := testutil.SeedTask(t, f.db, mine.ID, entities.TaskWater, "2024-01-01", weekly())
	b := testutil.SeedTask(t, f.db, mine.ID, entities.TaskMist, "2024-01-01", nil)
	foreign := testutil.SeedTask(t, f.db, theirs.ID, entities.TaskWater, "2024-01-01", nil)
	skipped := testutil.SeedTask(t, f.db, mine.ID, entities.TaskCheck, "2024-01-01", nil)
	ctx := context.Background()
	_, err := f.svc.Skip(ctx, "u1", skipped.ID, "")
	require.NoError(t, err)
	_, err = f.svc.Complete(ctx, "u1", b.ID, "")
	require.NoError(t, err)

	res, err := f.svc.BulkComplete(ctx, "u1", []uint{a.ID, a.ID, b.ID, foreign.ID, skipped.ID, 4242}, "batch")
	require.NoError(t, err)
	assert.ElementsMatch(t, []uint{a.ID, b.ID}, res.Succeeded)
	failed := map[uint]string{}
	for _, fl := range res.Failed {
		failed[fl.ID] = fl.Error
	}
	assert.Equal(t, "task not found", failed[foreign.ID])
	assert.Equal(t, "task not found", failed[4242])
	assert.Contains(t, failed[skipped.ID], "already skipped")

	// b was completed before the batch and must not be logged again
	var n int64
	require.NoError(t, f.db.Model(&entities.CareLogEntry{}).Where("task_id = ?", b.ID).Count(&n).Error)
	assert.EqualValues(t, 1, n)
}

func TestBulkCompleteEnforcesLimit(t *testing.T) {
	f := newFixture(t, "2024-01-01")
	f.svc.bulkLimit = 2
	p := testutil.SeedPlant(t, f.db, "u1")
	var ids []uint
	for _, typ := range []string{entities.TaskWater, entities.TaskMist, entities.TaskCheck} {
		ids = append(ids, testutil.SeedTask(t, f.db, p.ID, typ, "2024-01-01", nil).ID)
	}

	res, err := f.svc.BulkComplete(context.Background(), "u1", ids, "")
	require.NoError(t, err)
	assert.Equal(t, ids[:2], res.Succeeded)
	require.Len(t, res.Failed, 1)
	assert.Equal(t, ids[2], res.Failed[0].ID)
	assert.Contains(t, res.Failed[0].Error, "batch limit of 2")

	_, err = f.svc.BulkComplete(context.Background(), "u1", nil, "")
	assert.True(t, apperr.IsValidation(err))
}

func TestTodayListsSharedAndOrdersByPriority(t *testing.T) {
	f := newFixture(t, "2024-01-10")
	mine := testutil.SeedPlant(t, f.db, "u1")
	shared := testutil.SeedPlant(t, f.db, "u2", func(p *entities.Plant) { p.Name = "Fern" })
	archived := testutil.SeedPlant(t, f.db, "u1")
	f.share(t, "u2", "u1", shared.ID)
	require.NoError(t, f.db.Model(archived).Update("archived_at", testutil.FixedClock("2024-01-09")()).Error)

	low := testutil.SeedTask(t, f.db, mine.ID, entities.TaskCheck, "2024-01-08", nil)
	require.NoError(t, f.db.Model(low).Update("priority", entities.PriorityLow).Error)
	urgent := testutil.SeedTask(t, f.db, shared.ID, entities.TaskWater, "2024-01-10", nil)
	require.NoError(t, f.db.Model(urgent).Update("priority", entities.PriorityUrgent).Error)
	done := testutil.SeedTask(t, f.db, mine.ID, entities.TaskMist, "2024-01-10", nil)
	testutil.SeedTask(t, f.db, mine.ID, entities.TaskFertilize, "2024-01-11", nil)
	testutil.SeedTask(t, f.db, archived.ID, entities.TaskWater, "2024-01-10", nil)
	_, err := f.svc.Complete(context.Background(), "u1", done.ID, "")
	require.NoError(t, err)

	rows, err := f.svc.Today(context.Background(), "u1")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, urgent.ID, rows[0].ID)
	assert.Equal(t, "Fern", rows[0].PlantName)
	assert.Equal(t, low.ID, rows[1].ID)
	assert.Equal(t, done.ID, rows[2].ID)
	assert.Equal(t, entities.TaskCompleted, rows[2].Status)
}

func TestUpcomingWindow(t *testing.T) {
	f := newFixture(t, "2024-01-10")
	p := testutil.SeedPlant(t, f.db, "u1")
	in := testutil.SeedTask(t, f.db, p.ID, entities.TaskWater, "2024-01-12", nil)
	testutil.SeedTask(t, f.db, p.ID, entities.TaskMist, "2024-01-30", nil)
	testutil.SeedTask(t, f.db, p.ID, entities.TaskCheck, "2024-01-09", nil)

	rows, err := f.svc.Upcoming(context.Background(), "u1", 0)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, in.ID, rows[0].ID)
}
