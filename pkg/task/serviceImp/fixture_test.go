package serviceImp

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"plantcare/database"
	"plantcare/entities"
	"plantcare/pkg/ai"
	logRepoImp "plantcare/pkg/carelog/repositoryImp"
	logSvcImp "plantcare/pkg/carelog/serviceImp"
	hhRepoImp "plantcare/pkg/household/repositoryImp"
	hhSvcImp "plantcare/pkg/household/serviceImp"
	plantRepoImp "plantcare/pkg/plant/repositoryImp"
	"plantcare/pkg/task/repositoryImp"
	"plantcare/pkg/testutil"
)

type fixture struct {
	db  *gorm.DB
	svc *TaskSvc
	ai  *ai.Mock
}

func newFixture(t *testing.T, today string) *fixture {
	t.Helper()
	db := testutil.OpenDB(t)
	now := testutil.FixedClock(today)
	tx := database.NewTransactor(db)
	plants := plantRepoImp.New(db)
	logs := logRepoImp.New(db)
	access := hhSvcImp.New(hhRepoImp.New(db), plants, tx)
	mock := ai.NewMock()
	svc := New(Deps{
		Tasks:   repositoryImp.New(db),
		Logs:    logs,
		Plants:  plants,
		Access:  access,
		History: logSvcImp.New(logs, access, now),
		AI:      mock,
		Tx:      tx,
		Now:     now,
	})
	return &fixture{db: db, svc: svc, ai: mock}
}

func (f *fixture) pending(t *testing.T, plantID uint, taskType string) []entities.Task {
	t.Helper()
	var ts []entities.Task
	require.NoError(t, f.db.Where("plant_id = ? AND task_type = ? AND completed_at IS NULL AND skipped_at IS NULL", plantID, taskType).
		Order("due_date").Find(&ts).Error)
	return ts
}

func (f *fixture) logs(t *testing.T, plantID uint) []entities.CareLogEntry {
	t.Helper()
	var es []entities.CareLogEntry
	require.NoError(t, f.db.Where("plant_id = ?", plantID).Order("id").Find(&es).Error)
	return es
}

func (f *fixture) share(t *testing.T, owner, member string, plantID uint) {
	t.Helper()
	hh := hhSvcImp.New(hhRepoImp.New(f.db), plantRepoImp.New(f.db), database.NewTransactor(f.db))
	ctx := context.Background()
	h, err := hh.Create(ctx, owner, "Home")
	require.NoError(t, err)
	_, err = hh.AddMember(ctx, owner, h.ID, member)
	require.NoError(t, err)
	_, err = hh.SharePlant(ctx, owner, h.ID, plantID)
	require.NoError(t, err)
}

func weekly() *entities.Recurrence {
	return &entities.Recurrence{Type: entities.RecurDays, Interval: 7}
}
