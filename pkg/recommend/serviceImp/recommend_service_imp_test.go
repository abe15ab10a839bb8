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
	cpRepoImp "plantcare/pkg/careplan/repositoryImp"
	logRepoImp "plantcare/pkg/carelog/repositoryImp"
	hhRepoImp "plantcare/pkg/household/repositoryImp"
	hhSvcImp "plantcare/pkg/household/serviceImp"
	plantRepoImp "plantcare/pkg/plant/repositoryImp"
	taskRepoImp "plantcare/pkg/task/repositoryImp"
	"plantcare/pkg/testutil"
)

func newRecommender(t *testing.T, db *gorm.DB, mock *ai.Mock) *RecommendSvc {
	t.Helper()
	plants := plantRepoImp.New(db)
	return New(Deps{
		Tasks:  taskRepoImp.New(db),
		Plants: plants,
		Plans:  cpRepoImp.New(db),
		Logs:   logRepoImp.New(db),
		Access: hhSvcImp.New(hhRepoImp.New(db), plants, database.NewTransactor(db)),
		AI:     mock,
		Now:    testutil.FixedClock("2024-01-15"),
	})
}

func TestForTaskUsesProviderAnswer(t *testing.T) {
	db := testutil.OpenDB(t)
	mock := ai.NewMock()
	mock.Text = "```json\n{\"summary\": \"Give it a deep drink.\", \"steps\": [\"water\"], \"amount\": \"400ml\", \"timing\": \"morning\"}\n```"
	svc := newRecommender(t, db, mock)
	p := testutil.SeedPlant(t, db, "u1", func(p *entities.Plant) { p.Notes = "drafty window" })
	task := testutil.SeedTask(t, db, p.ID, entities.TaskWater, "2024-01-15", nil)
	require.NoError(t, db.Create(&entities.CarePlan{PlantID: p.ID, IsActive: true, Season: "winter", AIReasoning: "keep it dry"}).Error)

	res, err := svc.ForTask(context.Background(), "u1", task.ID)
	require.NoError(t, err)
	assert.Equal(t, entities.SourceAI, res.Recommendation.Source)
	assert.Equal(t, "Give it a deep drink.", res.Recommendation.Summary)
	assert.Equal(t, []string{}, res.Recommendation.Warnings)
	assert.Equal(t, "winter", res.Season.Season)
	assert.Equal(t, task.ID, res.Task.ID)

	require.Len(t, mock.Prompts, 1)
	assert.Contains(t, mock.Prompts[0], "Owner's Notes: drafty window")
	assert.Contains(t, mock.Prompts[0], "AI Care Notes: keep it dry")
}

func TestForTaskFallsBack(t *testing.T) {
	db := testutil.OpenDB(t)
	mock := ai.NewMock()
	mock.Err = errors.New("down")
	svc := newRecommender(t, db, mock)
	p := testutil.SeedPlant(t, db, "u1", func(p *entities.Plant) {
		p.Species = testutil.Str("Golden barrel cactus")
		p.PotSize = "small"
	})
	task := testutil.SeedTask(t, db, p.ID, entities.TaskWater, "2024-01-15", nil)
	for i := 0; i < 5; i++ {
		require.NoError(t, db.Create(&entities.CareLogEntry{
			PlantID: p.ID, Action: "health_update", Notes: "Health changed", PerformedBy: "u1",
			PerformedAt: time.Date(2024, 1, 1+i, 9, 0, 0, 0, time.UTC),
		}).Error)
	}

	res, err := svc.ForTask(context.Background(), "u1", task.ID)
	require.NoError(t, err)
	r := res.Recommendation
	assert.Equal(t, entities.SourceFallback, r.Source)
	assert.Equal(t, "Soak thoroughly, then wait until bone dry", r.Amount)
	assert.Contains(t, r.Tips[0], "Seasonal note (winter)")
}

func TestRecommendRejectsProviderAnswerWithoutSummary(t *testing.T) {
	db := testutil.OpenDB(t)
	mock := ai.NewMock()
	mock.Text = `{"steps": ["water"]}`
	svc := newRecommender(t, db, mock)

	r := svc.Recommend(context.Background(), input(entities.TaskRotate, "medium", entities.HealthHealthy, "spring"))
	assert.Equal(t, entities.SourceFallback, r.Source)
	assert.Equal(t, "Turn Monty 1/4 turn for even light exposure.", r.Summary)
}

func TestForTaskHidesForeignTasks(t *testing.T) {
	db := testutil.OpenDB(t)
	svc := newRecommender(t, db, ai.NewMock())
	p := testutil.SeedPlant(t, db, "owner")
	task := testutil.SeedTask(t, db, p.ID, entities.TaskWater, "2024-01-15", nil)

	_, err := svc.ForTask(context.Background(), "stranger", task.ID)
	assert.True(t, apperr.IsNotFound(err))
	_, err = svc.ForTask(context.Background(), "owner", 999)
	assert.True(t, apperr.IsNotFound(err))
}
