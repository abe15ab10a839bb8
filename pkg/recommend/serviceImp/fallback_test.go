package serviceImp

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"plantcare/entities"
	"plantcare/pkg/recommend/service"
	"plantcare/pkg/season"
)

func input(taskType, pot, health, seasonName string) service.Input {
	return service.Input{
		Task:   entities.Task{TaskType: taskType},
		Plant:  entities.Plant{Name: "Monty", PotSize: pot, HealthStatus: health},
		Season: season.ContextFor(seasonName),
	}
}

func TestFallbackWaterAmountByPot(t *testing.T) {
	for pot, want := range map[string]string{
		"small": "100-200ml", "medium": "300-500ml", "large": "500-750ml", "xlarge": "1-1.5L", "huge": "300-500ml", "": "300-500ml",
	} {
		r := fallback(input(entities.TaskWater, pot, entities.HealthHealthy, season.Spring), false)
		assert.Equal(t, want, r.Amount, "pot=%q", pot)
		assert.Equal(t, entities.SourceFallback, r.Source)
		assert.Len(t, r.Steps, 4)
	}
}

func TestFallbackAridPlants(t *testing.T) {
	water := fallback(input(entities.TaskWater, "small", entities.HealthHealthy, season.Summer), true)
	assert.Equal(t, "Soak thoroughly, then wait until bone dry", water.Amount)
	assert.Contains(t, water.Warnings, "Succulents prefer to dry out completely between waterings")

	mist := fallback(input(entities.TaskMist, "small", entities.HealthHealthy, season.Summer), true)
	assert.Contains(t, mist.Warnings, "Skip misting! Succulents and cacti prefer dry conditions.")
}

func TestFallbackWarningsAndTips(t *testing.T) {
	r := fallback(input(entities.TaskFertilize, "large", entities.HealthCritical, season.Winter), false)
	assert.Equal(t, "1/2-full strength dilution", r.Amount)
	assert.Len(t, r.Warnings, 2)
	assert.Contains(t, r.Warnings[0], "currently critical")
	assert.Equal(t, "Most plants don't need fertilizer in winter - consider skipping", r.Warnings[1])
	assert.Contains(t, r.Tips[0], "Seasonal note (winter):")

	healthy := fallback(input(entities.TaskFertilize, "medium", entities.HealthHealthy, season.Summer), false)
	assert.Empty(t, healthy.Warnings)
}

func TestFallbackCoversEveryTaskType(t *testing.T) {
	for _, typ := range append(entities.DefaultTaskTypes, "prune", "dust_leaves") {
		r := fallback(input(typ, "medium", entities.HealthHealthy, season.Fall), false)
		assert.NotEmpty(t, r.Summary, typ)
		assert.NotEmpty(t, r.Steps, typ)
		assert.NotEmpty(t, r.Timing, typ)
	}
	r := fallback(input("dust_leaves", "medium", entities.HealthHealthy, season.Fall), false)
	assert.Equal(t, "Complete the dust_leaves task for Monty.", r.Summary)
}
