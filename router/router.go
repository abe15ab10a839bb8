package router

import (
	"github.com/labstack/echo/v4"

	authctrl "plantcare/pkg/auth/controller"
	logctrl "plantcare/pkg/carelog/controller"
	planctrl "plantcare/pkg/careplan/controller"
	chatctrl "plantcare/pkg/chat/controller"
	guidectrl "plantcare/pkg/guide/controller"
	hhctrl "plantcare/pkg/household/controller"
	"plantcare/pkg/middleware"
	plantctrl "plantcare/pkg/plant/controller"
	recctrl "plantcare/pkg/recommend/controller"
	setctrl "plantcare/pkg/settings/controller"
	taskctrl "plantcare/pkg/task/controller"
)

type Controllers struct {
	Auth      authctrl.AuthController
	Health    interface{ Health(echo.Context) error }
	Plant     plantctrl.PlantController
	CarePlan  planctrl.CarePlanController
	Task      taskctrl.TaskController
	CareLog   logctrl.CareLogController
	Recommend recctrl.RecommendController
	Chat      chatctrl.ChatController
	Settings  setctrl.SettingsController
	Household hhctrl.HouseholdController
	Guide     guidectrl.GuideController
}

func New(e *echo.Echo, c Controllers, requireUser bool) *echo.Echo {
	e.GET("/health", c.Health.Health)

	api := e.Group("", middleware.Identity(requireUser))
	api.GET("/whoami", c.Auth.WhoAmI)
	api.GET("/devlogin", c.Auth.DevLogin)

	api.POST("/plants", c.Plant.Create)
	api.GET("/plants/:id", c.Plant.Get)
	api.PATCH("/plants/:id", c.Plant.Update)
	api.POST("/plants/:id/archive", c.Plant.Archive)
	api.POST("/plants/:id/confirm-species", c.Plant.ConfirmSpecies)
	api.POST("/plants/:id/identify", c.Plant.Identify)
	api.POST("/plants/:id/health-check", c.Plant.HealthCheck)

	api.GET("/plants/:id/care-plan", c.CarePlan.Get)
	api.POST("/plants/:id/care-plan/regenerate", c.CarePlan.Regenerate)
	api.GET("/plants/:id/tasks", c.Task.ForPlant)
	api.GET("/plants/:id/care-log", c.CareLog.List)
	api.POST("/plants/:id/care-log", c.CareLog.Create)
	api.POST("/plants/:id/chat", c.Chat.Chat)
	api.POST("/plants/:id/chat/apply-action", c.Chat.ApplyAction)

	// static segments before /tasks/:id
	api.GET("/tasks/today", c.Task.Today)
	api.GET("/tasks/upcoming", c.Task.Upcoming)
	api.POST("/tasks/bulk-complete", c.Task.BulkComplete)
	api.POST("/tasks/:id/complete", c.Task.Complete)
	api.POST("/tasks/:id/skip", c.Task.Skip)
	api.GET("/tasks/:id/recommendations", c.Recommend.ForTask)
	api.POST("/tasks/:id/adjust-schedule", c.Task.AdjustSchedule)
	api.POST("/tasks/:id/apply-adjustment", c.Task.ApplyAdjustment)

	api.GET("/settings/task-types", c.Settings.TaskTypes)
	api.PUT("/settings/task-types", c.Settings.PutTaskTypes)

	api.POST("/households", c.Household.Create)
	api.POST("/households/:id/members", c.Household.AddMember)
	api.POST("/households/:id/plants", c.Household.SharePlant)

	api.POST("/guides/ingest", c.Guide.IngestText)
	api.POST("/guides/ingest/url", c.Guide.IngestURL)
	api.GET("/guides/search", c.Guide.Search)
	return e
}
