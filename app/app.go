// Package app wires repositories, services and controllers for the server
// and the CLI.
package app

import (
	"context"
	"log"
	"time"

	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"gorm.io/gorm"

	"plantcare/config"
	"plantcare/database"
	"plantcare/entities"
	"plantcare/pkg/ai"
	"plantcare/pkg/species"
	"plantcare/router"

	authCtrlImp "plantcare/pkg/auth/controllerImp"
	healthCtrlImp "plantcare/pkg/health/controllerImp"

	plantCtrlImp "plantcare/pkg/plant/controllerImp"
	plantRepoImp "plantcare/pkg/plant/repositoryImp"
	plantSvcImp "plantcare/pkg/plant/serviceImp"

	planCtrlImp "plantcare/pkg/careplan/controllerImp"
	planRepoImp "plantcare/pkg/careplan/repositoryImp"
	planSvcImp "plantcare/pkg/careplan/serviceImp"

	taskCtrlImp "plantcare/pkg/task/controllerImp"
	taskRepoImp "plantcare/pkg/task/repositoryImp"
	taskSvcImp "plantcare/pkg/task/serviceImp"

	logCtrlImp "plantcare/pkg/carelog/controllerImp"
	logRepoImp "plantcare/pkg/carelog/repositoryImp"
	logSvcImp "plantcare/pkg/carelog/serviceImp"

	hhCtrlImp "plantcare/pkg/household/controllerImp"
	hhRepoImp "plantcare/pkg/household/repositoryImp"
	hhSvcImp "plantcare/pkg/household/serviceImp"

	setCtrlImp "plantcare/pkg/settings/controllerImp"
	setRepoImp "plantcare/pkg/settings/repositoryImp"
	setSvcImp "plantcare/pkg/settings/serviceImp"

	recCtrlImp "plantcare/pkg/recommend/controllerImp"
	recSvcImp "plantcare/pkg/recommend/serviceImp"

	chatCtrlImp "plantcare/pkg/chat/controllerImp"
	chatSvcImp "plantcare/pkg/chat/serviceImp"

	guideCtrlImp "plantcare/pkg/guide/controllerImp"
	guideEmbedder "plantcare/pkg/guide/embedder"
	guideRepoImp "plantcare/pkg/guide/repositoryImp"
	guideSvcImp "plantcare/pkg/guide/serviceImp"
)

type App struct {
	Cfg     config.AppConfig
	DB      *gorm.DB
	AI      ai.Client
	Species *species.Catalog

	Plants     *plantSvcImp.PlantSvc
	Plans      *planSvcImp.PlanSvc
	Tasks      *taskSvcImp.TaskSvc
	Recommends *recSvcImp.RecommendSvc

	controllers router.Controllers
}

// New builds the object graph. now may be nil.
func New(cfg config.AppConfig, db *gorm.DB, client ai.Client, now func() time.Time) *App {
	if now == nil {
		loc := cfg.Location()
		now = func() time.Time { return time.Now().In(loc) }
	}
	if client == nil {
		client = ai.FromConfig(cfg)
	}
	client = ai.WithUsage(client, ai.NewUsageLog(db))

	catalog, err := species.Load(cfg.SpeciesCSV, cfg.SpeciesXLSX)
	if err != nil {
		log.Printf("[species] warn: %v", err)
	}

	tx := database.NewTransactor(db)

	plantRepo := plantRepoImp.New(db)
	planRepo := planRepoImp.New(db)
	taskRepo := taskRepoImp.New(db)
	logRepo := logRepoImp.New(db)

	households := hhSvcImp.New(hhRepoImp.New(db), plantRepo, tx)
	settings := setSvcImp.New(setRepoImp.New(db))
	careLog := logSvcImp.New(logRepo, households, now)

	guides := guideSvcImp.New(guideRepoImp.New(db), guideEmbedder.New(cfg.EmbEndpoint, cfg.EmbAPIKey, cfg.EmbModel))

	plans := planSvcImp.New(planSvcImp.Deps{
		Plans: planRepo, Tasks: taskRepo, Logs: logRepo, Plants: plantRepo, Access: households,
		Settings: settings, Species: catalog, Guides: guides, AI: client, Tx: tx,
		Now: now, AITimeout: cfg.AITimeout,
	})
	tasks := taskSvcImp.New(taskSvcImp.Deps{
		Tasks: taskRepo, Logs: logRepo, Plants: plantRepo, Access: households, History: careLog,
		AI: client, Tx: tx, Now: now, BulkLimit: cfg.BulkLimit, AITimeout: cfg.AITimeout,
	})
	plants := plantSvcImp.New(plantSvcImp.Deps{
		Plants: plantRepo, Logs: logRepo, Access: households, Plans: plans,
		AI: client, Tx: tx, Now: now, AITimeout: cfg.AITimeout,
	})
	recs := recSvcImp.New(recSvcImp.Deps{
		Tasks: taskRepo, Plants: plantRepo, Plans: planRepo, Logs: logRepo, Access: households,
		Species: catalog, AI: client, Now: now, AITimeout: cfg.AITimeout,
	})
	chat := chatSvcImp.New(chatSvcImp.Deps{
		Plants: plants, Logs: logRepo, Tasks: taskRepo, Plans: plans, AI: client, AITimeout: cfg.AITimeout,
	})

	return &App{
		Cfg: cfg, DB: db, AI: client, Species: catalog,
		Plants: plants, Plans: plans, Tasks: tasks, Recommends: recs,
		controllers: router.Controllers{
			Auth:      authCtrlImp.NewAuthController(cfg.RequireUser),
			Health:    healthCtrlImp.NewHealthCtrl(db, client.Provider(), catalog.Len()),
			Plant:     plantCtrlImp.New(plants),
			CarePlan:  planCtrlImp.New(plans),
			Task:      taskCtrlImp.New(tasks),
			CareLog:   logCtrlImp.New(careLog),
			Recommend: recCtrlImp.New(recs),
			Chat:      chatCtrlImp.New(chat),
			Settings:  setCtrlImp.New(settings),
			Household: hhCtrlImp.New(households),
			Guide:     guideCtrlImp.New(guides, cfg.GuideAllowedDomains, cfg.GuideMaxBytes),
		},
	}
}

// Echo returns a configured server with every route registered.
func (a *App) Echo() *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Use(echoMiddleware.Recover())
	e.Use(echoMiddleware.RequestIDWithConfig(echoMiddleware.RequestIDConfig{
		Generator: uuidString,
	}))
	e.Use(echoMiddleware.Logger())
	return router.New(e, a.controllers, a.Cfg.RequireUser)
}

// PlantByID loads a plant without an access check, for operator tooling.
func (a *App) PlantByID(ctx context.Context, id uint) (*entities.Plant, error) {
	return plantRepoImp.New(a.DB).FindByID(ctx, id)
}
