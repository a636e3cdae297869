package app

import (
	"context"

	"carelink/config"
	"carelink/internal/controllers"
	"carelink/internal/database"
	"carelink/internal/events"
	"carelink/internal/handlers/middleware"
	"carelink/internal/jobs"
	"carelink/internal/repositories"
	"carelink/internal/services"

	logger "github.com/Bparsons0904/goLogger"
)

type App struct {
	Database    database.DB
	Middleware  middleware.Middleware
	EventBus    *events.EventBus
	Config      config.Config
	Repos       repositories.Repository
	Services    services.Service
	Controllers controllers.Controllers
}

func New() (*App, error) {
	log := logger.New("app").Function("New")

	config, err := config.InitConfig()
	if err != nil {
		return &App{}, log.Err("failed to initialize config", err)
	}

	db, err := database.New(config)
	if err != nil {
		return &App{}, log.Err("failed to create database", err)
	}

	eventBus := events.New(db.Cache.Events, config)

	repos := repositories.New(db)

	svcs, err := services.New(db, repos, eventBus, config)
	if err != nil {
		return &App{}, log.Err("failed to create services", err)
	}

	mw := middleware.New(db, eventBus, config, repos)
	ctrls := controllers.New(svcs, repos, eventBus, config, db)

	// All replicas drop the per-user recommendation cache when any one
	// of them invalidates it.
	err = eventBus.Subscribe(events.CACHE_INVALIDATION_CHANNEL, func(event events.Event) error {
		if event.UserID == nil {
			return nil
		}
		repos.Recommendation.ClearUserCache(context.Background(), *event.UserID)
		return nil
	})
	if err != nil {
		return &App{}, log.Err("failed to subscribe to cache invalidation", err)
	}

	if config.SchedulerEnabled {
		refreshJob := jobs.NewRecommendationRefreshJob(
			repos.LabResult,
			svcs.Recommendation,
			services.Daily,
		)
		if err := svcs.Scheduler.AddJob(refreshJob); err != nil {
			return &App{}, log.Err("failed to register recommendation refresh job", err)
		}
		log.Info("Registered recommendation refresh job with scheduler")

		if err := svcs.Scheduler.Start(context.Background()); err != nil {
			return &App{}, log.Err("failed to start scheduler", err)
		}
	}

	app := &App{
		Database:    db,
		Config:      config,
		Middleware:  mw,
		EventBus:    eventBus,
		Repos:       repos,
		Services:    svcs,
		Controllers: ctrls,
	}

	if err := app.validate(); err != nil {
		return &App{}, log.Err("failed to validate app", err)
	}

	return app, nil
}

func (a *App) validate() error {
	log := logger.New("app").Function("validate")

	if a.Database.SQL == nil {
		return log.ErrMsg("database is nil")
	}

	if a.Config == (config.Config{}) {
		return log.ErrMsg("config is nil")
	}

	nilChecks := []any{
		a.EventBus,
		a.Services.Token,
		a.Services.Transaction,
		a.Services.Access,
		a.Services.Recommendation,
		a.Services.Scheduler,
		a.Controllers.Care,
		a.Controllers.Recommendation,
		a.Controllers.Lab,
		a.Controllers.Diary,
		a.Controllers.Medication,
		a.Controllers.Reminder,
	}

	for _, check := range nilChecks {
		if check == nil {
			return log.ErrMsg("nil check failed")
		}
	}

	return nil
}

func (a *App) Close() (err error) {
	if a.EventBus != nil {
		if closeErr := a.EventBus.Close(); closeErr != nil {
			err = closeErr
		}
	}

	if a.Services.Scheduler != nil {
		if closeErr := a.Services.Scheduler.Stop(context.Background()); closeErr != nil {
			err = closeErr
		}
	}

	if dbErr := a.Database.Close(); dbErr != nil {
		err = dbErr
	}

	return err
}
