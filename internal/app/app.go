// Package app wires store, repositories, bus, aggregation, and alerting into
// the facade the presentation layer consumes.
package app

import (
	"fintrack/internal/aggregate"
	"fintrack/internal/alerts"
	"fintrack/internal/bus"
	"fintrack/internal/log"
	"fintrack/internal/notify"
	"fintrack/internal/repo"
	"fintrack/internal/seed"
	"fintrack/internal/storage"
)

// App bundles the wired core. Construct one per process with a store and a
// bus; open a Session per signed-in user.
type App struct {
	Store     *storage.Store
	Bus       bus.Bus
	Repos     *repo.Repos
	Engine    *aggregate.Engine
	Registry  *notify.Registry
	Evaluator *alerts.Evaluator
	Seeder    *seed.Service

	logger *log.Logger
}

func New(store *storage.Store, changeBus bus.Bus, logger *log.Logger) *App {
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	repos := repo.New(store, changeBus, logger)
	registry := notify.NewRegistry(store, changeBus, logger)
	return &App{
		Store:     store,
		Bus:       changeBus,
		Repos:     repos,
		Engine:    aggregate.NewEngine(repos, changeBus, logger),
		Registry:  registry,
		Evaluator: alerts.NewEvaluator(registry, logger),
		Seeder:    seed.NewService(repos, logger),
		logger:    logger.WithComponent(log.ComponentApp),
	}
}

func (a *App) Close() error {
	a.Engine.Close()
	return a.Store.Close()
}
