package app

import (
	"context"
	"log/slog"

	"cfptracker/internal/config"
	"cfptracker/internal/infrastructure/parser"
	"cfptracker/internal/infrastructure/scheduler"
	"cfptracker/internal/infrastructure/storage"
	"cfptracker/internal/infrastructure/telegram"
	"cfptracker/internal/logging"
	"cfptracker/internal/ports"
	"cfptracker/internal/scanner"
	"cfptracker/internal/usecase"
)

// Application wires configs to use cases and lifecycle orchestration.
type Application struct {
	cfg      config.Config
	store    *storage.SnapshotStore
	pipeline *usecase.Pipeline
}

// New builds a runnable application instance.
func New(cfg config.Config, baseLogger *slog.Logger) *Application {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level)
	}

	registry := scanner.NewRegistry()
	registry.Register(parser.NewIEEECSScanner(nil, cfg.Store.DateLayout, baseLogger.With("component", "scanner.ieee-cs")))

	source := parser.NewStrategySource(registry, cfg.Sites, baseLogger.With("component", "source"))
	store := storage.NewSnapshotStore(cfg.Store, baseLogger.With("component", "store"))

	var notifier ports.Notifier
	if cfg.Notifications.Telegram.BotToken != "" {
		notifier = telegram.NewNotifier(cfg.Notifications.Telegram)
	}

	pipeline := usecase.NewPipeline(usecase.PipelineDeps{
		Source:     source,
		Store:      store,
		Notifier:   notifier,
		DateLayout: cfg.Store.DateLayout,
		Logger:     baseLogger.With("component", "pipeline"),
	})

	return &Application{cfg: cfg, store: store, pipeline: pipeline}
}

// Config exposes the resolved configuration.
func (a *Application) Config() config.Config {
	return a.cfg
}

// RunOnce performs a single reconciliation run.
func (a *Application) RunOnce(ctx context.Context, opts usecase.RunOptions) (usecase.RunResult, error) {
	return a.pipeline.Run(ctx, opts)
}

// Watch re-runs the pipeline on the configured interval until the context is
// cancelled. Each run's outcome is handed to onResult.
func (a *Application) Watch(ctx context.Context, opts usecase.RunOptions, onResult func(usecase.RunResult, error)) error {
	driver := scheduler.NewIntervalScheduler(a.cfg.Scheduler.IntervalDuration())
	sched := usecase.NewScheduler(driver, a.pipeline, opts, onResult)

	if err := sched.Start(ctx); err != nil {
		return err
	}
	<-ctx.Done()
	return sched.Stop(context.Background())
}

// Store exposes the snapshot store for inspection commands.
func (a *Application) Store() *storage.SnapshotStore {
	return a.store
}
