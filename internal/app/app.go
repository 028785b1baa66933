package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	_ "github.com/lib/pq"

	"ReviewHound/internal/analysis"
	"ReviewHound/internal/config"
	"ReviewHound/internal/infrastructure/notify"
	"ReviewHound/internal/infrastructure/scheduler"
	"ReviewHound/internal/infrastructure/scrape"
	"ReviewHound/internal/infrastructure/storage"
	"ReviewHound/internal/logging"
	"ReviewHound/internal/scraper"
	"ReviewHound/internal/usecase"
)

// Application wires configs to use cases and lifecycle orchestration.
type Application struct {
	cfg     config.Config
	db      *sql.DB
	fleet   *usecase.Fleet
	watcher *usecase.Watcher
	logger  *slog.Logger
}

// New builds a runnable application instance and verifies store reachability.
func New(ctx context.Context, cfg config.Config, baseLogger *slog.Logger) (*Application, error) {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level)
	}

	db, err := sql.Open("postgres", cfg.Database.DSN)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	store := storage.NewPostgresStore(db)

	client := &http.Client{Timeout: cfg.Scraping.FetchTimeout()}
	opts := scrape.Options{
		Pace: scraper.PaceConfig{
			DelayMin: cfg.Scraping.DelayMin(),
			DelayMax: cfg.Scraping.DelayMax(),
			Agents:   cfg.Scraping.UserAgents,
		},
		MaxPages: cfg.Scraping.MaxPages,
		Attempts: cfg.Scraping.Attempts,
		Logger:   baseLogger.With("component", "scrape"),
	}

	registry := scraper.NewRegistry()
	registry.Register(scrape.NewTrustPilot(client, opts))
	registry.Register(scrape.NewYelp(client, opts))
	registry.Register(scrape.NewBBB(client, cfg.Scraping.IncludeComplaints, opts))

	classifier := analysis.NewWeightedClassifier(cfg.Sentiment.RatingWeight, cfg.Sentiment.TextWeight)

	engine := usecase.NewEngine(usecase.EngineDeps{
		Store:        store,
		Scrapers:     registry,
		Classifier:   classifier,
		StoreTimeout: cfg.Ingest.StoreTimeout(),
		Logger:       baseLogger.With("component", "engine"),
	})

	var alerts *usecase.AlertEvaluator
	if cfg.Notifications.Telegram.BotToken != "" {
		notifier := notify.NewTelegram(cfg.Notifications.Telegram.BotToken, cfg.Notifications.Telegram.ChatID)
		alerts = usecase.NewAlertEvaluator(store, notifier, baseLogger.With("component", "alerts"))
	}

	fleet := usecase.NewFleet(usecase.FleetDeps{
		Store:   store,
		Engine:  engine,
		Alerts:  alerts,
		Workers: cfg.Ingest.Workers,
		Logger:  baseLogger.With("component", "fleet"),
	})

	watcher := usecase.NewWatcher(
		scheduler.NewIntervalTrigger(cfg.Scheduler.Interval()),
		fleet,
		baseLogger.With("component", "watcher"),
	)

	return &Application{
		cfg:     cfg,
		db:      db,
		fleet:   fleet,
		watcher: watcher,
		logger:  baseLogger,
	}, nil
}

// RunOnce performs a single fleet-wide ingestion pass. Per-source failures
// live in the report, not in the returned error.
func (a *Application) RunOnce(ctx context.Context) error {
	report, err := a.fleet.IngestAll(ctx)
	if err != nil {
		return err
	}

	a.logger.Info("ingestion pass finished",
		"runs", len(report.Runs),
		"success", report.Succeeded(),
		"partial", report.Partial(),
		"failed", report.Failed())
	return nil
}

// Watch runs recurring ingestion passes until the context is cancelled.
func (a *Application) Watch(ctx context.Context) error {
	if err := a.watcher.Start(ctx); err != nil {
		return err
	}
	<-ctx.Done()
	return a.watcher.Stop(context.WithoutCancel(ctx))
}

// Close releases the database handle.
func (a *Application) Close() error {
	return a.db.Close()
}
