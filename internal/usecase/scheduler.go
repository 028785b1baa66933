package usecase

import (
	"context"
	"log/slog"
	"time"

	"ReviewHound/internal/ports"
)

// Watcher wires the trigger driver to fleet-wide ingestion runs.
type Watcher struct {
	driver ports.Trigger
	fleet  *Fleet
	logger *slog.Logger
}

// NewWatcher returns a helper to start/stop recurring runs.
func NewWatcher(driver ports.Trigger, fleet *Fleet, logger *slog.Logger) *Watcher {
	return &Watcher{driver: driver, fleet: fleet, logger: logger}
}

// Start registers IngestAll with the trigger.
func (w *Watcher) Start(ctx context.Context) error {
	if w.driver == nil || w.fleet == nil {
		return nil
	}

	job := func(trigger time.Time) {
		report, err := w.fleet.IngestAll(ctx)
		if err != nil {
			w.log().Error("scheduled run aborted", "error", err)
			return
		}
		w.log().Info("scheduled run finished",
			"trigger", trigger.Format(time.RFC3339),
			"runs", len(report.Runs),
			"success", report.Succeeded(),
			"partial", report.Partial(),
			"failed", report.Failed())
	}

	return w.driver.Start(ctx, job)
}

// Stop gracefully tears down the underlying trigger.
func (w *Watcher) Stop(ctx context.Context) error {
	if w.driver == nil {
		return nil
	}
	return w.driver.Stop(ctx)
}

func (w *Watcher) log() *slog.Logger {
	if w.logger != nil {
		return w.logger
	}
	return slog.Default()
}
