package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/im7mortal/kmutex"
	"golang.org/x/sync/semaphore"

	"ReviewHound/internal/domain"
	"ReviewHound/internal/ports"
)

// FleetDeps wires the orchestrator over the ingestion engine.
type FleetDeps struct {
	Store   ports.ReviewStore
	Engine  *Engine
	Alerts  *AlertEvaluator
	Workers int
	Logger  *slog.Logger
}

// Fleet runs the ingestion engine across every configured (business, source)
// key. Keys run concurrently under a bounded worker count, but two runs for
// the same key are serialized through a keyed lock so upserts against one
// dedup key never race. A failure in one key never prevents the others from
// running; callers only ever observe the aggregate report.
type Fleet struct {
	store   ports.ReviewStore
	engine  *Engine
	alerts  *AlertEvaluator
	workers int64
	locks   *kmutex.Kmutex
	logger  *slog.Logger
}

// NewFleet constructs the orchestrator; Workers defaults to 4.
func NewFleet(deps FleetDeps) *Fleet {
	workers := int64(deps.Workers)
	if workers <= 0 {
		workers = 4
	}
	return &Fleet{
		store:   deps.Store,
		engine:  deps.Engine,
		alerts:  deps.Alerts,
		workers: workers,
		locks:   kmutex.New(),
		logger:  deps.Logger,
	}
}

// IngestAll runs every source of every tracked business. The returned error
// is non-nil only when the business list itself cannot be read.
func (f *Fleet) IngestAll(ctx context.Context) (domain.FleetReport, error) {
	businesses, err := f.store.ListBusinesses(ctx)
	if err != nil {
		return domain.FleetReport{}, fmt.Errorf("list businesses: %w", err)
	}
	return f.run(ctx, businesses), nil
}

// IngestOne runs every configured source of a single business.
func (f *Fleet) IngestOne(ctx context.Context, businessID int64) (domain.FleetReport, error) {
	business, err := f.store.GetBusiness(ctx, businessID)
	if err != nil {
		return domain.FleetReport{}, fmt.Errorf("load business %d: %w", businessID, err)
	}
	return f.run(ctx, []domain.Business{business}), nil
}

func (f *Fleet) run(ctx context.Context, businesses []domain.Business) domain.FleetReport {
	report := domain.FleetReport{StartedAt: time.Now().UTC()}

	sem := semaphore.NewWeighted(f.workers)
	var (
		wg sync.WaitGroup
		mu sync.Mutex
	)
	collect := func(run domain.RunReport) {
		mu.Lock()
		report.Runs = append(report.Runs, run)
		mu.Unlock()
	}

	for _, business := range businesses {
		for source, locator := range business.Locators {
			if locator == "" {
				continue
			}

			wg.Add(1)
			go func(business domain.Business, source domain.Source, locator string) {
				defer wg.Done()

				if err := sem.Acquire(ctx, 1); err != nil {
					collect(domain.RunReport{
						BusinessID:   business.ID,
						BusinessName: business.Name,
						Source:       source,
						Status:       domain.ScrapeFailed,
						Error:        fmt.Sprintf("run never started: %v", err),
					})
					return
				}
				defer sem.Release(1)

				collect(f.ingestKey(ctx, business, source, locator))
			}(business, source, locator)
		}
	}
	wg.Wait()

	sort.Slice(report.Runs, func(i, j int) bool {
		a, b := report.Runs[i], report.Runs[j]
		if a.BusinessID != b.BusinessID {
			return a.BusinessID < b.BusinessID
		}
		return a.Source < b.Source
	})

	report.CompletedAt = time.Now().UTC()
	return report
}

// ingestKey holds the per-key lock for the duration of one engine run and
// converts anything the engine layer could still throw into a failed entry.
func (f *Fleet) ingestKey(ctx context.Context, business domain.Business, source domain.Source, locator string) (run domain.RunReport) {
	defer func() {
		if r := recover(); r != nil {
			run = domain.RunReport{
				BusinessID:   business.ID,
				BusinessName: business.Name,
				Source:       source,
				Status:       domain.ScrapeFailed,
				Error:        fmt.Sprintf("engine fault: %v", r),
			}
			f.log().Error("engine fault", "business", business.ID, "source", source, "error", r)
		}
	}()

	key := fmt.Sprintf("%d/%s", business.ID, source)
	f.locks.Lock(key)
	defer f.locks.Unlock(key)

	run, inserted := f.engine.Ingest(ctx, business, source, locator)
	if len(inserted) > 0 && f.alerts != nil {
		run.AlertsSent = f.alerts.Evaluate(ctx, business, inserted)
	}

	return run
}

func (f *Fleet) log() *slog.Logger {
	if f.logger != nil {
		return f.logger
	}
	return slog.Default()
}
