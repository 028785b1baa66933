package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ReviewHound/internal/domain"
	"ReviewHound/internal/scraper"
)

func fleetFixture(store *fakeStore, scrapers ...*fakeScraper) *Fleet {
	reg := scraper.NewRegistry()
	for _, sc := range scrapers {
		reg.Register(sc)
	}
	engine := NewEngine(EngineDeps{Store: store, Scrapers: reg})
	return NewFleet(FleetDeps{Store: store, Engine: engine})
}

func TestFleetFailureIsolation(t *testing.T) {
	store := newFakeStore()
	store.businesses = []domain.Business{{
		ID:   7,
		Name: "Acme",
		Locators: map[domain.Source]string{
			domain.SourceTrustPilot: "tp",
			domain.SourceYelp:       "yp",
			domain.SourceBBB:        "bbb",
		},
	}}

	fleet := fleetFixture(store,
		&fakeScraper{source: domain.SourceTrustPilot, records: threeRecords()[:2]},
		&fakeScraper{
			source:  domain.SourceYelp,
			records: threeRecords()[:2],
			err:     scraper.NewError(domain.SourceYelp, scraper.KindUnreachable, errors.New("page 3 timeout")),
		},
		&fakeScraper{source: domain.SourceBBB, records: threeRecords()[2:]},
	)

	report, err := fleet.IngestAll(context.Background())
	require.NoError(t, err)
	require.Len(t, report.Runs, 3)

	assert.Equal(t, 2, report.Succeeded())
	assert.Equal(t, 1, report.Partial())
	assert.Equal(t, 0, report.Failed())

	byStatus := map[domain.Source]domain.RunReport{}
	for _, run := range report.Runs {
		byStatus[run.Source] = run
	}
	assert.Equal(t, domain.ScrapeSuccess, byStatus[domain.SourceTrustPilot].Status)
	assert.Equal(t, domain.ScrapePartial, byStatus[domain.SourceYelp].Status)
	assert.Equal(t, 2, byStatus[domain.SourceYelp].ReviewsFound)
	assert.Equal(t, domain.ScrapeSuccess, byStatus[domain.SourceBBB].Status)

	assert.Equal(t, 3, store.logCount(), "every source closes its own audit entry")
}

func TestFleetSurvivesPanickingScraper(t *testing.T) {
	store := newFakeStore()
	store.businesses = []domain.Business{{
		ID:   7,
		Name: "Acme",
		Locators: map[domain.Source]string{
			domain.SourceTrustPilot: "tp",
			domain.SourceYelp:       "yp",
		},
	}}

	fleet := fleetFixture(store,
		&fakeScraper{source: domain.SourceTrustPilot, records: threeRecords()},
		&fakeScraper{source: domain.SourceYelp, panicMsg: "nil selection"},
	)

	var report domain.FleetReport
	require.NotPanics(t, func() {
		var err error
		report, err = fleet.IngestAll(context.Background())
		require.NoError(t, err)
	})

	require.Len(t, report.Runs, 2)
	assert.Equal(t, 1, report.Succeeded())
	assert.Equal(t, 1, report.Failed())
	assert.Equal(t, 3, store.reviewCount(), "the healthy source still lands its reviews")
}

func TestFleetSkipsEmptyLocators(t *testing.T) {
	store := newFakeStore()
	store.businesses = []domain.Business{{
		ID:   7,
		Name: "Acme",
		Locators: map[domain.Source]string{
			domain.SourceTrustPilot: "tp",
			domain.SourceYelp:       "",
		},
	}}

	fleet := fleetFixture(store, &fakeScraper{source: domain.SourceTrustPilot, records: threeRecords()})

	report, err := fleet.IngestAll(context.Background())
	require.NoError(t, err)
	assert.Len(t, report.Runs, 1)
}

func TestFleetListFailure(t *testing.T) {
	store := newFakeStore()
	store.listErr = errors.New("db down")
	fleet := fleetFixture(store)

	report, err := fleet.IngestAll(context.Background())
	require.Error(t, err)
	assert.Empty(t, report.Runs)
}

func TestFleetIngestOneUnknownBusiness(t *testing.T) {
	store := newFakeStore()
	fleet := fleetFixture(store)

	_, err := fleet.IngestOne(context.Background(), 42)
	require.Error(t, err)
	assert.Equal(t, 0, store.logCount())
}

func TestFleetReportOrdering(t *testing.T) {
	store := newFakeStore()
	store.businesses = []domain.Business{
		{ID: 2, Name: "B", Locators: map[domain.Source]string{domain.SourceYelp: "y2", domain.SourceBBB: "b2"}},
		{ID: 1, Name: "A", Locators: map[domain.Source]string{domain.SourceTrustPilot: "t1"}},
	}

	fleet := fleetFixture(store,
		&fakeScraper{source: domain.SourceTrustPilot},
		&fakeScraper{source: domain.SourceYelp},
		&fakeScraper{source: domain.SourceBBB},
	)

	report, err := fleet.IngestAll(context.Background())
	require.NoError(t, err)
	require.Len(t, report.Runs, 3)

	assert.Equal(t, int64(1), report.Runs[0].BusinessID)
	assert.Equal(t, int64(2), report.Runs[1].BusinessID)
	assert.Equal(t, int64(2), report.Runs[2].BusinessID)
	assert.True(t, report.Runs[1].Source < report.Runs[2].Source)
	assert.False(t, report.CompletedAt.Before(report.StartedAt))
}

func TestFleetSerializesSameKey(t *testing.T) {
	store := newFakeStore()
	store.businesses = []domain.Business{{
		ID:       7,
		Name:     "Acme",
		Locators: map[domain.Source]string{domain.SourceTrustPilot: "tp"},
	}}

	sc := &fakeScraper{source: domain.SourceTrustPilot, records: threeRecords()}
	fleet := fleetFixture(store, sc)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := fleet.IngestAll(context.Background())
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	sc.mu.Lock()
	defer sc.mu.Unlock()
	assert.Equal(t, 8, sc.calls)
	assert.Equal(t, 1, sc.maxInFlight, "runs for one (business, source) key never overlap")
}

// End-to-end: one business, one source, one run, and the alert path.
func TestFleetEndToEnd(t *testing.T) {
	store := newFakeStore()
	store.businesses = []domain.Business{joesPizza}
	store.configs[1] = []domain.AlertConfig{{
		ID:              1,
		BusinessID:      1,
		Target:          "ops-chat",
		Enabled:         true,
		RatingThreshold: 3.0,
		AlertOnNegative: true,
	}}

	notifier := &fakeNotifier{}
	reg := scraper.NewRegistry()
	reg.Register(&fakeScraper{source: domain.SourceTrustPilot, records: threeRecords()})
	engine := NewEngine(EngineDeps{Store: store, Scrapers: reg})
	alerts := NewAlertEvaluator(store, notifier, nil)
	fleet := NewFleet(FleetDeps{Store: store, Engine: engine, Alerts: alerts})

	report, err := fleet.IngestAll(context.Background())
	require.NoError(t, err)
	require.Len(t, report.Runs, 1)

	run := report.Runs[0]
	assert.Equal(t, domain.ScrapeSuccess, run.Status)
	assert.Equal(t, 3, run.ReviewsFound)
	assert.Equal(t, 3, run.NewReviews)
	assert.Equal(t, 1, run.AlertsSent)

	assert.Equal(t, 3, store.reviewCount())
	entry := store.lastLog()
	assert.Equal(t, domain.ScrapeSuccess, entry.Status)
	assert.Equal(t, 3, entry.ReviewsFound)

	events := notifier.recorded()
	require.Len(t, events, 1)
	assert.Equal(t, "b", events[0].ExternalID)
	assert.Equal(t, 2.0, events[0].Rating)
	assert.Equal(t, "Joe's Pizza", events[0].BusinessName)
	assert.Equal(t, "ops-chat", events[0].Target)

	// The second pass inserts nothing, so no alert repeats.
	report, err = fleet.IngestAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, report.Runs[0].AlertsSent)
	assert.Len(t, notifier.recorded(), 1)
}
