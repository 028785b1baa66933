package usecase

import (
	"context"
	"fmt"
	"sync"

	"ReviewHound/internal/domain"
	"ReviewHound/internal/ports"
)

// fakeStore is an in-memory ReviewStore.
type fakeStore struct {
	mu         sync.Mutex
	businesses []domain.Business
	reviews    map[string]domain.Review
	logs       []domain.ScrapeLog
	configs    map[int64][]domain.AlertConfig

	listErr    error
	findErr    error
	upsertErr  error
	logErr     error
	configsErr error

	// upsertErr fires once this many upserts have succeeded.
	upsertErrAfter int
	upsertCalls    int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		reviews: map[string]domain.Review{},
		configs: map[int64][]domain.AlertConfig{},
	}
}

func reviewKey(businessID int64, source domain.Source, externalID string) string {
	return fmt.Sprintf("%d/%s/%s", businessID, source, externalID)
}

func (s *fakeStore) ListBusinesses(context.Context) ([]domain.Business, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listErr != nil {
		return nil, s.listErr
	}
	return append([]domain.Business(nil), s.businesses...), nil
}

func (s *fakeStore) GetBusiness(_ context.Context, id int64) (domain.Business, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, b := range s.businesses {
		if b.ID == id {
			return b, nil
		}
	}
	return domain.Business{}, fmt.Errorf("business %d not found", id)
}

func (s *fakeStore) FindReview(_ context.Context, businessID int64, source domain.Source, externalID string) (*domain.Review, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.findErr != nil {
		return nil, s.findErr
	}
	if review, ok := s.reviews[reviewKey(businessID, source, externalID)]; ok {
		copied := review
		return &copied, nil
	}
	return nil, nil
}

func (s *fakeStore) UpsertReview(_ context.Context, review domain.Review) (ports.UpsertOutcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.upsertErr != nil && s.upsertCalls >= s.upsertErrAfter {
		return ports.UpsertInserted, s.upsertErr
	}
	s.upsertCalls++
	key := reviewKey(review.BusinessID, review.Source, review.ExternalID)
	if existing, ok := s.reviews[key]; ok {
		// The original ingestion timestamp survives updates.
		review.IngestedAt = existing.IngestedAt
		s.reviews[key] = review
		return ports.UpsertUpdated, nil
	}
	s.reviews[key] = review
	return ports.UpsertInserted, nil
}

func (s *fakeStore) InsertScrapeLog(_ context.Context, entry domain.ScrapeLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.logErr != nil {
		return s.logErr
	}
	s.logs = append(s.logs, entry)
	return nil
}

func (s *fakeStore) ListAlertConfigs(_ context.Context, businessID int64) ([]domain.AlertConfig, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.configsErr != nil {
		return nil, s.configsErr
	}
	return append([]domain.AlertConfig(nil), s.configs[businessID]...), nil
}

func (s *fakeStore) lastLog() domain.ScrapeLog {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.logs[len(s.logs)-1]
}

func (s *fakeStore) logCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.logs)
}

func (s *fakeStore) reviewCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.reviews)
}

func (s *fakeStore) review(businessID int64, source domain.Source, externalID string) (domain.Review, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	review, ok := s.reviews[reviewKey(businessID, source, externalID)]
	return review, ok
}

// fakeScraper yields canned records, optionally with a terminal error or a
// panic, and tracks concurrent entries for lock tests.
type fakeScraper struct {
	source   domain.Source
	records  []domain.RawReview
	err      error
	panicMsg string

	mu          sync.Mutex
	calls       int
	inFlight    int
	maxInFlight int
}

func (f *fakeScraper) Source() domain.Source { return f.source }

func (f *fakeScraper) Scrape(context.Context, string) ([]domain.RawReview, error) {
	f.mu.Lock()
	f.calls++
	f.inFlight++
	if f.inFlight > f.maxInFlight {
		f.maxInFlight = f.inFlight
	}
	f.mu.Unlock()

	defer func() {
		f.mu.Lock()
		f.inFlight--
		f.mu.Unlock()
	}()

	if f.panicMsg != "" {
		panic(f.panicMsg)
	}
	return append([]domain.RawReview(nil), f.records...), f.err
}

// fakeNotifier records handed-off events.
type fakeNotifier struct {
	mu     sync.Mutex
	events []domain.AlertEvent
	err    error
}

func (n *fakeNotifier) Notify(_ context.Context, event domain.AlertEvent) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, event)
	return n.err
}

func (n *fakeNotifier) recorded() []domain.AlertEvent {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]domain.AlertEvent(nil), n.events...)
}
