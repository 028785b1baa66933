package scraper

import (
	"context"
	"fmt"

	"ReviewHound/internal/domain"
)

// Scraper captures a single source implementation (TrustPilot, Yelp, BBB).
//
// Scrape walks the paginated review listing behind locator and returns every
// record it could extract. A non-nil error alongside a non-empty slice means
// the run degraded mid-way and the records are a truncated prefix; a non-nil
// error with no records is a terminal source failure. Implementations must
// not let any internal fault escape Scrape other than as an *Error, and must
// yield the same external id for the same underlying review on every fetch.
type Scraper interface {
	Source() domain.Source
	Scrape(ctx context.Context, locator string) ([]domain.RawReview, error)
}

// Registry keeps a mapping from source names to their implementations.
type Registry struct {
	scrapers map[domain.Source]Scraper
}

// NewRegistry builds an empty registry.
func NewRegistry() *Registry {
	return &Registry{scrapers: map[domain.Source]Scraper{}}
}

// Register adds or replaces a scraper implementation.
func (r *Registry) Register(s Scraper) {
	if r.scrapers == nil {
		r.scrapers = map[domain.Source]Scraper{}
	}
	r.scrapers[s.Source()] = s
}

// Resolve returns a scraper by source or an error if it is absent.
func (r *Registry) Resolve(source domain.Source) (Scraper, error) {
	if s, ok := r.scrapers[source]; ok {
		return s, nil
	}
	return nil, fmt.Errorf("scraper %s is not registered", source)
}

// Sources lists the registered source names.
func (r *Registry) Sources() []domain.Source {
	sources := make([]domain.Source, 0, len(r.scrapers))
	for source := range r.scrapers {
		sources = append(sources, source)
	}
	return sources
}
