package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"ReviewHound/internal/analysis"
	"ReviewHound/internal/domain"
	"ReviewHound/internal/normalize"
	"ReviewHound/internal/ports"
	"ReviewHound/internal/scraper"
)

// EngineDeps wires the driven adapters into the ingestion engine.
type EngineDeps struct {
	Store        ports.ReviewStore
	Scrapers     *scraper.Registry
	Classifier   *analysis.Classifier
	StoreTimeout time.Duration
	Logger       *slog.Logger
}

// Engine runs one deduplicating ingestion pass per (business, source):
// fetch, normalize, classify, upsert, audit. Nothing originating from the
// adapter, normalizer, or classifier escapes Ingest; every terminal path
// closes exactly one ScrapeLog entry.
type Engine struct {
	store        ports.ReviewStore
	scrapers     *scraper.Registry
	classifier   *analysis.Classifier
	storeTimeout time.Duration
	logger       *slog.Logger
}

// NewEngine constructs the ingestion engine.
func NewEngine(deps EngineDeps) *Engine {
	if deps.StoreTimeout <= 0 {
		deps.StoreTimeout = 10 * time.Second
	}
	if deps.Classifier == nil {
		deps.Classifier = analysis.NewClassifier()
	}
	return &Engine{
		store:        deps.Store,
		scrapers:     deps.Scrapers,
		classifier:   deps.Classifier,
		storeTimeout: deps.StoreTimeout,
		logger:       deps.Logger,
	}
}

// Ingest drives one run for a single business and source. It always returns
// a terminal report; inserted holds the reviews this run created, for the
// alert evaluator. Reviews inserted before a mid-batch store failure are
// committed rows, so they stay in inserted even when the run ends failed.
func (e *Engine) Ingest(ctx context.Context, business domain.Business, source domain.Source, locator string) (report domain.RunReport, inserted []domain.Review) {
	startedAt := time.Now().UTC()
	runID := uuid.New()
	report = domain.RunReport{
		BusinessID:   business.ID,
		BusinessName: business.Name,
		Source:       source,
	}
	logClosed := false

	// closeLog seals the audit entry; it runs once on every terminal path,
	// detached from ctx so cancellation cannot orphan a "started" run.
	closeLog := func(status domain.ScrapeStatus, found int, errMsg string) {
		if logClosed {
			return
		}
		logClosed = true
		report.Status = status
		report.ReviewsFound = found
		report.Error = errMsg

		sctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), e.storeTimeout)
		defer cancel()
		entry := domain.ScrapeLog{
			RunID:        runID,
			BusinessID:   business.ID,
			Source:       source,
			Status:       status,
			ReviewsFound: found,
			ErrorMessage: errMsg,
			StartedAt:    startedAt,
			CompletedAt:  time.Now().UTC(),
		}
		if err := e.store.InsertScrapeLog(sctx, entry); err != nil {
			e.log().Error("write scrape log", "business", business.ID, "source", source, "error", err)
		}
	}

	defer func() {
		if r := recover(); r != nil {
			closeLog(domain.ScrapeFailed, report.ReviewsFound, fmt.Sprintf("internal error: %v", r))
		}
	}()

	sc, err := e.scrapers.Resolve(source)
	if err != nil {
		closeLog(domain.ScrapeFailed, 0, err.Error())
		return report, nil
	}

	e.log().Debug("run started", "business", business.ID, "source", source, "run", runID)

	records, fetchErr := sc.Scrape(ctx, locator)

	now := time.Now().UTC()
	for _, raw := range records {
		candidate := normalize.Review(raw, source, business.ID, now)
		candidate.SentimentScore, candidate.SentimentLabel = e.classify(candidate)

		outcome, upsertErr := e.upsert(ctx, candidate)
		if upsertErr != nil {
			closeLog(domain.ScrapeFailed, len(records), fmt.Sprintf("persist review %s: %v", candidate.ExternalID, upsertErr))
			return report, inserted
		}

		switch outcome {
		case upsertNew:
			inserted = append(inserted, candidate)
			report.NewReviews++
		case upsertChanged:
			report.UpdatedRows++
		}
	}

	switch {
	case fetchErr == nil:
		closeLog(domain.ScrapeSuccess, len(records), "")
	case len(records) > 0:
		closeLog(domain.ScrapePartial, len(records), fetchErr.Error())
	default:
		closeLog(domain.ScrapeFailed, 0, fetchErr.Error())
	}

	e.log().Info("run finished",
		"business", business.ID,
		"source", source,
		"status", report.Status,
		"found", report.ReviewsFound,
		"new", report.NewReviews,
		"updated", report.UpdatedRows)

	return report, inserted
}

type upsertOutcome int

const (
	upsertNoop upsertOutcome = iota
	upsertNew
	upsertChanged
)

// upsert looks the candidate up by its dedup key and writes it only when it
// is new or materially changed. The store's UpsertReview is a single atomic
// statement, so derived fields can never lag their inputs.
func (e *Engine) upsert(ctx context.Context, candidate domain.Review) (upsertOutcome, error) {
	sctx, cancel := context.WithTimeout(ctx, e.storeTimeout)
	defer cancel()

	existing, err := e.store.FindReview(sctx, candidate.BusinessID, candidate.Source, candidate.ExternalID)
	if err != nil {
		return upsertNoop, fmt.Errorf("find review: %w", err)
	}

	if existing != nil && !materialChange(*existing, candidate) {
		return upsertNoop, nil
	}

	if _, err := e.store.UpsertReview(sctx, candidate); err != nil {
		return upsertNoop, fmt.Errorf("upsert review: %w", err)
	}

	if existing == nil {
		return upsertNew, nil
	}
	return upsertChanged, nil
}

// classify scores the candidate's text, downgrading any classifier fault to
// neutral rather than dropping the record.
func (e *Engine) classify(candidate domain.Review) (score float64, label domain.Sentiment) {
	defer func() {
		if r := recover(); r != nil {
			e.log().Warn("classifier fault, treating as neutral",
				"business", candidate.BusinessID,
				"source", candidate.Source,
				"review", candidate.ExternalID,
				"error", r)
			score, label = 0.0, domain.SentimentNeutral
		}
	}()

	return e.classifier.ClassifyRated(candidate.Text, candidate.Rating)
}

func materialChange(existing, candidate domain.Review) bool {
	return existing.AuthorName != candidate.AuthorName ||
		existing.Rating != candidate.Rating ||
		existing.Text != candidate.Text ||
		!sameDay(existing.ReviewDate, candidate.ReviewDate) ||
		existing.SentimentScore != candidate.SentimentScore ||
		existing.SentimentLabel != candidate.SentimentLabel
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

func (e *Engine) log() *slog.Logger {
	if e.logger != nil {
		return e.logger
	}
	return slog.Default()
}
