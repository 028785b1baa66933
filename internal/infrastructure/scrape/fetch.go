package scrape

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/juju/clock"
	"github.com/juju/retry"

	"ReviewHound/internal/domain"
	"ReviewHound/internal/scraper"
)

// Options carries the knobs shared by every scrape adapter.
type Options struct {
	Pace     scraper.PaceConfig
	MaxPages int
	Attempts int
	Clock    clock.Clock
	Logger   *slog.Logger
}

func (o Options) withDefaults() Options {
	if o.MaxPages <= 0 {
		o.MaxPages = 3
	}
	if o.Attempts <= 0 {
		o.Attempts = 3
	}
	if o.Clock == nil {
		o.Clock = clock.WallClock
	}
	return o
}

// pageFetcher performs paced, retried page fetches for one scrape run. It
// owns the run's Governor, so two concurrent runs never share pacing state.
type pageFetcher struct {
	client   *http.Client
	gov      *scraper.Governor
	source   domain.Source
	attempts int
	clk      clock.Clock
	logger   *slog.Logger
}

func newPageFetcher(client *http.Client, source domain.Source, opts Options) *pageFetcher {
	return &pageFetcher{
		client:   client,
		gov:      scraper.NewGovernor(opts.Pace),
		source:   source,
		attempts: opts.Attempts,
		clk:      opts.Clock,
		logger:   opts.Logger,
	}
}

// fetch gets one listing page and parses it into a document. Unreachable and
// rate-limited responses are retried with doubling backoff; parse failures
// and malformed input fail the attempt immediately.
func (f *pageFetcher) fetch(ctx context.Context, pageURL string) (*goquery.Document, error) {
	var (
		doc     *goquery.Document
		lastErr error
	)

	err := retry.Call(retry.CallArgs{
		Func: func() error {
			if err := f.gov.Wait(ctx); err != nil {
				lastErr = scraper.NewError(f.source, scraper.KindUnreachable, err)
				return lastErr
			}
			d, err := f.get(ctx, pageURL)
			if err != nil {
				lastErr = err
				return err
			}
			doc = d
			return nil
		},
		IsFatalError: func(err error) bool {
			return !scraper.Retryable(err) || ctx.Err() != nil
		},
		NotifyFunc: func(lastError error, attempt int) {
			f.warn("page fetch retry", "url", pageURL, "attempt", attempt, "error", lastError)
		},
		Attempts:    f.attempts,
		Delay:       500 * time.Millisecond,
		BackoffFunc: retry.DoubleDelay,
		Clock:       f.clk,
		Stop:        ctx.Done(),
	})
	if err != nil {
		if lastErr != nil {
			return nil, lastErr
		}
		return nil, scraper.NewError(f.source, scraper.KindUnreachable, err)
	}

	return doc, nil
}

func (f *pageFetcher) get(ctx context.Context, pageURL string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, scraper.NewError(f.source, scraper.KindMalformed, fmt.Errorf("build request: %w", err))
	}
	req.Header.Set("User-Agent", f.gov.Agent())
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, scraper.NewError(f.source, scraper.KindUnreachable, fmt.Errorf("request page: %w", err))
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, scraper.Errorf(f.source, scraper.KindRateLimited, "site returned %s", resp.Status)
	case resp.StatusCode != http.StatusOK:
		return nil, scraper.Errorf(f.source, scraper.KindUnreachable, "site returned %s", resp.Status)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, scraper.NewError(f.source, scraper.KindParseFailure, fmt.Errorf("parse document: %w", err))
	}

	return doc, nil
}

func (f *pageFetcher) warn(msg string, args ...any) {
	if f.logger != nil {
		f.logger.Warn(msg, args...)
	}
}
