package usecase

import (
	"context"
	"log/slog"

	"ReviewHound/internal/domain"
	"ReviewHound/internal/ports"
)

const excerptLimit = 200

// AlertEvaluator scans newly inserted reviews against a business's alert
// configs and hands breach events to the notification transport. It emits
// one event per qualifying review per enabled config; delivery failures are
// logged and not retried here.
type AlertEvaluator struct {
	store    ports.ReviewStore
	notifier ports.Notifier
	logger   *slog.Logger
}

// NewAlertEvaluator constructs the evaluator.
func NewAlertEvaluator(store ports.ReviewStore, notifier ports.Notifier, logger *slog.Logger) *AlertEvaluator {
	return &AlertEvaluator{store: store, notifier: notifier, logger: logger}
}

// Evaluate emits alert events for inserted reviews whose rating falls
// strictly below a config's threshold. Updated or pre-existing reviews never
// reach this method. Returns the number of events handed off.
func (a *AlertEvaluator) Evaluate(ctx context.Context, business domain.Business, inserted []domain.Review) int {
	configs, err := a.store.ListAlertConfigs(ctx, business.ID)
	if err != nil {
		a.log().Warn("load alert configs", "business", business.ID, "error", err)
		return 0
	}

	sent := 0
	for _, cfg := range configs {
		if !cfg.Enabled || !cfg.AlertOnNegative {
			continue
		}

		threshold := cfg.RatingThreshold
		if threshold <= 0 {
			threshold = domain.DefaultRatingThreshold
		}

		for _, review := range inserted {
			// Rating 0 means the source exposed no rating; nothing to compare.
			if review.Rating == 0 || review.Rating >= threshold {
				continue
			}

			event := domain.AlertEvent{
				BusinessID:     business.ID,
				BusinessName:   business.Name,
				Source:         review.Source,
				ExternalID:     review.ExternalID,
				Rating:         review.Rating,
				SentimentScore: review.SentimentScore,
				SentimentLabel: review.SentimentLabel,
				Excerpt:        excerpt(review.Text),
				Target:         cfg.Target,
			}

			if err := a.notifier.Notify(ctx, event); err != nil {
				a.log().Warn("alert delivery failed",
					"business", business.ID,
					"source", review.Source,
					"review", review.ExternalID,
					"error", err)
			}
			sent++
		}
	}

	return sent
}

func excerpt(text string) string {
	runes := []rune(text)
	if len(runes) <= excerptLimit {
		return text
	}
	return string(runes[:excerptLimit]) + "..."
}

func (a *AlertEvaluator) log() *slog.Logger {
	if a.logger != nil {
		return a.logger
	}
	return slog.Default()
}
