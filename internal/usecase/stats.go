package usecase

import "ReviewHound/internal/domain"

// CalculateStats summarizes a set of reviews: totals, average rating over
// rated reviews, sentiment counts and percentages, per-source counts.
func CalculateStats(reviews []domain.Review) domain.ReviewStats {
	stats := domain.ReviewStats{
		Total:    len(reviews),
		BySource: map[domain.Source]int{},
	}
	if stats.Total == 0 {
		return stats
	}

	var (
		ratingSum float64
		rated     int
	)
	for _, r := range reviews {
		if r.Rating > 0 {
			ratingSum += r.Rating
			rated++
		}

		switch r.SentimentLabel {
		case domain.SentimentPositive:
			stats.Positive++
		case domain.SentimentNegative:
			stats.Negative++
		default:
			stats.Neutral++
		}

		stats.BySource[r.Source]++
	}

	if rated > 0 {
		stats.AvgRating = ratingSum / float64(rated)
	}

	total := float64(stats.Total)
	stats.PositivePct = float64(stats.Positive) / total * 100
	stats.NegativePct = float64(stats.Negative) / total * 100
	stats.NeutralPct = float64(stats.Neutral) / total * 100

	return stats
}
