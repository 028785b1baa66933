package usecase

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"ReviewHound/internal/domain"
)

func TestCalculateStats(t *testing.T) {
	reviews := []domain.Review{
		{Source: domain.SourceTrustPilot, Rating: 5.0, SentimentLabel: domain.SentimentPositive},
		{Source: domain.SourceTrustPilot, Rating: 2.0, SentimentLabel: domain.SentimentNegative},
		{Source: domain.SourceYelp, Rating: 4.0, SentimentLabel: domain.SentimentPositive},
		{Source: domain.SourceBBB, Rating: 0, SentimentLabel: domain.SentimentNeutral},
	}

	stats := CalculateStats(reviews)

	assert.Equal(t, 4, stats.Total)
	assert.InDelta(t, 11.0/3.0, stats.AvgRating, 1e-9, "unrated reviews stay out of the average")
	assert.Equal(t, 2, stats.Positive)
	assert.Equal(t, 1, stats.Negative)
	assert.Equal(t, 1, stats.Neutral)
	assert.InDelta(t, 50.0, stats.PositivePct, 1e-9)
	assert.InDelta(t, 25.0, stats.NegativePct, 1e-9)
	assert.InDelta(t, 25.0, stats.NeutralPct, 1e-9)
	assert.Equal(t, 2, stats.BySource[domain.SourceTrustPilot])
	assert.Equal(t, 1, stats.BySource[domain.SourceYelp])
	assert.Equal(t, 1, stats.BySource[domain.SourceBBB])
}

func TestCalculateStatsEmpty(t *testing.T) {
	stats := CalculateStats(nil)

	assert.Equal(t, 0, stats.Total)
	assert.Zero(t, stats.AvgRating)
	assert.Zero(t, stats.PositivePct)
	assert.NotNil(t, stats.BySource)
}

func TestCalculateStatsMissingLabelCountsNeutral(t *testing.T) {
	stats := CalculateStats([]domain.Review{{Source: domain.SourceYelp, Rating: 3.0}})

	assert.Equal(t, 1, stats.Neutral)
	assert.InDelta(t, 100.0, stats.NeutralPct, 1e-9)
}
