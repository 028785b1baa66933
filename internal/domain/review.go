package domain

import (
	"time"

	"github.com/google/uuid"
)

// Source identifies one supported review platform.
type Source string

const (
	SourceTrustPilot Source = "trustpilot"
	SourceYelp       Source = "yelp"
	SourceBBB        Source = "bbb"
)

// Business is a tracked company with its per-source page locators.
type Business struct {
	ID       int64
	Name     string
	Address  string
	Locators map[Source]string
}

// RawReview is the ephemeral record an adapter extracts from one review element.
// Rating carries the source-native representation (a number for TrustPilot and
// Yelp, possibly a letter grade for BBB); the normalizer owns the rescale.
type RawReview struct {
	ExternalID string
	AuthorName string
	Rating     string
	Text       string
	Date       string
}

// Sentiment is the discrete polarity label attached to a review.
type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNeutral  Sentiment = "neutral"
	SentimentNegative Sentiment = "negative"
)

// Review is the persisted canonical record. The (BusinessID, Source,
// ExternalID) tuple is globally unique and is the deduplication key.
// Rating is normalized to [1,5]; 0 means the source exposed no rating.
type Review struct {
	BusinessID     int64
	Source         Source
	ExternalID     string
	AuthorName     string
	Rating         float64
	Text           string
	ReviewDate     time.Time
	SentimentScore float64
	SentimentLabel Sentiment
	IngestedAt     time.Time
}

// ScrapeStatus is the terminal disposition of one ingestion attempt.
type ScrapeStatus string

const (
	ScrapeSuccess ScrapeStatus = "success"
	ScrapePartial ScrapeStatus = "partial"
	ScrapeFailed  ScrapeStatus = "failed"
)

// ScrapeLog is the append-only audit entry written once per (business,
// source, run) regardless of outcome.
type ScrapeLog struct {
	RunID        uuid.UUID
	BusinessID   int64
	Source       Source
	Status       ScrapeStatus
	ReviewsFound int
	ErrorMessage string
	StartedAt    time.Time
	CompletedAt  time.Time
}

// AlertConfig is an externally managed notification rule; the pipeline only
// reads it.
type AlertConfig struct {
	ID              int64
	BusinessID      int64
	Target          string
	Enabled         bool
	RatingThreshold float64
	AlertOnNegative bool
}

// DefaultRatingThreshold applies when a config row carries no threshold.
const DefaultRatingThreshold = 3.0

// AlertEvent is one threshold breach handed off to the notification
// collaborator. Excerpt is a bounded prefix of the review text.
type AlertEvent struct {
	BusinessID     int64
	BusinessName   string
	Source         Source
	ExternalID     string
	Rating         float64
	SentimentScore float64
	SentimentLabel Sentiment
	Excerpt        string
	Target         string
}

// RunReport is the per-(business, source) outcome surfaced to callers.
type RunReport struct {
	BusinessID   int64
	BusinessName string
	Source       Source
	Status       ScrapeStatus
	ReviewsFound int
	NewReviews   int
	UpdatedRows  int
	AlertsSent   int
	Error        string
}

// FleetReport aggregates run outcomes for one IngestAll/IngestOne call.
type FleetReport struct {
	StartedAt   time.Time
	CompletedAt time.Time
	Runs        []RunReport
}

// Failed counts runs that ended in the failed status.
func (r FleetReport) Failed() int {
	return r.countStatus(ScrapeFailed)
}

// Succeeded counts runs that ended cleanly.
func (r FleetReport) Succeeded() int {
	return r.countStatus(ScrapeSuccess)
}

// Partial counts runs that yielded some records before a page-level failure.
func (r FleetReport) Partial() int {
	return r.countStatus(ScrapePartial)
}

func (r FleetReport) countStatus(status ScrapeStatus) int {
	n := 0
	for _, run := range r.Runs {
		if run.Status == status {
			n++
		}
	}
	return n
}

// ReviewStats summarizes a set of reviews for reporting callers.
type ReviewStats struct {
	Total       int
	AvgRating   float64
	Positive    int
	Negative    int
	Neutral     int
	PositivePct float64
	NegativePct float64
	NeutralPct  float64
	BySource    map[Source]int
}
