// Package analysis computes review text polarity with a lexicon scorer.
// No cross-call state is kept, so batch scoring is equivalent to scoring
// each text on its own.
package analysis

import (
	"strings"
	"unicode"

	"ReviewHound/internal/domain"
)

// Label thresholds: scores within (-0.1, 0.1] are neutral.
const (
	positiveThreshold = 0.1
	negativeThreshold = -0.1
)

// Classifier scores review text polarity. When RatingWeight is non-zero and
// a normalized rating is supplied, the text score is blended with a rating
// signal centered on 3 stars; the default is text-only.
type Classifier struct {
	ratingWeight float64
	textWeight   float64
}

// NewClassifier returns a text-only classifier.
func NewClassifier() *Classifier {
	return &Classifier{textWeight: 1}
}

// NewWeightedClassifier blends text polarity with a rating signal. Weights
// are normalized to sum to one; non-positive weights fall back to text-only.
func NewWeightedClassifier(ratingWeight, textWeight float64) *Classifier {
	if ratingWeight <= 0 || textWeight <= 0 {
		return NewClassifier()
	}
	total := ratingWeight + textWeight
	return &Classifier{ratingWeight: ratingWeight / total, textWeight: textWeight / total}
}

// Classify scores one text. Empty or whitespace-only text is neutral by
// construction: (0.0, neutral), without running the scorer.
func (c *Classifier) Classify(text string) (float64, domain.Sentiment) {
	if strings.TrimSpace(text) == "" {
		return 0.0, domain.SentimentNeutral
	}

	score := scoreText(text)
	return score, Label(score)
}

// ClassifyRated scores text blended with a normalized [1,5] rating when the
// classifier carries weights. A zero rating means the source had none and
// the text score stands alone. Empty text is always (0.0, neutral); the
// rating signal never overrides that.
func (c *Classifier) ClassifyRated(text string, rating float64) (float64, domain.Sentiment) {
	if strings.TrimSpace(text) == "" {
		return 0.0, domain.SentimentNeutral
	}

	textScore, label := c.Classify(text)
	if c.ratingWeight == 0 || rating == 0 {
		return textScore, label
	}

	ratingSignal := clamp((rating - 3) / 2)
	score := clamp(c.textWeight*textScore + c.ratingWeight*ratingSignal)
	return score, Label(score)
}

// ClassifyAll scores each text independently.
func (c *Classifier) ClassifyAll(texts []string) []float64 {
	scores := make([]float64, len(texts))
	for i, text := range texts {
		scores[i], _ = c.Classify(text)
	}
	return scores
}

// Label maps a polarity score onto the discrete sentiment label.
func Label(score float64) domain.Sentiment {
	switch {
	case score > positiveThreshold:
		return domain.SentimentPositive
	case score < negativeThreshold:
		return domain.SentimentNegative
	default:
		return domain.SentimentNeutral
	}
}

func scoreText(text string) float64 {
	tokens := tokenize(text)

	var (
		sum    float64
		scored int
		negate bool
		boost  = 1.0
	)

	for _, token := range tokens {
		if _, ok := negators[token]; ok {
			negate = true
			continue
		}
		if factor, ok := boosters[token]; ok {
			boost *= factor
			continue
		}

		v, ok := valence[token]
		if ok {
			v *= boost
			if negate {
				v = -v * 0.5
			}
			sum += v
			scored++
		}

		negate = false
		boost = 1.0
	}

	if scored == 0 {
		return 0.0
	}

	return clamp(sum / float64(scored))
}

func tokenize(text string) []string {
	text = strings.ToLower(text)
	// Drop apostrophes so "don't" collapses to "dont" before splitting.
	text = strings.Map(func(r rune) rune {
		if r == '\'' || r == '’' {
			return -1
		}
		return r
	}, text)
	return strings.FieldsFunc(text, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

func clamp(v float64) float64 {
	switch {
	case v > 1:
		return 1
	case v < -1:
		return -1
	default:
		return v
	}
}
