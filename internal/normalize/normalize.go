// Package normalize maps raw adapter records onto the canonical review
// shape: ratings rescaled to [1,5] per source, dates parsed to a calendar
// date with the ingestion date as fallback.
package normalize

import (
	"strconv"
	"strings"
	"time"

	"ReviewHound/internal/domain"
)

// Per-source date layouts.
// TrustPilot spells the month out ("January 2, 2006"), Yelp abbreviates it
// ("Jan 2, 2006"), BBB uses numeric "01/02/2006".
var dateLayouts = map[domain.Source][]string{
	domain.SourceTrustPilot: {"January 2, 2006"},
	domain.SourceYelp:       {"Jan 2, 2006"},
	domain.SourceBBB:        {"01/02/2006", "1/2/2006"},
}

// BBB letter grades map onto the common 1-5 scale through a fixed table;
// half steps land between the whole grades.
var bbbGrades = map[string]float64{
	"A+": 5.0, "A": 4.7, "A-": 4.3,
	"B+": 4.0, "B": 3.7, "B-": 3.3,
	"C+": 3.0, "C": 2.7, "C-": 2.3,
	"D+": 2.0, "D": 1.7, "D-": 1.3,
	"F": 1.0,
}

// Review converts one raw record into a canonical Review without sentiment
// fields; the classifier fills those in afterwards. A record with no usable
// rating gets 0; a record with no parseable date gets ingestedAt's date.
func Review(raw domain.RawReview, source domain.Source, businessID int64, ingestedAt time.Time) domain.Review {
	return domain.Review{
		BusinessID: businessID,
		Source:     source,
		ExternalID: raw.ExternalID,
		AuthorName: strings.TrimSpace(raw.AuthorName),
		Rating:     Rating(raw.Rating, source),
		Text:       strings.TrimSpace(raw.Text),
		ReviewDate: Date(raw.Date, source, ingestedAt),
		IngestedAt: ingestedAt,
	}
}

// Rating rescales a source-native rating onto [1,5]. TrustPilot and Yelp
// are already star scales and only get clamped; BBB accepts either a star
// value or a letter grade. Unparseable input yields 0 (unrated).
func Rating(raw string, source domain.Source) float64 {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0
	}

	if source == domain.SourceBBB {
		if grade, ok := bbbGrades[strings.ToUpper(raw)]; ok {
			return grade
		}
	}

	value, err := strconv.ParseFloat(raw, 64)
	if err != nil || value <= 0 {
		return 0
	}

	return clampRating(value)
}

// Date parses the raw date text with the source's layouts. The source
// timezone is taken as local; failures fall back to ingestedAt's date.
func Date(raw string, source domain.Source, ingestedAt time.Time) time.Time {
	raw = strings.TrimSpace(raw)
	if raw != "" {
		for _, layout := range dateLayouts[source] {
			if parsed, err := time.Parse(layout, raw); err == nil {
				return parsed
			}
		}
	}

	y, m, d := ingestedAt.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func clampRating(v float64) float64 {
	switch {
	case v < 1:
		return 1
	case v > 5:
		return 5
	default:
		return v
	}
}
