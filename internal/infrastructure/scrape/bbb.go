package scrape

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"ReviewHound/internal/domain"
	"ReviewHound/internal/scraper"
)

// BBB scrapes Better Business Bureau profile pages. BBB serves all reviews
// on one page, so there is no pagination loop. When complaints are enabled,
// filed complaints are folded in as one-star records whose author field
// carries the complaint type.
type BBB struct {
	client     *http.Client
	opts       Options
	complaints bool
}

var _ scraper.Scraper = (*BBB)(nil)

// NewBBB wires an HTTP client for the BBB adapter.
func NewBBB(client *http.Client, includeComplaints bool, opts Options) *BBB {
	if client == nil {
		client = &http.Client{Timeout: 20 * time.Second}
	}
	return &BBB{client: client, opts: opts.withDefaults(), complaints: includeComplaints}
}

// Source identifies the adapter inside the registry.
func (s *BBB) Source() domain.Source {
	return domain.SourceBBB
}

// Scrape fetches the profile page and extracts reviews, plus complaints
// when enabled.
func (s *BBB) Scrape(ctx context.Context, locator string) (records []domain.RawReview, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = scraper.Errorf(domain.SourceBBB, scraper.KindMalformed, "adapter panic: %v", r)
		}
	}()

	if strings.TrimSpace(locator) == "" {
		return nil, scraper.Errorf(domain.SourceBBB, scraper.KindMalformed, "empty locator")
	}

	fetcher := newPageFetcher(s.client, domain.SourceBBB, s.opts)

	doc, ferr := fetcher.fetch(ctx, locator)
	if ferr != nil {
		return nil, ferr
	}

	records = parseBBBReviews(doc)
	if s.complaints {
		records = append(records, parseBBBComplaints(doc)...)
	}

	return records, nil
}

func parseBBBReviews(doc *goquery.Document) []domain.RawReview {
	var records []domain.RawReview

	doc.Find("div.review-item").Each(func(_ int, item *goquery.Selection) {
		id, _ := item.Attr("data-review-id")
		if id == "" {
			return
		}

		author := strings.TrimSpace(item.Find("span.reviewer-name").First().Text())
		if author == "" {
			author = "Anonymous"
		}

		// BBB exposes either a numeric data-rating or a letter grade.
		starNode := item.Find("div.star-rating").First()
		rating, _ := starNode.Attr("data-rating")
		if rating == "" {
			rating = strings.TrimSpace(starNode.Text())
		}

		textNode := item.Find("div.review-text").First()
		text := strings.TrimSpace(textNode.Find("p").First().Text())
		if text == "" {
			text = strings.TrimSpace(textNode.Text())
		}

		records = append(records, domain.RawReview{
			ExternalID: id,
			AuthorName: author,
			Rating:     rating,
			Text:       text,
			Date:       strings.TrimSpace(item.Find("span.review-date").First().Text()),
		})
	})

	return records
}

func parseBBBComplaints(doc *goquery.Document) []domain.RawReview {
	var records []domain.RawReview

	doc.Find("div.complaint-item").Each(func(_ int, item *goquery.Selection) {
		id, _ := item.Attr("data-complaint-id")
		if id == "" {
			return
		}

		complaintType := strings.TrimSpace(item.Find("span.complaint-type").First().Text())
		if complaintType == "" {
			complaintType = "Complaint"
		}

		textNode := item.Find("div.complaint-text").First()
		text := strings.TrimSpace(textNode.Find("p").First().Text())
		if text == "" {
			text = strings.TrimSpace(textNode.Text())
		}

		records = append(records, domain.RawReview{
			ExternalID: id,
			AuthorName: complaintType,
			Rating:     "1",
			Text:       text,
			Date:       strings.TrimSpace(item.Find("span.complaint-date").First().Text()),
		})
	})

	return records
}
