package scrape

import (
	"context"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"ReviewHound/internal/domain"
	"ReviewHound/internal/scraper"
)

var trustpilotDateExpr = regexp.MustCompile(`[A-Za-z]+ \d{1,2}, \d{4}`)

// TrustPilot scrapes business review pages on trustpilot.com.
type TrustPilot struct {
	client *http.Client
	opts   Options
}

var _ scraper.Scraper = (*TrustPilot)(nil)

// NewTrustPilot wires an HTTP client; pagination uses ?page=N with page 1 bare.
func NewTrustPilot(client *http.Client, opts Options) *TrustPilot {
	if client == nil {
		client = &http.Client{Timeout: 20 * time.Second}
	}
	return &TrustPilot{client: client, opts: opts.withDefaults()}
}

// Source identifies the adapter inside the registry.
func (s *TrustPilot) Source() domain.Source {
	return domain.SourceTrustPilot
}

// Scrape walks listing pages up to the page cap, keeping whatever records
// were already extracted when a later page fails.
func (s *TrustPilot) Scrape(ctx context.Context, locator string) (records []domain.RawReview, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = scraper.Errorf(domain.SourceTrustPilot, scraper.KindMalformed, "adapter panic: %v", r)
		}
	}()

	if strings.TrimSpace(locator) == "" {
		return nil, scraper.Errorf(domain.SourceTrustPilot, scraper.KindMalformed, "empty locator")
	}

	base := strings.SplitN(locator, "?", 2)[0]
	fetcher := newPageFetcher(s.client, domain.SourceTrustPilot, s.opts)
	seen := map[string]struct{}{}

	for page := 1; page <= s.opts.MaxPages; page++ {
		if cerr := ctx.Err(); cerr != nil {
			return records, scraper.NewError(domain.SourceTrustPilot, scraper.KindUnreachable, cerr)
		}

		pageURL := base
		if page > 1 {
			pageURL = fmt.Sprintf("%s?page=%d", base, page)
		}

		doc, ferr := fetcher.fetch(ctx, pageURL)
		if ferr != nil {
			return records, ferr
		}

		pageRecords := parseTrustPilotPage(doc)
		if len(pageRecords) == 0 {
			break
		}
		for _, rec := range pageRecords {
			if _, ok := seen[rec.ExternalID]; ok {
				continue
			}
			seen[rec.ExternalID] = struct{}{}
			records = append(records, rec)
		}
	}

	return records, nil
}

func parseTrustPilotPage(doc *goquery.Document) []domain.RawReview {
	var records []domain.RawReview

	doc.Find("article[data-review-id]").Each(func(_ int, item *goquery.Selection) {
		if rec, ok := parseTrustPilotReview(item); ok {
			records = append(records, rec)
		}
	})

	return records
}

func parseTrustPilotReview(item *goquery.Selection) (domain.RawReview, bool) {
	id, _ := item.Attr("data-review-id")
	if id == "" {
		return domain.RawReview{}, false
	}

	author := strings.TrimSpace(item.Find("aside a span").First().Text())
	if author == "" {
		author = "Anonymous"
	}

	rating, _ := item.Find("[data-service-review-rating]").First().Attr("data-service-review-rating")

	textNode := item.Find("[data-service-review-text-typography]").First()
	text := strings.TrimSpace(textNode.Find("p").First().Text())
	if text == "" {
		text = strings.TrimSpace(textNode.Text())
	}

	dateNode := item.Find("[data-service-review-date-of-experience-typography]").First()
	dateText := strings.TrimSpace(dateNode.Find("p").First().Text())
	if dateText == "" {
		dateText = strings.TrimSpace(dateNode.Text())
	}
	// The node carries a "Date of experience:" prefix around the date itself.
	date := trustpilotDateExpr.FindString(dateText)

	return domain.RawReview{
		ExternalID: id,
		AuthorName: author,
		Rating:     rating,
		Text:       text,
		Date:       date,
	}, true
}
