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

var yelpStarExpr = regexp.MustCompile(`(\d+(?:\.\d+)?) star rating`)

// Yelp scrapes business review pages on yelp.com. Listing pages paginate
// with ?start=0,10,20.
type Yelp struct {
	client *http.Client
	opts   Options
}

var _ scraper.Scraper = (*Yelp)(nil)

// NewYelp wires an HTTP client for the Yelp adapter.
func NewYelp(client *http.Client, opts Options) *Yelp {
	if client == nil {
		client = &http.Client{Timeout: 20 * time.Second}
	}
	return &Yelp{client: client, opts: opts.withDefaults()}
}

// Source identifies the adapter inside the registry.
func (s *Yelp) Source() domain.Source {
	return domain.SourceYelp
}

// Scrape walks listing pages up to the page cap, keeping whatever records
// were already extracted when a later page fails.
func (s *Yelp) Scrape(ctx context.Context, locator string) (records []domain.RawReview, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = scraper.Errorf(domain.SourceYelp, scraper.KindMalformed, "adapter panic: %v", r)
		}
	}()

	if strings.TrimSpace(locator) == "" {
		return nil, scraper.Errorf(domain.SourceYelp, scraper.KindMalformed, "empty locator")
	}

	base := strings.SplitN(locator, "?", 2)[0]
	fetcher := newPageFetcher(s.client, domain.SourceYelp, s.opts)
	seen := map[string]struct{}{}

	for page := 0; page < s.opts.MaxPages; page++ {
		if cerr := ctx.Err(); cerr != nil {
			return records, scraper.NewError(domain.SourceYelp, scraper.KindUnreachable, cerr)
		}

		pageURL := base
		if page > 0 {
			pageURL = fmt.Sprintf("%s?start=%d", base, page*10)
		}

		doc, ferr := fetcher.fetch(ctx, pageURL)
		if ferr != nil {
			return records, ferr
		}

		pageRecords := parseYelpPage(doc)
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

func parseYelpPage(doc *goquery.Document) []domain.RawReview {
	var records []domain.RawReview

	doc.Find("li[data-review-id]").Each(func(_ int, item *goquery.Selection) {
		if rec, ok := parseYelpReview(item); ok {
			records = append(records, rec)
		}
	})

	return records
}

func parseYelpReview(item *goquery.Selection) (domain.RawReview, bool) {
	id, _ := item.Attr("data-review-id")
	if id == "" {
		return domain.RawReview{}, false
	}

	author := strings.TrimSpace(item.Find(".user-passport-info span.fs-block").First().Text())
	if author == "" {
		author = "Anonymous"
	}

	// Star count only appears inside an aria-label.
	var rating string
	item.Find("[aria-label]").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		label, _ := sel.Attr("aria-label")
		if m := yelpStarExpr.FindStringSubmatch(label); m != nil {
			rating = m[1]
			return false
		}
		return true
	})

	text := strings.TrimSpace(item.Find("span.raw__09f24__T4Ezm").First().Text())
	date := strings.TrimSpace(item.Find("span.css-chan6m").First().Text())

	return domain.RawReview{
		ExternalID: id,
		AuthorName: author,
		Rating:     rating,
		Text:       text,
		Date:       date,
	}, true
}
