package scrape

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"

	"ReviewHound/internal/scraper"
)

const yelpPage = `
<ul>
  <li data-review-id="y-111">
    <div class="user-passport-info"><span class="fs-block">Bob T.</span></div>
    <div role="img" aria-label="4 star rating"></div>
    <span class="raw__09f24__T4Ezm">Good food, quick service.</span>
    <span class="css-chan6m">Nov 15, 2024</span>
  </li>
  <li data-review-id="y-222">
    <div class="user-passport-info"></div>
    <div role="img" aria-label="1 star rating"></div>
    <span class="raw__09f24__T4Ezm">Cold pizza and rude staff.</span>
    <span class="css-chan6m">Nov 12, 2024</span>
  </li>
</ul>`

func TestParseYelpReview(t *testing.T) {
	t.Parallel()

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(yelpPage))
	if err != nil {
		t.Fatalf("new document: %v", err)
	}

	records := parseYelpPage(doc)
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}

	if records[0].ExternalID != "y-111" {
		t.Fatalf("unexpected external id: %s", records[0].ExternalID)
	}
	if records[0].AuthorName != "Bob T." {
		t.Fatalf("unexpected author: %s", records[0].AuthorName)
	}
	if records[0].Rating != "4" {
		t.Fatalf("unexpected rating: %s", records[0].Rating)
	}
	if records[0].Date != "Nov 15, 2024" {
		t.Fatalf("unexpected date: %s", records[0].Date)
	}

	// Missing author node falls back to Anonymous.
	if records[1].AuthorName != "Anonymous" {
		t.Fatalf("unexpected fallback author: %s", records[1].AuthorName)
	}
}

func TestYelpScrapePagination(t *testing.T) {
	t.Parallel()

	var starts []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		starts = append(starts, r.URL.Query().Get("start"))
		if r.URL.Query().Get("start") == "" {
			_, _ = w.Write([]byte(yelpPage))
			return
		}
		_, _ = w.Write([]byte("<ul></ul>"))
	}))
	defer server.Close()

	sc := NewYelp(server.Client(), testOptions())

	records, err := sc.Scrape(context.Background(), server.URL+"/biz/joes-pizza")
	if err != nil {
		t.Fatalf("Scrape error: %v", err)
	}

	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	// Second page uses ?start=10.
	if len(starts) != 2 || starts[1] != "10" {
		t.Fatalf("unexpected pagination: %v", starts)
	}
}

func TestYelpScrapeDeterministicIDs(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("start") == "" {
			_, _ = w.Write([]byte(yelpPage))
			return
		}
		_, _ = w.Write([]byte("<ul></ul>"))
	}))
	defer server.Close()

	sc := NewYelp(server.Client(), testOptions())

	first, err := sc.Scrape(context.Background(), server.URL+"/biz/joes-pizza")
	if err != nil {
		t.Fatalf("first Scrape error: %v", err)
	}
	second, err := sc.Scrape(context.Background(), server.URL+"/biz/joes-pizza")
	if err != nil {
		t.Fatalf("second Scrape error: %v", err)
	}

	if len(first) != len(second) {
		t.Fatalf("record count changed between runs: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i].ExternalID != second[i].ExternalID {
			t.Fatalf("external id %d changed between runs: %s vs %s",
				i, first[i].ExternalID, second[i].ExternalID)
		}
	}
}

func TestYelpScrapeUnreachable(t *testing.T) {
	t.Parallel()

	sc := NewYelp(&http.Client{}, testOptions())

	_, err := sc.Scrape(context.Background(), "http://127.0.0.1:1/biz/nowhere")
	if !scraper.IsKind(err, scraper.KindUnreachable) {
		t.Fatalf("expected unreachable error, got %v", err)
	}
}
