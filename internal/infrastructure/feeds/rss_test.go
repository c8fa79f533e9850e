package feeds

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"trendscout/internal/domain"
	"trendscout/internal/source"
)

const sampleFeed = `<?xml version="1.0"?>
<rss version="2.0">
  <channel>
    <title>Sample</title>
    <item><title>First</title><link>https://news.example/1</link><description>one</description></item>
    <item><title>Second</title><link>https://news.example/2</link><description>two</description></item>
    <item><title>Third</title><link>https://news.example/3</link><description>three</description></item>
    <item><title>Fourth</title><link>https://news.example/4</link><description>four</description></item>
  </channel>
</rss>`

func TestRSSSourceCapsEntries(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(sampleFeed))
	}))
	defer server.Close()

	src := NewRSSSource(server.Client())

	items, err := src.Fetch(context.Background(),
		source.Endpoint{Name: "sample", URL: server.URL + "/feed"},
		source.Request{Limit: 3})
	if err != nil {
		t.Fatalf("fetch failed: %v", err)
	}

	if len(items) != 3 {
		t.Fatalf("expected cap of 3 entries, got %d", len(items))
	}
	if items[0].Title != "First" || items[2].Title != "Third" {
		t.Fatalf("entries out of order: %+v", items)
	}
	if items[0].Source != domain.SourceNews {
		t.Fatalf("non-reddit feed must be tagged News, got %s", items[0].Source)
	}
}

func TestRSSSourceClampsSummaries(t *testing.T) {
	t.Parallel()

	long := strings.Repeat("z", 900)
	feed := `<?xml version="1.0"?><rss version="2.0"><channel><title>S</title>
	  <item><title>Big</title><link>https://news.example/big</link><description>` + long + `</description></item>
	</channel></rss>`

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(feed))
	}))
	defer server.Close()

	src := NewRSSSource(server.Client())

	items, err := src.Fetch(context.Background(),
		source.Endpoint{Name: "big", URL: server.URL},
		source.Request{Limit: 3})
	if err != nil {
		t.Fatalf("fetch failed: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(items))
	}
	if len(items[0].Summary) != domain.SummaryLimit {
		t.Fatalf("summary not clamped: %d bytes", len(items[0].Summary))
	}
}

func TestRSSSourceExpandsTopicPlaceholder(t *testing.T) {
	t.Parallel()

	var requested string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requested = r.URL.String()
		_, _ = w.Write([]byte(sampleFeed))
	}))
	defer server.Close()

	src := NewRSSSource(server.Client())

	_, err := src.Fetch(context.Background(),
		source.Endpoint{Name: "search", URL: server.URL + "/search.rss?q={topic}"},
		source.Request{Topic: "zero trust", Limit: 1})
	if err != nil {
		t.Fatalf("fetch failed: %v", err)
	}
	if !strings.Contains(requested, "q=zero+trust") {
		t.Fatalf("topic not expanded into query: %s", requested)
	}
}

func TestRSSSourceReportsBrokenFeed(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("this is not xml"))
	}))
	defer server.Close()

	src := NewRSSSource(server.Client())

	if _, err := src.Fetch(context.Background(),
		source.Endpoint{Name: "broken", URL: server.URL},
		source.Request{Limit: 3}); err == nil {
		t.Fatalf("expected parse error for malformed feed")
	}
}
