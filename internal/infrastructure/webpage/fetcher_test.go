package webpage

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestFetchTextStripsMarkupAndScripts(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html><head><style>body{color:red}</style></head>
		<body><script>alert(1)</script><h1>Big   News</h1><p>Something
		happened.</p></body></html>`))
	}))
	defer server.Close()

	fetcher := NewFetcher(server.Client())

	text, err := fetcher.FetchText(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("fetch failed: %v", err)
	}
	if strings.Contains(text, "alert") || strings.Contains(text, "color:red") {
		t.Fatalf("script/style content leaked: %q", text)
	}
	if text != "Big News Something happened." {
		t.Fatalf("unexpected text: %q", text)
	}
}

func TestFetchTextBoundsLength(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html><body>" + strings.Repeat("word ", 2000) + "</body></html>"))
	}))
	defer server.Close()

	fetcher := NewFetcher(server.Client())

	text, err := fetcher.FetchText(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("fetch failed: %v", err)
	}
	if len(text) > maxPageText {
		t.Fatalf("text not bounded: %d bytes", len(text))
	}
}

func TestFetchTextReportsBadStatus(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	fetcher := NewFetcher(server.Client())

	if _, err := fetcher.FetchText(context.Background(), server.URL); err == nil {
		t.Fatalf("expected error for 404 page")
	}
}
