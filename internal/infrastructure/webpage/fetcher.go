package webpage

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"trendscout/internal/ports"
)

// maxPageText bounds the extracted text handed to the semantic backend.
const maxPageText = 4000

// Fetcher downloads pages and extracts their visible text for synthesis.
type Fetcher struct {
	client *http.Client
}

var _ ports.PageFetcher = (*Fetcher)(nil)

// NewFetcher wires an HTTP client; defaults to a 15s-timeout client.
func NewFetcher(client *http.Client) *Fetcher {
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	return &Fetcher{client: client}
}

// FetchText downloads one page and returns its body text with scripts,
// styles, and surplus whitespace stripped.
func (f *Fetcher) FetchText(ctx context.Context, pageURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", "TrendScout/1.0")

	resp, err := f.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("request page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("page returned %s", resp.Status)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return "", fmt.Errorf("parse page: %w", err)
	}

	doc.Find("script, style, noscript").Remove()
	text := squashWhitespace(doc.Find("body").Text())
	if len(text) > maxPageText {
		text = text[:maxPageText]
	}

	return text, nil
}

func squashWhitespace(text string) string {
	return strings.Join(strings.Fields(text), " ")
}
