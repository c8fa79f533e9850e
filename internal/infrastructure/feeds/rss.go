package feeds

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/mmcdole/gofeed"

	"trendscout/internal/domain"
	"trendscout/internal/source"
)

// RSSSource fetches RSS/Atom feeds and maps the first entries to raw items.
type RSSSource struct {
	parser *gofeed.Parser
}

var _ source.Source = (*RSSSource)(nil)

// NewRSSSource wires a feed parser; client defaults to a 15s-timeout client.
func NewRSSSource(client *http.Client) *RSSSource {
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	parser := gofeed.NewParser()
	parser.Client = client
	parser.UserAgent = "TrendScout/1.0"
	return &RSSSource{parser: parser}
}

// Name identifies the strategy inside the registry.
func (s *RSSSource) Name() string {
	return "rss"
}

// Fetch downloads one feed and returns at most req.Limit entries, tagged by
// the endpoint's source classification.
func (s *RSSSource) Fetch(ctx context.Context, endpoint source.Endpoint, req source.Request) ([]domain.RawItem, error) {
	feedURL := req.ExpandURL(endpoint.URL)

	feed, err := s.parser.ParseURLWithContext(feedURL, ctx)
	if err != nil {
		return nil, fmt.Errorf("parse feed %s: %w", endpoint.Name, err)
	}

	kind := domain.SourceForURL(feedURL)

	limit := req.Limit
	if limit <= 0 || limit > len(feed.Items) {
		limit = len(feed.Items)
	}

	items := make([]domain.RawItem, 0, limit)
	for _, entry := range feed.Items[:limit] {
		summary := entry.Description
		if summary == "" {
			summary = entry.Content
		}
		items = append(items, domain.NewRawItem(req.SessionID, kind, entry.Title, entry.Link, summary))
	}

	return items, nil
}
