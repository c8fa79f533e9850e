package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"

	"trendscout/internal/domain"
	"trendscout/internal/ports"
)

// searchResultCap bounds how many search snippets feed one synthesis.
const searchResultCap = 10

// Synthesizer turns live search results and page text into a short ordered
// list of named trends via the semantic-extraction backend.
type Synthesizer struct {
	search    ports.SearchClient
	pages     ports.PageFetcher
	extractor ports.TrendExtractor
	logger    *slog.Logger
}

// NewSynthesizer wires the search, page-fetch, and extraction collaborators.
func NewSynthesizer(search ports.SearchClient, pages ports.PageFetcher, extractor ports.TrendExtractor, logger *slog.Logger) *Synthesizer {
	return &Synthesizer{
		search:    search,
		pages:     pages,
		extractor: extractor,
		logger:    logger,
	}
}

// Synthesize returns at most count trends for the given filters. count 0 is a
// legal, vacuous request that skips search and extraction entirely. Zero
// extracted trends is a valid, non-error terminal state.
func (s *Synthesizer) Synthesize(ctx context.Context, count int, category, subcategory string, topics, urls []string) ([]domain.Trend, error) {
	if count <= 0 {
		return []domain.Trend{}, nil
	}

	corpus, searchErr := s.gatherCorpus(ctx, category, subcategory, topics, urls)
	if corpus == "" {
		if searchErr != nil {
			return nil, searchErr
		}
		return []domain.Trend{}, nil
	}

	trends, err := s.extractor.ExtractTrends(ctx, corpus, count)
	if err != nil {
		return nil, fmt.Errorf("extract trends: %w", err)
	}

	return normalizeTrends(trends, count), nil
}

// gatherCorpus fans out to the search backend and every explicit URL
// concurrently. Page failures are isolated; a search failure is only
// surfaced when it leaves the corpus empty.
func (s *Synthesizer) gatherCorpus(ctx context.Context, category, subcategory string, topics, urls []string) (string, error) {
	var (
		items     []domain.RawItem
		searchErr error
		texts     = make([]string, len(urls))
	)

	g, ctx := errgroup.WithContext(ctx)

	if s.search != nil {
		g.Go(func() error {
			query := ports.SearchQuery{
				Terms:      buildQuery(subcategory, topics),
				Category:   category,
				MaxResults: searchResultCap,
			}
			results, err := s.search.Search(ctx, query)
			if err != nil {
				searchErr = fmt.Errorf("search: %w", err)
				s.warn("search failed", "error", err)
				return nil
			}
			items = results
			return nil
		})
	}

	for i, pageURL := range urls {
		i, pageURL := i, pageURL
		g.Go(func() error {
			if s.pages == nil {
				return nil
			}
			text, err := s.pages.FetchText(ctx, pageURL)
			if err != nil {
				s.warn("page fetch failed", "url", pageURL, "error", err)
				return nil
			}
			texts[i] = text
			return nil
		})
	}

	_ = g.Wait()

	var b strings.Builder
	for _, item := range items {
		fmt.Fprintf(&b, "- %s: %s (%s)\n", item.Title, item.Summary, item.URL)
	}
	for i, text := range texts {
		if text == "" {
			continue
		}
		fmt.Fprintf(&b, "\nSource %s:\n%s\n", urls[i], text)
	}

	return strings.TrimSpace(b.String()), searchErr
}

func buildQuery(subcategory string, topics []string) string {
	parts := make([]string, 0, len(topics)+2)
	if subcategory != "" {
		parts = append(parts, subcategory)
	}
	parts = append(parts, topics...)
	parts = append(parts, "trending this week")
	return strings.Join(parts, " ")
}

// normalizeTrends drops empty names, collapses case-insensitive duplicates
// (which would collide to identical callback tokens), and truncates to the
// requested count, preserving extraction order.
func normalizeTrends(trends []domain.Trend, count int) []domain.Trend {
	seen := make(map[string]struct{}, len(trends))
	kept := make([]domain.Trend, 0, len(trends))

	for _, trend := range trends {
		if trend.Name == "" {
			continue
		}
		key := strings.ToLower(trend.Name)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		kept = append(kept, trend)
		if len(kept) == count {
			break
		}
	}

	return kept
}

func (s *Synthesizer) warn(msg string, args ...any) {
	if s.logger != nil {
		s.logger.Warn(msg, args...)
	}
}
