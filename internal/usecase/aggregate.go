package usecase

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"trendscout/internal/config"
	"trendscout/internal/domain"
	"trendscout/internal/source"
)

// defaultPerFeedCap bounds how many items one endpoint may contribute.
const defaultPerFeedCap = 3

// Aggregator fans out across configured endpoints with per-source failure
// isolation: a broken endpoint is logged and contributes zero items, never
// aborting or reducing the contribution of the others.
type Aggregator struct {
	registry   *source.Registry
	perFeedCap int
	logger     *slog.Logger
}

// NewAggregator wires the source registry; cap defaults to 3 items per feed.
func NewAggregator(registry *source.Registry, perFeedCap int, logger *slog.Logger) *Aggregator {
	if perFeedCap <= 0 {
		perFeedCap = defaultPerFeedCap
	}
	return &Aggregator{
		registry:   registry,
		perFeedCap: perFeedCap,
		logger:     logger,
	}
}

// Collect fetches every endpoint concurrently and returns whatever arrived.
// All fetches are awaited jointly; the result carries no ordering guarantee
// beyond grouping by endpoint.
func (a *Aggregator) Collect(ctx context.Context, feeds []config.FeedConfig, req source.Request) []domain.RawItem {
	if req.Limit <= 0 {
		req.Limit = a.perFeedCap
	}

	results := make([][]domain.RawItem, len(feeds))

	g, ctx := errgroup.WithContext(ctx)
	for i, feed := range feeds {
		i, feed := i, feed
		g.Go(func() error {
			src, err := a.registry.Resolve(feed.Source)
			if err != nil {
				a.warn("unknown source for feed", "feed", feed.Name, "error", err)
				return nil
			}

			items, err := src.Fetch(ctx, source.Endpoint{Name: feed.Name, URL: feed.URL}, req)
			if err != nil {
				a.warn("feed fetch failed", "feed", feed.Name, "error", err)
				return nil
			}

			results[i] = items
			return nil
		})
	}
	_ = g.Wait()

	var collected []domain.RawItem
	for _, items := range results {
		collected = append(collected, items...)
	}

	a.debug("aggregation done", "feeds", len(feeds), "items", len(collected))
	return collected
}

func (a *Aggregator) warn(msg string, args ...any) {
	if a.logger != nil {
		a.logger.Warn(msg, args...)
	}
}

func (a *Aggregator) debug(msg string, args ...any) {
	if a.logger != nil {
		a.logger.Debug(msg, args...)
	}
}
