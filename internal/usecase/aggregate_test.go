package usecase

import (
	"context"
	"fmt"
	"testing"

	"trendscout/internal/config"
	"trendscout/internal/domain"
	"trendscout/internal/source"
)

type stubSource struct {
	name    string
	items   map[string][]domain.RawItem
	failing map[string]bool
}

func (s *stubSource) Name() string { return s.name }

func (s *stubSource) Fetch(_ context.Context, endpoint source.Endpoint, _ source.Request) ([]domain.RawItem, error) {
	if s.failing[endpoint.Name] {
		return nil, fmt.Errorf("malformed feed %s", endpoint.Name)
	}
	return s.items[endpoint.Name], nil
}

func threeItems(title string) []domain.RawItem {
	items := make([]domain.RawItem, 3)
	for i := range items {
		items[i] = domain.RawItem{Source: domain.SourceNews, Title: fmt.Sprintf("%s-%d", title, i)}
	}
	return items
}

func TestCollectIsolatesSingleSourceFailure(t *testing.T) {
	t.Parallel()

	registry := source.NewRegistry()
	registry.Register(&stubSource{
		name: "rss",
		items: map[string][]domain.RawItem{
			"good-a": threeItems("a"),
			"good-b": threeItems("b"),
		},
		failing: map[string]bool{"broken": true},
	})

	aggregator := NewAggregator(registry, 3, nil)

	items := aggregator.Collect(context.Background(), []config.FeedConfig{
		{Name: "good-a", URL: "https://a.example/feed", Source: "rss"},
		{Name: "broken", URL: "https://broken.example/feed", Source: "rss"},
		{Name: "good-b", URL: "https://b.example/feed", Source: "rss"},
	}, source.Request{Topic: "ai"})

	if len(items) != 6 {
		t.Fatalf("healthy sources must contribute their full caps, got %d items", len(items))
	}
}

func TestCollectSkipsUnregisteredSource(t *testing.T) {
	t.Parallel()

	registry := source.NewRegistry()
	registry.Register(&stubSource{
		name:  "rss",
		items: map[string][]domain.RawItem{"ok": threeItems("ok")},
	})

	aggregator := NewAggregator(registry, 3, nil)

	items := aggregator.Collect(context.Background(), []config.FeedConfig{
		{Name: "ok", URL: "https://ok.example/feed", Source: "rss"},
		{Name: "weird", URL: "https://weird.example/feed", Source: "carrier-pigeon"},
	}, source.Request{})

	if len(items) != 3 {
		t.Fatalf("expected 3 items from the registered source, got %d", len(items))
	}
}

func TestCollectAllSourcesFailingYieldsEmpty(t *testing.T) {
	t.Parallel()

	registry := source.NewRegistry()
	registry.Register(&stubSource{
		name:    "rss",
		failing: map[string]bool{"x": true, "y": true},
	})

	aggregator := NewAggregator(registry, 3, nil)

	items := aggregator.Collect(context.Background(), []config.FeedConfig{
		{Name: "x", URL: "https://x.example/feed", Source: "rss"},
		{Name: "y", URL: "https://y.example/feed", Source: "rss"},
	}, source.Request{})

	if len(items) != 0 {
		t.Fatalf("expected empty result, got %d items", len(items))
	}
}
