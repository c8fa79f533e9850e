package source

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/google/uuid"

	"trendscout/internal/domain"
)

// Endpoint describes a concrete feed or search endpoint provided by config.
// URLs may carry a {topic} placeholder expanded via Request.ExpandURL.
type Endpoint struct {
	Name string
	URL  string
}

// Request carries all parameters required to execute one fetch.
type Request struct {
	Topic     string
	SessionID uuid.UUID
	Limit     int
}

// ExpandURL substitutes the query-escaped topic into an endpoint URL.
func (r Request) ExpandURL(raw string) string {
	return strings.ReplaceAll(raw, "{topic}", url.QueryEscape(r.Topic))
}

// Source captures a single fetch strategy (RSS, web search, etc.).
type Source interface {
	Name() string
	Fetch(ctx context.Context, endpoint Endpoint, req Request) ([]domain.RawItem, error)
}

// Registry keeps a mapping from source names to their implementations.
type Registry struct {
	sources map[string]Source
}

// NewRegistry builds an empty registry.
func NewRegistry() *Registry {
	return &Registry{sources: map[string]Source{}}
}

// Register adds or replaces a source implementation.
func (r *Registry) Register(source Source) {
	if r.sources == nil {
		r.sources = map[string]Source{}
	}
	r.sources[source.Name()] = source
}

// Resolve returns a source by name or an error if it is absent.
func (r *Registry) Resolve(name string) (Source, error) {
	if source, ok := r.sources[name]; ok {
		return source, nil
	}
	return nil, fmt.Errorf("source %s is not registered", name)
}
