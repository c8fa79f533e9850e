package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"trendscout/internal/domain"
	"trendscout/internal/ports"
)

// Client talks to an external web-search service over its JSON API.
type Client struct {
	endpoint string
	apiKey   string
	http     *http.Client
}

var _ ports.SearchClient = (*Client)(nil)

// NewClient creates a reusable HTTP client.
func NewClient(endpoint, apiKey string) *Client {
	return &Client{
		endpoint: endpoint,
		apiKey:   apiKey,
		http:     &http.Client{Timeout: 15 * time.Second},
	}
}

// Search sends the query and maps result snippets to raw items.
func (c *Client) Search(ctx context.Context, q ports.SearchQuery) ([]domain.RawItem, error) {
	if c.endpoint == "" {
		return nil, fmt.Errorf("search client misconfigured")
	}

	payload := map[string]any{
		"query":       q.Terms,
		"category":    q.Category,
		"max_results": q.MaxResults,
	}

	var resp struct {
		Results []struct {
			Title   string `json:"title"`
			URL     string `json:"url"`
			Content string `json:"content"`
		} `json:"results"`
	}

	if err := c.post(ctx, "/search", payload, &resp); err != nil {
		return nil, err
	}

	items := make([]domain.RawItem, 0, len(resp.Results))
	for _, result := range resp.Results {
		items = append(items, domain.RawItem{
			Source:  domain.SourceForURL(result.URL),
			Title:   result.Title,
			URL:     result.URL,
			Summary: domain.ClampSummary(result.Content),
		})
	}

	return items, nil
}

func (c *Client) post(ctx context.Context, path string, payload any, v any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %s", resp.Status)
	}

	if v == nil {
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}

	return nil
}
