package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"trendscout/internal/config"
	"trendscout/internal/domain"
	"trendscout/internal/ports"
)

// ChatGPTClient implements ports.TrendExtractor backed by OpenAI-compatible APIs.
type ChatGPTClient struct {
	endpoint     string
	model        string
	apiKey       string
	systemPrompt string
	httpClient   *http.Client
}

var _ ports.TrendExtractor = (*ChatGPTClient)(nil)

// NewChatGPTClient builds a client from configuration.
func NewChatGPTClient(cfg config.ChatGPTConfig) *ChatGPTClient {
	return &ChatGPTClient{
		endpoint:     cfg.Endpoint,
		model:        cfg.Model,
		apiKey:       cfg.APIKey,
		systemPrompt: cfg.SystemPrompt,
		httpClient: &http.Client{
			Timeout: 20 * time.Second,
		},
	}
}

// ExtractTrends asks the model to reduce the corpus to at most limit named
// trends. The model is instructed to answer with a bare JSON array; code
// fences are stripped before parsing since models add them anyway.
func (c *ChatGPTClient) ExtractTrends(ctx context.Context, corpus string, limit int) ([]domain.Trend, error) {
	if c == nil {
		return nil, fmt.Errorf("chatgpt client is nil")
	}
	if c.apiKey == "" || c.endpoint == "" || c.model == "" {
		return nil, fmt.Errorf("chatgpt client misconfigured")
	}

	body, err := json.Marshal(map[string]any{
		"model": c.model,
		"messages": []map[string]string{
			{"role": "system", "content": safePrompt(c.systemPrompt, limit)},
			{"role": "user", "content": corpus},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("marshal chatgpt payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("extract trends: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("chatgpt error %s: %s", resp.Status, strings.TrimSpace(string(payload)))
	}

	var completion struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&completion); err != nil {
		return nil, fmt.Errorf("decode chatgpt response: %w", err)
	}
	if len(completion.Choices) == 0 {
		return nil, fmt.Errorf("chatgpt returned no choices")
	}

	return parseTrends(completion.Choices[0].Message.Content)
}

func parseTrends(content string) ([]domain.Trend, error) {
	content = stripFences(content)

	var parsed []struct {
		Name    string `json:"name"`
		Summary string `json:"summary"`
	}
	if err := json.Unmarshal([]byte(content), &parsed); err != nil {
		return nil, fmt.Errorf("parse trend list: %w", err)
	}

	trends := make([]domain.Trend, 0, len(parsed))
	for _, entry := range parsed {
		trends = append(trends, domain.Trend{
			Name:    strings.TrimSpace(entry.Name),
			Summary: strings.TrimSpace(entry.Summary),
		})
	}

	return trends, nil
}

func stripFences(content string) string {
	content = strings.TrimSpace(content)
	if !strings.HasPrefix(content, "```") {
		return content
	}
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(strings.TrimSpace(content), "```")
	return strings.TrimSpace(content)
}

func safePrompt(prompt string, limit int) string {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		prompt = "You analyze aggregated news and discussion text and name the distinct trending topics in it."
	}
	return fmt.Sprintf(`%s Respond with a JSON array of at most %d objects, each {"name": string, "summary": string}, and nothing else. Names must be short, human-readable, and distinct.`, prompt, limit)
}
