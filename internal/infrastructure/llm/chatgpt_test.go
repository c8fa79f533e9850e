package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"trendscout/internal/config"
)

func completionWith(content string) string {
	payload, _ := json.Marshal(map[string]any{
		"choices": []map[string]any{
			{"message": map[string]string{"content": content}},
		},
	})
	return string(payload)
}

func testClient(endpoint string) *ChatGPTClient {
	return NewChatGPTClient(config.ChatGPTConfig{
		Endpoint: endpoint,
		Model:    "gpt-4o-mini",
		APIKey:   "test-key",
	})
}

func TestExtractTrendsParsesBareJSON(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(completionWith(`[{"name":"AI Agents","summary":"autonomy"},{"name":"WASM","summary":""}]`)))
	}))
	defer server.Close()

	trends, err := testClient(server.URL).ExtractTrends(context.Background(), "corpus", 4)
	if err != nil {
		t.Fatalf("extract failed: %v", err)
	}
	if len(trends) != 2 {
		t.Fatalf("expected 2 trends, got %d", len(trends))
	}
	if trends[0].Name != "AI Agents" || trends[0].Summary != "autonomy" {
		t.Fatalf("unexpected trend: %+v", trends[0])
	}
}

func TestExtractTrendsStripsCodeFences(t *testing.T) {
	t.Parallel()

	fenced := "```json\n[{\"name\":\"Quantum\",\"summary\":\"qubits\"}]\n```"
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(completionWith(fenced)))
	}))
	defer server.Close()

	trends, err := testClient(server.URL).ExtractTrends(context.Background(), "corpus", 4)
	if err != nil {
		t.Fatalf("extract failed: %v", err)
	}
	if len(trends) != 1 || trends[0].Name != "Quantum" {
		t.Fatalf("fenced JSON not parsed: %+v", trends)
	}
}

func TestExtractTrendsSurfacesAPIError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":"rate limited"}`))
	}))
	defer server.Close()

	_, err := testClient(server.URL).ExtractTrends(context.Background(), "corpus", 4)
	if err == nil || !strings.Contains(err.Error(), "rate limited") {
		t.Fatalf("expected preserved API error, got %v", err)
	}
}

func TestExtractTrendsRejectsMisconfiguredClient(t *testing.T) {
	t.Parallel()

	client := NewChatGPTClient(config.ChatGPTConfig{})
	if _, err := client.ExtractTrends(context.Background(), "corpus", 4); err == nil {
		t.Fatalf("expected misconfiguration error")
	}
}
