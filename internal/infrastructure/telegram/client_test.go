package telegram

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"trendscout/internal/domain"
)

func TestSendMessageReturnsMessageID(t *testing.T) {
	t.Parallel()

	var gotPath string
	var gotBody map[string]any

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &gotBody)
		_, _ = w.Write([]byte(`{"ok":true,"result":{"message_id":77}}`))
	}))
	defer server.Close()

	client := NewClient("test-token").WithAPIBase(server.URL)

	keyboard := &domain.Keyboard{Rows: [][]domain.KeyboardButton{
		{{Label: "AI Agents", Data: "trend:AI Agents"}},
	}}

	messageID, err := client.SendMessage(context.Background(), 42, "hello", keyboard)
	if err != nil {
		t.Fatalf("send failed: %v", err)
	}
	if messageID != 77 {
		t.Fatalf("expected message id 77, got %d", messageID)
	}
	if gotPath != "/bottest-token/sendMessage" {
		t.Fatalf("unexpected path: %s", gotPath)
	}
	if gotBody["parse_mode"] != "Markdown" {
		t.Fatalf("expected Markdown parse mode")
	}

	markup, _ := json.Marshal(gotBody["reply_markup"])
	if !strings.Contains(string(markup), `"callback_data":"trend:AI Agents"`) {
		t.Fatalf("keyboard not serialized: %s", markup)
	}
}

func TestEditMessageTextTargetsMessage(t *testing.T) {
	t.Parallel()

	var gotBody map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &gotBody)
		_, _ = w.Write([]byte(`{"ok":true,"result":true}`))
	}))
	defer server.Close()

	client := NewClient("test-token").WithAPIBase(server.URL)

	if err := client.EditMessageText(context.Background(), 42, 31, "updated", nil); err != nil {
		t.Fatalf("edit failed: %v", err)
	}
	if gotBody["message_id"] != float64(31) {
		t.Fatalf("wrong message id: %v", gotBody["message_id"])
	}
}

func TestAnswerCallbackSetsAlert(t *testing.T) {
	t.Parallel()

	var gotBody map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &gotBody)
		_, _ = w.Write([]byte(`{"ok":true,"result":true}`))
	}))
	defer server.Close()

	client := NewClient("test-token").WithAPIBase(server.URL)

	if err := client.AnswerCallback(context.Background(), "cb9", "Not authorized.", true); err != nil {
		t.Fatalf("answer failed: %v", err)
	}
	if gotBody["callback_query_id"] != "cb9" {
		t.Fatalf("wrong callback id: %v", gotBody["callback_query_id"])
	}
	if gotBody["show_alert"] != true {
		t.Fatalf("alert flag not set")
	}
}

func TestAPIErrorIsSurfaced(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"ok":false,"description":"Bad Request: chat not found"}`))
	}))
	defer server.Close()

	client := NewClient("test-token").WithAPIBase(server.URL)

	_, err := client.SendMessage(context.Background(), 1, "x", nil)
	if err == nil || !strings.Contains(err.Error(), "chat not found") {
		t.Fatalf("expected API description in error, got %v", err)
	}
}
