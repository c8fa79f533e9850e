package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"trendscout/internal/domain"
	"trendscout/internal/ports"
)

const defaultAPIBase = "https://api.telegram.org"

// Client talks to the Telegram bot API.
type Client struct {
	botToken string
	apiBase  string
	client   *http.Client
}

var _ ports.Messenger = (*Client)(nil)

// NewClient registers the bot token.
func NewClient(botToken string) *Client {
	return &Client{
		botToken: botToken,
		apiBase:  defaultAPIBase,
		client:   &http.Client{Timeout: 10 * time.Second},
	}
}

// WithAPIBase overrides the API host, used by tests.
func (c *Client) WithAPIBase(base string) *Client {
	c.apiBase = strings.TrimSuffix(base, "/")
	return c
}

type apiResponse struct {
	OK          bool            `json:"ok"`
	Description string          `json:"description"`
	Result      json.RawMessage `json:"result"`
}

// SendMessage posts a Markdown message, optionally with an inline keyboard,
// and returns the new message id so callers can edit it in place later.
func (c *Client) SendMessage(ctx context.Context, chatID int64, text string, keyboard *domain.Keyboard) (int, error) {
	payload := map[string]any{
		"chat_id":    chatID,
		"text":       text,
		"parse_mode": "Markdown",
	}
	if keyboard != nil {
		payload["reply_markup"] = markupFor(*keyboard)
	}

	result, err := c.call(ctx, "sendMessage", payload)
	if err != nil {
		return 0, err
	}

	var sent struct {
		MessageID int `json:"message_id"`
	}
	if err := json.Unmarshal(result, &sent); err != nil {
		return 0, fmt.Errorf("decode sent message: %w", err)
	}

	return sent.MessageID, nil
}

// EditMessageText replaces an earlier message's text and keyboard in place.
func (c *Client) EditMessageText(ctx context.Context, chatID int64, messageID int, text string, keyboard *domain.Keyboard) error {
	payload := map[string]any{
		"chat_id":    chatID,
		"message_id": messageID,
		"text":       text,
		"parse_mode": "Markdown",
	}
	if keyboard != nil {
		payload["reply_markup"] = markupFor(*keyboard)
	}

	_, err := c.call(ctx, "editMessageText", payload)
	return err
}

// SetWebhook registers the webhook endpoint and shared secret with the bot
// API so updates are delivered with the expected secret header.
func (c *Client) SetWebhook(ctx context.Context, baseURL, secret string) error {
	payload := map[string]any{
		"url":          strings.TrimSuffix(baseURL, "/") + "/webhook",
		"secret_token": secret,
	}

	_, err := c.call(ctx, "setWebhook", payload)
	return err
}

// AnswerCallback acknowledges a button press; text is optional and shown as
// a transient notice, or as a must-dismiss alert when showAlert is set.
func (c *Client) AnswerCallback(ctx context.Context, callbackID, text string, showAlert bool) error {
	payload := map[string]any{
		"callback_query_id": callbackID,
	}
	if text != "" {
		payload["text"] = text
	}
	if showAlert {
		payload["show_alert"] = true
	}

	_, err := c.call(ctx, "answerCallbackQuery", payload)
	return err
}

func (c *Client) call(ctx context.Context, method string, payload map[string]any) (json.RawMessage, error) {
	if c.botToken == "" || c.client == nil {
		return nil, fmt.Errorf("telegram client misconfigured")
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal %s payload: %w", method, err)
	}

	endpoint := fmt.Sprintf("%s/bot%s/%s", c.apiBase, c.botToken, method)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	var decoded apiResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("decode %s response: %w", method, err)
	}
	if !decoded.OK {
		return nil, fmt.Errorf("telegram %s error: %s", method, decoded.Description)
	}

	return decoded.Result, nil
}

type inlineButton struct {
	Text         string `json:"text"`
	CallbackData string `json:"callback_data"`
}

type inlineMarkup struct {
	InlineKeyboard [][]inlineButton `json:"inline_keyboard"`
}

func markupFor(keyboard domain.Keyboard) inlineMarkup {
	rows := make([][]inlineButton, 0, len(keyboard.Rows))
	for _, row := range keyboard.Rows {
		buttons := make([]inlineButton, 0, len(row))
		for _, button := range row {
			buttons = append(buttons, inlineButton{Text: button.Label, CallbackData: button.Data})
		}
		rows = append(rows, buttons)
	}
	return inlineMarkup{InlineKeyboard: rows}
}
