package telegram

import (
	"strings"

	"trendscout/internal/bot"
)

// Update is the transport-defined envelope delivered to the webhook.
type Update struct {
	UpdateID      int64          `json:"update_id"`
	Message       *Message       `json:"message"`
	CallbackQuery *CallbackQuery `json:"callback_query"`
}

// Message carries an inbound chat message.
type Message struct {
	MessageID int    `json:"message_id"`
	Text      string `json:"text"`
	Chat      Chat   `json:"chat"`
	From      *User  `json:"from"`
}

// Chat identifies the conversation a message belongs to.
type Chat struct {
	ID int64 `json:"id"`
}

// User identifies the sender of a message or button press.
type User struct {
	ID int64 `json:"id"`
}

// CallbackQuery carries an inline-button press.
type CallbackQuery struct {
	ID      string   `json:"id"`
	From    User     `json:"from"`
	Data    string   `json:"data"`
	Message *Message `json:"message"`
}

// EventFromUpdate maps the transport envelope onto the router's tagged event
// type. The second return is false for updates the router has no use for
// (edits, joins, plain chatter).
func EventFromUpdate(update Update) (bot.Event, bool) {
	if update.CallbackQuery != nil {
		event := bot.Event{
			Kind:         bot.EventCallback,
			SenderID:     update.CallbackQuery.From.ID,
			CallbackID:   update.CallbackQuery.ID,
			CallbackData: update.CallbackQuery.Data,
		}
		if update.CallbackQuery.Message != nil {
			event.ChatID = update.CallbackQuery.Message.Chat.ID
			event.MessageID = update.CallbackQuery.Message.MessageID
		}
		return event, true
	}

	if update.Message != nil && strings.HasPrefix(update.Message.Text, "/") {
		fields := strings.Fields(update.Message.Text)
		command := strings.TrimPrefix(fields[0], "/")
		// Commands in groups arrive as /cmd@botname.
		if at := strings.Index(command, "@"); at >= 0 {
			command = command[:at]
		}

		event := bot.Event{
			Kind:      bot.EventCommand,
			ChatID:    update.Message.Chat.ID,
			MessageID: update.Message.MessageID,
			Command:   command,
			Args:      fields[1:],
		}
		if update.Message.From != nil {
			event.SenderID = update.Message.From.ID
		}
		return event, true
	}

	return bot.Event{}, false
}
