package bot

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"trendscout/internal/domain"
	"trendscout/internal/ports"
)

// Synthesizer produces a bounded, ordered trend list from live sources.
type Synthesizer interface {
	Synthesize(ctx context.Context, count int, category, subcategory string, topics, urls []string) ([]domain.Trend, error)
}

// ScoutRunner executes one ingestion run for a topic.
type ScoutRunner interface {
	Run(ctx context.Context, topic string) (int, uuid.UUID, error)
}

// TrendDefaults scope a synthesis when the command gives no filters.
type TrendDefaults struct {
	Count       int
	Category    string
	Subcategory string
}

// Router is the stateless dispatcher mapping inbound events to handlers.
// The only cross-event state is the set of collaborator handles injected at
// construction.
type Router struct {
	adminID     int64
	messenger   ports.Messenger
	synthesizer Synthesizer
	scout       ScoutRunner
	defaults    TrendDefaults
	logger      *slog.Logger
}

// NewRouter wires collaborators and the single authorized principal.
func NewRouter(adminID int64, messenger ports.Messenger, synthesizer Synthesizer, scout ScoutRunner, defaults TrendDefaults, logger *slog.Logger) *Router {
	if defaults.Count <= 0 {
		defaults.Count = 6
	}
	return &Router{
		adminID:     adminID,
		messenger:   messenger,
		synthesizer: synthesizer,
		scout:       scout,
		defaults:    defaults,
		logger:      logger,
	}
}

// Dispatch routes one inbound event to its handler. Every failure is caught
// here and converted to a terminal, user-visible outcome; nothing propagates
// to the transport layer.
func (r *Router) Dispatch(ctx context.Context, event Event) Outcome {
	switch event.Kind {
	case EventCommand:
		return r.dispatchCommand(ctx, event)
	case EventCallback:
		return r.dispatchCallback(ctx, event)
	default:
		return Outcome{Kind: OutcomeRejected, Detail: "unknown event kind"}
	}
}

func (r *Router) dispatchCommand(ctx context.Context, event Event) Outcome {
	if event.SenderID != r.adminID {
		r.warn("command from unauthorized sender", "sender", event.SenderID, "command", event.Command)
		r.send(ctx, event.ChatID, "⛔ You are not authorized to use this bot.", nil)
		return Outcome{Kind: OutcomeRejected, Detail: "unauthorized"}
	}

	switch event.Command {
	case "trends":
		return r.handleTrends(ctx, event)
	case "start_week":
		return r.handleStartWeek(ctx, event)
	default:
		return Outcome{Kind: OutcomeRejected, Detail: "unknown command " + event.Command}
	}
}

func (r *Router) dispatchCallback(ctx context.Context, event Event) Outcome {
	// Any principal can technically press a button, so the gate runs here
	// too, not only at command registration.
	if event.SenderID != r.adminID {
		r.warn("callback from unauthorized sender", "sender", event.SenderID)
		r.answer(ctx, event.CallbackID, "⛔ Not authorized.", true)
		return Outcome{Kind: OutcomeRejected, Detail: "unauthorized"}
	}

	switch {
	case event.CallbackData == CallbackRefresh:
		r.answer(ctx, event.CallbackID, "", false)
		r.edit(ctx, event.ChatID, event.MessageID, "🔍 Rescanning live sources...", nil)
		return r.renderTrends(ctx, event.ChatID, event.MessageID, nil)

	case IsTrendToken(event.CallbackData):
		// The downstream consumption pipeline is disabled; selection is a
		// terminal acknowledgment carrying the (possibly truncated) name.
		name := DecodeTrend(event.CallbackData)
		r.answer(ctx, event.CallbackID, "📌 Selected: "+name, false)
		return Outcome{Kind: OutcomeRendered, Detail: "trend selected"}

	default:
		r.answer(ctx, event.CallbackID, "", false)
		return Outcome{Kind: OutcomeRejected, Detail: "unknown callback token"}
	}
}

func (r *Router) handleTrends(ctx context.Context, event Event) Outcome {
	messageID, err := r.messenger.SendMessage(ctx, event.ChatID, "🔍 Scanning live sources for trends...", nil)
	if err != nil {
		r.warn("send placeholder failed", "error", err)
		return Outcome{Kind: OutcomeErrored, Detail: "send placeholder: " + err.Error()}
	}

	return r.renderTrends(ctx, event.ChatID, messageID, event.Args)
}

// renderTrends runs synthesis and replaces the given message in place with
// the trend grid, an empty-state notice, or an escaped error message. It is
// shared by the command flow and the regenerate callback.
func (r *Router) renderTrends(ctx context.Context, chatID int64, messageID int, args []string) Outcome {
	category, subcategory, topics, urls := r.parseTrendArgs(args)

	trends, err := r.synthesizer.Synthesize(ctx, r.defaults.Count, category, subcategory, topics, urls)
	if err != nil {
		r.warn("synthesis failed", "error", err)
		r.edit(ctx, chatID, messageID, "❌ Trend scan failed: "+EscapeMarkdown(err.Error()), nil)
		return Outcome{Kind: OutcomeErrored, Detail: "synthesize: " + err.Error()}
	}

	keyboard := BuildTrendKeyboard(trends)

	if len(trends) == 0 {
		r.edit(ctx, chatID, messageID, "✅ Scan complete — nothing trending found.", &keyboard)
		return Outcome{Kind: OutcomeRendered, Detail: "no trends"}
	}

	r.edit(ctx, chatID, messageID, trendListText(trends), &keyboard)
	return Outcome{Kind: OutcomeRendered, Detail: fmt.Sprintf("%d trends", len(trends))}
}

func (r *Router) handleStartWeek(ctx context.Context, event Event) Outcome {
	if len(event.Args) == 0 {
		r.send(ctx, event.ChatID, "⚠️ Please provide a topic.\nUsage: /start_week Cybersecurity", nil)
		return Outcome{Kind: OutcomeRejected, Detail: "missing topic"}
	}

	topic := strings.Join(event.Args, " ")
	r.send(ctx, event.ChatID, fmt.Sprintf("🕵️ Scout activated for: *%s*\nScanning RSS & Reddit...", EscapeMarkdown(topic)), nil)

	count, sessionID, err := r.scout.Run(ctx, topic)
	if err != nil {
		r.warn("scout run failed", "topic", topic, "error", err)
		r.send(ctx, event.ChatID, "❌ Error during scouting: "+EscapeMarkdown(err.Error()), nil)
		return Outcome{Kind: OutcomeErrored, Detail: "scout: " + err.Error()}
	}

	r.send(ctx, event.ChatID, fmt.Sprintf("✅ Mission complete.\nFound %d items and saved them to the database.\nSession: `%s`", count, sessionID), nil)
	return Outcome{Kind: OutcomeRendered, Detail: fmt.Sprintf("%d items", count)}
}

// parseTrendArgs reads `/trends [category [subcategory [topics...]]]`;
// arguments that look like URLs are routed to the synthesizer's url list
// instead of the topic filters.
func (r *Router) parseTrendArgs(args []string) (category, subcategory string, topics, urls []string) {
	category = r.defaults.Category
	subcategory = r.defaults.Subcategory

	var words []string
	for _, arg := range args {
		if strings.HasPrefix(arg, "http://") || strings.HasPrefix(arg, "https://") {
			urls = append(urls, arg)
			continue
		}
		words = append(words, arg)
	}

	if len(words) > 0 {
		category = words[0]
	}
	if len(words) > 1 {
		subcategory = words[1]
	}
	if len(words) > 2 {
		topics = words[2:]
	}

	return category, subcategory, topics, urls
}

func trendListText(trends []domain.Trend) string {
	var b strings.Builder
	b.WriteString("📈 *Trending now:*\n")
	for i, trend := range trends {
		fmt.Fprintf(&b, "\n%d. *%s*", i+1, EscapeMarkdown(trend.Name))
		if trend.Summary != "" {
			b.WriteString("\n   ")
			b.WriteString(EscapeMarkdown(trend.Summary))
		}
	}
	b.WriteString("\n\nPick a trend below or regenerate.")
	return b.String()
}

// EscapeMarkdown neutralizes Markdown control characters in collaborator
// output before it reaches the rendering surface.
func EscapeMarkdown(text string) string {
	replacer := strings.NewReplacer(
		"_", "\\_",
		"*", "\\*",
		"`", "\\`",
		"[", "\\[",
	)
	return replacer.Replace(text)
}

// Outbound notices are best-effort; a failed notice is logged, never fatal.

func (r *Router) send(ctx context.Context, chatID int64, text string, keyboard *domain.Keyboard) {
	if _, err := r.messenger.SendMessage(ctx, chatID, text, keyboard); err != nil {
		r.warn("send message failed", "error", err)
	}
}

func (r *Router) edit(ctx context.Context, chatID int64, messageID int, text string, keyboard *domain.Keyboard) {
	if err := r.messenger.EditMessageText(ctx, chatID, messageID, text, keyboard); err != nil {
		r.warn("edit message failed", "error", err)
	}
}

func (r *Router) answer(ctx context.Context, callbackID, text string, showAlert bool) {
	if err := r.messenger.AnswerCallback(ctx, callbackID, text, showAlert); err != nil {
		r.warn("answer callback failed", "error", err)
	}
}

func (r *Router) warn(msg string, args ...any) {
	if r.logger != nil {
		r.logger.Warn(msg, args...)
	}
}
