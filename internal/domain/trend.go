package domain

import (
	"net/url"
	"strings"

	"github.com/google/uuid"
)

// Trend is a named topic extracted from aggregated source text.
// Trends live for a single render cycle and are never persisted.
type Trend struct {
	Name    string
	Summary string
}

// SourceType classifies where a raw item came from.
type SourceType string

const (
	SourceNews       SourceType = "News"
	SourceDiscussion SourceType = "Discussion"
)

// SessionStatus enumerates research session milestones.
type SessionStatus string

const (
	StatusScouting SessionStatus = "scouting"
	StatusDone     SessionStatus = "done"
	StatusFailed   SessionStatus = "failed"
)

// ResearchSession groups all items collected by one scouting run for one topic.
type ResearchSession struct {
	ID     uuid.UUID
	Topic  string
	Status SessionStatus
}

// RawItem is a single collected news or discussion entry. Items are built in
// memory during aggregation and written once as a batch; summaries are clamped
// to SummaryLimit at construction.
type RawItem struct {
	SessionID uuid.UUID
	Source    SourceType
	Title     string
	URL       string
	Summary   string
}

// SummaryLimit bounds stored summaries.
const SummaryLimit = 500

// NewRawItem builds an item with its summary clamped.
func NewRawItem(sessionID uuid.UUID, source SourceType, title, link, summary string) RawItem {
	return RawItem{
		SessionID: sessionID,
		Source:    source,
		Title:     title,
		URL:       link,
		Summary:   ClampSummary(summary),
	}
}

// ClampSummary truncates a summary to SummaryLimit bytes.
func ClampSummary(summary string) string {
	if len(summary) <= SummaryLimit {
		return summary
	}
	return summary[:SummaryLimit]
}

// SourceForURL derives the source classification from the endpoint identity:
// discussion-platform domains are tagged Discussion, everything else News.
func SourceForURL(raw string) SourceType {
	parsed, err := url.Parse(raw)
	if err == nil && strings.Contains(parsed.Host, "reddit.com") {
		return SourceDiscussion
	}
	return SourceNews
}

// Keyboard is a transport-neutral grid of interactive controls.
type Keyboard struct {
	Rows [][]KeyboardButton
}

// KeyboardButton carries a label and an opaque callback token. The token must
// stay within the transport's 64-byte callback payload ceiling.
type KeyboardButton struct {
	Label string
	Data  string
}
