package ports

import (
	"context"

	"github.com/google/uuid"

	"trendscout/internal/domain"
)

// SearchQuery constrains a live web search.
type SearchQuery struct {
	Terms      string
	Category   string
	MaxResults int
}

// SearchClient runs a live web search and returns result snippets as items.
type SearchClient interface {
	Search(ctx context.Context, q SearchQuery) ([]domain.RawItem, error)
}

// PageFetcher downloads one page and extracts its visible text.
type PageFetcher interface {
	FetchText(ctx context.Context, pageURL string) (string, error)
}

// TrendExtractor reduces raw source text into a short list of named trends.
type TrendExtractor interface {
	ExtractTrends(ctx context.Context, corpus string, limit int) ([]domain.Trend, error)
}

// ScoutRepository persists research sessions and collected item batches.
type ScoutRepository interface {
	CreateSession(ctx context.Context, session domain.ResearchSession) error
	SaveItems(ctx context.Context, items []domain.RawItem) error
	UpdateSessionStatus(ctx context.Context, id uuid.UUID, status domain.SessionStatus) error
}

// Messenger sends and edits rich-text chat messages with inline controls.
type Messenger interface {
	SendMessage(ctx context.Context, chatID int64, text string, keyboard *domain.Keyboard) (int, error)
	EditMessageText(ctx context.Context, chatID int64, messageID int, text string, keyboard *domain.Keyboard) error
	AnswerCallback(ctx context.Context, callbackID, text string, showAlert bool) error
}
