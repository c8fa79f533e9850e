package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"trendscout/internal/config"
	"trendscout/internal/domain"
	"trendscout/internal/ports"
	"trendscout/internal/source"
)

// Scout runs one ingestion pass: create a session, fan out across the fixed
// feed list, and persist whatever was collected as a single batch.
type Scout struct {
	repo       ports.ScoutRepository
	aggregator *Aggregator
	feeds      []config.FeedConfig
	logger     *slog.Logger
}

// NewScout wires storage, the aggregator, and the configured feed list.
func NewScout(repo ports.ScoutRepository, aggregator *Aggregator, feeds []config.FeedConfig, logger *slog.Logger) *Scout {
	return &Scout{
		repo:       repo,
		aggregator: aggregator,
		feeds:      feeds,
		logger:     logger,
	}
}

// Run collects capped items per feed for the topic and saves them in one
// write. Partial-source failure never fails the run; a fully empty result is
// a valid outcome returned as count 0 with no write performed.
func (s *Scout) Run(ctx context.Context, topic string) (int, uuid.UUID, error) {
	session := domain.ResearchSession{
		ID:     uuid.New(),
		Topic:  topic,
		Status: domain.StatusScouting,
	}

	if err := s.repo.CreateSession(ctx, session); err != nil {
		return 0, uuid.Nil, fmt.Errorf("create session: %w", err)
	}

	s.info("scout starting", "topic", topic, "session", session.ID, "feeds", len(s.feeds))

	items := s.aggregator.Collect(ctx, s.feeds, source.Request{
		Topic:     topic,
		SessionID: session.ID,
	})

	if len(items) > 0 {
		if err := s.repo.SaveItems(ctx, items); err != nil {
			s.failSession(ctx, session.ID)
			return 0, session.ID, fmt.Errorf("save items: %w", err)
		}
	}

	if err := s.repo.UpdateSessionStatus(ctx, session.ID, domain.StatusDone); err != nil {
		return len(items), session.ID, fmt.Errorf("finish session: %w", err)
	}

	s.info("scout finished", "session", session.ID, "items", len(items))
	return len(items), session.ID, nil
}

func (s *Scout) failSession(ctx context.Context, id uuid.UUID) {
	if err := s.repo.UpdateSessionStatus(ctx, id, domain.StatusFailed); err != nil {
		s.warn("mark session failed", "session", id, "error", err)
	}
}

func (s *Scout) info(msg string, args ...any) {
	if s.logger != nil {
		s.logger.Info(msg, args...)
	}
}

func (s *Scout) warn(msg string, args ...any) {
	if s.logger != nil {
		s.logger.Warn(msg, args...)
	}
}
