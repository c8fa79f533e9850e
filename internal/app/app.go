package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	_ "github.com/lib/pq"

	"trendscout/internal/bot"
	"trendscout/internal/config"
	"trendscout/internal/httpserver"
	"trendscout/internal/infrastructure/feeds"
	"trendscout/internal/infrastructure/llm"
	"trendscout/internal/infrastructure/search"
	"trendscout/internal/infrastructure/storage"
	"trendscout/internal/infrastructure/telegram"
	"trendscout/internal/infrastructure/webpage"
	"trendscout/internal/logging"
	"trendscout/internal/source"
	"trendscout/internal/usecase"
)

// Application is the explicit context holding every collaborator handle,
// constructed once at startup and treated as read-only afterwards.
type Application struct {
	cfg       config.Config
	server    *httpserver.Server
	messenger *telegram.Client
	db        *sql.DB
	logger    *slog.Logger
}

// New wires configuration into collaborators, use cases, and the server.
func New(cfg config.Config, baseLogger *slog.Logger) (*Application, error) {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var db *sql.DB
	if cfg.Database.DSN != "" {
		var err error
		db, err = sql.Open("postgres", cfg.Database.DSN)
		if err != nil {
			return nil, fmt.Errorf("open database: %w", err)
		}
	} else {
		baseLogger.Warn("no database DSN configured, scouting runs will fail")
	}

	registry := source.NewRegistry()
	registry.Register(feeds.NewRSSSource(nil))

	aggregator := usecase.NewAggregator(registry, cfg.Scout.PerFeedCap, logging.Component(baseLogger, "aggregator"))

	repo := storage.NewPostgresRepository(db)
	scout := usecase.NewScout(repo, aggregator, cfg.Scout.Feeds(), logging.Component(baseLogger, "scout"))

	synthesizer := usecase.NewSynthesizer(
		search.NewClient(cfg.Search.Endpoint, cfg.Search.APIKey),
		webpage.NewFetcher(nil),
		llm.NewChatGPTClient(cfg.ChatGPT),
		logging.Component(baseLogger, "synthesizer"),
	)

	messenger := telegram.NewClient(cfg.Telegram.BotToken)

	router := bot.NewRouter(
		cfg.Telegram.AdminChatID,
		messenger,
		synthesizer,
		scout,
		bot.TrendDefaults{
			Count:       cfg.Trends.Count,
			Category:    cfg.Trends.Category,
			Subcategory: cfg.Trends.Subcategory,
		},
		logging.Component(baseLogger, "router"),
	)

	server := httpserver.New(cfg.Telegram.WebhookSecret, router, logging.Component(baseLogger, "http"))

	return &Application{
		cfg:       cfg,
		server:    server,
		messenger: messenger,
		db:        db,
		logger:    baseLogger,
	}, nil
}

// Run serves HTTP until the context is cancelled, then drains gracefully.
func (a *Application) Run(ctx context.Context) error {
	if base := a.cfg.Telegram.WebhookBaseURL; base != "" {
		if err := a.messenger.SetWebhook(ctx, base, a.cfg.Telegram.WebhookSecret); err != nil {
			a.logger.Warn("webhook registration failed", "error", err)
		}
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- a.server.Start(":" + a.cfg.Server.Port)
	}()

	a.logger.Info("trendscout listening", "port", a.cfg.Server.Port)

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := a.server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	if a.db != nil {
		if err := a.db.Close(); err != nil {
			return fmt.Errorf("close database: %w", err)
		}
	}

	return nil
}
