package httpserver

import (
	"context"
	"crypto/subtle"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"trendscout/internal/bot"
	"trendscout/internal/infrastructure/telegram"
)

// secretHeader carries the shared webhook secret set via setWebhook.
const secretHeader = "X-Telegram-Bot-Api-Secret-Token"

// Dispatcher routes one decoded transport event; implemented by bot.Router.
type Dispatcher interface {
	Dispatch(ctx context.Context, event bot.Event) bot.Outcome
}

// Server exposes the webhook and liveness endpoints.
type Server struct {
	echo       *echo.Echo
	secret     string
	dispatcher Dispatcher
	logger     *slog.Logger
}

// New builds the echo server with its routes registered.
func New(secret string, dispatcher Dispatcher, logger *slog.Logger) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())

	s := &Server{
		echo:       e,
		secret:     secret,
		dispatcher: dispatcher,
		logger:     logger,
	}

	e.GET("/", s.handleLiveness)
	e.POST("/webhook", s.handleWebhook)

	return s
}

// Start blocks serving HTTP on the given address.
func (s *Server) Start(addr string) error {
	return s.echo.Start(addr)
}

// Shutdown drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

// Handler exposes the routing tree, used by tests.
func (s *Server) Handler() http.Handler {
	return s.echo
}

func (s *Server) handleLiveness(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status":  "ok",
		"service": "trendscout",
	})
}

// handleWebhook processes exactly one transport event per request. The
// shared-secret check runs before anything is decoded; a mismatch means no
// processing at all.
func (s *Server) handleWebhook(c echo.Context) error {
	provided := c.Request().Header.Get(secretHeader)
	if subtle.ConstantTimeCompare([]byte(provided), []byte(s.secret)) != 1 {
		s.logger.Warn("webhook secret mismatch")
		return c.JSON(http.StatusForbidden, map[string]string{"status": "forbidden"})
	}

	var update telegram.Update
	if err := c.Bind(&update); err != nil {
		s.logger.Warn("webhook decode failed", "error", err)
		return c.JSON(http.StatusBadRequest, map[string]string{"status": "bad request"})
	}

	event, ok := telegram.EventFromUpdate(update)
	if !ok {
		return c.JSON(http.StatusOK, map[string]string{"status": "ignored"})
	}

	outcome := s.dispatcher.Dispatch(c.Request().Context(), event)
	s.logger.Info("event dispatched",
		"update_id", update.UpdateID,
		"outcome", outcome.Kind,
		"detail", outcome.Detail)

	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}
