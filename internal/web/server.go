// Package web exposes the monitoring HTTP API over Fiber. The surface is
// read only: a liveness probe, the bot lifecycle phase, and the goals of a
// single chat for dashboards.
package web

import (
	"context"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"log/slog"

	"goalbot/core/logger"
	"goalbot/internal/goals"
)

// StatusProvider reports the current bot lifecycle phase.
type StatusProvider interface {
	Phase() string
}

// Server wraps the Fiber app serving the monitoring endpoints.
type Server struct {
	app    *fiber.App
	store  goals.Store
	status StatusProvider
	now    func() time.Time
}

// NewServer wires the routes against the given store and status source.
func NewServer(store goals.Store, status StatusProvider) *Server {
	s := &Server{
		app: fiber.New(fiber.Config{
			DisableStartupMessage: true,
			ReadTimeout:           10 * time.Second,
			WriteTimeout:          10 * time.Second,
		}),
		store:  store,
		status: status,
		now:    time.Now,
	}

	s.app.Get("/health", s.handleHealth)
	s.app.Get("/api/bot/status", s.handleBotStatus)
	s.app.Get("/api/goals", s.handleGoals)

	return s
}

// App returns the underlying Fiber app, used by tests to drive requests
// without a listener.
func (s *Server) App() *fiber.App {
	return s.app
}

// Listen serves until the listener fails or Shutdown is called.
func (s *Server) Listen(addr string) error {
	logger.LogEvent(context.Background(), logger.WEB, slog.LevelInfo, "listen",
		slog.String("addr", addr),
	)
	if err := s.app.Listen(addr); err != nil {
		return fmt.Errorf("web listen: %w", err)
	}
	return nil
}

// Shutdown stops the server, honoring the context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	deadline, ok := ctx.Deadline()
	if !ok {
		return s.app.Shutdown()
	}
	return s.app.ShutdownWithTimeout(time.Until(deadline))
}

func (s *Server) handleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":    "healthy",
		"service":   "GoalBot",
		"timestamp": s.now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) handleBotStatus(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":    s.status.Phase(),
		"message":   "GoalBot is running",
		"timestamp": s.now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) handleGoals(c *fiber.Ctx) error {
	chatID := c.Query("chatId")
	if chatID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "chatId is required",
		})
	}

	list, err := s.store.ByChat(c.Context(), chatID)
	if err != nil {
		logger.LogEvent(c.Context(), logger.WEB, slog.LevelError, "goals.fetch_failed",
			slog.String("chat_id", chatID),
			slog.String("err", logger.SanitizeLimit(err.Error(), 256)),
		)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Error fetching goals",
		})
	}
	if list == nil {
		list = []goals.Goal{}
	}
	return c.JSON(list)
}
