// Package app assembles the goal bot: configuration, infrastructure,
// Telegram routes, and the monitoring HTTP server.
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"log/slog"

	"goalbot/core/bootstrap"
	corecmd "goalbot/core/cmd"
	coreconfig "goalbot/core/config"
	"goalbot/core/logger"
	coretelegram "goalbot/core/telegram"
	"goalbot/internal/bot"
	"goalbot/internal/goals"
	"goalbot/internal/web"
)

// Config wraps the core configuration for the command runner.
type Config struct {
	core *coreconfig.Config
}

// CoreConfig implements cmd.ConfigCarrier.
func (c *Config) CoreConfig() *coreconfig.Config {
	return c.core
}

// LoadConfig reads and validates the YAML configuration at path.
func LoadConfig(path string) (corecmd.ConfigCarrier, error) {
	cfg, err := coreconfig.Load(path)
	if err != nil {
		return nil, err
	}
	return &Config{core: cfg}, nil
}

// App holds the running application wiring.
type App struct {
	cfg   *coreconfig.Config
	db    *sqlx.DB
	store goals.Store
	state *BotState
	web   *web.Server
}

// Bootstrap initializes the logger, database, and migrations, then builds
// the application.
func Bootstrap(carrier corecmd.ConfigCarrier) (corecmd.TelegramApp, error) {
	cfg := carrier.CoreConfig()

	res, err := bootstrap.Run(bootstrap.Options{Config: cfg})
	if err != nil {
		return nil, err
	}

	a := &App{
		cfg:   cfg,
		db:    res.DB,
		store: goals.NewStore(res.DB),
		state: NewBotState(),
	}
	if cfg.HTTP.Enabled {
		a.web = web.NewServer(a.store, a.state)
	}
	return a, nil
}

// TelegramRunOptions implements cmd.TelegramApp.
func (a *App) TelegramRunOptions() (coretelegram.RunOptions, error) {
	if a.cfg == nil {
		return coretelegram.RunOptions{}, fmt.Errorf("app: missing configuration")
	}

	reg := coretelegram.NewRegistry()
	handlers := bot.NewHandlers(a.store)
	routes := bot.Routes(reg, handlers, bot.RouteOptions{AdminID: a.cfg.Telegram.AdminID})

	return coretelegram.RunOptions{
		Config:      a.cfg,
		Registry:    reg,
		Middlewares: coretelegram.DefaultMiddlewares(a.cfg, nil),
		Routes:      routes,
		OnStart:     a.onStart,
		OnStop:      a.onStop,
	}, nil
}

func (a *App) onStart(ctx context.Context, _ coretelegram.Runtime) error {
	if a.web != nil {
		addr := fmt.Sprintf("%s:%d", a.cfg.HTTP.Listen, a.cfg.HTTP.Port)
		go func() {
			if err := a.web.Listen(addr); err != nil {
				logger.Error(context.Background(), "web", "serve_failed",
					slog.String("err", err.Error()),
				)
			}
		}()
	}
	a.state.Set(PhaseOnline)
	return nil
}

func (a *App) onStop(ctx context.Context, _ coretelegram.Runtime) error {
	a.state.Set(PhaseStopped)

	if a.web != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := a.web.Shutdown(shutdownCtx); err != nil {
			logger.Warn(ctx, "web", "shutdown_failed", slog.String("err", err.Error()))
		}
	}

	if a.db != nil {
		if err := a.db.Close(); err != nil {
			logger.Warn(ctx, "db", "close_failed", slog.String("err", err.Error()))
		}
	}
	return nil
}
