package bot

import (
	"context"
	"reflect"
	"strconv"
	"strings"
	"time"

	"goalbot/core/logger"
	tg "goalbot/core/telegram"
	"goalbot/core/telegram/commands"
	tghelpers "goalbot/core/telegram/helpers"
	"goalbot/core/telegram/middleware"
	"log/slog"

	tele "gopkg.in/telebot.v4"
)

// RouteOptions configures how the bot commands are wired.
type RouteOptions struct {
	AdminID int64
}

// Routes registers the goal commands in the registry and returns the telebot
// routes. Every text update, whether it arrives on a registered command
// endpoint or plain OnText, funnels through the same parse-and-dispatch path,
// so command matching behaves identically on both.
func Routes(reg *tg.Registry, h *Handlers, opts RouteOptions) []tg.Route {
	dispatch := dispatchHandler(h, opts)

	reg.RegisterCommand("/help", commands.Command{
		Handler:     dispatch,
		Description: "Show available commands",
	})
	reg.RegisterCommand("/newgoal", commands.Command{
		Handler:     dispatch,
		Description: "Create a new group goal",
	})
	reg.RegisterCommand("/goals", commands.Command{
		Handler:     dispatch,
		Description: "List active goals",
	})
	reg.RegisterCommand("/complete", commands.Command{
		Handler:     dispatch,
		Description: "Mark a goal as complete",
	})
	reg.RegisterCommand("/status", commands.Command{
		Handler:     dispatch,
		Description: "Runtime status",
		AdminOnly:   true,
		Hidden:      true,
	})

	adminOpts := middleware.AdminOptions{AdminID: opts.AdminID}

	routes := make([]tg.Route, 0, len(reg.Commands())+1)
	for cmd, def := range reg.Commands() {
		wrapped := def.Handler
		if def.AdminOnly {
			wrapped = middleware.AdminOnlyMiddleware(adminOpts)(wrapped)
		}
		routes = append(routes, tg.Route{Endpoint: cmd, Handler: wrapped})
	}

	// Unregistered slash commands and plain text land here.
	routes = append(routes, tg.Route{Endpoint: tele.OnText, Handler: dispatch})

	logger.Event(context.Background(), "tg.wire", slog.LevelInfo, "complete",
		slog.Int("commands", len(reg.Commands())),
	)

	return routes
}

func dispatchHandler(h *Handlers, opts RouteOptions) tele.HandlerFunc {
	return func(c tele.Context) error {
		start := time.Now()
		cmd := Parse(c.Text())
		if cmd.Kind == KindNone {
			logHandlerSummary(c, "none", start, "skip", "ok", nil)
			return nil
		}
		// The OnText fallback bypasses the admin middleware wrapped around
		// the registered /status endpoint, so the sender is checked here as
		// well. Non-admins get the same reply as for any unknown command.
		if cmd.Kind == KindStatus && !senderIsAdmin(c, opts.AdminID) {
			cmd.Kind = KindUnknown
		}

		name := handlerName(cmd.Kind)
		return handleWithSummary(c, name, start, func() error {
			ctx := tghelpers.WithHandler(c, name)

			var reply string
			switch cmd.Kind {
			case KindHelp:
				reply = h.Help()
			case KindNewGoal:
				reply = h.NewGoal(ctx, chatID(c), chatLabel(c), displayName(c), cmd.Title)
			case KindGoals:
				reply = h.ListGoals(ctx, chatID(c))
			case KindComplete:
				reply = h.Complete(ctx, chatID(c), displayName(c), cmd.GoalID)
			case KindStatus:
				reply = h.Status()
			default:
				reply = h.Unknown()
			}
			return tghelpers.SendText(c, reply)
		})
	}
}

// senderIsAdmin mirrors AdminOnlyMiddleware: an unset AdminID disables
// the check.
func senderIsAdmin(c tele.Context, adminID int64) bool {
	if adminID == 0 {
		return true
	}
	sender := c.Sender()
	return sender != nil && sender.ID == adminID
}

func handlerName(k Kind) string {
	switch k {
	case KindHelp:
		return "help"
	case KindNewGoal:
		return "newgoal"
	case KindGoals:
		return "goals"
	case KindComplete:
		return "complete"
	case KindStatus:
		return "status"
	default:
		return "unknown"
	}
}

// chatID renders the numeric chat identifier as the string key used for
// goal scoping.
func chatID(c tele.Context) string {
	chat := c.Chat()
	if chat == nil {
		return ""
	}
	return strconv.FormatInt(chat.ID, 10)
}

func chatLabel(c tele.Context) string {
	chat := c.Chat()
	if chat != nil && chat.Title != "" {
		return chat.Title
	}
	return "Group Chat"
}

func displayName(c tele.Context) string {
	user := c.Sender()
	if user == nil {
		return "Unknown"
	}
	if user.Username != "" {
		return user.Username
	}
	if user.FirstName != "" {
		return user.FirstName
	}
	return "Unknown"
}

func handleWithSummary(c tele.Context, handlerName string, start time.Time, fn func() error) error {
	err := fn()
	logHandlerSummary(c, handlerName, start, "", "", err)
	return err
}

func logHandlerSummary(c tele.Context, handlerName string, start time.Time, statusOverride, outcomeOverride string, err error) {
	ctx := tghelpers.WithHandler(c, handlerName)
	msgs, kb := middleware.GetCounters(c)

	status := statusOverride
	if status == "" {
		if err != nil {
			status = "fail"
		} else {
			status = "ok"
		}
	}
	outcome := outcomeOverride
	if outcome == "" {
		if err != nil {
			outcome = "fail"
		} else {
			outcome = "ok"
		}
	}

	attrs := []slog.Attr{
		slog.String("status", status),
		slog.String("handler", handlerName),
		slog.String("outcome", outcome),
		slog.Int("messages", msgs),
		slog.Bool("kb", kb),
		slog.Int64("duration_ms", logger.RoundMS(time.Since(start)).Milliseconds()),
	}
	if err != nil {
		attrs = append(attrs,
			slog.String("err", logger.SanitizeLimit(err.Error(), 256)),
			slog.String("err_code", deriveErrorCode(err)),
			slog.String("cause", handlerName),
		)
	}
	logger.LogEvent(ctx, logger.Component("tg"), slog.LevelInfo, "handler.handled", attrs...)
}

func deriveErrorCode(err error) string {
	if err == nil {
		return ""
	}
	type coder interface{ Code() string }
	if c, ok := err.(coder); ok {
		code := strings.TrimSpace(c.Code())
		if code != "" {
			return strings.ToUpper(strings.ReplaceAll(code, " ", "_"))
		}
	}
	t := reflect.TypeOf(err)
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t != nil {
		return strings.ToUpper(strings.ReplaceAll(t.Name(), " ", "_"))
	}
	return "UNKNOWN_ERROR"
}
