package bot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"goalbot/core/buildinfo"
	"goalbot/core/logger"
	"goalbot/internal/goals"
)

const (
	helpReply = `📋 GoalBot Commands:

/newgoal <title> - Create a new group goal
/goals - List all active goals
/complete <id> - Mark goal as complete
/help - Show this help message

Example:
/newgoal Launch marketing campaign
/complete 2`

	missingTitleReply = "❌ Please provide a goal title.\nExample: /newgoal Launch marketing campaign"
	invalidIDReply    = "❌ Please provide a valid goal ID.\nExample: /complete 2"
	notFoundReply     = "❌ Goal not found. Use /goals to see available goals."
	emptyGoalsReply   = "📭 No active goals in this chat.\n\nCreate one with: /newgoal <title>"

	createFailedReply   = "❌ Error creating goal. Please try again."
	listFailedReply     = "❌ Error fetching goals. Please try again."
	completeFailedReply = "❌ Error completing goal. Please try again."

	unknownCommandReply = "❓ Unknown command. Use /help to see available commands."
)

// Handlers implements the goal lifecycle commands. Every method returns the
// reply text for the chat; store failures are logged here and surfaced to the
// user as a generic retry message, never as an error to the transport layer.
type Handlers struct {
	store     goals.Store
	now       func() time.Time
	startedAt time.Time
}

// NewHandlers builds the command handlers on top of the given store.
func NewHandlers(store goals.Store) *Handlers {
	return &Handlers{
		store:     store,
		now:       time.Now,
		startedAt: time.Now(),
	}
}

// Help returns the static usage message.
func (h *Handlers) Help() string {
	return helpReply
}

// NewGoal validates the title and creates a goal scoped to the chat.
func (h *Handlers) NewGoal(ctx context.Context, chatID, chatLabel, username, title string) string {
	title = strings.TrimSpace(title)
	if title == "" {
		h.logRejected(ctx, "goal.new", &goals.ValidationError{Reason: "empty title"})
		return missingTitleReply
	}

	g, err := h.store.Create(ctx, title, chatID, username)
	if err != nil {
		h.logFailed(ctx, &goals.StoreError{Op: "create", Err: err})
		return createFailedReply
	}

	return fmt.Sprintf(`✅ Goal Created!

🎯 Goal #%d: %s
👤 Created by @%s
💬 Chat: %s

Use /complete %d when finished!`, g.ID, g.Title, username, chatLabel, g.ID)
}

// ListGoals renders the active goals of a chat as a numbered list.
func (h *Handlers) ListGoals(ctx context.Context, chatID string) string {
	active, err := h.store.ActiveByChat(ctx, chatID)
	if err != nil {
		h.logFailed(ctx, &goals.StoreError{Op: "active_by_chat", Err: err})
		return listFailedReply
	}
	if len(active) == 0 {
		return emptyGoalsReply
	}

	now := h.now()
	var b strings.Builder
	fmt.Fprintf(&b, "📋 Active Goals (%d):\n\n", len(active))
	for i, g := range active {
		fmt.Fprintf(&b, "%d. Goal #%d: %s\n", i+1, g.ID, g.Title)
		fmt.Fprintf(&b, "   👤 Created by @%s %s\n", g.CreatedBy, relativeAge(now, g.CreatedAt))
		fmt.Fprintf(&b, "   ✅ Complete with: /complete %d\n\n", g.ID)
	}
	return strings.TrimRight(b.String(), "\n")
}

// Complete transitions a goal to completed. A goal belonging to another chat
// is reported exactly like a nonexistent one so that goal existence does not
// leak across chats.
func (h *Handlers) Complete(ctx context.Context, chatID, username string, goalID int64) string {
	if goalID <= 0 {
		h.logRejected(ctx, "goal.complete", &goals.ValidationError{Reason: "invalid goal id"})
		return invalidIDReply
	}

	existing, err := h.store.ByID(ctx, goalID)
	switch {
	case errors.Is(err, goals.ErrNotFound):
		return notFoundReply
	case err != nil:
		h.logFailed(ctx, &goals.StoreError{Op: "by_id", Err: err})
		return completeFailedReply
	}

	if existing.ChatID != chatID {
		return notFoundReply
	}
	if existing.Completed() {
		completedBy := "unknown"
		if existing.CompletedBy != nil {
			completedBy = *existing.CompletedBy
		}
		return fmt.Sprintf("✅ Goal #%d is already completed by @%s!", goalID, completedBy)
	}

	g, err := h.store.Complete(ctx, goalID, chatID, username)
	switch {
	case errors.Is(err, goals.ErrNotFound):
		// Lost a race: the row was completed or removed between the read and
		// the update. Indistinguishable from not-found for the user.
		return notFoundReply
	case err != nil:
		h.logFailed(ctx, &goals.StoreError{Op: "complete", Err: err})
		return completeFailedReply
	}

	return fmt.Sprintf(`🎉 Goal Completed!

✅ Goal #%d: %s
Completed by @%s
🎊 Great work team!`, g.ID, g.Title, username)
}

// Unknown returns the fallback reply for unrecognized slash commands.
func (h *Handlers) Unknown() string {
	return unknownCommandReply
}

// Status reports runtime information; exposed only to the admin.
func (h *Handlers) Status() string {
	uptime := time.Since(h.startedAt).Truncate(time.Second)
	return fmt.Sprintf("🤖 GoalBot %s (%s)\nUptime: %s\nBot is listening for commands.",
		buildinfo.Version, buildinfo.Commit, uptime)
}

func (h *Handlers) logRejected(ctx context.Context, event string, verr *goals.ValidationError) {
	logger.Debug(ctx, "service.goals", event,
		slog.String("status", "skip"),
		slog.String("err_code", verr.Code()),
		slog.String("err", verr.Error()),
	)
}

func (h *Handlers) logFailed(ctx context.Context, serr *goals.StoreError) {
	logger.Error(ctx, "service.goals", "goal."+serr.Op,
		slog.String("status", "fail"),
		slog.String("err_code", serr.Code()),
		slog.String("err", logger.SanitizeLimit(serr.Error(), 256)),
	)
}
