package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"goalbot/internal/goals"
)

// fakeStore is an in-memory Store with call counters for asserting which
// persistence operations a handler touches.
type fakeStore struct {
	byID   map[int64]goals.Goal
	nextID int64

	failCreate   error
	failByID     error
	failActive   error
	failComplete error

	createCalls   int
	byIDCalls     int
	activeCalls   int
	completeCalls int
}

func newFakeStore() *fakeStore {
	return &fakeStore{byID: map[int64]goals.Goal{}, nextID: 1}
}

func (f *fakeStore) Create(_ context.Context, title, chatID, createdBy string) (goals.Goal, error) {
	f.createCalls++
	if f.failCreate != nil {
		return goals.Goal{}, f.failCreate
	}
	g := goals.Goal{
		ID:        f.nextID,
		Title:     title,
		ChatID:    chatID,
		CreatedBy: createdBy,
		Status:    goals.StatusInProgress,
		CreatedAt: time.Now(),
	}
	f.nextID++
	f.byID[g.ID] = g
	return g, nil
}

func (f *fakeStore) ByID(_ context.Context, id int64) (goals.Goal, error) {
	f.byIDCalls++
	if f.failByID != nil {
		return goals.Goal{}, f.failByID
	}
	g, ok := f.byID[id]
	if !ok {
		return goals.Goal{}, goals.ErrNotFound
	}
	return g, nil
}

func (f *fakeStore) ByChat(_ context.Context, chatID string) ([]goals.Goal, error) {
	var out []goals.Goal
	for _, g := range f.byID {
		if g.ChatID == chatID {
			out = append(out, g)
		}
	}
	return out, nil
}

func (f *fakeStore) ActiveByChat(_ context.Context, chatID string) ([]goals.Goal, error) {
	f.activeCalls++
	if f.failActive != nil {
		return nil, f.failActive
	}
	var out []goals.Goal
	for id := f.nextID - 1; id >= 1; id-- {
		g, ok := f.byID[id]
		if ok && g.ChatID == chatID && g.Status == goals.StatusInProgress {
			out = append(out, g)
		}
	}
	return out, nil
}

func (f *fakeStore) Complete(_ context.Context, id int64, chatID, completedBy string) (goals.Goal, error) {
	f.completeCalls++
	if f.failComplete != nil {
		return goals.Goal{}, f.failComplete
	}
	g, ok := f.byID[id]
	if !ok || g.ChatID != chatID || g.Status != goals.StatusInProgress {
		return goals.Goal{}, goals.ErrNotFound
	}
	now := time.Now()
	g.Status = goals.StatusCompleted
	g.CompletedAt = &now
	g.CompletedBy = &completedBy
	f.byID[id] = g
	return g, nil
}

func TestGoalLifecycle(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	h := NewHandlers(store)

	reply := h.NewGoal(ctx, "100", "Team Chat", "alice", "Ship the release")
	if !strings.Contains(reply, "Goal #1: Ship the release") {
		t.Fatalf("create reply missing goal line: %q", reply)
	}
	if !strings.Contains(reply, "Created by @alice") {
		t.Fatalf("create reply missing author: %q", reply)
	}
	if !strings.Contains(reply, "Chat: Team Chat") {
		t.Fatalf("create reply missing chat label: %q", reply)
	}

	list := h.ListGoals(ctx, "100")
	if !strings.Contains(list, "Active Goals (1)") {
		t.Fatalf("list header wrong: %q", list)
	}
	if !strings.Contains(list, "1. Goal #1: Ship the release") {
		t.Fatalf("list entry wrong: %q", list)
	}
	if !strings.Contains(list, "/complete 1") {
		t.Fatalf("list missing completion hint: %q", list)
	}

	done := h.Complete(ctx, "100", "bob", 1)
	if !strings.Contains(done, "Goal Completed!") || !strings.Contains(done, "Completed by @bob") {
		t.Fatalf("complete reply wrong: %q", done)
	}

	if got := h.ListGoals(ctx, "100"); got != emptyGoalsReply {
		t.Fatalf("completed goal still listed: %q", got)
	}
}

func TestCompleteIsIdempotent(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	h := NewHandlers(store)

	h.NewGoal(ctx, "100", "Team Chat", "alice", "Write docs")
	h.Complete(ctx, "100", "bob", 1)

	again := h.Complete(ctx, "100", "carol", 1)
	want := "✅ Goal #1 is already completed by @bob!"
	if again != want {
		t.Fatalf("second completion = %q, want %q", again, want)
	}
	if g := store.byID[1]; g.CompletedBy == nil || *g.CompletedBy != "bob" {
		t.Fatalf("completed_by overwritten: %+v", g)
	}
}

func TestCompleteOtherChatLooksLikeNotFound(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	h := NewHandlers(store)

	h.NewGoal(ctx, "100", "Team Chat", "alice", "Private goal")

	crossChat := h.Complete(ctx, "200", "mallory", 1)
	missing := h.Complete(ctx, "200", "mallory", 999)
	if crossChat != missing {
		t.Fatalf("cross-chat reply %q differs from not-found reply %q", crossChat, missing)
	}
	if crossChat != notFoundReply {
		t.Fatalf("cross-chat reply = %q, want %q", crossChat, notFoundReply)
	}

	g := store.byID[1]
	if g.Status != goals.StatusInProgress {
		t.Fatalf("goal mutated by cross-chat attempt: %+v", g)
	}
}

func TestNewGoalRejectsEmptyTitle(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	h := NewHandlers(store)

	for _, title := range []string{"", "   ", "\t"} {
		if got := h.NewGoal(ctx, "100", "Team Chat", "alice", title); got != missingTitleReply {
			t.Fatalf("NewGoal(%q) = %q, want usage reply", title, got)
		}
	}
	if store.createCalls != 0 {
		t.Fatalf("store reached for empty titles: %d calls", store.createCalls)
	}
}

func TestCompleteRejectsInvalidID(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	h := NewHandlers(store)

	for _, id := range []int64{0, -1} {
		if got := h.Complete(ctx, "100", "alice", id); got != invalidIDReply {
			t.Fatalf("Complete(%d) = %q, want usage reply", id, got)
		}
	}
	if store.byIDCalls != 0 || store.completeCalls != 0 {
		t.Fatalf("store reached for invalid ids: byID=%d complete=%d", store.byIDCalls, store.completeCalls)
	}
}

func TestListGoalsOrdersNewestFirst(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	h := NewHandlers(store)

	h.NewGoal(ctx, "100", "Team Chat", "alice", "First")
	h.NewGoal(ctx, "100", "Team Chat", "bob", "Second")

	list := h.ListGoals(ctx, "100")
	first := strings.Index(list, "Goal #2: Second")
	second := strings.Index(list, "Goal #1: First")
	if first < 0 || second < 0 || first > second {
		t.Fatalf("expected newest goal first:\n%s", list)
	}
}

func TestListGoalsScopedToChat(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	h := NewHandlers(store)

	h.NewGoal(ctx, "100", "Team Chat", "alice", "Ours")
	h.NewGoal(ctx, "200", "Other Chat", "bob", "Theirs")

	list := h.ListGoals(ctx, "100")
	if strings.Contains(list, "Theirs") {
		t.Fatalf("foreign chat goal leaked into list:\n%s", list)
	}
	if !strings.Contains(list, "Ours") {
		t.Fatalf("own goal missing from list:\n%s", list)
	}
}

func TestStoreFailuresReturnRetryReplies(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("connection refused")

	store := newFakeStore()
	store.failCreate = boom
	h := NewHandlers(store)
	if got := h.NewGoal(ctx, "100", "Team Chat", "alice", "Anything"); got != createFailedReply {
		t.Fatalf("create failure reply = %q", got)
	}

	store = newFakeStore()
	store.failActive = boom
	h = NewHandlers(store)
	if got := h.ListGoals(ctx, "100"); got != listFailedReply {
		t.Fatalf("list failure reply = %q", got)
	}

	store = newFakeStore()
	h = NewHandlers(store)
	h.NewGoal(ctx, "100", "Team Chat", "alice", "Anything")
	store.failByID = boom
	if got := h.Complete(ctx, "100", "bob", 1); got != completeFailedReply {
		t.Fatalf("complete failure reply = %q", got)
	}
}

func TestCompleteRaceReportsNotFound(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	h := NewHandlers(store)

	h.NewGoal(ctx, "100", "Team Chat", "alice", "Contended")

	// The atomic update loses when another completion lands between the
	// handler's read and its write.
	store.failComplete = goals.ErrNotFound
	if got := h.Complete(ctx, "100", "bob", 1); got != notFoundReply {
		t.Fatalf("race loser reply = %q, want %q", got, notFoundReply)
	}
}

func TestListGoalsShowsRelativeAge(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	h := NewHandlers(store)

	h.NewGoal(ctx, "100", "Team Chat", "alice", "Aged goal")
	g := store.byID[1]
	g.CreatedAt = time.Now().Add(-2 * time.Hour)
	store.byID[1] = g

	list := h.ListGoals(ctx, "100")
	if !strings.Contains(list, "@alice 2 hours ago") {
		t.Fatalf("relative age missing:\n%s", list)
	}
}

func TestHelpAndUnknownReplies(t *testing.T) {
	h := NewHandlers(newFakeStore())

	help := h.Help()
	for _, cmd := range []string{"/newgoal", "/goals", "/complete", "/help"} {
		if !strings.Contains(help, cmd) {
			t.Fatalf("help text missing %s:\n%s", cmd, help)
		}
	}
	if strings.Contains(help, "/status") {
		t.Fatalf("admin command leaked into help:\n%s", help)
	}

	if got := h.Unknown(); got != unknownCommandReply {
		t.Fatalf("unknown reply = %q", got)
	}
}

func TestSuccessRepliesEmbedGoalID(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	h := NewHandlers(store)

	h.NewGoal(ctx, "100", "Team Chat", "alice", "One")
	reply := h.NewGoal(ctx, "100", "Team Chat", "alice", "Two")
	if !strings.Contains(reply, fmt.Sprintf("Use /complete %d when finished!", 2)) {
		t.Fatalf("create reply hint wrong: %q", reply)
	}
}
