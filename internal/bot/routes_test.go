package bot

import (
	"strings"
	"testing"

	tele "gopkg.in/telebot.v4"
)

// fakeTeleContext implements just enough of tele.Context for the dispatch
// path: text, sender, chat, the key-value store used by the logging helpers,
// and Send, which records outgoing replies.
type fakeTeleContext struct {
	tele.Context

	text   string
	sender *tele.User
	chat   *tele.Chat

	store map[string]any
	sent  []string
}

func newFakeTeleContext(text string, senderID int64) *fakeTeleContext {
	return &fakeTeleContext{
		text:   text,
		sender: &tele.User{ID: senderID, Username: "someone"},
		chat:   &tele.Chat{ID: 100, Title: "Team Chat"},
		store:  map[string]any{},
	}
}

func (c *fakeTeleContext) Text() string        { return c.text }
func (c *fakeTeleContext) Sender() *tele.User  { return c.sender }
func (c *fakeTeleContext) Chat() *tele.Chat    { return c.chat }
func (c *fakeTeleContext) Update() tele.Update { return tele.Update{ID: 1} }

func (c *fakeTeleContext) Set(key string, val any) { c.store[key] = val }
func (c *fakeTeleContext) Get(key string) any      { return c.store[key] }

func (c *fakeTeleContext) Send(what any, _ ...any) error {
	if text, ok := what.(string); ok {
		c.sent = append(c.sent, text)
	}
	return nil
}

func (c *fakeTeleContext) lastReply(t *testing.T) string {
	t.Helper()
	if len(c.sent) == 0 {
		t.Fatal("no reply sent")
	}
	return c.sent[len(c.sent)-1]
}

func TestStatusFallbackRequiresAdmin(t *testing.T) {
	dispatch := dispatchHandler(NewHandlers(&fakeStore{}), RouteOptions{AdminID: 42})

	// Leading whitespace keeps telebot from routing to the registered
	// /status endpoint, so the text falls through to the catch-all handler.
	c := newFakeTeleContext("  /status", 555)
	if err := dispatch(c); err != nil {
		t.Fatalf("dispatch failed: %v", err)
	}
	if got := c.lastReply(t); got != unknownCommandReply {
		t.Fatalf("non-admin reply = %q, want unknown-command reply", got)
	}
}

func TestStatusFallbackAllowsAdmin(t *testing.T) {
	dispatch := dispatchHandler(NewHandlers(&fakeStore{}), RouteOptions{AdminID: 42})

	c := newFakeTeleContext("  /status", 42)
	if err := dispatch(c); err != nil {
		t.Fatalf("dispatch failed: %v", err)
	}
	if got := c.lastReply(t); !strings.Contains(got, "Uptime:") {
		t.Fatalf("admin reply = %q, want runtime status", got)
	}
}

func TestStatusFallbackOpenWithoutAdminConfigured(t *testing.T) {
	// AdminID zero disables the check, matching AdminOnlyMiddleware.
	dispatch := dispatchHandler(NewHandlers(&fakeStore{}), RouteOptions{})

	c := newFakeTeleContext("/status", 555)
	if err := dispatch(c); err != nil {
		t.Fatalf("dispatch failed: %v", err)
	}
	if got := c.lastReply(t); !strings.Contains(got, "Uptime:") {
		t.Fatalf("reply = %q, want runtime status", got)
	}
}

func TestPlainTextGetsNoReply(t *testing.T) {
	dispatch := dispatchHandler(NewHandlers(&fakeStore{}), RouteOptions{AdminID: 42})

	c := newFakeTeleContext("good morning everyone", 555)
	if err := dispatch(c); err != nil {
		t.Fatalf("dispatch failed: %v", err)
	}
	if len(c.sent) != 0 {
		t.Fatalf("sent %d replies to plain text, want none", len(c.sent))
	}
}
