package web

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"goalbot/internal/goals"
)

type stubStore struct {
	goals []goals.Goal
	err   error
}

func (s *stubStore) Create(context.Context, string, string, string) (goals.Goal, error) {
	return goals.Goal{}, errors.New("not implemented")
}

func (s *stubStore) ByID(context.Context, int64) (goals.Goal, error) {
	return goals.Goal{}, goals.ErrNotFound
}

func (s *stubStore) ByChat(_ context.Context, chatID string) ([]goals.Goal, error) {
	if s.err != nil {
		return nil, s.err
	}
	var out []goals.Goal
	for _, g := range s.goals {
		if g.ChatID == chatID {
			out = append(out, g)
		}
	}
	return out, nil
}

func (s *stubStore) ActiveByChat(ctx context.Context, chatID string) ([]goals.Goal, error) {
	return s.ByChat(ctx, chatID)
}

func (s *stubStore) Complete(context.Context, int64, string, string) (goals.Goal, error) {
	return goals.Goal{}, goals.ErrNotFound
}

type stubStatus struct{ phase string }

func (s *stubStatus) Phase() string { return s.phase }

func decodeBody(t *testing.T, r io.Reader, into any) {
	t.Helper()
	if err := json.NewDecoder(r).Decode(into); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}

func TestHealthEndpoint(t *testing.T) {
	srv := NewServer(&stubStore{}, &stubStatus{phase: "online"})

	resp, err := srv.App().Test(httptest.NewRequest("GET", "/health", nil))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var body map[string]string
	decodeBody(t, resp.Body, &body)
	if body["status"] != "healthy" {
		t.Fatalf("status field = %q, want healthy", body["status"])
	}
	if body["service"] != "GoalBot" {
		t.Fatalf("service field = %q", body["service"])
	}
	if _, err := time.Parse(time.RFC3339, body["timestamp"]); err != nil {
		t.Fatalf("timestamp not RFC3339: %q", body["timestamp"])
	}
}

func TestBotStatusEndpoint(t *testing.T) {
	srv := NewServer(&stubStore{}, &stubStatus{phase: "starting"})

	resp, err := srv.App().Test(httptest.NewRequest("GET", "/api/bot/status", nil))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	var body map[string]string
	decodeBody(t, resp.Body, &body)
	if body["status"] != "starting" {
		t.Fatalf("status field = %q, want starting", body["status"])
	}
	if body["message"] != "GoalBot is running" {
		t.Fatalf("message field = %q", body["message"])
	}
}

func TestGoalsEndpoint(t *testing.T) {
	completedAt := time.Date(2025, 5, 1, 10, 0, 0, 0, time.UTC)
	completedBy := "bob"
	store := &stubStore{goals: []goals.Goal{
		{
			ID:        1,
			Title:     "Ship the release",
			ChatID:    "100",
			CreatedBy: "alice",
			Status:    goals.StatusInProgress,
			CreatedAt: time.Date(2025, 5, 1, 9, 0, 0, 0, time.UTC),
		},
		{
			ID:          2,
			Title:       "Write docs",
			ChatID:      "100",
			CreatedBy:   "alice",
			Status:      goals.StatusCompleted,
			CreatedAt:   time.Date(2025, 5, 1, 8, 0, 0, 0, time.UTC),
			CompletedAt: &completedAt,
			CompletedBy: &completedBy,
		},
		{ID: 3, Title: "Elsewhere", ChatID: "200", CreatedBy: "carol", Status: goals.StatusInProgress},
	}}
	srv := NewServer(store, &stubStatus{phase: "online"})

	resp, err := srv.App().Test(httptest.NewRequest("GET", "/api/goals?chatId=100", nil))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var list []map[string]any
	decodeBody(t, resp.Body, &list)
	if len(list) != 2 {
		t.Fatalf("got %d goals, want 2", len(list))
	}
	if list[0]["title"] != "Ship the release" {
		t.Fatalf("first goal = %v", list[0])
	}
	if list[1]["completedBy"] != "bob" {
		t.Fatalf("completed goal fields = %v", list[1])
	}
}

func TestGoalsEndpointRequiresChatID(t *testing.T) {
	srv := NewServer(&stubStore{}, &stubStatus{phase: "online"})

	resp, err := srv.App().Test(httptest.NewRequest("GET", "/api/goals", nil))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 400 {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
	var body map[string]string
	decodeBody(t, resp.Body, &body)
	if body["message"] != "chatId is required" {
		t.Fatalf("message = %q", body["message"])
	}
}

func TestGoalsEndpointStoreFailure(t *testing.T) {
	srv := NewServer(&stubStore{err: errors.New("connection refused")}, &stubStatus{phase: "online"})

	resp, err := srv.App().Test(httptest.NewRequest("GET", "/api/goals?chatId=100", nil))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 500 {
		t.Fatalf("status = %d, want 500", resp.StatusCode)
	}
	var body map[string]string
	decodeBody(t, resp.Body, &body)
	if body["message"] != "Error fetching goals" {
		t.Fatalf("message = %q", body["message"])
	}
}

func TestGoalsEndpointEmptyListIsArray(t *testing.T) {
	srv := NewServer(&stubStore{}, &stubStatus{phase: "online"})

	resp, err := srv.App().Test(httptest.NewRequest("GET", "/api/goals?chatId=999", nil))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)
	if string(raw) != "[]" {
		t.Fatalf("empty result = %s, want []", raw)
	}
}
