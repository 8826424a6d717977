package logger

import (
	"bytes"
	"io"
	"strings"
	"testing"
	"time"

	"log/slog"
)

// captureLine runs fn against a logger backed by a fresh handler and returns
// the single emitted line.
func captureLine(t *testing.T, format logFormat, fn func(*slog.Logger)) string {
	t.Helper()
	buf := &bytes.Buffer{}
	aw := newAsyncWriter([]io.Writer{buf}, 1024)
	handler := newLineHandler(handlerOptions{
		level:    slog.LevelDebug,
		writer:   aw,
		format:   format,
		keyOrder: append([]string(nil), defaultKeyOrder...),
	})

	fn(slog.New(handler))

	if err := aw.Flush(); err != nil {
		t.Fatalf("flush: %v", err)
	}
	if err := aw.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	return strings.TrimSpace(buf.String())
}

func TestHandlerKVKeyOrder(t *testing.T) {
	ctx := WithRID(Background(), "rid-123")
	ctx = WithUpdateMeta(ctx, 42, 7, 9)

	line := captureLine(t, formatKV, func(log *slog.Logger) {
		LogEvent(ctx, log.With("component", "app"), slog.LevelInfo, "goal.create",
			slog.String("status", "ok"),
			slog.Int64("goal_id", 3),
		)
	})
	if line == "" {
		t.Fatal("expected log line")
	}

	tokens := strings.Split(line, " ")
	expected := []string{"ts=", "level=INFO", "component=app", "event=goal.create", "status=ok", "rid=rid-123"}
	if len(tokens) < len(expected) {
		t.Fatalf("unexpected token count: %d (%s)", len(tokens), line)
	}
	for i, prefix := range expected {
		if !strings.HasPrefix(tokens[i], prefix) {
			t.Fatalf("token %d = %s, expected prefix %s", i, tokens[i], prefix)
		}
	}
	if !strings.Contains(line, "goal_id=3") {
		t.Fatalf("goal_id missing: %s", line)
	}
}

func TestHandlerJSONKeyOrder(t *testing.T) {
	ctx := WithRID(Background(), "rid-json")
	ctx = WithUpdateMeta(ctx, 11, 22, 33)

	line := captureLine(t, formatJSON, func(log *slog.Logger) {
		LogEvent(ctx, log.With("component", "service.goals"), slog.LevelError, "goal.create",
			slog.String("status", "fail"),
			slog.String("err", "boom"),
			slog.String("err_code", "STORE"),
		)
	})
	if !strings.HasPrefix(line, "{") {
		t.Fatalf("expected JSON, got %s", line)
	}

	prefixes := []string{`{"ts":`, `"level":"ERROR"`, `"component":"service.goals"`, `"event":"goal.create"`, `"status":"fail"`, `"rid":"rid-json"`}
	pos := -1
	for _, pref := range prefixes {
		idx := strings.Index(line, pref)
		if idx == -1 || idx < pos {
			t.Fatalf("prefix %s not found in order within %s", pref, line)
		}
		pos = idx
	}
	if !strings.Contains(line, `"ts_unix_nano"`) {
		t.Fatalf("ts_unix_nano missing from JSON output: %s", line)
	}
}

func TestHandlerCompactRID(t *testing.T) {
	rawRID := "123:456:789"
	ctx := WithRID(Background(), rawRID)

	kv := captureLine(t, formatKV, func(log *slog.Logger) {
		LogEvent(ctx, log.With("component", "app"), slog.LevelInfo, "rid.test",
			slog.String("status", "ok"),
		)
	})
	if !strings.Contains(kv, "rid="+CompactRID(rawRID)) {
		t.Fatalf("expected compact rid, got %s", kv)
	}
	if strings.Contains(kv, "rid_full=") {
		t.Fatalf("rid_full should be omitted in KV output, got %s", kv)
	}

	js := captureLine(t, formatJSON, func(log *slog.Logger) {
		LogEvent(ctx, log.With("component", "app"), slog.LevelInfo, "rid.test",
			slog.String("status", "ok"),
		)
	})
	if !strings.Contains(js, `"rid":"`+CompactRID(rawRID)+`"`) {
		t.Fatalf("expected compact rid in JSON, got %s", js)
	}
	if !strings.Contains(js, `"rid_full":"`+rawRID+`"`) {
		t.Fatalf("expected rid_full in JSON output, got %s", js)
	}
}

func TestHandlerDurationKeys(t *testing.T) {
	line := captureLine(t, formatKV, func(log *slog.Logger) {
		LogEvent(Background(), log.With("component", "app"), slog.LevelInfo, "timing.test",
			slog.Duration("duration", 1500*time.Millisecond),
			slog.Duration("startup_duration", 2*time.Second),
		)
	})
	if !strings.Contains(line, "duration_ms=1500") {
		t.Fatalf("duration not normalized: %s", line)
	}
	if !strings.Contains(line, "startup_duration_ms=2000") {
		t.Fatalf("suffixed duration not normalized: %s", line)
	}
}

func TestHandlerDropsEmptyFields(t *testing.T) {
	line := captureLine(t, formatKV, func(log *slog.Logger) {
		LogEvent(Background(), log.With("component", "app"), slog.LevelInfo, "empty.test",
			slog.String("status", "ok"),
			slog.String("cause", ""),
		)
	})
	if strings.Contains(line, "cause=") {
		t.Fatalf("empty field not pruned: %s", line)
	}
}
