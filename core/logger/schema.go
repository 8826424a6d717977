package logger

import "strings"

// Canonical severity names as they appear in log lines.
const (
	LevelDebug = "DEBUG"
	LevelInfo  = "INFO"
	LevelWarn  = "WARN"
	LevelError = "ERROR"
	LevelFatal = "FATAL"
)

var levelAliases = map[string]string{
	"debug":   LevelDebug,
	"info":    LevelInfo,
	"warn":    LevelWarn,
	"warning": LevelWarn,
	"error":   LevelError,
	"fatal":   LevelFatal,
}

// statusValues and outcomeValues are the closed enumerations accepted for
// the status and outcome fields. Anything else is logged as-is for status
// (flagged not-ok) and dropped for outcome.
var statusValues = map[string]struct{}{
	"ok":           {},
	"fail":         {},
	"skip":         {},
	"retry":        {},
	"rate_limited": {},
	"cancelled":    {},
}

var outcomeValues = map[string]struct{}{
	"ok":           {},
	"fail":         {},
	"cancelled":    {},
	"rate_limited": {},
}

func normalizeLevel(level string) string {
	if level == "" {
		return LevelInfo
	}
	if mapped, ok := levelAliases[strings.ToLower(level)]; ok {
		return mapped
	}
	return strings.ToUpper(level)
}

func normalizeStatus(status string) (string, bool) {
	status = strings.ToLower(strings.TrimSpace(status))
	if status == "" {
		return "", false
	}
	_, ok := statusValues[status]
	return status, ok
}

func normalizeOutcome(outcome string) (string, bool) {
	outcome = strings.ToLower(strings.TrimSpace(outcome))
	if outcome == "" {
		return "", false
	}
	if _, ok := outcomeValues[outcome]; ok {
		return outcome, true
	}
	return "", false
}

// defaultKeyOrder fixes the position of well-known fields in emitted lines.
// Keys not listed here are appended after these, sorted alphabetically.
var defaultKeyOrder = []string{
	"ts",
	"level",
	"component",
	"event",
	"status",
	"rid",
	"rid_full",
	"ts_unix_nano",
	"update_id",
	"user_id",
	"chat_id",
	"chat_type",
	"handler",
	"outcome",
	"duration_ms",
	"elapsed_ms",
	"startup_duration_ms",
	"messages",
	"kb",
	"goal_id",
	"payload",
	"lang",
	"username",
	"mode",
	"listen",
	"public_url",
	"endpoint",
	"db",
	"host",
	"port",
	"driver",
	"files_total",
	"err",
	"err_code",
	"cause",
	"attempt",
	"attempts",
	"delay",
}
