package bot

import (
	"testing"
	"time"
)

func TestRelativeAge(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	cases := []struct {
		name string
		ago  time.Duration
		want string
	}{
		{"seconds", 30 * time.Second, "just now"},
		{"one minute", time.Minute, "1 min ago"},
		{"many minutes", 45 * time.Minute, "45 mins ago"},
		{"just under an hour", 59 * time.Minute, "59 mins ago"},
		{"exactly one hour", 60 * time.Minute, "1 hour ago"},
		{"several hours", 5 * time.Hour, "5 hours ago"},
		{"just under a day", 23*time.Hour + 59*time.Minute, "23 hours ago"},
		{"exactly one day", 24 * time.Hour, "1 day ago"},
		{"several days", 72 * time.Hour, "3 days ago"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := relativeAge(now, now.Add(-tc.ago))
			if got != tc.want {
				t.Fatalf("relativeAge(-%v) = %q, want %q", tc.ago, got, tc.want)
			}
		})
	}
}
