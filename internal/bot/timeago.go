package bot

import (
	"fmt"
	"time"
)

// relativeAge renders how long ago a goal was created, bucketed by minutes,
// hours, and days. Boundary values fall into the larger bucket: exactly 60
// minutes reads "1 hour ago", exactly 24 hours reads "1 day ago".
func relativeAge(now, createdAt time.Time) string {
	mins := int(now.Sub(createdAt).Minutes())
	switch {
	case mins < 1:
		return "just now"
	case mins < 60:
		return fmt.Sprintf("%d min%s ago", mins, plural(mins))
	case mins < 24*60:
		hours := mins / 60
		return fmt.Sprintf("%d hour%s ago", hours, plural(hours))
	default:
		days := mins / (24 * 60)
		return fmt.Sprintf("%d day%s ago", days, plural(days))
	}
}

func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}
