package ui

import (
	"fmt"
	"time"
)

// formatRelativeTime converts a timestamp to a human-readable relative
// time string. Returns empty string for zero times.
func formatRelativeTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}

	elapsed := time.Since(t)

	if elapsed < time.Minute {
		return "just now"
	}
	if elapsed < time.Hour {
		return fmt.Sprintf("%dm ago", int(elapsed.Minutes()))
	}
	if elapsed < 24*time.Hour {
		return fmt.Sprintf("%dh ago", int(elapsed.Hours()))
	}
	return fmt.Sprintf("%dd ago", int(elapsed.Hours()/24))
}
