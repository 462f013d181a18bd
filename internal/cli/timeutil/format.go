// Package timeutil provides time formatting helpers for CLI output.
package timeutil

import (
	"fmt"
	"time"
)

// StampFormat is the format used for absolute timestamps in CLI output.
const StampFormat = "2006-01-02 15:04:05"

// FormatUptime converts a duration string to a human-readable format.
// Input is expected to be a Go duration string (e.g., "72h30m15s").
// Returns a formatted string like "3d 0h 30m 15s" or the original string
// if parsing fails.
func FormatUptime(uptime string) string {
	d, err := time.ParseDuration(uptime)
	if err != nil {
		return uptime
	}

	days := int(d.Hours()) / 24
	hours := int(d.Hours()) % 24
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60

	switch {
	case days > 0:
		return fmt.Sprintf("%dd %dh %dm %ds", days, hours, minutes, seconds)
	case hours > 0:
		return fmt.Sprintf("%dh %dm %ds", hours, minutes, seconds)
	case minutes > 0:
		return fmt.Sprintf("%dm %ds", minutes, seconds)
	default:
		return fmt.Sprintf("%ds", seconds)
	}
}

// FormatStamp renders a timestamp in the local timezone using StampFormat.
// Zero times render as "-".
func FormatStamp(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format(StampFormat)
}

// FormatAgo renders how long ago t was, rounded to a single unit
// ("5s ago", "3m ago", "2h ago"). Zero times render as "-".
func FormatAgo(t time.Time) string {
	if t.IsZero() {
		return "-"
	}

	d := time.Since(t)
	if d < 0 {
		d = 0
	}

	switch {
	case d < time.Minute:
		return fmt.Sprintf("%ds ago", int(d.Seconds()))
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	default:
		return fmt.Sprintf("%dd ago", int(d.Hours())/24)
	}
}
