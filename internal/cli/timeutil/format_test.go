package timeutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatUptime(t *testing.T) {
	assert.Equal(t, "3d 0h 30m 15s", FormatUptime("72h30m15s"))
	assert.Equal(t, "2h 5m 0s", FormatUptime("2h5m"))
	assert.Equal(t, "45s", FormatUptime("45s"))
	assert.Equal(t, "not-a-duration", FormatUptime("not-a-duration"))
}

func TestFormatStamp(t *testing.T) {
	assert.Equal(t, "-", FormatStamp(time.Time{}))

	ts := time.Date(2025, 3, 1, 12, 0, 0, 0, time.Local)
	assert.Equal(t, "2025-03-01 12:00:00", FormatStamp(ts))
}

func TestFormatAgo(t *testing.T) {
	assert.Equal(t, "-", FormatAgo(time.Time{}))

	now := time.Now()
	assert.Equal(t, "10s ago", FormatAgo(now.Add(-10*time.Second)))
	assert.Equal(t, "3m ago", FormatAgo(now.Add(-3*time.Minute-5*time.Second)))
	assert.Equal(t, "2h ago", FormatAgo(now.Add(-2*time.Hour-time.Minute)))
	assert.Equal(t, "5d ago", FormatAgo(now.Add(-5*24*time.Hour-time.Hour)))

	// Future timestamps clamp to zero
	assert.Equal(t, "0s ago", FormatAgo(now.Add(time.Minute)))
}
