package util

import (
	"time"

	"github.com/dustin/go-humanize"
)

// FormatFileSize returns a human-readable file size string.
func FormatFileSize(size int64) string {
	if size < 0 {
		size = 0
	}
	return humanize.Bytes(uint64(size))
}

// FormatAgo renders t relative to now ("3 hours ago"). Zero times render as "never".
func FormatAgo(t time.Time) string {
	if t.IsZero() {
		return "never"
	}
	return humanize.Time(t)
}
