// Package util provides file, temp-dir and formatting helpers.
package util

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
)

// FormatBitrate renders bits per second with an SI prefix, e.g. "192 kbps".
func FormatBitrate(bps int64) string {
	return humanize.SIWithDigits(float64(bps), 1, "bps")
}

// FormatElapsed formats a duration as HH:MM:SS.
func FormatElapsed(d time.Duration) string {
	if d < 0 {
		return "??:??:??"
	}
	secs := int64(d.Seconds())
	hours := secs / 3600
	minutes := (secs % 3600) / 60
	seconds := secs % 60
	return fmt.Sprintf("%02d:%02d:%02d", hours, minutes, seconds)
}

// Plural returns singular when n is 1 and plural otherwise.
func Plural(n int, singular, plural string) string {
	if n == 1 {
		return singular
	}
	return plural
}
