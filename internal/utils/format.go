package utils

import (
	"fmt"
	"time"
)

// Bytes formats a byte count with a binary unit suffix.
// Examples: 512 -> "512B", 4096 -> "4.0KiB", 5242880 -> "5.0MiB"
func Bytes(n int64) string {
	switch {
	case n < 1<<10:
		return fmt.Sprintf("%dB", n)
	case n < 1<<20:
		return fmt.Sprintf("%.1fKiB", float64(n)/(1<<10))
	case n < 1<<30:
		return fmt.Sprintf("%.1fMiB", float64(n)/(1<<20))
	default:
		return fmt.Sprintf("%.1fGiB", float64(n)/(1<<30))
	}
}

// Duration formats time duration in human-readable form.
// Examples:
//   - Less than 1 second: "42ms"
//   - Less than 1 minute: "5.2s"
//   - 1 minute or more: "3m5.2s"
func Duration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	} else if d < time.Minute {
		return fmt.Sprintf("%.1fs", d.Seconds())
	}
	minutes := int(d.Minutes())
	seconds := d.Seconds() - float64(minutes*60)
	return fmt.Sprintf("%dm%.1fs", minutes, seconds)
}
