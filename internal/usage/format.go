// Package usage holds the pure derivation functions that turn raw usage
// numbers from the model into percentages, classifications and display
// strings. Nothing in this package performs I/O or keeps state.
package usage

import (
	"fmt"
	"strings"
)

// FormatMinutes renders a non-negative minute count as "2h 30m", "1h" or "45m".
// Negative input is not supported.
func FormatMinutes(minutes int) string {
	hours := minutes / 60
	mins := minutes % 60
	switch {
	case hours > 0 && mins > 0:
		return fmt.Sprintf("%dh %dm", hours, mins)
	case hours > 0:
		return fmt.Sprintf("%dh", hours)
	default:
		return fmt.Sprintf("%dm", mins)
	}
}

// FormatUsageOfLimit renders "used / limit", e.g. "2h 30m / 4h".
func FormatUsageOfLimit(used, limit int) string {
	return FormatMinutes(used) + " / " + FormatMinutes(limit)
}

// FirstName returns the first space-separated token of name.
func FirstName(name string) string {
	fields := strings.Fields(name)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}
