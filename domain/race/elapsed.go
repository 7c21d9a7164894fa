package race

import (
	"fmt"
	"strconv"
	"strings"
)

// nonFinishMarkers are raw time values that indicate a participant did not
// record a finish. They parse to zero seconds rather than an error.
var nonFinishMarkers = map[string]bool{
	"":    true,
	"-":   true,
	"dnf": true,
	"dns": true,
	"dq":  true,
	"dsq": true,
	"n/a": true,
}

// ParseElapsed converts a clock-style duration string ("1:23:45", "23:45",
// "23:45.6") into seconds. Non-finish markers parse to zero with ok=false.
func ParseElapsed(raw string) (seconds float64, ok bool) {
	cleaned := strings.ToLower(strings.TrimSpace(raw))
	if nonFinishMarkers[cleaned] {
		return 0, false
	}

	parts := strings.Split(cleaned, ":")
	if len(parts) > 3 {
		return 0, false
	}

	total := 0.0
	for _, part := range parts {
		value, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil || value < 0 {
			return 0, false
		}
		total = total*60 + value
	}

	if total <= 0 {
		return 0, false
	}
	return total, true
}

// FormatElapsed renders seconds as "h:mm:ss" (or "mm:ss" under an hour).
func FormatElapsed(seconds float64) string {
	if seconds <= 0 {
		return "-"
	}

	total := int(seconds + 0.5)
	hours := total / 3600
	minutes := (total % 3600) / 60
	secs := total % 60

	if hours > 0 {
		return fmt.Sprintf("%d:%02d:%02d", hours, minutes, secs)
	}
	return fmt.Sprintf("%d:%02d", minutes, secs)
}
