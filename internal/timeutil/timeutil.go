package timeutil

import "time"

// FormatTimestamp renders the canonical UTC timestamp written to result rows.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

// ParseTimestamp parses a timestamp produced by FormatTimestamp.
func ParseTimestamp(value string) (time.Time, error) {
	return time.Parse(time.RFC3339, value)
}
