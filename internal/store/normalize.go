package store

import (
	"strings"
	"unicode"
)

// NormalizeNames splits a comma-separated list of player names, trims each
// entry, capitalizes the first letter and lowercases the rest, and drops
// entries that are empty after trimming.
func NormalizeNames(raw string) []string {
	parts := strings.Split(raw, ",")
	names := make([]string, 0, len(parts))
	for _, part := range parts {
		name := normalizeName(part)
		if name == "" {
			continue
		}
		names = append(names, name)
	}
	return names
}

func normalizeName(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	runes := []rune(strings.ToLower(trimmed))
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}
