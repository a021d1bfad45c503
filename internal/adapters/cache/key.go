package cache

import "strings"

// Key normalizes address text into a cache key: trimmed, lowercased, and
// with runs of whitespace collapsed.
func Key(text string) string {
	return strings.ToLower(strings.Join(strings.Fields(text), " "))
}
