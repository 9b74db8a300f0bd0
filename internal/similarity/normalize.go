package similarity

import (
	"regexp"
	"strings"
)

var (
	nonAlnum   = regexp.MustCompile(`[^a-z0-9]+`)
	multiSpace = regexp.MustCompile(`\s+`)
)

// Normalize canonicalizes joke text for comparison: lowercase, every run of
// characters outside [a-z0-9] becomes a single space, whitespace collapsed,
// ends trimmed. Total and idempotent; the empty string maps to itself.
func Normalize(s string) string {
	s = strings.ToLower(s)
	s = nonAlnum.ReplaceAllString(s, " ")
	s = multiSpace.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}
