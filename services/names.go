package services

import (
	"regexp"
	"strings"
)

var whitespaceRun = regexp.MustCompile(`\s+`)

// NormalizeName collapses every whitespace run to one space and trims the ends.
func NormalizeName(raw string) string {
	return strings.TrimSpace(whitespaceRun.ReplaceAllString(raw, " "))
}

// NameKey is the per-restaurant uniqueness key for a normalized name.
func NameKey(normalized string) string {
	return strings.ToLower(normalized)
}
