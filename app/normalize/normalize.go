// Package normalize cleans headline and tag text coming from news
// feeds and the generation API. Japanese sources routinely prefix
// titles with enumeration markers ("1.", "１．", "①") that must not
// leak into the served data.
package normalize

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/width"
)

// Digits (ASCII or full-width) need a trailing separator to count as a
// marker; circled numbers are markers on their own.
var leadingMarkerRe = regexp.MustCompile(`^(?:[0-9０-９]+[.．、)\s]+|[①-⑳]+[.．、)\s]*)`)

// StripLeadingMarker removes a leading enumeration marker from text
// and trims surrounding whitespace. Text without a marker is returned
// unchanged apart from trimming.
func StripLeadingMarker(text string) string {
	if text == "" {
		return ""
	}
	return strings.TrimSpace(leadingMarkerRe.ReplaceAllString(text, ""))
}

// IsValidTag reports whether tag carries real content. Strings that
// are empty or consist solely of digits, circled numbers, punctuation
// and whitespace are rejected, dropping degenerate tags like "1" or
// "." that models occasionally emit.
func IsValidTag(tag string) bool {
	for _, r := range width.Fold.String(tag) {
		switch {
		case unicode.IsSpace(r):
		case r >= '0' && r <= '9':
		case r >= '①' && r <= '⑳':
		case strings.ContainsRune(".．、()（）", r):
		default:
			return true
		}
	}
	return false
}
