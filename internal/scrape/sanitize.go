package scrape

import (
	"regexp"
	"strings"
)

var whitespaceRe = regexp.MustCompile(`\s+`)

// Title and description length bounds for stored bookmarks.
const (
	MaxTitleLen       = 200
	MaxDescriptionLen = 500
)

// CleanText collapses whitespace runs to single spaces, trims, and
// truncates to maxLen. Truncation cuts at maxLen-3 and appends "..." so
// the result never exceeds maxLen.
func CleanText(text string, maxLen int) string {
	if text == "" {
		return ""
	}

	text = strings.TrimSpace(whitespaceRe.ReplaceAllString(text, " "))

	runes := []rune(text)
	if len(runes) > maxLen {
		text = string(runes[:maxLen-3]) + "..."
	}

	return text
}
