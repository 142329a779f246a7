package content

import (
	"html"
	"math"
	"strings"
	"unicode/utf8"

	"github.com/microcosm-cc/bluemonday"
)

const wordsPerMinute = 200

var stripPolicy = func() *bluemonday.Policy {
	p := bluemonday.StrictPolicy()
	p.AddSpaceWhenStrippingTag(true)
	return p
}()

// PlainText removes all markup from s, decodes entities and collapses whitespace.
func PlainText(s string) string {
	if s == "" {
		return ""
	}
	text := html.UnescapeString(stripPolicy.Sanitize(s))
	return strings.Join(strings.Fields(text), " ")
}

// Excerpt returns the plain text of s cut to at most limit characters.
func Excerpt(s string, limit int) string {
	text := PlainText(s)
	if limit <= 0 || utf8.RuneCountInString(text) <= limit {
		return text
	}
	r := []rune(text)
	return strings.TrimSpace(string(r[:limit]))
}

// WordCount counts the words of the visible text of an HTML fragment.
func WordCount(s string) int {
	return len(strings.Fields(PlainText(s)))
}

// ReadTime estimates reading minutes at 200 words per minute, never below one.
func ReadTime(words int) int {
	minutes := int(math.Ceil(float64(words) / wordsPerMinute))
	if minutes < 1 {
		return 1
	}
	return minutes
}
