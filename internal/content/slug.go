// internal/content/slug.go
package content

import (
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var diacriticStripper = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Slugify turns heading text into an anchor token: diacritics are dropped,
// letters lowercased and every run of characters outside [a-z0-9] becomes a
// single "-". The result never starts or ends with "-" and may be empty.
func Slugify(text string) string {
	if stripped, _, err := transform.String(diacriticStripper, text); err == nil {
		text = stripped
	}
	text = strings.ToLower(text)

	var b strings.Builder
	b.Grow(len(text))
	pendingSep := false
	for _, r := range text {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if pendingSep && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingSep = false
			b.WriteRune(r)
			continue
		}
		pendingSep = true
	}
	return b.String()
}

// idRegistry hands out anchor ids that are unique within one document.
type idRegistry struct {
	taken map[string]struct{}
}

func newIDRegistry() *idRegistry {
	return &idRegistry{taken: make(map[string]struct{})}
}

func (r *idRegistry) reserve(id string) {
	if id == "" {
		return
	}
	r.taken[id] = struct{}{}
}

// claim returns the slug of text, or heading-<index> when the slug is empty,
// suffixed with -2, -3, ... until it no longer collides.
func (r *idRegistry) claim(text string, index int) string {
	base := Slugify(text)
	if base == "" {
		base = fmt.Sprintf("heading-%d", index)
	}
	id := base
	for n := 2; ; n++ {
		if _, ok := r.taken[id]; !ok {
			break
		}
		id = fmt.Sprintf("%s-%d", base, n)
	}
	r.reserve(id)
	return id
}
