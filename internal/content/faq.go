package content

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

const (
	// FAQSectionID is the anchor of the rendered FAQ section. Other page
	// regions link to it directly.
	FAQSectionID    = "frequently-asked-questions"
	FAQSectionTitle = "Frequently Asked Questions"

	// MaxFAQPairs is the number of numbered question/answer slots in the CMS schema.
	MaxFAQPairs = 10

	tocLabelLimit = 50
)

// FAQPair is one numbered question/answer slot.
type FAQPair struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// Present reports whether both the question and the answer carry text.
func (p FAQPair) Present() bool {
	return strings.TrimSpace(p.Question) != "" && strings.TrimSpace(p.Answer) != ""
}

// FAQ is the ordered list of numbered slots. Position i (0-based) is slot
// i+1 and keeps its number even when earlier slots are absent.
type FAQ []FAQPair

// HasAny reports whether at least one slot is present.
func (f FAQ) HasAny() bool {
	for i, p := range f {
		if i >= MaxFAQPairs {
			break
		}
		if p.Present() {
			return true
		}
	}
	return false
}

// Item is a present FAQ slot together with its anchor.
type Item struct {
	Number   int
	ID       string
	Question string
	Answer   string
}

// Items returns the present slots in numeric order.
func (f FAQ) Items() []Item {
	var items []Item
	for i, p := range f {
		if i >= MaxFAQPairs {
			break
		}
		if !p.Present() {
			continue
		}
		items = append(items, Item{
			Number:   i + 1,
			ID:       FAQItemID(i + 1),
			Question: strings.TrimSpace(p.Question),
			Answer:   strings.TrimSpace(p.Answer),
		})
	}
	return items
}

// FAQItemID is the anchor of FAQ slot n (1-based).
func FAQItemID(n int) string {
	return fmt.Sprintf("faq-%d", n)
}

// tocEntries is the FAQ contribution to a table of contents: the section
// header followed by one entry per present slot.
func (f FAQ) tocEntries() []TOCEntry {
	items := f.Items()
	if len(items) == 0 {
		return nil
	}
	entries := make([]TOCEntry, 0, len(items)+1)
	entries = append(entries, TOCEntry{ID: FAQSectionID, Text: FAQSectionTitle, Level: 2})
	for _, it := range items {
		// The label keeps the question exactly as the CMS stored it.
		entries = append(entries, TOCEntry{ID: it.ID, Text: TruncateLabel(f[it.Number-1].Question), Level: 3})
	}
	return entries
}

// reservedIDs lists the anchors the FAQ section will occupy on the page.
func (f FAQ) reservedIDs() []string {
	if !f.HasAny() {
		return nil
	}
	ids := []string{FAQSectionID}
	for n := 1; n <= MaxFAQPairs; n++ {
		ids = append(ids, FAQItemID(n))
	}
	return ids
}

// TruncateLabel shortens s to 50 characters followed by "..." when it is longer.
func TruncateLabel(s string) string {
	if utf8.RuneCountInString(s) <= tocLabelLimit {
		return s
	}
	r := []rune(s)
	return string(r[:tocLabelLimit]) + "..."
}
