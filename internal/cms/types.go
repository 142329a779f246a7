package cms

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"bydupdates/internal/content"
)

// Edge is the {node: {...}} wrapper the CMS puts around related objects.
type Edge[T any] struct {
	Node *T `json:"node"`
}

type Image struct {
	SourceURL    string        `json:"sourceUrl"`
	AltText      string        `json:"altText"`
	MediaDetails *MediaDetails `json:"mediaDetails,omitempty"`
}

type MediaDetails struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

type Author struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
	URI  string `json:"uri"`
}

// SEO is the per-entry override block edited in the CMS.
type SEO struct {
	MetaTitle       string      `json:"meta_title"`
	MetaDescription string      `json:"meta_description"`
	OGImage         Edge[Image] `json:"ogimage"`
}

// Fact is one "quick fact" row shown next to a review.
type Fact struct {
	Title string `json:"title"`
	Value string `json:"value"`
}

// CountryData links a country entry to the market it describes.
type CountryData struct {
	Name FlexString `json:"country_name"`
	Code FlexString `json:"country_code"`
}

// Entry is any CMS post type: blog, model review, comparison or country page.
type Entry struct {
	ID            string       `json:"id"`
	Slug          string       `json:"slug"`
	Title         string       `json:"title"`
	Excerpt       string       `json:"excerpt"`
	Content       string       `json:"content"`
	URI           string       `json:"uri"`
	Date          string       `json:"date"`
	Modified      string       `json:"modified"`
	FeaturedImage Edge[Image]  `json:"featuredImage"`
	Author        Edge[Author] `json:"author"`
	SEO           SEO          `json:"seo"`
	FAQ           FAQBlock     `json:"faq"`
	Facts         FactBlock    `json:"fact"`
	CountryData   *CountryData `json:"countryData,omitempty"`
}

// Image returns the featured image or nil.
func (e *Entry) Image() *Image {
	return e.FeaturedImage.Node
}

// AuthorName falls back to the site team when no author is attached.
func (e *Entry) AuthorName() string {
	if e.Author.Node != nil && strings.TrimSpace(e.Author.Node.Name) != "" {
		return e.Author.Node.Name
	}
	return "BYD Car Updates Team"
}

// Published parses Date.
func (e *Entry) Published() (time.Time, bool) {
	return ParseTime(e.Date)
}

// Updated parses Modified, falling back to Date.
func (e *Entry) Updated() (time.Time, bool) {
	if t, ok := ParseTime(e.Modified); ok {
		return t, true
	}
	return ParseTime(e.Date)
}

// Country returns the market code and label of a country entry.
func (e *Entry) Country() (code, label string) {
	if e.CountryData == nil {
		return "", ""
	}
	code = strings.ToLower(strings.TrimSpace(string(e.CountryData.Code)))
	label = strings.TrimSpace(string(e.CountryData.Name))
	if code == "" {
		return ParseCountryString(label)
	}
	if label == "" {
		label = strings.ToUpper(code)
	}
	return code, label
}

var timeLayouts = []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02 15:04:05", "2006-01-02"}

// ParseTime reads the timestamp formats the CMS emits. Zone-less values are UTC.
func ParseTime(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// FAQBlock decodes the numbered faq_title_N/faq_value_N fields into an
// ordered sequence. Null, missing and non-string fields are absent slots.
type FAQBlock struct {
	Pairs content.FAQ
}

func (b *FAQBlock) UnmarshalJSON(data []byte) error {
	pairs, err := decodeNumbered(data, "faq")
	if err != nil {
		return fmt.Errorf("faq block: %w", err)
	}
	b.Pairs = make(content.FAQ, len(pairs))
	for i, p := range pairs {
		b.Pairs[i] = content.FAQPair{Question: p[0], Answer: p[1]}
	}
	return nil
}

// FactBlock is the fact_title_N/fact_value_N equivalent of FAQBlock.
type FactBlock struct {
	Items []Fact
}

func (b *FactBlock) UnmarshalJSON(data []byte) error {
	pairs, err := decodeNumbered(data, "fact")
	if err != nil {
		return fmt.Errorf("fact block: %w", err)
	}
	for _, p := range pairs {
		if strings.TrimSpace(p[0]) == "" || strings.TrimSpace(p[1]) == "" {
			continue
		}
		b.Items = append(b.Items, Fact{Title: strings.TrimSpace(p[0]), Value: strings.TrimSpace(p[1])})
	}
	return nil
}

// decodeNumbered returns slots 1..n as [title, value], n being the highest
// slot number that appears in data. Missing slots are empty pairs.
func decodeNumbered(data []byte, prefix string) ([][2]string, error) {
	if len(bytes.TrimSpace(data)) == 0 || string(bytes.TrimSpace(data)) == "null" {
		return nil, nil
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	var pairs [][2]string
	for i := 1; i <= maxNumberedFields; i++ {
		title, hasTitle := raw[fmt.Sprintf("%s_title_%d", prefix, i)]
		value, hasValue := raw[fmt.Sprintf("%s_value_%d", prefix, i)]
		if !hasTitle && !hasValue {
			continue
		}
		for len(pairs) < i {
			pairs = append(pairs, [2]string{})
		}
		pairs[i-1] = [2]string{stringOrEmpty(title), stringOrEmpty(value)}
	}
	return pairs, nil
}

func stringOrEmpty(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return s
}

// FlexString accepts a JSON string or an array of strings (first element).
type FlexString string

func (f *FlexString) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*f = FlexString(s)
		return nil
	}
	var list []string
	if err := json.Unmarshal(data, &list); err == nil {
		if len(list) > 0 {
			*f = FlexString(list[0])
		}
		return nil
	}
	*f = ""
	return nil
}
