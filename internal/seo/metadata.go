// internal/seo/metadata.go
package seo

import (
	"strings"

	"bydupdates/internal/content"
)

const descriptionLimit = 155

// Site holds the site-wide values every page's metadata is built from.
type Site struct {
	Name               string
	BaseURL            string
	Description        string
	Keywords           []string
	Twitter            string
	DefaultImage       string
	GoogleVerification string
	Locale             string
}

// URL joins path onto the base URL.
func (s Site) URL(path string) string {
	base := strings.TrimRight(s.BaseURL, "/")
	if path == "" || path == "/" {
		return base
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return base + path
}

type OpenGraph struct {
	Type          string
	Title         string
	Description   string
	URL           string
	Image         string
	SiteName      string
	Locale        string
	PublishedTime string
	ModifiedTime  string
}

type TwitterCard struct {
	Card        string
	Site        string
	Title       string
	Description string
	Image       string
}

// Metadata is everything rendered into a page's <head>.
type Metadata struct {
	Title              string
	Description        string
	Keywords           string
	Canonical          string
	Robots             string
	OpenGraph          OpenGraph
	Twitter            TwitterCard
	Alternates         []Alternate
	GoogleVerification string
}

// Page describes one page before site defaults are applied.
type Page struct {
	Title       string
	Description string
	Keywords    []string
	Path        string
	Image       string
	Type        string // "website" or "article"
	Published   string
	Modified    string
	NoIndex     bool
	Alternates  []Alternate
}

// Build fills in site defaults for p.
func (s Site) Build(p Page) Metadata {
	title := strings.TrimSpace(p.Title)
	switch {
	case title == "":
		title = s.Name
	case s.Name != "" && !strings.Contains(title, s.Name):
		title = title + " | " + s.Name
	}

	desc := CleanDescription(p.Description)
	if desc == "" {
		desc = CleanDescription(s.Description)
	}

	keywords := p.Keywords
	if len(keywords) == 0 {
		keywords = s.Keywords
	}

	image := p.Image
	if image == "" {
		image = s.DefaultImage
	}

	ogType := p.Type
	if ogType == "" {
		ogType = "website"
	}

	robots := "index, follow, max-image-preview:large, max-snippet:-1"
	if p.NoIndex {
		robots = "noindex, follow"
	}

	locale := s.Locale
	if locale == "" {
		locale = "en_US"
	}

	canonical := s.URL(p.Path)
	return Metadata{
		Title:       title,
		Description: desc,
		Keywords:    strings.Join(keywords, ", "),
		Canonical:   canonical,
		Robots:      robots,
		OpenGraph: OpenGraph{
			Type:          ogType,
			Title:         title,
			Description:   desc,
			URL:           canonical,
			Image:         image,
			SiteName:      s.Name,
			Locale:        locale,
			PublishedTime: p.Published,
			ModifiedTime:  p.Modified,
		},
		Twitter: TwitterCard{
			Card:        "summary_large_image",
			Site:        s.Twitter,
			Title:       title,
			Description: desc,
			Image:       image,
		},
		Alternates:         p.Alternates,
		GoogleVerification: s.GoogleVerification,
	}
}

// CleanDescription strips markup from a CMS excerpt and cuts it to 155
// characters on a word boundary.
func CleanDescription(s string) string {
	text := content.PlainText(s)
	text = strings.TrimSuffix(strings.TrimSpace(strings.TrimSuffix(text, "[…]")), "…")
	if len([]rune(text)) <= descriptionLimit {
		return text
	}
	cut := content.Excerpt(text, descriptionLimit-3)
	if i := strings.LastIndex(cut, " "); i > descriptionLimit/2 {
		cut = cut[:i]
	}
	return strings.TrimRight(cut, " ,.;:-") + "..."
}
