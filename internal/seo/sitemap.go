package seo

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"strings"
	"time"
)

const sitemapNS = "http://www.sitemaps.org/schemas/sitemap/0.9"

// SitemapURL is one <url> of sitemap.xml.
type SitemapURL struct {
	Loc        string `xml:"loc"`
	LastMod    string `xml:"lastmod,omitempty"`
	ChangeFreq string `xml:"changefreq,omitempty"`
	Priority   string `xml:"priority,omitempty"`
}

type urlSet struct {
	XMLName xml.Name     `xml:"urlset"`
	Xmlns   string       `xml:"xmlns,attr"`
	URLs    []SitemapURL `xml:"url"`
}

// Entry is a dynamic page for the sitemap.
type Entry struct {
	Path     string
	Modified time.Time
}

func (s Site) entry(path, freq string, priority float64, mod time.Time) SitemapURL {
	u := SitemapURL{Loc: s.URL(path), ChangeFreq: freq, Priority: fmt.Sprintf("%.1f", priority)}
	if !mod.IsZero() {
		u.LastMod = mod.UTC().Format(time.RFC3339)
	}
	return u
}

// StaticURLs are the fixed pages of the site with their crawl hints.
func (s Site) StaticURLs(now time.Time) []SitemapURL {
	return []SitemapURL{
		s.entry("/", "daily", 1.0, now),
		s.entry("/models", "daily", 0.9, now),
		s.entry("/comparisons", "daily", 0.9, now),
		s.entry("/blogs", "daily", 0.9, now),
		s.entry("/ev-charge-cost-calculator", "weekly", 0.8, now),
		s.entry("/ev-tool", "weekly", 0.7, now),
		s.entry("/about", "monthly", 0.5, now),
		s.entry("/contact", "monthly", 0.5, now),
		s.entry("/privacy-policy", "yearly", 0.3, now),
		s.entry("/terms-and-conditions", "yearly", 0.3, now),
		s.entry("/disclaimer", "yearly", 0.3, now),
	}
}

// DynamicURLs maps CMS pages to weekly, 0.8 priority entries. Pages without
// a usable timestamp are stamped with now.
func (s Site) DynamicURLs(entries []Entry, now time.Time) []SitemapURL {
	out := make([]SitemapURL, 0, len(entries))
	for _, e := range entries {
		mod := e.Modified
		if mod.IsZero() {
			mod = now
		}
		out = append(out, s.entry(e.Path, "weekly", 0.8, mod))
	}
	return out
}

// Sitemap encodes urls as a sitemap.xml document.
func Sitemap(urls []SitemapURL) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	enc := xml.NewEncoder(&buf)
	enc.Indent("", "  ")
	if err := enc.Encode(urlSet{Xmlns: sitemapNS, URLs: urls}); err != nil {
		return nil, fmt.Errorf("failed to encode sitemap: %w", err)
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

// AICrawlers are refused the whole site.
var AICrawlers = []string{
	"GPTBot", "CCBot", "Google-Extended", "Amazonbot", "FacebookBot",
	"Anthropic-AI", "Claude-Web", "cohere-ai", "Omgilibot", "Omgili",
	"Bytespider", "Diffbot", "ImagesiftBot", "PerplexityBot",
}

// Robots renders robots.txt.
func (s Site) Robots() string {
	var b strings.Builder
	b.WriteString("User-agent: *\nAllow: /\n")
	for _, p := range []string{"/api/", "/admin/", "/private/"} {
		fmt.Fprintf(&b, "Disallow: %s\n", p)
	}
	for _, bot := range AICrawlers {
		fmt.Fprintf(&b, "\nUser-agent: %s\nDisallow: /\n", bot)
	}
	fmt.Fprintf(&b, "\nSitemap: %s\n", s.URL("/sitemap.xml"))
	return b.String()
}
