package seo

import "strings"

// Alternate is one <link rel="alternate" hreflang=...> entry.
type Alternate struct {
	Hreflang string
	Href     string
}

// ModelAlternates points x-default at the global model page and adds an
// en-<CC> variant for each market that carries the model.
func (s Site) ModelAlternates(slug string, countryCodes []string) []Alternate {
	alts := []Alternate{{Hreflang: "x-default", Href: s.URL("/models/" + slug)}}
	seen := make(map[string]bool)
	for _, code := range countryCodes {
		code = strings.ToLower(strings.TrimSpace(code))
		if code == "" || seen[code] {
			continue
		}
		seen[code] = true
		alts = append(alts, Alternate{
			Hreflang: "en-" + strings.ToUpper(code),
			Href:     s.URL("/" + code + "/models/" + slug),
		})
	}
	return alts
}
