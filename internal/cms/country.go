package cms

import (
	"sort"
	"strings"
)

// ParseCountryString splits the "Code,Label" form used by the backend
// ("AE,UAE" -> "ae", "UAE"). Without a comma the label repeats the code.
func ParseCountryString(raw string) (code, label string) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", ""
	}
	parts := strings.SplitN(raw, ",", 2)
	code = strings.ToLower(strings.TrimSpace(parts[0]))
	label = strings.TrimSpace(parts[0])
	if len(parts) == 2 && strings.TrimSpace(parts[1]) != "" {
		label = strings.TrimSpace(parts[1])
	}
	return code, label
}

// Availability is a market in which a model has its own page.
type Availability struct {
	Code  string
	Label string
	Slug  string
}

// CountriesFor lists the markets whose country entry shares slug with a
// model, ordered by code.
func CountriesFor(countries []Entry, slug string) []Availability {
	seen := make(map[string]bool)
	var out []Availability
	for i := range countries {
		e := &countries[i]
		if e.Slug != slug {
			continue
		}
		code, label := e.Country()
		if code == "" || seen[code] {
			continue
		}
		seen[code] = true
		out = append(out, Availability{Code: code, Label: label, Slug: e.Slug})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out
}

// InCountry filters country entries down to one market.
func InCountry(countries []Entry, code string) []Entry {
	code = strings.ToLower(strings.TrimSpace(code))
	var out []Entry
	for i := range countries {
		if c, _ := countries[i].Country(); c != "" && c == code {
			out = append(out, countries[i])
		}
	}
	return out
}

// CountryName is the display name of a market, or the upper-cased code when
// no entry names it.
func CountryName(countries []Entry, code string) string {
	for _, e := range InCountry(countries, code) {
		if _, label := e.Country(); label != "" {
			return label
		}
	}
	return strings.ToUpper(code)
}

// Markets lists every distinct market code with its label, ordered by code.
func Markets(countries []Entry) []Availability {
	seen := make(map[string]bool)
	var out []Availability
	for i := range countries {
		code, label := countries[i].Country()
		if code == "" || seen[code] {
			continue
		}
		seen[code] = true
		out = append(out, Availability{Code: code, Label: label})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out
}
