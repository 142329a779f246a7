package seo

import (
	"encoding/json"
	"fmt"
	"html/template"

	"bydupdates/internal/content"
)

const schemaContext = "https://schema.org"

type Thing struct {
	Type string `json:"@type"`
	Name string `json:"name,omitempty"`
	URL  string `json:"url,omitempty"`
}

type ImageObject struct {
	Type string `json:"@type"`
	URL  string `json:"url"`
}

type Organization struct {
	Type string       `json:"@type"`
	Name string       `json:"name"`
	URL  string       `json:"url,omitempty"`
	Logo *ImageObject `json:"logo,omitempty"`
}

type Article struct {
	Context          string        `json:"@context"`
	Type             string        `json:"@type"`
	Headline         string        `json:"headline"`
	Description      string        `json:"description,omitempty"`
	Image            string        `json:"image,omitempty"`
	DatePublished    string        `json:"datePublished,omitempty"`
	DateModified     string        `json:"dateModified,omitempty"`
	Author           Thing         `json:"author"`
	Publisher        Organization  `json:"publisher"`
	MainEntityOfPage Thing         `json:"mainEntityOfPage"`
	WordCount        int           `json:"wordCount,omitempty"`
	TimeRequired     string        `json:"timeRequired,omitempty"`
	ArticleSection   string        `json:"articleSection,omitempty"`
}

// ArticleInput is the page data an Article is built from.
type ArticleInput struct {
	Kind        string // BlogPosting or Article
	Section     string
	Title       string
	Description string
	Path        string
	Image       string
	Published   string
	Modified    string
	AuthorName  string
	WordCount   int
	ReadMinutes int
}

func (s Site) Article(in ArticleInput) Article {
	kind := in.Kind
	if kind == "" {
		kind = "Article"
	}
	modified := in.Modified
	if modified == "" {
		modified = in.Published
	}
	a := Article{
		Context:       schemaContext,
		Type:          kind,
		Headline:      in.Title,
		Description:   CleanDescription(in.Description),
		Image:         in.Image,
		DatePublished: in.Published,
		DateModified:  modified,
		Author:        Thing{Type: "Person", Name: in.AuthorName},
		Publisher: Organization{
			Type: "Organization",
			Name: s.Name,
			URL:  s.URL("/"),
			Logo: &ImageObject{Type: "ImageObject", URL: s.URL("/static/logo.png")},
		},
		MainEntityOfPage: Thing{Type: "WebPage", URL: s.URL(in.Path)},
		WordCount:        in.WordCount,
		ArticleSection:   in.Section,
	}
	if in.ReadMinutes > 0 {
		a.TimeRequired = fmt.Sprintf("PT%dM", in.ReadMinutes)
	}
	return a
}

type Answer struct {
	Type string `json:"@type"`
	Text string `json:"text"`
}

type Question struct {
	Type           string `json:"@type"`
	Name           string `json:"name"`
	AcceptedAnswer Answer `json:"acceptedAnswer"`
}

type FAQPage struct {
	Context    string     `json:"@context"`
	Type       string     `json:"@type"`
	MainEntity []Question `json:"mainEntity"`
}

// FAQPageSchema returns nil when faq has no present pair.
func FAQPageSchema(faq content.FAQ) *FAQPage {
	items := faq.Items()
	if len(items) == 0 {
		return nil
	}
	page := &FAQPage{Context: schemaContext, Type: "FAQPage"}
	for _, it := range items {
		page.MainEntity = append(page.MainEntity, Question{
			Type:           "Question",
			Name:           content.PlainText(it.Question),
			AcceptedAnswer: Answer{Type: "Answer", Text: content.PlainText(it.Answer)},
		})
	}
	return page
}

type Offer struct {
	Type          string `json:"@type"`
	Price         string `json:"price"`
	PriceCurrency string `json:"priceCurrency"`
	Availability  string `json:"availability,omitempty"`
}

type WebApplication struct {
	Context             string       `json:"@context"`
	Type                string       `json:"@type"`
	Name                string       `json:"name"`
	URL                 string       `json:"url"`
	Description         string       `json:"description"`
	ApplicationCategory string       `json:"applicationCategory"`
	OperatingSystem     string       `json:"operatingSystem"`
	Offers              Offer        `json:"offers"`
	Author              Organization `json:"author"`
}

func (s Site) WebApplication(name, path, description string) WebApplication {
	return WebApplication{
		Context:             schemaContext,
		Type:                "WebApplication",
		Name:                name,
		URL:                 s.URL(path),
		Description:         description,
		ApplicationCategory: "UtilityApplication",
		OperatingSystem:     "Any",
		Offers:              Offer{Type: "Offer", Price: "0", PriceCurrency: "USD", Availability: "https://schema.org/InStock"},
		Author:              Organization{Type: "Organization", Name: s.Name, URL: s.URL("/")},
	}
}

type HowToStep struct {
	Type     string `json:"@type"`
	Position string `json:"position"`
	Name     string `json:"name"`
	Text     string `json:"text"`
}

type HowTo struct {
	Context     string      `json:"@context"`
	Type        string      `json:"@type"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	TotalTime   string      `json:"totalTime,omitempty"`
	Step        []HowToStep `json:"step"`
}

// HowToSchema numbers steps from 1. Each step is a name/text pair.
func HowToSchema(name, description, totalTime string, steps ...[2]string) HowTo {
	h := HowTo{Context: schemaContext, Type: "HowTo", Name: name, Description: description, TotalTime: totalTime}
	for i, st := range steps {
		h.Step = append(h.Step, HowToStep{Type: "HowToStep", Position: fmt.Sprint(i + 1), Name: st[0], Text: st[1]})
	}
	return h
}

type ListItem struct {
	Type     string `json:"@type"`
	Position int    `json:"position"`
	Name     string `json:"name"`
	Item     string `json:"item,omitempty"`
	URL      string `json:"url,omitempty"`
}

type ItemList struct {
	Type            string     `json:"@type"`
	NumberOfItems   int        `json:"numberOfItems"`
	ItemListElement []ListItem `json:"itemListElement"`
}

type CollectionPage struct {
	Context     string   `json:"@context"`
	Type        string   `json:"@type"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	URL         string   `json:"url"`
	MainEntity  ItemList `json:"mainEntity"`
}

// CollectionPageSchema lists at most the first ten links of a listing.
func (s Site) CollectionPageSchema(name, description, path string, total int, links []Crumb) CollectionPage {
	cp := CollectionPage{
		Context:     schemaContext,
		Type:        "CollectionPage",
		Name:        name,
		Description: description,
		URL:         s.URL(path),
		MainEntity:  ItemList{Type: "ItemList", NumberOfItems: total, ItemListElement: []ListItem{}},
	}
	for i, l := range links {
		if i == 10 {
			break
		}
		cp.MainEntity.ItemListElement = append(cp.MainEntity.ItemListElement, ListItem{
			Type: "ListItem", Position: i + 1, Name: l.Name, URL: s.URL(l.Path),
		})
	}
	return cp
}

// Script renders v as an application/ld+json block. encoding/json escapes
// <, > and & so the payload cannot close the script element.
func Script(v any) (template.HTML, error) {
	if v == nil {
		return "", nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("failed to encode structured data: %w", err)
	}
	return template.HTML(`<script type="application/ld+json">` + string(b) + `</script>`), nil
}
