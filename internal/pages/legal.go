// internal/pages/legal.go
package pages

import (
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"bydupdates/internal/content"
	"bydupdates/internal/seo"
)

// LegalPages are the local markdown pages every site ships. They are
// rendered even when marked as drafts.
var LegalPages = []string{"about", "contact", "privacy-policy", "terms-and-conditions", "disclaimer"}

var titleCaser = cases.Title(language.English)

func isLegalPage(name string) bool {
	for _, p := range LegalPages {
		if p == name {
			return true
		}
	}
	return false
}

// Legal renders the markdown page name.md from the pages filesystem.
func (a *Assembler) Legal(name string) (PageData, error) {
	name, ok := cleanSlug(name)
	if !ok || a.pages == nil {
		return PageData{}, ErrNotFound
	}
	src, err := fs.ReadFile(a.pages, name+".md")
	if errors.Is(err, fs.ErrNotExist) {
		return PageData{}, ErrNotFound
	}
	if err != nil {
		return PageData{}, fmt.Errorf("failed to read page %s: %w", name, err)
	}
	if !utf8.Valid(src) {
		return PageData{}, fmt.Errorf("page is not valid UTF-8: %s.md", name)
	}

	meta, body, err := content.RenderMarkdown(src)
	if err != nil {
		return PageData{}, fmt.Errorf("failed to process page %s: %w", name, err)
	}
	if meta.Draft && !isLegalPage(name) {
		return PageData{}, ErrNotFound
	}

	title := strings.TrimSpace(meta.Title)
	if title == "" {
		title = titleCaser.String(strings.ReplaceAll(name, "-", " "))
	}
	var keywords []string
	for _, k := range strings.Split(meta.Keywords, ",") {
		if k = strings.TrimSpace(k); k != "" {
			keywords = append(keywords, k)
		}
	}

	path := "/" + name
	d := a.base(KindLegal, path, seo.Page{
		Title:       title,
		Description: meta.Description,
		Keywords:    keywords,
	}, seo.Crumb{Name: title, Path: path})
	d.Heading = title
	d.Intro = meta.Description
	d.Content = template.HTML(a.proc.Sanitize(body))
	d.Updated = meta.Updated
	return d, nil
}

// NotFound is the 404 page.
func (a *Assembler) NotFound(path string) PageData {
	d := a.base(KindNotFound, path, seo.Page{
		Title:       "Page Not Found",
		Description: "The page you are looking for does not exist or has been moved.",
		NoIndex:     true,
	})
	d.Status = http.StatusNotFound
	d.Heading = "Page Not Found"
	d.Message = "The page you are looking for does not exist or has been moved."
	return d
}

// ErrorPage is shown when the content backend fails. status is usually 502.
func (a *Assembler) ErrorPage(path string, status int) PageData {
	d := a.base(KindError, path, seo.Page{
		Title:   "Temporarily Unavailable",
		NoIndex: true,
	})
	d.Status = status
	d.Heading = "Temporarily Unavailable"
	d.Message = "We could not load this page from our content service. Please try again in a moment."
	return d
}
