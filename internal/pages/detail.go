// internal/pages/detail.go
package pages

import (
	"context"
	"fmt"
	"html/template"
	"strings"

	"github.com/dustin/go-humanize"
	"golang.org/x/sync/errgroup"

	"bydupdates/internal/cms"
	"bydupdates/internal/content"
	"bydupdates/internal/seo"
)

const relatedCount = 3

type detailParams struct {
	nav           string
	schemaType    string
	section       seo.Crumb
	path          string
	relatedPrefix string
	titleSuffix   string
	descFallback  string
}

// Blog assembles /blogs/{slug}.
func (a *Assembler) Blog(ctx context.Context, slug string) (PageData, error) {
	slug, ok := cleanSlug(slug)
	if !ok {
		return PageData{}, ErrNotFound
	}
	var entry *cms.Entry
	var all []cms.Entry
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		entry, err = a.src.Blog(gctx, slug)
		return err
	})
	g.Go(func() (err error) {
		all, err = a.src.Blogs(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return PageData{}, err
	}
	if entry == nil {
		return PageData{}, ErrNotFound
	}
	return a.detail(entry, all, detailParams{
		nav:           "blogs",
		schemaType:    "BlogPosting",
		section:       seo.Crumb{Name: "Blog", Path: "/blogs"},
		path:          "/blogs/" + slug,
		relatedPrefix: "/blogs/",
		descFallback:  "Read the latest BYD news and insights.",
	}), nil
}

// Model assembles /models/{slug}, with hreflang alternates for every
// market that has a country page of the same slug.
func (a *Assembler) Model(ctx context.Context, slug string) (PageData, error) {
	slug, ok := cleanSlug(slug)
	if !ok {
		return PageData{}, ErrNotFound
	}
	var entry *cms.Entry
	var all, countries []cms.Entry
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		entry, err = a.src.Model(gctx, slug)
		return err
	})
	g.Go(func() (err error) {
		all, err = a.src.Models(gctx)
		return err
	})
	g.Go(func() (err error) {
		countries, err = a.src.Countries(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return PageData{}, err
	}
	if entry == nil {
		return PageData{}, ErrNotFound
	}
	d := a.detail(entry, all, detailParams{
		nav:           "models",
		schemaType:    "Article",
		section:       seo.Crumb{Name: "Models", Path: "/models"},
		path:          "/models/" + slug,
		relatedPrefix: "/models/",
		titleSuffix:   "Review, Specs & Price",
		descFallback:  "Complete review of the " + content.PlainText(entry.Title) + ": specifications, range, performance and price.",
	})
	a.withCountries(&d, slug, countries)
	return d, nil
}

// Comparison assembles /comparisons/{slug}.
func (a *Assembler) Comparison(ctx context.Context, slug string) (PageData, error) {
	slug, ok := cleanSlug(slug)
	if !ok {
		return PageData{}, ErrNotFound
	}
	var entry *cms.Entry
	var all []cms.Entry
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		entry, err = a.src.Comparison(gctx, slug)
		return err
	})
	g.Go(func() (err error) {
		all, err = a.src.Comparisons(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return PageData{}, err
	}
	if entry == nil {
		return PageData{}, ErrNotFound
	}
	return a.detail(entry, all, detailParams{
		nav:           "comparisons",
		schemaType:    "Article",
		section:       seo.Crumb{Name: "Comparisons", Path: "/comparisons"},
		path:          "/comparisons/" + slug,
		relatedPrefix: "/comparisons/",
		descFallback:  "Detailed comparison of " + content.PlainText(entry.Title) + ": range, performance, features and price.",
	}), nil
}

// CountryModel assembles /{country}/models/{slug}. An entry that belongs
// to another market is ErrNotFound.
func (a *Assembler) CountryModel(ctx context.Context, code, slug string) (PageData, error) {
	code = strings.ToLower(strings.TrimSpace(code))
	slug, ok := cleanSlug(slug)
	if _, codeOK := cleanSlug(code); !ok || !codeOK {
		return PageData{}, ErrNotFound
	}
	var entry *cms.Entry
	var countries []cms.Entry
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		entry, err = a.src.CountryEntry(gctx, slug)
		return err
	})
	g.Go(func() (err error) {
		countries, err = a.src.Countries(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return PageData{}, err
	}
	if entry == nil {
		return PageData{}, ErrNotFound
	}
	if c, _ := entry.Country(); c != "" && c != code {
		return PageData{}, ErrNotFound
	}

	name := cms.CountryName(countries, code)
	related := cms.InCountry(countries, code)
	d := a.detail(entry, related, detailParams{
		nav:           "models",
		schemaType:    "Article",
		section:       seo.Crumb{Name: "Models in " + name, Path: "/" + code + "/models"},
		path:          "/" + code + "/models/" + slug,
		relatedPrefix: "/" + code + "/models/",
		titleSuffix:   "in " + strings.ToUpper(code) + " | BYD Price & Specs",
		descFallback:  fmt.Sprintf("Complete %s review for %s. Price, specifications, availability, and expert analysis.", content.PlainText(entry.Title), strings.ToUpper(code)),
	})
	d.Article.Country = &cms.Availability{Code: code, Label: name, Slug: slug}
	a.withCountries(&d, slug, countries)
	return d, nil
}

func (a *Assembler) withCountries(d *PageData, slug string, countries []cms.Entry) {
	avail := cms.CountriesFor(countries, slug)
	d.Article.Countries = avail
	if len(avail) == 0 {
		return
	}
	codes := make([]string, 0, len(avail))
	for _, c := range avail {
		codes = append(codes, c.Code)
	}
	d.Meta.Alternates = a.site.ModelAlternates(slug, codes)
}

func (a *Assembler) detail(e *cms.Entry, all []cms.Entry, p detailParams) PageData {
	title := content.PlainText(e.Title)
	article := a.article(e)

	published, hasPublished := e.Published()
	updated, hasUpdated := e.Updated()

	metaTitle := strings.TrimSpace(e.SEO.MetaTitle)
	if metaTitle == "" {
		metaTitle = title
		if p.titleSuffix != "" {
			metaTitle = title + " " + p.titleSuffix
		}
	}
	desc := firstNonEmpty(e.SEO.MetaDescription, e.Excerpt, p.descFallback)

	image := ""
	if og := e.SEO.OGImage.Node; og != nil && og.SourceURL != "" {
		image = og.SourceURL
	} else if img := e.Image(); img != nil {
		image = img.SourceURL
	}

	d := a.base(KindDetail, p.path, seo.Page{
		Title:       metaTitle,
		Description: desc,
		Path:        p.path,
		Image:       image,
		Type:        "article",
		Published:   isoDate(published, hasPublished),
		Modified:    isoDate(updated, hasUpdated),
	}, p.section, seo.Crumb{Name: title, Path: p.path})
	d.Section = p.nav
	d.Heading = title
	d.Intro = content.Excerpt(e.Excerpt, 300)

	var related []cms.Entry
	for i := range all {
		if all[i].Slug == e.Slug {
			continue
		}
		related = append(related, all[i])
		if len(related) == relatedCount {
			break
		}
	}
	article.Related = cards(related, p.relatedPrefix)
	d.Article = article

	a.addSchema(&d, a.site.Article(seo.ArticleInput{
		Kind:        p.schemaType,
		Section:     p.section.Name,
		Title:       title,
		Description: desc,
		Path:        p.path,
		Image:       image,
		Published:   isoDate(published, hasPublished),
		Modified:    isoDate(updated, hasUpdated),
		AuthorName:  article.Author,
		WordCount:   article.WordCount,
		ReadMinutes: article.ReadTime,
	}))
	if faq := seo.FAQPageSchema(e.FAQ.Pairs); faq != nil {
		a.addSchema(&d, faq)
	}

	if article.Degraded {
		a.log.WithField("path", p.path).Warn("content could not be parsed, rendering without anchors")
	}
	return d
}

// article runs the entry body and FAQ through the content processor.
func (a *Assembler) article(e *cms.Entry) *Article {
	res := a.proc.Process(e.Content, e.FAQ.Pairs)
	words := content.WordCount(res.HTML)
	published, hasPublished := e.Published()
	updated, hasUpdated := e.Updated()

	art := &Article{
		Title:        content.PlainText(e.Title),
		HTML:         template.HTML(res.HTML),
		TOC:          res.TOC,
		Author:       e.AuthorName(),
		Published:    formatDate(published, hasPublished),
		PublishedISO: isoDate(published, hasPublished),
		ReadTime:     content.ReadTime(words),
		WordCount:    words,
		Words:        humanize.Comma(int64(words)),
		Image:        e.Image(),
		Degraded:     res.Degraded,
	}
	if hasUpdated && (!hasPublished || !updated.Equal(published)) {
		art.Updated = formatDate(updated, hasUpdated)
	}

	if items := e.FAQ.Pairs.Items(); len(items) > 0 {
		art.FAQSectionID = content.FAQSectionID
		for _, it := range items {
			art.FAQ = append(art.FAQ, FAQItem{
				ID:       it.ID,
				Number:   it.Number,
				Question: template.HTML(a.proc.Sanitize(it.Question)),
				Answer:   template.HTML(a.proc.Sanitize(it.Answer)),
			})
		}
	}
	for _, f := range e.Facts.Items {
		art.Facts = append(art.Facts, cms.Fact{Title: content.PlainText(f.Title), Value: content.PlainText(f.Value)})
	}
	return art
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(content.PlainText(v)) != "" {
			return v
		}
	}
	return ""
}
