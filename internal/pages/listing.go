// internal/pages/listing.go
package pages

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"bydupdates/internal/cms"
	"bydupdates/internal/seo"
)

const (
	homeModels      = 6
	homeFeatured    = 3
	homeComparisons = 4
	homeMarkets     = 12
)

// Home assembles the landing page from the latest models, comparisons and
// the markets with country pages. The three lists are fetched concurrently.
func (a *Assembler) Home(ctx context.Context) (PageData, error) {
	var models, comparisons, countries []cms.Entry
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		models, err = a.src.Models(gctx)
		return err
	})
	g.Go(func() (err error) {
		comparisons, err = a.src.Comparisons(gctx)
		return err
	})
	g.Go(func() (err error) {
		countries, err = a.src.Countries(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return PageData{}, fmt.Errorf("failed to load home page: %w", err)
	}

	d := a.base(KindHome, "/", seo.Page{
		Title:       "The Ultimate Source for BYD EVs",
		Description: "Your #1 source for the latest BYD electric vehicle news, comprehensive model reviews, detailed comparisons, and specifications.",
	})
	d.Heading = a.cfg.Title
	d.Intro = a.cfg.Description

	latest := cards(head(models, homeModels), "/models/")
	home := &Home{
		Featured:    head(latest, homeFeatured),
		Comparisons: cards(head(comparisons, homeComparisons), "/comparisons/"),
		Markets:     head(cms.Markets(countries), homeMarkets),
	}
	if len(latest) > homeFeatured {
		home.More = latest[homeFeatured:]
	}
	d.Home = home
	d.Markets = home.Markets

	a.addSchema(&d, a.site.CollectionPageSchema("Latest BYD Models", d.Meta.Description, "/", len(models), crumbLinks(latest)))
	return d, nil
}

type listing struct {
	section     string
	path        string
	heading     string
	title       string
	description string
	prefix      string
	label       string
}

var (
	blogListing = listing{
		section:     "blogs",
		path:        "/blogs",
		heading:     "BYD News & Blog",
		title:       "BYD News, Guides & Insights",
		description: "The latest BYD electric vehicle news, ownership guides, charging tips and industry insights.",
		prefix:      "/blogs/",
		label:       "Blog",
	}
	modelListing = listing{
		section:     "models",
		path:        "/models",
		heading:     "BYD Models",
		title:       "All BYD Electric Car Models",
		description: "Browse every BYD electric vehicle with detailed reviews, specifications, range and pricing.",
		prefix:      "/models/",
		label:       "Models",
	}
	comparisonListing = listing{
		section:     "comparisons",
		path:        "/comparisons",
		heading:     "BYD Comparisons",
		title:       "BYD EV Comparisons",
		description: "Side-by-side comparisons of BYD electric vehicles and their rivals: range, performance, price and features.",
		prefix:      "/comparisons/",
		label:       "Comparisons",
	}
)

func (a *Assembler) Blogs(ctx context.Context, page int) (PageData, error) {
	entries, err := a.src.Blogs(ctx)
	if err != nil {
		return PageData{}, err
	}
	return a.list(blogListing, entries, page), nil
}

func (a *Assembler) Models(ctx context.Context, page int) (PageData, error) {
	entries, err := a.src.Models(ctx)
	if err != nil {
		return PageData{}, err
	}
	return a.list(modelListing, entries, page), nil
}

func (a *Assembler) Comparisons(ctx context.Context, page int) (PageData, error) {
	entries, err := a.src.Comparisons(ctx)
	if err != nil {
		return PageData{}, err
	}
	return a.list(comparisonListing, entries, page), nil
}

// CountryModels lists the country pages of one market. A market without
// any entry is ErrNotFound.
func (a *Assembler) CountryModels(ctx context.Context, code string, page int) (PageData, error) {
	code = strings.ToLower(strings.TrimSpace(code))
	if _, ok := cleanSlug(code); !ok {
		return PageData{}, ErrNotFound
	}
	countries, err := a.src.Countries(ctx)
	if err != nil {
		return PageData{}, err
	}
	entries := cms.InCountry(countries, code)
	if len(entries) == 0 {
		return PageData{}, ErrNotFound
	}
	name := cms.CountryName(countries, code)

	l := listing{
		section:     "models",
		path:        "/" + code + "/models",
		heading:     "BYD Models in " + name,
		title:       "BYD Electric Cars in " + name + " | Prices & Specs",
		description: fmt.Sprintf("Explore all BYD electric vehicles available in %s. Local prices, specifications and availability.", name),
		prefix:      "/" + code + "/models/",
		label:       name,
	}
	d := a.list(l, entries, page)
	d.Markets = cms.Markets(countries)
	return d, nil
}

func (a *Assembler) list(l listing, entries []cms.Entry, page int) PageData {
	p := seo.Paginate(len(entries), page, a.cfg.Pagination.PerPage)
	path := l.path
	meta := seo.Page{Title: l.title, Description: l.description}
	if p.Page > 1 {
		meta.Title = fmt.Sprintf("%s - Page %d", l.title, p.Page)
	}

	d := a.base(KindList, path, meta, seo.Crumb{Name: l.label, Path: l.path})
	if p.Page > 1 {
		d.Meta.Canonical = a.site.URL(a.PageHref(path, p.Page))
		d.Meta.OpenGraph.URL = d.Meta.Canonical
	}
	for _, n := range p.Window {
		d.PageLinks = append(d.PageLinks, PageLink{Number: n, Href: a.PageHref(path, n), Current: n == p.Page})
	}
	if p.HasPrev() {
		d.PrevHref = a.PageHref(path, p.Prev())
	}
	if p.HasNext() {
		d.NextHref = a.PageHref(path, p.Next())
	}
	d.Section = l.section
	d.Heading = l.heading
	d.Intro = l.description
	d.Cards = cards(seo.Slice(entries, p), l.prefix)
	d.Pagination = &p
	if len(entries) == 0 {
		d.Message = "Nothing has been published here yet."
	}

	a.addSchema(&d, a.site.CollectionPageSchema(l.heading, l.description, path, len(entries), crumbLinks(d.Cards)))
	return d
}

func head[T any](items []T, n int) []T {
	if len(items) <= n {
		return items
	}
	return items[:n]
}
