// internal/pages/pages.go
package pages

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"bydupdates/internal/calculator"
	"bydupdates/internal/cms"
	"bydupdates/internal/config"
	"bydupdates/internal/content"
	"bydupdates/internal/seo"
)

// ErrNotFound is returned when the requested entity or page does not exist.
var ErrNotFound = errors.New("pages: not found")

// Source is the content backend pages are assembled from. *cms.Client
// satisfies it.
type Source interface {
	Blogs(ctx context.Context) ([]cms.Entry, error)
	Blog(ctx context.Context, slug string) (*cms.Entry, error)
	Models(ctx context.Context) ([]cms.Entry, error)
	Model(ctx context.Context, slug string) (*cms.Entry, error)
	Comparisons(ctx context.Context) ([]cms.Entry, error)
	Comparison(ctx context.Context, slug string) (*cms.Entry, error)
	Countries(ctx context.Context) ([]cms.Entry, error)
	CountryEntry(ctx context.Context, slug string) (*cms.Entry, error)
}

var _ Source = (*cms.Client)(nil)

// Kind selects the page template.
type Kind string

const (
	KindHome       Kind = "home"
	KindList       Kind = "list"
	KindDetail     Kind = "detail"
	KindCalculator Kind = "calculator"
	KindLifespan   Kind = "lifespan"
	KindLegal      Kind = "legal"
	KindNotFound   Kind = "notfound"
	KindError      Kind = "error"
)

// Kinds lists every page template the renderer must provide.
var Kinds = []Kind{KindHome, KindList, KindDetail, KindCalculator, KindLifespan, KindLegal, KindNotFound, KindError}

// PageData is the struct passed to templates.
type PageData struct {
	Kind    Kind
	Path    string
	Status  int
	Site    config.SiteConfig
	Meta    seo.Metadata
	Schemas []template.HTML
	Crumbs  []seo.Crumb
	Year    int

	Heading string
	Intro   string
	Message string

	// Listings
	Section    string
	Cards      []Card
	Pagination *seo.Pagination
	PageLinks  []PageLink
	PrevHref   string
	NextHref   string
	Markets    []cms.Availability

	Home     *Home
	Article  *Article
	Calc     *CalculatorView
	Lifespan *LifespanView

	// Local markdown pages
	Content template.HTML
	Updated string
}

// Card is one entry of a listing.
type Card struct {
	Title   string
	Path    string
	Excerpt string
	Image   *cms.Image
	Date    string
}

// PageLink is one numbered link of a listing's pagination window.
type PageLink struct {
	Number  int
	Href    string
	Current bool
}

type Home struct {
	Featured    []Card
	More        []Card
	Comparisons []Card
	Markets     []cms.Availability
}

// FAQItem is a present FAQ slot ready for rendering.
type FAQItem struct {
	ID       string
	Number   int
	Question template.HTML
	Answer   template.HTML
}

// Article is the body of a blog, model, comparison or country model page.
type Article struct {
	Title        string
	HTML         template.HTML
	TOC          []content.TOCEntry
	FAQSectionID string
	FAQ          []FAQItem
	Facts        []cms.Fact
	Author       string
	Published    string
	PublishedISO string
	Updated      string
	ReadTime     int
	WordCount    int
	Words        string
	Image        *cms.Image
	Degraded     bool
	Country      *cms.Availability
	Countries    []cms.Availability
	Related      []Card
}

type CalculatorView struct {
	Session  calculator.Session
	Result   calculator.Result
	Presets  []calculator.Preset
	Currency string
}

type LifespanView struct {
	Inputs    calculator.LifespanInputs
	Submitted bool
	Estimate  calculator.LifespanEstimate
}

// Options configures an Assembler.
type Options struct {
	Source    Source
	Config    config.SiteConfig
	Processor content.Processor
	// Pages holds the local markdown pages (about.md, contact.md, ...).
	Pages  fs.FS
	Logger logrus.FieldLogger
	Now    func() time.Time
	// PathPagination links listing pages as /blogs/page/2 instead of
	// /blogs?page=2, for static hosting.
	PathPagination bool
}

// Assembler turns CMS entries and local pages into PageData. It holds no
// per-request state.
type Assembler struct {
	src   Source
	cfg   config.SiteConfig
	site  seo.Site
	proc  content.Processor
	pages fs.FS
	log   logrus.FieldLogger
	now   func() time.Time

	pathPagination bool
}

func NewAssembler(opts Options) *Assembler {
	proc := opts.Processor
	if proc == nil {
		proc = content.NewProcessor(content.Options{
			LegacyPrefix: opts.Config.Assets.LegacyPrefix,
			CDNBase:      opts.Config.Assets.CDNBase,
		})
	}
	log := opts.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Assembler{
		src:   opts.Source,
		cfg:   opts.Config,
		site:  opts.Config.Site(),
		proc:  proc,
		pages: opts.Pages,
		log:   log.WithField("component", "pages"),
		now:   now,

		pathPagination: opts.PathPagination,
	}
}

// PageHref is the URL of page n of the listing at path.
func (a *Assembler) PageHref(path string, n int) string {
	switch {
	case n <= 1:
		return path
	case a.pathPagination:
		return fmt.Sprintf("%s/page/%d", path, n)
	default:
		return fmt.Sprintf("%s?page=%d", path, n)
	}
}

// Site returns the SEO site defaults the assembler builds metadata from.
func (a *Assembler) Site() seo.Site { return a.site }

func (a *Assembler) base(kind Kind, path string, meta seo.Page, crumbs ...seo.Crumb) PageData {
	meta.Path = path
	d := PageData{
		Kind:   kind,
		Path:   path,
		Status: http.StatusOK,
		Site:   a.cfg,
		Meta:   a.site.Build(meta),
		Year:   a.now().Year(),
	}
	if len(crumbs) > 0 {
		d.Crumbs = seo.Trail(crumbs...)
		a.addSchema(&d, a.site.BreadcrumbSchema(d.Crumbs))
	}
	return d
}

// addSchema appends v as a JSON-LD block. Encoding failures are logged and
// the block is skipped.
func (a *Assembler) addSchema(d *PageData, v any) {
	script, err := seo.Script(v)
	if err != nil {
		a.log.WithError(err).WithField("path", d.Path).Warn("skipping structured data")
		return
	}
	if script != "" {
		d.Schemas = append(d.Schemas, script)
	}
}

func formatDate(t time.Time, ok bool) string {
	if !ok {
		return ""
	}
	return t.Format("Jan 2, 2006")
}

func isoDate(t time.Time, ok bool) string {
	if !ok {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

func card(e *cms.Entry, path string) Card {
	published, ok := e.Published()
	return Card{
		Title:   content.PlainText(e.Title),
		Path:    path,
		Excerpt: content.Excerpt(e.Excerpt, 160),
		Image:   e.Image(),
		Date:    formatDate(published, ok),
	}
}

func cards(entries []cms.Entry, prefix string) []Card {
	out := make([]Card, 0, len(entries))
	for i := range entries {
		out = append(out, card(&entries[i], prefix+entries[i].Slug))
	}
	return out
}

func crumbLinks(cs []Card) []seo.Crumb {
	out := make([]seo.Crumb, 0, len(cs))
	for _, c := range cs {
		out = append(out, seo.Crumb{Name: c.Title, Path: c.Path})
	}
	return out
}

// cleanSlug rejects empty and path-like slugs before they reach the CMS.
func cleanSlug(slug string) (string, bool) {
	slug = strings.TrimSpace(slug)
	if slug == "" || strings.ContainsAny(slug, "/\\?#") || slug == "." || slug == ".." {
		return "", false
	}
	return slug, true
}
