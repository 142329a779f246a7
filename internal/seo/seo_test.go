package seo

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bydupdates/internal/content"
)

var testSite = Site{
	Name:         "BYD Car Updates",
	BaseURL:      "https://bydcarupdates.com/",
	Description:  "Latest BYD electric vehicle news and reviews",
	Keywords:     []string{"BYD", "EV news"},
	Twitter:      "@bydcarupdates",
	DefaultImage: "https://bydcarupdates.com/static/og.jpg",
}

func TestSite_URL(t *testing.T) {
	assert.Equal(t, "https://bydcarupdates.com", testSite.URL("/"))
	assert.Equal(t, "https://bydcarupdates.com/models/seal", testSite.URL("models/seal"))
	assert.Equal(t, "https://bydcarupdates.com/blogs", testSite.URL("/blogs"))
}

func TestBuild_AppliesDefaults(t *testing.T) {
	m := testSite.Build(Page{Path: "/models"})

	assert.Equal(t, "BYD Car Updates", m.Title)
	assert.Equal(t, testSite.Description, m.Description)
	assert.Equal(t, "BYD, EV news", m.Keywords)
	assert.Equal(t, "https://bydcarupdates.com/models", m.Canonical)
	assert.Equal(t, "website", m.OpenGraph.Type)
	assert.Equal(t, testSite.DefaultImage, m.Twitter.Image)
	assert.Contains(t, m.Robots, "index, follow")
}

func TestBuild_PageValues(t *testing.T) {
	m := testSite.Build(Page{
		Title:       "BYD Seal Review",
		Description: "<p>The <strong>Seal</strong> is BYD&#8217;s sports sedan [&hellip;]</p>",
		Path:        "/models/byd-seal",
		Type:        "article",
		Image:       "https://img/seal.jpg",
		NoIndex:     true,
	})

	assert.Equal(t, "BYD Seal Review | BYD Car Updates", m.Title)
	assert.Equal(t, "The Seal is BYD’s sports sedan", m.Description)
	assert.Equal(t, "article", m.OpenGraph.Type)
	assert.Equal(t, "https://img/seal.jpg", m.OpenGraph.Image)
	assert.Equal(t, "noindex, follow", m.Robots)
}

func TestCleanDescription_Truncates(t *testing.T) {
	long := strings.Repeat("electric ", 40)

	d := CleanDescription(long)

	assert.LessOrEqual(t, len([]rune(d)), descriptionLimit)
	assert.True(t, strings.HasSuffix(d, "electric..."), d)
}

func TestFAQPageSchema(t *testing.T) {
	assert.Nil(t, FAQPageSchema(content.FAQ{{Question: "Q"}}))

	page := FAQPageSchema(content.FAQ{
		{Question: "What is <b>V2L</b> charging?", Answer: "<p>Vehicle to load &amp; more.</p>"},
	})
	require.NotNil(t, page)
	require.Len(t, page.MainEntity, 1)
	assert.Equal(t, "What is V2L charging?", page.MainEntity[0].Name)
	assert.Equal(t, "Vehicle to load & more.", page.MainEntity[0].AcceptedAnswer.Text)
}

func TestArticle(t *testing.T) {
	a := testSite.Article(ArticleInput{
		Kind:        "BlogPosting",
		Section:     "Blogs",
		Title:       "Seal vs Model 3",
		Path:        "/blogs/seal-vs-model-3",
		Published:   "2024-11-05T10:20:30",
		AuthorName:  "Sam",
		WordCount:   950,
		ReadMinutes: 5,
	})

	assert.Equal(t, "BlogPosting", a.Type)
	assert.Equal(t, "PT5M", a.TimeRequired)
	assert.Equal(t, a.DatePublished, a.DateModified)
	assert.Equal(t, "https://bydcarupdates.com/blogs/seal-vs-model-3", a.MainEntityOfPage.URL)
	assert.Equal(t, "https://bydcarupdates.com/static/logo.png", a.Publisher.Logo.URL)
}

func TestScript_EscapesMarkup(t *testing.T) {
	out, err := Script(map[string]string{"name": "</script><script>alert(1)</script>"})

	require.NoError(t, err)
	s := string(out)
	assert.True(t, strings.HasPrefix(s, `<script type="application/ld+json">`))
	assert.Equal(t, 1, strings.Count(s, "</script>"))
	assert.Contains(t, s, `</script>`)

	empty, err := Script(nil)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestBreadcrumbSchema(t *testing.T) {
	trail := Trail(Crumb{Name: "Models", Path: "/models"}, Crumb{Name: "BYD Seal", Path: "/models/byd-seal"})

	bl := testSite.BreadcrumbSchema(trail)

	require.Len(t, bl.ItemListElement, 3)
	assert.Equal(t, ListItem{Type: "ListItem", Position: 1, Name: "Home", Item: "https://bydcarupdates.com"}, bl.ItemListElement[0])
	assert.Equal(t, 3, bl.ItemListElement[2].Position)
	assert.Equal(t, "https://bydcarupdates.com/models/byd-seal", bl.ItemListElement[2].Item)

	raw, err := json.Marshal(bl)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"@type":"BreadcrumbList"`)
}

func TestModelAlternates(t *testing.T) {
	alts := testSite.ModelAlternates("byd-seal", []string{"ae", "SA", "ae", ""})

	assert.Equal(t, []Alternate{
		{Hreflang: "x-default", Href: "https://bydcarupdates.com/models/byd-seal"},
		{Hreflang: "en-AE", Href: "https://bydcarupdates.com/ae/models/byd-seal"},
		{Hreflang: "en-SA", Href: "https://bydcarupdates.com/sa/models/byd-seal"},
	}, alts)
}

func TestCollectionPageSchema(t *testing.T) {
	links := make([]Crumb, 14)
	for i := range links {
		links[i] = Crumb{Name: "Model", Path: "/models/m"}
	}

	cp := testSite.CollectionPageSchema("BYD Models", "", "/models", 14, links)

	assert.Equal(t, 14, cp.MainEntity.NumberOfItems)
	assert.Len(t, cp.MainEntity.ItemListElement, 10)
}

func TestHowToSchema(t *testing.T) {
	h := HowToSchema("Use the calculator", "Steps", "PT1M", [2]string{"Select", "Pick a car"}, [2]string{"Enter", "Set charge"})

	require.Len(t, h.Step, 2)
	assert.Equal(t, "2", h.Step[1].Position)
	assert.Equal(t, "HowToStep", h.Step[0].Type)
}

func TestWebApplication(t *testing.T) {
	app := testSite.WebApplication("Charging Cost Calculator", "/ev-charge-cost-calculator", "Estimate charging cost")

	assert.Equal(t, "UtilityApplication", app.ApplicationCategory)
	assert.Equal(t, "0", app.Offers.Price)
	assert.Equal(t, "https://bydcarupdates.com/ev-charge-cost-calculator", app.URL)
}

func TestRobots(t *testing.T) {
	r := testSite.Robots()

	assert.True(t, strings.HasPrefix(r, "User-agent: *\nAllow: /\nDisallow: /api/\n"))
	for _, bot := range AICrawlers {
		assert.Contains(t, r, "User-agent: "+bot+"\nDisallow: /\n")
	}
	assert.True(t, strings.HasSuffix(r, "Sitemap: https://bydcarupdates.com/sitemap.xml\n"))
}

func TestSitemap(t *testing.T) {
	now := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	urls := testSite.StaticURLs(now)
	urls = append(urls, testSite.DynamicURLs([]Entry{
		{Path: "/models/byd-seal", Modified: time.Date(2024, 12, 1, 8, 0, 0, 0, time.UTC)},
		{Path: "/comparisons/seal-vs-model-3"},
	}, now)...)

	out, err := Sitemap(urls)

	require.NoError(t, err)
	s := string(out)
	assert.True(t, strings.HasPrefix(s, `<?xml version="1.0" encoding="UTF-8"?>`))
	assert.Contains(t, s, `<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">`)
	assert.Contains(t, s, "<loc>https://bydcarupdates.com</loc>")
	assert.Contains(t, s, "<priority>1.0</priority>")
	assert.Contains(t, s, "<loc>https://bydcarupdates.com/models/byd-seal</loc>")
	assert.Contains(t, s, "<lastmod>2024-12-01T08:00:00Z</lastmod>")
	assert.Contains(t, s, "<lastmod>2025-01-02T03:04:05Z</lastmod>")
	assert.Equal(t, len(urls), strings.Count(s, "<url>"))
}

func TestPaginate(t *testing.T) {
	p := Paginate(30, 2, 0)
	assert.Equal(t, 12, p.PerPage)
	assert.Equal(t, 3, p.TotalPages)
	assert.Equal(t, 12, p.Start)
	assert.Equal(t, 24, p.End)
	assert.True(t, p.HasPrev())
	assert.True(t, p.HasNext())
	assert.Equal(t, []int{1, 2, 3}, p.Window)

	last := Paginate(30, 99, 12)
	assert.Equal(t, 3, last.Page)
	assert.Equal(t, 30, last.End)
	assert.False(t, last.HasNext())

	empty := Paginate(0, 1, 12)
	assert.Equal(t, 1, empty.TotalPages)
	assert.Equal(t, 0, empty.End)

	wide := Paginate(240, 10, 12)
	assert.Equal(t, []int{8, 9, 10, 11, 12}, wide.Window)
	assert.Equal(t, []int{16, 17, 18, 19, 20}, Paginate(240, 20, 12).Window)
}

func TestSliceAndParsePage(t *testing.T) {
	items := []int{1, 2, 3, 4, 5}
	assert.Equal(t, []int{3, 4}, Slice(items, Paginate(len(items), 2, 2)))
	assert.Equal(t, []int{5}, Slice(items, Paginate(len(items), 3, 2)))

	assert.Equal(t, 1, ParsePage(""))
	assert.Equal(t, 1, ParsePage("-3"))
	assert.Equal(t, 1, ParsePage("two"))
	assert.Equal(t, 4, ParsePage(" 4 "))
}
