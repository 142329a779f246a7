package content

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
)

func TestProcess_AnnotatesHeadingsInDocumentOrder(t *testing.T) {
	p := NewProcessor(Options{})
	raw := `<h2>Battery &amp; Range</h2><p>intro</p><h3>Charging <em>Speed</em></h3><div><h4>Über Tech</h4></div><h5>Ignored</h5>`

	res := p.Process(raw, nil)

	require.False(t, res.Degraded)
	assert.Equal(t, []TOCEntry{
		{ID: "battery-range", Text: "Battery & Range", Level: 2},
		{ID: "charging-speed", Text: "Charging Speed", Level: 3},
		{ID: "uber-tech", Text: "Über Tech", Level: 4},
	}, res.TOC)
	assert.Contains(t, res.HTML, `<h2 id="battery-range">`)
	assert.Contains(t, res.HTML, `<h3 id="charging-speed">`)
	assert.Contains(t, res.HTML, `<h4 id="uber-tech">`)
	assert.NotContains(t, res.HTML, `<h5 id=`)
	assert.Equal(t, 3, strings.Count(res.HTML, "id="))
}

func TestProcess_ReusesExistingID(t *testing.T) {
	p := NewProcessor(Options{})

	res := p.Process(`<h2 id="Specs_2024">Specifications</h2>`, nil)

	require.Len(t, res.TOC, 1)
	assert.Equal(t, "Specs_2024", res.TOC[0].ID)
	assert.Contains(t, res.HTML, `id="Specs_2024"`)
	assert.NotContains(t, res.HTML, `id="specifications"`)
	assert.Equal(t, 1, strings.Count(res.HTML, "id="))
}

func TestProcess_BlankIDIsReplaced(t *testing.T) {
	p := NewProcessor(Options{})

	res := p.Process(`<h2 id=" ">Warranty</h2>`, nil)

	require.Len(t, res.TOC, 1)
	assert.Equal(t, "warranty", res.TOC[0].ID)
	assert.Contains(t, res.HTML, `id="warranty"`)
}

func TestProcess_SkipsEmptyHeadings(t *testing.T) {
	p := NewProcessor(Options{})
	raw := `<h2>   </h2><h2><img src="https://example.com/a.png" alt=""></h2><h3>Real Heading</h3>`

	res := p.Process(raw, nil)

	assert.Equal(t, []TOCEntry{{ID: "real-heading", Text: "Real Heading", Level: 3}}, res.TOC)
	assert.Equal(t, 1, strings.Count(res.HTML, "id="))
}

func TestProcess_FallsBackToPositionalID(t *testing.T) {
	p := NewProcessor(Options{})

	res := p.Process(`<h2>Intro</h2><h2>!!!</h2><h3>???</h3>`, nil)

	require.Len(t, res.TOC, 3)
	assert.Equal(t, "intro", res.TOC[0].ID)
	assert.Equal(t, "heading-1", res.TOC[1].ID)
	assert.Equal(t, "heading-2", res.TOC[2].ID)
}

func TestProcess_SuffixesCollidingSlugs(t *testing.T) {
	p := NewProcessor(Options{})

	res := p.Process(`<h2>Specs</h2><h3>Specs</h3><h2 id="price">Price</h2><h3>Price</h3>`, nil)

	ids := make([]string, 0, len(res.TOC))
	for _, e := range res.TOC {
		ids = append(ids, e.ID)
	}
	assert.Equal(t, []string{"specs", "specs-2", "price", "price-2"}, ids)
}

func TestProcess_LaterExistingIDIsNotStolen(t *testing.T) {
	p := NewProcessor(Options{})

	res := p.Process(`<h2>Overview</h2><p id="overview">anchor target</p>`, nil)

	require.Len(t, res.TOC, 1)
	assert.Equal(t, "overview-2", res.TOC[0].ID)
}

func TestProcess_AppendsFAQAfterHeadings(t *testing.T) {
	p := NewProcessor(Options{})
	long := "How long does it take to charge the BYD Seal from ten to eighty percent?"
	faq := FAQ{
		{Question: "What is the range?", Answer: "Up to 570 km."},
		{Question: "", Answer: "orphan answer"},
		{Question: long, Answer: "About 26 minutes on DC."},
	}

	res := p.Process(`<h2>Overview</h2>`, faq)

	assert.Equal(t, []TOCEntry{
		{ID: "overview", Text: "Overview", Level: 2},
		{ID: FAQSectionID, Text: FAQSectionTitle, Level: 2},
		{ID: "faq-1", Text: "What is the range?", Level: 3},
		{ID: "faq-3", Text: string([]rune(long)[:50]) + "...", Level: 3},
	}, res.TOC)
}

func TestProcess_NoFAQEntriesWithoutPresentPairs(t *testing.T) {
	p := NewProcessor(Options{})
	faq := FAQ{{Question: "Only a question"}, {Answer: "Only an answer"}, {Question: "  ", Answer: "blank question"}}

	res := p.Process(`<h2>Overview</h2>`, faq)

	assert.Equal(t, []TOCEntry{{ID: "overview", Text: "Overview", Level: 2}}, res.TOC)
}

func TestProcess_HeadingAvoidsFAQAnchors(t *testing.T) {
	p := NewProcessor(Options{})
	faq := FAQ{{Question: "Q?", Answer: "A."}}

	res := p.Process(`<h2>Frequently Asked Questions</h2>`, faq)

	require.Len(t, res.TOC, 3)
	assert.Equal(t, "frequently-asked-questions-2", res.TOC[0].ID)
	assert.Equal(t, FAQSectionID, res.TOC[1].ID)
}

func TestProcess_EmptyContent(t *testing.T) {
	p := NewProcessor(Options{})

	res := p.Process("", nil)
	assert.Empty(t, res.HTML)
	assert.Empty(t, res.TOC)

	res = p.Process("   ", FAQ{{Question: "Q?", Answer: "A."}})
	assert.Empty(t, res.HTML)
	assert.Equal(t, []TOCEntry{
		{ID: FAQSectionID, Text: FAQSectionTitle, Level: 2},
		{ID: "faq-1", Text: "Q?", Level: 3},
	}, res.TOC)
}

func TestProcess_RemovesScriptsAndHandlers(t *testing.T) {
	p := NewProcessor(Options{})
	raw := `<p onclick="steal()">Hello</p><script>alert(1)</script><a href="javascript:alert(2)">link</a><img src="x.png" onerror="boom()">`

	res := p.Process(raw, nil)

	assert.Contains(t, res.HTML, "Hello")
	assert.NotContains(t, res.HTML, "<script")
	assert.NotContains(t, res.HTML, "onclick")
	assert.NotContains(t, res.HTML, "onerror")
	assert.NotContains(t, res.HTML, "javascript:")
	assert.NotContains(t, res.HTML, "alert")
}

func TestProcess_KeepsEmbedsAndImages(t *testing.T) {
	p := NewProcessor(Options{})
	raw := `<figure><img src="https://example.com/car.jpg" alt="Car" width="800" height="600" loading="lazy"><figcaption>The car</figcaption></figure>` +
		`<iframe src="https://www.youtube.com/embed/abc123" width="560" height="315" allowfullscreen></iframe>`

	res := p.Process(raw, nil)

	assert.Contains(t, res.HTML, "<figure>")
	assert.Contains(t, res.HTML, "<figcaption>The car</figcaption>")
	assert.Contains(t, res.HTML, `src="https://example.com/car.jpg"`)
	assert.Contains(t, res.HTML, `loading="lazy"`)
	assert.Contains(t, res.HTML, `<iframe`)
	assert.Contains(t, res.HTML, `src="https://www.youtube.com/embed/abc123"`)
	assert.Contains(t, res.HTML, `sandbox=`)
}

func TestProcess_RewritesLegacyAssets(t *testing.T) {
	p := NewProcessor(Options{})
	raw := `<img src="http://bydcarupdates.local/wp-content/uploads/2024/11/full.jpg" ` +
		`srcset="http://bydcarupdates.local/wp-content/uploads/2024/11/full.jpg 1200w, http://bydcarupdates.local/wp-content/uploads/2024/11/medium.jpg 300w" ` +
		`sizes="(max-width: 500px) 100vw, 500px" alt="Seal">`

	res := p.Process(raw, nil)

	assert.Contains(t, res.HTML, `src="https://res.cloudinary.com/dcb6bxort/image/upload/2024/11/full.jpg"`)
	assert.Contains(t, res.HTML, `srcset="https://res.cloudinary.com/dcb6bxort/image/upload/2024/11/full.jpg 1200w, https://res.cloudinary.com/dcb6bxort/image/upload/2024/11/medium.jpg 300w"`)
	assert.NotContains(t, res.HTML, "wp-content")
}

func TestProcess_IsDeterministic(t *testing.T) {
	p := NewProcessor(Options{})
	raw := `<h2>Design</h2><p>Text</p><h3>Design</h3><h2></h2><h4>A &amp; B</h4>`
	faq := FAQ{{Question: "Why?", Answer: "Because."}}

	first := p.Process(raw, faq)
	second := p.Process(raw, faq)

	assert.Equal(t, first, second)
}

func TestProcess_DegradesOnParseFailure(t *testing.T) {
	p := NewProcessor(Options{})
	p.parse = func(string) ([]*html.Node, error) { return nil, errors.New("parse failed") }

	res := p.Process(`<h2>Title</h2><script>x()</script>`, FAQ{{Question: "Q", Answer: "A"}})

	assert.True(t, res.Degraded)
	assert.Empty(t, res.TOC)
	assert.Contains(t, res.HTML, "Title")
	assert.NotContains(t, res.HTML, "<script")
}

func TestSanitize_IsIdempotent(t *testing.T) {
	p := NewProcessor(Options{})
	inputs := []string{
		`<h2 id="intro">Intro</h2><p>Hello <strong>world</strong> &amp; friends</p>`,
		`<ul><li>One</li><li>Two</li></ul><blockquote>Quote</blockquote>`,
		`<table><thead><tr><th>Model</th></tr></thead><tbody><tr><td>Seal</td></tr></tbody></table>`,
		`<p onclick="x()">click</p><script>bad()</script><img src="https://example.com/a.png" alt="A">`,
		`<div class="note"><span>inline</span></div>`,
	}

	for _, in := range inputs {
		once := p.Sanitize(in)
		assert.Equal(t, once, p.Sanitize(once), "input: %s", in)
	}

	assert.Equal(t, `<h2 id="a">A</h2>`, p.Sanitize(`<h2 id="a">A</h2>`))
	assert.Equal(t, `<div id="c" class="k">x</div>`, p.Sanitize(`<div id="c" class="k">x</div>`))
}

func TestProcess_TOCOnlyListsSurvivingHeadings(t *testing.T) {
	p := NewProcessor(Options{})
	inputs := []string{
		`<object data="x"><h2>Hidden Specs</h2></object><h2>Visible</h2>`,
		`<nostyle><h3>Nostyle Heading</h3></nostyle><h3>Kept</h3>`,
		`<script><h2>Injected</h2></script><h3>Design</h3>`,
	}

	for _, in := range inputs {
		res := p.Process(in, nil)
		require.Len(t, res.TOC, 1, "input: %s", in)
		for _, e := range res.TOC {
			assert.Contains(t, res.HTML, `id="`+e.ID+`"`, "input: %s", in)
		}
	}

	res := p.Process(`<object data="x"><h2>Hidden Specs</h2></object><h2>Visible</h2>`, nil)
	assert.Equal(t, []TOCEntry{{ID: "visible", Text: "Visible", Level: 2}}, res.TOC)
	assert.NotContains(t, res.HTML, "Hidden")
}

func TestProcess_DuplicateExistingIDs(t *testing.T) {
	p := NewProcessor(Options{})

	res := p.Process(`<h2 id="dup">One</h2><h2 id="dup">Two</h2>`, nil)

	assert.Equal(t, []TOCEntry{
		{ID: "dup", Text: "One", Level: 2},
		{ID: "two", Text: "Two", Level: 2},
	}, res.TOC)
	assert.Equal(t, 1, strings.Count(res.HTML, `id="dup"`))
	assert.Contains(t, res.HTML, `<h2 id="two">Two</h2>`)
}

func TestProcess_ExistingIDOwnedByFAQ(t *testing.T) {
	p := NewProcessor(Options{})
	faq := FAQ{{Question: "Range?", Answer: "570 km."}}

	res := p.Process(`<h2 id="faq-1">Battery</h2>`, faq)

	assert.Equal(t, []TOCEntry{
		{ID: "battery", Text: "Battery", Level: 2},
		{ID: FAQSectionID, Text: FAQSectionTitle, Level: 2},
		{ID: "faq-1", Text: "Range?", Level: 3},
	}, res.TOC)
	assert.NotContains(t, res.HTML, `id="faq-1"`)
}

func TestProcess_TOCIDsAreUnique(t *testing.T) {
	p := NewProcessor(Options{})
	raw := `<h2 id="a">A</h2><h3 id="a">A</h3><h2>A</h2><h4 id="frequently-asked-questions">FAQ</h4>`

	res := p.Process(raw, FAQ{{Question: "Q?", Answer: "A."}})

	seen := make(map[string]bool)
	for _, e := range res.TOC {
		assert.False(t, seen[e.ID], "duplicate id %q", e.ID)
		seen[e.ID] = true
		assert.True(t, e.Level >= 2 && e.Level <= 4)
	}
}
