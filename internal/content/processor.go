// internal/content/processor.go
package content

import (
	"regexp"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// TOCEntry is one line of a page's table of contents.
type TOCEntry struct {
	ID    string `json:"id"`
	Text  string `json:"text"`
	Level int    `json:"level"`
}

// Result is the output of processing one document.
type Result struct {
	HTML string
	TOC  []TOCEntry
	// Degraded is set when the markup could not be parsed and HTML holds the
	// sanitized original text without heading anchors.
	Degraded bool
}

// Processor turns untrusted CMS rich text into safe, anchor-enriched HTML
// plus a table of contents.
type Processor interface {
	Process(raw string, faq FAQ) Result
	Sanitize(s string) string
}

// Options configures the legacy asset rewrite. Empty values select the defaults.
type Options struct {
	LegacyPrefix string
	CDNBase      string
}

// HTMLProcessor is the Processor used by every page. It holds no per-document
// state and is safe for concurrent use.
type HTMLProcessor struct {
	policy *bluemonday.Policy
	assets *AssetRewriter
	parse  func(string) ([]*html.Node, error)
}

var _ Processor = (*HTMLProcessor)(nil)

// NewProcessor creates a processor with the rich-text allowlist policy.
func NewProcessor(opts Options) *HTMLProcessor {
	return &HTMLProcessor{
		policy: newRichTextPolicy(),
		assets: NewAssetRewriter(opts.LegacyPrefix, opts.CDNBase),
		parse:  parseFragment,
	}
}

var frameTarget = regexp.MustCompile(`^_(blank|self)$`)

// newRichTextPolicy extends the UGC policy with the layout, embed and
// responsive image attributes the CMS editor produces.
func newRichTextPolicy() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()

	p.AllowElements("div", "span", "section", "figure", "figcaption", "details", "summary", "iframe")
	// UGCPolicy already allows id through its standard attributes.
	p.AllowAttrs("class").Globally()
	p.AllowAttrs("align").OnElements("p", "div", "img", "td", "th")

	p.AllowAttrs("src", "srcset", "sizes", "alt", "title", "loading", "decoding").OnElements("img")
	p.AllowAttrs("width", "height").OnElements("img", "iframe", "table", "td", "th")

	p.AllowAttrs("src", "title", "allow", "allowfullscreen", "frameborder", "scrolling", "loading", "referrerpolicy").OnElements("iframe")
	p.RequireSandboxOnIFrame(
		bluemonday.SandboxAllowScripts,
		bluemonday.SandboxAllowSameOrigin,
		bluemonday.SandboxAllowPopups,
		bluemonday.SandboxAllowPresentation,
	)

	p.AllowAttrs("target").Matching(frameTarget).OnElements("a")

	p.AllowStyles(
		"width", "height", "max-width", "min-width",
		"text-align", "vertical-align", "float",
		"margin", "margin-left", "margin-right", "margin-top", "margin-bottom",
		"padding", "color", "background-color", "font-weight", "font-style",
		"text-decoration", "border", "border-collapse",
	).Globally()

	return p
}

func parseFragment(raw string) ([]*html.Node, error) {
	return html.ParseFragment(strings.NewReader(raw), &html.Node{
		Type:     html.ElementNode,
		Data:     "body",
		DataAtom: atom.Body,
	})
}

// Sanitize runs s through the allowlist policy and the asset rewrite.
func (p *HTMLProcessor) Sanitize(s string) string {
	return p.assets.Rewrite(p.policy.Sanitize(s))
}

// Process sanitizes the markup, annotates the h2-h4 headings that survive
// with anchor ids, rewrites legacy asset URLs and builds the table of
// contents. Headings come first in document order, followed by the FAQ
// section when faq has any present slot.
//
// An existing id is kept unless an earlier heading or the FAQ section
// already owns it. The heading then gets a synthesized id instead.
func (p *HTMLProcessor) Process(raw string, faq FAQ) Result {
	if strings.TrimSpace(raw) == "" {
		return Result{TOC: faq.tocEntries()}
	}

	clean := p.policy.Sanitize(raw)
	nodes, err := p.parse(clean)
	if err != nil {
		return Result{HTML: p.assets.Rewrite(clean), Degraded: true}
	}

	ids := newIDRegistry()
	for _, n := range nodes {
		walk(n, func(el *html.Node) {
			if id, ok := attr(el, "id"); ok {
				ids.reserve(id)
			}
		})
	}
	owned := make(map[string]struct{})
	for _, id := range faq.reservedIDs() {
		ids.reserve(id)
		owned[id] = struct{}{}
	}

	var toc []TOCEntry
	index := 0
	for _, n := range nodes {
		walk(n, func(el *html.Node) {
			level := headingLevel(el)
			if level == 0 {
				return
			}
			position := index
			index++

			text := headingText(el)
			if text == "" {
				return
			}
			id, ok := attr(el, "id")
			if _, taken := owned[id]; !ok || taken {
				id = ids.claim(text, position)
				setAttr(el, "id", id)
			}
			owned[id] = struct{}{}
			toc = append(toc, TOCEntry{ID: id, Text: text, Level: level})
		})
	}

	var b strings.Builder
	for _, n := range nodes {
		if err := html.Render(&b, n); err != nil {
			return Result{HTML: p.assets.Rewrite(clean), Degraded: true}
		}
	}

	return Result{
		HTML: p.Sanitize(b.String()),
		TOC:  append(toc, faq.tocEntries()...),
	}
}

func headingLevel(n *html.Node) int {
	if n.Type != html.ElementNode {
		return 0
	}
	switch n.DataAtom {
	case atom.H2:
		return 2
	case atom.H3:
		return 3
	case atom.H4:
		return 4
	}
	return 0
}

// walk visits every element below and including n in document order.
func walk(n *html.Node, fn func(*html.Node)) {
	if n.Type == html.ElementNode {
		fn(n)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c, fn)
	}
}

// headingText is the visible text of n with whitespace collapsed.
func headingText(n *html.Node) string {
	var b strings.Builder
	var collect func(*html.Node)
	collect = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			b.WriteString(n.Data)
			return
		case html.ElementNode:
			switch n.DataAtom {
			case atom.Script, atom.Style, atom.Template, atom.Noscript:
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			collect(c)
		}
	}
	collect(n)
	return strings.Join(strings.Fields(b.String()), " ")
}

// attr returns the value of key when it is present and not blank.
func attr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			return a.Val, strings.TrimSpace(a.Val) != ""
		}
	}
	return "", false
}

func setAttr(n *html.Node, key, val string) {
	for i, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}
