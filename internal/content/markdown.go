// internal/content/markdown.go
package content

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/adrg/frontmatter"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

// FrontMatter is the YAML header of a local markdown page.
type FrontMatter struct {
	Title       string         `yaml:"title"`
	Description string         `yaml:"description"`
	Keywords    string         `yaml:"keywords"`
	Updated     string         `yaml:"updated"`
	Draft       bool           `yaml:"draft"`
	Params      map[string]any `yaml:",inline"`
}

var markdownRenderer = goldmark.New(
	goldmark.WithExtensions(extension.GFM, extension.Footnote),
	goldmark.WithParserOptions(
		parser.WithAutoHeadingID(),
		parser.WithASTTransformers(
			util.Prioritized(pageLinkTransformer{}, 100),
		),
	),
	goldmark.WithRendererOptions(
		// Raw HTML passes through here; the ContentProcessor sanitizes it afterwards.
		html.WithUnsafe(),
	),
)

// RenderMarkdown splits the front matter from src and renders the body to HTML.
// The returned HTML is unsanitized.
func RenderMarkdown(src []byte) (FrontMatter, string, error) {
	var meta FrontMatter
	src = bytes.TrimLeft(src, "\ufeff \t\r\n")

	body, err := frontmatter.Parse(bytes.NewReader(src), &meta)
	if err != nil {
		return FrontMatter{}, "", fmt.Errorf("failed to parse front matter: %w", err)
	}

	var buf bytes.Buffer
	if err := markdownRenderer.Convert(body, &buf); err != nil {
		return meta, "", fmt.Errorf("failed to render markdown: %w", err)
	}
	return meta, buf.String(), nil
}

// pageLinkTransformer maps relative links to sibling pages ("privacy-policy.md")
// onto their site routes ("/privacy-policy").
type pageLinkTransformer struct{}

func (pageLinkTransformer) Transform(node *ast.Document, reader text.Reader, pc parser.Context) {
	ast.Walk(node, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		link, ok := n.(*ast.Link)
		if !ok {
			return ast.WalkContinue, nil
		}
		link.Destination = []byte(pageRoute(string(link.Destination)))
		return ast.WalkContinue, nil
	})
}

func pageRoute(dest string) string {
	if strings.Contains(dest, "://") || strings.HasPrefix(dest, "#") || strings.HasPrefix(dest, "mailto:") {
		return dest
	}
	fragment := ""
	if idx := strings.Index(dest, "#"); idx >= 0 {
		fragment = dest[idx:]
		dest = dest[:idx]
	}
	if !strings.HasSuffix(dest, ".md") {
		return dest + fragment
	}
	dest = strings.TrimSuffix(dest, ".md")
	dest = strings.TrimPrefix(dest, "./")
	if !strings.HasPrefix(dest, "/") {
		dest = "/" + dest
	}
	return dest + fragment
}
