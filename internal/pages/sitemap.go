// internal/pages/sitemap.go
package pages

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"bydupdates/internal/cms"
	"bydupdates/internal/seo"
)

// Sitemap renders sitemap.xml: the static pages followed by every model,
// comparison and blog post.
func (a *Assembler) Sitemap(ctx context.Context) ([]byte, error) {
	var models, comparisons, blogs []cms.Entry
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
		blogs, err = a.src.Blogs(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to load sitemap entries: %w", err)
	}

	now := a.now()
	var entries []seo.Entry
	entries = appendEntries(entries, models, "/models/")
	entries = appendEntries(entries, comparisons, "/comparisons/")
	entries = appendEntries(entries, blogs, "/blogs/")

	urls := append(a.site.StaticURLs(now), a.site.DynamicURLs(entries, now)...)
	return seo.Sitemap(urls)
}

func appendEntries(dst []seo.Entry, src []cms.Entry, prefix string) []seo.Entry {
	for i := range src {
		if _, ok := cleanSlug(src[i].Slug); !ok {
			continue
		}
		mod, _ := src[i].Updated()
		dst = append(dst, seo.Entry{Path: prefix + src[i].Slug, Modified: mod})
	}
	return dst
}

// Robots renders robots.txt.
func (a *Assembler) Robots() string {
	return a.site.Robots()
}
