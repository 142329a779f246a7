// internal/builder/snapshot.go
package builder

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"bydupdates/internal/cms"
	"bydupdates/internal/pages"
)

// snapshot fetches the four listings once per build. Detail lookups pass
// through to the backend since list queries carry only card fields.
type snapshot struct {
	pages.Source
	blogs, models, comparisons, countries []cms.Entry
}

func takeSnapshot(ctx context.Context, src pages.Source) (*snapshot, error) {
	s := &snapshot{Source: src}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		s.blogs, err = src.Blogs(gctx)
		return err
	})
	g.Go(func() (err error) {
		s.models, err = src.Models(gctx)
		return err
	})
	g.Go(func() (err error) {
		s.comparisons, err = src.Comparisons(gctx)
		return err
	})
	g.Go(func() (err error) {
		s.countries, err = src.Countries(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to load content listings: %w", err)
	}
	return s, nil
}

func (s *snapshot) Blogs(context.Context) ([]cms.Entry, error)       { return s.blogs, nil }
func (s *snapshot) Models(context.Context) ([]cms.Entry, error)      { return s.models, nil }
func (s *snapshot) Comparisons(context.Context) ([]cms.Entry, error) { return s.comparisons, nil }
func (s *snapshot) Countries(context.Context) ([]cms.Entry, error)   { return s.countries, nil }
