// internal/builder/builder.go
package builder

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"bydupdates/internal/cms"
	"bydupdates/internal/pages"
	"bydupdates/internal/seo"
	"bydupdates/internal/theme"
)

// BuildSite exports every page of the site as static HTML into
// opts.OutputDir, copies the static assets and writes sitemap.xml and
// robots.txt. Listing pages are linked as /blogs/page/2.
func BuildSite(ctx context.Context, opts BuildOptions) (Report, error) {
	if opts.Source == nil {
		return Report{}, errors.New("builder: no content source")
	}
	opts = withDefaults(opts)
	log := opts.Logger.WithField("component", "builder")
	started := opts.Now()

	renderer, err := LoadTemplates(opts.Templates)
	if err != nil {
		return Report{}, err
	}

	outputDir := opts.OutputDir
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return Report{}, err
	}
	if opts.CleanDestination {
		log.WithField("dir", outputDir).Info("cleaning destination directory")
		entries, err := os.ReadDir(outputDir)
		if err != nil {
			return Report{}, err
		}
		for _, entry := range entries {
			if err := os.RemoveAll(filepath.Join(outputDir, entry.Name())); err != nil {
				return Report{}, err
			}
		}
	}

	snap, err := takeSnapshot(ctx, opts.Source)
	if err != nil {
		return Report{}, err
	}
	asm := pages.NewAssembler(pages.Options{
		Source:         snap,
		Config:         opts.Site,
		Pages:          opts.Pages,
		Logger:         opts.Logger,
		Now:            opts.Now,
		PathPagination: true,
	})

	jobs, err := plan(ctx, asm, snap, opts)
	if err != nil {
		return Report{}, err
	}

	var written, skipped atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Concurrency)
	for _, j := range jobs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			data, err := j.build()
			if errors.Is(err, pages.ErrNotFound) {
				log.WithField("page", j.path).Warn("skipping page without content")
				skipped.Add(1)
				return nil
			}
			if err != nil {
				return fmt.Errorf("failed to build page %s: %w", j.path, err)
			}
			if err := renderPage(renderer, outputPath(outputDir, j), data); err != nil {
				return fmt.Errorf("failed to render page %s: %w", j.path, err)
			}
			log.WithField("page", j.path).Debug("page written")
			written.Add(1)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Report{}, err
	}

	assets, err := copyStaticAssets(opts.Static, filepath.Join(outputDir, "static"))
	if err != nil {
		return Report{}, err
	}

	sitemap, err := asm.Sitemap(ctx)
	if err != nil {
		return Report{}, err
	}
	if err := os.WriteFile(filepath.Join(outputDir, "sitemap.xml"), sitemap, 0644); err != nil {
		return Report{}, err
	}
	if err := os.WriteFile(filepath.Join(outputDir, "robots.txt"), []byte(asm.Robots()), 0644); err != nil {
		return Report{}, err
	}

	return Report{
		Pages:   int(written.Load()),
		Skipped: int(skipped.Load()),
		Assets:  assets,
		Elapsed: opts.Now().Sub(started),
	}, nil
}

func withDefaults(opts BuildOptions) BuildOptions {
	if opts.OutputDir == "" {
		opts.OutputDir = opts.Site.Build.Output
	}
	if opts.OutputDir == "" {
		opts.OutputDir = "public"
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = opts.Site.Build.Concurrency
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = 1
	}
	if opts.Templates == nil {
		opts.Templates = theme.Templates()
	}
	if opts.Static == nil {
		opts.Static = theme.Static()
	}
	if opts.Pages == nil {
		opts.Pages = theme.Pages()
	}
	if opts.Logger == nil {
		opts.Logger = logrus.StandardLogger()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return opts
}

// plan lists every page of the export.
func plan(ctx context.Context, asm *pages.Assembler, snap *snapshot, opts BuildOptions) ([]job, error) {
	jobs := []job{
		{path: "/", build: func() (pages.PageData, error) { return asm.Home(ctx) }},
		{path: pages.CalculatorPath, build: func() (pages.PageData, error) { return asm.Calculator(nil), nil }},
		{path: pages.LifespanPath, build: func() (pages.PageData, error) { return asm.Lifespan(nil), nil }},
		{path: "/404", file: "404.html", build: func() (pages.PageData, error) { return asm.NotFound("/404"), nil }},
	}

	perPage := opts.Site.Pagination.PerPage
	listings := []struct {
		path    string
		entries []cms.Entry
		list    func(context.Context, int) (pages.PageData, error)
		detail  func(context.Context, string) (pages.PageData, error)
	}{
		{"/blogs", snap.blogs, asm.Blogs, asm.Blog},
		{"/models", snap.models, asm.Models, asm.Model},
		{"/comparisons", snap.comparisons, asm.Comparisons, asm.Comparison},
	}
	for _, l := range listings {
		for n := 1; n <= seo.Paginate(len(l.entries), 1, perPage).TotalPages; n++ {
			jobs = append(jobs, job{path: asm.PageHref(l.path, n), build: func() (pages.PageData, error) { return l.list(ctx, n) }})
		}
		for _, e := range l.entries {
			slug := e.Slug
			jobs = append(jobs, job{path: l.path + "/" + slug, build: func() (pages.PageData, error) { return l.detail(ctx, slug) }})
		}
	}

	for _, m := range cms.Markets(snap.countries) {
		code := m.Code
		listPath := "/" + code + "/models"
		inMarket := cms.InCountry(snap.countries, code)
		for n := 1; n <= seo.Paginate(len(inMarket), 1, perPage).TotalPages; n++ {
			jobs = append(jobs, job{path: asm.PageHref(listPath, n), build: func() (pages.PageData, error) { return asm.CountryModels(ctx, code, n) }})
		}
		for _, e := range inMarket {
			slug := e.Slug
			jobs = append(jobs, job{path: listPath + "/" + slug, build: func() (pages.PageData, error) { return asm.CountryModel(ctx, code, slug) }})
		}
	}

	names, err := localPages(opts.Pages)
	if err != nil {
		return nil, err
	}
	for _, name := range names {
		jobs = append(jobs, job{path: "/" + name, build: func() (pages.PageData, error) { return asm.Legal(name) }})
	}
	return jobs, nil
}

// localPages lists the markdown pages at the root of fsys by name.
func localPages(fsys fs.FS) ([]string, error) {
	matches, err := fs.Glob(fsys, "*.md")
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(matches))
	for _, m := range matches {
		names = append(names, strings.TrimSuffix(m, ".md"))
	}
	return names, nil
}

func outputPath(outputDir string, j job) string {
	if j.file != "" {
		return filepath.Join(outputDir, j.file)
	}
	return filepath.Join(outputDir, filepath.FromSlash(path.Clean(j.path)), "index.html")
}

// copyStaticAssets copies files from the static filesystem to the output
// directory and returns how many it copied.
func copyStaticAssets(static fs.FS, outputDir string) (int, error) {
	// Extensions that are considered static assets. Anything else in the
	// theme directory (editor backups, notes) is left behind.
	allowedExts := map[string]bool{
		".css": true, ".js": true, ".txt": true, ".svg": true, ".ico": true,
		".png": true, ".jpg": true, ".jpeg": true, ".gif": true, ".webp": true,
		".woff": true, ".woff2": true,
	}
	copied := 0
	err := fs.WalkDir(static, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if !allowedExts[strings.ToLower(path.Ext(d.Name()))] {
			return nil
		}

		dest := filepath.Join(outputDir, filepath.FromSlash(p))
		if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
			return err
		}
		src, err := static.Open(p)
		if err != nil {
			return err
		}
		defer src.Close()
		dst, err := os.Create(dest)
		if err != nil {
			return err
		}
		defer dst.Close()
		if _, err := io.Copy(dst, src); err != nil {
			return err
		}
		copied++
		return nil
	})
	return copied, err
}

// renderPage executes the templates and writes the output to a file.
func renderPage(r *Renderer, outPath string, data pages.PageData) error {
	var buf bytes.Buffer
	if err := r.Render(&buf, data); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(outPath), 0755); err != nil {
		return err
	}
	return os.WriteFile(outPath, buf.Bytes(), 0644)
}
