// internal/scaffold/scaffold.go
package scaffold

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"text/template"
	"time"

	"bydupdates/internal/content"
	"bydupdates/internal/theme"
)

// ErrExists is returned when the target already holds a site or page.
var ErrExists = errors.New("scaffold: file already exists")

// ArchetypePath is where new pages take their front matter from.
const ArchetypePath = "archetypes/page.md"

// CreateNewSite writes a starter site into dir: site.yaml, .env.example, an
// archetype, and copies of the embedded templates, static assets and pages
// so they can be edited and served with serve --dev. It returns the files
// written, relative to dir.
func CreateNewSite(dir string) ([]string, error) {
	if _, err := os.Stat(filepath.Join(dir, "site.yaml")); err == nil {
		return nil, fmt.Errorf("%w: %s", ErrExists, filepath.Join(dir, "site.yaml"))
	}

	files := map[string]string{
		"site.yaml":    siteYamlContent,
		".env.example": envExampleContent,
		ArchetypePath:  archetypePageContent,
	}
	for name, fsys := range map[string]fs.FS{
		"templates": theme.Templates(),
		"static":    theme.Static(),
		"pages":     theme.Pages(),
	} {
		if err := collect(files, name, fsys); err != nil {
			return nil, fmt.Errorf("failed to read embedded %s: %w", name, err)
		}
	}

	written := make([]string, 0, len(files))
	for path := range files {
		written = append(written, path)
	}
	sort.Strings(written)

	for _, path := range written {
		dest := filepath.Join(dir, filepath.FromSlash(path))
		if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
			return nil, fmt.Errorf("failed to create directory %s: %w", filepath.Dir(dest), err)
		}
		if err := os.WriteFile(dest, []byte(files[path]), 0644); err != nil {
			return nil, fmt.Errorf("failed to write file %s: %w", path, err)
		}
	}
	return written, nil
}

func collect(files map[string]string, prefix string, fsys fs.FS) error {
	return fs.WalkDir(fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		data, err := fs.ReadFile(fsys, p)
		if err != nil {
			return err
		}
		files[prefix+"/"+p] = string(data)
		return nil
	})
}

// CreateNewPage writes pagesDir/<slug>.md from the archetype at
// archetypePath, or the built-in one when that file does not exist. It
// returns the path written.
func CreateNewPage(pagesDir, archetypePath, title string, now time.Time) (string, error) {
	slug := content.Slugify(title)
	if slug == "" {
		return "", fmt.Errorf("cannot derive a file name from title %q", title)
	}
	path := filepath.Join(pagesDir, slug+".md")
	if _, err := os.Stat(path); err == nil {
		return "", fmt.Errorf("%w: %s", ErrExists, path)
	}

	archetype := archetypePageContent
	if archetypePath != "" {
		b, err := os.ReadFile(archetypePath)
		switch {
		case err == nil:
			archetype = string(b)
		case !errors.Is(err, fs.ErrNotExist):
			return "", fmt.Errorf("could not read archetype file %s: %w", archetypePath, err)
		}
	}

	tmpl, err := template.New("archetype").Parse(archetype)
	if err != nil {
		return "", fmt.Errorf("failed to parse archetype file %s: %w", archetypePath, err)
	}
	data := struct {
		Title   string
		Updated string
	}{
		Title:   title,
		Updated: now.Format("January 2, 2006"),
	}
	var output bytes.Buffer
	if err := tmpl.Execute(&output, data); err != nil {
		return "", fmt.Errorf("failed to execute archetype template: %w", err)
	}

	if err := os.MkdirAll(pagesDir, 0755); err != nil {
		return "", err
	}
	if err := os.WriteFile(path, output.Bytes(), 0644); err != nil {
		return "", err
	}
	return path, nil
}

const siteYamlContent = `title: BYD Car Updates
baseurl: https://bydcarupdates.com
description: Stay updated with the latest BYD electric vehicle news, comprehensive model reviews, specifications, and industry insights.
twitter: "@bydcarupdates"
locale: en_US

cms:
  # WORDPRESS_API_URL overrides this.
  endpoint: https://cms.example.com/graphql
  timeout: 15s
  faq_fields: 5
  fact_fields: 4
  requests_per_second: 10

server:
  port: 8080
  template_dir: templates
  static_dir: static
  pages_dir: pages

build:
  output: public
  concurrency: 8

pagination:
  per_page: 12

calculator:
  currency: $
  rate: 0.25
`

const envExampleContent = `# Copy to .env. Values here never override variables already set.
WORDPRESS_API_URL=https://cms.example.com/graphql
NEXT_PUBLIC_SITE_URL=https://bydcarupdates.com
GOOGLE_SITE_VERIFICATION=
PORT=8080
`

const archetypePageContent = `---
title: {{ .Title }}
description:
keywords:
updated: {{ .Updated }}
draft: true
---

# {{ .Title }}

Write the page here.
`
