package scaffold

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bydupdates/internal/config"
	"bydupdates/internal/content"
)

func TestCreateNewSite(t *testing.T) {
	dir := t.TempDir()

	written, err := CreateNewSite(dir)
	require.NoError(t, err)

	for _, f := range []string{"site.yaml", ".env.example", ArchetypePath, "templates/layout.html", "templates/calculator.html", "static/css/style.css", "pages/about.md", "pages/privacy-policy.md"} {
		assert.Contains(t, written, f)
		assert.FileExists(t, filepath.Join(dir, filepath.FromSlash(f)))
	}

	cfg, err := config.LoadSiteConfig(filepath.Join(dir, "site.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "templates", cfg.Server.TemplateDir)
	assert.Equal(t, "pages", cfg.Server.PagesDir)
	assert.Equal(t, 10.0, cfg.CMS.RequestsPerSecond)
	assert.NoError(t, cfg.Validate())

	_, err = CreateNewSite(dir)
	assert.ErrorIs(t, err, ErrExists)
}

func TestCreateNewPage(t *testing.T) {
	dir := t.TempDir()
	now := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

	path, err := CreateNewPage(filepath.Join(dir, "pages"), filepath.Join(dir, "missing.md"), "Press Kit", now)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "pages", "press-kit.md"), path)

	src, err := os.ReadFile(path)
	require.NoError(t, err)
	meta, body, err := content.RenderMarkdown(src)
	require.NoError(t, err)
	assert.Equal(t, "Press Kit", meta.Title)
	assert.Equal(t, "March 1, 2025", meta.Updated)
	assert.True(t, meta.Draft)
	assert.Contains(t, body, "<h1")

	_, err = CreateNewPage(filepath.Join(dir, "pages"), "", "Press Kit", now)
	assert.ErrorIs(t, err, ErrExists)
}

func TestCreateNewPage_CustomArchetype(t *testing.T) {
	dir := t.TempDir()
	arch := filepath.Join(dir, "page.md")
	require.NoError(t, os.WriteFile(arch, []byte("---\ntitle: {{ .Title }}\n---\nCustom.\n"), 0644))

	path, err := CreateNewPage(dir, arch, "Dealer Network", time.Now())
	require.NoError(t, err)

	src, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "---\ntitle: Dealer Network\n---\nCustom.\n", string(src))

	_, err = CreateNewPage(dir, "", "!!!", time.Now())
	assert.Error(t, err)
}
