// internal/builder/models.go
package builder

import (
	"io/fs"
	"time"

	"github.com/sirupsen/logrus"

	"bydupdates/internal/config"
	"bydupdates/internal/pages"
)

// BuildOptions configures a static export.
type BuildOptions struct {
	OutputDir        string
	CleanDestination bool
	// Concurrency bounds the number of pages rendered at once.
	Concurrency int

	Site   config.SiteConfig
	Source pages.Source
	// Templates, Static and Pages default to the embedded theme.
	Templates fs.FS
	Static    fs.FS
	Pages     fs.FS

	Logger logrus.FieldLogger
	Now    func() time.Time
}

// Report counts what a build wrote.
type Report struct {
	Pages   int
	Skipped int
	Assets  int
	Elapsed time.Duration
}

// job renders a single page to path/index.html (or to file when set).
type job struct {
	path  string
	file  string
	build func() (pages.PageData, error)
}
