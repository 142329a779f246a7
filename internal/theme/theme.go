// internal/theme/theme.go
package theme

import (
	"embed"
	"io/fs"
)

//go:embed templates static pages
var files embed.FS

// Templates holds layout.html, header.html, footer.html, partials.html and
// one template per page kind.
func Templates() fs.FS { return sub("templates") }

// Static holds the css, js and image assets served under /static.
func Static() fs.FS { return sub("static") }

// Pages holds the markdown legal pages.
func Pages() fs.FS { return sub("pages") }

func sub(dir string) fs.FS {
	f, err := fs.Sub(files, dir)
	if err != nil {
		// The directories are embedded at compile time.
		panic(err)
	}
	return f
}
