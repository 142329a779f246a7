// internal/builder/render.go
package builder

import (
	"fmt"
	"html/template"
	"io"
	"io/fs"

	"bydupdates/internal/pages"
)

// baseTemplates are shared by every page kind. Each kind adds <kind>.html,
// which defines "content".
var baseTemplates = []string{"layout.html", "header.html", "footer.html", "partials.html"}

var funcs = template.FuncMap{
	"inc": func(n int) int { return n + 1 },
}

// Renderer holds one parsed template set per page kind.
type Renderer struct {
	sets map[pages.Kind]*template.Template
}

// LoadTemplates parses the layout, partials and page templates from fsys.
func LoadTemplates(fsys fs.FS) (*Renderer, error) {
	base, err := template.New("layout.html").Funcs(funcs).ParseFS(fsys, baseTemplates...)
	if err != nil {
		return nil, fmt.Errorf("failed to parse layout templates: %w", err)
	}

	r := &Renderer{sets: make(map[pages.Kind]*template.Template, len(pages.Kinds))}
	for _, kind := range pages.Kinds {
		set, err := base.Clone()
		if err != nil {
			return nil, err
		}
		name := string(kind) + ".html"
		if _, err := set.ParseFS(fsys, name); err != nil {
			return nil, fmt.Errorf("failed to parse template %s: %w", name, err)
		}
		r.sets[kind] = set
	}
	return r, nil
}

// Render executes the layout for data.Kind.
func (r *Renderer) Render(w io.Writer, data pages.PageData) error {
	set, ok := r.sets[data.Kind]
	if !ok {
		return fmt.Errorf("no template for page kind %q", data.Kind)
	}
	// "main" is the name of the template defined within the layout file.
	return set.ExecuteTemplate(w, "main", data)
}
