package content

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAssetRewriter_RewriteURL(t *testing.T) {
	a := NewAssetRewriter("", "")

	assert.Equal(t,
		"https://res.cloudinary.com/dcb6bxort/image/upload/2024/05/seal.webp",
		a.RewriteURL("https://cms.bydcarupdates.com/wp-content/uploads/2024/05/seal.webp"))
	assert.Equal(t,
		"https://res.cloudinary.com/dcb6bxort/image/upload/2023/01/dolphin.png",
		a.RewriteURL("http://localhost:8080/blog/wp-content/uploads/2023/01/dolphin.png"))
	assert.Equal(t, "https://example.com/images/a.png", a.RewriteURL("https://example.com/images/a.png"))
	assert.Equal(t, "/wp-content/uploads/2024/rel.png", a.RewriteURL("/wp-content/uploads/2024/rel.png"))
}

func TestAssetRewriter_CustomBase(t *testing.T) {
	a := NewAssetRewriter("media/files", "https://cdn.example.com/img")

	assert.Equal(t, "https://cdn.example.com/img/x/y.jpg", a.RewriteURL("https://old.example.com/media/files/x/y.jpg"))
	assert.Equal(t, "https://old.example.com/wp-content/uploads/x.jpg", a.RewriteURL("https://old.example.com/wp-content/uploads/x.jpg"))
}

func TestAssetRewriter_RewriteSrcset(t *testing.T) {
	a := NewAssetRewriter("", "")
	in := "http://bydcarupdates.local/wp-content/uploads/2024/11/full.jpg 1200w, " +
		"https://example.com/keep.jpg 600w, " +
		"http://bydcarupdates.local/wp-content/uploads/2024/11/medium.jpg 300w"

	out := a.RewriteSrcset(in)

	assert.Equal(t,
		"https://res.cloudinary.com/dcb6bxort/image/upload/2024/11/full.jpg 1200w, "+
			"https://example.com/keep.jpg 600w, "+
			"https://res.cloudinary.com/dcb6bxort/image/upload/2024/11/medium.jpg 300w",
		out)
}

func TestAssetRewriter_RewriteAttributes(t *testing.T) {
	a := NewAssetRewriter("", "")
	in := `<p>See https://cms.example.com/wp-content/uploads/a.jpg</p>` +
		`<img src="https://cms.example.com/wp-content/uploads/a.jpg" srcset='https://cms.example.com/wp-content/uploads/a-2x.jpg 2x'>`

	out := a.Rewrite(in)

	assert.Contains(t, out, `<p>See https://cms.example.com/wp-content/uploads/a.jpg</p>`)
	assert.Contains(t, out, `src="https://res.cloudinary.com/dcb6bxort/image/upload/a.jpg"`)
	assert.Contains(t, out, `srcset='https://res.cloudinary.com/dcb6bxort/image/upload/a-2x.jpg 2x'`)
}
