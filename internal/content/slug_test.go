package content

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"Battery & Range":        "battery-range",
		"Über 500 km!":           "uber-500-km",
		"  --Leading/Trailing-- ": "leading-trailing",
		"BYD Seal vs. Tesla 3":   "byd-seal-vs-tesla-3",
		"Crème brûlée":           "creme-brulee",
		"!!!":                    "",
		"":                       "",
		"電動車":                    "",
	}
	for in, want := range cases {
		assert.Equal(t, want, Slugify(in), "Slugify(%q)", in)
	}
}

func TestIDRegistry_Claim(t *testing.T) {
	r := newIDRegistry()
	r.reserve("specs")
	r.reserve("")

	assert.Equal(t, "specs-2", r.claim("Specs", 0))
	assert.Equal(t, "specs-3", r.claim("SPECS", 1))
	assert.Equal(t, "heading-2", r.claim("***", 2))
	assert.Equal(t, "range", r.claim("Range", 3))
}

func TestIDRegistry_FallbackCollides(t *testing.T) {
	r := newIDRegistry()
	r.reserve("heading-0")

	assert.Equal(t, "heading-0-2", r.claim("", 0))
}
