package content

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPlainText(t *testing.T) {
	assert.Equal(t, "Hello World Next & last", PlainText("<p>Hello <b>World</b></p><p>Next &amp; last</p>"))
	assert.Empty(t, PlainText(""))
	assert.Empty(t, PlainText("<p> </p>"))
}

func TestExcerpt(t *testing.T) {
	assert.Equal(t, "The BYD", Excerpt("<p>The BYD Seal is here</p>", 8))
	assert.Equal(t, "Short", Excerpt("<p>Short</p>", 160))
	assert.Equal(t, "Unlimited text", Excerpt("Unlimited text", 0))
}

func TestWordCountAndReadTime(t *testing.T) {
	body := "<p>" + strings.Repeat("word ", 401) + "</p>"

	assert.Equal(t, 401, WordCount(body))
	assert.Equal(t, 3, ReadTime(WordCount(body)))
	assert.Equal(t, 1, ReadTime(0))
	assert.Equal(t, 1, ReadTime(200))
}
