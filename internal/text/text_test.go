package text

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Web Development", "web-development"},
		{"  SEO & Content Marketing  ", "seo-content-marketing"},
		{"Already-Slugged", "already-slugged"},
		{"Multiple   Spaces --- Hyphens", "multiple-spaces-hyphens"},
		{"Ends With Punctuation!", "ends-with-punctuation"},
		{"123 Numbers First", "123-numbers-first"},
		{"", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Slugify(tt.input), "Slugify(%q)", tt.input)
	}
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "hello", Truncate("hello", 10))
	assert.Equal(t, "hel", Truncate("hello", 3))
	assert.Equal(t, "", Truncate("hello", 0))

	// Never splits a multibyte rune
	assert.Equal(t, "caf", Truncate("café", 4))
	assert.Equal(t, "café", Truncate("café", 5))
}
