package reference

import (
	"testing"

	"github.com/ppiankov/truthcheck/internal/model"
	"github.com/stretchr/testify/assert"
)

func TestNewsLink(t *testing.T) {
	ref := NewsLink("https://news.google.com/search", "The Earth is flat")
	assert.Equal(t, "Google News: The Earth is flat", ref.Label)
	assert.Equal(t, "https://news.google.com/search?q=The+Earth+is+flat", ref.URL)
}

func TestNewsLink_SearchURLVariants(t *testing.T) {
	tests := []struct {
		name      string
		searchURL string
		want      string
	}{
		{name: "plain", searchURL: "https://news.google.com/search", want: "https://news.google.com/search?q=The+Earth+is+flat"},
		{name: "existing query", searchURL: "https://news.google.com/search?hl=en-US", want: "https://news.google.com/search?hl=en-US&q=The+Earth+is+flat"},
		{name: "existing q replaced", searchURL: "https://news.example/search?q=old", want: "https://news.example/search?q=The+Earth+is+flat"},
		{name: "trailing question mark", searchURL: "https://news.example/search?", want: "https://news.example/search?q=The+Earth+is+flat"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NewsLink(tt.searchURL, "The Earth is flat").URL)
		})
	}
}

func TestMarkup(t *testing.T) {
	refs := []model.Reference{
		{Label: "Wikipedia: Flat Earth", URL: "https://en.wikipedia.org/wiki/Flat%20Earth"},
		NewsLink("https://news.google.com/search", "The Earth is flat"),
	}

	out := Markup(refs)
	assert.Contains(t, out, "<strong>Related Sources:</strong>")
	assert.Contains(t, out, `href="https://en.wikipedia.org/wiki/Flat%20Earth"`)
	assert.Contains(t, out, ">Wikipedia: Flat Earth</a>")
	assert.Contains(t, out, `href="https://news.google.com/search?q=The+Earth+is+flat"`)
	assert.Contains(t, out, ">Google News: The Earth is flat</a>")
	assert.Contains(t, out, `target="_blank"`)
}

func TestMarkup_NewsOnly(t *testing.T) {
	out := Markup([]model.Reference{NewsLink("https://news.example", "x")})
	assert.NotContains(t, out, "Wikipedia")
	assert.Contains(t, out, "Google News: x")
}

func TestMarkup_EscapesLabels(t *testing.T) {
	out := Markup([]model.Reference{NewsLink("https://news.example", `<script>alert(1)</script>`)})
	assert.NotContains(t, out, "<script>")
	assert.Contains(t, out, "Google News:")
}

func TestSanitize(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		absent  string
		present string
	}{
		{name: "script removed", in: `<br><script>x()</script>`, absent: "<script>", present: "<br"},
		{name: "javascript url dropped", in: `<a href="javascript:alert(1)">x</a>`, absent: "javascript:", present: "x"},
		{name: "event handler dropped", in: `<strong onclick="x()">b</strong>`, absent: "onclick", present: "<strong>b</strong>"},
		{name: "https link kept", in: `<a href="https://example.org">e</a>`, absent: "<script", present: `href="https://example.org"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := Sanitize(tt.in)
			assert.NotContains(t, out, tt.absent)
			assert.Contains(t, out, tt.present)
		})
	}
}
