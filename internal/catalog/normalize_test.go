package catalog_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/gwenbooks/gwenbooks/internal/catalog"
)

/*
TestLooksLikeHTML checks markup detection by URL extension and by body
content.
*/
func TestLooksLikeHTML(t *testing.T) {
	tests := []struct {
		name string
		url  string
		body string
		want bool
	}{
		{"html_extension", "https://www.gutenberg.org/files/84/84-h/84-h.htm", "plain start", true},
		{"html_extension_long", "https://example.org/book.html", "plain start", true},
		{"html_extension_upper", "https://example.org/BOOK.HTML", "plain start", true},
		{"txt_extension_plain_body", "https://www.gutenberg.org/files/84/84-0.txt", "It was a dark night.", false},
		{"txt_extension_html_body", "https://example.org/body.txt", "<!DOCTYPE html>\n<html lang=\"en\">", true},
		{"leading_html_tag", "https://example.org/raw", "<html><body>text</body></html>", true},
		{"leading_whitespace_then_html_tag", "https://example.org/raw", "\n  <HTML>", true},
		{"mid_text_html_mention_is_plain", "https://example.org/raw", "The first token of a page is <html, he wrote.", false},
		{"no_extension_plain", "https://example.org/raw", "Chapter One", false},
		{"query_does_not_confuse_ext", "https://example.org/raw?page=a.html", "Chapter One", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, catalog.LooksLikeHTML(tt.url, tt.body))
		})
	}
}

/*
TestNormalizeText exercises the markup stripping pipeline: script and
style removal, block boundaries to blank lines, entity decoding, and
line-ending normalization.
*/
func TestNormalizeText(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		isHTML bool
		want   string
	}{
		{
			name:   "plain_text_passthrough",
			body:   "First line.\nSecond line.",
			isHTML: false,
			want:   "First line.\nSecond line.",
		},
		{
			name:   "plain_text_crlf",
			body:   "First line.\r\nSecond line.\rThird line.",
			isHTML: false,
			want:   "First line.\nSecond line.\nThird line.",
		},
		{
			name:   "paragraphs_become_blank_lines",
			body:   "<p>One.</p><p>Two.</p>",
			isHTML: true,
			want:   "One.\n\nTwo.\n\n",
		},
		{
			name:   "headings_and_breaks",
			body:   "<h1>Title</h1>Line one<br/>Line two",
			isHTML: true,
			want:   "Title\n\nLine one\nLine two",
		},
		{
			name:   "script_and_style_dropped_with_content",
			body:   "<style>p{color:red}</style><p>Kept.</p><script type=\"text/javascript\">var x = 1;</script>",
			isHTML: true,
			want:   "Kept.\n\n",
		},
		{
			name:   "entities_decoded",
			body:   "<p>Tom &amp; Jerry &lt;together&gt;&nbsp;&quot;forever&quot;&#39;s</p>",
			isHTML: true,
			want:   "Tom & Jerry <together> \"forever\"'s\n\n",
		},
		{
			name:   "attributes_and_unknown_tags_stripped",
			body:   `<div class="chapter"><span id="c1">Text</span></div>`,
			isHTML: true,
			want:   "Text",
		},
		{
			name:   "html_markers_ignored_in_plain_mode",
			body:   "<p>literal tags stay</p>",
			isHTML: false,
			want:   "<p>literal tags stay</p>",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, catalog.NormalizeText(tt.body, tt.isHTML))
		})
	}
}
