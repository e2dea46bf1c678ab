package catalog

import (
	"net/url"
	"path"
	"regexp"
	"strings"
)

// The normalizer is a best-effort, regex-based sanitizer, not an HTML
// parser. It is deliberately lossy — all structure and formatting is
// dropped — because the reader only needs linear text. Gutenberg HTML is
// static and simple enough that this holds up in practice.
var (
	scriptBlockPattern  = regexp.MustCompile(`(?is)<script[^>]*>.*?</script>`)
	styleBlockPattern   = regexp.MustCompile(`(?is)<style[^>]*>.*?</style>`)
	paragraphEndPattern = regexp.MustCompile(`(?i)</p\s*>`)
	headingEndPattern   = regexp.MustCompile(`(?i)</h[1-6]\s*>`)
	lineBreakPattern    = regexp.MustCompile(`(?i)<br\s*/?\s*>`)
	anyTagPattern       = regexp.MustCompile(`<[^>]+>`)
	htmlOpeningPattern  = regexp.MustCompile(`(?i)^\s*(?:<!doctype[^>]*>\s*)?<\s*html`)
)

// entityReplacer decodes the minimal entity set that actually occurs in
// Gutenberg bodies. Full entity tables are not worth carrying.
var entityReplacer = strings.NewReplacer(
	"&nbsp;", " ",
	"&amp;", "&",
	"&lt;", "<",
	"&gt;", ">",
	"&quot;", `"`,
	"&#39;", "'",
)

// LooksLikeHTML reports whether a fetched body should be treated as
// markup, judged by the source URL's extension or a leading <html token
// (optionally behind a doctype). The sniff is anchored to the body
// prefix: a plain-text book that merely mentions "<html" mid-text is
// not markup.
func LooksLikeHTML(sourceURL, body string) bool {
	if parsed, err := url.Parse(sourceURL); err == nil {
		switch strings.ToLower(path.Ext(parsed.Path)) {
		case ".htm", ".html":
			return true
		}
	}
	return htmlOpeningPattern.MatchString(body)
}

// NormalizeText converts a raw fetched body into linear reading text.
//
// When markup is detected the pipeline is: drop script/style blocks with
// their content, turn paragraph and heading closings into blank lines
// and <br> into newlines, strip every remaining tag, decode the minimal
// entity set. Line endings are normalized to \n in all cases.
func NormalizeText(body string, isHTML bool) string {
	if isHTML {
		body = scriptBlockPattern.ReplaceAllString(body, "")
		body = styleBlockPattern.ReplaceAllString(body, "")
		body = paragraphEndPattern.ReplaceAllString(body, "\n\n")
		body = headingEndPattern.ReplaceAllString(body, "\n\n")
		body = lineBreakPattern.ReplaceAllString(body, "\n")
		body = anyTagPattern.ReplaceAllString(body, "")
		body = entityReplacer.Replace(body)
	}

	body = strings.ReplaceAll(body, "\r\n", "\n")
	body = strings.ReplaceAll(body, "\r", "\n")
	return body
}
