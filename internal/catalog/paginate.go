package catalog

import (
	"regexp"
	"strings"
)

// DefaultPageSize is the soft character budget per reader page.
const DefaultPageSize = 3500

// paragraphBoundaryPattern splits normalized text on blank lines,
// tolerating whitespace-only separator lines.
var paragraphBoundaryPattern = regexp.MustCompile(`\n\s*\n`)

// ChunkPages splits normalized reading text into bounded pages along
// paragraph boundaries.
//
// Paragraphs are accumulated greedily; a page is flushed when appending
// the next paragraph (joined by a blank line) would exceed the budget
// and the page already holds something. The budget is soft: a single
// paragraph longer than approxCharsPerPage becomes its own oversized
// page rather than being split mid-paragraph.
//
// # Invariants
//
//   - Page order preserves text order; no text is dropped or duplicated.
//   - Joining pages with "\n\n" reproduces the input up to whitespace
//     collapsing.
//   - Non-empty input always yields at least one page.
func ChunkPages(text string, approxCharsPerPage int) []string {
	if approxCharsPerPage <= 0 {
		approxCharsPerPage = DefaultPageSize
	}

	var pages []string
	var buffer string

	for _, paragraph := range paragraphBoundaryPattern.Split(text, -1) {
		paragraph = strings.TrimSpace(paragraph)
		if paragraph == "" {
			continue
		}

		switch {
		case buffer == "":
			buffer = paragraph
		case len(buffer)+len("\n\n")+len(paragraph) > approxCharsPerPage:
			pages = append(pages, buffer)
			buffer = paragraph
		default:
			buffer += "\n\n" + paragraph
		}
	}

	if buffer != "" {
		pages = append(pages, buffer)
	}
	return pages
}
