/*
Package catalog implements book discovery and reading across the four
external book catalogues GwenBooks aggregates: Project Gutenberg,
Open Library, Internet Archive, and Google Books.

It is the only part of the platform that performs non-CRUD data
transformation. The package owns:

  - Source adapters that normalize each provider's search/detail JSON
    into the canonical [Book] record.
  - The waterfall aggregator that merges, deduplicates, and caps
    search results, with a short-lived in-process query cache.
  - The composite identifier scheme ("source:providerId") used to route
    a book reference back to its originating adapter.
  - The content normalizer and paginator that turn a raw Gutenberg
    text/HTML body into a pageable [ReaderDocument].

Persistence (favorites, reading progress) lives elsewhere; every Book
here is constructed fresh per search or resolve call.
*/
package catalog

import (
	"errors"
	"strings"
)

// Source identifies one of the supported external book catalogues.
type Source string

const (
	SourceGutenberg       Source = "gutenberg"
	SourceOpenLibrary     Source = "openlibrary"
	SourceInternetArchive Source = "internetarchive"
	SourceGoogleBooks     Source = "googlebooks"
)

// Valid reports whether s names a catalogue with a registered adapter.
func (s Source) Valid() bool {
	switch s {
	case SourceGutenberg, SourceOpenLibrary, SourceInternetArchive, SourceGoogleBooks:
		return true
	}
	return false
}

// Book is the canonical record every raw provider result is mapped into.
//
// # Invariants
//
// ID always decodes unambiguously to exactly one (source, providerID)
// pair via [DecodeID]. IsFullyReadable is true iff the provider exposes
// a directly fetchable plain-text/HTML body — in practice only
// Gutenberg; every other source routes the reader to an external page.
type Book struct {
	ID              string  `json:"id"`
	Title           string  `json:"title"`
	Author          string  `json:"author"`
	CoverURL        *string `json:"cover_url"`
	ReadURL         *string `json:"read_url"`
	Source          Source  `json:"source"`
	IsFullyReadable bool    `json:"is_fully_readable"`
}

// ReaderDocument is the paginated in-app reading payload for a fully
// readable book.
//
// Joining Pages with a blank line reproduces the normalized source text
// losslessly except for whitespace collapsing. Pages is never empty:
// empty normalized text is a resolution failure, not a zero-page document.
type ReaderDocument struct {
	Book      Book     `json:"book"`
	Pages     []string `json:"pages"`
	PageCount int      `json:"page_count"`
}

// ExternalRedirect tells the caller to continue reading on the
// provider's own site. This is a normal outcome for every non-Gutenberg
// source, not an error.
type ExternalRedirect struct {
	Book Book   `json:"book"`
	URL  string `json:"url"`
}

// ReadOutcome is the result of resolving a composite identifier for
// reading. Exactly one of the two fields is set.
type ReadOutcome struct {
	Document *ReaderDocument
	Redirect *ExternalRedirect
}

// # Error Taxonomy

var (
	// ErrInvalidIdentifier means the composite identifier has no source prefix.
	ErrInvalidIdentifier = errors.New("catalog: malformed composite book identifier")

	// ErrUnknownSource means the composite identifier names a catalogue
	// with no registered adapter.
	ErrUnknownSource = errors.New("catalog: unknown book source")

	// ErrBookNotFound means the originating provider no longer knows the book.
	ErrBookNotFound = errors.New("catalog: book not found")

	// ErrEmptyDocument means normalization and pagination of a fetched
	// body produced zero pages.
	ErrEmptyDocument = errors.New("catalog: resolved book produced an empty document")
)

// # Composite Identifier Scheme

// idSeparator joins the source name and the provider-native identifier.
// Provider identifiers for all four catalogues never contain a literal
// colon, so splitting on the first occurrence is unambiguous.
const idSeparator = ":"

// EncodeID builds the composite identifier "<source>:<providerID>".
func EncodeID(source Source, providerID string) string {
	return string(source) + idSeparator + providerID
}

// DecodeID splits a composite identifier on the first colon.
//
// It returns [ErrInvalidIdentifier] when no separator is present and
// [ErrUnknownSource] when the prefix is not a registered [Source].
// Round-trip property: DecodeID(EncodeID(s, id)) == (s, id) for every
// valid source and every id.
func DecodeID(compositeID string) (Source, string, error) {
	prefix, providerID, found := strings.Cut(compositeID, idSeparator)
	if !found || prefix == "" || providerID == "" {
		return "", "", ErrInvalidIdentifier
	}

	source := Source(prefix)
	if !source.Valid() {
		return "", "", ErrUnknownSource
	}

	return source, providerID, nil
}
