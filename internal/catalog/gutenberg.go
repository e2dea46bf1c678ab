package catalog

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/gwenbooks/gwenbooks/pkg/pointer"
)

// defaultGutenbergBaseURL is the Gutendex API, the JSON frontend to the
// Project Gutenberg catalogue.
const defaultGutenbergBaseURL = "https://gutendex.com"

// readFormatPreference ranks Gutendex format keys for the in-app reader.
// HTML keeps paragraph structure the normalizer can use; plain text is
// the fallback.
var readFormatPreference = []string{
	"text/html; charset=utf-8",
	"text/html",
	"text/plain; charset=utf-8",
	"text/plain",
}

// Gutenberg adapts the Gutendex API. It is the only provider whose books
// are fully readable in-app: Gutendex exposes direct text/HTML bodies.
type Gutenberg struct {
	// BaseURL is exported so tests can point the adapter at a fake server.
	BaseURL string

	api apiClient
}

// NewGutenberg constructs the Gutendex adapter.
func NewGutenberg(httpClient HTTPDoer) *Gutenberg {
	return &Gutenberg{
		BaseURL: defaultGutenbergBaseURL,
		api:     newAPIClient(httpClient),
	}
}

// Source implements [Provider].
func (g *Gutenberg) Source() Source { return SourceGutenberg }

// gutendexBook is the raw Gutendex record shape, parsed narrowly so
// upstream schema drift stays contained here.
type gutendexBook struct {
	ID      int    `json:"id"`
	Title   string `json:"title"`
	Authors []struct {
		Name string `json:"name"`
	} `json:"authors"`
	Formats map[string]string `json:"formats"`
}

// Search implements [Provider].
func (g *Gutenberg) Search(ctx context.Context, query string, limit int) ([]Book, error) {
	endpoint := fmt.Sprintf("%s/books?search=%s", g.BaseURL, url.QueryEscape(query))

	var response struct {
		Results []gutendexBook `json:"results"`
	}
	if err := g.api.getJSON(ctx, endpoint, &response); err != nil {
		return nil, err
	}

	books := make([]Book, 0, limit)
	for _, raw := range response.Results {
		if len(books) >= limit {
			break
		}
		books = append(books, g.mapBook(raw))
	}
	return books, nil
}

// Detail implements [Provider].
func (g *Gutenberg) Detail(ctx context.Context, providerID string) (*Book, error) {
	// Gutendex IDs are numeric; strip any stray non-digit characters that
	// leak in from foreign identifier formats.
	cleanID := digitsOnly(providerID)
	if cleanID == "" {
		return nil, nil
	}

	var raw gutendexBook
	if err := g.api.getJSON(ctx, g.BaseURL+"/books/"+cleanID, &raw); err != nil {
		return nil, err
	}
	if raw.ID == 0 {
		return nil, nil
	}

	book := g.mapBook(raw)
	return &book, nil
}

// DownloadLink implements [Downloader]: the best direct file Gutendex
// exposes for the closest title match — PDF when one exists, UTF-8
// plain text otherwise.
func (g *Gutenberg) DownloadLink(ctx context.Context, title string) (*DownloadLink, error) {
	endpoint := fmt.Sprintf("%s/books?search=%s", g.BaseURL, url.QueryEscape(title))

	var response struct {
		Results []gutendexBook `json:"results"`
	}
	if err := g.api.getJSON(ctx, endpoint, &response); err != nil {
		return nil, err
	}
	if len(response.Results) == 0 {
		return nil, nil
	}

	formats := response.Results[0].Formats
	if pdf := formats["application/pdf"]; pdf != "" {
		return &DownloadLink{Source: SourceGutenberg, URL: pdf, Format: "PDF"}, nil
	}
	if txt := formats["text/plain; charset=utf-8"]; txt != "" {
		return &DownloadLink{Source: SourceGutenberg, URL: txt, Format: "TXT"}, nil
	}
	return nil, nil
}

// mapBook normalizes one Gutendex record into the canonical model.
func (g *Gutenberg) mapBook(raw gutendexBook) Book {
	author := "Unknown"
	if len(raw.Authors) > 0 && raw.Authors[0].Name != "" {
		author = raw.Authors[0].Name
	}

	var coverURL *string
	if cover, ok := raw.Formats["image/jpeg"]; ok {
		coverURL = pointer.To(cover)
	} else if cover, ok := raw.Formats["image/jpg"]; ok {
		coverURL = pointer.To(cover)
	}

	readURL := pickReadURL(raw.Formats)

	return Book{
		ID:              EncodeID(SourceGutenberg, strconv.Itoa(raw.ID)),
		Title:           raw.Title,
		Author:          author,
		CoverURL:        coverURL,
		ReadURL:         readURL,
		Source:          SourceGutenberg,
		IsFullyReadable: readURL != nil,
	}
}

// pickReadURL selects the best readable body from a Gutendex format map:
// first by the fixed [readFormatPreference] order, then by scanning every
// format for a URL that looks like a text or HTML file.
func pickReadURL(formats map[string]string) *string {
	for _, format := range readFormatPreference {
		if candidate, ok := formats[format]; ok && candidate != "" {
			return pointer.To(candidate)
		}
	}

	for _, candidate := range formats {
		if strings.HasSuffix(candidate, ".txt") ||
			strings.HasSuffix(candidate, ".htm") ||
			strings.HasSuffix(candidate, ".html") ||
			strings.Contains(candidate, "/files/") {
			return pointer.To(candidate)
		}
	}

	return nil
}

// digitsOnly strips every non-digit rune from s.
func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
