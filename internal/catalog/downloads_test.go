package catalog_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gwenbooks/gwenbooks/internal/catalog"
)

// stubDownloader extends stubProvider with a scripted download lookup.
type stubDownloader struct {
	stubProvider
	link        *catalog.DownloadLink
	downloadErr error
}

func (p *stubDownloader) DownloadLink(_ context.Context, _ string) (*catalog.DownloadLink, error) {
	if p.downloadErr != nil {
		return nil, p.downloadErr
	}
	return p.link, nil
}

/*
TestGutenberg_DownloadLink checks the format choice for the closest
match: PDF when Gutendex has one, UTF-8 plain text otherwise, and the
miss paths.
*/
func TestGutenberg_DownloadLink(t *testing.T) {
	tests := []struct {
		name     string
		payload  string
		wantLink *catalog.DownloadLink
	}{
		{
			name: "pdf_preferred",
			payload: `{"results": [{"id": 84, "title": "Frankenstein", "authors": [], "formats": {
				"application/pdf": "https://www.gutenberg.org/files/84/84.pdf",
				"text/plain; charset=utf-8": "https://www.gutenberg.org/files/84/84-0.txt"}}]}`,
			wantLink: &catalog.DownloadLink{
				Source: catalog.SourceGutenberg,
				URL:    "https://www.gutenberg.org/files/84/84.pdf",
				Format: "PDF",
			},
		},
		{
			name: "plain_text_fallback",
			payload: `{"results": [{"id": 84, "title": "Frankenstein", "authors": [], "formats": {
				"text/plain; charset=utf-8": "https://www.gutenberg.org/files/84/84-0.txt"}}]}`,
			wantLink: &catalog.DownloadLink{
				Source: catalog.SourceGutenberg,
				URL:    "https://www.gutenberg.org/files/84/84-0.txt",
				Format: "TXT",
			},
		},
		{
			name:     "no_suitable_format_is_a_miss",
			payload:  `{"results": [{"id": 84, "title": "Frankenstein", "authors": [], "formats": {"application/epub+zip": "https://x/84.epub"}}]}`,
			wantLink: nil,
		},
		{
			name:     "no_results_is_a_miss",
			payload:  `{"results": []}`,
			wantLink: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gutenberg := newGutenbergForTest(t, func(writer http.ResponseWriter, request *http.Request) {
				assert.Equal(t, "/books", request.URL.Path)
				assert.Equal(t, "frankenstein", request.URL.Query().Get("search"))
				fmt.Fprint(writer, tt.payload)
			})

			link, err := gutenberg.DownloadLink(context.Background(), "frankenstein")
			require.NoError(t, err)
			assert.Equal(t, tt.wantLink, link)
		})
	}
}

/*
TestOpenLibrary_DownloadLink checks that the first matching work's page
is offered as the read-on-site location.
*/
func TestOpenLibrary_DownloadLink(t *testing.T) {
	t.Run("first_work_page", func(t *testing.T) {
		openLibrary := newOpenLibraryForTest(t, func(writer http.ResponseWriter, request *http.Request) {
			assert.Equal(t, "/search.json", request.URL.Path)
			assert.Equal(t, "dracula", request.URL.Query().Get("title"))
			fmt.Fprint(writer, `{"docs": [{"key": "/works/OL45804W"}, {"key": "/works/OL999W"}]}`)
		})

		link, err := openLibrary.DownloadLink(context.Background(), "dracula")
		require.NoError(t, err)
		require.NotNil(t, link)
		assert.Equal(t, catalog.SourceOpenLibrary, link.Source)
		assert.Equal(t, openLibrary.BaseURL+"/works/OL45804W", link.URL)
		assert.Equal(t, "READ", link.Format)
	})

	t.Run("no_docs_is_a_miss", func(t *testing.T) {
		openLibrary := newOpenLibraryForTest(t, func(writer http.ResponseWriter, request *http.Request) {
			fmt.Fprint(writer, `{"docs": []}`)
		})

		link, err := openLibrary.DownloadLink(context.Background(), "dracula")
		require.NoError(t, err)
		assert.Nil(t, link)
	})
}

/*
TestInternetArchive_DownloadLink checks the bulk download location for
the first matching scan.
*/
func TestInternetArchive_DownloadLink(t *testing.T) {
	t.Run("first_scan_download_listing", func(t *testing.T) {
		archive := newArchiveForTest(t, func(writer http.ResponseWriter, request *http.Request) {
			assert.Equal(t, "/advancedsearch.php", request.URL.Path)
			assert.Equal(t, "dracula", request.URL.Query().Get("q"))
			fmt.Fprint(writer, `{"response": {"docs": [{"identifier": "draculabr00stok"}]}}`)
		})

		link, err := archive.DownloadLink(context.Background(), "dracula")
		require.NoError(t, err)
		require.NotNil(t, link)
		assert.Equal(t, catalog.SourceInternetArchive, link.Source)
		assert.Equal(t, archive.BaseURL+"/download/draculabr00stok", link.URL)
		assert.Equal(t, "ZIP", link.Format)
	})

	t.Run("no_docs_is_a_miss", func(t *testing.T) {
		archive := newArchiveForTest(t, func(writer http.ResponseWriter, request *http.Request) {
			fmt.Fprint(writer, `{"response": {"docs": []}}`)
		})

		link, err := archive.DownloadLink(context.Background(), "dracula")
		require.NoError(t, err)
		assert.Nil(t, link)
	})
}

/*
TestService_DownloadLinks verifies per-provider collection in waterfall
order, absorbed lookup failures, and that providers without a download
capability are skipped.
*/
func TestService_DownloadLinks(t *testing.T) {
	gutenbergLink := &catalog.DownloadLink{Source: catalog.SourceGutenberg, URL: "https://x/84.pdf", Format: "PDF"}
	archiveLink := &catalog.DownloadLink{Source: catalog.SourceInternetArchive, URL: "https://x/download/id", Format: "ZIP"}

	t.Run("collects_in_priority_order", func(t *testing.T) {
		first := &stubDownloader{stubProvider: stubProvider{source: catalog.SourceGutenberg}, link: gutenbergLink}
		second := &stubProvider{source: catalog.SourceGoogleBooks}
		third := &stubDownloader{stubProvider: stubProvider{source: catalog.SourceInternetArchive}, link: archiveLink}

		service := catalog.NewService([]catalog.Provider{first, second, third}, http.DefaultClient, discardLogger())
		links := service.DownloadLinks(context.Background(), "frankenstein")

		require.Len(t, links, 2)
		assert.Equal(t, *gutenbergLink, links[0])
		assert.Equal(t, *archiveLink, links[1])
	})

	t.Run("lookup_failure_is_absorbed", func(t *testing.T) {
		broken := &stubDownloader{stubProvider: stubProvider{source: catalog.SourceGutenberg}, downloadErr: errors.New("upstream 503")}
		healthy := &stubDownloader{stubProvider: stubProvider{source: catalog.SourceInternetArchive}, link: archiveLink}

		service := catalog.NewService([]catalog.Provider{broken, healthy}, http.DefaultClient, discardLogger())
		links := service.DownloadLinks(context.Background(), "frankenstein")

		require.Len(t, links, 1)
		assert.Equal(t, *archiveLink, links[0])
	})

	t.Run("provider_miss_contributes_nothing", func(t *testing.T) {
		miss := &stubDownloader{stubProvider: stubProvider{source: catalog.SourceGutenberg}}
		service := catalog.NewService([]catalog.Provider{miss}, http.DefaultClient, discardLogger())

		assert.Empty(t, service.DownloadLinks(context.Background(), "frankenstein"))
	})

	t.Run("blank_title_skips_providers", func(t *testing.T) {
		provider := &stubDownloader{stubProvider: stubProvider{source: catalog.SourceGutenberg}, link: gutenbergLink}
		service := catalog.NewService([]catalog.Provider{provider}, http.DefaultClient, discardLogger())

		assert.Nil(t, service.DownloadLinks(context.Background(), "   "))
	})
}
