package catalog_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gwenbooks/gwenbooks/internal/catalog"
	"github.com/gwenbooks/gwenbooks/pkg/pointer"
)

// stubProvider is a scriptable catalog.Provider for aggregator tests.
type stubProvider struct {
	source      catalog.Source
	books       []catalog.Book
	detail      *catalog.Book
	err         error
	searchCalls int
}

func (p *stubProvider) Source() catalog.Source { return p.source }

func (p *stubProvider) Search(_ context.Context, _ string, _ int) ([]catalog.Book, error) {
	p.searchCalls++
	if p.err != nil {
		return nil, p.err
	}
	return p.books, nil
}

func (p *stubProvider) Detail(_ context.Context, _ string) (*catalog.Book, error) {
	if p.err != nil {
		return nil, p.err
	}
	return p.detail, nil
}

func makeBooks(source catalog.Source, prefix string, count int) []catalog.Book {
	books := make([]catalog.Book, 0, count)
	for i := 0; i < count; i++ {
		books = append(books, catalog.Book{
			ID:     catalog.EncodeID(source, fmt.Sprintf("%s-%d", prefix, i)),
			Title:  fmt.Sprintf("%s Volume %d", prefix, i),
			Author: "Test Author",
			Source: source,
		})
	}
	return books
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

/*
TestService_Search_WaterfallSkip verifies that later stages are skipped
once earlier ones have produced enough results, and run when they have
not.
*/
func TestService_Search_WaterfallSkip(t *testing.T) {
	t.Run("full_first_stage_skips_rest", func(t *testing.T) {
		first := &stubProvider{source: catalog.SourceGutenberg, books: makeBooks(catalog.SourceGutenberg, "Alpha", 12)}
		second := &stubProvider{source: catalog.SourceGoogleBooks, books: makeBooks(catalog.SourceGoogleBooks, "Beta", 12)}

		service := catalog.NewService([]catalog.Provider{first, second}, http.DefaultClient, discardLogger())
		results := service.Search(context.Background(), "frankenstein")

		assert.Len(t, results, 12)
		assert.Equal(t, 1, first.searchCalls)
		assert.Equal(t, 0, second.searchCalls)
	})

	t.Run("sparse_first_stage_runs_rest", func(t *testing.T) {
		first := &stubProvider{source: catalog.SourceGutenberg, books: makeBooks(catalog.SourceGutenberg, "Alpha", 3)}
		second := &stubProvider{source: catalog.SourceGoogleBooks, books: makeBooks(catalog.SourceGoogleBooks, "Beta", 4)}

		service := catalog.NewService([]catalog.Provider{first, second}, http.DefaultClient, discardLogger())
		results := service.Search(context.Background(), "frankenstein")

		assert.Len(t, results, 7)
		assert.Equal(t, 1, first.searchCalls)
		assert.Equal(t, 1, second.searchCalls)

		// Higher-priority results come first in the merged list.
		assert.Equal(t, catalog.SourceGutenberg, results[0].Source)
		assert.Equal(t, catalog.SourceGoogleBooks, results[6].Source)
	})
}

/*
TestService_Search_Dedupe verifies title-based deduplication across
providers, ignoring case, accents, and punctuation.
*/
func TestService_Search_Dedupe(t *testing.T) {
	first := &stubProvider{source: catalog.SourceGutenberg, books: []catalog.Book{
		{ID: "gutenberg:84", Title: "Frankenstein; Or, The Modern Prometheus", Source: catalog.SourceGutenberg},
	}}
	second := &stubProvider{source: catalog.SourceOpenLibrary, books: []catalog.Book{
		{ID: "openlibrary:OL450063W", Title: "FRANKENSTEIN or the modern Prométheus", Source: catalog.SourceOpenLibrary},
		{ID: "openlibrary:OL45804W", Title: "Dracula", Source: catalog.SourceOpenLibrary},
	}}

	service := catalog.NewService([]catalog.Provider{first, second}, http.DefaultClient, discardLogger())
	results := service.Search(context.Background(), "frankenstein")

	require.Len(t, results, 2)
	// First occurrence wins, so the duplicate keeps its higher-priority source.
	assert.Equal(t, "gutenberg:84", results[0].ID)
	assert.Equal(t, "Dracula", results[1].Title)
}

/*
TestService_Search_Cap verifies the overall result cap across stages.
*/
func TestService_Search_Cap(t *testing.T) {
	first := &stubProvider{source: catalog.SourceGutenberg, books: makeBooks(catalog.SourceGutenberg, "Alpha", 10)}
	second := &stubProvider{source: catalog.SourceGoogleBooks, books: makeBooks(catalog.SourceGoogleBooks, "Beta", 30)}

	service := catalog.NewService([]catalog.Provider{first, second}, http.DefaultClient, discardLogger())
	results := service.Search(context.Background(), "history")

	assert.Len(t, results, 25)
}

/*
TestService_Search_ProviderFailure verifies graceful degradation: a
failing stage contributes nothing and never surfaces an error.
*/
func TestService_Search_ProviderFailure(t *testing.T) {
	first := &stubProvider{source: catalog.SourceGutenberg, err: errors.New("upstream 503")}
	second := &stubProvider{source: catalog.SourceGoogleBooks, books: makeBooks(catalog.SourceGoogleBooks, "Beta", 2)}

	service := catalog.NewService([]catalog.Provider{first, second}, http.DefaultClient, discardLogger())
	results := service.Search(context.Background(), "frankenstein")

	assert.Len(t, results, 2)
	assert.Equal(t, 1, first.searchCalls)
	assert.Equal(t, 1, second.searchCalls)
}

/*
TestService_Search_Cache verifies cache hits for equivalent queries,
expiry after the TTL, and that blank queries never reach a provider.
*/
func TestService_Search_Cache(t *testing.T) {
	current := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	clock := func() time.Time { return current }

	provider := &stubProvider{source: catalog.SourceGutenberg, books: makeBooks(catalog.SourceGutenberg, "Alpha", 2)}
	service := catalog.NewService(
		[]catalog.Provider{provider},
		http.DefaultClient,
		discardLogger(),
		catalog.WithClock(clock),
		catalog.WithCacheTTL(time.Minute),
	)

	first := service.Search(context.Background(), "Moby Dick")
	assert.Equal(t, 1, provider.searchCalls)

	// Same query modulo case and surrounding whitespace is a cache hit.
	second := service.Search(context.Background(), "  moby dick ")
	assert.Equal(t, 1, provider.searchCalls)
	assert.Equal(t, first, second)

	current = current.Add(2 * time.Minute)
	service.Search(context.Background(), "moby dick")
	assert.Equal(t, 2, provider.searchCalls)

	assert.Nil(t, service.Search(context.Background(), "   "))
	assert.Equal(t, 2, provider.searchCalls)
}

/*
TestService_Detail covers identifier routing: valid round-trips, unknown
sources, malformed identifiers, and provider misses.
*/
func TestService_Detail(t *testing.T) {
	book := catalog.Book{ID: "gutenberg:84", Title: "Frankenstein", Source: catalog.SourceGutenberg}
	gutenberg := &stubProvider{source: catalog.SourceGutenberg, detail: &book}
	service := catalog.NewService([]catalog.Provider{gutenberg}, http.DefaultClient, discardLogger())

	t.Run("found", func(t *testing.T) {
		got, err := service.Detail(context.Background(), "gutenberg:84")
		require.NoError(t, err)
		assert.Equal(t, &book, got)
	})

	t.Run("malformed_id", func(t *testing.T) {
		_, err := service.Detail(context.Background(), "84")
		assert.ErrorIs(t, err, catalog.ErrInvalidIdentifier)
	})

	t.Run("unregistered_source", func(t *testing.T) {
		_, err := service.Detail(context.Background(), "openlibrary:OL45804W")
		assert.ErrorIs(t, err, catalog.ErrUnknownSource)
	})

	t.Run("provider_miss", func(t *testing.T) {
		missing := &stubProvider{source: catalog.SourceGutenberg}
		svc := catalog.NewService([]catalog.Provider{missing}, http.DefaultClient, discardLogger())
		_, err := svc.Detail(context.Background(), "gutenberg:999999")
		assert.ErrorIs(t, err, catalog.ErrBookNotFound)
	})

	t.Run("provider_failure_reads_as_not_found", func(t *testing.T) {
		broken := &stubProvider{source: catalog.SourceGutenberg, err: errors.New("timeout")}
		svc := catalog.NewService([]catalog.Provider{broken}, http.DefaultClient, discardLogger())
		_, err := svc.Detail(context.Background(), "gutenberg:84")
		assert.ErrorIs(t, err, catalog.ErrBookNotFound)
	})
}

/*
TestService_Resolve_External verifies that non-readable sources resolve
to an external redirect pointing at the provider's own page.
*/
func TestService_Resolve_External(t *testing.T) {
	book := catalog.Book{
		ID:      "openlibrary:OL45804W",
		Title:   "Dracula",
		Source:  catalog.SourceOpenLibrary,
		ReadURL: pointer.To("https://openlibrary.org/works/OL45804W"),
	}
	provider := &stubProvider{source: catalog.SourceOpenLibrary, detail: &book}
	service := catalog.NewService([]catalog.Provider{provider}, http.DefaultClient, discardLogger())

	outcome, err := service.Resolve(context.Background(), "openlibrary:OL45804W")
	require.NoError(t, err)
	require.NotNil(t, outcome.Redirect)
	assert.Nil(t, outcome.Document)
	assert.Equal(t, "https://openlibrary.org/works/OL45804W", outcome.Redirect.URL)
	assert.Equal(t, book, outcome.Redirect.Book)
}

/*
TestService_Resolve_Reader fetches a fake book body over HTTP and checks
that the outcome is a normalized, paginated document.
*/
func TestService_Resolve_Reader(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		_, _ = fmt.Fprint(writer, "<html><body>"+
			"<h1>Frankenstein</h1>"+
			"<p>Letter one, to Mrs. Saville.</p>"+
			"<p>You will rejoice to hear that no disaster has accompanied the commencement of an enterprise.</p>"+
			"</body></html>")
	}))
	defer server.Close()

	book := catalog.Book{
		ID:              "gutenberg:84",
		Title:           "Frankenstein",
		Source:          catalog.SourceGutenberg,
		ReadURL:         pointer.To(server.URL + "/files/84/84-h.htm"),
		IsFullyReadable: true,
	}
	provider := &stubProvider{source: catalog.SourceGutenberg, detail: &book}
	service := catalog.NewService(
		[]catalog.Provider{provider},
		server.Client(),
		discardLogger(),
		catalog.WithPageSize(60),
	)

	outcome, err := service.Resolve(context.Background(), "gutenberg:84")
	require.NoError(t, err)
	require.NotNil(t, outcome.Document)
	assert.Nil(t, outcome.Redirect)

	document := outcome.Document
	assert.Equal(t, book, document.Book)
	assert.Equal(t, len(document.Pages), document.PageCount)
	require.GreaterOrEqual(t, document.PageCount, 2)

	assert.Contains(t, document.Pages[0], "Frankenstein")
	for _, page := range document.Pages {
		assert.NotContains(t, page, "<")
	}
}

/*
TestService_Resolve_EmptyDocument verifies that a body which normalizes
to nothing readable is reported as an empty document.
*/
func TestService_Resolve_EmptyDocument(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		_, _ = fmt.Fprint(writer, "<html><head><script>var a = 1;</script><style>p{}</style></head></html>")
	}))
	defer server.Close()

	book := catalog.Book{
		ID:      "gutenberg:84",
		Source:  catalog.SourceGutenberg,
		ReadURL: pointer.To(server.URL + "/empty.html"),
	}
	provider := &stubProvider{source: catalog.SourceGutenberg, detail: &book}
	service := catalog.NewService([]catalog.Provider{provider}, server.Client(), discardLogger())

	_, err := service.Resolve(context.Background(), "gutenberg:84")
	assert.ErrorIs(t, err, catalog.ErrEmptyDocument)
}

/*
TestService_Resolve_MissingReadURL verifies that a book without any read
location cannot be resolved.
*/
func TestService_Resolve_MissingReadURL(t *testing.T) {
	book := catalog.Book{ID: "gutenberg:84", Source: catalog.SourceGutenberg}
	provider := &stubProvider{source: catalog.SourceGutenberg, detail: &book}
	service := catalog.NewService([]catalog.Provider{provider}, http.DefaultClient, discardLogger())

	_, err := service.Resolve(context.Background(), "gutenberg:84")
	assert.ErrorIs(t, err, catalog.ErrBookNotFound)
}
