package catalog_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gwenbooks/gwenbooks/internal/catalog"
)

func newGoogleBooksForTest(t *testing.T, apiKey string, handler http.HandlerFunc) *catalog.GoogleBooks {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	googleBooks := catalog.NewGoogleBooks(server.Client(), apiKey)
	googleBooks.BaseURL = server.URL
	return googleBooks
}

/*
TestGoogleBooks_Search verifies volume mapping and the viewability
filter: only PARTIAL and ALL_PAGES volumes survive.
*/
func TestGoogleBooks_Search(t *testing.T) {
	googleBooks := newGoogleBooksForTest(t, "", func(writer http.ResponseWriter, request *http.Request) {
		assert.Equal(t, "/volumes", request.URL.Path)
		assert.Equal(t, "frankenstein", request.URL.Query().Get("q"))
		assert.Empty(t, request.URL.Query().Get("key"))
		fmt.Fprint(writer, `{"items": [
			{"id": "zyTCAlFPjgYC", "volumeInfo": {"title": "Frankenstein", "authors": ["Mary Shelley"],
				"imageLinks": {"thumbnail": "https://books.google.com/thumb?id=zyTCAlFPjgYC"},
				"previewLink": "https://books.google.com/books?id=zyTCAlFPjgYC"},
			 "accessInfo": {"viewability": "PARTIAL"}},
			{"id": "noview1", "volumeInfo": {"title": "Locked Away"}, "accessInfo": {"viewability": "NO_PAGES"}},
			{"id": "full1", "volumeInfo": {"title": "Public Domain Edition",
				"canonicalVolumeLink": "https://books.google.com/books/about/x.html?id=full1"},
			 "accessInfo": {"viewability": "ALL_PAGES"}}
		]}`)
	})

	books, err := googleBooks.Search(context.Background(), "frankenstein", 12)
	require.NoError(t, err)
	require.Len(t, books, 2)

	first := books[0]
	assert.Equal(t, "googlebooks:zyTCAlFPjgYC", first.ID)
	assert.Equal(t, "Mary Shelley", first.Author)
	require.NotNil(t, first.CoverURL)
	assert.Equal(t, "https://books.google.com/thumb?id=zyTCAlFPjgYC", *first.CoverURL)
	require.NotNil(t, first.ReadURL)
	assert.Equal(t, "https://books.google.com/books?id=zyTCAlFPjgYC", *first.ReadURL)
	assert.False(t, first.IsFullyReadable)

	// No preview link falls back to the canonical volume page.
	second := books[1]
	assert.Equal(t, "googlebooks:full1", second.ID)
	require.NotNil(t, second.ReadURL)
	assert.Equal(t, "https://books.google.com/books/about/x.html?id=full1", *second.ReadURL)
}

/*
TestGoogleBooks_APIKey checks that a configured key is attached to
requests.
*/
func TestGoogleBooks_APIKey(t *testing.T) {
	googleBooks := newGoogleBooksForTest(t, "secret-key", func(writer http.ResponseWriter, request *http.Request) {
		assert.Equal(t, "secret-key", request.URL.Query().Get("key"))
		fmt.Fprint(writer, `{"items": []}`)
	})

	_, err := googleBooks.Search(context.Background(), "anything", 5)
	require.NoError(t, err)
}

/*
TestGoogleBooks_Detail covers the single-volume endpoint and the
empty-payload miss.
*/
func TestGoogleBooks_Detail(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		googleBooks := newGoogleBooksForTest(t, "", func(writer http.ResponseWriter, request *http.Request) {
			assert.Equal(t, "/volumes/zyTCAlFPjgYC", request.URL.Path)
			fmt.Fprint(writer, `{"id": "zyTCAlFPjgYC", "volumeInfo": {"title": "Frankenstein"},
				"accessInfo": {"viewability": "PARTIAL"}}`)
		})

		book, err := googleBooks.Detail(context.Background(), "zyTCAlFPjgYC")
		require.NoError(t, err)
		require.NotNil(t, book)
		assert.Equal(t, "googlebooks:zyTCAlFPjgYC", book.ID)
		assert.Equal(t, "Unknown", book.Author)
	})

	t.Run("empty_payload_is_a_miss", func(t *testing.T) {
		googleBooks := newGoogleBooksForTest(t, "", func(writer http.ResponseWriter, request *http.Request) {
			fmt.Fprint(writer, `{}`)
		})

		book, err := googleBooks.Detail(context.Background(), "missing")
		require.NoError(t, err)
		assert.Nil(t, book)
	})
}
