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

func newOpenLibraryForTest(t *testing.T, handler http.HandlerFunc) *catalog.OpenLibrary {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	openLibrary := catalog.NewOpenLibrary(server.Client())
	openLibrary.BaseURL = server.URL
	openLibrary.CoverBaseURL = "https://covers.test"
	return openLibrary
}

/*
TestOpenLibrary_Search verifies doc mapping and the filter that drops
records without an Internet Archive scan behind them.
*/
func TestOpenLibrary_Search(t *testing.T) {
	openLibrary := newOpenLibraryForTest(t, func(writer http.ResponseWriter, request *http.Request) {
		assert.Equal(t, "/search.json", request.URL.Path)
		assert.Equal(t, "dracula", request.URL.Query().Get("q"))
		fmt.Fprint(writer, `{"docs": [
			{"key": "/works/OL45804W", "title": "Dracula", "author_name": ["Bram Stoker"], "cover_i": 12216503, "ia": ["dracula00stok"]},
			{"key": "/works/OL999W", "title": "No Scan Anywhere", "author_name": ["Nobody"]},
			{"key": "/works/OL1000W", "title": "Two Authors", "author_name": ["A. One", "B. Two"], "ia": ["twoauth00"]}
		]}`)
	})

	books, err := openLibrary.Search(context.Background(), "dracula", 12)
	require.NoError(t, err)
	require.Len(t, books, 2)

	first := books[0]
	assert.Equal(t, "openlibrary:OL45804W", first.ID)
	assert.Equal(t, "Dracula", first.Title)
	assert.Equal(t, "Bram Stoker", first.Author)
	require.NotNil(t, first.CoverURL)
	assert.Equal(t, "https://covers.test/b/id/12216503-M.jpg", *first.CoverURL)
	require.NotNil(t, first.ReadURL)
	assert.Equal(t, openLibrary.BaseURL+"/works/OL45804W", *first.ReadURL)
	assert.False(t, first.IsFullyReadable)

	second := books[1]
	assert.Equal(t, "A. One, B. Two", second.Author)
	assert.Nil(t, second.CoverURL)
}

/*
TestOpenLibrary_Detail covers the works endpoint mapping and the
empty-payload miss.
*/
func TestOpenLibrary_Detail(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		openLibrary := newOpenLibraryForTest(t, func(writer http.ResponseWriter, request *http.Request) {
			assert.Equal(t, "/works/OL45804W.json", request.URL.Path)
			fmt.Fprint(writer, `{
				"key": "/works/OL45804W",
				"title": "Dracula",
				"covers": [12216503, 8257991],
				"authors": [{"author": {"key": "/authors/OL7203A"}}]
			}`)
		})

		book, err := openLibrary.Detail(context.Background(), "OL45804W")
		require.NoError(t, err)
		require.NotNil(t, book)
		assert.Equal(t, "openlibrary:OL45804W", book.ID)
		assert.Equal(t, "Dracula", book.Title)
		require.NotNil(t, book.CoverURL)
		assert.Equal(t, "https://covers.test/b/id/12216503-L.jpg", *book.CoverURL)
		require.NotNil(t, book.ReadURL)
		assert.Equal(t, openLibrary.BaseURL+"/works/OL45804W", *book.ReadURL)
		assert.False(t, book.IsFullyReadable)
	})

	t.Run("empty_payload_is_a_miss", func(t *testing.T) {
		openLibrary := newOpenLibraryForTest(t, func(writer http.ResponseWriter, request *http.Request) {
			fmt.Fprint(writer, `{}`)
		})

		book, err := openLibrary.Detail(context.Background(), "OL0W")
		require.NoError(t, err)
		assert.Nil(t, book)
	})
}
