package catalog

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/gwenbooks/gwenbooks/pkg/pointer"
)

const (
	defaultOpenLibraryBaseURL  = "https://openlibrary.org"
	defaultOpenLibraryCoverURL = "https://covers.openlibrary.org"
)

// OpenLibrary adapts the Open Library search and works APIs.
//
// Open Library never exposes a fetchable text body, so its books are
// never fully readable: the reader is routed to the work page (or, when
// the record carries an Internet Archive scan, to archive.org).
type OpenLibrary struct {
	BaseURL      string
	CoverBaseURL string

	api apiClient
}

// NewOpenLibrary constructs the Open Library adapter.
func NewOpenLibrary(httpClient HTTPDoer) *OpenLibrary {
	return &OpenLibrary{
		BaseURL:      defaultOpenLibraryBaseURL,
		CoverBaseURL: defaultOpenLibraryCoverURL,
		api:          newAPIClient(httpClient),
	}
}

// Source implements [Provider].
func (o *OpenLibrary) Source() Source { return SourceOpenLibrary }

// Search implements [Provider].
//
// Results are filtered to docs exposing an Internet Archive identifier:
// a bare Open Library record with no scan behind it gives the user
// nothing to read, while the same work usually also surfaces through the
// other stages.
func (o *OpenLibrary) Search(ctx context.Context, query string, limit int) ([]Book, error) {
	endpoint := fmt.Sprintf(
		"%s/search.json?q=%s&limit=%d&fields=key,title,author_name,cover_i,ia",
		o.BaseURL, url.QueryEscape(query), limit,
	)

	var response struct {
		Docs []struct {
			Key        string   `json:"key"` // "/works/OL12345W"
			Title      string   `json:"title"`
			AuthorName []string `json:"author_name"`
			CoverID    int      `json:"cover_i"`
			IA         []string `json:"ia"`
		} `json:"docs"`
	}
	if err := o.api.getJSON(ctx, endpoint, &response); err != nil {
		return nil, err
	}

	books := make([]Book, 0, limit)
	for _, doc := range response.Docs {
		if len(books) >= limit {
			break
		}
		if len(doc.IA) == 0 {
			continue
		}

		author := "Unknown"
		if len(doc.AuthorName) > 0 {
			author = strings.Join(doc.AuthorName, ", ")
		}

		var coverURL *string
		if doc.CoverID > 0 {
			coverURL = pointer.To(fmt.Sprintf("%s/b/id/%d-M.jpg", o.CoverBaseURL, doc.CoverID))
		}

		books = append(books, Book{
			ID:              EncodeID(SourceOpenLibrary, strings.TrimPrefix(doc.Key, "/works/")),
			Title:           doc.Title,
			Author:          author,
			CoverURL:        coverURL,
			ReadURL:         pointer.To(o.BaseURL + doc.Key),
			Source:          SourceOpenLibrary,
			IsFullyReadable: false,
		})
	}
	return books, nil
}

// DownloadLink implements [Downloader]. Open Library has no direct
// files to offer, so the link points at the work page of the closest
// title match.
func (o *OpenLibrary) DownloadLink(ctx context.Context, title string) (*DownloadLink, error) {
	endpoint := fmt.Sprintf("%s/search.json?title=%s&limit=1&fields=key", o.BaseURL, url.QueryEscape(title))

	var response struct {
		Docs []struct {
			Key string `json:"key"`
		} `json:"docs"`
	}
	if err := o.api.getJSON(ctx, endpoint, &response); err != nil {
		return nil, err
	}
	if len(response.Docs) == 0 || response.Docs[0].Key == "" {
		return nil, nil
	}

	return &DownloadLink{
		Source: SourceOpenLibrary,
		URL:    o.BaseURL + response.Docs[0].Key,
		Format: "READ",
	}, nil
}

// Detail implements [Provider].
//
// The works endpoint carries no read location; the returned ReadURL is
// always the external work page.
func (o *OpenLibrary) Detail(ctx context.Context, providerID string) (*Book, error) {
	workKey := providerID
	if !strings.HasPrefix(workKey, "/works/") {
		workKey = "/works/" + workKey
	}

	var work struct {
		Key     string `json:"key"`
		Title   string `json:"title"`
		Covers  []int  `json:"covers"`
		Authors []struct {
			Author struct {
				Key string `json:"key"`
			} `json:"author"`
		} `json:"authors"`
	}
	if err := o.api.getJSON(ctx, o.BaseURL+workKey+".json", &work); err != nil {
		return nil, err
	}
	if work.Key == "" {
		return nil, nil
	}

	title := work.Title
	if title == "" {
		title = "Untitled"
	}

	// The works payload only references author records by key. Resolving
	// each key costs one more round trip per author, so the list view
	// keeps the search-result author and detail settles for a label.
	author := "Unknown"
	if len(work.Authors) > 0 {
		author = "Open Library Author"
	}

	var coverURL *string
	if len(work.Covers) > 0 {
		coverURL = pointer.To(fmt.Sprintf("%s/b/id/%d-L.jpg", o.CoverBaseURL, work.Covers[0]))
	}

	return &Book{
		ID:              EncodeID(SourceOpenLibrary, strings.TrimPrefix(work.Key, "/works/")),
		Title:           title,
		Author:          author,
		CoverURL:        coverURL,
		ReadURL:         pointer.To(o.BaseURL + work.Key),
		Source:          SourceOpenLibrary,
		IsFullyReadable: false,
	}, nil
}
