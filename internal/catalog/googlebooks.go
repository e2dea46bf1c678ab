package catalog

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/gwenbooks/gwenbooks/pkg/pointer"
)

const defaultGoogleBooksBaseURL = "https://www.googleapis.com/books/v1"

// GoogleBooks adapts the Google Books volumes API. Google only ever
// grants preview access through its own viewer, so its books are never
// fully readable in-app.
type GoogleBooks struct {
	BaseURL string

	// apiKey is optional; anonymous access works with tighter quotas.
	apiKey string
	api    apiClient
}

// NewGoogleBooks constructs the volumes API adapter.
func NewGoogleBooks(httpClient HTTPDoer, apiKey string) *GoogleBooks {
	return &GoogleBooks{
		BaseURL: defaultGoogleBooksBaseURL,
		apiKey:  apiKey,
		api:     newAPIClient(httpClient),
	}
}

// Source implements [Provider].
func (g *GoogleBooks) Source() Source { return SourceGoogleBooks }

// googleVolume is the narrow slice of the volumes payload we consume.
type googleVolume struct {
	ID         string `json:"id"`
	VolumeInfo struct {
		Title      string   `json:"title"`
		Authors    []string `json:"authors"`
		ImageLinks struct {
			Thumbnail string `json:"thumbnail"`
		} `json:"imageLinks"`
		PreviewLink         string `json:"previewLink"`
		CanonicalVolumeLink string `json:"canonicalVolumeLink"`
	} `json:"volumeInfo"`
	AccessInfo struct {
		Viewability string `json:"viewability"` // NO_PAGES, PARTIAL, ALL_PAGES, UNKNOWN
	} `json:"accessInfo"`
}

// Search implements [Provider].
//
// Volumes whose access metadata grants no public pages at all are
// dropped: a result the user can neither read nor preview is noise.
func (g *GoogleBooks) Search(ctx context.Context, query string, limit int) ([]Book, error) {
	endpoint := fmt.Sprintf("%s/volumes?q=%s&maxResults=%d", g.BaseURL, url.QueryEscape(query), limit)
	if g.apiKey != "" {
		endpoint += "&key=" + url.QueryEscape(g.apiKey)
	}

	var response struct {
		Items []googleVolume `json:"items"`
	}
	if err := g.api.getJSON(ctx, endpoint, &response); err != nil {
		return nil, err
	}

	books := make([]Book, 0, limit)
	for _, item := range response.Items {
		if len(books) >= limit {
			break
		}
		if !g.isViewable(item) {
			continue
		}
		books = append(books, g.mapVolume(item))
	}
	return books, nil
}

// Detail implements [Provider].
func (g *GoogleBooks) Detail(ctx context.Context, providerID string) (*Book, error) {
	endpoint := g.BaseURL + "/volumes/" + url.PathEscape(providerID)
	if g.apiKey != "" {
		endpoint += "?key=" + url.QueryEscape(g.apiKey)
	}

	var item googleVolume
	if err := g.api.getJSON(ctx, endpoint, &item); err != nil {
		return nil, err
	}
	if item.ID == "" {
		return nil, nil
	}

	book := g.mapVolume(item)
	return &book, nil
}

// isViewable reports whether the volume is at least partially viewable.
func (g *GoogleBooks) isViewable(item googleVolume) bool {
	switch item.AccessInfo.Viewability {
	case "PARTIAL", "ALL_PAGES":
		return true
	}
	return false
}

// mapVolume normalizes one volume into the canonical model.
func (g *GoogleBooks) mapVolume(item googleVolume) Book {
	author := "Unknown"
	if len(item.VolumeInfo.Authors) > 0 {
		author = strings.Join(item.VolumeInfo.Authors, ", ")
	}

	var coverURL *string
	if item.VolumeInfo.ImageLinks.Thumbnail != "" {
		coverURL = pointer.To(item.VolumeInfo.ImageLinks.Thumbnail)
	}

	var readURL *string
	if item.VolumeInfo.PreviewLink != "" {
		readURL = pointer.To(item.VolumeInfo.PreviewLink)
	} else if item.VolumeInfo.CanonicalVolumeLink != "" {
		readURL = pointer.To(item.VolumeInfo.CanonicalVolumeLink)
	}

	return Book{
		ID:              EncodeID(SourceGoogleBooks, item.ID),
		Title:           item.VolumeInfo.Title,
		Author:          author,
		CoverURL:        coverURL,
		ReadURL:         readURL,
		Source:          SourceGoogleBooks,
		IsFullyReadable: false,
	}
}
