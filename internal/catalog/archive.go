package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/gwenbooks/gwenbooks/pkg/pointer"
)

const defaultArchiveBaseURL = "https://archive.org"

// archiveFilePreference ranks downloadable file extensions when the
// metadata endpoint enumerates a scan's files.
var archiveFilePreference = []string{".pdf", ".epub", ".txt"}

// InternetArchive adapts the archive.org advanced search and metadata
// APIs. Archive scans are read on archive.org itself (PDF/EPUB or the
// on-site book reader), so books are never fully readable in-app.
type InternetArchive struct {
	BaseURL string

	api apiClient
}

// NewInternetArchive constructs the archive.org adapter.
func NewInternetArchive(httpClient HTTPDoer) *InternetArchive {
	return &InternetArchive{
		BaseURL: defaultArchiveBaseURL,
		api:     newAPIClient(httpClient),
	}
}

// Source implements [Provider].
func (a *InternetArchive) Source() Source { return SourceInternetArchive }

// flexibleString tolerates archive.org fields that are sometimes a JSON
// string and sometimes an array of strings (creator is the usual
// offender). It decodes to the first value either way.
type flexibleString string

func (f *flexibleString) UnmarshalJSON(data []byte) error {
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		*f = flexibleString(single)
		return nil
	}

	var many []string
	if err := json.Unmarshal(data, &many); err != nil {
		return fmt.Errorf("catalog: archive field is neither string nor list: %w", err)
	}
	if len(many) > 0 {
		*f = flexibleString(many[0])
	}
	return nil
}

// Search implements [Provider].
func (a *InternetArchive) Search(ctx context.Context, query string, limit int) ([]Book, error) {
	endpoint := fmt.Sprintf(
		"%s/advancedsearch.php?q=title%%3A(%s)&fl[]=identifier&fl[]=title&fl[]=creator&rows=%d&page=1&output=json",
		a.BaseURL, url.QueryEscape(query), limit,
	)

	var response struct {
		Response struct {
			Docs []struct {
				Identifier string         `json:"identifier"`
				Title      flexibleString `json:"title"`
				Creator    flexibleString `json:"creator"`
			} `json:"docs"`
		} `json:"response"`
	}
	if err := a.api.getJSON(ctx, endpoint, &response); err != nil {
		return nil, err
	}

	books := make([]Book, 0, limit)
	for _, doc := range response.Response.Docs {
		if len(books) >= limit {
			break
		}
		if doc.Identifier == "" {
			continue
		}

		author := string(doc.Creator)
		if author == "" {
			author = "Unknown"
		}
		title := string(doc.Title)
		if title == "" {
			title = doc.Identifier
		}

		books = append(books, Book{
			ID:              EncodeID(SourceInternetArchive, doc.Identifier),
			Title:           title,
			Author:          author,
			CoverURL:        pointer.To(a.BaseURL + "/services/img/" + doc.Identifier),
			ReadURL:         pointer.To(a.BaseURL + "/details/" + doc.Identifier),
			Source:          SourceInternetArchive,
			IsFullyReadable: false,
		})
	}
	return books, nil
}

// DownloadLink implements [Downloader]: the bulk download listing of
// the first scan matching the title. The /download/ path serves the
// whole item as an archive, hence the ZIP label.
func (a *InternetArchive) DownloadLink(ctx context.Context, title string) (*DownloadLink, error) {
	endpoint := fmt.Sprintf(
		"%s/advancedsearch.php?q=%s&fl[]=identifier&rows=1&page=1&output=json",
		a.BaseURL, url.QueryEscape(title),
	)

	var response struct {
		Response struct {
			Docs []struct {
				Identifier string `json:"identifier"`
			} `json:"docs"`
		} `json:"response"`
	}
	if err := a.api.getJSON(ctx, endpoint, &response); err != nil {
		return nil, err
	}
	if len(response.Response.Docs) == 0 || response.Response.Docs[0].Identifier == "" {
		return nil, nil
	}

	return &DownloadLink{
		Source: SourceInternetArchive,
		URL:    a.BaseURL + "/download/" + response.Response.Docs[0].Identifier,
		Format: "ZIP",
	}, nil
}

// Detail implements [Provider].
//
// It performs the secondary metadata fetch to enumerate the scan's files
// and picks a direct download by [archiveFilePreference]; when no
// preferred file exists the details page is the read location.
func (a *InternetArchive) Detail(ctx context.Context, providerID string) (*Book, error) {
	var metadata struct {
		Metadata struct {
			Title   flexibleString `json:"title"`
			Creator flexibleString `json:"creator"`
		} `json:"metadata"`
		Files []struct {
			Name string `json:"name"`
		} `json:"files"`
	}
	if err := a.api.getJSON(ctx, a.BaseURL+"/metadata/"+providerID, &metadata); err != nil {
		return nil, err
	}

	// The metadata endpoint answers 200 with an empty object for unknown
	// identifiers.
	if metadata.Metadata.Title == "" && len(metadata.Files) == 0 {
		return nil, nil
	}

	title := string(metadata.Metadata.Title)
	if title == "" {
		title = "Untitled"
	}
	author := string(metadata.Metadata.Creator)
	if author == "" {
		author = "Unknown"
	}

	readURL := a.BaseURL + "/details/" + providerID
	if name := pickArchiveFile(metadata.Files); name != "" {
		readURL = a.BaseURL + "/download/" + providerID + "/" + name
	}

	return &Book{
		ID:              EncodeID(SourceInternetArchive, providerID),
		Title:           title,
		Author:          author,
		CoverURL:        pointer.To(a.BaseURL + "/services/img/" + providerID),
		ReadURL:         pointer.To(readURL),
		Source:          SourceInternetArchive,
		IsFullyReadable: false,
	}, nil
}

// pickArchiveFile returns the first file name matching the extension
// priority order, or "" when none qualifies.
func pickArchiveFile(files []struct {
	Name string `json:"name"`
}) string {
	for _, extension := range archiveFilePreference {
		for _, file := range files {
			if strings.HasSuffix(strings.ToLower(file.Name), extension) {
				return file.Name
			}
		}
	}
	return ""
}
