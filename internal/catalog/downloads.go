package catalog

import (
	"context"
	"log/slog"
	"strings"
)

// DownloadLink is one direct download (or read-on-site) location for a
// title, as reported by a single provider.
type DownloadLink struct {
	Source Source `json:"source"`
	URL    string `json:"url"`
	Format string `json:"format"`
}

// Downloader is the optional [Provider] extension for title-based
// download lookup. A provider returns its single best candidate for the
// closest title match, or (nil, nil) when it has none; not every
// catalogue can offer one (Google Books, for instance, has no direct
// file endpoint).
type Downloader interface {
	DownloadLink(ctx context.Context, title string) (*DownloadLink, error)
}

// DownloadLinks collects at most one download location per provider for
// a title, in waterfall priority order.
//
// Lookup failures are absorbed the same way Search absorbs them: a
// failing provider contributes no link and the list degrades to fewer
// entries.
func (service *Service) DownloadLinks(ctx context.Context, title string) []DownloadLink {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil
	}

	links := make([]DownloadLink, 0, len(service.stages))
	for _, st := range service.stages {
		downloader, ok := st.provider.(Downloader)
		if !ok {
			continue
		}

		link, err := downloader.DownloadLink(ctx, title)
		if err != nil {
			service.logger.Warn("provider_download_lookup_failed",
				slog.String("source", string(st.provider.Source())),
				slog.Any("error", err),
			)
			continue
		}
		if link == nil {
			continue
		}
		links = append(links, *link)
	}
	return links
}
