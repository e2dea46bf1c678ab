// Copyright (c) 2026 GwenBooks. All rights reserved.
// Author: dev@gwenbooks.app

package catalog

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/gwenbooks/gwenbooks/pkg/pointer"
	"github.com/gwenbooks/gwenbooks/pkg/titlekey"
)

const (
	// stageFillTarget is the accumulated-result count at which later
	// waterfall stages are skipped, and the per-stage fetch limit wired
	// into each provider call.
	stageFillTarget = 12

	// overallResultCap bounds the merged, deduplicated result list.
	overallResultCap = 25
)

// stage pairs a provider with the accumulated-result threshold at which
// the stage is skipped. Making the waterfall a data table keeps the
// priority policy in one place instead of nested conditionals.
type stage struct {
	provider Provider
	skipAt   int
}

// Service is the multi-source aggregator: it fans a query out across the
// provider waterfall and resolves composite identifiers back into
// readable documents or external redirects.
type Service struct {
	stages   []stage
	bySource map[Source]Provider
	cache    *searchCache
	fetch    apiClient
	pageSize int
	logger   *slog.Logger
}

// Option customizes a [Service]. Used mostly by tests (fake clock, small
// page sizes).
type Option func(*options)

type options struct {
	clock    func() time.Time
	cacheTTL time.Duration
	pageSize int
}

// WithClock injects the cache's time source.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.clock = now
		}
	}
}

// WithCacheTTL overrides the search cache TTL.
func WithCacheTTL(ttl time.Duration) Option {
	return func(o *options) {
		if ttl > 0 {
			o.cacheTTL = ttl
		}
	}
}

// WithPageSize overrides the reader page character budget.
func WithPageSize(size int) Option {
	return func(o *options) {
		if size > 0 {
			o.pageSize = size
		}
	}
}

// NewService wires the aggregator.
//
// providers must be given in waterfall priority order: Gutenberg first
// (the only fully readable source), then the preview/external sources.
func NewService(providers []Provider, httpClient HTTPDoer, logger *slog.Logger, opts ...Option) *Service {
	o := options{
		clock:    time.Now,
		cacheTTL: searchCacheTTL,
		pageSize: DefaultPageSize,
	}
	for _, opt := range opts {
		opt(&o)
	}

	stages := make([]stage, 0, len(providers))
	bySource := make(map[Source]Provider, len(providers))
	for _, provider := range providers {
		stages = append(stages, stage{provider: provider, skipAt: stageFillTarget})
		bySource[provider.Source()] = provider
	}

	return &Service{
		stages:   stages,
		bySource: bySource,
		cache:    newSearchCache(o.cacheTTL, o.clock),
		fetch:    newAPIClient(httpClient),
		pageSize: o.pageSize,
		logger:   logger,
	}
}

// DefaultProviders returns the four adapters in waterfall priority order.
func DefaultProviders(httpClient HTTPDoer, googleAPIKey string) []Provider {
	return []Provider{
		NewGutenberg(httpClient),
		NewGoogleBooks(httpClient, googleAPIKey),
		NewOpenLibrary(httpClient),
		NewInternetArchive(httpClient),
	}
}

// # Search

// Search runs the provider waterfall for a query and returns the merged,
// deduplicated, capped result list.
//
// A stage only runs while the accumulated count is below its threshold,
// so later (lower-priority, quota-heavier) providers are skipped once
// enough results exist. Provider failures are absorbed: the stage
// contributes nothing and the search degrades to fewer results.
func (service *Service) Search(ctx context.Context, query string) []Book {
	key := cacheKey(query)
	if key == "" {
		return nil
	}

	if cached, ok := service.cache.get(key); ok {
		return cached
	}

	trimmed := strings.TrimSpace(query)
	results := make([]Book, 0, overallResultCap)
	seenTitles := make(map[string]struct{}, overallResultCap)

	for _, st := range service.stages {
		if len(results) >= st.skipAt {
			continue
		}

		books, err := st.provider.Search(ctx, trimmed, stageFillTarget)
		if err != nil {
			// One provider's outage never blocks the others.
			service.logger.Warn("provider_search_failed",
				slog.String("source", string(st.provider.Source())),
				slog.Any("error", err),
			)
			continue
		}

		for _, book := range books {
			titleKey := titlekey.From(book.Title)
			if _, duplicate := seenTitles[titleKey]; duplicate {
				continue
			}
			seenTitles[titleKey] = struct{}{}
			results = append(results, book)
			if len(results) >= overallResultCap {
				break
			}
		}
		if len(results) >= overallResultCap {
			break
		}
	}

	service.cache.set(key, results)
	return results
}

// FlushSearchCache drops every cached result list, forcing the next
// search per query to hit the providers again. Exposed to operators
// through the admin cache endpoint.
func (service *Service) FlushSearchCache() {
	service.cache.purge()
}

// # Resolution

// Detail routes a composite identifier to its adapter and returns the
// canonical metadata, or [ErrBookNotFound] when the provider cannot
// produce the book (including transport failures — a dead provider and a
// missing book look the same to the caller).
func (service *Service) Detail(ctx context.Context, compositeID string) (*Book, error) {
	source, providerID, err := DecodeID(compositeID)
	if err != nil {
		return nil, err
	}

	provider, ok := service.bySource[source]
	if !ok {
		return nil, ErrUnknownSource
	}

	book, err := provider.Detail(ctx, providerID)
	if err != nil {
		service.logger.Warn("provider_detail_failed",
			slog.String("source", string(source)),
			slog.String("provider_id", providerID),
			slog.Any("error", err),
		)
		return nil, ErrBookNotFound
	}
	if book == nil {
		return nil, ErrBookNotFound
	}

	return book, nil
}

// Resolve turns a composite identifier into a read outcome: a paginated
// [ReaderDocument] for fully readable books, or an [ExternalRedirect]
// for every source that only reads on its own site.
func (service *Service) Resolve(ctx context.Context, compositeID string) (*ReadOutcome, error) {
	book, err := service.Detail(ctx, compositeID)
	if err != nil {
		return nil, err
	}

	// Deliberate policy, not a failure: non-Gutenberg sources never
	// expose a fetchable body, so the reader is sent to the provider.
	if book.Source != SourceGutenberg {
		readURL := pointer.Val(book.ReadURL)
		if readURL == "" {
			return nil, ErrBookNotFound
		}
		return &ReadOutcome{Redirect: &ExternalRedirect{Book: *book, URL: readURL}}, nil
	}

	readURL := pointer.Val(book.ReadURL)
	if readURL == "" {
		return nil, ErrBookNotFound
	}

	body, err := service.fetch.getText(ctx, readURL)
	if err != nil {
		service.logger.Warn("read_body_fetch_failed",
			slog.String("book_id", book.ID),
			slog.Any("error", err),
		)
		return nil, ErrBookNotFound
	}

	text := NormalizeText(body, LooksLikeHTML(readURL, body))
	pages := ChunkPages(text, service.pageSize)
	if len(pages) == 0 {
		return nil, ErrEmptyDocument
	}

	return &ReadOutcome{Document: &ReaderDocument{
		Book:      *book,
		Pages:     pages,
		PageCount: len(pages),
	}}, nil
}
