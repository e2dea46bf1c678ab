package catalog

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/gwenbooks/gwenbooks/internal/platform/apperr"
	"github.com/gwenbooks/gwenbooks/internal/platform/middleware"
	requestutil "github.com/gwenbooks/gwenbooks/internal/platform/request"
	"github.com/gwenbooks/gwenbooks/internal/platform/respond"
	"github.com/gwenbooks/gwenbooks/internal/platform/sec"
	"github.com/gwenbooks/gwenbooks/internal/platform/validate"
	"github.com/gwenbooks/gwenbooks/pkg/convert"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	// Public — discovery and reading need no account.
	router.Get("/search", handler.searchBooks)
	router.Get("/downloads", handler.downloadLinks)
	router.Get("/{id}", handler.getBook)
	router.Get("/{id}/read", handler.readBook)

	// Operational — only admins may force fresh provider data.
	router.With(middleware.RequireRole(sec.RoleAdmin)).Delete("/cache", handler.flushCache)

	return router
}

// searchBooks handles GET /api/v1/books/search?q=...
//
// Failures inside the waterfall degrade to fewer (possibly zero)
// results; the endpoint itself only fails on a missing query.
func (handler *Handler) searchBooks(writer http.ResponseWriter, request *http.Request) {
	query := request.URL.Query().Get("q")
	if query == "" {
		respond.Error(writer, request, validate.RequiredError("q", "Search query is required"))
		return
	}

	books := handler.service.Search(request.Context(), query)

	// Optional client-side trim below the aggregator's own cap.
	if limit := convert.ToIntD(request.URL.Query().Get("limit"), 0); limit > 0 && limit < len(books) {
		books = books[:limit]
	}

	respond.OK(writer, books)
}

// downloadLinks handles GET /api/v1/books/downloads?title=...
//
// Per-provider lookup failures are absorbed; the endpoint itself only
// fails on a missing title.
func (handler *Handler) downloadLinks(writer http.ResponseWriter, request *http.Request) {
	title := request.URL.Query().Get("title")
	if title == "" {
		respond.Error(writer, request, validate.RequiredError("title", "Book title is required"))
		return
	}

	respond.OK(writer, map[string][]DownloadLink{
		"links": handler.service.DownloadLinks(request.Context(), title),
	})
}

// flushCache handles DELETE /api/v1/books/cache.
func (handler *Handler) flushCache(writer http.ResponseWriter, request *http.Request) {
	handler.service.FlushSearchCache()
	respond.NoContent(writer)
}

// getBook handles GET /api/v1/books/{id} where id is the composite
// "source:providerId" identifier (URL-encoded as one path segment).
func (handler *Handler) getBook(writer http.ResponseWriter, request *http.Request) {
	book, err := handler.service.Detail(request.Context(), requestutil.ID(request, "id"))
	if err != nil {
		respond.Error(writer, request, mapCatalogError(err))
		return
	}
	respond.OK(writer, book)
}

// readResponse is the wire shape for GET /books/{id}/read. Mode tells
// the client whether to render pages or follow the external URL.
type readResponse struct {
	Mode      string   `json:"mode"` // "reader" or "external"
	Book      Book     `json:"book"`
	URL       string   `json:"url,omitempty"`
	Pages     []string `json:"pages,omitempty"`
	PageCount int      `json:"page_count,omitempty"`
}

// readBook handles GET /api/v1/books/{id}/read.
func (handler *Handler) readBook(writer http.ResponseWriter, request *http.Request) {
	outcome, err := handler.service.Resolve(request.Context(), requestutil.ID(request, "id"))
	if err != nil {
		respond.Error(writer, request, mapCatalogError(err))
		return
	}

	if outcome.Redirect != nil {
		respond.OK(writer, readResponse{
			Mode: "external",
			Book: outcome.Redirect.Book,
			URL:  outcome.Redirect.URL,
		})
		return
	}

	respond.OK(writer, readResponse{
		Mode:      "reader",
		Book:      outcome.Document.Book,
		Pages:     outcome.Document.Pages,
		PageCount: outcome.Document.PageCount,
	})
}

// mapCatalogError collapses the catalog error taxonomy into client-safe
// API errors. Malformed identifiers, unknown sources, and empty
// documents all read as "book not found" — the distinction matters in
// logs, not to the client.
func mapCatalogError(err error) error {
	switch {
	case errors.Is(err, ErrInvalidIdentifier),
		errors.Is(err, ErrUnknownSource),
		errors.Is(err, ErrBookNotFound),
		errors.Is(err, ErrEmptyDocument):
		return apperr.NotFound("Book")
	}
	return err
}
