package progress

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/gwenbooks/gwenbooks/internal/platform/middleware"
	requestutil "github.com/gwenbooks/gwenbooks/internal/platform/request"
	"github.com/gwenbooks/gwenbooks/internal/platform/respond"
	"github.com/gwenbooks/gwenbooks/internal/platform/validate"
	"github.com/gwenbooks/gwenbooks/pkg/pagination"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the reading progress router. Every endpoint operates on
// the authenticated user's own bookmarks.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()
	router.Use(middleware.RequireAuth)

	router.Get("/", handler.listRecent)
	router.Put("/", handler.saveProgress)
	router.Get("/{bookID}", handler.getProgress)
	router.Delete("/{bookID}", handler.clearProgress)

	return router
}

type saveProgressRequest struct {
	BookID    string `json:"book_id"`
	Page      int    `json:"page"`
	PageCount int    `json:"page_count"`
}

func (handler *Handler) listRecent(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	paginationParams := pagination.FromRequest(request)

	bookmarks, total, err := handler.service.ListRecent(request.Context(), userID, paginationParams.Limit, paginationParams.Offset())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, bookmarks, pagination.NewMeta(paginationParams.Page, paginationParams.Limit, total))
}

func (handler *Handler) saveProgress(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input saveProgressRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	progress, err := handler.service.SaveProgress(request.Context(), userID, SaveInput{
		BookID:    input.BookID,
		Page:      input.Page,
		PageCount: input.PageCount,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, progress)
}

func (handler *Handler) getProgress(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	progress, err := handler.service.GetProgress(request.Context(), userID, requestutil.ID(request, "bookID"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, progress)
}

func (handler *Handler) clearProgress(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.ClearProgress(request.Context(), userID, requestutil.ID(request, "bookID")); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}
