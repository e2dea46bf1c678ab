package favorite

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

// Routes returns the favorites router. Every endpoint operates on the
// authenticated user's own collection.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()
	router.Use(middleware.RequireAuth)

	router.Get("/", handler.listFavorites)
	router.Post("/", handler.addFavorite)
	router.Get("/{bookID}", handler.favoriteStatus)
	router.Delete("/{bookID}", handler.removeFavorite)

	return router
}

type addFavoriteRequest struct {
	BookID string `json:"book_id"`
}

func (handler *Handler) listFavorites(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	paginationParams := pagination.FromRequest(request)

	favorites, total, err := handler.service.ListFavorites(request.Context(), userID, paginationParams.Limit, paginationParams.Offset())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, favorites, pagination.NewMeta(paginationParams.Page, paginationParams.Limit, total))
}

func (handler *Handler) addFavorite(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input addFavoriteRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	favorite, err := handler.service.AddFavorite(request.Context(), userID, input.BookID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, favorite)
}

func (handler *Handler) favoriteStatus(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	favorited, err := handler.service.IsFavorite(request.Context(), userID, requestutil.ID(request, "bookID"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]bool{"favorited": favorited})
}

func (handler *Handler) removeFavorite(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.RemoveFavorite(request.Context(), userID, requestutil.ID(request, "bookID")); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}
