package favorite

import (
	"context"
	"errors"
	"log/slog"

	"github.com/gwenbooks/gwenbooks/internal/catalog"
	"github.com/gwenbooks/gwenbooks/internal/platform/apperr"
	"github.com/gwenbooks/gwenbooks/internal/platform/validate"
	"github.com/gwenbooks/gwenbooks/pkg/uuid"
)

// BookResolver resolves a composite book identifier to its canonical
// metadata. Satisfied by the catalog aggregator.
type BookResolver interface {
	Detail(context context.Context, compositeID string) (*catalog.Book, error)
}

type Service struct {
	repo     Repository
	resolver BookResolver
	logger   *slog.Logger
}

func NewService(repo Repository, resolver BookResolver, logger *slog.Logger) *Service {
	return &Service{
		repo:     repo,
		resolver: resolver,
		logger:   logger,
	}
}

// ListFavorites returns one page of the user's collection, newest first.
func (service *Service) ListFavorites(context context.Context, userID string, limit, offset int) ([]*Favorite, int, error) {
	return service.repo.List(context, userID, limit, offset)
}

// AddFavorite pins a book to the user's collection.
//
// The composite identifier is resolved through the catalogue so the
// stored snapshot reflects the provider's current metadata. Pinning the
// same book twice is a Conflict.
func (service *Service) AddFavorite(context context.Context, userID, bookID string) (*Favorite, error) {
	validator := &validate.Validator{}
	validator.Required(FieldBookID, bookID)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	exists, err := service.repo.Exists(context, userID, bookID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperr.Conflict("Book is already in favorites")
	}

	book, err := service.resolver.Detail(context, bookID)
	if err != nil {
		return nil, mapCatalogError(err)
	}

	favorite := &Favorite{
		ID:       uuid.New(),
		UserID:   userID,
		BookID:   book.ID,
		Title:    book.Title,
		Author:   book.Author,
		CoverURL: book.CoverURL,
		Source:   string(book.Source),
	}

	if err := service.repo.Create(context, favorite); err != nil {
		return nil, err
	}

	service.logger.Info("favorite_added",
		slog.String("user_id", userID),
		slog.String("book_id", book.ID),
	)
	return favorite, nil
}

// RemoveFavorite unpins a book. Removing a book that was never pinned
// reads as NotFound.
func (service *Service) RemoveFavorite(context context.Context, userID, bookID string) error {
	if err := service.repo.Delete(context, userID, bookID); err != nil {
		return err
	}

	service.logger.Info("favorite_removed",
		slog.String("user_id", userID),
		slog.String("book_id", bookID),
	)
	return nil
}

// IsFavorite reports whether the user has pinned the book.
func (service *Service) IsFavorite(context context.Context, userID, bookID string) (bool, error) {
	return service.repo.Exists(context, userID, bookID)
}

// mapCatalogError converts catalogue resolution failures into the
// client-safe shape: every flavor of "cannot produce this book" is a
// NotFound from the library's point of view.
func mapCatalogError(err error) error {
	switch {
	case errors.Is(err, catalog.ErrInvalidIdentifier),
		errors.Is(err, catalog.ErrUnknownSource),
		errors.Is(err, catalog.ErrBookNotFound):
		return apperr.NotFound("Book")
	}
	return err
}
