package favorite_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gwenbooks/gwenbooks/internal/catalog"
	"github.com/gwenbooks/gwenbooks/internal/library/favorite"
	"github.com/gwenbooks/gwenbooks/internal/platform/apperr"
	"github.com/gwenbooks/gwenbooks/pkg/pointer"
)

// memoryRepository is an in-memory favorite.Repository for service tests.
type memoryRepository struct {
	favorites []*favorite.Favorite
}

func (r *memoryRepository) List(_ context.Context, userID string, limit, offset int) ([]*favorite.Favorite, int, error) {
	var owned []*favorite.Favorite
	for _, f := range r.favorites {
		if f.UserID == userID {
			owned = append(owned, f)
		}
	}
	total := len(owned)
	if offset >= total {
		return nil, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return owned[offset:end], total, nil
}

func (r *memoryRepository) Create(_ context.Context, f *favorite.Favorite) error {
	r.favorites = append(r.favorites, f)
	return nil
}

func (r *memoryRepository) Delete(_ context.Context, userID, bookID string) error {
	for i, f := range r.favorites {
		if f.UserID == userID && f.BookID == bookID {
			r.favorites = append(r.favorites[:i], r.favorites[i+1:]...)
			return nil
		}
	}
	return apperr.NotFound("Resource")
}

func (r *memoryRepository) Exists(_ context.Context, userID, bookID string) (bool, error) {
	for _, f := range r.favorites {
		if f.UserID == userID && f.BookID == bookID {
			return true, nil
		}
	}
	return false, nil
}

// stubResolver returns a fixed book or error for any identifier.
type stubResolver struct {
	book *catalog.Book
	err  error
}

func (s *stubResolver) Detail(_ context.Context, _ string) (*catalog.Book, error) {
	return s.book, s.err
}

func newService(repo favorite.Repository, resolver favorite.BookResolver) *favorite.Service {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return favorite.NewService(repo, resolver, logger)
}

/*
TestService_AddFavorite checks the pinning flow: the stored favorite is a
snapshot of the resolved book, and pinning twice is a conflict.
*/
func TestService_AddFavorite(t *testing.T) {
	book := &catalog.Book{
		ID:       "gutenberg:84",
		Title:    "Frankenstein",
		Author:   "Shelley, Mary Wollstonecraft",
		CoverURL: pointer.To("https://example.org/cover.jpg"),
		Source:   catalog.SourceGutenberg,
	}
	repo := &memoryRepository{}
	service := newService(repo, &stubResolver{book: book})

	created, err := service.AddFavorite(context.Background(), "user-1", "gutenberg:84")
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "user-1", created.UserID)
	assert.Equal(t, "gutenberg:84", created.BookID)
	assert.Equal(t, "Frankenstein", created.Title)
	assert.Equal(t, "Shelley, Mary Wollstonecraft", created.Author)
	assert.Equal(t, "gutenberg", created.Source)
	require.NotNil(t, created.CoverURL)

	// Second pin of the same book conflicts.
	_, err = service.AddFavorite(context.Background(), "user-1", "gutenberg:84")
	require.Error(t, err)
	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, "CONFLICT", ae.Code)

	// A different user can pin the same book.
	_, err = service.AddFavorite(context.Background(), "user-2", "gutenberg:84")
	assert.NoError(t, err)
}

/*
TestService_AddFavorite_Validation covers empty identifiers and
unresolvable books.
*/
func TestService_AddFavorite_Validation(t *testing.T) {
	t.Run("missing_book_id", func(t *testing.T) {
		service := newService(&memoryRepository{}, &stubResolver{})
		_, err := service.AddFavorite(context.Background(), "user-1", "")
		require.Error(t, err)
		ae := apperr.As(err)
		require.NotNil(t, ae)
		assert.Equal(t, "VALIDATION_ERROR", ae.Code)
	})

	t.Run("unresolvable_book", func(t *testing.T) {
		service := newService(&memoryRepository{}, &stubResolver{err: catalog.ErrBookNotFound})
		_, err := service.AddFavorite(context.Background(), "user-1", "gutenberg:999999")
		require.Error(t, err)
		ae := apperr.As(err)
		require.NotNil(t, ae)
		assert.Equal(t, "NOT_FOUND", ae.Code)
	})
}

/*
TestService_RemoveFavorite checks unpinning and the missing-favorite case.
*/
func TestService_RemoveFavorite(t *testing.T) {
	book := &catalog.Book{ID: "gutenberg:84", Title: "Frankenstein", Source: catalog.SourceGutenberg}
	repo := &memoryRepository{}
	service := newService(repo, &stubResolver{book: book})

	_, err := service.AddFavorite(context.Background(), "user-1", "gutenberg:84")
	require.NoError(t, err)

	require.NoError(t, service.RemoveFavorite(context.Background(), "user-1", "gutenberg:84"))

	favorited, err := service.IsFavorite(context.Background(), "user-1", "gutenberg:84")
	require.NoError(t, err)
	assert.False(t, favorited)

	// Removing again is NotFound.
	err = service.RemoveFavorite(context.Background(), "user-1", "gutenberg:84")
	assert.Error(t, err)
}

/*
TestService_ListFavorites checks pagination over the user's collection.
*/
func TestService_ListFavorites(t *testing.T) {
	book := &catalog.Book{ID: "x", Title: "X", Source: catalog.SourceOpenLibrary}
	repo := &memoryRepository{}
	service := newService(repo, &stubResolver{book: book})

	ids := []string{"openlibrary:OL1W", "openlibrary:OL2W", "openlibrary:OL3W"}
	for _, id := range ids {
		stub := *book
		stub.ID = id
		svc := newService(repo, &stubResolver{book: &stub})
		_, err := svc.AddFavorite(context.Background(), "user-1", id)
		require.NoError(t, err)
	}

	page, total, err := service.ListFavorites(context.Background(), "user-1", 2, 0)
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	assert.Len(t, page, 2)

	rest, _, err := service.ListFavorites(context.Background(), "user-1", 2, 2)
	require.NoError(t, err)
	assert.Len(t, rest, 1)
}
