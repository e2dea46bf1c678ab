package favorite

import "context"

// Repository defines the data access contract for favorites.
type Repository interface {
	// List returns one page of the user's favorites, newest first, plus
	// the total collection size.
	List(context context.Context, userID string, limit, offset int) ([]*Favorite, int, error)

	// Create persists a new favorite. A duplicate (userID, bookID) pair
	// surfaces as a Conflict error.
	Create(context context.Context, favorite *Favorite) error

	// Delete removes the favorite identified by the composite book ID.
	Delete(context context.Context, userID, bookID string) error

	// Exists reports whether the user has already pinned the book.
	Exists(context context.Context, userID, bookID string) (bool, error)
}
