package progress

import "context"

// Repository defines the data access contract for reading progress.
type Repository interface {
	// Upsert inserts or replaces the bookmark for (UserID, BookID).
	Upsert(context context.Context, progress *Progress) error

	// Find returns the bookmark for (userID, bookID).
	Find(context context.Context, userID, bookID string) (*Progress, error)

	// ListRecent returns the user's bookmarks ordered by most recently
	// updated, plus the total count.
	ListRecent(context context.Context, userID string, limit, offset int) ([]*Progress, int, error)

	// Delete removes the bookmark for (userID, bookID).
	Delete(context context.Context, userID, bookID string) error
}
