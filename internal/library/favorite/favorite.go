/*
Package favorite implements the personal book collection of a reader.

A favorite pins a book from any catalogue source to the user's library.
Because the catalogue is federated and volatile, each favorite stores a
denormalized snapshot of the book's display fields: the list renders
without a single provider round trip, and survives a provider outage.
*/
package favorite

import "time"

// Favorite represents one pinned book in a user's collection.
type Favorite struct {
	ID        string    `json:"id"`
	UserID    string    `json:"-"`
	BookID    string    `json:"book_id"` // composite "source:providerId" identifier
	Title     string    `json:"title"`
	Author    string    `json:"author"`
	CoverURL  *string   `json:"cover_url"`
	Source    string    `json:"source"`
	CreatedAt time.Time `json:"created_at"`
}

// Global field names for validation
const (
	FieldBookID = "book_id"
	FieldTitle  = "title"
	FieldSource = "source"
)
