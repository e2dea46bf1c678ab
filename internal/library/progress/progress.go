/*
Package progress tracks where a reader stopped inside a book.

Progress is per (user, book) and only meaningful for books read in the
built-in reader, where the catalogue's pagination gives a stable page
index to resume from.
*/
package progress

import "time"

// Progress is the bookmark for one user in one book.
type Progress struct {
	ID        string    `json:"id"`
	UserID    string    `json:"-"`
	BookID    string    `json:"book_id"` // composite "source:providerId" identifier
	Page      int       `json:"page"`    // 1-based page index in the paginated document
	PageCount int       `json:"page_count"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Percent returns reading completion in whole percent, clamped to 0-100.
func (p *Progress) Percent() int {
	if p.PageCount <= 0 {
		return 0
	}
	percent := p.Page * 100 / p.PageCount
	if percent > 100 {
		return 100
	}
	if percent < 0 {
		return 0
	}
	return percent
}

// Global field names for validation
const (
	FieldBookID    = "book_id"
	FieldPage      = "page"
	FieldPageCount = "page_count"
)
