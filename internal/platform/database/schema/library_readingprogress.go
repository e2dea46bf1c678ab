package schema

// LibraryReadingProgressTable represents the 'library.readingprogress' table
type LibraryReadingProgressTable struct {
	Table     string
	ID        string
	UserID    string
	BookID    string
	Page      string
	PageCount string
	UpdatedAt string
}

// LibraryReadingProgress is the schema definition for library.readingprogress
var LibraryReadingProgress = LibraryReadingProgressTable{
	Table:     "library.readingprogress",
	ID:        "id",
	UserID:    "userid",
	BookID:    "bookid",
	Page:      "page",
	PageCount: "pagecount",
	UpdatedAt: "updatedat",
}

// Columns returns all standard column names
func (t LibraryReadingProgressTable) Columns() []string {
	return []string{
		t.ID, t.UserID, t.BookID, t.Page, t.PageCount, t.UpdatedAt,
	}
}
