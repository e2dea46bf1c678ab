package schema

// LibraryFavoriteTable represents the 'library.favorite' table
type LibraryFavoriteTable struct {
	Table     string
	ID        string
	UserID    string
	BookID    string
	Title     string
	Author    string
	CoverURL  string
	Source    string
	CreatedAt string
}

// LibraryFavorite is the schema definition for library.favorite
var LibraryFavorite = LibraryFavoriteTable{
	Table:     "library.favorite",
	ID:        "id",
	UserID:    "userid",
	BookID:    "bookid",
	Title:     "title",
	Author:    "author",
	CoverURL:  "coverurl",
	Source:    "source",
	CreatedAt: "createdat",
}

// Columns returns all standard column names
func (t LibraryFavoriteTable) Columns() []string {
	return []string{
		t.ID, t.UserID, t.BookID, t.Title, t.Author, t.CoverURL, t.Source, t.CreatedAt,
	}
}
