package favorite

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gwenbooks/gwenbooks/internal/platform/database/schema"
	"github.com/gwenbooks/gwenbooks/internal/platform/dberr"
)

type PostgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (repository *PostgresRepository) List(context context.Context, userID string, limit, offset int) ([]*Favorite, int, error) {
	countQuery := fmt.Sprintf(`SELECT count(*) FROM %s WHERE %s = $1`,
		schema.LibraryFavorite.Table, schema.LibraryFavorite.UserID,
	)

	var total int
	if err := repository.db.QueryRow(context, countQuery, userID).Scan(&total); err != nil {
		return nil, 0, dberr.Wrap(err, "count_favorites")
	}

	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s, %s, %s, %s, %s
		FROM %s
		WHERE %s = $1
		ORDER BY %s DESC
		LIMIT $2 OFFSET $3
	`,
		schema.LibraryFavorite.ID, schema.LibraryFavorite.UserID, schema.LibraryFavorite.BookID,
		schema.LibraryFavorite.Title, schema.LibraryFavorite.Author, schema.LibraryFavorite.CoverURL,
		schema.LibraryFavorite.Source, schema.LibraryFavorite.CreatedAt,
		schema.LibraryFavorite.Table, schema.LibraryFavorite.UserID, schema.LibraryFavorite.CreatedAt,
	)

	rows, err := repository.db.Query(context, query, userID, limit, offset)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list_favorites")
	}
	defer rows.Close()

	var favorites []*Favorite
	for rows.Next() {
		f := &Favorite{}
		if err := rows.Scan(&f.ID, &f.UserID, &f.BookID, &f.Title, &f.Author, &f.CoverURL, &f.Source, &f.CreatedAt); err != nil {
			return nil, 0, dberr.Wrap(err, "scan_favorite")
		}
		favorites = append(favorites, f)
	}

	return favorites, total, nil
}

func (repository *PostgresRepository) Create(context context.Context, favorite *Favorite) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
		RETURNING %s
	`,
		schema.LibraryFavorite.Table,
		schema.LibraryFavorite.ID, schema.LibraryFavorite.UserID, schema.LibraryFavorite.BookID,
		schema.LibraryFavorite.Title, schema.LibraryFavorite.Author, schema.LibraryFavorite.CoverURL,
		schema.LibraryFavorite.Source, schema.LibraryFavorite.CreatedAt,
		schema.LibraryFavorite.CreatedAt,
	)

	err := repository.db.QueryRow(context, query,
		favorite.ID, favorite.UserID, favorite.BookID,
		favorite.Title, favorite.Author, favorite.CoverURL, favorite.Source,
	).Scan(&favorite.CreatedAt)

	return dberr.Wrap(err, "create_favorite")
}

func (repository *PostgresRepository) Delete(context context.Context, userID, bookID string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1 AND %s = $2`,
		schema.LibraryFavorite.Table, schema.LibraryFavorite.UserID, schema.LibraryFavorite.BookID,
	)

	cmd, err := repository.db.Exec(context, query, userID, bookID)
	if err != nil {
		return dberr.Wrap(err, "delete_favorite")
	}

	if cmd.RowsAffected() == 0 {
		return dberr.ErrNotFound
	}
	return nil
}

func (repository *PostgresRepository) Exists(context context.Context, userID, bookID string) (bool, error) {
	query := fmt.Sprintf(`SELECT EXISTS (SELECT 1 FROM %s WHERE %s = $1 AND %s = $2)`,
		schema.LibraryFavorite.Table, schema.LibraryFavorite.UserID, schema.LibraryFavorite.BookID,
	)

	var exists bool
	if err := repository.db.QueryRow(context, query, userID, bookID).Scan(&exists); err != nil {
		return false, dberr.Wrap(err, "favorite_exists")
	}
	return exists, nil
}
