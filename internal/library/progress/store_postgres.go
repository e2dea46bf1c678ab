package progress

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

func (repository *PostgresRepository) Upsert(context context.Context, progress *Progress) error {
	// ON CONFLICT keys on the (userid, bookid) unique constraint so a
	// bookmark update never races a concurrent insert.
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, NOW())
		ON CONFLICT (%s, %s) DO UPDATE
		SET %s = EXCLUDED.%s, %s = EXCLUDED.%s, %s = NOW()
		RETURNING %s, %s
	`,
		schema.LibraryReadingProgress.Table,
		schema.LibraryReadingProgress.ID, schema.LibraryReadingProgress.UserID,
		schema.LibraryReadingProgress.BookID, schema.LibraryReadingProgress.Page,
		schema.LibraryReadingProgress.PageCount, schema.LibraryReadingProgress.UpdatedAt,
		schema.LibraryReadingProgress.UserID, schema.LibraryReadingProgress.BookID,
		schema.LibraryReadingProgress.Page, schema.LibraryReadingProgress.Page,
		schema.LibraryReadingProgress.PageCount, schema.LibraryReadingProgress.PageCount,
		schema.LibraryReadingProgress.UpdatedAt,
		schema.LibraryReadingProgress.ID, schema.LibraryReadingProgress.UpdatedAt,
	)

	err := repository.db.QueryRow(context, query,
		progress.ID, progress.UserID, progress.BookID, progress.Page, progress.PageCount,
	).Scan(&progress.ID, &progress.UpdatedAt)

	return dberr.Wrap(err, "upsert_progress")
}

func (repository *PostgresRepository) Find(context context.Context, userID, bookID string) (*Progress, error) {
	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s, %s, %s
		FROM %s
		WHERE %s = $1 AND %s = $2
	`,
		schema.LibraryReadingProgress.ID, schema.LibraryReadingProgress.UserID,
		schema.LibraryReadingProgress.BookID, schema.LibraryReadingProgress.Page,
		schema.LibraryReadingProgress.PageCount, schema.LibraryReadingProgress.UpdatedAt,
		schema.LibraryReadingProgress.Table,
		schema.LibraryReadingProgress.UserID, schema.LibraryReadingProgress.BookID,
	)

	p := &Progress{}
	err := repository.db.QueryRow(context, query, userID, bookID).Scan(
		&p.ID, &p.UserID, &p.BookID, &p.Page, &p.PageCount, &p.UpdatedAt,
	)
	if err != nil {
		return nil, dberr.Wrap(err, "find_progress")
	}

	return p, nil
}

func (repository *PostgresRepository) ListRecent(context context.Context, userID string, limit, offset int) ([]*Progress, int, error) {
	countQuery := fmt.Sprintf(`SELECT count(*) FROM %s WHERE %s = $1`,
		schema.LibraryReadingProgress.Table, schema.LibraryReadingProgress.UserID,
	)

	var total int
	if err := repository.db.QueryRow(context, countQuery, userID).Scan(&total); err != nil {
		return nil, 0, dberr.Wrap(err, "count_progress")
	}

	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s, %s, %s
		FROM %s
		WHERE %s = $1
		ORDER BY %s DESC
		LIMIT $2 OFFSET $3
	`,
		schema.LibraryReadingProgress.ID, schema.LibraryReadingProgress.UserID,
		schema.LibraryReadingProgress.BookID, schema.LibraryReadingProgress.Page,
		schema.LibraryReadingProgress.PageCount, schema.LibraryReadingProgress.UpdatedAt,
		schema.LibraryReadingProgress.Table,
		schema.LibraryReadingProgress.UserID, schema.LibraryReadingProgress.UpdatedAt,
	)

	rows, err := repository.db.Query(context, query, userID, limit, offset)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list_progress")
	}
	defer rows.Close()

	var bookmarks []*Progress
	for rows.Next() {
		p := &Progress{}
		if err := rows.Scan(&p.ID, &p.UserID, &p.BookID, &p.Page, &p.PageCount, &p.UpdatedAt); err != nil {
			return nil, 0, dberr.Wrap(err, "scan_progress")
		}
		bookmarks = append(bookmarks, p)
	}

	return bookmarks, total, nil
}

func (repository *PostgresRepository) Delete(context context.Context, userID, bookID string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1 AND %s = $2`,
		schema.LibraryReadingProgress.Table,
		schema.LibraryReadingProgress.UserID, schema.LibraryReadingProgress.BookID,
	)

	cmd, err := repository.db.Exec(context, query, userID, bookID)
	if err != nil {
		return dberr.Wrap(err, "delete_progress")
	}

	if cmd.RowsAffected() == 0 {
		return dberr.ErrNotFound
	}
	return nil
}
