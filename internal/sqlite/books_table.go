package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/mesh-intelligence/catalog/pkg/types"
)

var _ types.Table = (*booksTable)(nil)

// booksTable implements the Table interface for the Books entity path.
type booksTable struct {
	backend *Backend
}

const selectBook = "SELECT book_id, author_id, title, description, stock, price, currency_code, created_at, updated_at FROM books"

// Get retrieves a book by ID.
func (bt *booksTable) Get(ctx context.Context, id string) (any, error) {
	if id == "" {
		return nil, types.ErrInvalidID
	}
	db, release, err := bt.backend.readDB()
	if err != nil {
		return nil, err
	}
	defer release()

	return getBook(ctx, db, id)
}

func getBook(ctx context.Context, q querier, id string) (*types.Book, error) {
	row := q.QueryRowContext(ctx, selectBook+" WHERE book_id = ?", id)
	b, err := hydrateBook(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, types.ErrNotFound
		}
		return nil, fmt.Errorf("getting book %s: %w", id, err)
	}
	return b, nil
}

// Set inserts or replaces a book. The owning author must exist.
func (bt *booksTable) Set(ctx context.Context, id string, data any) (string, error) {
	b, ok := data.(*types.Book)
	if !ok || b == nil {
		return "", types.ErrInvalidData
	}

	db, release, err := bt.backend.writeDB()
	if err != nil {
		return "", err
	}
	defer release()

	return putBook(ctx, db, id, b)
}

// putBook upserts b on q. The owning author must already exist.
func putBook(ctx context.Context, q execer, id string, b *types.Book) (string, error) {
	if strings.TrimSpace(b.Title) == "" {
		return "", types.ErrInvalidName
	}
	if b.AuthorID == "" {
		return "", fmt.Errorf("book without author: %w", types.ErrInvalidData)
	}

	ok, err := rowExists(ctx, q, "SELECT 1 FROM authors WHERE author_id = ?", b.AuthorID)
	if err != nil {
		return "", fmt.Errorf("checking author existence: %w", err)
	}
	if !ok {
		return "", fmt.Errorf("author %s does not exist: %w", b.AuthorID, types.ErrInvalidData)
	}

	now := time.Now().UTC()
	if id == "" {
		newID, err := newUUID()
		if err != nil {
			return "", err
		}
		id = newID
	}
	b.BookID = id
	if b.CreatedAt.IsZero() {
		b.CreatedAt = now
	}
	b.UpdatedAt = now

	exists, err := rowExists(ctx, q, "SELECT 1 FROM books WHERE book_id = ?", id)
	if err != nil {
		return "", fmt.Errorf("checking book existence: %w", err)
	}

	if exists {
		_, err = q.ExecContext(ctx,
			`UPDATE books SET author_id = ?, title = ?, description = ?, stock = ?, price = ?,
			currency_code = ?, updated_at = ? WHERE book_id = ?`,
			b.AuthorID, b.Title, b.Description, b.Stock, b.Price, b.Currency.Code, formatTime(b.UpdatedAt), id,
		)
	} else {
		_, err = q.ExecContext(ctx,
			`INSERT INTO books (book_id, author_id, title, description, stock, price, currency_code,
			created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			id, b.AuthorID, b.Title, b.Description, b.Stock, b.Price, b.Currency.Code,
			formatTime(b.CreatedAt), formatTime(b.UpdatedAt),
		)
	}
	if err != nil {
		return "", fmt.Errorf("persisting book: %w", err)
	}
	return id, nil
}

// Patch sets one mutable field on an existing book.
func (bt *booksTable) Patch(ctx context.Context, id, field string, value any) error {
	if id == "" {
		return types.ErrInvalidID
	}
	db, release, err := bt.backend.writeDB()
	if err != nil {
		return err
	}
	defer release()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	b, err := getBook(ctx, tx, id)
	if err != nil {
		return err
	}
	if err := b.SetField(field, value); err != nil {
		return fmt.Errorf("patching book %s field %q: %w", id, field, err)
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE books SET title = ?, description = ?, stock = ?, price = ?, currency_code = ?,
		updated_at = ? WHERE book_id = ?`,
		b.Title, b.Description, b.Stock, b.Price, b.Currency.Code, formatTime(b.UpdatedAt), id,
	); err != nil {
		return fmt.Errorf("updating book: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing book patch: %w", err)
	}
	return nil
}

// Delete permanently removes a book.
func (bt *booksTable) Delete(ctx context.Context, id string) error {
	if id == "" {
		return types.ErrInvalidID
	}
	db, release, err := bt.backend.writeDB()
	if err != nil {
		return err
	}
	defer release()

	res, err := db.ExecContext(ctx, "DELETE FROM books WHERE book_id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting book: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting book: %w", err)
	}
	if n == 0 {
		return types.ErrNotFound
	}
	return nil
}

// Fetch queries books ordered by creation time. The only recognized filter
// key is FilterAuthorID (string).
func (bt *booksTable) Fetch(ctx context.Context, filter types.Filter) ([]any, error) {
	query := selectBook
	var args []any

	authorID, ok, err := filterString(filter, types.FilterAuthorID)
	if err != nil {
		return nil, err
	}
	if ok {
		query += " WHERE author_id = ?"
		args = append(args, authorID)
	}
	query += " ORDER BY created_at, rowid"

	db, release, err := bt.backend.readDB()
	if err != nil {
		return nil, err
	}
	defer release()

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("fetching books: %w", err)
	}
	defer rows.Close()

	results := []any{}
	for rows.Next() {
		b, err := hydrateBook(rows)
		if err != nil {
			return nil, fmt.Errorf("hydrating book: %w", err)
		}
		results = append(results, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating books: %w", err)
	}
	return results, nil
}

func hydrateBook(row scanner) (*types.Book, error) {
	var b types.Book
	var createdAt, updatedAt string
	if err := row.Scan(&b.BookID, &b.AuthorID, &b.Title, &b.Description, &b.Stock, &b.Price,
		&b.Currency.Code, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	var err error
	if b.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, fmt.Errorf("parsing book created_at: %w", err)
	}
	if b.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, fmt.Errorf("parsing book updated_at: %w", err)
	}
	return &b, nil
}
