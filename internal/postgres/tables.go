package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/mesh-intelligence/catalog/pkg/types"
)

var (
	_ types.Table = (*authorsTable)(nil)
	_ types.Table = (*booksTable)(nil)
)

type authorsTable struct {
	backend *Backend
}

const selectAuthor = "SELECT author_id, name, bio, deleted, created_at, updated_at FROM authors"

func scanAuthor(row pgx.Row) (*types.Author, error) {
	var a types.Author
	if err := row.Scan(&a.AuthorID, &a.Name, &a.Bio, &a.Deleted, &a.CreatedAt, &a.UpdatedAt); err != nil {
		return nil, err
	}
	a.CreatedAt, a.UpdatedAt = a.CreatedAt.UTC(), a.UpdatedAt.UTC()
	return &a, nil
}

func (at *authorsTable) Get(ctx context.Context, id string) (any, error) {
	if id == "" {
		return nil, types.ErrInvalidID
	}
	pool, err := at.backend.getPool()
	if err != nil {
		return nil, err
	}
	a, err := scanAuthor(pool.QueryRow(ctx, selectAuthor+" WHERE author_id = $1", id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, types.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get author: %w", err)
	}
	return a, nil
}

// Set upserts an author; an empty id creates one with a fresh UUID v7.
func (at *authorsTable) Set(ctx context.Context, id string, data any) (string, error) {
	a, ok := data.(*types.Author)
	if !ok || a == nil {
		return "", types.ErrInvalidData
	}
	if strings.TrimSpace(a.Name) == "" {
		return "", types.ErrInvalidName
	}
	pool, err := at.backend.getPool()
	if err != nil {
		return "", err
	}
	if id == "" {
		if id, err = newUUID(); err != nil {
			return "", err
		}
	}

	now := time.Now().UTC()
	a.AuthorID = id
	if a.CreatedAt.IsZero() {
		a.CreatedAt = now
	}
	a.UpdatedAt = now

	_, err = pool.Exec(ctx, `
        INSERT INTO authors (author_id, name, bio, deleted, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6)
        ON CONFLICT (author_id) DO UPDATE
        SET name = EXCLUDED.name, bio = EXCLUDED.bio, deleted = EXCLUDED.deleted,
            updated_at = EXCLUDED.updated_at`,
		id, a.Name, a.Bio, a.Deleted, a.CreatedAt, a.UpdatedAt,
	)
	if err != nil {
		return "", fmt.Errorf("failed to persist author: %w", mapPgError(err))
	}
	return id, nil
}

func (at *authorsTable) Patch(ctx context.Context, id, field string, value any) error {
	if id == "" {
		return types.ErrInvalidID
	}
	pool, err := at.backend.getPool()
	if err != nil {
		return err
	}
	return pgx.BeginFunc(ctx, pool, func(tx pgx.Tx) error {
		a, err := scanAuthor(tx.QueryRow(ctx, selectAuthor+" WHERE author_id = $1 FOR UPDATE", id))
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return types.ErrNotFound
			}
			return fmt.Errorf("failed to lock author: %w", err)
		}
		if err := a.SetField(field, value); err != nil {
			return fmt.Errorf("patching author %s field %q: %w", id, field, err)
		}
		_, err = tx.Exec(ctx,
			"UPDATE authors SET name = $1, bio = $2, deleted = $3, updated_at = $4 WHERE author_id = $5",
			a.Name, a.Bio, a.Deleted, a.UpdatedAt, id,
		)
		if err != nil {
			return fmt.Errorf("failed to update author: %w", err)
		}
		return nil
	})
}

// Delete removes an author; its books go with it through ON DELETE CASCADE.
func (at *authorsTable) Delete(ctx context.Context, id string) error {
	if id == "" {
		return types.ErrInvalidID
	}
	pool, err := at.backend.getPool()
	if err != nil {
		return err
	}
	tag, err := pool.Exec(ctx, "DELETE FROM authors WHERE author_id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete author: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return types.ErrNotFound
	}
	return nil
}

func (at *authorsTable) Fetch(ctx context.Context, filter types.Filter) ([]any, error) {
	query := selectAuthor
	var args []any
	if v, ok := filter[types.FilterDeleted]; ok {
		deleted, ok := v.(bool)
		if !ok {
			return nil, types.ErrInvalidFilter
		}
		query += " WHERE deleted = $1"
		args = append(args, deleted)
	}
	query += " ORDER BY created_at, author_id"

	pool, err := at.backend.getPool()
	if err != nil {
		return nil, err
	}
	rows, err := pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list authors: %w", err)
	}
	defer rows.Close()

	results := []any{}
	for rows.Next() {
		a, err := scanAuthor(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan author: %w", err)
		}
		results = append(results, a)
	}
	return results, rows.Err()
}

type booksTable struct {
	backend *Backend
}

const selectBook = `SELECT book_id, author_id, title, description, stock, COALESCE(price::text, ''),
    currency_code, created_at, updated_at FROM books`

func scanBook(row pgx.Row) (*types.Book, error) {
	var b types.Book
	if err := row.Scan(&b.BookID, &b.AuthorID, &b.Title, &b.Description, &b.Stock, &b.Price,
		&b.Currency.Code, &b.CreatedAt, &b.UpdatedAt); err != nil {
		return nil, err
	}
	b.CreatedAt, b.UpdatedAt = b.CreatedAt.UTC(), b.UpdatedAt.UTC()
	return &b, nil
}

func (bt *booksTable) Get(ctx context.Context, id string) (any, error) {
	if id == "" {
		return nil, types.ErrInvalidID
	}
	pool, err := bt.backend.getPool()
	if err != nil {
		return nil, err
	}
	b, err := scanBook(pool.QueryRow(ctx, selectBook+" WHERE book_id = $1", id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, types.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get book: %w", err)
	}
	return b, nil
}

// Set upserts a book. A missing author surfaces as ErrInvalidData through the
// foreign key.
func (bt *booksTable) Set(ctx context.Context, id string, data any) (string, error) {
	b, ok := data.(*types.Book)
	if !ok || b == nil {
		return "", types.ErrInvalidData
	}
	if strings.TrimSpace(b.Title) == "" {
		return "", types.ErrInvalidName
	}
	if b.AuthorID == "" {
		return "", fmt.Errorf("book without author: %w", types.ErrInvalidData)
	}
	pool, err := bt.backend.getPool()
	if err != nil {
		return "", err
	}
	if id == "" {
		if id, err = newUUID(); err != nil {
			return "", err
		}
	}

	now := time.Now().UTC()
	b.BookID = id
	if b.CreatedAt.IsZero() {
		b.CreatedAt = now
	}
	b.UpdatedAt = now

	_, err = pool.Exec(ctx, `
        INSERT INTO books (book_id, author_id, title, description, stock, price, currency_code,
            created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, NULLIF($6, '')::numeric, $7, $8, $9)
        ON CONFLICT (book_id) DO UPDATE
        SET author_id = EXCLUDED.author_id, title = EXCLUDED.title,
            description = EXCLUDED.description, stock = EXCLUDED.stock, price = EXCLUDED.price,
            currency_code = EXCLUDED.currency_code, updated_at = EXCLUDED.updated_at`,
		id, b.AuthorID, b.Title, b.Description, b.Stock, b.Price, b.Currency.Code, b.CreatedAt, b.UpdatedAt,
	)
	if err != nil {
		return "", fmt.Errorf("failed to persist book: %w", mapPgError(err))
	}
	return id, nil
}

func (bt *booksTable) Patch(ctx context.Context, id, field string, value any) error {
	if id == "" {
		return types.ErrInvalidID
	}
	pool, err := bt.backend.getPool()
	if err != nil {
		return err
	}
	return pgx.BeginFunc(ctx, pool, func(tx pgx.Tx) error {
		b, err := scanBook(tx.QueryRow(ctx, selectBook+" WHERE book_id = $1 FOR UPDATE", id))
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return types.ErrNotFound
			}
			return fmt.Errorf("failed to lock book: %w", err)
		}
		if err := b.SetField(field, value); err != nil {
			return fmt.Errorf("patching book %s field %q: %w", id, field, err)
		}
		_, err = tx.Exec(ctx, `
            UPDATE books SET title = $1, description = $2, stock = $3, price = NULLIF($4, '')::numeric,
                currency_code = $5, updated_at = $6 WHERE book_id = $7`,
			b.Title, b.Description, b.Stock, b.Price, b.Currency.Code, b.UpdatedAt, id,
		)
		if err != nil {
			return fmt.Errorf("failed to update book: %w", mapPgError(err))
		}
		return nil
	})
}

func (bt *booksTable) Delete(ctx context.Context, id string) error {
	if id == "" {
		return types.ErrInvalidID
	}
	pool, err := bt.backend.getPool()
	if err != nil {
		return err
	}
	tag, err := pool.Exec(ctx, "DELETE FROM books WHERE book_id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete book: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return types.ErrNotFound
	}
	return nil
}

func (bt *booksTable) Fetch(ctx context.Context, filter types.Filter) ([]any, error) {
	query := selectBook
	var args []any
	if v, ok := filter[types.FilterAuthorID]; ok {
		authorID, ok := v.(string)
		if !ok {
			return nil, types.ErrInvalidFilter
		}
		query += " WHERE author_id = $1"
		args = append(args, authorID)
	}
	query += " ORDER BY created_at, book_id"

	pool, err := bt.backend.getPool()
	if err != nil {
		return nil, err
	}
	rows, err := pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list books: %w", err)
	}
	defer rows.Close()

	results := []any{}
	for rows.Next() {
		b, err := scanBook(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan book: %w", err)
		}
		results = append(results, b)
	}
	return results, rows.Err()
}
