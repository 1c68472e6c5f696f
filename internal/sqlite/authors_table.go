package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/mesh-intelligence/catalog/pkg/types"
)

var _ types.Table = (*authorsTable)(nil)

// authorsTable implements the Table interface for the Authors entity path.
// Each operation hydrates/dehydrates between SQLite rows and *types.Author.
type authorsTable struct {
	backend *Backend
}

const selectAuthor = "SELECT author_id, name, bio, deleted, created_at, updated_at FROM authors"

// Get retrieves an author by ID, including soft-deleted rows.
func (at *authorsTable) Get(ctx context.Context, id string) (any, error) {
	if id == "" {
		return nil, types.ErrInvalidID
	}
	db, release, err := at.backend.readDB()
	if err != nil {
		return nil, err
	}
	defer release()

	return getAuthor(ctx, db, id)
}

func getAuthor(ctx context.Context, q querier, id string) (*types.Author, error) {
	row := q.QueryRowContext(ctx, selectAuthor+" WHERE author_id = ?", id)
	a, err := hydrateAuthor(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, types.ErrNotFound
		}
		return nil, fmt.Errorf("getting author %s: %w", id, err)
	}
	return a, nil
}

// Set inserts or replaces an author. An empty id creates a new row with a
// generated UUID v7; a non-empty id updates the row, or inserts it under that
// id when absent (used by snapshot import).
func (at *authorsTable) Set(ctx context.Context, id string, data any) (string, error) {
	a, ok := data.(*types.Author)
	if !ok || a == nil {
		return "", types.ErrInvalidData
	}

	db, release, err := at.backend.writeDB()
	if err != nil {
		return "", err
	}
	defer release()

	return putAuthor(ctx, db, id, a)
}

// putAuthor upserts a on q, generating an id when id is empty.
func putAuthor(ctx context.Context, q execer, id string, a *types.Author) (string, error) {
	if strings.TrimSpace(a.Name) == "" {
		return "", types.ErrInvalidName
	}

	now := time.Now().UTC()
	if id == "" {
		newID, err := newUUID()
		if err != nil {
			return "", err
		}
		id = newID
	}
	a.AuthorID = id
	if a.CreatedAt.IsZero() {
		a.CreatedAt = now
	}
	a.UpdatedAt = now

	exists, err := rowExists(ctx, q, "SELECT 1 FROM authors WHERE author_id = ?", id)
	if err != nil {
		return "", fmt.Errorf("checking author existence: %w", err)
	}

	if exists {
		_, err = q.ExecContext(ctx,
			"UPDATE authors SET name = ?, bio = ?, deleted = ?, updated_at = ? WHERE author_id = ?",
			a.Name, a.Bio, boolToInt(a.Deleted), formatTime(a.UpdatedAt), id,
		)
	} else {
		_, err = q.ExecContext(ctx,
			"INSERT INTO authors (author_id, name, bio, deleted, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)",
			id, a.Name, a.Bio, boolToInt(a.Deleted), formatTime(a.CreatedAt), formatTime(a.UpdatedAt),
		)
	}
	if err != nil {
		return "", fmt.Errorf("persisting author: %w", err)
	}
	return id, nil
}

// Patch sets one mutable field on an existing author inside a transaction.
func (at *authorsTable) Patch(ctx context.Context, id, field string, value any) error {
	if id == "" {
		return types.ErrInvalidID
	}
	db, release, err := at.backend.writeDB()
	if err != nil {
		return err
	}
	defer release()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	a, err := getAuthor(ctx, tx, id)
	if err != nil {
		return err
	}
	if err := a.SetField(field, value); err != nil {
		return fmt.Errorf("patching author %s field %q: %w", id, field, err)
	}

	if _, err := tx.ExecContext(ctx,
		"UPDATE authors SET name = ?, bio = ?, deleted = ?, updated_at = ? WHERE author_id = ?",
		a.Name, a.Bio, boolToInt(a.Deleted), formatTime(a.UpdatedAt), id,
	); err != nil {
		return fmt.Errorf("updating author: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing author patch: %w", err)
	}
	return nil
}

// Delete permanently removes an author and cascades to the author's books.
func (at *authorsTable) Delete(ctx context.Context, id string) error {
	if id == "" {
		return types.ErrInvalidID
	}
	db, release, err := at.backend.writeDB()
	if err != nil {
		return err
	}
	defer release()

	exists, err := rowExists(ctx, db, "SELECT 1 FROM authors WHERE author_id = ?", id)
	if err != nil {
		return fmt.Errorf("checking author existence: %w", err)
	}
	if !exists {
		return types.ErrNotFound
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM books WHERE author_id = ?", id); err != nil {
		return fmt.Errorf("deleting author books: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM authors WHERE author_id = ?", id); err != nil {
		return fmt.Errorf("deleting author: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing author deletion: %w", err)
	}
	return nil
}

// Fetch queries authors ordered by creation time. The only recognized filter
// key is FilterDeleted (bool).
func (at *authorsTable) Fetch(ctx context.Context, filter types.Filter) ([]any, error) {
	query := selectAuthor
	var args []any

	deleted, ok, err := filterBool(filter, types.FilterDeleted)
	if err != nil {
		return nil, err
	}
	if ok {
		query += " WHERE deleted = ?"
		args = append(args, boolToInt(deleted))
	}
	query += " ORDER BY created_at, rowid"

	db, release, err := at.backend.readDB()
	if err != nil {
		return nil, err
	}
	defer release()

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("fetching authors: %w", err)
	}
	defer rows.Close()

	results := []any{}
	for rows.Next() {
		a, err := hydrateAuthor(rows)
		if err != nil {
			return nil, fmt.Errorf("hydrating author: %w", err)
		}
		results = append(results, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating authors: %w", err)
	}
	return results, nil
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func hydrateAuthor(row scanner) (*types.Author, error) {
	var a types.Author
	var deleted int
	var createdAt, updatedAt string
	if err := row.Scan(&a.AuthorID, &a.Name, &a.Bio, &deleted, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	a.Deleted = deleted != 0

	var err error
	if a.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, fmt.Errorf("parsing author created_at: %w", err)
	}
	if a.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, fmt.Errorf("parsing author updated_at: %w", err)
	}
	return &a, nil
}
