// Package sqlite implements the SQLite storage backend for the catalog.
package sqlite

// Schema DDL for the Authors and Books tables. Statements are idempotent so
// Attach can run them against an existing database file.
const (
	createAuthors = `CREATE TABLE IF NOT EXISTS authors (
    author_id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    bio TEXT NOT NULL DEFAULT '',
    deleted INTEGER NOT NULL DEFAULT 0,
    created_at TEXT NOT NULL,
    updated_at TEXT NOT NULL
);`

	createBooks = `CREATE TABLE IF NOT EXISTS books (
    book_id TEXT PRIMARY KEY,
    author_id TEXT NOT NULL,
    title TEXT NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    stock INTEGER NOT NULL DEFAULT 0,
    price TEXT NOT NULL DEFAULT '',
    currency_code TEXT NOT NULL DEFAULT '',
    created_at TEXT NOT NULL,
    updated_at TEXT NOT NULL,
    FOREIGN KEY (author_id) REFERENCES authors(author_id)
);`

	createBooksAuthorIndex    = `CREATE INDEX IF NOT EXISTS idx_books_author_id ON books(author_id);`
	createAuthorsDeletedIndex = `CREATE INDEX IF NOT EXISTS idx_authors_deleted ON authors(deleted);`
)

// schemaStatements lists the DDL in execution order.
var schemaStatements = []string{
	createAuthors,
	createBooks,
	createBooksAuthorIndex,
	createAuthorsDeletedIndex,
}
