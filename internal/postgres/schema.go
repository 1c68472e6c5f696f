// Package postgres implements the Cupboard interface on PostgreSQL through a
// pgx connection pool. Books reference their author with ON DELETE CASCADE,
// so a hard author delete removes the author's books in the same statement.
package postgres

const (
	createAuthors = `
CREATE TABLE IF NOT EXISTS authors (
    author_id  TEXT PRIMARY KEY,
    name       TEXT NOT NULL,
    bio        TEXT NOT NULL DEFAULT '',
    deleted    BOOLEAN NOT NULL DEFAULT FALSE,
    created_at TIMESTAMPTZ NOT NULL,
    updated_at TIMESTAMPTZ NOT NULL
)`

	createBooks = `
CREATE TABLE IF NOT EXISTS books (
    book_id       TEXT PRIMARY KEY,
    author_id     TEXT NOT NULL REFERENCES authors(author_id) ON DELETE CASCADE,
    title         TEXT NOT NULL,
    description   TEXT NOT NULL DEFAULT '',
    stock         INTEGER NOT NULL DEFAULT 0,
    price         NUMERIC,
    currency_code TEXT NOT NULL DEFAULT '',
    created_at    TIMESTAMPTZ NOT NULL,
    updated_at    TIMESTAMPTZ NOT NULL
)`

	createBooksAuthorIndex    = `CREATE INDEX IF NOT EXISTS idx_books_author_id ON books(author_id)`
	createAuthorsDeletedIndex = `CREATE INDEX IF NOT EXISTS idx_authors_deleted ON authors(deleted)`
)

var schemaStatements = []string{
	createAuthors,
	createBooks,
	createBooksAuthorIndex,
	createAuthorsDeletedIndex,
}
