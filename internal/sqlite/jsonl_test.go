package sqlite

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/catalog/pkg/types"
)

func TestExportImport_Roundtrip(t *testing.T) {
	ctx := context.Background()
	src := setupBackend(t)

	authorID := createAuthor(t, src, "Exported")
	require.NoError(t, mustTable(t, src, types.AuthorsTable).Patch(ctx, authorID, types.AuthorFieldDeleted, true))
	_, err := mustTable(t, src, types.BooksTable).Set(ctx, "", &types.Book{
		AuthorID: authorID,
		Title:    "Snapshot",
		Stock:    2,
		Price:    "9.99",
		Currency: types.Currency{Code: "EUR"},
	})
	require.NoError(t, err)

	snap := t.TempDir()
	stats, err := src.Export(ctx, snap)
	require.NoError(t, err)
	assert.Equal(t, SnapshotStats{Authors: 1, Books: 1}, stats)

	dst := setupBackend(t)
	stats, err = dst.Import(ctx, snap)
	require.NoError(t, err)
	assert.Equal(t, SnapshotStats{Authors: 1, Books: 1}, stats)

	got, err := mustTable(t, dst, types.AuthorsTable).Get(ctx, authorID)
	require.NoError(t, err)
	assert.True(t, got.(*types.Author).Deleted, "soft-delete flag survives the snapshot")

	books, err := mustTable(t, dst, types.BooksTable).Fetch(ctx, types.Filter{types.FilterAuthorID: authorID})
	require.NoError(t, err)
	require.Len(t, books, 1)
	assert.Equal(t, "9.99", books[0].(*types.Book).Price)
}

func TestImport_SkipsMalformedLinesAndMissingFiles(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	content := "{\"author_id\":\"a-1\",\"name\":\"Valid\"}\nnot json\n\n{\"name\":\"no id\"}\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, AuthorsJSONL), []byte(content), 0o644))

	b := setupBackend(t)
	stats, err := b.Import(ctx, dir)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Authors)
	assert.Equal(t, 0, stats.Books)
}

func TestExportImport_LongDescription(t *testing.T) {
	ctx := context.Background()
	src := setupBackend(t)

	authorID := createAuthor(t, src, "Verbose")
	description := strings.Repeat("chapter and verse ", 70*1024/18+1)
	require.Greater(t, len(description), 64*1024)
	bookID, err := mustTable(t, src, types.BooksTable).Set(ctx, "", &types.Book{
		AuthorID:    authorID,
		Title:       "Long",
		Description: description,
		Stock:       1,
		Price:       "1.00",
		Currency:    types.Currency{Code: "EUR"},
	})
	require.NoError(t, err)

	snap := t.TempDir()
	_, err = src.Export(ctx, snap)
	require.NoError(t, err)

	dst := setupBackend(t)
	stats, err := dst.Import(ctx, snap)
	require.NoError(t, err)
	assert.Equal(t, SnapshotStats{Authors: 1, Books: 1}, stats)

	got, err := mustTable(t, dst, types.BooksTable).Get(ctx, bookID)
	require.NoError(t, err)
	assert.Equal(t, description, got.(*types.Book).Description)
}

func TestImport_RollsBackOnFailedRecord(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	authors := "{\"author_id\":\"a-1\",\"name\":\"Kept only on success\"}\n"
	books := "{\"book_id\":\"b-1\",\"author_id\":\"missing\",\"title\":\"Orphan\",\"price\":\"1.00\"}\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, AuthorsJSONL), []byte(authors), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, BooksJSONL), []byte(books), 0o644))

	b := setupBackend(t)
	stats, err := b.Import(ctx, dir)
	require.Error(t, err)
	assert.ErrorIs(t, err, types.ErrInvalidData)
	assert.Equal(t, SnapshotStats{}, stats)

	_, err = mustTable(t, b, types.AuthorsTable).Get(ctx, "a-1")
	assert.ErrorIs(t, err, types.ErrNotFound, "authors are not committed when a book fails")
}

func TestReadJSONL_LastLineWithoutNewline(t *testing.T) {
	path := filepath.Join(t.TempDir(), "x.jsonl")
	require.NoError(t, os.WriteFile(path, []byte("{\"a\":1}\n{\"b\":2}"), 0o644))

	records, err := readJSONL(path)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.JSONEq(t, `{"b":2}`, string(records[1]))
}

func TestWriteJSONL_Atomic(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "x.jsonl")
	require.NoError(t, writeJSONL(path, nil))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1, "temp file must be renamed away")

	records, err := readJSONL(path)
	require.NoError(t, err)
	assert.Empty(t, records)
}
