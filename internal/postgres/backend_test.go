package postgres

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/catalog/pkg/types"
)

// EnvTestDSN names the database used by these tests. They are skipped when
// it is unset.
const EnvTestDSN = "CATALOG_POSTGRES_DSN"

func setupBackend(t *testing.T) *Backend {
	t.Helper()
	dsn := os.Getenv(EnvTestDSN)
	if dsn == "" {
		t.Skipf("%s not set", EnvTestDSN)
	}

	b := NewBackend()
	require.NoError(t, b.Attach(types.Config{Backend: types.BackendPostgres, PostgresDSN: dsn}))
	t.Cleanup(func() { b.Detach() })

	pool, err := b.getPool()
	require.NoError(t, err)
	_, err = pool.Exec(context.Background(), "TRUNCATE books, authors")
	require.NoError(t, err)
	return b
}

func TestAttachValidation(t *testing.T) {
	b := NewBackend()
	assert.ErrorIs(t, b.Attach(types.Config{Backend: types.BackendPostgres}), types.ErrDSNEmpty)
	assert.ErrorIs(t, b.Attach(types.Config{Backend: types.BackendSQLite}), types.ErrBackendUnknown)

	_, err := b.GetTable(types.AuthorsTable)
	assert.ErrorIs(t, err, types.ErrCupboardDetached)
	assert.NoError(t, b.Detach())
}

func TestAuthorsAndBooks(t *testing.T) {
	ctx := context.Background()
	b := setupBackend(t)

	authors, err := b.GetTable(types.AuthorsTable)
	require.NoError(t, err)
	books, err := b.GetTable(types.BooksTable)
	require.NoError(t, err)

	authorID, err := authors.Set(ctx, "", &types.Author{Name: "Ursula", Bio: "Earthsea"})
	require.NoError(t, err)

	bookID, err := books.Set(ctx, "", &types.Book{
		AuthorID: authorID,
		Title:    "A Wizard of Earthsea",
		Stock:    3,
		Price:    "18.50",
		Currency: types.Currency{Code: "USD"},
	})
	require.NoError(t, err)

	got, err := books.Get(ctx, bookID)
	require.NoError(t, err)
	assert.Equal(t, "18.50", got.(*types.Book).Price)

	_, err = books.Set(ctx, "", &types.Book{AuthorID: "ghost", Title: "Orphan"})
	assert.ErrorIs(t, err, types.ErrInvalidData)

	require.NoError(t, authors.Patch(ctx, authorID, types.AuthorFieldDeleted, true))
	live, err := authors.Fetch(ctx, types.Filter{types.FilterDeleted: false})
	require.NoError(t, err)
	assert.Empty(t, live)

	a, err := authors.Get(ctx, authorID)
	require.NoError(t, err)
	assert.True(t, a.(*types.Author).Deleted)

	require.NoError(t, authors.Delete(ctx, authorID))
	_, err = books.Get(ctx, bookID)
	assert.ErrorIs(t, err, types.ErrNotFound, "books cascade with their author")
	assert.ErrorIs(t, authors.Delete(ctx, authorID), types.ErrNotFound)
}

func TestFetchRejectsBadFilter(t *testing.T) {
	b := setupBackend(t)
	books, err := b.GetTable(types.BooksTable)
	require.NoError(t, err)

	_, err = books.Fetch(context.Background(), types.Filter{types.FilterAuthorID: 7})
	assert.ErrorIs(t, err, types.ErrInvalidFilter)
}
