package sqlite

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/catalog/pkg/types"
)

// setupBackend creates an attached Backend rooted in a temp dir. Detach runs
// on test cleanup.
func setupBackend(t *testing.T) *Backend {
	t.Helper()
	b := NewBackend()
	config := types.Config{
		Backend: types.BackendSQLite,
		DataDir: t.TempDir(),
	}
	require.NoError(t, b.Attach(config))
	t.Cleanup(func() { b.Detach() })
	return b
}

func mustTable(t *testing.T, b *Backend, name string) types.Table {
	t.Helper()
	table, err := b.GetTable(name)
	require.NoError(t, err)
	return table
}

func createAuthor(t *testing.T, b *Backend, name string) string {
	t.Helper()
	id, err := mustTable(t, b, types.AuthorsTable).Set(context.Background(), "", &types.Author{Name: name})
	require.NoError(t, err)
	return id
}

func TestBackend_Attach(t *testing.T) {
	tmpDir := t.TempDir()

	b := NewBackend()
	config := types.Config{
		Backend: types.BackendSQLite,
		DataDir: tmpDir,
	}
	require.NoError(t, b.Attach(config))
	defer b.Detach()

	_, err := os.Stat(filepath.Join(tmpDir, DBFileName))
	assert.NoError(t, err, "catalog.db should be created")

	assert.ErrorIs(t, b.Attach(config), types.ErrAlreadyAttached)
}

func TestBackend_AttachRejectsOtherBackends(t *testing.T) {
	b := NewBackend()
	err := b.Attach(types.Config{Backend: types.BackendRemote, RemoteURL: "http://localhost"})
	assert.ErrorIs(t, err, types.ErrBackendUnknown)

	err = b.Attach(types.Config{})
	assert.ErrorIs(t, err, types.ErrBackendEmpty)
}

func TestBackend_Detach(t *testing.T) {
	b := NewBackend()
	require.NoError(t, b.Attach(types.Config{Backend: types.BackendSQLite, DataDir: t.TempDir()}))
	table, err := b.GetTable(types.AuthorsTable)
	require.NoError(t, err)

	require.NoError(t, b.Detach())
	assert.NoError(t, b.Detach(), "Detach is idempotent")

	_, err = b.GetTable(types.AuthorsTable)
	assert.ErrorIs(t, err, types.ErrCupboardDetached)

	_, err = table.Fetch(context.Background(), nil)
	assert.ErrorIs(t, err, types.ErrCupboardDetached)
}

func TestBackend_DataPersistsAcrossReattach(t *testing.T) {
	dir := t.TempDir()
	config := types.Config{Backend: types.BackendSQLite, DataDir: dir}

	b := NewBackend()
	require.NoError(t, b.Attach(config))
	id := createAuthor(t, b, "Octavia E. Butler")
	require.NoError(t, b.Detach())

	b2 := NewBackend()
	require.NoError(t, b2.Attach(config))
	defer b2.Detach()

	got, err := mustTable(t, b2, types.AuthorsTable).Get(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "Octavia E. Butler", got.(*types.Author).Name)
}

func TestBackend_GetTable(t *testing.T) {
	b := setupBackend(t)

	for _, name := range types.StandardTableNames {
		_, err := b.GetTable(name)
		assert.NoError(t, err, name)
	}
	_, err := b.GetTable("publishers")
	assert.ErrorIs(t, err, types.ErrTableNotFound)
}

func TestAuthorsTable_CRUD(t *testing.T) {
	tests := []struct {
		name  string
		check func(t *testing.T, b *Backend)
	}{
		{
			name: "create generates id and timestamps",
			check: func(t *testing.T, b *Backend) {
				ctx := context.Background()
				table := mustTable(t, b, types.AuthorsTable)
				id, err := table.Set(ctx, "", &types.Author{Name: "Jane Doe", Bio: "Writer"})
				require.NoError(t, err)
				assert.NotEmpty(t, id)

				got, err := table.Get(ctx, id)
				require.NoError(t, err)
				a := got.(*types.Author)
				assert.Equal(t, "Jane Doe", a.Name)
				assert.Equal(t, "Writer", a.Bio)
				assert.False(t, a.Deleted)
				assert.False(t, a.CreatedAt.IsZero())
			},
		},
		{
			name: "empty name rejected",
			check: func(t *testing.T, b *Backend) {
				_, err := mustTable(t, b, types.AuthorsTable).Set(context.Background(), "", &types.Author{Name: "  "})
				assert.ErrorIs(t, err, types.ErrInvalidName)
			},
		},
		{
			name: "wrong entity type rejected",
			check: func(t *testing.T, b *Backend) {
				_, err := mustTable(t, b, types.AuthorsTable).Set(context.Background(), "", &types.Book{Title: "x"})
				assert.ErrorIs(t, err, types.ErrInvalidData)
			},
		},
		{
			name: "patch updates one field",
			check: func(t *testing.T, b *Backend) {
				ctx := context.Background()
				table := mustTable(t, b, types.AuthorsTable)
				id := createAuthor(t, b, "Before")

				require.NoError(t, table.Patch(ctx, id, types.AuthorFieldName, "After"))
				got, err := table.Get(ctx, id)
				require.NoError(t, err)
				assert.Equal(t, "After", got.(*types.Author).Name)
			},
		},
		{
			name: "patch unknown field and unknown id",
			check: func(t *testing.T, b *Backend) {
				ctx := context.Background()
				table := mustTable(t, b, types.AuthorsTable)
				id := createAuthor(t, b, "Someone")

				assert.ErrorIs(t, table.Patch(ctx, id, "slug", "x"), types.ErrInvalidField)
				assert.ErrorIs(t, table.Patch(ctx, "missing", types.AuthorFieldBio, "x"), types.ErrNotFound)
				assert.ErrorIs(t, table.Patch(ctx, "", types.AuthorFieldBio, "x"), types.ErrInvalidID)
			},
		},
		{
			name: "soft delete keeps the row",
			check: func(t *testing.T, b *Backend) {
				ctx := context.Background()
				table := mustTable(t, b, types.AuthorsTable)
				id := createAuthor(t, b, "Archived")

				require.NoError(t, table.Patch(ctx, id, types.AuthorFieldDeleted, true))

				got, err := table.Get(ctx, id)
				require.NoError(t, err)
				assert.True(t, got.(*types.Author).Deleted)

				live, err := table.Fetch(ctx, types.Filter{types.FilterDeleted: false})
				require.NoError(t, err)
				assert.Empty(t, live)
			},
		},
		{
			name: "hard delete removes the row and its books",
			check: func(t *testing.T, b *Backend) {
				ctx := context.Background()
				authors := mustTable(t, b, types.AuthorsTable)
				books := mustTable(t, b, types.BooksTable)
				id := createAuthor(t, b, "Gone")
				_, err := books.Set(ctx, "", &types.Book{AuthorID: id, Title: "Orphan"})
				require.NoError(t, err)

				require.NoError(t, authors.Delete(ctx, id))

				_, err = authors.Get(ctx, id)
				assert.ErrorIs(t, err, types.ErrNotFound)
				all, err := authors.Fetch(ctx, nil)
				require.NoError(t, err)
				assert.Empty(t, all)
				left, err := books.Fetch(ctx, types.Filter{types.FilterAuthorID: id})
				require.NoError(t, err)
				assert.Empty(t, left)

				assert.ErrorIs(t, authors.Delete(ctx, id), types.ErrNotFound)
			},
		},
		{
			name: "fetch returns creation order and rejects bad filter types",
			check: func(t *testing.T, b *Backend) {
				ctx := context.Background()
				table := mustTable(t, b, types.AuthorsTable)
				first := createAuthor(t, b, "First")
				second := createAuthor(t, b, "Second")

				all, err := table.Fetch(ctx, nil)
				require.NoError(t, err)
				require.Len(t, all, 2)
				assert.Equal(t, first, all[0].(*types.Author).AuthorID)
				assert.Equal(t, second, all[1].(*types.Author).AuthorID)

				_, err = table.Fetch(ctx, types.Filter{types.FilterDeleted: "no"})
				assert.ErrorIs(t, err, types.ErrInvalidFilter)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.check(t, setupBackend(t))
		})
	}
}

func TestBooksTable_CRUD(t *testing.T) {
	tests := []struct {
		name  string
		check func(t *testing.T, b *Backend)
	}{
		{
			name: "create keeps price text and currency",
			check: func(t *testing.T, b *Backend) {
				ctx := context.Background()
				books := mustTable(t, b, types.BooksTable)
				authorID := createAuthor(t, b, "Owner")

				id, err := books.Set(ctx, "", &types.Book{
					AuthorID:    authorID,
					Title:       "Kindred",
					Description: "Novel",
					Stock:       10,
					Price:       "12.50",
					Currency:    types.Currency{Code: "USD"},
				})
				require.NoError(t, err)

				got, err := books.Get(ctx, id)
				require.NoError(t, err)
				bk := got.(*types.Book)
				assert.Equal(t, authorID, bk.AuthorID)
				assert.Equal(t, 10, bk.Stock)
				assert.Equal(t, "12.50", bk.Price)
				assert.Equal(t, "USD", bk.Currency.Code)
			},
		},
		{
			name: "unknown author rejected",
			check: func(t *testing.T, b *Backend) {
				_, err := mustTable(t, b, types.BooksTable).Set(context.Background(), "",
					&types.Book{AuthorID: "nobody", Title: "Lost"})
				assert.ErrorIs(t, err, types.ErrInvalidData)
			},
		},
		{
			name: "missing author id rejected",
			check: func(t *testing.T, b *Backend) {
				_, err := mustTable(t, b, types.BooksTable).Set(context.Background(), "", &types.Book{Title: "Lost"})
				assert.ErrorIs(t, err, types.ErrInvalidData)
			},
		},
		{
			name: "fetch filters by author",
			check: func(t *testing.T, b *Backend) {
				ctx := context.Background()
				books := mustTable(t, b, types.BooksTable)
				a := createAuthor(t, b, "A")
				c := createAuthor(t, b, "C")
				_, err := books.Set(ctx, "", &types.Book{AuthorID: a, Title: "A1"})
				require.NoError(t, err)
				_, err = books.Set(ctx, "", &types.Book{AuthorID: a, Title: "A2"})
				require.NoError(t, err)
				_, err = books.Set(ctx, "", &types.Book{AuthorID: c, Title: "C1"})
				require.NoError(t, err)

				got, err := books.Fetch(ctx, types.Filter{types.FilterAuthorID: a})
				require.NoError(t, err)
				require.Len(t, got, 2)
				for _, e := range got {
					assert.Equal(t, a, e.(*types.Book).AuthorID)
				}

				all, err := books.Fetch(ctx, nil)
				require.NoError(t, err)
				assert.Len(t, all, 3)
			},
		},
		{
			name: "patch stock and delete",
			check: func(t *testing.T, b *Backend) {
				ctx := context.Background()
				books := mustTable(t, b, types.BooksTable)
				id, err := books.Set(ctx, "", &types.Book{AuthorID: createAuthor(t, b, "S"), Title: "Stocked"})
				require.NoError(t, err)

				require.NoError(t, books.Patch(ctx, id, types.BookFieldStock, float64(4)))
				got, err := books.Get(ctx, id)
				require.NoError(t, err)
				assert.Equal(t, 4, got.(*types.Book).Stock)

				require.NoError(t, books.Delete(ctx, id))
				assert.ErrorIs(t, books.Delete(ctx, id), types.ErrNotFound)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.check(t, setupBackend(t))
		})
	}
}
