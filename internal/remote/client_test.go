package remote

import (
	"context"
	"errors"
	"go/parser"
	"go/token"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/catalog/internal/server"
	"github.com/mesh-intelligence/catalog/internal/sqlite"
	"github.com/mesh-intelligence/catalog/pkg/types"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// setupRemote starts a data service over a fresh sqlite store and returns a
// remote backend attached to it.
func setupRemote(t *testing.T) (*Backend, *sqlite.Backend) {
	t.Helper()
	store := sqlite.NewBackend()
	require.NoError(t, store.Attach(types.Config{Backend: types.BackendSQLite, DataDir: t.TempDir()}))
	t.Cleanup(func() { store.Detach() })

	srv := httptest.NewServer(server.NewRouter(store, zerolog.Nop()))
	t.Cleanup(srv.Close)

	b := NewBackend()
	require.NoError(t, b.Attach(types.Config{Backend: types.BackendRemote, RemoteURL: srv.URL + "/"}))
	t.Cleanup(func() { b.Detach() })
	return b, store
}

func table(t *testing.T, b types.Cupboard, name string) types.Table {
	t.Helper()
	tbl, err := b.GetTable(name)
	require.NoError(t, err)
	return tbl
}

func TestAttach(t *testing.T) {
	tests := []struct {
		name   string
		config types.Config
		err    error
	}{
		{"wrong backend", types.Config{Backend: types.BackendSQLite}, types.ErrBackendUnknown},
		{"missing url", types.Config{Backend: types.BackendRemote}, types.ErrRemoteURLEmpty},
		{"url without host", types.Config{Backend: types.BackendRemote, RemoteURL: "catalog"}, types.ErrRemoteURLEmpty},
		{"valid", types.Config{Backend: types.BackendRemote, RemoteURL: "http://localhost:1"}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewBackend()
			err := b.Attach(tt.config)
			if tt.err != nil {
				assert.ErrorIs(t, err, tt.err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, DefaultTimeout, b.client.Timeout)
			assert.ErrorIs(t, b.Attach(tt.config), types.ErrAlreadyAttached)
		})
	}
}

func TestGetTable_Detached(t *testing.T) {
	b := NewBackend()
	_, err := b.GetTable(types.AuthorsTable)
	assert.ErrorIs(t, err, types.ErrCupboardDetached)

	require.NoError(t, b.Attach(types.Config{Backend: types.BackendRemote, RemoteURL: "http://localhost:1", RemoteTimeout: time.Second}))
	_, err = b.GetTable("Publishers")
	assert.ErrorIs(t, err, types.ErrTableNotFound)

	require.NoError(t, b.Detach())
	require.NoError(t, b.Detach())
	_, err = b.GetTable(types.AuthorsTable)
	assert.ErrorIs(t, err, types.ErrCupboardDetached)
}

func TestHealth(t *testing.T) {
	b, store := setupRemote(t)
	require.NoError(t, b.Health(context.Background()))

	require.NoError(t, store.Detach())
	err := b.Health(context.Background())
	assert.ErrorIs(t, err, types.ErrCupboardDetached)

	var remoteErr *Error
	require.True(t, errors.As(err, &remoteErr))
	assert.Equal(t, http.StatusServiceUnavailable, remoteErr.Status)
}

func TestAuthorsOverRemote(t *testing.T) {
	ctx := context.Background()
	b, store := setupRemote(t)
	authors := table(t, b, types.AuthorsTable)

	id, err := authors.Set(ctx, "", &types.Author{Name: "Ursula", Bio: "Earthsea"})
	require.NoError(t, err)
	require.NotEmpty(t, id)

	got, err := authors.Get(ctx, id)
	require.NoError(t, err)
	author := got.(*types.Author)
	assert.Equal(t, "Ursula", author.Name)
	assert.Equal(t, "Earthsea", author.Bio)

	// The write landed in the service's store.
	local, err := table(t, store, types.AuthorsTable).Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Ursula", local.(*types.Author).Name)

	require.NoError(t, authors.Patch(ctx, id, types.AuthorFieldDeleted, true))
	live, err := authors.Fetch(ctx, types.Filter{"deleted": false})
	require.NoError(t, err)
	assert.Empty(t, live)
	all, err := authors.Fetch(ctx, nil)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.True(t, all[0].(*types.Author).Deleted)

	require.NoError(t, authors.Delete(ctx, id))
	_, err = authors.Get(ctx, id)
	assert.ErrorIs(t, err, types.ErrNotFound)
}

func TestBooksOverRemote(t *testing.T) {
	ctx := context.Background()
	b, _ := setupRemote(t)
	authors := table(t, b, types.AuthorsTable)
	books := table(t, b, types.BooksTable)

	authorID, err := authors.Set(ctx, "", &types.Author{Name: "Italo"})
	require.NoError(t, err)
	otherID, err := authors.Set(ctx, "", &types.Author{Name: "Jorge"})
	require.NoError(t, err)

	bookID, err := books.Set(ctx, "", &types.Book{AuthorID: authorID, Title: "Invisible Cities", Stock: 2, Price: "12.50", Currency: types.Currency{Code: "EUR"}})
	require.NoError(t, err)
	_, err = books.Set(ctx, "", &types.Book{AuthorID: otherID, Title: "Ficciones"})
	require.NoError(t, err)

	rows, err := books.Fetch(ctx, types.Filter{"author_id": authorID})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	book := rows[0].(*types.Book)
	assert.Equal(t, bookID, book.BookID)
	assert.Equal(t, "12.50", book.Price)
	assert.Equal(t, "EUR", book.Currency.Code)

	require.NoError(t, books.Patch(ctx, bookID, types.BookFieldStock, 7))
	got, err := books.Get(ctx, bookID)
	require.NoError(t, err)
	assert.Equal(t, 7, got.(*types.Book).Stock)

	// Hard delete of the author removes its books.
	require.NoError(t, authors.Delete(ctx, authorID))
	rows, err = books.Fetch(ctx, types.Filter{"author_id": authorID})
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestSetWithIDUpserts(t *testing.T) {
	ctx := context.Background()
	b, _ := setupRemote(t)
	authors := table(t, b, types.AuthorsTable)

	const id = "0190b8a0-0000-7000-8000-000000000001"
	got, err := authors.Set(ctx, id, &types.Author{AuthorID: id, Name: "Imported"})
	require.NoError(t, err)
	assert.Equal(t, id, got)

	_, err = authors.Set(ctx, id, &types.Author{AuthorID: id, Name: "Renamed"})
	require.NoError(t, err)
	row, err := authors.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", row.(*types.Author).Name)
}

func TestErrorsMapToSentinels(t *testing.T) {
	ctx := context.Background()
	b, _ := setupRemote(t)
	authors := table(t, b, types.AuthorsTable)
	id, err := authors.Set(ctx, "", &types.Author{Name: "Someone"})
	require.NoError(t, err)

	tests := []struct {
		name string
		call func() error
		want error
	}{
		{"get missing", func() error { _, err := authors.Get(ctx, "missing"); return err }, types.ErrNotFound},
		{"get empty id", func() error { _, err := authors.Get(ctx, ""); return err }, types.ErrInvalidID},
		{"set empty name", func() error { _, err := authors.Set(ctx, "", &types.Author{}); return err }, types.ErrInvalidName},
		{"set non-entity", func() error { _, err := authors.Set(ctx, "", "nope"); return err }, types.ErrInvalidData},
		{"patch unknown field", func() error { return authors.Patch(ctx, id, "slug", "x") }, types.ErrInvalidField},
		{"patch wrong type", func() error { return authors.Patch(ctx, id, types.AuthorFieldName, 3) }, types.ErrTypeMismatch},
		{"delete missing", func() error { return authors.Delete(ctx, "missing") }, types.ErrNotFound},
		{"unsupported filter", func() error { _, err := authors.Fetch(ctx, types.Filter{"deleted": 1}); return err }, types.ErrInvalidFilter},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, tt.call(), tt.want)
		})
	}
}

func TestContextCancellation(t *testing.T) {
	b, _ := setupRemote(t)
	authors := table(t, b, types.AuthorsTable)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := authors.Fetch(ctx, nil)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestClientImportsNoServerCode(t *testing.T) {
	files, err := filepath.Glob("*.go")
	require.NoError(t, err)
	fset := token.NewFileSet()
	for _, name := range files {
		if strings.HasSuffix(name, "_test.go") {
			continue
		}
		f, err := parser.ParseFile(fset, name, nil, parser.ImportsOnly)
		require.NoError(t, err)
		for _, imp := range f.Imports {
			path, err := strconv.Unquote(imp.Path.Value)
			require.NoError(t, err)
			assert.NotEqual(t, "github.com/gin-gonic/gin", path, name)
			assert.False(t, strings.HasSuffix(path, "/internal/server"), "%s imports %s", name, path)
		}
	}
}
