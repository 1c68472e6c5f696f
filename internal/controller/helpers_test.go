package controller

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/catalog/internal/sqlite"
	"github.com/mesh-intelligence/catalog/pkg/types"
)

// recordingTable wraps a real table, recording mutations and optionally
// failing them.
type recordingTable struct {
	types.Table

	mu        sync.Mutex
	sets      []any
	patches   []patchCall
	deletes   []string
	fetches   int
	setErr    error
	patchErr  error
	deleteErr error
}

type patchCall struct {
	ID    string
	Field string
	Value any
}

func (r *recordingTable) Set(ctx context.Context, id string, data any) (string, error) {
	r.mu.Lock()
	r.sets = append(r.sets, data)
	err := r.setErr
	r.mu.Unlock()
	if err != nil {
		return "", err
	}
	return r.Table.Set(ctx, id, data)
}

func (r *recordingTable) Patch(ctx context.Context, id, field string, value any) error {
	r.mu.Lock()
	r.patches = append(r.patches, patchCall{id, field, value})
	err := r.patchErr
	r.mu.Unlock()
	if err != nil {
		return err
	}
	return r.Table.Patch(ctx, id, field, value)
}

func (r *recordingTable) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	r.deletes = append(r.deletes, id)
	err := r.deleteErr
	r.mu.Unlock()
	if err != nil {
		return err
	}
	return r.Table.Delete(ctx, id)
}

func (r *recordingTable) Fetch(ctx context.Context, filter types.Filter) ([]any, error) {
	r.mu.Lock()
	r.fetches++
	r.mu.Unlock()
	return r.Table.Fetch(ctx, filter)
}

func (r *recordingTable) fetchCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.fetches
}

func (r *recordingTable) mutations() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sets) + len(r.patches) + len(r.deletes)
}

type recordingCupboard struct {
	tables map[string]types.Table
}

func (c *recordingCupboard) GetTable(name string) (types.Table, error) {
	t, ok := c.tables[name]
	if !ok {
		return nil, types.ErrTableNotFound
	}
	return t, nil
}

func (c *recordingCupboard) Attach(types.Config) error { return nil }
func (c *recordingCupboard) Detach() error             { return nil }

// fakeDialog plays back the view's typed input when opened.
type fakeDialog struct {
	view      *fakeView
	kind      DialogKind
	purpose   Purpose
	fields    map[string]string
	prefilled map[string]string
	opens     int
	closes    int
	destroys  int
}

func (d *fakeDialog) Open(_ context.Context, purpose Purpose) error {
	d.opens++
	d.purpose = purpose
	d.prefilled = make(map[string]string, len(d.fields))
	for k, v := range d.fields {
		d.prefilled[k] = v
	}
	for k, v := range d.view.input {
		d.fields[k] = v
	}
	return d.view.openErr
}

func (d *fakeDialog) Close()                      { d.closes++ }
func (d *fakeDialog) Destroy()                    { d.destroys++ }
func (d *fakeDialog) Field(name string) string    { return d.fields[name] }
func (d *fakeDialog) SetField(name, value string) { d.fields[name] = value }

type fakeView struct {
	selected []string
	focused  string
	confirm  bool
	input    map[string]string
	openErr  error

	dialogs []*fakeDialog
	toasts  []string
	errors  []string
	authors [][]*types.Author
	books   [][]*types.Book
	asked   []string
}

func (v *fakeView) NewDialog(kind DialogKind) (Dialog, error) {
	d := &fakeDialog{view: v, kind: kind, fields: map[string]string{}}
	v.dialogs = append(v.dialogs, d)
	return d, nil
}

func (v *fakeView) SelectedAuthors() []string { return v.selected }
func (v *fakeView) SelectedAuthor() string    { return v.focused }

func (v *fakeView) Confirm(_ context.Context, message string) bool {
	v.asked = append(v.asked, message)
	return v.confirm
}

func (v *fakeView) Toast(message string)     { v.toasts = append(v.toasts, message) }
func (v *fakeView) ShowError(message string) { v.errors = append(v.errors, message) }

func (v *fakeView) ShowAuthors(rows []*types.Author) { v.authors = append(v.authors, rows) }
func (v *fakeView) ShowBooks(rows []*types.Book)     { v.books = append(v.books, rows) }

func (v *fakeView) lastDialog() *fakeDialog {
	if len(v.dialogs) == 0 {
		return nil
	}
	return v.dialogs[len(v.dialogs)-1]
}

func (v *fakeView) shownAuthors() []*types.Author {
	if len(v.authors) == 0 {
		return nil
	}
	return v.authors[len(v.authors)-1]
}

func (v *fakeView) shownBooks() []*types.Book {
	if len(v.books) == 0 {
		return nil
	}
	return v.books[len(v.books)-1]
}

// selectOne marks id as the single selected and focused Author.
func (v *fakeView) selectOne(id string) {
	v.selected = []string{id}
	v.focused = id
}

type harness struct {
	c       *Controller
	view    *fakeView
	authors *recordingTable
	books   *recordingTable
	raw     types.Cupboard
}

func newHarness(t *testing.T, mode DeleteMode) *harness {
	t.Helper()
	backend := sqlite.NewBackend()
	require.NoError(t, backend.Attach(types.Config{Backend: types.BackendSQLite, DataDir: t.TempDir()}))
	t.Cleanup(func() { backend.Detach() })

	authors, err := backend.GetTable(types.AuthorsTable)
	require.NoError(t, err)
	books, err := backend.GetTable(types.BooksTable)
	require.NoError(t, err)

	h := &harness{
		view:    &fakeView{confirm: true},
		authors: &recordingTable{Table: authors},
		books:   &recordingTable{Table: books},
		raw:     backend,
	}
	cupboard := &recordingCupboard{tables: map[string]types.Table{
		types.AuthorsTable: h.authors,
		types.BooksTable:   h.books,
	}}
	h.c, err = New(mode, cupboard, h.view, zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(h.c.Close)
	return h
}

// seedAuthor stores an author directly, bypassing the recording wrapper.
func (h *harness) seedAuthor(t *testing.T, name string) string {
	t.Helper()
	table, err := h.raw.GetTable(types.AuthorsTable)
	require.NoError(t, err)
	id, err := table.Set(context.Background(), "", &types.Author{Name: name})
	require.NoError(t, err)
	return id
}

func (h *harness) seedBook(t *testing.T, authorID, title string) string {
	t.Helper()
	table, err := h.raw.GetTable(types.BooksTable)
	require.NoError(t, err)
	id, err := table.Set(context.Background(), "", &types.Book{AuthorID: authorID, Title: title})
	require.NoError(t, err)
	return id
}

func (h *harness) start(t *testing.T) {
	t.Helper()
	require.NoError(t, h.c.Start(context.Background()))
}

var errBackend = errors.New("backend rejected the write")
