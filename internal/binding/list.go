package binding

import (
	"context"
	"fmt"
	"maps"
	"sync"

	"github.com/mesh-intelligence/catalog/pkg/types"
)

// List is a refreshable query over one table. Rows are replaced wholesale on
// every Refresh; contexts from an earlier refresh remain usable as handles but
// are no longer listed.
type List struct {
	mu        sync.Mutex
	table     types.Table
	filter    types.Filter
	rows      []*Context
	refreshes int
	released  bool
}

// BindList creates a binding over table scoped by filter. No query is issued
// until the first Refresh.
func BindList(table types.Table, filter types.Filter) *List {
	return &List{table: table, filter: maps.Clone(filter)}
}

// Refresh re-issues the query and replaces the rows. Returns ErrReleased when
// the binding has been released.
func (l *List) Refresh(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.released {
		return ErrReleased
	}
	l.refreshes++

	results, err := l.table.Fetch(ctx, l.filter)
	if err != nil {
		return fmt.Errorf("refresh: %w", err)
	}
	rows := make([]*Context, 0, len(results))
	for _, r := range results {
		e, ok := r.(types.Entity)
		if !ok {
			return ErrNotEntity
		}
		rows = append(rows, NewContext(l.table, e))
	}
	l.rows = rows
	return nil
}

// Rows returns the contexts from the last successful refresh.
func (l *List) Rows() []*Context {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]*Context, len(l.rows))
	copy(out, l.rows)
	return out
}

// Find returns the listed context with the given identity.
func (l *List) Find(id string) (*Context, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, c := range l.rows {
		if c.ID() == id {
			return c, true
		}
	}
	return nil, false
}

// Filter returns a copy of the binding's filter.
func (l *List) Filter() types.Filter {
	l.mu.Lock()
	defer l.mu.Unlock()
	return maps.Clone(l.filter)
}

// Refreshes counts Refresh calls over the binding's lifetime, failed ones
// included.
func (l *List) Refreshes() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.refreshes
}

// Release drops the rows and detaches the binding from its table.
func (l *List) Release() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.released = true
	l.rows = nil
}

// Released reports whether Release has been called.
func (l *List) Released() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.released
}

// Authors converts rows to authors, skipping rows of other types.
func Authors(rows []*Context) []*types.Author {
	out := make([]*types.Author, 0, len(rows))
	for _, r := range rows {
		if a, ok := r.Entity().(*types.Author); ok {
			out = append(out, a)
		}
	}
	return out
}

// Books converts rows to books, skipping rows of other types.
func Books(rows []*Context) []*types.Book {
	out := make([]*types.Book, 0, len(rows))
	for _, r := range rows {
		if b, ok := r.Entity().(*types.Book); ok {
			out = append(out, b)
		}
	}
	return out
}
