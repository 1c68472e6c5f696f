package controller

import (
	"context"
	"sync"

	"github.com/mesh-intelligence/catalog/internal/binding"
	"github.com/mesh-intelligence/catalog/pkg/types"
)

// Synchronizer owns the Author list binding and the Author-filtered Book
// binding, and pushes refreshed rows to the View.
type Synchronizer struct {
	mu           sync.Mutex
	view         View
	authorsTable types.Table
	booksTable   types.Table
	authorFilter types.Filter
	authors      *binding.List
	books        *binding.List
}

// NewSynchronizer creates an unbound synchronizer. authorFilter scopes the
// Author list; nil lists every row.
func NewSynchronizer(view View, authors, books types.Table, authorFilter types.Filter) *Synchronizer {
	return &Synchronizer{
		view:         view,
		authorsTable: authors,
		booksTable:   books,
		authorFilter: authorFilter,
	}
}

// BindAuthors (re)binds the Author list and refreshes it.
func (s *Synchronizer) BindAuthors(ctx context.Context) error {
	s.mu.Lock()
	if s.authors != nil {
		s.authors.Release()
	}
	s.authors = binding.BindList(s.authorsTable, s.authorFilter)
	s.mu.Unlock()
	return s.RefreshAuthors(ctx)
}

// RefreshAuthors re-queries the Author list. An unbound list is skipped.
func (s *Synchronizer) RefreshAuthors(ctx context.Context) error {
	list := s.Authors()
	if list == nil {
		return nil
	}
	if err := list.Refresh(ctx); err != nil {
		return err
	}
	s.view.ShowAuthors(binding.Authors(list.Rows()))
	return nil
}

// BindBooks replaces the Book binding with one scoped to authorID and
// refreshes it.
func (s *Synchronizer) BindBooks(ctx context.Context, authorID string) error {
	s.mu.Lock()
	if s.books != nil {
		s.books.Release()
	}
	s.books = binding.BindList(s.booksTable, types.Filter{types.FilterAuthorID: authorID})
	s.mu.Unlock()
	if err := s.RefreshBooks(ctx); err != nil {
		s.view.ShowBooks(nil)
		return err
	}
	return nil
}

// RefreshBooks re-queries the Book view. An unbound view is skipped.
func (s *Synchronizer) RefreshBooks(ctx context.Context) error {
	list := s.Books()
	if list == nil {
		return nil
	}
	if err := list.Refresh(ctx); err != nil {
		return err
	}
	s.view.ShowBooks(binding.Books(list.Rows()))
	return nil
}

// ReleaseBooks drops the Book binding and clears the Book view.
func (s *Synchronizer) ReleaseBooks() {
	s.mu.Lock()
	if s.books != nil {
		s.books.Release()
		s.books = nil
	}
	s.mu.Unlock()
	s.view.ShowBooks(nil)
}

// Release drops both bindings.
func (s *Synchronizer) Release() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, l := range []*binding.List{s.authors, s.books} {
		if l != nil {
			l.Release()
		}
	}
	s.authors, s.books = nil, nil
}

// Authors returns the Author list binding, or nil when unbound.
func (s *Synchronizer) Authors() *binding.List {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.authors
}

// Books returns the Book binding, or nil when unbound.
func (s *Synchronizer) Books() *binding.List {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.books
}

// FindAuthor returns the listed context for id.
func (s *Synchronizer) FindAuthor(id string) (*binding.Context, bool) {
	list := s.Authors()
	if list == nil {
		return nil, false
	}
	return list.Find(id)
}
