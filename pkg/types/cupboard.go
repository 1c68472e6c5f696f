package types

import "errors"

// Cupboard is the catalog store. Attach it to a backend, look up the
// Authors and Books tables, and Detach when finished.
type Cupboard interface {
	// GetTable returns the named table, or ErrTableNotFound for a name
	// other than AuthorsTable or BooksTable.
	GetTable(name string) (Table, error)

	// Attach opens the backend named by config. A second Attach without an
	// intervening Detach fails with ErrAlreadyAttached.
	Attach(config Config) error

	// Detach closes the backend. Calling it again is a no-op; tables
	// obtained earlier fail with ErrCupboardDetached from then on.
	Detach() error
}

var (
	ErrCupboardDetached = errors.New("cupboard is detached")
	ErrAlreadyAttached  = errors.New("cupboard is already attached")
	ErrTableNotFound    = errors.New("table not found")
)
