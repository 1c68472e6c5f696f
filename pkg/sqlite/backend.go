// Package sqlite exposes the embedded SQLite catalog store to programs
// outside this module.
package sqlite

import (
	"github.com/mesh-intelligence/catalog/internal/sqlite"
)

// Backend is the SQLite Cupboard. Besides the Cupboard methods it offers
// Export and Import of JSONL snapshots.
type Backend = sqlite.Backend

// SnapshotStats counts the records an Export or Import touched.
type SnapshotStats = sqlite.SnapshotStats

// NewBackend creates a new SQLite backend instance.
// The backend is not attached; call Attach with a Config to initialize.
//
// Example:
//
//	backend := sqlite.NewBackend()
//	err := backend.Attach(types.Config{
//	    Backend: types.BackendSQLite,
//	    DataDir: ".catalog-db",
//	})
//	defer backend.Detach()
func NewBackend() *Backend {
	return sqlite.NewBackend()
}
