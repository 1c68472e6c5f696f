package cli

import (
	"errors"

	"github.com/mesh-intelligence/catalog/internal/postgres"
	"github.com/mesh-intelligence/catalog/internal/remote"
	"github.com/mesh-intelligence/catalog/pkg/sqlite"
	"github.com/mesh-intelligence/catalog/pkg/types"
)

// configErrors are Attach failures caused by the configuration rather than
// the environment.
var configErrors = []error{
	types.ErrBackendEmpty,
	types.ErrBackendUnknown,
	types.ErrDSNEmpty,
	types.ErrRemoteURLEmpty,
}

// openCupboard creates and attaches the backend selected by s.Backend. The
// caller must Detach it.
func openCupboard(s settings) (types.Cupboard, error) {
	var cupboard types.Cupboard
	switch s.Backend {
	case types.BackendSQLite:
		cupboard = sqlite.NewBackend()
	case types.BackendPostgres:
		cupboard = postgres.NewBackend()
	case types.BackendRemote:
		cupboard = remote.NewBackend()
	default:
		return nil, userError("backend %q: %w", s.Backend, types.ErrBackendUnknown)
	}

	if err := cupboard.Attach(s.storeConfig()); err != nil {
		for _, ce := range configErrors {
			if errors.Is(err, ce) {
				return nil, userError("%s backend: %w", s.Backend, err)
			}
		}
		return nil, sysError("attach %s backend: %w", s.Backend, err)
	}
	return cupboard, nil
}
