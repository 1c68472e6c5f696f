package types

import (
	"errors"
	"time"
)

// Config holds backend selection and parameters for Cupboard.Attach.
type Config struct {
	Backend string `json:"backend" yaml:"backend"`
	DataDir string `json:"data_dir" yaml:"data_dir"`

	// PostgresDSN is the connection string for the postgres backend.
	PostgresDSN string `json:"postgres_dsn,omitempty" yaml:"postgres_dsn,omitempty"`

	// RemoteURL is the base URL of the catalog data service for the remote
	// backend, e.g. http://localhost:8420.
	RemoteURL     string        `json:"remote_url,omitempty" yaml:"remote_url,omitempty"`
	RemoteTimeout time.Duration `json:"remote_timeout,omitempty" yaml:"remote_timeout,omitempty"`
}

// Supported backend names.
const (
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
	BackendRemote   = "remote"
)

// Config validation errors.
var (
	ErrBackendEmpty   = errors.New("backend must not be empty")
	ErrBackendUnknown = errors.New("unknown backend")
	ErrDSNEmpty       = errors.New("postgres backend requires a DSN")
	ErrRemoteURLEmpty = errors.New("remote backend requires a base URL")
)

// knownBackends lists the backends that Validate accepts.
var knownBackends = map[string]bool{
	BackendSQLite:   true,
	BackendPostgres: true,
	BackendRemote:   true,
}

// Validate checks that the Config is well-formed. It returns a sentinel error
// from this package on failure.
func (c Config) Validate() error {
	if c.Backend == "" {
		return ErrBackendEmpty
	}
	if !knownBackends[c.Backend] {
		return ErrBackendUnknown
	}
	switch c.Backend {
	case BackendPostgres:
		if c.PostgresDSN == "" {
			return ErrDSNEmpty
		}
	case BackendRemote:
		if c.RemoteURL == "" {
			return ErrRemoteURLEmpty
		}
	}
	return nil
}
