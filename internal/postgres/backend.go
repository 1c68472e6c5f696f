package postgres

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mesh-intelligence/catalog/pkg/types"
)

// connectTimeout bounds pool creation, ping and schema setup in Attach.
const connectTimeout = 10 * time.Second

// PostgreSQL error codes mapped to sentinel errors.
const (
	codeForeignKeyViolation = "23503"
	codeInvalidText         = "22P02"
	codeCheckViolation      = "23514"
)

// Backend implements the Cupboard interface on a PostgreSQL database.
type Backend struct {
	mu       sync.RWMutex
	attached bool
	pool     *pgxpool.Pool
	tables   map[string]types.Table
}

var _ types.Cupboard = (*Backend)(nil)

// NewBackend creates a detached PostgreSQL backend.
func NewBackend() *Backend {
	return &Backend{tables: make(map[string]types.Table)}
}

// Attach connects to config.PostgresDSN and applies the schema.
func (b *Backend) Attach(config types.Config) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.attached {
		return types.ErrAlreadyAttached
	}
	if err := config.Validate(); err != nil {
		return err
	}
	if config.Backend != types.BackendPostgres {
		return fmt.Errorf("postgres backend cannot attach %q: %w", config.Backend, types.ErrBackendUnknown)
	}

	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()

	poolConfig, err := pgxpool.ParseConfig(config.PostgresDSN)
	if err != nil {
		return fmt.Errorf("parse postgres dsn: %w", err)
	}
	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return fmt.Errorf("create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return fmt.Errorf("database ping failed: %w", err)
	}
	for _, stmt := range schemaStatements {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			pool.Close()
			return fmt.Errorf("apply schema: %w", err)
		}
	}

	b.pool = pool
	b.attached = true
	b.tables[types.AuthorsTable] = &authorsTable{backend: b}
	b.tables[types.BooksTable] = &booksTable{backend: b}
	return nil
}

// Detach closes the pool. Detach is idempotent.
func (b *Backend) Detach() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return nil
	}
	b.pool.Close()
	b.pool = nil
	b.attached = false
	b.tables = make(map[string]types.Table)
	return nil
}

// GetTable returns the named table.
func (b *Backend) GetTable(name string) (types.Table, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if !b.attached {
		return nil, types.ErrCupboardDetached
	}
	table, ok := b.tables[name]
	if !ok {
		return nil, types.ErrTableNotFound
	}
	return table, nil
}

// Ping checks that the database is reachable.
func (b *Backend) Ping(ctx context.Context) error {
	pool, err := b.getPool()
	if err != nil {
		return err
	}
	return pool.Ping(ctx)
}

func (b *Backend) getPool() (*pgxpool.Pool, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if !b.attached {
		return nil, types.ErrCupboardDetached
	}
	return b.pool, nil
}

func newUUID() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("generating UUID v7: %w", err)
	}
	return id.String(), nil
}

// mapPgError converts constraint and type failures into ErrInvalidData.
func mapPgError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case codeForeignKeyViolation, codeInvalidText, codeCheckViolation:
			return fmt.Errorf("%s: %w", pgErr.Message, types.ErrInvalidData)
		}
	}
	return err
}
