package types

import (
	"context"
	"errors"
)

// Filter restricts Fetch results. Keys are column names such as
// FilterAuthorID; an empty or nil filter matches every row.
type Filter map[string]any

// Standard filter keys understood by every backend.
const (
	FilterAuthorID = "author_id"
	FilterDeleted  = "deleted"
)

// Table provides uniform CRUD operations for a single entity type.
// Get and Fetch return any; callers type-assert to *Author or *Book.
// Every call blocks until the backend has durably acknowledged it.
type Table interface {
	// Get retrieves the entity with the given ID.
	// Returns ErrNotFound if no entity exists with that ID.
	Get(ctx context.Context, id string) (any, error)

	// Set creates or replaces an entity. When id is empty a new UUID v7 is
	// generated. Returns the actual ID used (generated or provided).
	Set(ctx context.Context, id string, data any) (string, error)

	// Patch sets a single mutable field on an existing entity.
	// Returns ErrNotFound for an unknown id and ErrInvalidField for a field
	// the entity does not expose.
	Patch(ctx context.Context, id, field string, value any) error

	// Delete removes the entity with the given ID.
	// Returns ErrNotFound if no entity exists with that ID.
	Delete(ctx context.Context, id string) error

	// Fetch returns all entities matching the filter, oldest first.
	Fetch(ctx context.Context, filter Filter) ([]any, error)
}

// Table operation errors.
var (
	ErrNotFound      = errors.New("entity not found")
	ErrInvalidID     = errors.New("invalid entity ID")
	ErrInvalidData   = errors.New("invalid entity data")
	ErrInvalidField  = errors.New("invalid entity field")
	ErrInvalidFilter = errors.New("invalid filter value type")
	ErrInvalidName   = errors.New("invalid name")
	ErrTypeMismatch  = errors.New("type mismatch")
)
