package binding

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/mesh-intelligence/catalog/pkg/types"
)

// Binding errors.
var (
	ErrReleased      = errors.New("binding released")
	ErrContextClosed = errors.New("entity context deleted")
	ErrNotEntity     = errors.New("row does not implement types.Entity")
)

// Context is a live handle to one row of a table. Reads come from the last
// acknowledged snapshot; writes go to the table and update the snapshot only
// after the table acknowledges them.
type Context struct {
	mu      sync.Mutex
	table   types.Table
	entity  types.Entity
	deleted bool
}

// NewContext binds entity, which must be a row read from table.
func NewContext(table types.Table, entity types.Entity) *Context {
	return &Context{table: table, entity: entity}
}

// ID returns the identity of the bound row.
func (c *Context) ID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.entity.EntityID()
}

// Entity returns the bound row as last acknowledged by the table.
func (c *Context) Entity() types.Entity {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.entity
}

// Property reads a field from the snapshot.
func (c *Context) Property(field string) (any, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.entity.Field(field)
}

// SetProperty patches one field on the remote row and waits for the
// acknowledgment. The snapshot changes only on success.
func (c *Context) SetProperty(ctx context.Context, field string, value any) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.deleted {
		return ErrContextClosed
	}
	id := c.entity.EntityID()
	if err := c.table.Patch(ctx, id, field, value); err != nil {
		return fmt.Errorf("set %s on %s: %w", field, id, err)
	}
	if err := c.entity.SetField(field, value); err != nil {
		return fmt.Errorf("set %s on %s snapshot: %w", field, id, err)
	}
	return nil
}

// Delete removes the bound row from the table. The context is unusable for
// writes afterwards.
func (c *Context) Delete(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.deleted {
		return ErrContextClosed
	}
	id := c.entity.EntityID()
	if err := c.table.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete %s: %w", id, err)
	}
	c.deleted = true
	return nil
}
