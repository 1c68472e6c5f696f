package controller

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/mesh-intelligence/catalog/internal/binding"
	"github.com/mesh-intelligence/catalog/pkg/types"
)

// DeleteMode selects how OnDeleteAuthor removes an Author.
type DeleteMode int

const (
	// DeleteSoft sets the Author's deleted flag; the row stays in the store.
	DeleteSoft DeleteMode = iota
	// DeleteHard removes the Author row and its Books.
	DeleteHard
)

func (m DeleteMode) String() string {
	switch m {
	case DeleteSoft:
		return "soft"
	case DeleteHard:
		return "hard"
	default:
		return fmt.Sprintf("DeleteMode(%d)", int(m))
	}
}

// Entity kinds guarded against overlapping mutations.
const (
	kindAuthor = "author"
	kindBook   = "book"
)

// Controller is the master-detail controller for one view.
type Controller struct {
	mode      DeleteMode
	view      View
	authors   types.Table
	books     types.Table
	dialogs   *Registry
	selection Selection
	lists     *Synchronizer
	guard     inflight
	log       zerolog.Logger
}

// NewCatalog creates the controller variant that soft-deletes Authors and
// lists only Authors not marked deleted.
func NewCatalog(cupboard types.Cupboard, view View, logger zerolog.Logger) (*Controller, error) {
	return New(DeleteSoft, cupboard, view, logger)
}

// NewSimple creates the controller variant that hard-deletes Authors and lists
// every Author row.
func NewSimple(cupboard types.Cupboard, view View, logger zerolog.Logger) (*Controller, error) {
	return New(DeleteHard, cupboard, view, logger)
}

// New creates a controller over the Authors and Books tables of cupboard.
func New(mode DeleteMode, cupboard types.Cupboard, view View, logger zerolog.Logger) (*Controller, error) {
	authors, err := cupboard.GetTable(types.AuthorsTable)
	if err != nil {
		return nil, fmt.Errorf("authors table: %w", err)
	}
	books, err := cupboard.GetTable(types.BooksTable)
	if err != nil {
		return nil, fmt.Errorf("books table: %w", err)
	}

	var authorFilter types.Filter
	if mode == DeleteSoft {
		authorFilter = types.Filter{types.FilterDeleted: false}
	}

	return &Controller{
		mode:    mode,
		view:    view,
		authors: authors,
		books:   books,
		dialogs: NewRegistry(view),
		lists:   NewSynchronizer(view, authors, books, authorFilter),
		log:     logger.With().Str("component", "controller").Str("delete_mode", mode.String()).Logger(),
	}, nil
}

// Start binds and loads the Author list.
func (c *Controller) Start(ctx context.Context) error {
	if err := c.lists.BindAuthors(ctx); err != nil {
		return fmt.Errorf("load authors: %w", err)
	}
	return nil
}

// Close tears down open dialogs and releases the list bindings.
func (c *Controller) Close() {
	c.dialogs.ReleaseAll()
	c.lists.Release()
}

// Refresh re-queries the Author list and, when an Author is selected, its
// Books. Failures are reported as notices.
func (c *Controller) Refresh(ctx context.Context) {
	c.refreshAuthors(ctx)
	c.refreshBooks(ctx)
}

// Mode returns the controller's delete mode.
func (c *Controller) Mode() DeleteMode { return c.mode }

// CurrentAuthor returns the selected Author's identity, or "".
func (c *Controller) CurrentAuthor() string { return c.selection.Current() }

// Dialogs exposes the dialog registry.
func (c *Controller) Dialogs() *Registry { return c.dialogs }

// Lists exposes the list synchronizer.
func (c *Controller) Lists() *Synchronizer { return c.lists }

// OnAuthorSelect records the focused Author and rebinds the Book view to it.
// With nothing focused the selection is cleared and the Book view released.
func (c *Controller) OnAuthorSelect(ctx context.Context) {
	id := c.view.SelectedAuthor()
	if id == "" {
		c.selection.Clear()
		c.lists.ReleaseBooks()
		c.log.Debug().Str("op", "select").Msg("selection cleared")
		return
	}

	target, _ := c.lists.FindAuthor(id)
	c.selection.Select(id, target)
	if err := c.lists.BindBooks(ctx, id); err != nil {
		c.log.Error().Err(err).Str("op", "select").Str("author_id", id).Msg("loading books failed")
		c.view.ShowError(err.Error())
		return
	}
	c.log.Debug().Str("op", "select").Str("author_id", id).Msg("author selected")
}

// OnAddAuthor opens an empty Author dialog.
func (c *Controller) OnAddAuthor(ctx context.Context) {
	c.openDialog(ctx, newAddAuthorSession(), nil)
}

// OnEditAuthor opens the Author dialog prefilled from the single selected
// Author. Nothing opens without exactly one selection and its context.
func (c *Controller) OnEditAuthor(ctx context.Context) {
	id, err := exactlyOne(c.view.SelectedAuthors())
	if err != nil {
		c.refuse("edit-author", err)
		return
	}
	session, ok := newEditAuthorSession(c.authorContext(id))
	if !ok {
		c.refuse("edit-author", ErrNoEditSession)
		return
	}
	c.openDialog(ctx, session, func(d Dialog) {
		d.SetField(FieldName, session.Snapshot.Name)
		d.SetField(FieldBio, session.Snapshot.Bio)
	})
}

// OnAddBook opens the Book dialog for the current Author.
func (c *Controller) OnAddBook(ctx context.Context) {
	if _, err := exactlyOne(c.view.SelectedAuthors()); err != nil {
		c.refuse("add-book", err)
		return
	}
	authorID := c.selection.Current()
	if authorID == "" {
		c.refuse("add-book", ErrNoAuthorSelected)
		return
	}
	c.openDialog(ctx, newAddBookSession(authorID), nil)
}

// OnDialogCancel tears down whichever dialog is loaded. No store call is made.
func (c *Controller) OnDialogCancel(ctx context.Context) {
	for _, kind := range []DialogKind{AuthorDialog, BookDialog} {
		if c.dialogs.Release(kind) {
			c.log.Debug().Str("op", "cancel").Stringer("dialog", kind).Msg("dialog cancelled")
		}
	}
}

func (c *Controller) openDialog(ctx context.Context, session *EditSession, prefill func(Dialog)) {
	op := session.Purpose.String()
	d, err := c.dialogs.Acquire(session)
	if err != nil {
		if errors.Is(err, ErrDialogOpen) {
			c.refuse(op, err)
			return
		}
		c.fail(op, session.AuthorID, err)
		return
	}
	if prefill != nil {
		prefill(d)
	}
	if err := c.dialogs.Open(ctx, session.Purpose.Kind()); err != nil {
		c.fail(op, session.AuthorID, err)
		return
	}
	c.log.Debug().Str("op", op).Str("author_id", session.AuthorID).Msg("dialog opened")
}

// authorContext finds the entity context for a listed Author, falling back to
// the tracked selection.
func (c *Controller) authorContext(id string) *binding.Context {
	if target, ok := c.lists.FindAuthor(id); ok {
		return target
	}
	if c.selection.Current() == id {
		return c.selection.Context()
	}
	return nil
}

// refreshAuthors re-queries the Author list and drops a selection whose row
// is no longer listed.
func (c *Controller) refreshAuthors(ctx context.Context) {
	if err := c.lists.RefreshAuthors(ctx); err != nil {
		c.log.Error().Err(err).Str("op", "refresh").Msg("refreshing authors failed")
		c.view.Toast(fmt.Sprintf("Could not refresh authors: %v", err))
		return
	}

	current := c.selection.Current()
	if current == "" || c.lists.Authors() == nil {
		return
	}
	if target, ok := c.lists.FindAuthor(current); ok {
		c.selection.Select(current, target)
		return
	}
	c.log.Debug().Str("op", "refresh").Str("author_id", current).Msg("selected author no longer listed")
	c.selection.Clear()
	c.lists.ReleaseBooks()
}

func (c *Controller) refreshBooks(ctx context.Context) {
	if err := c.lists.RefreshBooks(ctx); err != nil {
		c.log.Error().Err(err).Str("op", "refresh").Msg("refreshing books failed")
		c.view.Toast(fmt.Sprintf("Could not refresh books: %v", err))
	}
}

// refuse reports a precondition violation as a transient notice.
func (c *Controller) refuse(op string, err error) {
	c.log.Info().Str("op", op).Str("reason", err.Error()).Msg("refused")
	c.view.Toast(err.Error())
}

func (c *Controller) fail(op, authorID string, err error) {
	c.log.Error().Err(err).Str("op", op).Str("author_id", authorID).Msg("operation failed")
	c.view.ShowError(err.Error())
}

func (c *Controller) succeed(op, authorID, msg string) {
	c.log.Info().Str("op", op).Str("author_id", authorID).Msg(msg)
	c.view.Toast(msg)
}

// inflight rejects a second mutation on an entity kind while one is
// outstanding.
type inflight struct {
	mu   sync.Mutex
	busy map[string]bool
}

func (g *inflight) acquire(kind string) (release func(), ok bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.busy == nil {
		g.busy = make(map[string]bool)
	}
	if g.busy[kind] {
		return nil, false
	}
	g.busy[kind] = true
	return func() {
		g.mu.Lock()
		defer g.mu.Unlock()
		delete(g.busy, kind)
	}, true
}
