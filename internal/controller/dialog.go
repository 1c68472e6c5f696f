package controller

import (
	"context"
	"fmt"
	"sync"
)

// DialogKind names a dialog slot. Add Author and Edit Author share
// AuthorDialog; Add Book uses BookDialog.
type DialogKind int

const (
	AuthorDialog DialogKind = iota
	BookDialog
)

func (k DialogKind) String() string {
	switch k {
	case AuthorDialog:
		return "author"
	case BookDialog:
		return "book"
	default:
		return fmt.Sprintf("DialogKind(%d)", int(k))
	}
}

// Purpose is what a dialog was opened for.
type Purpose int

const (
	PurposeAddAuthor Purpose = iota
	PurposeEditAuthor
	PurposeAddBook
)

// Kind returns the slot a dialog with this purpose occupies.
func (p Purpose) Kind() DialogKind {
	if p == PurposeAddBook {
		return BookDialog
	}
	return AuthorDialog
}

func (p Purpose) String() string {
	switch p {
	case PurposeAddAuthor:
		return "add-author"
	case PurposeEditAuthor:
		return "edit-author"
	case PurposeAddBook:
		return "add-book"
	default:
		return fmt.Sprintf("Purpose(%d)", int(p))
	}
}

// DialogState is the lifecycle state of a slot. Destroying a dialog returns
// its slot to DialogUnloaded.
type DialogState int

const (
	DialogUnloaded DialogState = iota
	DialogLoaded
	DialogOpen
)

func (s DialogState) String() string {
	switch s {
	case DialogUnloaded:
		return "unloaded"
	case DialogLoaded:
		return "loaded"
	case DialogOpen:
		return "open"
	default:
		return fmt.Sprintf("DialogState(%d)", int(s))
	}
}

type slot struct {
	dialog  Dialog
	state   DialogState
	session *EditSession
}

// Registry holds at most one live dialog per kind for one controller.
// Dialogs are created lazily by Acquire and torn down by Release.
type Registry struct {
	mu      sync.Mutex
	factory DialogFactory
	slots   map[DialogKind]*slot
}

// NewRegistry creates an empty registry backed by factory.
func NewRegistry(factory DialogFactory) *Registry {
	return &Registry{
		factory: factory,
		slots: map[DialogKind]*slot{
			AuthorDialog: {},
			BookDialog:   {},
		},
	}
}

// Acquire materialises the dialog for session.Purpose and binds session to
// it. The dialog is loaded but not open. Returns ErrDialogOpen when the slot
// already holds an open dialog.
func (r *Registry) Acquire(session *EditSession) (Dialog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	kind := session.Purpose.Kind()
	s := r.slots[kind]
	switch s.state {
	case DialogOpen:
		return nil, ErrDialogOpen
	case DialogUnloaded:
		d, err := r.factory.NewDialog(kind)
		if err != nil {
			return nil, fmt.Errorf("load %s dialog: %w", kind, err)
		}
		s.dialog = d
		s.state = DialogLoaded
	}
	s.session = session
	return s.dialog, nil
}

// Open shows the loaded dialog of kind. A dialog that fails to open is torn
// down before Open returns.
func (r *Registry) Open(ctx context.Context, kind DialogKind) error {
	r.mu.Lock()
	s := r.slots[kind]
	if s.state != DialogLoaded || s.session == nil {
		r.mu.Unlock()
		return ErrNoDialog
	}
	d, purpose := s.dialog, s.session.Purpose
	s.state = DialogOpen
	r.mu.Unlock()

	if err := d.Open(ctx, purpose); err != nil {
		r.Release(kind)
		return fmt.Errorf("open %s dialog: %w", kind, err)
	}
	return nil
}

// Session returns the session bound to the open dialog of kind.
func (r *Registry) Session(kind DialogKind) (*EditSession, Dialog, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s := r.slots[kind]
	if s.state != DialogOpen {
		return nil, nil, false
	}
	return s.session, s.dialog, true
}

// State reports the lifecycle state of the slot for kind.
func (r *Registry) State(kind DialogKind) DialogState {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.slots[kind].state
}

// Release closes (when open) and destroys the dialog of kind and discards its
// session. It reports whether a dialog was torn down; releasing an unloaded
// slot does nothing.
func (r *Registry) Release(kind DialogKind) bool {
	r.mu.Lock()
	s := r.slots[kind]
	if s.state == DialogUnloaded {
		r.mu.Unlock()
		return false
	}
	d, wasOpen := s.dialog, s.state == DialogOpen
	*s = slot{}
	r.mu.Unlock()

	if wasOpen {
		d.Close()
	}
	d.Destroy()
	return true
}

// ReleaseAll tears down every loaded dialog.
func (r *Registry) ReleaseAll() {
	r.Release(AuthorDialog)
	r.Release(BookDialog)
}
