package controller

import (
	"github.com/mesh-intelligence/catalog/internal/binding"
	"github.com/mesh-intelligence/catalog/pkg/types"
)

// EditSession is the state a dialog carries from Open to Confirm or Cancel.
// It is created when the dialog is acquired and discarded when the dialog is
// released, so a confirm handler never sees the session of an earlier dialog.
type EditSession struct {
	Purpose Purpose

	// AuthorID is the edited author (PurposeEditAuthor) or the owner of the
	// book being created (PurposeAddBook).
	AuthorID string

	// Target and Snapshot are set for PurposeEditAuthor only. Snapshot holds
	// the author as it was when the dialog opened.
	Target   *binding.Context
	Snapshot types.Author
}

func newAddAuthorSession() *EditSession {
	return &EditSession{Purpose: PurposeAddAuthor}
}

func newEditAuthorSession(target *binding.Context) (*EditSession, bool) {
	if target == nil {
		return nil, false
	}
	a, ok := target.Entity().(*types.Author)
	if !ok {
		return nil, false
	}
	return &EditSession{
		Purpose:  PurposeEditAuthor,
		AuthorID: a.AuthorID,
		Target:   target,
		Snapshot: *a,
	}, true
}

func newAddBookSession(authorID string) *EditSession {
	return &EditSession{Purpose: PurposeAddBook, AuthorID: authorID}
}
