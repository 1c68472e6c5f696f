package controller

import "errors"

// Precondition errors. Their messages are shown to the user as notices.
var (
	ErrSelectExactlyOne = errors.New("select exactly one author")
	ErrNoAuthorSelected = errors.New("select an author before adding a book")
	ErrNoEditSession    = errors.New("no author is being edited")
	ErrBusy             = errors.New("another operation on this entity is still in progress")
	ErrDialogOpen       = errors.New("a dialog of this kind is already open")
	ErrNoDialog         = errors.New("no dialog is open")
)

// Success notices. Soft and hard delete share the same wording.
const (
	MsgAuthorCreated = "Author created"
	MsgAuthorUpdated = "Author updated"
	MsgAuthorDeleted = "Author deleted"
	MsgBookCreated   = "Book created"
)
