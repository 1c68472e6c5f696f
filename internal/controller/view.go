package controller

import (
	"context"

	"github.com/mesh-intelligence/catalog/pkg/types"
)

// Dialog field names read and written by the controller.
const (
	FieldName        = "name"
	FieldBio         = "bio"
	FieldTitle       = "title"
	FieldDescription = "description"
	FieldStock       = "stock"
	FieldPrice       = "price"
	FieldCurrency    = "currency"
)

// Dialog is a modal form materialised by the UI. Field values are raw user
// input; the controller trims and validates them.
type Dialog interface {
	Open(ctx context.Context, purpose Purpose) error
	Close()
	Destroy()
	Field(name string) string
	SetField(name, value string)
}

// DialogFactory materialises a new, unopened dialog of the given kind.
type DialogFactory interface {
	NewDialog(kind DialogKind) (Dialog, error)
}

// View is the UI collaborator.
type View interface {
	DialogFactory

	// SelectedAuthors returns the identities of every Author row marked
	// selected in the list.
	SelectedAuthors() []string
	// SelectedAuthor returns the identity of the focused Author row, or ""
	// when nothing is selected.
	SelectedAuthor() string

	// Confirm asks an OK/Cancel question and reports whether OK was chosen.
	Confirm(ctx context.Context, message string) bool
	Toast(message string)
	ShowError(message string)

	ShowAuthors(rows []*types.Author)
	ShowBooks(rows []*types.Book)
}
