package controller

import (
	"context"
	"fmt"

	"github.com/mesh-intelligence/catalog/internal/binding"
	"github.com/mesh-intelligence/catalog/pkg/types"
)

// OnAddAuthorConfirm creates an Author from the open Add Author dialog. The
// dialog is torn down and the Author list refreshed whatever the outcome.
func (c *Controller) OnAddAuthorConfirm(ctx context.Context) {
	const op = "add-author"
	session, d, ok := c.dialogs.Session(AuthorDialog)
	if !ok || session.Purpose != PurposeAddAuthor {
		c.log.Warn().Str("op", op).Msg("confirm without an open add-author dialog")
		return
	}
	release, ok := c.guard.acquire(kindAuthor)
	if !ok {
		c.refuse(op, ErrBusy)
		return
	}
	defer release()
	defer c.finishAuthor(ctx)

	payload := readAuthorPayload(d)
	if err := payload.Validate(); err != nil {
		c.fail(op, "", err)
		return
	}
	c.log.Debug().Str("op", op).Str("name", payload.Name).Msg("creating author")
	id, err := c.authors.Set(ctx, "", payload.Author())
	if err != nil {
		c.fail(op, "", err)
		return
	}
	c.succeed(op, id, MsgAuthorCreated)
}

// OnEditAuthorConfirm applies the Edit Author dialog's fields to the Author
// its session was opened for.
func (c *Controller) OnEditAuthorConfirm(ctx context.Context) {
	const op = "edit-author"
	session, d, ok := c.dialogs.Session(AuthorDialog)
	if !ok || session.Purpose != PurposeEditAuthor || session.Target == nil {
		c.refuse(op, ErrNoEditSession)
		return
	}
	release, ok := c.guard.acquire(kindAuthor)
	if !ok {
		c.refuse(op, ErrBusy)
		return
	}
	defer release()
	defer c.finishAuthor(ctx)

	payload := readAuthorPayload(d)
	if err := payload.Validate(); err != nil {
		c.fail(op, session.AuthorID, err)
		return
	}
	fields := []struct {
		name  string
		value string
	}{
		{types.AuthorFieldName, payload.Name},
		{types.AuthorFieldBio, payload.Bio},
	}
	for _, f := range fields {
		if err := session.Target.SetProperty(ctx, f.name, f.value); err != nil {
			c.fail(op, session.AuthorID, err)
			return
		}
	}
	c.succeed(op, session.AuthorID, MsgAuthorUpdated)
}

// OnDeleteAuthor deletes the single selected Author after an OK/Cancel
// confirmation. DeleteSoft sets the deleted flag; DeleteHard removes the row.
func (c *Controller) OnDeleteAuthor(ctx context.Context) {
	const op = "delete-author"
	id, err := exactlyOne(c.view.SelectedAuthors())
	if err != nil {
		c.refuse(op, err)
		return
	}
	target := c.authorContext(id)
	if target == nil {
		c.refuse(op, ErrSelectExactlyOne)
		return
	}
	release, ok := c.guard.acquire(kindAuthor)
	if !ok {
		c.refuse(op, ErrBusy)
		return
	}
	defer release()

	if !c.view.Confirm(ctx, fmt.Sprintf("Delete author %q?", authorName(target))) {
		c.log.Debug().Str("op", op).Str("author_id", id).Msg("delete cancelled")
		return
	}
	defer c.refreshAuthors(ctx)

	if err := c.deleteAuthor(ctx, target); err != nil {
		c.fail(op, id, err)
		return
	}
	c.succeed(op, id, MsgAuthorDeleted)
}

func (c *Controller) deleteAuthor(ctx context.Context, target *binding.Context) error {
	if c.mode == DeleteSoft {
		return target.SetProperty(ctx, types.AuthorFieldDeleted, true)
	}
	return target.Delete(ctx)
}

// OnAddBookConfirm creates a Book for the Author the dialog was opened for.
// The dialog is torn down and the Book view refreshed whatever the outcome.
func (c *Controller) OnAddBookConfirm(ctx context.Context) {
	const op = "add-book"
	session, d, ok := c.dialogs.Session(BookDialog)
	if !ok || session.Purpose != PurposeAddBook {
		c.log.Warn().Str("op", op).Msg("confirm without an open add-book dialog")
		return
	}
	release, ok := c.guard.acquire(kindBook)
	if !ok {
		c.refuse(op, ErrBusy)
		return
	}
	defer release()
	defer c.finishBook(ctx)

	payload, err := readBookInput(d).Payload(session.AuthorID)
	if err != nil {
		c.fail(op, session.AuthorID, err)
		return
	}
	id, err := c.books.Set(ctx, "", payload.Book())
	if err != nil {
		c.fail(op, session.AuthorID, err)
		return
	}
	c.log.Debug().Str("op", op).Str("book_id", id).Msg("book stored")
	c.succeed(op, session.AuthorID, MsgBookCreated)
}

func (c *Controller) finishAuthor(ctx context.Context) {
	c.dialogs.Release(AuthorDialog)
	c.refreshAuthors(ctx)
}

func (c *Controller) finishBook(ctx context.Context) {
	c.dialogs.Release(BookDialog)
	c.refreshBooks(ctx)
}

func authorName(target *binding.Context) string {
	if v, err := target.Property(types.AuthorFieldName); err == nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return target.ID()
}
