package console

import (
	"context"
	"fmt"
	"io"
	"slices"
	"sync"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"

	"github.com/mesh-intelligence/catalog/internal/controller"
	"github.com/mesh-intelligence/catalog/pkg/types"
)

var (
	bold    = color.New(color.Bold)
	faint   = color.New(color.Faint)
	success = color.New(color.FgGreen)
	failure = color.New(color.FgRed, color.Bold)
)

// Console is a controller.View on a terminal. It keeps the rows last shown
// and the user's current Author selection.
type Console struct {
	mu       sync.Mutex
	out      io.Writer
	prompter Prompter
	authors  []*types.Author
	books    []*types.Book
	selected []string
	focused  string
}

var _ controller.View = (*Console)(nil)

// New creates a Console writing to out and asking through prompter.
func New(out io.Writer, prompter Prompter) *Console {
	return &Console{out: out, prompter: prompter}
}

// NewTerminal creates a Console on color.Output and the survey prompter.
func NewTerminal() *Console {
	return New(color.Output, SurveyPrompter{})
}

// Prompter returns the prompter the Console asks through.
func (c *Console) Prompter() Prompter { return c.prompter }

// NewDialog implements controller.DialogFactory.
func (c *Console) NewDialog(kind controller.DialogKind) (controller.Dialog, error) {
	fields, ok := dialogFields[kind]
	if !ok {
		return nil, fmt.Errorf("no form for %s", kind)
	}
	return newFormDialog(c.out, c.prompter, fields), nil
}

// SelectedAuthors returns the selected Author identities in list order.
func (c *Console) SelectedAuthors() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.selected)
}

// SelectedAuthor returns the focused Author identity, or "".
func (c *Console) SelectedAuthor() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.focused
}

// Select marks ids as selected and focuses the first of them. Identities not
// currently listed are ignored.
func (c *Console) Select(ids ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	var selected []string
	for _, a := range c.authors {
		if slices.Contains(ids, a.AuthorID) {
			selected = append(selected, a.AuthorID)
		}
	}
	c.selected = selected
	c.focused = ""
	if len(selected) > 0 {
		c.focused = selected[0]
	}
}

// Choose asks which of the listed Authors to select and applies the answer.
func (c *Console) Choose(ctx context.Context) error {
	c.mu.Lock()
	options := make([]string, len(c.authors))
	var defaults []int
	for i, a := range c.authors {
		options[i] = authorLabel(a)
		if slices.Contains(c.selected, a.AuthorID) {
			defaults = append(defaults, i)
		}
	}
	c.mu.Unlock()

	if len(options) == 0 {
		c.Toast("No authors to select")
		return nil
	}
	picked, err := c.prompter.MultiSelect(ctx, SelectConfig{Message: "Select authors", Options: options, Defaults: defaults, PageSize: 15})
	if err != nil {
		return err
	}

	c.mu.Lock()
	ids := make([]string, 0, len(picked))
	for _, i := range picked {
		if i >= 0 && i < len(c.authors) {
			ids = append(ids, c.authors[i].AuthorID)
		}
	}
	c.mu.Unlock()
	c.Select(ids...)
	return nil
}

// Confirm asks an OK/Cancel question. An interrupted prompt counts as Cancel.
func (c *Console) Confirm(ctx context.Context, message string) bool {
	ok, err := c.prompter.Confirm(ctx, ConfirmConfig{Message: message})
	return err == nil && ok
}

// Toast prints a transient notice.
func (c *Console) Toast(message string) {
	_, _ = success.Fprintln(c.out, message)
}

// ShowError prints an error notice.
func (c *Console) ShowError(message string) {
	_, _ = failure.Fprint(c.out, "error: ")
	_, _ = fmt.Fprintln(c.out, message)
}

// ShowAuthors prints the Author list and drops selections no longer listed.
func (c *Console) ShowAuthors(rows []*types.Author) {
	c.mu.Lock()
	c.authors = rows
	c.selected = slices.DeleteFunc(c.selected, func(id string) bool {
		return !slices.ContainsFunc(rows, func(a *types.Author) bool { return a.AuthorID == id })
	})
	if !slices.Contains(c.selected, c.focused) {
		c.focused = ""
	}
	selected := slices.Clone(c.selected)
	c.mu.Unlock()

	_, _ = bold.Fprintln(c.out, "Authors")
	if len(rows) == 0 {
		_, _ = faint.Fprintln(c.out, "  none")
		return
	}
	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.MaxColWidth = 48
	tbl.AddRow("", "#", "NAME", "BIO")
	for i, a := range rows {
		mark := " "
		if slices.Contains(selected, a.AuthorID) {
			mark = "*"
		}
		name := a.Name
		if a.Deleted {
			name = faint.Sprint(name + " (deleted)")
		}
		tbl.AddRow(mark, i+1, name, a.Bio)
	}
	_, _ = fmt.Fprintln(c.out, tbl)
}

// ShowBooks prints the Book view. A nil slice means no Author is bound.
func (c *Console) ShowBooks(rows []*types.Book) {
	c.mu.Lock()
	c.books = rows
	c.mu.Unlock()

	if rows == nil {
		return
	}
	_, _ = bold.Fprintln(c.out, "Books")
	if len(rows) == 0 {
		_, _ = faint.Fprintln(c.out, "  none")
		return
	}
	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.MaxColWidth = 48
	tbl.AddRow("TITLE", "STOCK", "PRICE", "DESCRIPTION")
	for _, b := range rows {
		price := b.Price
		if price != "" && b.Currency.Code != "" {
			price += " " + b.Currency.Code
		}
		tbl.AddRow(b.Title, b.Stock, price, b.Description)
	}
	_, _ = fmt.Fprintln(c.out, tbl)
}

// Authors returns the Author rows last shown.
func (c *Console) Authors() []*types.Author {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.authors
}

// Books returns the Book rows last shown, nil when none are bound.
func (c *Console) Books() []*types.Book {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.books
}

func authorLabel(a *types.Author) string {
	if a.Deleted {
		return a.Name + " (deleted)"
	}
	return a.Name
}
