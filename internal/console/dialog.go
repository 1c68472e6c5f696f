package console

import (
	"context"
	"io"
	"strings"

	"github.com/mesh-intelligence/catalog/internal/controller"
)

// formField is one prompt of a dialog form.
type formField struct {
	name     string
	label    string
	help     string
	required bool
}

var dialogFields = map[controller.DialogKind][]formField{
	controller.AuthorDialog: {
		{name: controller.FieldName, label: "Name", required: true},
		{name: controller.FieldBio, label: "Bio"},
	},
	controller.BookDialog: {
		{name: controller.FieldTitle, label: "Title", required: true},
		{name: controller.FieldDescription, label: "Description"},
		{name: controller.FieldStock, label: "Stock", help: "whole number of units on hand", required: true},
		{name: controller.FieldPrice, label: "Price", help: "decimal, e.g. 12.50", required: true},
		{name: controller.FieldCurrency, label: "Currency", help: "ISO 4217 code, e.g. EUR", required: true},
	},
}

var dialogTitles = map[controller.Purpose]string{
	controller.PurposeAddAuthor:  "New author",
	controller.PurposeEditAuthor: "Edit author",
	controller.PurposeAddBook:    "New book",
}

// formDialog is a controller.Dialog asked as a sequence of prompts when it
// opens. Values entered become the dialog's fields.
type formDialog struct {
	out      io.Writer
	prompter Prompter
	fields   []formField
	values   map[string]string
	open     bool
}

func newFormDialog(out io.Writer, prompter Prompter, fields []formField) *formDialog {
	return &formDialog{out: out, prompter: prompter, fields: fields, values: make(map[string]string)}
}

// Open asks every field in order, offering the current value as default.
func (d *formDialog) Open(ctx context.Context, purpose controller.Purpose) error {
	if title, ok := dialogTitles[purpose]; ok {
		_, _ = bold.Fprintln(d.out, title)
	}
	answers := make(map[string]string, len(d.fields))
	for _, f := range d.fields {
		cfg := InputConfig{Message: f.label + ":", Help: f.help, Default: d.values[f.name]}
		if f.required {
			cfg.Validator = requireText
		}
		v, err := d.prompter.Input(ctx, cfg)
		if err != nil {
			return err
		}
		answers[f.name] = v
	}
	for k, v := range answers {
		d.values[k] = v
	}
	d.open = true
	return nil
}

func (d *formDialog) Close() { d.open = false }

func (d *formDialog) Destroy() {
	d.open = false
	clear(d.values)
}

func (d *formDialog) Field(name string) string { return d.values[name] }

func (d *formDialog) SetField(name, value string) { d.values[name] = value }

func requireText(s string) error {
	if strings.TrimSpace(s) == "" {
		return errRequired
	}
	return nil
}
