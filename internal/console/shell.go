package console

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/mesh-intelligence/catalog/internal/controller"
)

// Action is one entry of the shell menu.
type Action int

const (
	ActionSelect Action = iota
	ActionAddAuthor
	ActionEditAuthor
	ActionDeleteAuthor
	ActionAddBook
	ActionRefresh
	ActionQuit
)

var actionLabels = []string{
	ActionSelect:       "Select authors",
	ActionAddAuthor:    "Add author",
	ActionEditAuthor:   "Edit author",
	ActionDeleteAuthor: "Delete author",
	ActionAddBook:      "Add book",
	ActionRefresh:      "Refresh",
	ActionQuit:         "Quit",
}

func (a Action) String() string {
	if a >= 0 && int(a) < len(actionLabels) {
		return actionLabels[a]
	}
	return "unknown"
}

// Shell drives a controller from a menu loop on a Console.
type Shell struct {
	console *Console
	ctl     *controller.Controller
	log     zerolog.Logger
}

// NewShell binds a Console to the controller rendering into it.
func NewShell(console *Console, ctl *controller.Controller, logger zerolog.Logger) *Shell {
	return &Shell{console: console, ctl: ctl, log: logger.With().Str("component", "shell").Logger()}
}

// Run loads the Author list and serves menu actions until Quit, an
// interrupted menu, or ctx is done.
func (s *Shell) Run(ctx context.Context) error {
	if err := s.ctl.Start(ctx); err != nil {
		return err
	}
	defer s.ctl.Close()

	for {
		if err := ctx.Err(); err != nil {
			return nil
		}
		idx, err := s.console.prompter.Select(ctx, SelectConfig{Message: "Action", Options: actionLabels})
		if err != nil {
			if errors.Is(err, ErrAborted) || errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		}
		action := Action(idx)
		if action == ActionQuit {
			return nil
		}
		if err := s.Do(ctx, action); err != nil {
			return err
		}
	}
}

// Do performs one menu action.
func (s *Shell) Do(ctx context.Context, action Action) error {
	s.log.Debug().Stringer("action", action).Msg("menu action")
	switch action {
	case ActionSelect:
		if err := s.console.Choose(ctx); err != nil {
			if errors.Is(err, ErrAborted) {
				return nil
			}
			return err
		}
		s.ctl.OnAuthorSelect(ctx)
	case ActionAddAuthor:
		s.ctl.OnAddAuthor(ctx)
		s.settle(ctx, controller.AuthorDialog, "Save author?", s.ctl.OnAddAuthorConfirm)
	case ActionEditAuthor:
		s.ctl.OnEditAuthor(ctx)
		s.settle(ctx, controller.AuthorDialog, "Save changes?", s.ctl.OnEditAuthorConfirm)
	case ActionDeleteAuthor:
		s.ctl.OnDeleteAuthor(ctx)
	case ActionAddBook:
		s.ctl.OnAddBook(ctx)
		s.settle(ctx, controller.BookDialog, "Save book?", s.ctl.OnAddBookConfirm)
	case ActionRefresh:
		s.ctl.Refresh(ctx)
	}
	return nil
}

// settle confirms or cancels the dialog an action left open.
func (s *Shell) settle(ctx context.Context, kind controller.DialogKind, question string, confirm func(context.Context)) {
	if s.ctl.Dialogs().State(kind) != controller.DialogOpen {
		return
	}
	if s.console.Confirm(ctx, question) {
		confirm(ctx)
		return
	}
	s.ctl.OnDialogCancel(ctx)
}
