package cli

import (
	"os"
	"os/signal"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/catalog/internal/console"
	"github.com/mesh-intelligence/catalog/internal/controller"
	"github.com/mesh-intelligence/catalog/internal/logger"
	"github.com/mesh-intelligence/catalog/pkg/types"
)

// shellLogFile, under the config directory, receives the shell's logs.
const shellLogFile = "catalog.log"

func (a *app) newShellCmd() *cobra.Command {
	var variant string
	cmd := &cobra.Command{
		Use:   "shell",
		Short: "Browse and edit authors and books interactively",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if variant == "" {
				variant = a.settings.Variant
			}
			build, err := controllerFor(variant)
			if err != nil {
				return err
			}

			logFile, err := os.OpenFile(filepath.Join(a.configDir, shellLogFile), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
			if err != nil {
				return sysError("open shell log: %w", err)
			}
			defer logFile.Close()
			log := logger.Init(logFile, a.settings.LogEnv, a.settings.LogLevel)

			cupboard, err := openCupboard(a.settings)
			if err != nil {
				return err
			}
			defer cupboard.Detach()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			view := console.New(cmd.OutOrStdout(), a.prompter)
			shell, err := newShell(build, cupboard, view, log)
			if err != nil {
				return sysError("%w", err)
			}
			if err := shell.Run(ctx); err != nil {
				return sysError("shell: %w", err)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&variant, "variant", "", "controller variant: catalog (soft delete) or simple (hard delete)")
	return cmd
}

// newController builds one controller variant over a cupboard and view.
type newController func(types.Cupboard, controller.View, zerolog.Logger) (*controller.Controller, error)

func newShell(build newController, cupboard types.Cupboard, view *console.Console, log zerolog.Logger) (*console.Shell, error) {
	ctl, err := build(cupboard, view, log)
	if err != nil {
		return nil, err
	}
	log.Info().Stringer("delete_mode", ctl.Mode()).Msg("shell started")
	return console.NewShell(view, ctl, log), nil
}

// controllerFor maps a controller variant name to its constructor.
func controllerFor(variant string) (newController, error) {
	switch variant {
	case variantCatalog:
		return controller.NewCatalog, nil
	case variantSimple:
		return controller.NewSimple, nil
	default:
		return nil, userError("unknown controller variant %q (want %s or %s)", variant, variantCatalog, variantSimple)
	}
}
