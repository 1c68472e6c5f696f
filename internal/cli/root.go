// Package cli implements the catalog command-line interface.
package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/catalog/internal/console"
	"github.com/mesh-intelligence/catalog/internal/paths"
)

// Exit codes.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// rootFlags holds global flag values accessible to all subcommands.
type rootFlags struct {
	configDir string
	dataDir   string
}

// app is the state shared by one command tree.
type app struct {
	flags     rootFlags
	settings  settings
	configDir string
	prompter  console.Prompter
}

// exitError carries the process exit code for a failed command.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

func userError(format string, a ...any) error {
	return &exitError{code: exitUserError, err: fmt.Errorf(format, a...)}
}

func sysError(format string, a ...any) error {
	return &exitError{code: exitSysError, err: fmt.Errorf(format, a...)}
}

// NewRootCmd creates the top-level "catalog" command with global flags and
// all subcommands registered.
func NewRootCmd() *cobra.Command {
	return newRootCmd(&app{prompter: console.SurveyPrompter{}})
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "catalog",
		Short: "A master-detail catalog of authors and their books",
		Long: "Catalog keeps authors and their books in a local SQLite file, a PostgreSQL\n" +
			"database, or a remote catalog data service, and edits them from a terminal shell.",
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.loadSettings,
	}

	root.PersistentFlags().StringVar(&a.flags.configDir, "config-dir", "", "configuration directory (default: platform config dir)")
	root.PersistentFlags().StringVar(&a.flags.dataDir, "data-dir", "", "data directory for the sqlite backend (default: .catalog-db)")

	root.AddCommand(newVersionCmd())
	root.AddCommand(a.newInitCmd())
	root.AddCommand(a.newServeCmd())
	root.AddCommand(a.newShellCmd())
	root.AddCommand(a.newExportCmd())
	root.AddCommand(a.newImportCmd())

	return root
}

// Execute runs the root command and returns the process exit code.
func Execute() int {
	return run(NewRootCmd(), os.Args[1:], os.Stderr)
}

func run(root *cobra.Command, args []string, stderr io.Writer) int {
	root.SetArgs(args)
	err := root.Execute()
	if err == nil {
		return exitSuccess
	}
	fmt.Fprintln(stderr, "catalog:", err)
	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	return exitUserError
}

func (a *app) loadSettings(cmd *cobra.Command, args []string) error {
	if cmd.Name() == "version" {
		return nil
	}
	configDir, err := paths.ResolveConfigDir(a.flags.configDir)
	if err != nil {
		return sysError("resolve config dir: %w", err)
	}
	s, err := loadConfig(configDir, a.flags.dataDir)
	if err != nil {
		return sysError("%w", err)
	}
	a.configDir = configDir
	a.settings = s
	return nil
}
