package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/catalog/pkg/sqlite"
)

func (a *app) newExportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export <dir>",
		Short: "Write the sqlite store to authors.jsonl and books.jsonl in dir",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withSQLite(func(b *sqlite.Backend) error {
				stats, err := b.Export(cmd.Context(), args[0])
				if err != nil {
					return sysError("export: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "exported %d authors and %d books to %s\n", stats.Authors, stats.Books, args[0])
				return nil
			})
		},
	}
}

func (a *app) newImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <dir>",
		Short: "Upsert authors.jsonl and books.jsonl from dir into the sqlite store",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withSQLite(func(b *sqlite.Backend) error {
				stats, err := b.Import(cmd.Context(), args[0])
				if err != nil {
					return sysError("import: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "imported %d authors and %d books from %s\n", stats.Authors, stats.Books, args[0])
				return nil
			})
		},
	}
}

// withSQLite attaches the configured backend and runs fn when it is the
// sqlite store.
func (a *app) withSQLite(fn func(*sqlite.Backend) error) error {
	cupboard, err := openCupboard(a.settings)
	if err != nil {
		return err
	}
	defer cupboard.Detach()

	b, ok := cupboard.(*sqlite.Backend)
	if !ok {
		return userError("snapshots require the sqlite backend, not %q", a.settings.Backend)
	}
	return fn(b)
}
