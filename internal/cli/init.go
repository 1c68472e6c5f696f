package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/catalog/pkg/types"
)

func (a *app) newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize catalog storage",
		Long:  "Create the configuration directory and config.yaml, then initialize the configured storage backend.",
		Args:  cobra.NoArgs,
		RunE:  a.runInit,
	}
}

func (a *app) runInit(cmd *cobra.Command, args []string) error {
	cupboard, err := openCupboard(a.settings)
	if err != nil {
		return err
	}
	if err := cupboard.Detach(); err != nil {
		return sysError("finalize storage: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "Catalog initialized successfully")
	fmt.Fprintln(out, "  config: ", filepath.Join(a.configDir, configFileExt))
	fmt.Fprintln(out, "  backend:", a.settings.Backend)
	if a.settings.Backend == types.BackendSQLite {
		fmt.Fprintln(out, "  data:   ", a.settings.DataDir)
	}
	return nil
}
