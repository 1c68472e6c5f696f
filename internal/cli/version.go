package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Version is the catalog release, overridden at link time by the build.
var Version = "0.1.0"

const modulePath = "github.com/mesh-intelligence/catalog"

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the catalog version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "catalog v%s\nmodule: %s\n", Version, modulePath)
			return nil
		},
	}
}
