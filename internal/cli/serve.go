package cli

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/catalog/internal/logger"
	"github.com/mesh-intelligence/catalog/internal/server"
)

func (a *app) newServeCmd() *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the configured store as the catalog HTTP data service",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr == "" {
				addr = a.settings.ServerAddr
			}
			log := logger.Init(cmd.ErrOrStderr(), a.settings.LogEnv, a.settings.LogLevel)

			cupboard, err := openCupboard(a.settings)
			if err != nil {
				return err
			}
			defer cupboard.Detach()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			log.Info().Str("backend", a.settings.Backend).Msg("starting data service")
			if err := server.New(addr, cupboard, log).Run(ctx); err != nil {
				return sysError("serve: %w", err)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default: server.addr from config)")
	return cmd
}
