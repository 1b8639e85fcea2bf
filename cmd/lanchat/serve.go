package main

import (
	"github.com/spf13/cobra"

	"github.com/vovakirdan/lanchat/internal/app"
	"github.com/vovakirdan/lanchat/internal/config"
)

func newServeCmd(root *rootFlags) *cobra.Command {
	var overrides config.Config
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run an in-memory chat log server for local development",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := root.load(overrides)
			if err != nil {
				return err
			}
			if err := app.ServeLog(cmd.Context(), cfg, logger); err != nil {
				return err
			}
			logger.Info().Msg("chat log server stopped")
			return nil
		},
	}
	cmd.Flags().StringVar(&overrides.ServeAddr, "addr", "", "listen address")
	return cmd
}
