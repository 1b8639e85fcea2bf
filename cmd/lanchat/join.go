package main

import (
	"bufio"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/lanchat/internal/app"
	"github.com/vovakirdan/lanchat/internal/config"
	"github.com/vovakirdan/lanchat/internal/console"
	"github.com/vovakirdan/lanchat/internal/core"
)

func newJoinCmd(root *rootFlags) *cobra.Command {
	var overrides config.Config
	cmd := &cobra.Command{
		Use:   "join",
		Short: "Join the chat and follow the shared log",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := root.load(overrides)
			if err != nil {
				return err
			}

			stdin := bufio.NewReader(os.Stdin)
			if cfg.Nickname == "" {
				if !term.IsTerminal(int(os.Stdin.Fd())) {
					return core.ErrInvalidNickname
				}
				nickname, err := console.PromptNickname(stdin, os.Stdout)
				if err != nil {
					return err
				}
				cfg.Nickname = nickname
			}

			application, err := app.New(cfg, app.IO{In: stdin, Out: os.Stdout}, logger)
			if err != nil {
				return err
			}

			logger.Info().Str("remote", cfg.RemoteURL).Str("nickname", cfg.Nickname).Msg("joining chat")
			if err := application.Run(cmd.Context()); err != nil {
				return err
			}
			logger.Info().Msg("left chat")
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&overrides.Nickname, "nickname", "", "nickname to post as (prompted when empty)")
	f.StringVar(&overrides.RemoteURL, "remote", "", "chat backend base URL")
	f.DurationVar(&overrides.PollInterval, "poll-interval", 0, "interval between log fetches")
	f.DurationVar(&overrides.RequestTimeout, "request-timeout", 0, "timeout for each backend request")
	f.StringVar(&overrides.UIAddr, "ui-addr", "", "listen address for the local UI bridge (disabled when empty)")
	f.StringVar(&overrides.HistoryPath, "history", "", "SQLite file caching the last view (disabled when empty)")
	return cmd
}
