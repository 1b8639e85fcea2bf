package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/lanchat/internal/config"
	"github.com/vovakirdan/lanchat/internal/log"
)

type rootFlags struct {
	configPath string
	logLevel   string
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "lanchat: %v\n", err)
		stop()
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}
	cmd := &cobra.Command{
		Use:           "lanchat",
		Short:         "Polling chat client for a shared message log",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVar(&flags.configPath, "config", "", "config file path")
	cmd.PersistentFlags().StringVar(&flags.logLevel, "log-level", "", "log level (debug, info, warn, error, off)")

	cmd.AddCommand(newJoinCmd(flags), newServeCmd(flags))
	return cmd
}

// load resolves configuration and applies command line overrides on top.
func (f *rootFlags) load(overrides config.Config) (*config.Config, *zerolog.Logger, error) {
	cfg, path, err := config.Load(log.New("warn", nil), f.configPath)
	if err != nil {
		return nil, nil, err
	}
	overrides.LogLevel = f.logLevel
	cfg.UpdateFrom(overrides)

	logger := log.New(cfg.LogLevel, nil)
	logger.Debug().Str("config", path).Msg("configuration loaded")
	return &cfg, logger, nil
}
