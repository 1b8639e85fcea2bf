package app

import (
	"context"
	"fmt"
	"io"
	"net"
	stdhttp "net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/vovakirdan/lanchat/internal/config"
	"github.com/vovakirdan/lanchat/internal/console"
	"github.com/vovakirdan/lanchat/internal/engine"
	"github.com/vovakirdan/lanchat/internal/logserver"
	"github.com/vovakirdan/lanchat/internal/remote"
	"github.com/vovakirdan/lanchat/internal/store"
	"github.com/vovakirdan/lanchat/internal/store/sqlite"
	transporthttp "github.com/vovakirdan/lanchat/internal/transport/http"
)

// IO carries the terminal streams for the console. A nil In disables the console.
type IO struct {
	In  io.Reader
	Out io.Writer
}

// App wires the chat engine to its remote log, cache, bridge and console.
type App struct {
	engine          *engine.Engine
	store           store.ViewStore
	bridge          *stdhttp.Server
	console         *console.Console
	shutdownTimeout time.Duration
	log             *zerolog.Logger
}

// New validates cfg, opens the view cache and joins the chat as cfg.Nickname.
func New(cfg *config.Config, stdio IO, logger *zerolog.Logger) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var st store.ViewStore
	if cfg.HistoryPath != "" {
		sqliteStore, err := sqlite.New(cfg.HistoryPath)
		if err != nil {
			return nil, fmt.Errorf("init store: %w", err)
		}
		logger.Info().Str("history_path", cfg.HistoryPath).Msg("view cache opened")
		st = sqliteStore
	}

	timeout := cfg.EffectiveRequestTimeout()
	client := remote.NewClient(cfg.RemoteURL, timeout)
	eng := engine.New(client, engine.Options{
		PollInterval:   cfg.PollInterval,
		RequestTimeout: timeout,
		Store:          st,
	}, logger)

	if _, err := eng.Join(cfg.Nickname); err != nil {
		if st != nil {
			_ = st.Close()
		}
		return nil, err
	}

	a := &App{
		engine:          eng,
		store:           st,
		shutdownTimeout: cfg.ShutdownTimeout,
		log:             logger,
	}
	if cfg.UIAddr != "" {
		a.bridge = transporthttp.NewServer(eng, cfg, logger)
	}
	if stdio.In != nil {
		out := stdio.Out
		if out == nil {
			out = io.Discard
		}
		a.console = console.New(eng, stdio.In, out, logger)
	}
	return a, nil
}

// Run polls the remote log, serves the bridge and drives the console until
// ctx is cancelled or the bridge fails.
func (a *App) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	engineDone := make(chan error, 1)
	go func() { engineDone <- a.engine.Run(ctx) }()

	var serverErr chan error
	if a.bridge != nil {
		serverErr = make(chan error, 1)
		a.bridge.BaseContext = func(net.Listener) context.Context { return ctx }
		a.log.Info().Str("addr", a.bridge.Addr).Msg("starting ui bridge")
		go func() {
			if err := a.bridge.ListenAndServe(); err != nil && err != stdhttp.ErrServerClosed {
				serverErr <- err
				return
			}
			serverErr <- nil
		}()
	}

	if a.console != nil {
		go func() {
			if err := a.console.Run(ctx); err != nil {
				a.log.Warn().Err(err).Msg("console stopped")
			}
		}()
	}

	var runErr error
	select {
	case <-ctx.Done():
	case runErr = <-serverErr:
	}
	cancel()

	if a.bridge != nil && runErr == nil {
		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), a.shutdownTimeout)
		defer cancelShutdown()

		a.log.Info().Msg("shutting down ui bridge")
		if err := a.bridge.Shutdown(shutdownCtx); err != nil {
			runErr = err
		}
	}

	if err := <-engineDone; err != nil && runErr == nil {
		runErr = err
	}
	a.cleanup()
	return runErr
}

// cleanup closes the view cache.
func (a *App) cleanup() {
	if a.store != nil {
		if err := a.store.Close(); err != nil {
			a.log.Warn().Err(err).Msg("failed to close store")
		} else {
			a.log.Info().Msg("store closed")
		}
	}
}

// ServeLog runs the development chat log server until ctx is cancelled.
func ServeLog(ctx context.Context, cfg *config.Config, logger *zerolog.Logger) error {
	server := logserver.NewServer(logserver.NewLog(), cfg, logger)

	serverErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && err != stdhttp.ErrServerClosed {
			serverErr <- err
			return
		}
		serverErr <- nil
	}()
	logger.Info().Str("addr", server.Addr).Msg("serving chat log")

	select {
	case err := <-serverErr:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()

		logger.Info().Msg("shutting down chat log server")
		if err := server.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return <-serverErr
	}
}
