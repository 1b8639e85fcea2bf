package http

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/vovakirdan/lanchat/internal/config"
	"github.com/vovakirdan/lanchat/internal/engine"
	"github.com/vovakirdan/lanchat/internal/logserver"
	"github.com/vovakirdan/lanchat/internal/remote"
)

type testEnv struct {
	chatLog *logserver.Log
	remote  *httptest.Server
	engine  *engine.Engine
	bridge  *httptest.Server
}

// startTestEnv wires a development log server, a joined engine polling it and
// the UI bridge in front of the engine.
func startTestEnv(t *testing.T, mutate func(*config.Config)) *testEnv {
	t.Helper()

	gin.SetMode(gin.TestMode)
	disabledLogger := zerolog.Nop()

	chatLog := logserver.NewLog()
	remoteSrv := httptest.NewServer(logserver.NewRouter(chatLog, &disabledLogger))
	t.Cleanup(remoteSrv.Close)

	cfg := config.Default()
	cfg.RemoteURL = remoteSrv.URL
	cfg.PollInterval = 20 * time.Millisecond
	if mutate != nil {
		mutate(&cfg)
	}

	eng := engine.New(
		remote.NewClient(cfg.RemoteURL, cfg.EffectiveRequestTimeout()),
		engine.Options{PollInterval: cfg.PollInterval, RequestTimeout: cfg.EffectiveRequestTimeout()},
		&disabledLogger,
	)
	if _, err := eng.Join("Bob"); err != nil {
		t.Fatalf("join: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = eng.Run(ctx)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})

	bridge := httptest.NewServer(NewRouter(eng, &cfg, &disabledLogger))
	t.Cleanup(bridge.Close)

	return &testEnv{chatLog: chatLog, remote: remoteSrv, engine: eng, bridge: bridge}
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()

	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}
