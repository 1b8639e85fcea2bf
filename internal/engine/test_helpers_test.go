package engine

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/vovakirdan/lanchat/internal/core"
)

type fetchResult struct {
	raw []core.WireMessage
	err error
}

// fakeRemote replays scripted fetch results; the last one repeats.
type fakeRemote struct {
	mu      sync.Mutex
	results []fetchResult
	fetches int
	active  int
	maxAct  int
	gate    chan struct{}
	waitCtx bool
	sent    []core.WireMessage
	sendErr error
	entered chan struct{}
}

func (f *fakeRemote) FetchMessages(ctx context.Context) ([]core.WireMessage, error) {
	f.mu.Lock()
	f.fetches++
	f.active++
	if f.active > f.maxAct {
		f.maxAct = f.active
	}
	idx := f.fetches - 1
	if idx >= len(f.results) {
		idx = len(f.results) - 1
	}
	var res fetchResult
	if idx >= 0 {
		res = f.results[idx]
	}
	gate, entered, waitCtx := f.gate, f.entered, f.waitCtx
	f.mu.Unlock()

	defer func() {
		f.mu.Lock()
		f.active--
		f.mu.Unlock()
	}()

	if entered != nil {
		entered <- struct{}{}
	}
	if gate != nil {
		<-gate
	}
	if waitCtx {
		<-ctx.Done()
		return nil, core.TransportFailure(ctx.Err())
	}
	return res.raw, res.err
}

func (f *fakeRemote) SendMessage(_ context.Context, msg core.WireMessage) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, msg)
	return f.sendErr
}

func (f *fakeRemote) fetchCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.fetches
}

func newJoinedEngine(t *testing.T, remote Remote, opts Options) *Engine {
	t.Helper()

	e := New(remote, opts, nil)
	if _, err := e.Join("Bob"); err != nil {
		t.Fatalf("join: %v", err)
	}
	return e
}

// pollOnce runs a single tick and waits for its fetch to finish.
func pollOnce(t *testing.T, e *Engine, ctx context.Context) {
	t.Helper()

	if !e.tick(ctx) {
		t.Fatal("tick did not dispatch a poll")
	}
	e.polls.Wait()
}

func mustSession(t *testing.T, e *Engine) core.SessionSnapshot {
	t.Helper()

	s, err := e.Session()
	if err != nil {
		t.Fatalf("session: %v", err)
	}
	return s
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

type memoryStore struct {
	mu   sync.Mutex
	view []core.ChatMessage
	save int
}

func (m *memoryStore) SaveView(_ context.Context, view []core.ChatMessage) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.view = append([]core.ChatMessage(nil), view...)
	m.save++
	return nil
}

func (m *memoryStore) LoadView(context.Context) ([]core.ChatMessage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]core.ChatMessage{}, m.view...), nil
}

func (m *memoryStore) Close() error { return nil }
