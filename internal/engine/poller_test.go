package engine

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/vovakirdan/lanchat/internal/core"
)

func TestPollPublishesView(t *testing.T) {
	remote := &fakeRemote{results: []fetchResult{{raw: []core.WireMessage{"Alice: hi"}}}}
	e := newJoinedEngine(t, remote, Options{})

	pollOnce(t, e, context.Background())

	view := e.View()
	want := core.ChatMessage{Sender: "Alice", Content: "hi", Position: 0}
	if len(view) != 1 || view[0] != want {
		t.Fatalf("view = %+v, want [%+v]", view, want)
	}
	s := mustSession(t, e)
	if s.Status != core.StatusConnected || s.LastError != "" {
		t.Fatalf("unexpected session: %+v", s)
	}
}

func TestPollFailureWhileConnecting(t *testing.T) {
	remote := &fakeRemote{results: []fetchResult{{err: core.ServerError(500)}}}
	e := newJoinedEngine(t, remote, Options{})

	pollOnce(t, e, context.Background())

	s := mustSession(t, e)
	if s.Status != core.StatusConnecting {
		t.Fatalf("status = %s, want connecting", s.Status)
	}
	if s.LastError == "" {
		t.Fatal("lastError not set")
	}
	if len(e.View()) != 0 {
		t.Fatalf("view changed on failure: %+v", e.View())
	}
}

func TestDegradationAndRecovery(t *testing.T) {
	remote := &fakeRemote{results: []fetchResult{
		{raw: []core.WireMessage{"Alice: hi"}},
		{err: core.ServerError(500)},
		{err: core.MalformedResponse(errors.New("not an array"))},
		{raw: []core.WireMessage{"Alice: hi", "Bob: hey"}},
	}}
	e := newJoinedEngine(t, remote, Options{})
	ctx := context.Background()

	pollOnce(t, e, ctx)
	before := e.View()

	pollOnce(t, e, ctx)
	s := mustSession(t, e)
	if s.Status != core.StatusDegraded {
		t.Fatalf("status = %s, want degraded", s.Status)
	}
	if s.LastError != core.ServerError(500).Error() {
		t.Fatalf("lastError = %q", s.LastError)
	}
	if after := e.View(); len(after) != len(before) || after[0] != before[0] {
		t.Fatalf("view changed while degraded: %+v", after)
	}

	pollOnce(t, e, ctx)
	s = mustSession(t, e)
	if s.Status != core.StatusDegraded || s.LastError == core.ServerError(500).Error() {
		t.Fatalf("second failure not recorded: %+v", s)
	}

	pollOnce(t, e, ctx)
	s = mustSession(t, e)
	if s.Status != core.StatusConnected || s.LastError != "" {
		t.Fatalf("expected recovery, got %+v", s)
	}
	view := e.View()
	if len(view) != 2 || view[1] != (core.ChatMessage{Sender: "Bob", Content: "hey", Position: 1}) {
		t.Fatalf("view not republished: %+v", view)
	}
}

func TestEveryFailureIsReported(t *testing.T) {
	remote := &fakeRemote{results: []fetchResult{{err: core.ServerError(503)}}}
	e := newJoinedEngine(t, remote, Options{})
	id, updates := e.Subscribe()
	defer e.Unsubscribe(id)
	<-updates

	for i := 0; i < 3; i++ {
		pollOnce(t, e, context.Background())
		select {
		case u := <-updates:
			if u.Session.LastError == "" {
				t.Fatalf("failure %d published without lastError", i)
			}
		default:
			t.Fatalf("failure %d produced no update", i)
		}
	}
}

func TestAtMostOneInFlight(t *testing.T) {
	remote := &fakeRemote{
		results: []fetchResult{{raw: []core.WireMessage{"Alice: hi"}}},
		gate:    make(chan struct{}),
		entered: make(chan struct{}, 4),
	}
	e := newJoinedEngine(t, remote, Options{})
	ctx := context.Background()

	if !e.tick(ctx) {
		t.Fatal("first tick should dispatch")
	}
	<-remote.entered

	for i := 0; i < 3; i++ {
		if e.tick(ctx) {
			t.Fatal("tick dispatched while a poll was in flight")
		}
	}
	if n := remote.fetchCount(); n != 1 {
		t.Fatalf("fetches = %d, want 1", n)
	}

	close(remote.gate)
	e.polls.Wait()

	pollOnce(t, e, ctx)
	if n := remote.fetchCount(); n != 2 {
		t.Fatalf("fetches = %d, want 2", n)
	}
	if remote.maxAct != 1 {
		t.Fatalf("max concurrent fetches = %d", remote.maxAct)
	}
}

func TestResultDiscardedAfterCancel(t *testing.T) {
	remote := &fakeRemote{
		results: []fetchResult{{raw: []core.WireMessage{"Alice: late"}}},
		gate:    make(chan struct{}),
		entered: make(chan struct{}, 1),
	}
	e := newJoinedEngine(t, remote, Options{})
	ctx, cancel := context.WithCancel(context.Background())

	if !e.tick(ctx) {
		t.Fatal("tick should dispatch")
	}
	<-remote.entered
	cancel()
	close(remote.gate)
	e.polls.Wait()

	if len(e.View()) != 0 {
		t.Fatalf("late result was published: %+v", e.View())
	}
	if s := mustSession(t, e); s.Status == core.StatusConnected {
		t.Fatalf("late result changed status: %+v", s)
	}
	if e.tick(ctx) {
		t.Fatal("tick dispatched after cancellation")
	}
}

func TestPollTimeoutIsTransportFailure(t *testing.T) {
	remote := &fakeRemote{waitCtx: true}
	e := newJoinedEngine(t, remote, Options{PollInterval: 40 * time.Millisecond})

	start := time.Now()
	pollOnce(t, e, context.Background())
	if elapsed := time.Since(start); elapsed >= time.Second {
		t.Fatalf("poll not bounded by timeout: %v", elapsed)
	}

	s := mustSession(t, e)
	if s.LastError == "" || s.Status != core.StatusConnecting {
		t.Fatalf("unexpected session after timeout: %+v", s)
	}
}

func TestRunRequiresJoin(t *testing.T) {
	e := New(&fakeRemote{}, Options{}, nil)
	if err := e.Run(context.Background()); !errors.Is(err, core.ErrNotJoined) {
		t.Fatalf("Run err = %v, want not joined", err)
	}
}

func TestRunPollsUntilCancelled(t *testing.T) {
	remote := &fakeRemote{results: []fetchResult{{raw: []core.WireMessage{"Alice: hi"}}}}
	e := newJoinedEngine(t, remote, Options{PollInterval: 10 * time.Millisecond})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- e.Run(ctx) }()

	waitFor(t, "several polls", func() bool { return remote.fetchCount() >= 3 })
	if s := mustSession(t, e); s.Status != core.StatusConnected {
		t.Fatalf("status = %s, want connected", s.Status)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run returned %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not stop")
	}

	if s := mustSession(t, e); s.Status != core.StatusDisconnected {
		t.Fatalf("status after stop = %s, want disconnected", s.Status)
	}
	stopped := remote.fetchCount()
	time.Sleep(30 * time.Millisecond)
	if remote.fetchCount() != stopped {
		t.Fatal("polling continued after stop")
	}
}

func TestRunRestoresCachedView(t *testing.T) {
	cache := &memoryStore{view: core.Reconcile([]core.WireMessage{"Alice: cached"})}
	remote := &fakeRemote{
		results: []fetchResult{{raw: []core.WireMessage{"Alice: cached", "Bob: fresh"}}},
		gate:    make(chan struct{}),
		entered: make(chan struct{}, 1),
	}
	e := newJoinedEngine(t, remote, Options{PollInterval: time.Hour, Store: cache})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- e.Run(ctx) }()

	<-remote.entered
	if view := e.View(); len(view) != 1 || view[0].Content != "cached" {
		t.Fatalf("cached view not restored: %+v", view)
	}

	close(remote.gate)
	waitFor(t, "fresh view", func() bool { return len(e.View()) == 2 })
	waitFor(t, "cache write", func() bool {
		cache.mu.Lock()
		defer cache.mu.Unlock()
		return len(cache.view) == 2
	})

	cancel()
	<-done
}

func TestSubscribeKeepsLatestUpdate(t *testing.T) {
	remote := &fakeRemote{results: []fetchResult{
		{raw: []core.WireMessage{"a: 1"}},
		{raw: []core.WireMessage{"a: 1", "a: 2"}},
	}}
	e := newJoinedEngine(t, remote, Options{})
	id, updates := e.Subscribe()

	pollOnce(t, e, context.Background())
	pollOnce(t, e, context.Background())

	u := <-updates
	if len(u.View) != 2 {
		t.Fatalf("expected latest update with 2 messages, got %+v", u.View)
	}
	select {
	case stale := <-updates:
		t.Fatalf("unexpected extra update: %+v", stale)
	default:
	}

	e.Unsubscribe(id)
	if _, ok := <-updates; ok {
		t.Fatal("channel not closed on unsubscribe")
	}
}
