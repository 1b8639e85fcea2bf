package engine

import (
	"context"
	"time"

	"github.com/vovakirdan/lanchat/internal/core"
)

// Run polls the remote log once immediately and then on every interval tick
// until ctx is cancelled. At most one fetch is outstanding; ticks that find
// one in flight are skipped. A fetch completing after cancellation is
// discarded. Run returns once any outstanding fetch has finished.
func (e *Engine) Run(ctx context.Context) error {
	e.mu.Lock()
	if e.session == nil {
		e.mu.Unlock()
		return core.ErrNotJoined
	}
	e.setStatusLocked(core.StatusConnecting)
	e.notifyLocked()
	e.mu.Unlock()

	e.restoreView(ctx)

	e.log.Info().
		Dur("interval", e.pollInterval).
		Dur("request_timeout", e.requestTimeout).
		Msg("poller started")

	ticker := time.NewTicker(e.pollInterval)
	defer ticker.Stop()

	e.tick(ctx)
	for {
		select {
		case <-ctx.Done():
			e.stop()
			e.polls.Wait()
			e.log.Info().Msg("poller stopped")
			return nil
		case <-ticker.C:
			e.tick(ctx)
		}
	}
}

// tick dispatches a fetch unless one is already outstanding. It reports whether
// a fetch was started.
func (e *Engine) tick(ctx context.Context) bool {
	if ctx.Err() != nil {
		return false
	}
	if !e.inFlight.CompareAndSwap(false, true) {
		e.log.Debug().Msg("poll still in flight, skipping tick")
		return false
	}

	e.polls.Add(1)
	go func() {
		defer e.polls.Done()
		defer e.inFlight.Store(false)
		e.poll(ctx)
	}()
	return true
}

func (e *Engine) poll(ctx context.Context) {
	reqCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), e.requestTimeout)
	defer cancel()

	raw, err := e.remote.FetchMessages(reqCtx)

	e.mu.Lock()
	if ctx.Err() != nil {
		e.mu.Unlock()
		e.log.Debug().Msg("discarding poll result after stop")
		return
	}
	if err != nil {
		e.pollFailedLocked(err)
		e.mu.Unlock()
		return
	}

	view := core.Reconcile(raw)
	e.session.SetError("")
	e.setStatusLocked(core.StatusConnected)
	e.view = view
	e.notifyLocked()
	e.mu.Unlock()

	e.log.Debug().Int("messages", len(view)).Msg("view published")
	e.saveView(view)
}

func (e *Engine) pollFailedLocked(err error) {
	e.session.SetError(err.Error())
	switch e.session.Status() {
	case core.StatusConnected, core.StatusDegraded:
		e.setStatusLocked(core.StatusDegraded)
	}
	e.notifyLocked()
	e.log.Warn().Err(err).Str("code", core.Code(err)).Msg("poll failed")
}

func (e *Engine) stop() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.setStatusLocked(core.StatusDisconnected)
	e.notifyLocked()
}

// restoreView publishes the cached view while the first poll is outstanding.
func (e *Engine) restoreView(ctx context.Context) {
	if e.store == nil {
		return
	}
	cached, err := e.store.LoadView(ctx)
	if err != nil {
		e.log.Warn().Err(err).Msg("failed to load cached view")
		return
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if len(e.view) > 0 || len(cached) == 0 {
		return
	}
	e.view = cached
	e.notifyLocked()
	e.log.Info().Int("messages", len(cached)).Msg("restored cached view")
}

func (e *Engine) saveView(view []core.ChatMessage) {
	if e.store == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), e.requestTimeout)
	defer cancel()
	if err := e.store.SaveView(ctx, view); err != nil {
		e.log.Warn().Err(err).Msg("failed to cache view")
	}
}
