package engine

import (
	"context"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/vovakirdan/lanchat/internal/core"
	"github.com/vovakirdan/lanchat/internal/store"
	"github.com/vovakirdan/lanchat/internal/utils"
)

const (
	DefaultPollInterval = 2 * time.Second
	updateBuffer        = 1
)

// Remote is the chat log the engine synchronizes with.
type Remote interface {
	FetchMessages(ctx context.Context) ([]core.WireMessage, error)
	SendMessage(ctx context.Context, msg core.WireMessage) error
}

// Options tune the engine. Zero values fall back to defaults.
type Options struct {
	PollInterval time.Duration
	// RequestTimeout bounds each fetch and delivery. It is clamped below PollInterval.
	RequestTimeout time.Duration
	// Store caches the published view across restarts. Optional.
	Store store.ViewStore
}

// Update is delivered to subscribers after every state change.
type Update struct {
	View    []core.ChatMessage
	Session core.SessionSnapshot
}

// Engine keeps a local view consistent with the remote log and owns the session.
// Session and view writes are serialized by mu; the poll itself runs without it.
type Engine struct {
	remote         Remote
	store          store.ViewStore
	log            *zerolog.Logger
	pollInterval   time.Duration
	requestTimeout time.Duration

	mu      sync.Mutex
	session *core.Session
	view    []core.ChatMessage
	subs    map[string]chan Update

	inFlight atomic.Bool
	polls    sync.WaitGroup
}

// New constructs an engine that has not joined yet.
func New(remote Remote, opts Options, logger *zerolog.Logger) *Engine {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	interval := opts.PollInterval
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	timeout := opts.RequestTimeout
	if timeout <= 0 || timeout >= interval {
		timeout = interval * 3 / 4
	}

	return &Engine{
		remote:         remote,
		store:          opts.Store,
		log:            logger,
		pollInterval:   interval,
		requestTimeout: timeout,
		view:           []core.ChatMessage{},
		subs:           make(map[string]chan Update),
	}
}

// Join creates the session. The nickname is fixed for the engine's lifetime.
func (e *Engine) Join(nickname string) (core.SessionSnapshot, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.session != nil {
		return e.session.Snapshot(), core.ErrAlreadyJoined
	}
	session, err := core.Join(nickname)
	if err != nil {
		return core.SessionSnapshot{}, err
	}
	e.session = session
	e.log.Info().Str("session_id", session.ID()).Str("nickname", nickname).Msg("joined chat")
	e.notifyLocked()
	return session.Snapshot(), nil
}

// Session returns a copy of the current session.
func (e *Engine) Session() (core.SessionSnapshot, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.session == nil {
		return core.SessionSnapshot{}, core.ErrNotJoined
	}
	return e.session.Snapshot(), nil
}

// View returns a copy of the last published view.
func (e *Engine) View() []core.ChatMessage {
	e.mu.Lock()
	defer e.mu.Unlock()
	return slices.Clone(e.view)
}

// Subscribe registers for updates. Only the newest pending update is kept per
// subscriber, so a slow reader skips intermediate states.
func (e *Engine) Subscribe() (string, <-chan Update) {
	e.mu.Lock()
	defer e.mu.Unlock()

	id := utils.NewID()
	ch := make(chan Update, updateBuffer)
	e.subs[id] = ch
	if e.session != nil {
		ch <- e.updateLocked()
	}
	return id, ch
}

// Unsubscribe removes a subscription and closes its channel.
func (e *Engine) Unsubscribe(id string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if ch, ok := e.subs[id]; ok {
		delete(e.subs, id)
		close(ch)
	}
}

func (e *Engine) updateLocked() Update {
	u := Update{View: slices.Clone(e.view)}
	if e.session != nil {
		u.Session = e.session.Snapshot()
	}
	return u
}

func (e *Engine) notifyLocked() {
	if len(e.subs) == 0 {
		return
	}
	u := e.updateLocked()
	for _, ch := range e.subs {
		select {
		case ch <- u:
		default:
			// Replace the stale pending update.
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- u:
			default:
			}
		}
	}
}

func (e *Engine) setStatusLocked(next core.ConnectionStatus) {
	prev := e.session.Status()
	if err := e.session.SetStatus(next); err != nil {
		e.log.Error().Err(err).Msg("status transition rejected")
		return
	}
	if prev != next {
		e.log.Info().
			Str("from", string(prev)).
			Str("to", string(next)).
			Msg("connection status changed")
	}
}
