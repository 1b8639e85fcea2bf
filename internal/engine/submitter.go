package engine

import (
	"context"
	"strings"

	"github.com/vovakirdan/lanchat/internal/core"
)

// Send encodes content under the session nickname and makes one delivery
// attempt. The view is not touched; the message appears once a poll returns it.
// A failure records lastError but leaves the connection status alone.
func (e *Engine) Send(ctx context.Context, content string) error {
	e.mu.Lock()
	if e.session == nil {
		e.mu.Unlock()
		return core.ErrNotJoined
	}
	nickname := e.session.Nickname()
	e.mu.Unlock()

	if strings.TrimSpace(content) == "" {
		return core.ErrEmptyMessage
	}

	reqCtx, cancel := context.WithTimeout(ctx, e.requestTimeout)
	defer cancel()

	if err := e.remote.SendMessage(reqCtx, core.Encode(nickname, content)); err != nil {
		sendErr := core.SendError(err)
		e.mu.Lock()
		e.session.SetError(sendErr.Error())
		e.notifyLocked()
		e.mu.Unlock()

		e.log.Warn().Err(err).Str("code", core.Code(err)).Msg("send failed")
		return sendErr
	}

	e.log.Debug().Int("length", len(content)).Msg("message delivered")
	return nil
}
