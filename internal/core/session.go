package core

import (
	"fmt"
	"strings"

	"github.com/vovakirdan/lanchat/internal/utils"
)

// Session is the process-lifetime record of the joined nickname and connection status.
// It is not safe for concurrent use; the engine serializes every access.
type Session struct {
	id        string
	nickname  string
	status    ConnectionStatus
	lastError string
}

// SessionSnapshot is an immutable copy of a Session handed to collaborators.
// LastError is empty when the latest outcome succeeded.
type SessionSnapshot struct {
	ID        string
	Nickname  string
	Status    ConnectionStatus
	LastError string
}

// Join validates nickname and creates a session in the connecting state.
func Join(nickname string) (*Session, error) {
	if strings.TrimSpace(nickname) == "" {
		return nil, ErrInvalidNickname
	}
	return &Session{
		id:       utils.NewID(),
		nickname: nickname,
		status:   StatusConnecting,
	}, nil
}

// ID returns the local session identifier.
func (s *Session) ID() string { return s.id }

// Nickname returns the name messages are sent under.
func (s *Session) Nickname() string { return s.nickname }

// Status returns the current connection status.
func (s *Session) Status() ConnectionStatus { return s.status }

// LastError returns the most recent failure message, or "".
func (s *Session) LastError() string { return s.lastError }

// SetStatus moves the session to next if the transition table allows it.
func (s *Session) SetStatus(next ConnectionStatus) error {
	if !CanTransition(s.status, next) {
		return &CoreError{
			Code:    ErrCodeInvalidTransition,
			Message: fmt.Sprintf("invalid status transition %s -> %s", s.status, next),
		}
	}
	s.status = next
	return nil
}

// SetError records the latest failure. An empty message clears it.
func (s *Session) SetError(msg string) {
	s.lastError = msg
}

// Snapshot copies the current session fields.
func (s *Session) Snapshot() SessionSnapshot {
	return SessionSnapshot{
		ID:        s.id,
		Nickname:  s.nickname,
		Status:    s.status,
		LastError: s.lastError,
	}
}
