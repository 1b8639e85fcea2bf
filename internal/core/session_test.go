package core

import (
	"errors"
	"testing"
)

func TestJoinRejectsBlankNickname(t *testing.T) {
	for _, nick := range []string{"", " ", "\t\n"} {
		if _, err := Join(nick); !errors.Is(err, ErrInvalidNickname) {
			t.Fatalf("Join(%q) err = %v, want invalid nickname", nick, err)
		}
	}
}

func TestJoinStartsConnecting(t *testing.T) {
	s, err := Join("Bob")
	if err != nil {
		t.Fatalf("join: %v", err)
	}
	snap := s.Snapshot()
	if snap.Nickname != "Bob" || snap.Status != StatusConnecting || snap.LastError != "" || snap.ID == "" {
		t.Fatalf("unexpected session: %+v", snap)
	}
}

func TestSessionTransitions(t *testing.T) {
	s, err := Join("Bob")
	if err != nil {
		t.Fatalf("join: %v", err)
	}

	// Degraded is only reachable after a successful poll.
	if err := s.SetStatus(StatusDegraded); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("connecting -> degraded err = %v", err)
	}
	if s.Status() != StatusConnecting {
		t.Fatalf("status changed on rejected transition: %s", s.Status())
	}

	steps := []ConnectionStatus{
		StatusConnecting, StatusConnected, StatusDegraded, StatusDegraded,
		StatusConnected, StatusDisconnected, StatusConnecting,
	}
	for _, next := range steps {
		if err := s.SetStatus(next); err != nil {
			t.Fatalf("SetStatus(%s): %v", next, err)
		}
	}

	if err := s.SetStatus(StatusConnecting); err != nil {
		t.Fatalf("connecting self transition: %v", err)
	}
	if err := s.SetStatus(StatusDegraded); err == nil {
		t.Fatal("expected connecting -> degraded to fail after restart")
	}
}

func TestSessionError(t *testing.T) {
	s, _ := Join("Bob")
	s.SetError("boom")
	if s.LastError() != "boom" {
		t.Fatalf("LastError = %q", s.LastError())
	}
	s.SetError("")
	if s.LastError() != "" {
		t.Fatalf("LastError not cleared: %q", s.LastError())
	}
}

func TestCoreErrorMatching(t *testing.T) {
	err := SendError(ServerError(500))
	if !errors.Is(err, ErrSendError) || !errors.Is(err, ErrServerError) {
		t.Fatalf("send error should match both send and server codes: %v", err)
	}
	if errors.Is(err, ErrTransportFailure) {
		t.Fatalf("send error must not match transport failure")
	}
	if Code(err) != ErrCodeSendError {
		t.Fatalf("Code = %q", Code(err))
	}
	if Code(errors.New("plain")) != "" {
		t.Fatal("plain error must have no code")
	}
}
