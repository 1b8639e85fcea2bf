package logserver

import "sync"

// Log is an in-memory append-only chat log.
type Log struct {
	mu       sync.RWMutex
	messages []string
}

// NewLog creates an empty log.
func NewLog() *Log {
	return &Log{messages: []string{}}
}

// Append adds a wire message to the end of the log.
func (l *Log) Append(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.messages = append(l.messages, msg)
}

// Snapshot returns a copy of the full log in order.
func (l *Log) Snapshot() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]string, len(l.messages))
	copy(out, l.messages)
	return out
}

// Len reports the number of messages.
func (l *Log) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.messages)
}
