package http

import (
	"sync"
	"time"
)

// rateLimiter allows up to limit events per fixed window. A zero limit disables it.
type rateLimiter struct {
	mu      sync.Mutex
	limit   int
	window  time.Duration
	counter int
	start   time.Time
	now     func() time.Time
}

func newRateLimiter(limit int) *rateLimiter {
	return &rateLimiter{
		limit:  limit,
		window: time.Minute,
		now:    time.Now,
	}
}

func (r *rateLimiter) allow() bool {
	if r == nil || r.limit <= 0 {
		return true
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	if now.Sub(r.start) >= r.window {
		r.start = now
		r.counter = 0
	}
	r.counter++
	return r.counter <= r.limit
}
