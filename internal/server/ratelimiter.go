package server

import (
	"sync"
	"time"
)

// RateLimiter is a fixed-window per-client limiter. Every client shares the
// same limit and window, configured at construction.
type RateLimiter struct {
	limit  int
	window time.Duration

	mu      sync.Mutex
	windows map[string]*clientWindow
}

type clientWindow struct {
	count int
	until time.Time
}

func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		limit:   limit,
		window:  window,
		windows: make(map[string]*clientWindow),
	}
}

// Allow reports whether the client identified by key may make another
// request in the current window.
func (rl *RateLimiter) Allow(key string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	w := rl.windows[key]
	if w == nil || now.After(w.until) {
		rl.windows[key] = &clientWindow{count: 1, until: now.Add(rl.window)}
		return true
	}
	if w.count < rl.limit {
		w.count++
		return true
	}
	return false
}

// StartCleanup periodically drops windows that expired long ago so the map
// does not grow with every client ever seen.
func (rl *RateLimiter) StartCleanup(interval time.Duration) {
	ticker := time.NewTicker(interval)
	go func() {
		for range ticker.C {
			rl.mu.Lock()
			now := time.Now()
			for key, w := range rl.windows {
				if now.After(w.until.Add(5 * time.Minute)) {
					delete(rl.windows, key)
				}
			}
			rl.mu.Unlock()
		}
	}()
}
