package ratelimit

import (
	"strings"
	"sync"
	"time"
)

const (
	DefaultMaxAttempts = 3
	DefaultWindow      = 60 * time.Minute
	DefaultLockout     = 30 * time.Minute
	DefaultRetention   = 2 * time.Hour
)

type entry struct {
	count       int
	windowStart time.Time
	lockedUntil time.Time
}

// AttemptLimiter counts attempts per key in a fixed window and locks the key
// once the window allowance is spent. It lives in process memory.
type AttemptLimiter struct {
	mu      sync.Mutex
	entries map[string]*entry

	maxAttempts int
	window      time.Duration
	lockout     time.Duration
	retention   time.Duration
	now         func() time.Time
}

type Option func(*AttemptLimiter)

func WithClock(now func() time.Time) Option {
	return func(l *AttemptLimiter) { l.now = now }
}

func WithLimits(maxAttempts int, window, lockout time.Duration) Option {
	return func(l *AttemptLimiter) {
		l.maxAttempts = maxAttempts
		l.window = window
		l.lockout = lockout
	}
}

func NewAttemptLimiter(opts ...Option) *AttemptLimiter {
	l := &AttemptLimiter{
		entries:     make(map[string]*entry),
		maxAttempts: DefaultMaxAttempts,
		window:      DefaultWindow,
		lockout:     DefaultLockout,
		retention:   DefaultRetention,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func normalize(key string) string {
	return strings.ToLower(strings.TrimSpace(key))
}

// Allow records an attempt for key and reports whether it may proceed.
func (l *AttemptLimiter) Allow(key string) bool {
	key = normalize(key)
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	l.evict(now)

	e, ok := l.entries[key]
	if !ok {
		e = &entry{windowStart: now}
		l.entries[key] = e
	}
	if now.Before(e.lockedUntil) {
		return false
	}
	if now.Sub(e.windowStart) > l.window {
		e.count = 0
		e.windowStart = now
	}

	e.count++
	if e.count > l.maxAttempts {
		e.lockedUntil = now.Add(l.lockout)
		return false
	}
	return true
}

// RetryAfter returns how long key stays locked, zero when it is not.
func (l *AttemptLimiter) RetryAfter(key string) time.Duration {
	key = normalize(key)
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	e, ok := l.entries[key]
	if !ok || !now.Before(e.lockedUntil) {
		return 0
	}
	return e.lockedUntil.Sub(now)
}

// Reset forgets key, typically after a successful operation.
func (l *AttemptLimiter) Reset(key string) {
	key = normalize(key)

	l.mu.Lock()
	delete(l.entries, key)
	l.mu.Unlock()
}

func (l *AttemptLimiter) evict(now time.Time) {
	cutoff := now.Add(-l.retention)
	for k, e := range l.entries {
		if e.windowStart.Before(cutoff) && !now.Before(e.lockedUntil) {
			delete(l.entries, k)
		}
	}
}

func (l *AttemptLimiter) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}
