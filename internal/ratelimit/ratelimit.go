// File: internal/ratelimit/ratelimit.go
package ratelimit

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"time"
)

// Config bounds how often one caller may hit a guarded endpoint.
type Config struct {
	// Window is the fixed counting window.
	Window time.Duration
	// MaxAttempts allowed inside one window before the key is banned.
	MaxAttempts int
	// CleanupEvery controls how often stale records are dropped.
	CleanupEvery time.Duration
	// BanFor is how long a key stays blocked after exceeding the limit.
	BanFor time.Duration
}

// DefaultAuthConfig suits the credential endpoints: a handful of tries,
// then a long pause.
func DefaultAuthConfig() *Config {
	return &Config{
		Window:       15 * time.Minute,
		MaxAttempts:  5,
		CleanupEvery: 30 * time.Minute,
		BanFor:       30 * time.Minute,
	}
}

type record struct {
	count    int
	windowAt time.Time
	bannedAt *time.Time
}

// AttemptLimiter is a fixed-window in-memory limiter keyed by caller
// identity, client IP for the auth endpoints. Exceeding the window bans
// the key outright for BanFor.
type AttemptLimiter struct {
	config  *Config
	mu      sync.Mutex
	records map[string]*record
	stop    chan struct{}
}

func NewAttemptLimiter(config *Config) *AttemptLimiter {
	l := &AttemptLimiter{
		config:  config,
		records: make(map[string]*record),
		stop:    make(chan struct{}),
	}
	go l.janitor()
	return l
}

// Decision reports one Allow call's outcome, including what the
// response headers should say.
type Decision struct {
	Allowed    bool
	Limit      int
	Remaining  int
	ResetAt    time.Time
	RetryAfter time.Duration
	Banned     bool
}

// Allow counts one attempt for the key and decides whether it may pass.
func (l *AttemptLimiter) Allow(key string) Decision {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	rec, ok := l.records[key]
	if !ok {
		l.records[key] = &record{count: 1, windowAt: now}
		return Decision{
			Allowed:   true,
			Limit:     l.config.MaxAttempts,
			Remaining: l.config.MaxAttempts - 1,
			ResetAt:   now.Add(l.config.Window),
		}
	}

	if rec.bannedAt != nil {
		if since := now.Sub(*rec.bannedAt); since < l.config.BanFor {
			return Decision{
				Limit:      l.config.MaxAttempts,
				ResetAt:    rec.bannedAt.Add(l.config.BanFor),
				RetryAfter: l.config.BanFor - since,
				Banned:     true,
			}
		}
		// Ban served; start a fresh window.
		rec.bannedAt = nil
		rec.count = 0
		rec.windowAt = now
	}

	if now.Sub(rec.windowAt) > l.config.Window {
		rec.count = 0
		rec.windowAt = now
	}

	rec.count++
	if rec.count > l.config.MaxAttempts {
		banned := now
		rec.bannedAt = &banned
		return Decision{
			Limit:      l.config.MaxAttempts,
			ResetAt:    now.Add(l.config.BanFor),
			RetryAfter: l.config.BanFor,
			Banned:     true,
		}
	}

	return Decision{
		Allowed:   true,
		Limit:     l.config.MaxAttempts,
		Remaining: l.config.MaxAttempts - rec.count,
		ResetAt:   rec.windowAt.Add(l.config.Window),
	}
}

// Reset clears the key's history, called after a successful sign-in so
// honest mistakes do not accumulate toward a ban.
func (l *AttemptLimiter) Reset(key string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.records, key)
}

// Close stops the cleanup goroutine.
func (l *AttemptLimiter) Close() {
	close(l.stop)
}

func (l *AttemptLimiter) janitor() {
	ticker := time.NewTicker(l.config.CleanupEvery)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			l.sweep()
		case <-l.stop:
			return
		}
	}
}

func (l *AttemptLimiter) sweep() {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	for key, rec := range l.records {
		windowOver := now.Sub(rec.windowAt) > l.config.Window
		banOver := rec.bannedAt != nil && now.Sub(*rec.bannedAt) > l.config.BanFor
		if (windowOver && rec.bannedAt == nil) || banOver {
			delete(l.records, key)
		}
	}
}

// ClientIP extracts the real client address, honoring proxy headers.
func ClientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		if first := strings.TrimSpace(strings.Split(forwarded, ",")[0]); first != "" {
			return first
		}
	}
	if realIP := r.Header.Get("X-Real-IP"); realIP != "" {
		return realIP
	}
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}
