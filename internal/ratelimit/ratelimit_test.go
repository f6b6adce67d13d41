package ratelimit

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func newTestLimiter(cfg *Config) *AttemptLimiter {
	if cfg.CleanupEvery == 0 {
		cfg.CleanupEvery = time.Hour
	}
	return NewAttemptLimiter(cfg)
}

func TestAllowUpToLimitThenBan(t *testing.T) {
	l := newTestLimiter(&Config{Window: time.Minute, MaxAttempts: 3, BanFor: time.Hour})
	defer l.Close()

	for i := 0; i < 3; i++ {
		d := l.Allow("1.2.3.4")
		if !d.Allowed {
			t.Fatalf("attempt %d: Allowed = false, want true", i+1)
		}
		if d.Remaining != 3-(i+1) {
			t.Fatalf("attempt %d: Remaining = %d, want %d", i+1, d.Remaining, 3-(i+1))
		}
	}

	d := l.Allow("1.2.3.4")
	if d.Allowed {
		t.Fatal("attempt past the limit was allowed")
	}
	if !d.Banned {
		t.Fatal("Banned = false, want true after exceeding the limit")
	}
	if d.RetryAfter <= 0 {
		t.Fatalf("RetryAfter = %v, want positive", d.RetryAfter)
	}

	// The ban sticks for subsequent calls too.
	if d := l.Allow("1.2.3.4"); d.Allowed || !d.Banned {
		t.Fatalf("banned key got Allowed = %v, Banned = %v", d.Allowed, d.Banned)
	}
}

func TestKeysAreIndependent(t *testing.T) {
	l := newTestLimiter(&Config{Window: time.Minute, MaxAttempts: 1, BanFor: time.Hour})
	defer l.Close()

	l.Allow("1.2.3.4")
	if d := l.Allow("1.2.3.4"); d.Allowed {
		t.Fatal("exhausted key was allowed")
	}
	if d := l.Allow("5.6.7.8"); !d.Allowed {
		t.Fatal("fresh key was blocked")
	}
}

func TestResetClearsHistory(t *testing.T) {
	l := newTestLimiter(&Config{Window: time.Minute, MaxAttempts: 1, BanFor: time.Hour})
	defer l.Close()

	l.Allow("1.2.3.4")
	if d := l.Allow("1.2.3.4"); d.Allowed {
		t.Fatal("exhausted key was allowed")
	}

	l.Reset("1.2.3.4")
	d := l.Allow("1.2.3.4")
	if !d.Allowed {
		t.Fatal("key was still blocked after Reset")
	}
	if d.Remaining != 0 {
		t.Fatalf("Remaining = %d, want 0", d.Remaining)
	}
}

func TestWindowExpiryResetsCount(t *testing.T) {
	l := newTestLimiter(&Config{Window: 20 * time.Millisecond, MaxAttempts: 1, BanFor: time.Hour})
	defer l.Close()

	l.Allow("1.2.3.4")
	time.Sleep(60 * time.Millisecond)

	if d := l.Allow("1.2.3.4"); !d.Allowed {
		t.Fatal("key was still blocked after the window expired")
	}
}

func TestBanExpiryStartsFreshWindow(t *testing.T) {
	l := newTestLimiter(&Config{Window: time.Minute, MaxAttempts: 1, BanFor: 20 * time.Millisecond})
	defer l.Close()

	l.Allow("1.2.3.4")
	if d := l.Allow("1.2.3.4"); !d.Banned {
		t.Fatal("key was not banned")
	}

	time.Sleep(60 * time.Millisecond)
	if d := l.Allow("1.2.3.4"); !d.Allowed {
		t.Fatal("key was still blocked after the ban expired")
	}
}

func TestClientIP(t *testing.T) {
	cases := []struct {
		name       string
		remoteAddr string
		forwarded  string
		realIP     string
		want       string
	}{
		{name: "remote addr only", remoteAddr: "10.0.0.1:52431", want: "10.0.0.1"},
		{name: "x-forwarded-for wins", remoteAddr: "10.0.0.1:52431", forwarded: "203.0.113.7, 10.0.0.2", want: "203.0.113.7"},
		{name: "x-real-ip fallback", remoteAddr: "10.0.0.1:52431", realIP: "203.0.113.9", want: "203.0.113.9"},
		{name: "unparsable remote addr", remoteAddr: "not-an-addr", want: "not-an-addr"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodPost, "/login", nil)
			r.RemoteAddr = tc.remoteAddr
			if tc.forwarded != "" {
				r.Header.Set("X-Forwarded-For", tc.forwarded)
			}
			if tc.realIP != "" {
				r.Header.Set("X-Real-IP", tc.realIP)
			}
			if got := ClientIP(r); got != tc.want {
				t.Fatalf("ClientIP() = %q, want %q", got, tc.want)
			}
		})
	}
}
