package middleware

import (
	"context"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// UnknownIP is the client key used when no address can be resolved.
const UnknownIP = "unknown"

// ClientIP resolves the caller's address: the first X-Forwarded-For entry,
// else the host part of RemoteAddr, else UnknownIP.
func ClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}
	addr := strings.TrimSpace(r.RemoteAddr)
	if host, _, err := net.SplitHostPort(addr); err == nil && host != "" {
		return host
	}
	if addr != "" {
		return addr
	}
	return UnknownIP
}

type bucket struct {
	lim      *rate.Limiter
	lastSeen time.Time
}

// throttle holds one token bucket per client key.
type throttle struct {
	rps   rate.Limit
	burst int
	ttl   time.Duration

	mu sync.Mutex
	m  map[string]*bucket
}

func newThrottle(rps float64, burst int, ttl time.Duration) *throttle {
	return &throttle{
		rps:   rate.Limit(rps),
		burst: burst,
		ttl:   ttl,
		m:     make(map[string]*bucket),
	}
}

func (t *throttle) allow(key string) bool {
	now := time.Now()
	t.mu.Lock()
	b := t.m[key]
	if b == nil {
		b = &bucket{lim: rate.NewLimiter(t.rps, t.burst)}
		t.m[key] = b
	}
	b.lastSeen = now
	t.mu.Unlock()
	return b.lim.AllowN(now, 1)
}

func (t *throttle) cleanup() {
	cutoff := time.Now().Add(-t.ttl)
	t.mu.Lock()
	defer t.mu.Unlock()
	for k, b := range t.m {
		if b.lastSeen.Before(cutoff) {
			delete(t.m, k)
		}
	}
}

// RateLimit returns a middleware that throttles by client IP with a token
// bucket. Example: RateLimit(ctx, 30, 10) => 30 req/min with burst 10.
// Idle buckets are dropped until ctx is cancelled.
func RateLimit(ctx context.Context, reqPerMin int, burst int) func(http.Handler) http.Handler {
	if reqPerMin <= 0 {
		// disabled
		return func(next http.Handler) http.Handler { return next }
	}
	if burst <= 0 {
		burst = 1
	}
	t := newThrottle(float64(reqPerMin)/60.0, burst, 10*time.Minute)
	go func() {
		tick := time.NewTicker(2 * time.Minute)
		defer tick.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-tick.C:
				t.cleanup()
			}
		}
	}()

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !t.allow(ClientIP(r)) {
				w.Header().Set("Content-Type", "application/json")
				w.Header().Set("Retry-After", "60")
				w.WriteHeader(http.StatusTooManyRequests)
				_, _ = w.Write([]byte(`{"detail":"rate limit exceeded"}`))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
