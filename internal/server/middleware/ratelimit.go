package middleware

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

const (
	limiterSweepEvery = 5 * time.Minute
	limiterIdleAfter  = 15 * time.Minute
)

// limiterTable hands out one token bucket per key and evicts buckets that
// have sat idle, so a venue that went home for the night doesn't pin memory.
type limiterTable[K comparable] struct {
	mu      sync.Mutex
	buckets map[K]*bucket
	rate    rate.Limit
	burst   int
}

type bucket struct {
	lim  *rate.Limiter
	seen time.Time
}

func newLimiterTable[K comparable](ctx context.Context, perSecond float64, burst int) *limiterTable[K] {
	t := &limiterTable[K]{
		buckets: make(map[K]*bucket),
		rate:    rate.Limit(perSecond),
		burst:   burst,
	}
	go t.sweep(ctx)
	return t
}

func (t *limiterTable[K]) allow(key K) bool {
	t.mu.Lock()
	b, ok := t.buckets[key]
	if !ok {
		b = &bucket{lim: rate.NewLimiter(t.rate, t.burst)}
		t.buckets[key] = b
	}
	b.seen = time.Now()
	t.mu.Unlock()

	return b.lim.Allow()
}

func (t *limiterTable[K]) sweep(ctx context.Context) {
	ticker := time.NewTicker(limiterSweepEvery)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			cutoff := time.Now().Add(-limiterIdleAfter)
			t.mu.Lock()
			for key, b := range t.buckets {
				if b.seen.Before(cutoff) {
					delete(t.buckets, key)
				}
			}
			t.mu.Unlock()
		}
	}
}

// RateLimit throttles authenticated traffic per tenant. Requests without an
// identity pass through; RequireTenant rejects those separately.
func RateLimit(ctx context.Context, perSecond float64, burst int) func(http.Handler) http.Handler {
	table := newLimiterTable[uuid.UUID](ctx, perSecond, burst)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, ok := IdentityFrom(r.Context())
			if !ok {
				next.ServeHTTP(w, r)
				return
			}

			if !table.allow(id.TenantID) {
				deny(w, http.StatusTooManyRequests, "rate limit exceeded")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RateLimitByIP throttles unauthenticated traffic per client address, for
// the signup/login surface. Expects chi's RealIP to have normalized
// RemoteAddr already.
func RateLimitByIP(ctx context.Context, perSecond float64, burst int) func(http.Handler) http.Handler {
	table := newLimiterTable[string](ctx, perSecond, burst)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !table.allow(r.RemoteAddr) {
				deny(w, http.StatusTooManyRequests, "rate limit exceeded")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
