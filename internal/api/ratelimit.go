package api

import (
	"log/slog"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const (
	limiterSweepInterval  = 5 * time.Minute
	limiterStaleThreshold = 10 * time.Minute
)

// ipRateLimiter throttles requests per client IP using token buckets.
// Stale entries are swept inline during allow() calls, so there is no
// background goroutine to manage.
type ipRateLimiter struct {
	mu        sync.Mutex
	entries   map[string]*ipEntry
	limit     rate.Limit
	burst     int
	lastSweep time.Time
}

// ipEntry holds the bucket and last-seen time for one IP.
type ipEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// newIPRateLimiter creates a limiter refilling r tokens per second with the
// given burst (which is also the initial allowance).
func newIPRateLimiter(r float64, burst int) *ipRateLimiter {
	return &ipRateLimiter{
		entries:   make(map[string]*ipEntry),
		limit:     rate.Limit(r),
		burst:     burst,
		lastSweep: time.Now(),
	}
}

// allow reports whether a request from ip may proceed.
func (rl *ipRateLimiter) allow(ip string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()

	if now.Sub(rl.lastSweep) > limiterSweepInterval {
		for k, e := range rl.entries {
			if now.Sub(e.lastSeen) > limiterStaleThreshold {
				delete(rl.entries, k)
			}
		}
		rl.lastSweep = now
	}

	e, exists := rl.entries[ip]
	if !exists {
		limiter := rate.NewLimiter(rl.limit, rl.burst)
		rl.entries[ip] = &ipEntry{limiter: limiter, lastSeen: now}
		limiter.Allow()
		return true
	}

	e.lastSeen = now
	return e.limiter.Allow()
}

// rateLimitMiddleware rejects requests from IPs that exhausted their tokens.
func rateLimitMiddleware(rl *ipRateLimiter, trustProxy bool, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := clientIP(r, trustProxy)
			if !rl.allow(ip) {
				logger.Warn("rate limit exceeded",
					"ip", ip,
					"path", r.URL.Path,
					"method", r.Method,
				)
				w.Header().Set("Retry-After", "1")
				writeError(w, http.StatusTooManyRequests, "rate_limited", "too many requests")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// clientIP extracts the client IP from the request.
//
// When trustProxy is true, X-Real-IP is checked first, then the first entry
// of X-Forwarded-For. Header values must parse with net.ParseIP so that
// arbitrary strings cannot become rate limiter keys.
//
// When trustProxy is false, only RemoteAddr is used.
func clientIP(r *http.Request, trustProxy bool) string {
	if trustProxy {
		if xri := r.Header.Get("X-Real-IP"); xri != "" {
			if ip := net.ParseIP(strings.TrimSpace(xri)); ip != nil {
				return ip.String()
			}
		}

		if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
			raw := xff
			if first, _, ok := strings.Cut(xff, ","); ok {
				raw = first
			}
			if ip := net.ParseIP(strings.TrimSpace(raw)); ip != nil {
				return ip.String()
			}
		}
	}

	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}
