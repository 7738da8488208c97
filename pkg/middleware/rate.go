// Package middleware provides the HTTP middleware used by the kernel.
package middleware

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/shashiranjanraj/shopdesk/pkg/response"
)

// window tracks a fixed-window request count for one client.
type window struct {
	count   int
	resetAt time.Time
}

// limiter owns the per-client windows of one RateLimit middleware.
// Expired windows are swept lazily, at most once per period.
type limiter struct {
	mu      sync.Mutex
	max     int
	period  time.Duration
	clients map[string]*window
	sweepAt time.Time
	now     func() time.Time
}

func newLimiter(max int, period time.Duration) *limiter {
	return &limiter{
		max:     max,
		period:  period,
		clients: make(map[string]*window),
		now:     time.Now,
	}
}

func (l *limiter) allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if now.After(l.sweepAt) {
		for k, w := range l.clients {
			if now.After(w.resetAt) {
				delete(l.clients, k)
			}
		}
		l.sweepAt = now.Add(l.period)
	}

	w, ok := l.clients[key]
	if !ok || now.After(w.resetAt) {
		w = &window{resetAt: now.Add(l.period)}
		l.clients[key] = w
	}

	w.count++
	return w.count <= l.max
}

// RateLimit limits each client IP to max requests per period.
//
//	api := r.Group("/api", middleware.RateLimit(120, time.Minute))
func RateLimit(max int, period time.Duration) func(http.Handler) http.Handler {
	l := newLimiter(max, period)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !l.allow(clientIP(r)) {
				response.Error(w, http.StatusTooManyRequests, "Too Many Requests")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		first, _, _ := strings.Cut(fwd, ",")
		return strings.TrimSpace(first)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
