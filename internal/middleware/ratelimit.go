// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"
)

// callerWindow holds the request times of one caller inside the window,
// oldest first.
type callerWindow struct {
	mu    sync.Mutex
	times []time.Time
}

// prune drops times at or before cutoff and reports how many remain.
func (cw *callerWindow) prune(cutoff time.Time) int {
	keep := cw.times[:0]
	for _, ts := range cw.times {
		if ts.After(cutoff) {
			keep = append(keep, ts)
		}
	}
	cw.times = keep
	return len(keep)
}

// RateLimiter counts generation requests per caller over a sliding window.
// A limit of zero or less disables limiting.
type RateLimiter struct {
	mu      sync.Mutex
	callers map[string]*callerWindow
	limit   int
	window  time.Duration
	stopCh  chan struct{}
}

// NewRateLimiter allows limit requests per window for each caller. Idle
// callers are swept by a background goroutine until Stop is called.
func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	rl := &RateLimiter{
		callers: make(map[string]*callerWindow),
		limit:   limit,
		window:  window,
		stopCh:  make(chan struct{}),
	}

	sweep := max(window, time.Minute)
	go func() {
		ticker := time.NewTicker(sweep)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				rl.cleanup()
			case <-rl.stopCh:
				return
			}
		}
	}()

	return rl
}

// Stop terminates the background sweep.
func (rl *RateLimiter) Stop() {
	close(rl.stopCh)
}

func (rl *RateLimiter) windowFor(key string) *callerWindow {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	cw, ok := rl.callers[key]
	if !ok {
		cw = &callerWindow{}
		rl.callers[key] = cw
	}
	return cw
}

// allow records a request for key when it is within the limit. When it is
// not, allow returns the time until the oldest request leaves the window.
func (rl *RateLimiter) allow(key string) (bool, time.Duration) {
	if rl.limit <= 0 {
		return true, 0
	}

	cw := rl.windowFor(key)
	now := time.Now()

	cw.mu.Lock()
	defer cw.mu.Unlock()

	if cw.prune(now.Add(-rl.window)) >= rl.limit {
		return false, cw.times[0].Add(rl.window).Sub(now)
	}
	cw.times = append(cw.times, now)
	return true, 0
}

// cleanup forgets callers with no request inside the window.
func (rl *RateLimiter) cleanup() {
	cutoff := time.Now().Add(-rl.window)

	rl.mu.Lock()
	defer rl.mu.Unlock()

	for key, cw := range rl.callers {
		cw.mu.Lock()
		remaining := cw.prune(cutoff)
		cw.mu.Unlock()
		if remaining == 0 {
			delete(rl.callers, key)
		}
	}
}

// Middleware rejects callers over the limit with 429 and a Retry-After
// header. Verified users share one budget across addresses; anonymous
// callers are limited per IP. It must run after LoadIdentity.
func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := rateKey(r)
		if ok, wait := rl.allow(key); !ok {
			slog.Warn("rate limit exceeded", "caller", key, "path", r.URL.Path)
			w.Header().Set("Retry-After", strconv.Itoa(retryAfterSeconds(wait)))
			WriteError(w, r, http.StatusTooManyRequests, CodeRateLimit, "too many requests, slow down")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// rateKey identifies the caller a request is counted against.
func rateKey(r *http.Request) string {
	if u := UserFromCtx(r.Context()); u != nil {
		return "user:" + u.ID
	}
	return "ip:" + clientIP(r)
}

// retryAfterSeconds rounds wait up to whole seconds, never below one.
func retryAfterSeconds(wait time.Duration) int {
	return max(int(math.Ceil(wait.Seconds())), 1)
}

// clientIP returns the originating address: the leftmost X-Forwarded-For
// entry, then X-Real-IP, then the connection's address without its port.
func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		return strings.TrimSpace(first)
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}
	addr := r.RemoteAddr
	if idx := strings.LastIndex(addr, ":"); idx != -1 {
		return addr[:idx]
	}
	return addr
}
