// Package ratelimit provides a token-bucket limiter used to bound outbound
// suggestion requests and per-client inbound message rates. It wraps
// golang.org/x/time/rate and feeds it timestamps from the injected clock, so
// tests drive refill with a fake clock instead of waiting on real time.
package ratelimit

import (
	"sync"
	"time"

	"github.com/pairdev/paird/src/paird/internal/clock"
	"golang.org/x/time/rate"
)

// _maxTracked bounds the number of per-client limiters kept at once.
const _maxTracked = 10000

// Limiter is a token bucket refilled continuously at a fixed rate.
type Limiter struct {
	clock clock.Clock
	lim   *rate.Limiter
}

// NewLimiter returns a full bucket allowing burst immediate acquisitions,
// refilled at r tokens per second.
func NewLimiter(c clock.Clock, r float64, burst int) *Limiter {
	return &Limiter{
		clock: c,
		lim:   rate.NewLimiter(rate.Limit(r), burst),
	}
}

// Allow reports whether one acquisition is permitted now, consuming a token
// when it is.
func (l *Limiter) Allow() bool {
	return l.AllowN(1)
}

// AllowN reports whether n acquisitions are permitted now, consuming n
// tokens when they are.
func (l *Limiter) AllowN(n int) bool {
	return l.lim.AllowN(l.clock.Now(), n)
}

// Reserve consumes a token when one is available and returns (true, 0).
// When the bucket is empty it consumes nothing and returns false along with
// the wait until the next token, so callers can defer work to the end of the
// forbidden window instead of dropping it.
func (l *Limiter) Reserve() (bool, time.Duration) {
	now := l.clock.Now()
	r := l.lim.ReserveN(now, 1)
	if !r.OK() {
		return false, rate.InfDuration
	}
	if delay := r.DelayFrom(now); delay > 0 {
		r.CancelAt(now)
		return false, delay
	}
	return true, 0
}

// ClientLimiters hands out one Limiter per client identifier.
type ClientLimiters struct {
	clock clock.Clock
	rate  float64
	burst int

	mu       sync.RWMutex
	limiters map[string]*Limiter
}

// NewClientLimiters returns an empty set of per-client limiters sharing one
// rate and burst configuration.
func NewClientLimiters(c clock.Clock, rate float64, burst int) *ClientLimiters {
	return &ClientLimiters{
		clock:    c,
		rate:     rate,
		burst:    burst,
		limiters: make(map[string]*Limiter),
	}
}

// Get returns the limiter for a client, creating it on first use.
func (cl *ClientLimiters) Get(clientID string) *Limiter {
	cl.mu.RLock()
	limiter, ok := cl.limiters[clientID]
	cl.mu.RUnlock()

	if ok {
		return limiter
	}

	cl.mu.Lock()
	defer cl.mu.Unlock()

	if limiter, ok := cl.limiters[clientID]; ok {
		return limiter
	}

	if len(cl.limiters) >= _maxTracked {
		cl.limiters = make(map[string]*Limiter)
	}

	limiter = NewLimiter(cl.clock, cl.rate, cl.burst)
	cl.limiters[clientID] = limiter
	return limiter
}

// Remove drops the limiter for a departed client.
func (cl *ClientLimiters) Remove(clientID string) {
	cl.mu.Lock()
	defer cl.mu.Unlock()
	delete(cl.limiters, clientID)
}
