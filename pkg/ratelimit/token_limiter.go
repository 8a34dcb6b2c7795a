package ratelimit

import (
	"context"
	"sync"
	"time"
)

// TokenLimiter enforces a per-minute budget of variable-cost units,
// e.g. model tokens. The budget refills fully at the top of each window.
type TokenLimiter struct {
	mu        sync.Mutex
	max       int
	remaining int
	resetAt   time.Time
}

// NewTokenLimiter creates a limiter with the given per-minute budget.
func NewTokenLimiter(maxPerMinute int) *TokenLimiter {
	return &TokenLimiter{
		max:       maxPerMinute,
		remaining: maxPerMinute,
		resetAt:   time.Now().Add(time.Minute),
	}
}

// GetRemaining returns the budget left in the current window.
func (t *TokenLimiter) GetRemaining() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.refill()
	return t.remaining
}

// Wait blocks until n units are available or the context is canceled.
// Requests larger than the whole budget are admitted once a fresh
// window opens, so a single oversized call cannot deadlock.
func (t *TokenLimiter) Wait(ctx context.Context, n int) error {
	for {
		t.mu.Lock()
		t.refill()
		if t.remaining >= n || (n > t.max && t.remaining == t.max) {
			t.remaining -= n
			if t.remaining < 0 {
				t.remaining = 0
			}
			t.mu.Unlock()
			return nil
		}
		wait := time.Until(t.resetAt)
		t.mu.Unlock()

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}

func (t *TokenLimiter) refill() {
	now := time.Now()
	if now.After(t.resetAt) {
		t.remaining = t.max
		t.resetAt = now.Add(time.Minute)
	}
}
