package ratelimit

import (
	"sync"
	"time"
)

type actionBucket struct {
	count         int
	windowStart   time.Time
	cooldownUntil time.Time // zero means no cooldown
}

// ActionRateLimiter limits a user to maxActions per window. Going over starts
// a cooldown during which every call is rejected.
//
//	limiter := NewActionRateLimiter(3, time.Hour, time.Hour)
//	if !limiter.Allow(userID) { return 429 }
type ActionRateLimiter struct {
	mu          sync.RWMutex
	buckets     map[string]*actionBucket
	maxActions  int
	window      time.Duration
	cooldown    time.Duration
	now         func() time.Time
	stopCleanup chan struct{}
	stopOnce    sync.Once
}

// NewActionRateLimiter starts the sweep goroutine.
func NewActionRateLimiter(maxActions int, window, cooldown time.Duration) *ActionRateLimiter {
	rl := &ActionRateLimiter{
		buckets:     make(map[string]*actionBucket),
		maxActions:  maxActions,
		window:      window,
		cooldown:    cooldown,
		now:         time.Now,
		stopCleanup: make(chan struct{}),
	}
	go sweep(time.Minute, rl.stopCleanup, rl.cleanup)
	return rl
}

// Allow counts an action by key and reports whether it may proceed.
func (rl *ActionRateLimiter) Allow(key string) bool {
	now := rl.now()

	rl.mu.Lock()
	defer rl.mu.Unlock()

	b, exists := rl.buckets[key]
	if !exists {
		rl.buckets[key] = &actionBucket{count: 1, windowStart: now}
		return true
	}

	if !b.cooldownUntil.IsZero() {
		if now.Before(b.cooldownUntil) {
			return false
		}
		b.count = 1
		b.windowStart = now
		b.cooldownUntil = time.Time{}
		return true
	}

	if now.Sub(b.windowStart) > rl.window {
		b.count = 1
		b.windowStart = now
		return true
	}

	b.count++
	if b.count > rl.maxActions {
		b.cooldownUntil = now.Add(rl.cooldown)
		return false
	}
	return true
}

// CooldownSeconds is the Retry-After value for key, 0 when not blocked.
func (rl *ActionRateLimiter) CooldownSeconds(key string) int {
	rl.mu.RLock()
	defer rl.mu.RUnlock()

	b, exists := rl.buckets[key]
	if !exists || b.cooldownUntil.IsZero() {
		return 0
	}

	remaining := b.cooldownUntil.Sub(rl.now())
	if remaining <= 0 {
		return 0
	}
	return int(remaining.Seconds()) + 1
}

// Stop ends the sweep goroutine.
func (rl *ActionRateLimiter) Stop() {
	rl.stopOnce.Do(func() { close(rl.stopCleanup) })
}

// cleanup keeps buckets that are still in their window or cooldown.
func (rl *ActionRateLimiter) cleanup() {
	now := rl.now()

	rl.mu.Lock()
	defer rl.mu.Unlock()

	for key, b := range rl.buckets {
		windowExpired := now.Sub(b.windowStart) > rl.window
		cooldownExpired := b.cooldownUntil.IsZero() || now.After(b.cooldownUntil)
		if windowExpired && cooldownExpired {
			delete(rl.buckets, key)
		}
	}
}
