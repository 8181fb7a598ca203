// Package cache holds read-mostly data that is cheap to reload.
package cache

import (
	"sync"
	"time"
)

// Snapshot caches one value for a fixed TTL. Invalidate bumps a generation
// so a loader that read the store before a write cannot put the old value
// back:
//
//	list, gen, ok := snap.Get()
//	if !ok {
//		list = load()
//		snap.Set(gen, list)
//	}
type Snapshot[V any] struct {
	mu      sync.Mutex
	value   V
	loaded  bool
	expires time.Time
	gen     uint64
	ttl     time.Duration
	now     func() time.Time
}

// NewSnapshot returns an empty snapshot. A ttl <= 0 disables caching.
func NewSnapshot[V any](ttl time.Duration) *Snapshot[V] {
	return &Snapshot[V]{ttl: ttl, now: time.Now}
}

// Get returns the cached value if it is present and fresh, plus the current
// generation to pass to Set after a reload.
func (s *Snapshot[V]) Get() (V, uint64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.loaded || !s.now().Before(s.expires) {
		var zero V
		return zero, s.gen, false
	}
	return s.value, s.gen, true
}

// Set stores v unless the snapshot was invalidated after gen was read.
// It reports whether v was stored.
func (s *Snapshot[V]) Set(gen uint64, v V) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != s.gen || s.ttl <= 0 {
		return false
	}
	s.value, s.loaded = v, true
	s.expires = s.now().Add(s.ttl)
	return true
}

// Invalidate drops the cached value.
func (s *Snapshot[V]) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()

	var zero V
	s.value, s.loaded = zero, false
	s.gen++
}
