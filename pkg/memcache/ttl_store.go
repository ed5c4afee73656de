// pkg/memcache/ttl_store.go
package mem

import (
	"sync"
	"time"
)

type entry[V any] struct {
	value     V
	expiresAt time.Time
}

// TTLStore is a mutex-guarded map whose entries expire after their TTL.
// Expired entries are dropped lazily by Update and DeleteFunc.
type TTLStore[V any] struct {
	mu   sync.RWMutex
	data map[string]entry[V]
	now  func() time.Time
}

func NewTTLStore[V any]() *TTLStore[V] {
	return &TTLStore[V]{
		data: make(map[string]entry[V]),
		now:  time.Now,
	}
}

func (s *TTLStore[V]) Set(key string, value V, ttl time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = entry[V]{
		value:     value,
		expiresAt: s.now().Add(ttl),
	}
}

// Update replaces the value and keeps the original expiry. It reports false
// when the key is missing or expired.
func (s *TTLStore[V]) Update(key string, value V) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.data[key]
	if !ok || s.now().After(e.expiresAt) {
		delete(s.data, key)
		return false
	}
	e.value = value
	s.data[key] = e
	return true
}

func (s *TTLStore[V]) Get(key string) (V, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.data[key]
	if !ok || s.now().After(e.expiresAt) {
		var zero V
		return zero, false
	}
	return e.value, true
}

// Values returns the live entries in no particular order.
func (s *TTLStore[V]) Values() []V {
	s.mu.RLock()
	defer s.mu.RUnlock()

	now := s.now()
	out := make([]V, 0, len(s.data))
	for _, e := range s.data {
		if !now.After(e.expiresAt) {
			out = append(out, e.value)
		}
	}
	return out
}

// DeleteFunc removes every entry for which fn returns true, plus expired ones.
func (s *TTLStore[V]) DeleteFunc(fn func(key string, value V) bool) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	n := 0
	for k, e := range s.data {
		if now.After(e.expiresAt) || fn(k, e.value) {
			delete(s.data, k)
			n++
		}
	}
	return n
}
