package cache

import (
	"sync"
	"time"
)

type memoryEntry struct {
	value     []byte
	expiresAt time.Time
}

// Memory is an in-process TTL cache satisfying the cache port. Expired
// entries are dropped lazily on Get; a capacity bound evicts arbitrary
// entries once exceeded, which is acceptable for a tier whose contents are
// all recomputable.
type Memory struct {
	mu       sync.RWMutex
	capacity int
	items    map[string]memoryEntry
	now      func() time.Time
}

// NewMemory creates a memory cache holding at most capacity entries.
func NewMemory(capacity int) *Memory {
	if capacity <= 0 {
		capacity = 10000
	}
	return &Memory{
		capacity: capacity,
		items:    make(map[string]memoryEntry),
		now:      time.Now,
	}
}

// Get returns the value for key if present and not expired.
func (m *Memory) Get(key string) ([]byte, bool) {
	m.mu.RLock()
	e, ok := m.items[key]
	m.mu.RUnlock()
	if !ok {
		return nil, false
	}
	if !e.expiresAt.IsZero() && m.now().After(e.expiresAt) {
		m.mu.Lock()
		delete(m.items, key)
		m.mu.Unlock()
		return nil, false
	}
	return e.value, true
}

// Set stores value under key for ttl. A non-positive ttl means no expiry.
func (m *Memory) Set(key string, value []byte, ttl time.Duration) {
	var expiresAt time.Time
	if ttl > 0 {
		expiresAt = m.now().Add(ttl)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.items[key]; !ok && len(m.items) >= m.capacity {
		m.evictLocked()
	}
	m.items[key] = memoryEntry{value: value, expiresAt: expiresAt}
}

// evictLocked removes expired entries first and falls back to dropping an
// arbitrary entry when nothing has expired yet.
func (m *Memory) evictLocked() {
	now := m.now()
	for k, e := range m.items {
		if !e.expiresAt.IsZero() && now.After(e.expiresAt) {
			delete(m.items, k)
		}
	}
	if len(m.items) < m.capacity {
		return
	}
	for k := range m.items {
		delete(m.items, k)
		return
	}
}
