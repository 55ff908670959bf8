// Package cache provides the in-process caching primitives: a bounded
// generic LRU for memoization and a TTL key-value store that satisfies the
// cache port for tests and single-node deployments.
package cache

import "sync"

type lruEntry[V any] struct {
	key   string
	value V
	prev  *lruEntry[V]
	next  *lruEntry[V]
}

// LRU is a thread-safe fixed-capacity least-recently-used cache. It backs
// the memoization of expensive pure computations (feature extraction) so
// memory stays bounded in long-running processes.
//
// A doubly-linked list with sentinel head/tail nodes keeps Get, Add and
// eviction at O(1).
type LRU[V any] struct {
	mu       sync.Mutex
	capacity int
	items    map[string]*lruEntry[V]
	head     *lruEntry[V]
	tail     *lruEntry[V]
}

// NewLRU creates an LRU with the given capacity. Non-positive capacities
// fall back to a small default.
func NewLRU[V any](capacity int) *LRU[V] {
	if capacity <= 0 {
		capacity = 64
	}
	l := &LRU[V]{
		capacity: capacity,
		items:    make(map[string]*lruEntry[V], capacity),
		head:     &lruEntry[V]{},
		tail:     &lruEntry[V]{},
	}
	l.head.next = l.tail
	l.tail.prev = l.head
	return l
}

// Get returns the cached value and marks it most recently used.
func (l *LRU[V]) Get(key string) (V, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	e, ok := l.items[key]
	if !ok {
		var zero V
		return zero, false
	}
	l.unlink(e)
	l.pushFront(e)
	return e.value, true
}

// Add stores a value, evicting the least recently used entry when full.
func (l *LRU[V]) Add(key string, value V) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if e, ok := l.items[key]; ok {
		e.value = value
		l.unlink(e)
		l.pushFront(e)
		return
	}

	if len(l.items) >= l.capacity {
		oldest := l.tail.prev
		l.unlink(oldest)
		delete(l.items, oldest.key)
	}

	e := &lruEntry[V]{key: key, value: value}
	l.items[key] = e
	l.pushFront(e)
}

// Len returns the number of cached entries.
func (l *LRU[V]) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.items)
}

func (l *LRU[V]) unlink(e *lruEntry[V]) {
	e.prev.next = e.next
	e.next.prev = e.prev
}

func (l *LRU[V]) pushFront(e *lruEntry[V]) {
	e.prev = l.head
	e.next = l.head.next
	l.head.next.prev = e
	l.head.next = e
}
