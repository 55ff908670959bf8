package cache

import (
	"fmt"
	"testing"
	"time"
)

func TestLRU_EvictsLeastRecentlyUsed(t *testing.T) {
	l := NewLRU[int](2)
	l.Add("a", 1)
	l.Add("b", 2)

	// touch "a" so "b" becomes the eviction candidate
	if v, ok := l.Get("a"); !ok || v != 1 {
		t.Fatalf("expected a=1, got %v ok=%v", v, ok)
	}

	l.Add("c", 3)

	if _, ok := l.Get("b"); ok {
		t.Fatal("expected b to be evicted")
	}
	if v, ok := l.Get("a"); !ok || v != 1 {
		t.Fatalf("expected a to survive, got %v ok=%v", v, ok)
	}
	if v, ok := l.Get("c"); !ok || v != 3 {
		t.Fatalf("expected c=3, got %v ok=%v", v, ok)
	}
}

func TestLRU_UpdateExistingKey(t *testing.T) {
	l := NewLRU[string](2)
	l.Add("a", "one")
	l.Add("a", "uno")

	if l.Len() != 1 {
		t.Fatalf("expected 1 entry, got %d", l.Len())
	}
	if v, _ := l.Get("a"); v != "uno" {
		t.Fatalf("expected updated value, got %q", v)
	}
}

func TestLRU_CapacityBound(t *testing.T) {
	l := NewLRU[int](8)
	for i := 0; i < 100; i++ {
		l.Add(fmt.Sprintf("k%d", i), i)
	}
	if l.Len() != 8 {
		t.Fatalf("expected bounded length 8, got %d", l.Len())
	}
}

func TestMemory_TTLExpiry(t *testing.T) {
	m := NewMemory(16)
	now := time.Now()
	m.now = func() time.Time { return now }

	m.Set("k", []byte("v"), time.Hour)

	if v, ok := m.Get("k"); !ok || string(v) != "v" {
		t.Fatalf("expected fresh hit, got %q ok=%v", v, ok)
	}

	now = now.Add(2 * time.Hour)
	if _, ok := m.Get("k"); ok {
		t.Fatal("expected entry to expire")
	}
}

func TestMemory_NoTTLNeverExpires(t *testing.T) {
	m := NewMemory(16)
	now := time.Now()
	m.now = func() time.Time { return now }

	m.Set("k", []byte("v"), 0)
	now = now.Add(1000 * time.Hour)

	if _, ok := m.Get("k"); !ok {
		t.Fatal("expected entry without ttl to persist")
	}
}

func TestMemory_CapacityBound(t *testing.T) {
	m := NewMemory(4)
	for i := 0; i < 20; i++ {
		m.Set(fmt.Sprintf("k%d", i), []byte{byte(i)}, time.Hour)
	}
	if len(m.items) > 4 {
		t.Fatalf("expected at most 4 entries, got %d", len(m.items))
	}
}
