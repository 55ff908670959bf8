// Package badgercache provides a Badger-backed implementation of the cache
// port. Entries expire via Badger's native TTL support, so stale search and
// recommendation results age out without an external sweeper.
package badgercache

import (
	"fmt"
	"log"
	"time"

	badger "github.com/dgraph-io/badger/v4"

	"github.com/soundprint-labs/soundprint/internal/core/ports"
)

// Adapter implements the cache port on top of a Badger key-value store.
type Adapter struct {
	db *badger.DB
}

// compile-time interface assertion
var _ ports.Cache = (*Adapter)(nil)

// NewAdapter opens (or creates) a Badger store at path.
func NewAdapter(path string) (*Adapter, error) {
	opts := badger.DefaultOptions(path).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("badgercache: open: %w", err)
	}
	return &Adapter{db: db}, nil
}

// Close flushes and closes the underlying store.
func (a *Adapter) Close() error {
	return a.db.Close()
}

// Get returns the cached value for key. Expired or missing entries
// report a miss.
func (a *Adapter) Get(key string) ([]byte, bool) {
	var value []byte
	err := a.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		value, err = item.ValueCopy(nil)
		return err
	})
	if err != nil {
		if err != badger.ErrKeyNotFound {
			log.Printf("WARN badgercache: get %q: %v", key, err)
		}
		return nil, false
	}
	return value, true
}

// Set stores value under key for ttl. A non-positive ttl stores the entry
// without expiry. Failures are logged and swallowed; the cache is advisory.
func (a *Adapter) Set(key string, value []byte, ttl time.Duration) {
	err := a.db.Update(func(txn *badger.Txn) error {
		entry := badger.NewEntry([]byte(key), value)
		if ttl > 0 {
			entry = entry.WithTTL(ttl)
		}
		return txn.SetEntry(entry)
	})
	if err != nil {
		log.Printf("WARN badgercache: set %q: %v", key, err)
	}
}
