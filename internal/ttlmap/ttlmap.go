// Package ttlmap implements a concurrency-safe keyed store with time-based
// eviction. The server keeps two instances: one for login sessions and one
// for pending upload reservations.
package ttlmap

import (
	"sync"
	"time"
)

// Store maps caller-generated keys to values and stamps each entry with its
// insertion time. All access goes through a single reader/writer lock, so
// lookups may proceed concurrently while mutations are exclusive.
//
// The store never generates keys. Callers mint random tokens before
// inserting, which lets them hand a token to the client before any other
// goroutine can observe the entry.
type Store[K comparable, V any] struct {
	mu      sync.RWMutex
	entries map[K]entry[V]
	now     func() time.Time
}

type entry[V any] struct {
	value     V
	createdAt time.Time
}

func New[K comparable, V any]() *Store[K, V] {
	return &Store[K, V]{
		entries: make(map[K]entry[V]),
		now:     time.Now,
	}
}

// Insert stores value under key. An existing entry under the same key is
// overwritten and its age resets.
func (s *Store[K, V]) Insert(key K, value V) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = entry[V]{value: value, createdAt: s.now()}
}

// Get returns the value stored under key, if any.
func (s *Store[K, V]) Get(key K) (V, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entries[key]
	return e.value, ok
}

// Remove deletes the entry under key and returns its value, if any.
func (s *Store[K, V]) Remove(key K) (V, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[key]
	if ok {
		delete(s.entries, key)
	}
	return e.value, ok
}

// Len reports the number of live entries.
func (s *Store[K, V]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Sweep replaces the store's contents with only those entries younger than
// retention. An entry whose age equals retention exactly is evicted. The
// whole replacement happens under one write acquisition, so the lock hold
// time is bounded by a map copy, never by per-entry I/O.
func (s *Store[K, V]) Sweep(retention time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	kept := make(map[K]entry[V], len(s.entries))
	for k, e := range s.entries {
		if now.Sub(e.createdAt) < retention {
			kept[k] = e
		}
	}
	s.entries = kept
}

// Sweeper periodically evicts expired entries from a Store. Each Sweeper
// runs on its own ticker, decoupled from request handling; eviction timing
// is therefore an upper bound on entry lifetime, not an exact instant.
type Sweeper[K comparable, V any] struct {
	store     *Store[K, V]
	interval  time.Duration
	retention time.Duration
	stop      chan struct{}
	done      chan struct{}
}

func NewSweeper[K comparable, V any](store *Store[K, V], interval, retention time.Duration) *Sweeper[K, V] {
	return &Sweeper[K, V]{
		store:     store,
		interval:  interval,
		retention: retention,
		stop:      make(chan struct{}),
		done:      make(chan struct{}),
	}
}

// Start launches the sweep loop in its own goroutine.
func (sw *Sweeper[K, V]) Start() {
	go sw.run()
}

func (sw *Sweeper[K, V]) run() {
	defer close(sw.done)
	ticker := time.NewTicker(sw.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			sw.store.Sweep(sw.retention)
		case <-sw.stop:
			return
		}
	}
}

// Stop terminates the sweep loop and waits for it to exit. Stop must be
// called at most once.
func (sw *Sweeper[K, V]) Stop() {
	close(sw.stop)
	<-sw.done
}
