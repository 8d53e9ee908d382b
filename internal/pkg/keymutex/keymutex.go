// Package keymutex provides a registry of mutexes addressed by string key.
// The fulfillment core uses it to serialize read-modify-write cycles on a
// single order without blocking operations on unrelated orders.
package keymutex

import "sync"

// KeyMutex is a set of named locks. Locking a key blocks only callers locking
// the same key. Entries are reference counted and removed once the last holder
// releases the key, so the registry does not grow with the number of orders
// ever touched.
//
// The zero value is not usable; create instances with New.
type KeyMutex struct {
	mu      sync.Mutex
	entries map[string]*entry
}

type entry struct {
	mu   sync.Mutex
	refs int
}

// New creates an empty lock registry.
func New() *KeyMutex {
	return &KeyMutex{
		entries: make(map[string]*entry),
	}
}

// Lock acquires the lock for key, blocking until it is available.
// The caller must release it with Unlock using the same key.
func (km *KeyMutex) Lock(key string) {
	km.mu.Lock()
	e, ok := km.entries[key]
	if !ok {
		e = &entry{}
		km.entries[key] = e
	}
	e.refs++
	km.mu.Unlock()

	e.mu.Lock()
}

// Unlock releases the lock for key. Unlocking a key that is not held panics,
// matching sync.Mutex semantics.
func (km *KeyMutex) Unlock(key string) {
	km.mu.Lock()
	e, ok := km.entries[key]
	if !ok {
		km.mu.Unlock()
		panic("keymutex: unlock of unlocked key " + key)
	}
	e.refs--
	if e.refs == 0 {
		delete(km.entries, key)
	}
	km.mu.Unlock()

	e.mu.Unlock()
}
