package relay

import "sync"

// threadLocks serializes ledger access per (tenant, customer) thread.
// Only the window read and the append run under the lock; the inference
// call does not, trading a strict per-thread ordering guarantee for
// throughput on chatty customers.
type threadLocks struct {
	mu    sync.Mutex
	locks map[string]*lockEntry
}

type lockEntry struct {
	mu   sync.Mutex
	refs int
}

func newThreadLocks() *threadLocks {
	return &threadLocks{locks: make(map[string]*lockEntry)}
}

func (t *threadLocks) lock(key string) {
	t.mu.Lock()
	e, ok := t.locks[key]
	if !ok {
		e = &lockEntry{}
		t.locks[key] = e
	}
	e.refs++
	t.mu.Unlock()

	e.mu.Lock()
}

func (t *threadLocks) unlock(key string) {
	t.mu.Lock()
	e := t.locks[key]
	e.refs--
	if e.refs == 0 {
		delete(t.locks, key)
	}
	t.mu.Unlock()

	e.mu.Unlock()
}
