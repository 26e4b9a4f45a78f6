package client

import (
	"strings"
	"sync"
)

// State describes the observable condition of a cached request.
type State int

const (
	// StateMissing means the key has never been requested, or was invalidated.
	StateMissing State = iota
	// StateLoading means a request for the key is in flight.
	StateLoading
	// StateError means the last request for the key failed; the error is
	// served to later callers until the key is invalidated.
	StateError
	// StateSuccess means the key holds a validated payload.
	StateSuccess
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateError:
		return "error"
	case StateSuccess:
		return "success"
	default:
		return "missing"
	}
}

// entry is one cached request outcome. The done channel closes when the
// fetch settles, letting concurrent callers for the same key wait instead of
// issuing duplicate requests.
type entry struct {
	done  chan struct{}
	value any
	err   error
}

// Cache stores request outcomes by key. Requests for the same key are
// deduplicated: while one fetch is in flight, later callers block on its
// result rather than fetching again.
type Cache struct {
	mu      sync.Mutex
	entries map[string]*entry
}

// NewCache creates an empty cache.
func NewCache() *Cache {
	return &Cache{
		entries: make(map[string]*entry),
	}
}

// Do returns the cached outcome for key, fetching it with fetch when the key
// is missing. Both successful values and errors are cached until the key is
// invalidated; re-triggering a failed request requires an explicit
// Invalidate first.
func (c *Cache) Do(key string, fetch func() (any, error)) (any, error) {
	c.mu.Lock()
	if e, ok := c.entries[key]; ok {
		c.mu.Unlock()
		<-e.done
		return e.value, e.err
	}

	e := &entry{done: make(chan struct{})}
	c.entries[key] = e
	c.mu.Unlock()

	e.value, e.err = fetch()
	close(e.done)
	return e.value, e.err
}

// State reports the observable state of a key without blocking.
func (c *Cache) State(key string) State {
	c.mu.Lock()
	e, ok := c.entries[key]
	c.mu.Unlock()

	if !ok {
		return StateMissing
	}

	select {
	case <-e.done:
		if e.err != nil {
			return StateError
		}
		return StateSuccess
	default:
		return StateLoading
	}
}

// Invalidate removes a key so the next request for it fetches fresh data.
func (c *Cache) Invalidate(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
}

// InvalidatePrefix removes every key sharing a prefix. It is used after
// writes, when all cached list variants are stale at once.
func (c *Cache) InvalidatePrefix(prefix string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for key := range c.entries {
		if strings.HasPrefix(key, prefix) {
			delete(c.entries, key)
		}
	}
}
