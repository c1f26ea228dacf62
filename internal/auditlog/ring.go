// Package auditlog keeps the bounded forwarding audit trail. The newest
// entries are kept up to a fixed capacity; older ones are evicted first in,
// first out. This is a convenience trail, not a durable ledger.
package auditlog

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"

	"bansos-dispatch/internal/model"
)

// DefaultCapacity is the number of entries kept
const DefaultCapacity = 100

// Store persists entries beyond the process lifetime
type Store interface {
	Append(ctx context.Context, entry model.ForwardingLogEntry, keep int) error
	Recent(ctx context.Context, limit int) ([]model.ForwardingLogEntry, error)
}

// Finder is a Store that can look up a single entry. Get returns nil when
// the entry does not exist.
type Finder interface {
	Get(ctx context.Context, id string) (*model.ForwardingLogEntry, error)
}

// Ring is a fixed capacity FIFO of log entries, optionally mirrored to a Store
type Ring struct {
	// writeMu keeps the store in the same order as the ring
	writeMu  sync.Mutex
	mu       sync.Mutex
	entries  []model.ForwardingLogEntry
	start    int
	size     int
	store    Store
	onChange func(size int)
}

// Option configures a Ring
type Option func(*Ring)

// WithStore mirrors every append to store
func WithStore(store Store) Option {
	return func(r *Ring) { r.store = store }
}

// WithSizeHook is called with the new size after every append
func WithSizeHook(fn func(size int)) Option {
	return func(r *Ring) { r.onChange = fn }
}

// New creates a ring holding at most capacity entries
func New(capacity int, opts ...Option) *Ring {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	r := &Ring{entries: make([]model.ForwardingLogEntry, capacity)}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Capacity returns the maximum number of entries kept
func (r *Ring) Capacity() int {
	return len(r.entries)
}

// Load primes the ring with the newest persisted entries
func (r *Ring) Load(ctx context.Context) error {
	if r.store == nil {
		return nil
	}
	entries, err := r.store.Recent(ctx, r.Capacity())
	if err != nil {
		return err
	}

	r.mu.Lock()
	r.start, r.size = 0, 0
	// Recent returns newest first
	for i := len(entries) - 1; i >= 0; i-- {
		r.push(entries[i])
	}
	size := r.size
	r.mu.Unlock()

	r.notify(size)
	return nil
}

// Append adds an entry, evicting the oldest when full. A store failure is
// logged; the in-memory entry is kept regardless.
func (r *Ring) Append(ctx context.Context, entry model.ForwardingLogEntry) {
	r.writeMu.Lock()
	defer r.writeMu.Unlock()

	r.mu.Lock()
	r.push(entry)
	size := r.size
	r.mu.Unlock()

	if r.store != nil {
		if err := r.store.Append(ctx, entry, r.Capacity()); err != nil {
			logrus.WithField("entry_id", entry.ID).Errorf("Failed to persist forwarding log entry: %v", err)
		}
	}
	r.notify(size)
}

func (r *Ring) push(entry model.ForwardingLogEntry) {
	capacity := len(r.entries)
	if r.size < capacity {
		r.entries[(r.start+r.size)%capacity] = entry
		r.size++
		return
	}
	r.entries[r.start] = entry
	r.start = (r.start + 1) % capacity
}

func (r *Ring) notify(size int) {
	if r.onChange != nil {
		r.onChange(size)
	}
}

// Len returns the number of entries held
func (r *Ring) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.size
}

// Entries returns up to limit entries, newest first. limit <= 0 means all.
func (r *Ring) Entries(limit int) []model.ForwardingLogEntry {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := r.size
	if limit > 0 && limit < n {
		n = limit
	}
	out := make([]model.ForwardingLogEntry, 0, n)
	for i := 0; i < n; i++ {
		idx := (r.start + r.size - 1 - i) % len(r.entries)
		out = append(out, r.entries[idx])
	}
	return out
}

// Get finds an entry by ID
func (r *Ring) Get(id string) (model.ForwardingLogEntry, bool) {
	for _, e := range r.Entries(0) {
		if e.ID == id {
			return e, true
		}
	}
	return model.ForwardingLogEntry{}, false
}

// Lookup finds an entry in the ring, then in the store when it can look up
// single entries
func (r *Ring) Lookup(ctx context.Context, id string) (model.ForwardingLogEntry, bool, error) {
	if e, ok := r.Get(id); ok {
		return e, true, nil
	}
	finder, ok := r.store.(Finder)
	if !ok {
		return model.ForwardingLogEntry{}, false, nil
	}
	e, err := finder.Get(ctx, id)
	if err != nil {
		return model.ForwardingLogEntry{}, false, err
	}
	if e == nil {
		return model.ForwardingLogEntry{}, false, nil
	}
	return *e, true, nil
}
