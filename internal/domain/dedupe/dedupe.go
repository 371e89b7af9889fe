// Package dedupe tracks in-flight work so the same key is not queued twice.
package dedupe

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

// Deduper records keys that are pending and releases them when done.
type Deduper interface {
	// SeenAndRecord reports whether id is already pending. When it is not,
	// id is recorded and false is returned.
	SeenAndRecord(ctx context.Context, id string) bool

	// Unrecord releases id so it can be recorded again.
	Unrecord(ctx context.Context, id string)

	// Size returns the number of pending ids.
	Size() int64
}

type inMemoryDeduper struct {
	mu      sync.Mutex
	pending map[string]time.Time // id -> recorded at
	ttl     time.Duration        // 0 keeps entries until Unrecord
	now     func() time.Time
	size    atomic.Int64
}

// NewInMemoryDeduper creates a Deduper backed by a map.
func NewInMemoryDeduper(opts ...Option) Deduper {
	d := &inMemoryDeduper{
		pending: make(map[string]time.Time),
		ttl:     10 * time.Minute,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

func (d *inMemoryDeduper) SeenAndRecord(_ context.Context, id string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	now := d.now()
	if at, ok := d.pending[id]; ok {
		if d.ttl <= 0 || now.Sub(at) < d.ttl {
			return true
		}
		// expired: a stuck holder must not block the key forever
		d.pending[id] = now
		return false
	}

	d.pending[id] = now
	d.size.Add(1)
	return false
}

func (d *inMemoryDeduper) Unrecord(_ context.Context, id string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.pending[id]; ok {
		delete(d.pending, id)
		d.size.Add(-1)
	}
}

func (d *inMemoryDeduper) Size() int64 {
	return d.size.Load()
}
