package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/okian/fplboard/pkg/metrics"
)

// MemoryStore is an in-process Store.
type MemoryStore struct {
	mu        sync.RWMutex
	snapshots map[string]Snapshot
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{snapshots: make(map[string]Snapshot)}
}

// Put implements Store.
func (m *MemoryStore) Put(_ context.Context, s Snapshot) (bool, error) {
	start := time.Now()
	defer func() {
		metrics.RecordRepositoryWriteLatency(float64(time.Since(start).Milliseconds()))
	}()

	m.mu.Lock()
	defer m.mu.Unlock()

	if cur, ok := m.snapshots[s.Dataset]; ok && cur.FetchedAt.After(s.FetchedAt) {
		return false, nil
	}
	m.snapshots[s.Dataset] = s
	metrics.UpdateRepositorySnapshots(len(m.snapshots))
	return true, nil
}

// Get implements Store.
func (m *MemoryStore) Get(_ context.Context, dataset string) (Snapshot, error) {
	start := time.Now()
	defer func() {
		metrics.RecordRepositoryQueryLatency(float64(time.Since(start).Milliseconds()))
	}()

	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.snapshots[dataset]
	if !ok {
		return Snapshot{}, fmt.Errorf("%s: %w", dataset, ErrNotFound)
	}
	return s, nil
}

// List implements Store.
func (m *MemoryStore) List(_ context.Context) ([]Info, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]Info, 0, len(m.snapshots))
	for _, s := range m.snapshots {
		out = append(out, s.Info())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Dataset < out[j].Dataset })
	return out, nil
}

// Count implements Store.
func (m *MemoryStore) Count(_ context.Context) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.snapshots)
}

// Close implements Store.
func (m *MemoryStore) Close() error { return nil }
