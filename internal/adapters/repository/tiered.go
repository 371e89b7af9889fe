package repository

import (
	"context"
	"errors"
	"fmt"
)

// Tiered serves reads from a fast front store and writes through to a
// durable back store. Misses on the front fall back to the back store and
// are promoted.
type Tiered struct {
	front *MemoryStore
	back  Store
}

// NewTiered combines a memory front with a durable back store.
func NewTiered(front *MemoryStore, back Store) *Tiered {
	return &Tiered{front: front, back: back}
}

// Warm copies every snapshot from the back store into the front store and
// returns how many were loaded.
func (t *Tiered) Warm(ctx context.Context) (int, error) {
	infos, err := t.back.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("warm: %w", err)
	}
	loaded := 0
	for _, info := range infos {
		snap, err := t.back.Get(ctx, info.Dataset)
		if err != nil {
			return loaded, fmt.Errorf("warm %s: %w", info.Dataset, err)
		}
		if ok, _ := t.front.Put(ctx, snap); ok {
			loaded++
		}
	}
	return loaded, nil
}

// Put implements Store.
func (t *Tiered) Put(ctx context.Context, s Snapshot) (bool, error) {
	stored, err := t.front.Put(ctx, s)
	if err != nil || !stored {
		return stored, err
	}
	if _, err := t.back.Put(ctx, s); err != nil {
		return true, fmt.Errorf("write through: %w", err)
	}
	return true, nil
}

// Get implements Store.
func (t *Tiered) Get(ctx context.Context, dataset string) (Snapshot, error) {
	s, err := t.front.Get(ctx, dataset)
	if err == nil || !errors.Is(err, ErrNotFound) {
		return s, err
	}
	s, err = t.back.Get(ctx, dataset)
	if err != nil {
		return Snapshot{}, err
	}
	_, _ = t.front.Put(ctx, s)
	return s, nil
}

// List implements Store.
func (t *Tiered) List(ctx context.Context) ([]Info, error) {
	return t.front.List(ctx)
}

// Count implements Store.
func (t *Tiered) Count(ctx context.Context) int {
	return t.front.Count(ctx)
}

// Close implements Store.
func (t *Tiered) Close() error {
	return t.back.Close()
}
