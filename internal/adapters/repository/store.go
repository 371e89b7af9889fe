// Package repository stores the latest raw snapshot of each dataset.
package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/okian/fplboard/internal/domain/metric"
)

// Snapshot is one fetched copy of a dataset. Records are shared read-only
// between readers and must not be mutated.
type Snapshot struct {
	ID        uuid.UUID
	Dataset   string
	FetchedAt time.Time
	Records   []metric.Raw
}

// NewSnapshot stamps a new snapshot with a random id.
func NewSnapshot(dataset string, records []metric.Raw, fetchedAt time.Time) Snapshot {
	return Snapshot{
		ID:        uuid.New(),
		Dataset:   dataset,
		FetchedAt: fetchedAt.UTC(),
		Records:   records,
	}
}

// Info summarizes a stored snapshot.
type Info struct {
	ID        uuid.UUID `json:"id"`
	Dataset   string    `json:"dataset"`
	FetchedAt time.Time `json:"fetched_at"`
	Records   int       `json:"records"`
}

// Info returns the snapshot summary.
func (s Snapshot) Info() Info {
	return Info{ID: s.ID, Dataset: s.Dataset, FetchedAt: s.FetchedAt, Records: len(s.Records)}
}

// Store keeps the newest snapshot per dataset.
type Store interface {
	// Put stores s unless a newer snapshot of the same dataset is already
	// present. It reports whether s was stored.
	Put(ctx context.Context, s Snapshot) (bool, error)
	// Get returns the newest snapshot or ErrNotFound.
	Get(ctx context.Context, dataset string) (Snapshot, error)
	// List summarizes every stored snapshot ordered by dataset.
	List(ctx context.Context) ([]Info, error)
	// Count returns the number of datasets with a snapshot.
	Count(ctx context.Context) int
	Close() error
}
