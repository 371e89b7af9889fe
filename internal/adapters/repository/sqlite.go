package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/okian/fplboard/internal/domain/metric"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS snapshots (
	dataset    TEXT PRIMARY KEY,
	id         TEXT NOT NULL,
	fetched_at INTEGER NOT NULL,
	records    TEXT NOT NULL
);`

// SQLiteStore persists snapshots in a SQLite file so a restarted service can
// serve the last known data before its first refresh completes.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens (and creates if needed) a snapshot database at path.
func OpenSQLite(ctx context.Context, path string, opts ...Option) (*SQLiteStore, error) {
	cfg := defaultSQLiteConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	db, err := sql.Open("sqlite", cfg.dsn(path))
	if err != nil {
		return nil, fmt.Errorf("open snapshot cache: %w", err)
	}
	// one writer; modernc sqlite serializes anyway
	db.SetMaxOpenConns(1)
	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init snapshot cache: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

// Put implements Store.
func (s *SQLiteStore) Put(ctx context.Context, snap Snapshot) (bool, error) {
	records, err := json.Marshal(snap.Records)
	if err != nil {
		return false, fmt.Errorf("encode %s: %w", snap.Dataset, err)
	}
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO snapshots (dataset, id, fetched_at, records) VALUES (?, ?, ?, ?)
		ON CONFLICT(dataset) DO UPDATE SET
			id = excluded.id, fetched_at = excluded.fetched_at, records = excluded.records
		WHERE excluded.fetched_at >= snapshots.fetched_at`,
		snap.Dataset, snap.ID.String(), snap.FetchedAt.UnixNano(), string(records))
	if err != nil {
		return false, fmt.Errorf("store %s: %w", snap.Dataset, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("store %s: %w", snap.Dataset, err)
	}
	return n > 0, nil
}

// Get implements Store.
func (s *SQLiteStore) Get(ctx context.Context, dataset string) (Snapshot, error) {
	var (
		id      string
		fetched int64
		records string
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT id, fetched_at, records FROM snapshots WHERE dataset = ?`, dataset,
	).Scan(&id, &fetched, &records)
	if errors.Is(err, sql.ErrNoRows) {
		return Snapshot{}, fmt.Errorf("%s: %w", dataset, ErrNotFound)
	}
	if err != nil {
		return Snapshot{}, fmt.Errorf("load %s: %w", dataset, err)
	}
	return decodeRow(dataset, id, fetched, records)
}

// List implements Store.
func (s *SQLiteStore) List(ctx context.Context) ([]Info, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT dataset, id, fetched_at, json_array_length(records) FROM snapshots ORDER BY dataset`)
	if err != nil {
		return nil, fmt.Errorf("list snapshots: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []Info
	for rows.Next() {
		var (
			info    Info
			id      string
			fetched int64
		)
		if err := rows.Scan(&info.Dataset, &id, &fetched, &info.Records); err != nil {
			return nil, fmt.Errorf("list snapshots: %w", err)
		}
		info.ID, _ = uuid.Parse(id)
		info.FetchedAt = time.Unix(0, fetched).UTC()
		out = append(out, info)
	}
	return out, rows.Err()
}

// Count implements Store.
func (s *SQLiteStore) Count(ctx context.Context) int {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM snapshots`).Scan(&n); err != nil {
		return 0
	}
	return n
}

// Close implements Store.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func decodeRow(dataset, id string, fetched int64, records string) (Snapshot, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return Snapshot{}, fmt.Errorf("load %s: bad id: %w", dataset, err)
	}
	var raws []metric.Raw
	if err := json.Unmarshal([]byte(records), &raws); err != nil {
		return Snapshot{}, fmt.Errorf("load %s: %w", dataset, err)
	}
	return Snapshot{
		ID:        parsed,
		Dataset:   dataset,
		FetchedAt: time.Unix(0, fetched).UTC(),
		Records:   raws,
	}, nil
}
