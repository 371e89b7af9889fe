// Package service wires the refresh pipeline, the snapshot store and the
// analytics engines into the operations served by the HTTP API and CLI.
package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/okian/fplboard/internal/adapters/mq/queue"
	"github.com/okian/fplboard/internal/adapters/mq/worker"
	"github.com/okian/fplboard/internal/adapters/repository"
	"github.com/okian/fplboard/internal/adapters/scheduler"
	"github.com/okian/fplboard/internal/adapters/upstream"
	"github.com/okian/fplboard/internal/domain/classify"
	"github.com/okian/fplboard/internal/domain/dedupe"
	"github.com/okian/fplboard/internal/domain/swing"
	"github.com/okian/fplboard/pkg/logger"
	"github.com/okian/fplboard/pkg/metrics"
)

// RefreshStatus is the last outcome of a dataset refresh.
type RefreshStatus struct {
	Outcome string    `json:"outcome"`
	Records int       `json:"records"`
	Error   string    `json:"error,omitempty"`
	At      time.Time `json:"at"`
}

// Service implements the API dependencies for the dashboard.
type Service struct {
	mu sync.RWMutex

	// Core components
	fetcher   worker.Fetcher
	store     repository.Store
	deduper   dedupe.Deduper
	jobs      *queue.InMemoryQueue
	pool      *worker.Pool
	scheduler *scheduler.Scheduler
	swings    *swing.Calculator
	rules     *classify.Registry

	// Configuration
	workerCount    int
	queueSize      int
	cachePath      string
	schedule       string
	refreshOnStart bool
	maxListLimit   int
	deadZone       float64
	ownStore       bool

	// State
	started  bool
	cancel   context.CancelFunc
	statusMu sync.Mutex
	status   map[string]RefreshStatus

	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithWorkerCount sets the number of refresh workers.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithQueueSize sets the refresh queue capacity.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithCachePath enables the SQLite warm-start cache at path.
func WithCachePath(path string) Option {
	return func(s *Service) {
		s.cachePath = path
	}
}

// WithStore replaces the snapshot store. The caller keeps ownership.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		s.store = store
	}
}

// WithSchedule sets the cron spec for background refreshes. An empty spec
// disables scheduling.
func WithSchedule(spec string) Option {
	return func(s *Service) {
		s.schedule = spec
	}
}

// WithRefreshOnStart enqueues a full refresh when the service starts.
func WithRefreshOnStart(enabled bool) Option {
	return func(s *Service) {
		s.refreshOnStart = enabled
	}
}

// WithMaxListLimit caps top and bottom parameters.
func WithMaxListLimit(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxListLimit = n
		}
	}
}

// WithSwingDeadZone sets the steady band of the swing calculator.
func WithSwingDeadZone(d float64) Option {
	return func(s *Service) {
		s.deadZone = d
	}
}

// New constructs a Service that refreshes datasets through fetcher.
func New(fetcher worker.Fetcher, opts ...Option) *Service {
	s := &Service{
		fetcher:        fetcher,
		workerCount:    2,
		queueSize:      64,
		refreshOnStart: true,
		maxListLimit:   100,
		deadZone:       swing.DefaultDeadZone,
		status:         make(map[string]RefreshStatus),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("service")
	}
	s.swings = swing.New(swing.WithDeadZone(s.deadZone))
	s.rules = classify.Builtin().With(s.swings.RuleSet())
	return s
}

// Start opens the store, loads cached snapshots and starts the refresh
// pipeline.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	s.logger.Info(ctx, "starting dashboard service...")

	if s.schedule != "" {
		if err := scheduler.Validate(s.schedule); err != nil {
			return fmt.Errorf("start: %w", err)
		}
	}

	if err := s.openStore(ctx); err != nil {
		return err
	}

	runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	s.cancel = cancel

	s.deduper = dedupe.NewInMemoryDeduper()
	s.jobs = queue.NewInMemoryQueue(queue.WithCapacity(s.queueSize), queue.WithReleaser(s.deduper))
	s.pool = worker.NewPool(s.workerCount, s.jobs, s.fetcher, s.store,
		worker.WithLogger(s.logger.Named("worker")),
		worker.WithReleaser(s.deduper),
		worker.WithObserver(s.observe),
	)
	s.pool.Start(runCtx)

	if s.schedule != "" {
		s.scheduler = scheduler.New(scheduler.WithLogger(s.logger.Named("scheduler")))
		if err := s.scheduler.Schedule(runCtx, s.schedule, func(ctx context.Context) {
			s.RefreshAll(ctx, queue.ReasonSchedule)
		}); err != nil {
			cancel()
			return fmt.Errorf("start: %w", err)
		}
		s.scheduler.Start()
	}

	s.started = true
	s.logger.Info(ctx, "dashboard service started",
		logger.Int("workers", s.workerCount),
		logger.Int("queueSize", s.queueSize),
		logger.String("schedule", s.schedule),
		logger.Int("snapshots", s.store.Count(ctx)),
	)

	if s.refreshOnStart {
		n := s.refreshAll(runCtx, queue.ReasonStartup)
		s.logger.Info(ctx, "initial refresh queued", logger.Int("datasets", n))
	}
	return nil
}

func (s *Service) openStore(ctx context.Context) error {
	if s.store != nil {
		return nil
	}
	front := repository.NewMemoryStore()
	s.ownStore = true
	if s.cachePath == "" {
		s.store = front
		return nil
	}

	cache, err := repository.OpenSQLite(ctx, s.cachePath)
	if err != nil {
		return fmt.Errorf("start: %w", err)
	}
	tiered := repository.NewTiered(front, cache)
	n, err := tiered.Warm(ctx)
	if err != nil {
		// a broken cache only costs the warm start
		s.logger.Warn(ctx, "warm start failed", logger.Error(err))
	}
	s.logger.Info(ctx, "snapshot cache opened",
		logger.String("path", s.cachePath),
		logger.Int("warmed", n),
	)
	s.store = tiered
	return nil
}

// Stop gracefully shuts down the service. Queued refreshes are drained
// before the store is closed.
func (s *Service) Stop() {
	s.mu.Lock()
	if !s.started {
		s.mu.Unlock()
		return
	}
	s.started = false
	sched, pool, cancel := s.scheduler, s.pool, s.cancel
	s.scheduler, s.pool, s.cancel = nil, nil, nil
	s.mu.Unlock()

	// components are stopped without the lock so a running scheduled
	// refresh can finish
	ctx := context.Background()
	s.logger.Info(ctx, "stopping dashboard service...")

	if sched != nil {
		sched.Stop()
	}
	if pool != nil {
		if err := pool.Shutdown(ctx); err != nil {
			s.logger.Warn(ctx, "worker pool shutdown", logger.Error(err))
		}
	}
	if cancel != nil {
		cancel()
	}

	s.mu.Lock()
	if s.ownStore {
		if err := s.store.Close(); err != nil {
			s.logger.Warn(ctx, "closing store", logger.Error(err))
		}
		s.store = nil
		s.ownStore = false
	}
	s.mu.Unlock()

	s.logger.Info(ctx, "dashboard service stopped")
}

// Refresh queues a refetch of one dataset. It reports false without error
// when a refresh of that dataset is already pending.
func (s *Service) Refresh(ctx context.Context, dataset string) (bool, error) {
	if _, err := upstream.Lookup(dataset); err != nil {
		return false, fmt.Errorf("%w: %v", ErrNotFound, err)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.started {
		return false, ErrNotStarted
	}
	return s.enqueue(ctx, dataset, queue.ReasonRequested)
}

// RefreshAll queues every dataset and returns how many were queued.
func (s *Service) RefreshAll(ctx context.Context, reason string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.started {
		return 0
	}
	return s.refreshAll(ctx, reason)
}

func (s *Service) refreshAll(ctx context.Context, reason string) int {
	queued := 0
	for _, ds := range upstream.All() {
		ok, err := s.enqueue(ctx, ds.Name, reason)
		if err != nil {
			s.logger.Warn(ctx, "refresh not queued",
				logger.String("dataset", ds.Name),
				logger.Error(err),
			)
			continue
		}
		if ok {
			queued++
		}
	}
	return queued
}

func (s *Service) enqueue(ctx context.Context, dataset, reason string) (bool, error) {
	if s.deduper.SeenAndRecord(ctx, dataset) {
		metrics.RecordRefreshDeduplicated()
		s.logger.Debug(ctx, "refresh already pending", logger.String("dataset", dataset))
		return false, nil
	}
	if !s.jobs.Enqueue(ctx, queue.NewJob(dataset, reason)) {
		s.deduper.Unrecord(ctx, dataset)
		return false, ErrQueueFull
	}
	return true, nil
}

func (s *Service) observe(_ context.Context, r worker.Result) {
	st := RefreshStatus{Outcome: r.Outcome, Records: r.Records, At: time.Now().UTC()}
	if r.Err != nil {
		st.Error = r.Err.Error()
	}
	s.statusMu.Lock()
	s.status[r.Job.Dataset] = st
	s.statusMu.Unlock()
}

// RuleSets lists the registered rule set ids.
func (s *Service) RuleSets() []classify.ID {
	return s.rules.IDs()
}

// Classify applies a registered rule set to subject.
func (s *Service) Classify(id string, subject classify.Subject) (classify.Result, error) {
	rid := classify.ID(id)
	if !s.rules.Has(rid) {
		return classify.Result{}, fmt.Errorf("rule set %q: %w", id, ErrNotFound)
	}
	res := s.rules.Classify(rid, subject)
	metrics.RecordClassification(id, res.Label)
	return res, nil
}

func (s *Service) classify(id classify.ID, subject classify.Subject) classify.Result {
	res := s.rules.Classify(id, subject)
	metrics.RecordClassification(string(id), res.Label)
	return res
}

// snapshot returns the newest snapshot of dataset.
func (s *Service) snapshot(ctx context.Context, dataset string) (repository.Snapshot, error) {
	s.mu.RLock()
	store := s.store
	s.mu.RUnlock()

	if store == nil {
		return repository.Snapshot{}, fmt.Errorf("%s: %w", dataset, ErrNoSnapshot)
	}
	snap, err := store.Get(ctx, dataset)
	if errors.Is(err, repository.ErrNotFound) {
		return repository.Snapshot{}, fmt.Errorf("%s: %w", dataset, ErrNoSnapshot)
	}
	if err != nil {
		return repository.Snapshot{}, fmt.Errorf("%s: %w", dataset, err)
	}
	return snap, nil
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	stats := map[string]interface{}{
		"started":     s.started,
		"workerCount": s.workerCount,
		"queueSize":   s.queueSize,
		"schedule":    s.schedule,
		"deadZone":    s.swings.DeadZone(),
	}

	if s.started {
		stats["queueLength"] = s.jobs.Len(ctx)
		stats["pending"] = s.deduper.Size()
		stats["snapshotCount"] = s.store.Count(ctx)
		if infos, err := s.store.List(ctx); err == nil {
			stats["snapshots"] = infos
		}
		if s.scheduler != nil {
			stats["nextRefresh"] = s.scheduler.Next()
		}
		s.statusMu.Lock()
		refreshes := make(map[string]RefreshStatus, len(s.status))
		for k, v := range s.status {
			refreshes[k] = v
		}
		s.statusMu.Unlock()
		stats["refreshes"] = refreshes
	}
	return stats
}
