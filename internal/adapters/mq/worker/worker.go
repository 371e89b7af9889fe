// Package worker runs refresh jobs: fetch a dataset upstream and store the
// snapshot.
package worker

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/okian/fplboard/internal/adapters/mq/queue"
	"github.com/okian/fplboard/internal/adapters/repository"
	"github.com/okian/fplboard/internal/adapters/upstream"
	"github.com/okian/fplboard/internal/domain/metric"
	"github.com/okian/fplboard/pkg/logger"
	"github.com/okian/fplboard/pkg/metrics"
)

const (
	defaultWorkerCount  = 2
	poolShutdownTimeout = 30 * time.Second
)

// Refresh outcomes.
const (
	OutcomeStored = "stored"
	OutcomeStale  = "stale"
	OutcomeFailed = "failed"
)

// Fetcher loads the raw records of a dataset.
type Fetcher interface {
	Fetch(ctx context.Context, ds upstream.Dataset) ([]metric.Raw, error)
}

// Saver stores a fetched snapshot.
type Saver interface {
	Put(ctx context.Context, s repository.Snapshot) (bool, error)
}

// Releaser frees a dataset once its refresh finished.
type Releaser interface {
	Unrecord(ctx context.Context, id string)
}

// Queue defines how workers receive jobs.
type Queue interface {
	Dequeue(ctx context.Context) <-chan queue.Job
}

// Result describes one processed job.
type Result struct {
	Job     queue.Job
	Outcome string
	Records int
	Took    time.Duration
	Err     error
}

// Worker processes refresh jobs.
type Worker interface {
	// Run starts the worker loop until ctx is canceled.
	Run(ctx context.Context)

	// Shutdown stops the worker after the current job.
	Shutdown(ctx context.Context) error
}

// InMemoryWorker implements Worker.
type InMemoryWorker struct {
	queue    Queue
	fetcher  Fetcher
	saver    Saver
	releaser Releaser
	observe  func(context.Context, Result)
	now      func() time.Time
	name     string

	shutdown chan struct{}
	done     chan struct{}

	logger logger.Logger
}

// NewInMemoryWorker creates a new worker with configuration options.
func NewInMemoryWorker(q Queue, fetcher Fetcher, saver Saver, opts ...Option) *InMemoryWorker {
	w := &InMemoryWorker{
		queue:    q,
		fetcher:  fetcher,
		saver:    saver,
		now:      time.Now,
		name:     "worker",
		shutdown: make(chan struct{}),
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.logger == nil {
		w.logger = logger.Get().Named("worker")
	}
	if w.name != "worker" {
		w.logger = w.logger.Named(w.name)
	}
	return w
}

// Run starts the worker loop.
func (w *InMemoryWorker) Run(ctx context.Context) {
	defer close(w.done)

	jobs := w.queue.Dequeue(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.shutdown:
			return
		case job, ok := <-jobs:
			if !ok {
				return
			}
			res := w.process(ctx, job)
			if res.Err != nil {
				w.logger.Error(ctx, "refresh failed",
					logger.String("dataset", job.Dataset),
					logger.String("reason", job.Reason),
					logger.Error(res.Err),
				)
			}
			if w.observe != nil {
				w.observe(ctx, res)
			}
		}
	}
}

// Shutdown gracefully stops the worker.
func (w *InMemoryWorker) Shutdown(ctx context.Context) error {
	close(w.shutdown)

	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		w.logger.Warn(ctx, "shutdown timed out")
		return fmt.Errorf("shutdown timed out: %w", ctx.Err())
	}
}

// Process runs a single job synchronously.
func (w *InMemoryWorker) Process(ctx context.Context, job queue.Job) Result {
	return w.process(ctx, job)
}

func (w *InMemoryWorker) process(ctx context.Context, job queue.Job) Result {
	start := time.Now()
	res := Result{Job: job, Outcome: OutcomeFailed}
	defer func() {
		res.Took = time.Since(start)
		ms := float64(res.Took.Milliseconds())
		metrics.RecordWorkerProcessingLatency(ms)
		metrics.RecordRefreshLatency(job.Dataset, ms)
		metrics.RecordRefresh(job.Dataset, res.Outcome)
		if w.releaser != nil {
			w.releaser.Unrecord(ctx, job.Dataset)
		}
	}()

	ds, err := upstream.Lookup(job.Dataset)
	if err != nil {
		res.Err = w.fail("unknown_dataset", err)
		return res
	}

	raws, err := w.fetcher.Fetch(ctx, ds)
	if err != nil {
		kind := "fetch_error"
		if errors.Is(err, upstream.ErrNotFound) {
			kind = "not_found"
		}
		res.Err = w.fail(kind, fmt.Errorf("fetch %s: %w", ds.Name, err))
		return res
	}

	snap := repository.NewSnapshot(ds.Name, raws, w.now())
	stored, err := w.saver.Put(ctx, snap)
	if err != nil {
		res.Err = w.fail("store_error", fmt.Errorf("store %s: %w", ds.Name, err))
		return res
	}

	res.Records = len(raws)
	if !stored {
		res.Outcome = OutcomeStale
		return res
	}
	res.Outcome = OutcomeStored
	metrics.UpdateDatasetRecords(ds.Name, len(raws))
	metrics.UpdateDatasetFetched(ds.Name, snap.FetchedAt.Unix())
	w.logger.Debug(ctx, "dataset refreshed",
		logger.String("dataset", ds.Name),
		logger.Int("records", len(raws)),
	)
	return res
}

func (w *InMemoryWorker) fail(kind string, err error) error {
	metrics.RecordWorkerError()
	metrics.RecordErrorByComponent("worker", kind)
	return err
}

// Pool manages multiple workers sharing one queue.
type Pool struct {
	workers []*InMemoryWorker
	queue   Queue
	logger  logger.Logger
}

// NewPool creates a worker pool. Options apply to every worker.
func NewPool(workerCount int, q Queue, fetcher Fetcher, saver Saver, opts ...Option) *Pool {
	if workerCount < 1 {
		workerCount = defaultWorkerCount
	}

	pool := &Pool{
		workers: make([]*InMemoryWorker, workerCount),
		queue:   q,
	}
	for i := 0; i < workerCount; i++ {
		wopts := append([]Option{}, opts...)
		wopts = append(wopts, WithName("worker-"+strconv.Itoa(i)))
		pool.workers[i] = NewInMemoryWorker(q, fetcher, saver, wopts...)
	}
	pool.logger = poolLogger(opts)

	metrics.UpdateWorkerActiveCount(workerCount)
	return pool
}

// poolLogger resolves the logger the options configure, falling back to the
// global logger only when none is given.
func poolLogger(opts []Option) logger.Logger {
	cfg := &InMemoryWorker{}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.logger == nil {
		return logger.Get().Named("worker-pool")
	}
	return cfg.logger.Named("pool")
}

// Size returns the number of workers.
func (p *Pool) Size() int { return len(p.workers) }

// Start starts all workers in the pool.
func (p *Pool) Start(ctx context.Context) {
	for _, w := range p.workers {
		go w.Run(ctx)
	}
}

// Shutdown closes the queue and waits for the workers to drain it.
func (p *Pool) Shutdown(ctx context.Context) error {
	if closer, ok := p.queue.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			p.logger.Error(ctx, "error closing queue", logger.Error(err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, poolShutdownTimeout)
	defer cancel()

	var timedOut bool
	for i, w := range p.workers {
		select {
		case <-w.done:
		case <-shutdownCtx.Done():
			timedOut = true
			p.logger.Warn(ctx, "worker shutdown timed out", logger.Int("worker_id", i))
		}
	}
	metrics.UpdateWorkerActiveCount(0)
	if timedOut {
		return fmt.Errorf("pool shutdown: %w", shutdownCtx.Err())
	}
	return nil
}
