// Package scheduler triggers periodic refreshes from a cron spec.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/okian/fplboard/pkg/logger"
	"github.com/okian/fplboard/pkg/metrics"
)

// Scheduler runs one job on a cron schedule.
type Scheduler struct {
	cron    *cron.Cron
	mu      sync.Mutex
	entryID cron.EntryID
	started bool
	logger  logger.Logger
}

// Option configures a Scheduler.
type Option func(*settings)

type settings struct {
	location *time.Location
	logger   logger.Logger
}

// WithLocation evaluates schedules in loc.
func WithLocation(loc *time.Location) Option {
	return func(s *settings) {
		if loc != nil {
			s.location = loc
		}
	}
}

// WithLogger sets the scheduler logger.
func WithLogger(l logger.Logger) Option {
	return func(s *settings) {
		if l != nil {
			s.logger = l
		}
	}
}

// New creates a stopped scheduler.
func New(opts ...Option) *Scheduler {
	cfg := settings{location: time.UTC}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.logger == nil {
		cfg.logger = logger.Get().Named("scheduler")
	}
	return &Scheduler{
		cron:   cron.New(cron.WithLocation(cfg.location)),
		logger: cfg.logger,
	}
}

// Validate reports whether spec is a schedule the scheduler accepts.
func Validate(spec string) error {
	if _, err := cron.ParseStandard(spec); err != nil {
		return fmt.Errorf("invalid schedule %q: %w", spec, err)
	}
	return nil
}

// Schedule replaces the scheduled job. Standard five-field specs and
// descriptors such as "@every 15m" or "@hourly" are accepted.
func (s *Scheduler) Schedule(ctx context.Context, spec string, fn func(context.Context)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.entryID != 0 {
		s.cron.Remove(s.entryID)
		s.entryID = 0
	}

	id, err := s.cron.AddFunc(spec, func() {
		metrics.RecordSchedulerRun()
		s.logger.Debug(ctx, "scheduled run", logger.String("schedule", spec))
		fn(ctx)
	})
	if err != nil {
		return fmt.Errorf("add cron job: %w", err)
	}
	s.entryID = id
	return nil
}

// Next returns the next run time, or the zero time when nothing is
// scheduled or the scheduler is stopped.
func (s *Scheduler) Next() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.entryID == 0 || !s.started {
		return time.Time{}
	}
	return s.cron.Entry(s.entryID).Next
}

// Start begins the scheduler.
func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		s.cron.Start()
		s.started = true
	}
}

// Stop halts the scheduler and waits for a running job to return.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if !s.started {
		s.mu.Unlock()
		return
	}
	done := s.cron.Stop()
	s.started = false
	s.mu.Unlock()
	<-done.Done()
}
