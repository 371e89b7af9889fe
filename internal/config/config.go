// Package config defines service configuration and its loading.
package config

import (
	"context"
	"fmt"
	"runtime"
	"time"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`
	// LogFormat selects text or json log output.
	LogFormat string `koanf:"log_format"`
	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// UpstreamURL is the analytics service base URL.
	UpstreamURL string `koanf:"upstream_url"`
	// UpstreamTimeoutMS bounds each analytics request.
	UpstreamTimeoutMS int `koanf:"upstream_timeout_ms"`

	// RefreshSchedule is a cron spec for background refreshes; empty disables.
	RefreshSchedule string `koanf:"refresh_schedule"`
	// RefreshOnStart enqueues a full refresh when the service starts.
	RefreshOnStart bool `koanf:"refresh_on_start"`
	// QueueSize bounds the refresh job queue.
	QueueSize int `koanf:"queue_size"`
	// WorkerCount sets the number of refresh workers.
	WorkerCount int `koanf:"worker_count"`

	// CachePath is a SQLite file for snapshot warm starts; empty keeps
	// snapshots in memory only.
	CachePath string `koanf:"cache_path"`

	// MaxListLimit caps top/bottom N on table endpoints.
	MaxListLimit int `koanf:"max_list_limit"`
	// SwingDeadZone is the steady band for fixture swings.
	SwingDeadZone float64 `koanf:"swing_dead_zone"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:          "info",
		LogFormat:         "text",
		Addr:              ":9080",
		UpstreamURL:       "http://localhost:5000/api",
		UpstreamTimeoutMS: 10_000,
		RefreshSchedule:   "@every 15m",
		RefreshOnStart:    true,
		QueueSize:         64,
		WorkerCount:       min(runtime.NumCPU(), 4),
		MaxListLimit:      100,
		SwingDeadZone:     1.0,
	}
}

// UpstreamTimeout returns UpstreamTimeoutMS as a duration.
func (c *Config) UpstreamTimeout() time.Duration {
	return time.Duration(c.UpstreamTimeoutMS) * time.Millisecond
}

// Validate checks invariants that loading cannot express.
func (c *Config) Validate(_ context.Context) error {
	switch {
	case c.Addr == "":
		return fmt.Errorf("addr must not be empty: %w", ErrInvalidConfig)
	case c.UpstreamURL == "":
		return fmt.Errorf("upstream_url must not be empty: %w", ErrInvalidConfig)
	case c.UpstreamTimeoutMS <= 0:
		return fmt.Errorf("upstream_timeout_ms must be positive: %w", ErrInvalidConfig)
	case c.WorkerCount < 1:
		return fmt.Errorf("worker_count must be at least 1: %w", ErrInvalidConfig)
	case c.QueueSize < 1:
		return fmt.Errorf("queue_size must be at least 1: %w", ErrInvalidConfig)
	case c.MaxListLimit < 1:
		return fmt.Errorf("max_list_limit must be at least 1: %w", ErrInvalidConfig)
	case c.SwingDeadZone < 0:
		return fmt.Errorf("swing_dead_zone must not be negative: %w", ErrInvalidConfig)
	}
	return nil
}
