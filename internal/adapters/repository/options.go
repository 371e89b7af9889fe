package repository

import (
	"fmt"
	"time"
)

// Option applies a configuration option to the SQLiteStore.
type Option func(*sqliteConfig)

type sqliteConfig struct {
	busyTimeout time.Duration
}

func defaultSQLiteConfig() sqliteConfig {
	return sqliteConfig{busyTimeout: 5 * time.Second}
}

// WithBusyTimeout sets how long a statement waits on a locked database.
func WithBusyTimeout(d time.Duration) Option {
	return func(c *sqliteConfig) {
		if d > 0 {
			c.busyTimeout = d
		}
	}
}

func (c sqliteConfig) dsn(path string) string {
	return fmt.Sprintf("file:%s?_pragma=busy_timeout(%d)", path, c.busyTimeout.Milliseconds())
}
