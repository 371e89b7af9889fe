package repository

import "errors"

// ErrNotFound is returned when no snapshot exists for a dataset.
var ErrNotFound = errors.New("snapshot not found")
