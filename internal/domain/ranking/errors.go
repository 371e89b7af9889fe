package ranking

import "errors"

// ErrNoDimensions is returned when Aggregate is called without rank fields.
var ErrNoDimensions = errors.New("ranking: at least one dimension is required")
