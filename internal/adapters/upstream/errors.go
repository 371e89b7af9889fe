package upstream

import "errors"

var (
	// ErrUnknownDataset is returned for names outside the catalog.
	ErrUnknownDataset = errors.New("unknown dataset")
	// ErrUpstream wraps transport failures and non-2xx responses.
	ErrUpstream = errors.New("analytics service request failed")
	// ErrNotFound is returned when the analytics service has no data for a
	// dataset (HTTP 404).
	ErrNotFound = errors.New("dataset not available upstream")
	// ErrDecode is returned for payloads that are not a JSON array of objects.
	ErrDecode = errors.New("malformed dataset payload")
)
