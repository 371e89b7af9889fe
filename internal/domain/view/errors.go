package view

import "errors"

var (
	// ErrUnknownKey is returned when a sort column is not in the catalog.
	ErrUnknownKey = errors.New("unknown sort key")
	// ErrInvalidDirection is returned for an unparseable sort direction.
	ErrInvalidDirection = errors.New("invalid sort direction")
)
