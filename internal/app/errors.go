package service

import "errors"

// Sentinel kinds for service errors. The HTTP layer maps them to status codes.
var (
	ErrBadRequest = errors.New("bad request")
	ErrNotFound   = errors.New("not found")
	ErrNoSnapshot = errors.New("no snapshot available yet")
	ErrQueueFull  = errors.New("refresh queue full")
	ErrNotStarted = errors.New("service not started")
)
