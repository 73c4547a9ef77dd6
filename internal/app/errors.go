package service

import "errors"

// Sentinel errors returned by the service API.
var (
	// ErrNotStarted is returned when an operation requires a running service.
	ErrNotStarted = errors.New("service not started")

	// ErrInvalidBatch is returned for malformed department/year coordinates.
	ErrInvalidBatch = errors.New("invalid batch coordinates")

	// ErrQueueFull is returned when the job queue rejects a submission.
	ErrQueueFull = errors.New("analysis queue is full")
)
