package repository

import "errors"

// Sentinel kinds for analysis store errors.
var (
	ErrNotFound = errors.New("analysis not found")
	ErrExists   = errors.New("analysis already exists")
)
