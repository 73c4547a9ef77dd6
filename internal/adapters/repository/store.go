// Package repository defines the analysis store interface and errors.
package repository

import (
	"context"

	"github.com/tejasvp/resultboard/internal/domain/model"
)

// Store provides read/write access to analysis results. One result set is
// kept per analysis id; the latest completed analysis is also reachable by
// its batch coordinates.
type Store interface {
	// Create registers a pending analysis for a submitted job.
	Create(ctx context.Context, job model.AnalysisJob) error

	// MarkRunning transitions a pending analysis to running.
	MarkRunning(ctx context.Context, id string) error

	// Complete stores a finished analysis snapshot.
	Complete(ctx context.Context, result model.AnalysisResult) error

	// Fail records a terminal failure for an analysis.
	Fail(ctx context.Context, id string, cause error) error

	// Get returns the analysis with the given id.
	// Returns ErrNotFound for unknown ids.
	Get(ctx context.Context, id string) (model.AnalysisResult, error)

	// Latest returns the most recent completed analysis for dept/year.
	Latest(ctx context.Context, dept, year string) (model.AnalysisResult, error)

	// Count returns the number of analyses tracked.
	Count(ctx context.Context) int
}
