package repository

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/tejasvp/resultboard/internal/domain/model"
	"github.com/tejasvp/resultboard/pkg/metrics"
)

// MemStore implements Store with an in-process map. Analyses are snapshots:
// records never mutate after Complete, so readers get the stored slice
// headers without copying the row data.
type MemStore struct {
	mu       sync.RWMutex
	byID     map[string]model.AnalysisResult
	latest   map[string]string // batch key -> analysis id
	maxKept  int
	ordering []string // insertion order, oldest first
}

// Default store configuration constants.
const defaultMaxKept = 50

// NewMemStore creates an in-memory analysis store.
func NewMemStore(opts ...StoreOption) *MemStore {
	s := &MemStore{
		byID:    make(map[string]model.AnalysisResult),
		latest:  make(map[string]string),
		maxKept: defaultMaxKept,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func batchKey(dept, year string) string {
	return strings.ToUpper(dept) + "/" + year
}

// Create registers a pending analysis.
func (s *MemStore) Create(_ context.Context, job model.AnalysisJob) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byID[job.ID]; ok {
		return fmt.Errorf("%w: %s", ErrExists, job.ID)
	}

	s.evictOldestLocked()
	s.byID[job.ID] = model.AnalysisResult{
		ID:     job.ID,
		Status: model.JobPending,
		Input:  model.BatchInput{Dept: strings.ToUpper(job.Dept), Year: job.Year},
	}
	s.ordering = append(s.ordering, job.ID)
	metrics.UpdateAnalysesTracked(len(s.byID))
	return nil
}

// MarkRunning flips a pending analysis to running.
func (s *MemStore) MarkRunning(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	result, ok := s.byID[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	result.Status = model.JobRunning
	s.byID[id] = result
	return nil
}

// Complete stores the finished snapshot and indexes it as the latest
// analysis for its batch.
func (s *MemStore) Complete(_ context.Context, result model.AnalysisResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byID[result.ID]; !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, result.ID)
	}
	s.byID[result.ID] = result
	s.latest[batchKey(result.Input.Dept, result.Input.Year)] = result.ID
	return nil
}

// Fail records a terminal failure.
func (s *MemStore) Fail(_ context.Context, id string, cause error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	result, ok := s.byID[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	result.Status = model.JobFailed
	result.Error = cause.Error()
	s.byID[id] = result
	return nil
}

// Get returns the analysis with the given id.
func (s *MemStore) Get(_ context.Context, id string) (model.AnalysisResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result, ok := s.byID[id]
	if !ok {
		return model.AnalysisResult{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return result, nil
}

// Latest returns the most recent completed analysis for a batch.
func (s *MemStore) Latest(_ context.Context, dept, year string) (model.AnalysisResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.latest[batchKey(dept, year)]
	if !ok {
		return model.AnalysisResult{}, fmt.Errorf("%w: %s/%s", ErrNotFound, strings.ToUpper(dept), year)
	}
	return s.byID[id], nil
}

// Count returns the number of analyses tracked.
func (s *MemStore) Count(_ context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byID)
}

// evictOldestLocked trims the store to its retention bound before an
// insert. Latest-index entries pointing at an evicted analysis go with it.
func (s *MemStore) evictOldestLocked() {
	for len(s.byID) >= s.maxKept && len(s.ordering) > 0 {
		oldest := s.ordering[0]
		s.ordering = s.ordering[1:]
		if result, ok := s.byID[oldest]; ok {
			key := batchKey(result.Input.Dept, result.Input.Year)
			if s.latest[key] == oldest {
				delete(s.latest, key)
			}
			delete(s.byID, oldest)
		}
	}
}
