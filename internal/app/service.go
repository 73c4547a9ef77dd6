// Package service provides the core business service that implements
// the dependencies required by the HTTP API and the terminal client.
package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"
	"unicode"

	"github.com/google/uuid"

	jobqueue "github.com/tejasvp/resultboard/internal/adapters/mq/queue"
	workerpool "github.com/tejasvp/resultboard/internal/adapters/mq/worker"
	"github.com/tejasvp/resultboard/internal/adapters/portal"
	"github.com/tejasvp/resultboard/internal/adapters/repository"
	"github.com/tejasvp/resultboard/internal/domain/chart"
	"github.com/tejasvp/resultboard/internal/domain/model"
	"github.com/tejasvp/resultboard/internal/domain/view"
	"github.com/tejasvp/resultboard/pkg/logger"
	"github.com/tejasvp/resultboard/pkg/metrics"
)

// Service wires the portal client, job queue, worker pool and result store
// into the operations the transports expose.
type Service struct {
	mu sync.RWMutex

	// Core components
	store   repository.Store
	queue   *jobqueue.InMemoryQueue
	fetcher portal.Fetcher
	pool    *workerpool.Pool

	// Configuration
	workerCount int
	queueSize   int
	maxKept     int
	portalOpts  []portal.Option
	highlighted map[string]bool

	// State
	started bool

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithWorkerCount sets the number of analysis workers.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithQueueSize sets the maximum size of the job queue.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithMaxKeptAnalyses bounds how many analyses the store retains.
func WithMaxKeptAnalyses(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxKept = n
		}
	}
}

// WithFetcher replaces the portal fetcher, e.g. with a stub in tests.
func WithFetcher(f portal.Fetcher) Option {
	return func(s *Service) {
		if f != nil {
			s.fetcher = f
		}
	}
}

// WithStore replaces the analysis store.
func WithStore(st repository.Store) Option {
	return func(s *Service) {
		if st != nil {
			s.store = st
		}
	}
}

// WithPortalOptions configures the default portal client. Ignored when a
// fetcher is injected via WithFetcher.
func WithPortalOptions(opts ...portal.Option) Option {
	return func(s *Service) {
		s.portalOpts = append(s.portalOpts, opts...)
	}
}

// WithHighlightedUSNs sets the identifiers table views flag as highlighted.
func WithHighlightedUSNs(usns []string) Option {
	return func(s *Service) {
		s.highlighted = make(map[string]bool, len(usns))
		for _, u := range usns {
			s.highlighted[strings.ToUpper(strings.TrimSpace(u))] = true
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		workerCount: 2,
		queueSize:   64,
		maxKept:     50,
		highlighted: map[string]bool{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start initializes and starts the service components.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	if s.logger == nil {
		s.logger = logger.Get().Named("service")
	}

	s.logger.Info(ctx, "starting result analysis service...")

	if s.store == nil {
		s.store = repository.NewMemStore(
			repository.WithMaxKept(s.maxKept),
		)
	}
	if s.fetcher == nil {
		s.fetcher = portal.NewClient(s.portalOpts...)
	}
	s.queue = jobqueue.NewInMemoryQueue(
		jobqueue.WithCapacity(s.queueSize),
	)

	s.pool = workerpool.NewPool(s.workerCount, s.queue, s.fetcher, s.store)
	s.pool.Start(ctx)

	s.started = true
	s.logger.Info(ctx, "result analysis service started",
		logger.Int("workers", s.workerCount),
		logger.Int("queueSize", s.queueSize),
		logger.Int("maxKeptAnalyses", s.maxKept),
	)

	return nil
}

// Stop gracefully shuts down the service.
func (s *Service) Stop(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	s.logger.Info(ctx, "stopping result analysis service...")

	if s.queue != nil {
		_ = s.queue.Close()
	}
	if s.pool != nil {
		s.pool.Stop(ctx)
	}

	s.started = false
	s.logger.Info(ctx, "result analysis service stopped")
}

// StartAnalysis validates the batch coordinates and submits an analysis
// job. It returns the job id immediately; the walk runs asynchronously.
func (s *Service) StartAnalysis(ctx context.Context, dept, year string) (string, error) {
	s.mu.RLock()
	started := s.started
	s.mu.RUnlock()
	if !started {
		return "", ErrNotStarted
	}

	dept = strings.ToUpper(strings.TrimSpace(dept))
	year = strings.TrimSpace(year)
	if err := validateBatch(dept, year); err != nil {
		return "", err
	}

	job := model.AnalysisJob{
		ID:   uuid.NewString(),
		Dept: dept,
		Year: year,
	}
	if err := s.store.Create(ctx, job); err != nil {
		return "", fmt.Errorf("registering analysis: %w", err)
	}
	if !s.queue.Enqueue(ctx, job) {
		_ = s.store.Fail(ctx, job.ID, ErrQueueFull)
		return "", ErrQueueFull
	}

	metrics.RecordAnalysisStarted()
	metrics.UpdateQueueSize(s.queue.Len(ctx))
	s.logger.Info(ctx, "analysis submitted",
		logger.String("jobID", job.ID),
		logger.String("dept", dept),
		logger.String("year", year),
	)
	return job.ID, nil
}

// Analysis returns the current snapshot for an analysis id.
func (s *Service) Analysis(ctx context.Context, id string) (model.AnalysisResult, error) {
	if !s.isStarted() {
		return model.AnalysisResult{}, ErrNotStarted
	}
	return s.store.Get(ctx, id)
}

// Latest returns the most recent completed analysis for a batch.
func (s *Service) Latest(ctx context.Context, dept, year string) (model.AnalysisResult, error) {
	if !s.isStarted() {
		return model.AnalysisResult{}, ErrNotStarted
	}
	dept = strings.ToUpper(strings.TrimSpace(dept))
	year = strings.TrimSpace(year)
	if err := validateBatch(dept, year); err != nil {
		return model.AnalysisResult{}, err
	}
	return s.store.Latest(ctx, dept, year)
}

// View builds the ranked table for an analysis: filter by query,
// stable-sort by the requested key and direction, rank and annotate.
func (s *Service) View(ctx context.Context, id, query, sortKey, dir string) ([]model.RankedRow, error) {
	if !s.isStarted() {
		return nil, ErrNotStarted
	}
	result, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	state := view.SortState{
		Key:       view.ParseSortKey(sortKey),
		Direction: view.ParseDirection(dir),
	}
	return view.Build(result.Records, query, state, view.Options{
		LinkFor:     s.fetcher.ResultURL,
		Highlighted: s.highlighted,
	}), nil
}

// Distribution returns the normalized chart bars for an analysis.
func (s *Service) Distribution(ctx context.Context, id string) ([]model.ChartBar, error) {
	if !s.isStarted() {
		return nil, ErrNotStarted
	}
	result, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return chart.Normalize(result.Summary.Distribution), nil
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	stats := map[string]interface{}{
		"started":     s.started,
		"workerCount": s.workerCount,
		"queueSize":   s.queueSize,
	}

	if s.started {
		queueLen := s.queue.Len(ctx)
		tracked := s.store.Count(ctx)

		stats["queueLength"] = queueLen
		stats["analysesTracked"] = tracked

		metrics.UpdateQueueSize(queueLen)
		metrics.UpdateQueueCapacity(s.queueSize)
		metrics.UpdateWorkerCount(s.workerCount)
		metrics.UpdateAnalysesTracked(tracked)
	}

	return stats
}

// WaitForResult polls until the analysis reaches a terminal state or the
// context expires. Intended for clients that submit and then render.
func (s *Service) WaitForResult(ctx context.Context, id string, interval time.Duration) (model.AnalysisResult, error) {
	if interval <= 0 {
		interval = 200 * time.Millisecond
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		result, err := s.Analysis(ctx, id)
		if err != nil {
			return model.AnalysisResult{}, err
		}
		if result.Status == model.JobCompleted || result.Status == model.JobFailed {
			return result, nil
		}
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		case <-ticker.C:
		}
	}
}

func (s *Service) isStarted() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.started
}

// validateBatch enforces the identifier shape used for portal walks: a
// department code of 2-3 letters and a two-digit admission year.
func validateBatch(dept, year string) error {
	if len(dept) < 2 || len(dept) > 3 {
		return fmt.Errorf("%w: dept %q", ErrInvalidBatch, dept)
	}
	for _, r := range dept {
		if !unicode.IsUpper(r) {
			return fmt.Errorf("%w: dept %q", ErrInvalidBatch, dept)
		}
	}
	if len(year) != 2 {
		return fmt.Errorf("%w: year %q", ErrInvalidBatch, year)
	}
	for _, r := range year {
		if !unicode.IsDigit(r) {
			return fmt.Errorf("%w: year %q", ErrInvalidBatch, year)
		}
	}
	return nil
}
