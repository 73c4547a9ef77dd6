// Package worker runs queued batch analyses: each job walks the portal for
// its department/year, aggregates summary statistics and stores the result.
package worker

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/tejasvp/resultboard/internal/adapters/mq/queue"
	"github.com/tejasvp/resultboard/internal/domain/model"
	"github.com/tejasvp/resultboard/internal/domain/stats"
	"github.com/tejasvp/resultboard/pkg/logger"
	"github.com/tejasvp/resultboard/pkg/metrics"
)

// Default worker configuration constants.
const defaultWorkerCount = 2

// ErrEmptyBatch marks an analysis that probed the whole range without
// finding a single published result.
var ErrEmptyBatch = errors.New("no valid results found")

// Job abstracts what workers read off the queue.
type Job = model.AnalysisJob

// Fetcher walks the portal for one batch.
type Fetcher interface {
	FetchBatch(ctx context.Context, dept, year string) ([]model.StudentRecord, model.BatchInput, error)
}

// Store persists analysis progress and outcomes.
type Store interface {
	MarkRunning(ctx context.Context, id string) error
	Complete(ctx context.Context, result model.AnalysisResult) error
	Fail(ctx context.Context, id string, cause error) error
}

// Queue defines how workers receive jobs.
type Queue interface {
	Dequeue(ctx context.Context) <-chan queue.Job
}

// Worker consumes analysis jobs until stopped.
type Worker struct {
	queue   Queue
	fetcher Fetcher
	store   Store
	name    string

	shutdown chan struct{}
	done     chan struct{}

	logger logger.Logger
}

// NewWorker creates a worker with configuration options.
func NewWorker(q Queue, fetcher Fetcher, store Store, opts ...Option) *Worker {
	w := &Worker{
		queue:    q,
		fetcher:  fetcher,
		store:    store,
		name:     "worker",
		shutdown: make(chan struct{}),
		done:     make(chan struct{}),
		logger:   logger.Get().Named("worker"),
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.name != "worker" {
		w.logger = logger.Get().Named(w.name)
	}
	return w
}

// Run processes jobs until ctx is cancelled or the worker shuts down.
func (w *Worker) Run(ctx context.Context) {
	defer close(w.done)

	jobs := w.queue.Dequeue(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.shutdown:
			return
		case job, ok := <-jobs:
			if !ok {
				return
			}
			if err := w.processJob(ctx, job); err != nil {
				w.logger.Error(ctx, "analysis failed",
					logger.String("jobID", job.ID),
					logger.Error(err),
				)
			}
		}
	}
}

// Shutdown stops the worker, waiting for the current job to finish.
func (w *Worker) Shutdown(ctx context.Context) error {
	close(w.shutdown)
	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("worker shutdown timed out: %w", ctx.Err())
	}
}

// processJob drives one analysis through its lifecycle.
func (w *Worker) processJob(ctx context.Context, job Job) error {
	start := time.Now()
	life := newJobLifecycle()

	if err := life.fire(ctx, eventStart); err != nil {
		return err
	}
	if err := w.store.MarkRunning(ctx, job.ID); err != nil {
		return w.fail(ctx, life, job.ID, err)
	}

	w.logger.Info(ctx, "analysis started",
		logger.String("jobID", job.ID),
		logger.String("dept", job.Dept),
		logger.String("year", job.Year),
	)

	records, input, err := w.fetcher.FetchBatch(ctx, job.Dept, job.Year)
	if err != nil {
		return w.fail(ctx, life, job.ID, err)
	}

	topper, lowest, top, bottom, ok := stats.TopBottom(records)
	if !ok {
		return w.fail(ctx, life, job.ID,
			fmt.Errorf("%w for department %s and year %s", ErrEmptyBatch, input.Dept, input.Year))
	}

	if err := life.fire(ctx, eventComplete); err != nil {
		return err
	}
	result := model.AnalysisResult{
		ID:               job.ID,
		Status:           life.current(),
		Input:            input,
		Summary:          stats.Summarize(records),
		Topper:           topper,
		Lowest:           lowest,
		TopPerformers:    top,
		LowestPerformers: bottom,
		Records:          records,
		CompletedAt:      time.Now().UTC(),
	}
	if err := w.store.Complete(ctx, result); err != nil {
		return fmt.Errorf("store analysis %s: %w", job.ID, err)
	}

	metrics.RecordAnalysisCompleted()
	metrics.RecordAnalysisDuration(time.Since(start).Seconds())
	w.logger.Info(ctx, "analysis completed",
		logger.String("jobID", job.ID),
		logger.Int("records", len(records)),
	)
	return nil
}

func (w *Worker) fail(ctx context.Context, life *jobLifecycle, id string, cause error) error {
	if err := life.fire(ctx, eventFail); err != nil {
		w.logger.Warn(ctx, "lifecycle fail transition rejected", logger.Error(err))
	}
	metrics.RecordAnalysisFailed()
	if err := w.store.Fail(ctx, id, cause); err != nil {
		return fmt.Errorf("record failure for %s: %w (original: %w)", id, err, cause)
	}
	return cause
}

// Pool fans jobs out over a fixed set of workers.
type Pool struct {
	workers []*Worker
	logger  logger.Logger
}

// NewPool creates and wires workerCount workers over the shared queue.
func NewPool(workerCount int, q Queue, fetcher Fetcher, store Store) *Pool {
	if workerCount < 1 {
		workerCount = defaultWorkerCount
	}

	p := &Pool{
		workers: make([]*Worker, workerCount),
		logger:  logger.Get().Named("worker-pool"),
	}
	for i := range p.workers {
		p.workers[i] = NewWorker(q, fetcher, store, WithName("worker-"+strconv.Itoa(i)))
	}
	metrics.UpdateWorkerCount(workerCount)
	return p
}

// Start launches every worker.
func (p *Pool) Start(ctx context.Context) {
	for _, w := range p.workers {
		go w.Run(ctx)
	}
	p.logger.Info(ctx, "worker pool started", logger.Int("workers", len(p.workers)))
}

// Stop shuts all workers down, bounded by ctx.
func (p *Pool) Stop(ctx context.Context) {
	for _, w := range p.workers {
		if err := w.Shutdown(ctx); err != nil {
			p.logger.Warn(ctx, "worker did not stop cleanly", logger.Error(err))
		}
	}
}
