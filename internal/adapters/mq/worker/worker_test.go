package worker_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/tejasvp/resultboard/internal/adapters/mq/queue"
	"github.com/tejasvp/resultboard/internal/adapters/mq/worker"
	"github.com/tejasvp/resultboard/internal/domain/model"
	"github.com/tejasvp/resultboard/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMain(m *testing.M) {
	if err := logger.Init(); err != nil {
		panic(err)
	}
	m.Run()
}

type stubFetcher struct {
	records []model.StudentRecord
	err     error
}

func (f *stubFetcher) FetchBatch(_ context.Context, dept, year string) ([]model.StudentRecord, model.BatchInput, error) {
	if f.err != nil {
		return nil, model.BatchInput{}, f.err
	}
	return f.records, model.BatchInput{Dept: dept, Year: year, RollRange: "001 - 003"}, nil
}

type stubStore struct {
	mu        sync.Mutex
	running   []string
	completed []model.AnalysisResult
	failed    map[string]error
	doneCh    chan struct{}
}

func newStubStore() *stubStore {
	return &stubStore{failed: make(map[string]error), doneCh: make(chan struct{}, 4)}
}

func (s *stubStore) MarkRunning(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.running = append(s.running, id)
	return nil
}

func (s *stubStore) Complete(_ context.Context, result model.AnalysisResult) error {
	s.mu.Lock()
	s.completed = append(s.completed, result)
	s.mu.Unlock()
	s.doneCh <- struct{}{}
	return nil
}

func (s *stubStore) Fail(_ context.Context, id string, cause error) error {
	s.mu.Lock()
	s.failed[id] = cause
	s.mu.Unlock()
	s.doneCh <- struct{}{}
	return nil
}

func waitDone(c chan struct{}) bool {
	select {
	case <-c:
		return true
	case <-time.After(2 * time.Second):
		return false
	}
}

func TestWorkerProcessesJobs(t *testing.T) {
	ctx := context.Background()

	Convey("Given a worker over a job queue", t, func() {
		q := queue.NewInMemoryQueue(queue.WithCapacity(4))
		store := newStubStore()

		Convey("When the batch walk succeeds", func() {
			fetcher := &stubFetcher{records: []model.StudentRecord{
				{USN: "1DS23CG001", Name: "Alice", SGPA: 9.5},
				{USN: "1DS23CG002", Name: "Bob", SGPA: 8.0},
				{USN: "1DS23CG003", Name: "Cara", SGPA: 6.5},
			}}
			w := worker.NewWorker(q, fetcher, store)
			go w.Run(ctx)
			defer func() { _ = w.Shutdown(context.Background()) }()

			So(q.Enqueue(ctx, queue.Job{ID: "job-1", Dept: "CG", Year: "23"}), ShouldBeTrue)
			So(waitDone(store.doneCh), ShouldBeTrue)

			Convey("Then the analysis completes with aggregated results", func() {
				store.mu.Lock()
				defer store.mu.Unlock()
				So(store.running, ShouldResemble, []string{"job-1"})
				So(store.completed, ShouldHaveLength, 1)

				result := store.completed[0]
				So(result.Status, ShouldEqual, model.JobCompleted)
				So(result.Summary.TotalStudents, ShouldEqual, 3)
				So(result.Topper.Name, ShouldEqual, "Alice")
				So(result.Lowest.Name, ShouldEqual, "Cara")
				So(result.Input.RollRange, ShouldEqual, "001 - 003")
				So(result.CompletedAt.IsZero(), ShouldBeFalse)
			})
		})

		Convey("When the portal walk errors out", func() {
			fetcher := &stubFetcher{err: errors.New("portal unreachable")}
			w := worker.NewWorker(q, fetcher, store)
			go w.Run(ctx)
			defer func() { _ = w.Shutdown(context.Background()) }()

			So(q.Enqueue(ctx, queue.Job{ID: "job-2", Dept: "CG", Year: "23"}), ShouldBeTrue)
			So(waitDone(store.doneCh), ShouldBeTrue)

			Convey("Then the job is marked failed with its cause", func() {
				store.mu.Lock()
				defer store.mu.Unlock()
				So(store.failed["job-2"], ShouldNotBeNil)
				So(store.failed["job-2"].Error(), ShouldContainSubstring, "portal unreachable")
			})
		})

		Convey("When the batch comes back empty", func() {
			fetcher := &stubFetcher{}
			w := worker.NewWorker(q, fetcher, store)
			go w.Run(ctx)
			defer func() { _ = w.Shutdown(context.Background()) }()

			So(q.Enqueue(ctx, queue.Job{ID: "job-3", Dept: "XX", Year: "99"}), ShouldBeTrue)
			So(waitDone(store.doneCh), ShouldBeTrue)

			Convey("Then the job fails with the empty-batch kind", func() {
				store.mu.Lock()
				defer store.mu.Unlock()
				So(errors.Is(store.failed["job-3"], worker.ErrEmptyBatch), ShouldBeTrue)
			})
		})
	})
}

func TestPool(t *testing.T) {
	Convey("Given a pool of workers", t, func() {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		q := queue.NewInMemoryQueue(queue.WithCapacity(8))
		store := newStubStore()
		fetcher := &stubFetcher{records: []model.StudentRecord{{USN: "1DS23CG001", Name: "A", SGPA: 8.0}}}

		pool := worker.NewPool(2, q, fetcher, store)
		pool.Start(ctx)

		Convey("When several jobs are queued", func() {
			for _, id := range []string{"j1", "j2", "j3"} {
				So(q.Enqueue(ctx, queue.Job{ID: id, Dept: "CG", Year: "23"}), ShouldBeTrue)
			}

			Convey("Then every job completes", func() {
				for range 3 {
					So(waitDone(store.doneCh), ShouldBeTrue)
				}
				store.mu.Lock()
				defer store.mu.Unlock()
				So(store.completed, ShouldHaveLength, 3)
			})
		})

		stopCtx, stopCancel := context.WithTimeout(context.Background(), time.Second)
		defer stopCancel()
		pool.Stop(stopCtx)
	})
}
