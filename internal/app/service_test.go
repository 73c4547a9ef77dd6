package service_test

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"testing"
	"time"

	"github.com/smartystreets/goconvey/convey"

	service "github.com/tejasvp/resultboard/internal/app"
	"github.com/tejasvp/resultboard/internal/domain/model"
	"github.com/tejasvp/resultboard/pkg/logger"
)

func TestMain(m *testing.M) {
	logger.Init()
	code := m.Run()
	_ = logger.Sync()
	os.Exit(code)
}

// stubFetcher serves a canned batch without touching the network.
type stubFetcher struct {
	records []model.StudentRecord
	err     error
}

func (f *stubFetcher) FetchBatch(_ context.Context, dept, year string) ([]model.StudentRecord, model.BatchInput, error) {
	if f.err != nil {
		return nil, model.BatchInput{}, f.err
	}
	input := model.BatchInput{
		Dept:              dept,
		Year:              year,
		RollRange:         "001 - 003",
		TotalRollsChecked: len(f.records),
	}
	return f.records, input, nil
}

func (f *stubFetcher) ResultURL(usn string) string {
	return "http://portal.test/run?USN=" + usn
}

func testRecords() []model.StudentRecord {
	return []model.StudentRecord{
		{USN: "1DS23CG001", Name: "ALICE", SGPA: 9.2},
		{USN: "1DS23CG002", Name: "BOB", SGPA: 8.1},
		{USN: "1DS23CG003", Name: "CARA", SGPA: 8.1},
	}
}

func startService(opts ...service.Option) (*service.Service, func()) {
	ctx := context.Background()
	base := []service.Option{
		service.WithFetcher(&stubFetcher{records: testRecords()}),
		service.WithWorkerCount(1),
	}
	svc := service.New(append(base, opts...)...)
	if err := svc.Start(ctx); err != nil {
		panic(fmt.Sprintf("starting service: %v", err))
	}
	return svc, func() { svc.Stop(ctx) }
}

func waitCompleted(ctx context.Context, svc *service.Service, id string) (model.AnalysisResult, error) {
	waitCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return svc.WaitForResult(waitCtx, id, 10*time.Millisecond)
}

func TestService_StartAnalysis(t *testing.T) {
	convey.Convey("Given a started service", t, func() {
		ctx := context.Background()
		svc, stop := startService()
		defer stop()

		convey.Convey("When submitting a valid batch", func() {
			id, err := svc.StartAnalysis(ctx, "cg", "23")

			convey.Convey("Then it should return a job id and complete", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(id, convey.ShouldNotBeEmpty)

				result, werr := waitCompleted(ctx, svc, id)
				convey.So(werr, convey.ShouldBeNil)
				convey.So(result.Status, convey.ShouldEqual, model.JobCompleted)
				convey.So(result.Input.Dept, convey.ShouldEqual, "CG")
				convey.So(result.Input.Year, convey.ShouldEqual, "23")
				convey.So(result.Topper.Name, convey.ShouldEqual, "ALICE")
				convey.So(result.Summary.TotalStudents, convey.ShouldEqual, 3)
			})
		})

		convey.Convey("When submitting malformed coordinates", func() {
			cases := [][2]string{
				{"", "23"},
				{"C", "23"},
				{"CSES", "23"},
				{"CS", "2023"},
				{"CS", "2x"},
			}
			for _, c := range cases {
				_, err := svc.StartAnalysis(ctx, c[0], c[1])
				convey.So(errors.Is(err, service.ErrInvalidBatch), convey.ShouldBeTrue)
			}
		})
	})

	convey.Convey("Given a service that was never started", t, func() {
		svc := service.New()

		convey.Convey("Then operations should refuse to run", func() {
			_, err := svc.StartAnalysis(context.Background(), "CS", "23")
			convey.So(errors.Is(err, service.ErrNotStarted), convey.ShouldBeTrue)

			_, err = svc.Analysis(context.Background(), "some-id")
			convey.So(errors.Is(err, service.ErrNotStarted), convey.ShouldBeTrue)
		})
	})
}

func TestService_View(t *testing.T) {
	convey.Convey("Given a completed analysis", t, func() {
		ctx := context.Background()
		svc, stop := startService(service.WithHighlightedUSNs([]string{"1DS23CG002"}))
		defer stop()

		id, err := svc.StartAnalysis(ctx, "CG", "23")
		convey.So(err, convey.ShouldBeNil)
		_, err = waitCompleted(ctx, svc, id)
		convey.So(err, convey.ShouldBeNil)

		convey.Convey("When building the default view", func() {
			rows, verr := svc.View(ctx, id, "", "", "")

			convey.Convey("Then rows should be ranked by SGPA descending", func() {
				convey.So(verr, convey.ShouldBeNil)
				convey.So(rows, convey.ShouldHaveLength, 3)
				convey.So(rows[0].Name, convey.ShouldEqual, "ALICE")
				convey.So(rows[0].Rank, convey.ShouldEqual, 1)
				// BOB and CARA tie on 8.1 and share rank 2.
				convey.So(rows[1].Rank, convey.ShouldEqual, 2)
				convey.So(rows[2].Rank, convey.ShouldEqual, 2)
				convey.So(rows[0].ResultURL, convey.ShouldContainSubstring, "1DS23CG001")
				convey.So(rows[1].Highlighted || rows[2].Highlighted, convey.ShouldBeTrue)
			})
		})

		convey.Convey("When filtering and sorting", func() {
			rows, verr := svc.View(ctx, id, "bob", "name", "asc")

			convey.Convey("Then only matching rows should remain", func() {
				convey.So(verr, convey.ShouldBeNil)
				convey.So(rows, convey.ShouldHaveLength, 1)
				convey.So(rows[0].Name, convey.ShouldEqual, "BOB")
				convey.So(rows[0].Rank, convey.ShouldEqual, 1)
			})
		})

		convey.Convey("When asking for an unknown analysis", func() {
			_, verr := svc.View(ctx, "nope", "", "", "")
			convey.So(verr, convey.ShouldNotBeNil)
		})
	})
}

func TestService_Distribution(t *testing.T) {
	convey.Convey("Given a completed analysis", t, func() {
		ctx := context.Background()
		svc, stop := startService()
		defer stop()

		id, err := svc.StartAnalysis(ctx, "CG", "23")
		convey.So(err, convey.ShouldBeNil)
		_, err = waitCompleted(ctx, svc, id)
		convey.So(err, convey.ShouldBeNil)

		convey.Convey("When normalizing the distribution", func() {
			bars, derr := svc.Distribution(ctx, id)

			convey.Convey("Then every bucket should carry a renderable width", func() {
				convey.So(derr, convey.ShouldBeNil)
				convey.So(bars, convey.ShouldHaveLength, 5)
				var maxWidth float64
				for _, b := range bars {
					convey.So(b.WidthPercent, convey.ShouldBeGreaterThanOrEqualTo, 5.0)
					maxWidth = math.Max(maxWidth, b.WidthPercent)
				}
				convey.So(maxWidth, convey.ShouldEqual, 100.0)
			})
		})
	})
}

func TestService_LatestAndStats(t *testing.T) {
	convey.Convey("Given a completed analysis", t, func() {
		ctx := context.Background()
		svc, stop := startService()
		defer stop()

		id, err := svc.StartAnalysis(ctx, "CG", "23")
		convey.So(err, convey.ShouldBeNil)
		_, err = waitCompleted(ctx, svc, id)
		convey.So(err, convey.ShouldBeNil)

		convey.Convey("Then Latest should surface it by batch coordinates", func() {
			latest, lerr := svc.Latest(ctx, "cg", "23")
			convey.So(lerr, convey.ShouldBeNil)
			convey.So(latest.ID, convey.ShouldEqual, id)
		})

		convey.Convey("Then GetStats should report the tracked analysis", func() {
			stats := svc.GetStats()
			convey.So(stats["started"], convey.ShouldBeTrue)
			convey.So(stats["analysesTracked"], convey.ShouldEqual, 1)
		})
	})
}

func TestService_FailedAnalysis(t *testing.T) {
	convey.Convey("Given a portal that always errors", t, func() {
		ctx := context.Background()
		svc, stop := startService(service.WithFetcher(&stubFetcher{err: errors.New("portal down")}))
		defer stop()

		id, err := svc.StartAnalysis(ctx, "CG", "23")
		convey.So(err, convey.ShouldBeNil)

		convey.Convey("Then the analysis should end up failed", func() {
			result, werr := waitCompleted(ctx, svc, id)
			convey.So(werr, convey.ShouldBeNil)
			convey.So(result.Status, convey.ShouldEqual, model.JobFailed)
			convey.So(result.Error, convey.ShouldContainSubstring, "portal down")
		})
	})
}
