package stats_test

import (
	"math"
	"testing"

	"github.com/tejasvp/resultboard/internal/domain/model"
	"github.com/tejasvp/resultboard/internal/domain/stats"
	. "github.com/smartystreets/goconvey/convey"
)

func records(scores ...float64) []model.StudentRecord {
	out := make([]model.StudentRecord, len(scores))
	for i, s := range scores {
		out[i] = model.StudentRecord{USN: string(rune('A' + i)), SGPA: s}
	}
	return out
}

func TestSummarize(t *testing.T) {
	Convey("Given a batch of scores", t, func() {
		batch := records(9.5, 8.0, 7.0, 6.0)

		Convey("When summarizing", func() {
			s := stats.Summarize(batch)

			Convey("Then the central aggregates match", func() {
				So(s.TotalStudents, ShouldEqual, 4)
				So(s.AverageSGPA, ShouldEqual, 7.63)
				So(s.MedianSGPA, ShouldEqual, 7.5)
				So(s.MinSGPA, ShouldEqual, 6.0)
				So(s.MaxSGPA, ShouldEqual, 9.5)
			})

			Convey("And the quartiles interpolate linearly", func() {
				So(s.Percentiles.P25, ShouldEqual, 6.75)
				So(s.Percentiles.P50, ShouldEqual, 7.5)
				So(s.Percentiles.P75, ShouldEqual, 8.38)
			})

			Convey("And the distribution covers every band in order", func() {
				So(s.Distribution, ShouldHaveLength, 5)
				So(s.Distribution[0], ShouldResemble, model.DistributionBucket{Label: ">= 9.0", Count: 1})
				So(s.Distribution[1].Count, ShouldEqual, 1)
				So(s.Distribution[4], ShouldResemble, model.DistributionBucket{Label: "< 6.0", Count: 0})
			})
		})

		Convey("When a score failed extraction", func() {
			s := stats.Summarize(append(batch, model.StudentRecord{USN: "Z", SGPA: math.NaN()}))

			Convey("Then it counts toward the batch but not the aggregates", func() {
				So(s.TotalStudents, ShouldEqual, 5)
				So(s.AverageSGPA, ShouldEqual, 7.63)
			})
		})

		Convey("When the batch is empty", func() {
			s := stats.Summarize(nil)

			Convey("Then the summary is zero-valued with a stable distribution shape", func() {
				So(s.TotalStudents, ShouldEqual, 0)
				So(s.AverageSGPA, ShouldEqual, 0)
				So(s.Distribution, ShouldHaveLength, 5)
			})
		})

		Convey("When there is a single score", func() {
			s := stats.Summarize(records(8.2))

			Convey("Then deviation is zero and quartiles collapse to it", func() {
				So(s.StdDevSGPA, ShouldEqual, 0)
				So(s.Percentiles.P25, ShouldEqual, 8.2)
				So(s.Percentiles.P75, ShouldEqual, 8.2)
			})
		})
	})
}

func TestTopBottom(t *testing.T) {
	Convey("Given a batch larger than the performer lists", t, func() {
		batch := records(5.0, 9.9, 7.5, 8.8, 6.2, 9.1, 7.7)

		topper, lowest, top, bottom, ok := stats.TopBottom(batch)

		Convey("Then the extremes are found", func() {
			So(ok, ShouldBeTrue)
			So(topper.SGPA, ShouldEqual, 9.9)
			So(lowest.SGPA, ShouldEqual, 5.0)
		})

		Convey("Then top performers come best-first, capped at five", func() {
			So(top, ShouldHaveLength, 5)
			So(top[0].SGPA, ShouldEqual, 9.9)
			So(top[1].SGPA, ShouldEqual, 9.1)
		})

		Convey("Then lowest performers come worst-first, capped at five", func() {
			So(bottom, ShouldHaveLength, 5)
			So(bottom[0].SGPA, ShouldEqual, 5.0)
			So(bottom[1].SGPA, ShouldEqual, 6.2)
		})
	})

	Convey("Given no comparable records", t, func() {
		_, _, _, _, ok := stats.TopBottom([]model.StudentRecord{{SGPA: math.NaN()}})
		So(ok, ShouldBeFalse)
	})
}
