package portal_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/tejasvp/resultboard/internal/adapters/portal"
	"github.com/tejasvp/resultboard/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMain(m *testing.M) {
	if err := logger.Init(); err != nil {
		panic(err)
	}
	m.Run()
}

func TestResultURL(t *testing.T) {
	Convey("Given a portal client", t, func() {
		client := portal.NewClient(portal.WithBaseURL("http://portal.test/birt/run"))

		Convey("When building a deep link", func() {
			url := client.ResultURL("1DS23CG007")

			Convey("Then the USN and report parameters are interpolated", func() {
				So(url, ShouldStartWith, "http://portal.test/birt/run?")
				So(url, ShouldContainSubstring, "USN=1DS23CG007")
				So(url, ShouldContainSubstring, "__format=pdf")
				So(url, ShouldContainSubstring, "Exam_Result_Sheet_dsce.rptdesign")
			})
		})
	})
}

func TestFetchBatch(t *testing.T) {
	Convey("Given a portal that publishes no sheets", t, func() {
		var probed []string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			probed = append(probed, r.URL.Query().Get("USN"))
			w.Header().Set("Content-Type", "text/html")
			w.WriteHeader(http.StatusNotFound)
		}))
		defer srv.Close()

		client := portal.NewClient(
			portal.WithBaseURL(srv.URL),
			portal.WithHTTPClient(srv.Client()),
			portal.WithDelay(0),
			portal.WithMaxConsecutiveMisses(3),
			portal.WithMaxRoll(50),
		)

		Convey("When walking a batch", func() {
			records, input, err := client.FetchBatch(context.Background(), "cg", "23")

			Convey("Then the walk stops after the consecutive-miss run", func() {
				So(err, ShouldBeNil)
				So(records, ShouldBeEmpty)
				So(probed, ShouldHaveLength, 3)
				So(probed[0], ShouldEqual, "1DS23CG001")
			})

			Convey("And the probed input range is reported", func() {
				So(input.Dept, ShouldEqual, "CG")
				So(input.Year, ShouldEqual, "23")
				So(input.RollRange, ShouldEqual, "N/A")
			})
		})

		Convey("When the context is already cancelled", func() {
			ctx, cancel := context.WithCancel(context.Background())
			cancel()
			_, _, err := client.FetchBatch(ctx, "cg", "23")

			Convey("Then the walk reports the cancellation", func() {
				So(err, ShouldNotBeNil)
				So(strings.Contains(err.Error(), "cancel"), ShouldBeTrue)
			})
		})
	})

	Convey("Given a portal that serves a misses-only prefix under the cap", t, func() {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
		defer srv.Close()

		client := portal.NewClient(
			portal.WithBaseURL(srv.URL),
			portal.WithHTTPClient(srv.Client()),
			portal.WithDelay(0),
			portal.WithMaxConsecutiveMisses(100),
			portal.WithMaxRoll(5),
		)

		Convey("When walking a batch", func() {
			_, input, err := client.FetchBatch(context.Background(), "CS", "22")

			Convey("Then the roll cap bounds the walk", func() {
				So(err, ShouldBeNil)
				So(input.TotalRollsChecked, ShouldEqual, 5)
			})
		})
	})
}
