package config_test

import (
	"testing"

	"github.com/smartystreets/goconvey/convey"
	"github.com/tejasvp/resultboard/internal/config"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with default options", t, func() {
		cfg := config.New()

		convey.Convey("Then it should have sensible defaults", func() {
			convey.So(cfg.LogLevel, convey.ShouldEqual, "info")
			convey.So(cfg.Addr, convey.ShouldEqual, ":9090")
			convey.So(cfg.PortalBaseURL, convey.ShouldEqual, "http://14.99.184.178:8080/birt/run")
			convey.So(cfg.PortalTimeoutMS, convey.ShouldEqual, 15_000)
			convey.So(cfg.FetchDelayMS, convey.ShouldEqual, 1_000)
			convey.So(cfg.MaxConsecutiveMisses, convey.ShouldEqual, 20)
			convey.So(cfg.MaxRoll, convey.ShouldEqual, 500)
			convey.So(cfg.QueueSize, convey.ShouldEqual, 64)
			convey.So(cfg.WorkerCount, convey.ShouldEqual, 2)
			convey.So(cfg.MaxKeptAnalyses, convey.ShouldEqual, 50)
			convey.So(cfg.HighlightedUSNs, convey.ShouldBeEmpty)
		})
	})
}
