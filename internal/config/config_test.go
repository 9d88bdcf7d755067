package config_test

import (
	"context"
	"errors"
	"testing"

	"github.com/okian/ladder/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with default options", t, func() {
		cfg := config.New(context.Background())

		convey.Convey("Then it should have sensible defaults", func() {
			convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
			convey.So(cfg.LogFormat, convey.ShouldEqual, "json")
			convey.So(cfg.SeedDefaults, convey.ShouldBeTrue)
			convey.So(cfg.PopularityMin, convey.ShouldEqual, 0.3)
			convey.So(cfg.PopularityMax, convey.ShouldEqual, 0.8)
			convey.So(cfg.RecencyWindowDays, convey.ShouldEqual, 30)
			convey.So(cfg.Validate(), convey.ShouldBeNil)
		})
	})

	convey.Convey("Given a config with broken constraints", t, func() {
		cases := []struct {
			name   string
			mutate func(*config.Config)
		}{
			{"inverted popularity range", func(c *config.Config) { c.PopularityMin, c.PopularityMax = 0.9, 0.2 }},
			{"popularity above one", func(c *config.Config) { c.PopularityMax = 1.5 }},
			{"unknown log level", func(c *config.Config) { c.LogLevel = "verbose" }},
			{"unknown log format", func(c *config.Config) { c.LogFormat = "xml" }},
			{"zero recency window", func(c *config.Config) { c.RecencyWindowDays = 0 }},
			{"zero feed limit", func(c *config.Config) { c.MaxFeedLimit = 0 }},
		}
		for _, tc := range cases {
			convey.Convey("When it has "+tc.name, func() {
				cfg := config.New(context.Background())
				tc.mutate(cfg)
				err := cfg.Validate()

				convey.Convey("Then validation fails with ErrInvalidConfig", func() {
					convey.So(err, convey.ShouldNotBeNil)
					convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				})
			})
		}
	})
}
