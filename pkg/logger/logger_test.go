package logger

import (
	"context"
	"errors"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestLoggerInit(t *testing.T) {
	Convey("Given the global logger", t, func() {
		Convey("When initializing with defaults", func() {
			err := Init()

			Convey("Then it is usable", func() {
				So(err, ShouldBeNil)
				So(Get(), ShouldNotBeNil)
				So(Named("test"), ShouldNotBeNil)
				So(Sync(), ShouldBeNil)
			})
		})

		Convey("When initializing the json format", func() {
			So(Init(WithFormat("json")), ShouldBeNil)
			So(Get(), ShouldNotBeNil)
		})

		Convey("When initializing an unknown format", func() {
			So(Init(WithFormat("xml")), ShouldNotBeNil)
		})
	})
}

func TestSetLevelString(t *testing.T) {
	Convey("Given level strings", t, func() {
		So(Init(), ShouldBeNil)

		Convey("Then known levels are applied", func() {
			So(SetLevelString("DEBUG"), ShouldBeNil)
			So(Level(), ShouldEqual, "debug")
			So(SetLevelString("warning"), ShouldBeNil)
			So(Level(), ShouldEqual, "warn")
			So(SetLevelString(""), ShouldBeNil)
			So(Level(), ShouldEqual, "info")
		})

		Convey("Then unknown levels are rejected", func() {
			So(SetLevelString("verbose"), ShouldNotBeNil)
		})
	})
}

func TestZapLogger(t *testing.T) {
	Convey("Given a logger over an observed core", t, func() {
		core, logs := observer.New(zapcore.DebugLevel)
		l := FromZap(zap.New(core))

		Convey("When logging with a request id in context", func() {
			ctx := WithRequestID(context.Background(), "req-1")
			l.Warn(ctx, "degraded", String("k", "v"), Int("n", 3), Error(errors.New("boom")))

			Convey("Then fields and request id are recorded", func() {
				So(logs.Len(), ShouldEqual, 1)
				entry := logs.All()[0]
				So(entry.Message, ShouldEqual, "degraded")
				So(entry.Level, ShouldEqual, zapcore.WarnLevel)
				fields := entry.ContextMap()
				So(fields["request_id"], ShouldEqual, "req-1")
				So(fields["k"], ShouldEqual, "v")
				So(fields["error"], ShouldEqual, "boom")
			})
		})

		Convey("When logging through a named logger", func() {
			l.Named("engine").Info(context.Background(), "hello")

			Convey("Then the name is attached", func() {
				So(logs.All()[0].LoggerName, ShouldEqual, "engine")
			})
		})

		Convey("When using the nop logger", func() {
			So(func() { NewNop().Info(context.Background(), "ignored") }, ShouldNotPanic)
		})
	})
}
