package model_test

import (
	"testing"

	model "github.com/okian/ladder/internal/domain/model"
	"github.com/smartystreets/goconvey/convey"
)

func TestAction(t *testing.T) {
	convey.Convey("Given the known actions", t, func() {
		convey.Convey("Then each maps to its fixed weight", func() {
			convey.So(model.ActionApply.Weight(), convey.ShouldEqual, 0.9)
			convey.So(model.ActionLike.Weight(), convey.ShouldEqual, 0.7)
			convey.So(model.ActionSave.Weight(), convey.ShouldEqual, 0.6)
			convey.So(model.ActionShare.Weight(), convey.ShouldEqual, 0.5)
			convey.So(model.ActionView.Weight(), convey.ShouldEqual, 0.3)
		})

		convey.Convey("Then they are all valid", func() {
			for _, a := range []model.Action{model.ActionApply, model.ActionLike, model.ActionSave, model.ActionShare, model.ActionView} {
				convey.So(a.Valid(), convey.ShouldBeTrue)
			}
		})
	})

	convey.Convey("Given an unrecognized action", t, func() {
		a := model.Action("bookmark")

		convey.Convey("Then it is invalid and falls into the lowest bucket", func() {
			convey.So(a.Valid(), convey.ShouldBeFalse)
			convey.So(a.Weight(), convey.ShouldEqual, model.UnknownActionWeight)
		})
	})

	convey.Convey("Given raw action strings", t, func() {
		convey.Convey("When parsing them", func() {
			convey.So(model.ParseAction("  APPLY "), convey.ShouldEqual, model.ActionApply)
			convey.So(model.ParseAction("Share"), convey.ShouldEqual, model.ActionShare)
			convey.So(model.ParseAction("").Valid(), convey.ShouldBeFalse)
		})
	})
}
