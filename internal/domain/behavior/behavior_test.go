package behavior_test

import (
	"testing"
	"time"

	behavior "github.com/okian/ladder/internal/domain/behavior"
	"github.com/okian/ladder/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func TestLog(t *testing.T) {
	start := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	now := start
	clock := func() time.Time { return now }

	Convey("Given a seeded behavior log", t, func() {
		now = start
		l := behavior.NewLog(behavior.WithClock(clock))

		Convey("Then it holds the seed history most recent first", func() {
			events := l.Events()
			So(events, ShouldHaveLength, 3)
			So(events[0].Category, ShouldEqual, "Internships")
			So(events[0].Timestamp, ShouldEqual, start.Add(-30*time.Minute))
			So(events[1].Category, ShouldEqual, "Hackathons")
			So(events[1].Timestamp, ShouldEqual, start.Add(-2*time.Hour))
			So(events[2].Category, ShouldEqual, "Internships")
			So(events[2].Timestamp, ShouldEqual, start.Add(-24*time.Hour))
		})

		Convey("Then the seed locations and fields are known", func() {
			So(l.HasLocation("Athens, Greece"), ShouldBeTrue)
			So(l.HasField("Technology"), ShouldBeTrue)
			So(l.HasLocation("Berlin"), ShouldBeFalse)
			So(l.HasField("Medicine"), ShouldBeFalse)
		})

		Convey("When tracking a new action", func() {
			now = start.Add(time.Minute)
			e := l.Track("opp-9", model.ActionSave, "Research", "Berlin", "Medicine")

			Convey("Then it is stamped by the log and placed first", func() {
				So(e.Timestamp, ShouldEqual, now)
				So(e.ID, ShouldNotBeEmpty)
				events := l.Events()
				So(events, ShouldHaveLength, 4)
				So(events[0], ShouldResemble, e)
			})

			Convey("Then its location and field become known", func() {
				So(l.HasLocation("Berlin"), ShouldBeTrue)
				So(l.HasField("Medicine"), ShouldBeTrue)
				So(l.Locations(), ShouldContain, "Berlin")
				So(l.Fields(), ShouldContain, "Medicine")
			})
		})

		Convey("When asking for recommended categories", func() {
			cats := l.RecommendedCategories(5)

			Convey("Then categories are ordered by total weight", func() {
				So(cats, ShouldResemble, []string{"Internships", "Hackathons"})
			})
		})
	})

	Convey("Given an unseeded log with many categories", t, func() {
		l := behavior.NewLog(behavior.WithSeed(false))
		l.Track("a", model.ActionView, "A", "x", "y")     // A 0.3
		l.Track("b", model.ActionApply, "B", "x", "y")    // B 0.9
		l.Track("c", model.ActionLike, "C", "x", "y")     // C 0.7
		l.Track("d", model.ActionShare, "D", "x", "y")    // D 0.5
		l.Track("e", model.ActionSave, "E", "x", "y")     // E 0.6
		l.Track("f", model.Action("poke"), "F", "x", "y") // F 0.1
		l.Track("a2", model.ActionApply, "A", "x", "y")   // A 1.2
		l.Track("g", model.ActionShare, "G", "x", "y")    // G 0.5

		Convey("When asking for the top five", func() {
			cats := l.RecommendedCategories(5)

			Convey("Then at most five distinct categories come back heaviest first", func() {
				So(cats, ShouldHaveLength, 5)
				So(cats[:4], ShouldResemble, []string{"A", "B", "C", "E"})
				// D and G tie at 0.5; G appears first in the most-recent-first log.
				So(cats[4], ShouldEqual, "G")
			})
		})

		Convey("When replacing the log", func() {
			l.Replace([]model.BehaviorEvent{
				{ID: "2", Category: "Z", Action: model.ActionLike, Location: "L2", Field: "F2"},
				{ID: "1", Category: "Y", Action: model.ActionView, Location: "L1", Field: "F1"},
			})

			Convey("Then the given order is preserved and indexes rebuilt", func() {
				events := l.Events()
				So(events, ShouldHaveLength, 2)
				So(events[0].ID, ShouldEqual, "2")
				So(events[1].ID, ShouldEqual, "1")
				So(l.HasLocation("x"), ShouldBeFalse)
				So(l.Locations(), ShouldResemble, []string{"L1", "L2"})
			})
		})
	})

	Convey("Given an empty log", t, func() {
		l := behavior.NewLog(behavior.WithSeed(false))

		Convey("Then no categories are recommended", func() {
			So(l.RecommendedCategories(5), ShouldBeEmpty)
			So(l.Events(), ShouldBeEmpty)
		})
	})
}
