package types

import (
	"testing"

	"github.com/goccy/go-json"
	"github.com/okian/ladder/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func ranked(ids ...string) []model.ScoredOpportunity {
	out := make([]model.ScoredOpportunity, len(ids))
	for i, id := range ids {
		out[i] = model.ScoredOpportunity{
			Opportunity: model.Opportunity{ID: id, Category: "Internships"},
			Score:       model.OpportunityScore{OpportunityID: id, Score: 1 - float64(i)/10},
		}
	}
	return out
}

func TestNewFeed(t *testing.T) {
	Convey("Given three ranked opportunities", t, func() {
		in := ranked("a", "b", "c")

		Convey("When building a feed with limit 2", func() {
			feed := NewFeed(in, 2)

			Convey("Then the first two are numbered from 1", func() {
				So(feed, ShouldHaveLength, 2)
				So(feed[0].Rank, ShouldEqual, 1)
				So(feed[0].ID, ShouldEqual, "a")
				So(feed[1].Rank, ShouldEqual, 2)
				So(feed[1].ID, ShouldEqual, "b")
			})
		})

		Convey("When the limit exceeds the candidates or is zero", func() {
			So(NewFeed(in, 10), ShouldHaveLength, 3)
			So(NewFeed(in, 0), ShouldHaveLength, 3)
		})

		Convey("When ranking nothing", func() {
			feed := NewFeed(nil, 5)

			Convey("Then the feed is empty but not nil", func() {
				So(feed, ShouldNotBeNil)
				So(feed, ShouldBeEmpty)
			})
		})
	})
}

func TestFeedEntryJSON(t *testing.T) {
	Convey("Given a feed entry", t, func() {
		entry := NewFeed(ranked("x"), 1)[0]

		Convey("When encoding it", func() {
			data, err := json.Marshal(entry)
			So(err, ShouldBeNil)

			var decoded map[string]any
			So(json.Unmarshal(data, &decoded), ShouldBeNil)

			Convey("Then the opportunity fields are flattened next to rank and score", func() {
				So(decoded["rank"], ShouldEqual, 1.0)
				So(decoded["id"], ShouldEqual, "x")
				So(decoded["category"], ShouldEqual, "Internships")
				score, ok := decoded["score"].(map[string]any)
				So(ok, ShouldBeTrue)
				So(score["opportunity_id"], ShouldEqual, "x")
			})
		})
	})
}
