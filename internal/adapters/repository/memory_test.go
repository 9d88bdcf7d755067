package repository_test

import (
	"context"
	"errors"
	"testing"
	"time"

	repository "github.com/okian/ladder/internal/adapters/repository"
	"github.com/okian/ladder/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMemoryCatalog(t *testing.T) {
	ctx := context.Background()
	posted := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)

	Convey("Given an empty catalog", t, func() {
		c := repository.NewMemoryCatalog()

		Convey("When upserting opportunities", func() {
			n, err := c.Upsert(ctx,
				model.Opportunity{ID: "a", Category: "Internships", PostedDate: posted},
				model.Opportunity{ID: "b", Category: "Hackathons", PostedDate: posted},
			)

			Convey("Then they are stored in insertion order", func() {
				So(err, ShouldBeNil)
				So(n, ShouldEqual, 2)
				So(c.Count(ctx), ShouldEqual, 2)
				list := c.List(ctx)
				So(list[0].ID, ShouldEqual, "a")
				So(list[1].ID, ShouldEqual, "b")
			})

			Convey("And an existing one is replaced", func() {
				_, err := c.Upsert(ctx, model.Opportunity{ID: "a", Category: "Scholarships"})
				So(err, ShouldBeNil)

				Convey("Then it keeps its position with new fields", func() {
					got, err := c.Get(ctx, "a")
					So(err, ShouldBeNil)
					So(got.Category, ShouldEqual, "Scholarships")
					So(c.List(ctx)[0].ID, ShouldEqual, "a")
					So(c.Count(ctx), ShouldEqual, 2)
				})
			})

			Convey("And one is deleted", func() {
				So(c.Delete(ctx, "a"), ShouldBeNil)

				Convey("Then lookups reflect the removal", func() {
					_, err := c.Get(ctx, "a")
					So(errors.Is(err, repository.ErrNotFound), ShouldBeTrue)
					got, err := c.Get(ctx, "b")
					So(err, ShouldBeNil)
					So(got.ID, ShouldEqual, "b")
					So(c.Count(ctx), ShouldEqual, 1)
				})
			})
		})

		Convey("When upserting an opportunity without id", func() {
			_, err := c.Upsert(ctx, model.Opportunity{ID: "ok"}, model.Opportunity{ID: " "})

			Convey("Then nothing is written", func() {
				So(errors.Is(err, repository.ErrInvalidOpportunity), ShouldBeTrue)
				So(c.Count(ctx), ShouldEqual, 0)
			})
		})

		Convey("When deleting an unknown id", func() {
			So(errors.Is(c.Delete(ctx, "nope"), repository.ErrNotFound), ShouldBeTrue)
		})
	})

	Convey("Given a catalog with capacity two", t, func() {
		c := repository.NewMemoryCatalog(repository.WithCapacity(2))
		_, err := c.Upsert(ctx, model.Opportunity{ID: "a"}, model.Opportunity{ID: "b"})
		So(err, ShouldBeNil)

		Convey("Then replacing existing entries still fits", func() {
			_, err := c.Upsert(ctx, model.Opportunity{ID: "a", Title: "new"})
			So(err, ShouldBeNil)
		})

		Convey("Then adding a third is rejected", func() {
			_, err := c.Upsert(ctx, model.Opportunity{ID: "c"})
			So(errors.Is(err, repository.ErrCatalogFull), ShouldBeTrue)
			So(c.Count(ctx), ShouldEqual, 2)
		})
	})
}
