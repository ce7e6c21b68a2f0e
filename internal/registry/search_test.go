package registry

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func matchNames(ms []Match) []string {
	names := make([]string, len(ms))
	for i, m := range ms {
		names[i] = m.Name
	}
	return names
}

func TestSearch(t *testing.T) {
	r := mustNew(t)

	Convey("Search", t, func() {
		Convey("the empty query matches every entry in registry order", func() {
			got := r.Search("")
			So(matchNames(got), ShouldResemble, r.Names())
			for _, m := range got {
				So(m.Score, ShouldEqual, WeightName+WeightDescription+WeightCategory)
			}
		})

		Convey("ignores case", func() {
			So(r.Search("BUTTON"), ShouldResemble, r.Search("button"))
		})

		Convey("ranks name over description over category", func() {
			// "Button" by name, "Card" by description ("button slot").
			got := r.Search("button")
			So(matchNames(got), ShouldResemble, []string{"Button", "Card"})
			So(got[0].Score, ShouldEqual, WeightName)
			So(got[0].Fields, ShouldResemble, []string{"name"})
			So(got[1].Score, ShouldEqual, WeightDescription)
			So(got[1].Fields, ShouldResemble, []string{"description"})
		})

		Convey("a category-only match ranks last", func() {
			// "motion" only appears as a category.
			got := r.Search("motion")
			So(matchNames(got), ShouldResemble, []string{"ScaleIn", "Odometer"})
			for _, m := range got {
				So(m.Score, ShouldEqual, WeightCategory)
			}
		})

		Convey("sums weights across fields", func() {
			// HoverCard matches "card" by name and description, Card only by name.
			got := r.Search("card")
			So(matchNames(got), ShouldResemble, []string{"HoverCard", "Card"})
			So(got[0].Score, ShouldEqual, WeightName+WeightDescription)
			So(got[1].Score, ShouldEqual, WeightName)
		})

		Convey("keeps registry order on ties", func() {
			// Both match only on description.
			got := r.Search("anim")
			So(matchNames(got), ShouldResemble, []string{"ScaleIn", "Odometer"})
		})

		Convey("no match yields no results", func() {
			So(r.Search("nothing-here"), ShouldBeEmpty)
		})
	})
}
