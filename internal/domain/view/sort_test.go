package view_test

import (
	"math"
	"testing"

	"github.com/tejasvp/resultboard/internal/domain/model"
	"github.com/tejasvp/resultboard/internal/domain/view"
	. "github.com/smartystreets/goconvey/convey"
)

func TestSortState(t *testing.T) {
	Convey("Given the default sort state", t, func() {
		state := view.DefaultSortState()
		So(state.Key, ShouldEqual, view.BySGPA)
		So(state.Direction, ShouldEqual, view.Descending)

		Convey("When toggling the active key", func() {
			flipped := state.Toggle(view.BySGPA)

			Convey("Then the direction flips", func() {
				So(flipped.Key, ShouldEqual, view.BySGPA)
				So(flipped.Direction, ShouldEqual, view.Ascending)
			})

			Convey("And toggling again flips it back", func() {
				So(flipped.Toggle(view.BySGPA).Direction, ShouldEqual, view.Descending)
			})
		})

		Convey("When toggling a different key", func() {
			next := state.Toggle(view.ByName)

			Convey("Then the direction resets to descending", func() {
				So(next.Key, ShouldEqual, view.ByName)
				So(next.Direction, ShouldEqual, view.Descending)
			})
		})
	})

	Convey("Given wire names for keys and directions", t, func() {
		So(view.ParseSortKey("usn"), ShouldEqual, view.ByUSN)
		So(view.ParseSortKey("name"), ShouldEqual, view.ByName)
		So(view.ParseSortKey("sgpa"), ShouldEqual, view.BySGPA)
		So(view.ParseSortKey("bogus"), ShouldEqual, view.BySGPA)
		So(view.ParseDirection("asc"), ShouldEqual, view.Ascending)
		So(view.ParseDirection(""), ShouldEqual, view.Descending)
		So(view.BySGPA.String(), ShouldEqual, "sgpa")
		So(view.Ascending.String(), ShouldEqual, "asc")
	})
}

func TestSort(t *testing.T) {
	records := []model.StudentRecord{
		{USN: "1DS23CG003", Name: "cara", SGPA: 7.2},
		{USN: "1DS23CG001", Name: "Alice", SGPA: 9.5},
		{USN: "1DS23CG002", Name: "Bob", SGPA: 9.5},
		{USN: "1DS23CG004", Name: "dan", SGPA: 6.1},
	}

	Convey("Given records with tied scores", t, func() {
		Convey("When sorting by score descending", func() {
			got := view.Sort(records, view.SortState{Key: view.BySGPA, Direction: view.Descending})

			Convey("Then adjacent pairs never compare greater", func() {
				state := view.SortState{Key: view.BySGPA, Direction: view.Descending}
				for i := 1; i < len(got); i++ {
					So(view.Compare(got[i-1], got[i], state), ShouldBeLessThanOrEqualTo, 0)
				}
			})

			Convey("And tied records keep their input order", func() {
				So(got[0].Name, ShouldEqual, "Alice")
				So(got[1].Name, ShouldEqual, "Bob")
			})

			Convey("And the input slice is untouched", func() {
				So(records[0].Name, ShouldEqual, "cara")
			})
		})

		Convey("When sorting by score ascending", func() {
			got := view.Sort(records, view.SortState{Key: view.BySGPA, Direction: view.Ascending})
			So(got[0].SGPA, ShouldEqual, 6.1)
			So(got[len(got)-1].SGPA, ShouldEqual, 9.5)
		})

		Convey("When sorting by name ascending", func() {
			got := view.Sort(records, view.SortState{Key: view.ByName, Direction: view.Ascending})

			Convey("Then names order case-insensitively", func() {
				So(got[0].Name, ShouldEqual, "Alice")
				So(got[1].Name, ShouldEqual, "Bob")
				So(got[2].Name, ShouldEqual, "cara")
				So(got[3].Name, ShouldEqual, "dan")
			})
		})

		Convey("When sorting by USN descending", func() {
			got := view.Sort(records, view.SortState{Key: view.ByUSN, Direction: view.Descending})
			So(got[0].USN, ShouldEqual, "1DS23CG004")
			So(got[3].USN, ShouldEqual, "1DS23CG001")
		})
	})

	Convey("Given a record with a non-comparable score", t, func() {
		withNaN := append([]model.StudentRecord{
			{USN: "1DS23CG009", Name: "eve", SGPA: math.NaN()},
		}, records...)

		Convey("When sorting by score descending", func() {
			got := view.Sort(withNaN, view.SortState{Key: view.BySGPA, Direction: view.Descending})

			Convey("Then it sinks to the bottom deterministically", func() {
				So(got[len(got)-1].USN, ShouldEqual, "1DS23CG009")
			})
		})

		Convey("When sorting by score ascending", func() {
			got := view.Sort(withNaN, view.SortState{Key: view.BySGPA, Direction: view.Ascending})

			Convey("Then it surfaces first, below every real score", func() {
				So(got[0].USN, ShouldEqual, "1DS23CG009")
			})
		})
	})

	Convey("Given an empty record list", t, func() {
		So(view.Sort(nil, view.DefaultSortState()), ShouldBeEmpty)
	})
}
