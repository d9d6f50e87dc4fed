package identity_test

import (
	"errors"
	"strconv"
	"testing"

	"github.com/okian/rosterlens/internal/domain/identity"
	"github.com/okian/rosterlens/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

type fakeTables struct {
	weeks  []model.WeekKey
	weekly map[int]map[model.Category]*model.Table
	season map[model.Category]*model.Table
}

func newFakeTables() *fakeTables {
	return &fakeTables{
		weekly: make(map[int]map[model.Category]*model.Table),
		season: make(map[model.Category]*model.Table),
	}
}

func (f *fakeTables) week(ordinal int, c model.Category, labels ...string) *fakeTables {
	w := model.WeekKey{Label: "Week " + strconv.Itoa(ordinal), Ordinal: ordinal}
	if _, ok := f.weekly[ordinal]; !ok {
		f.weeks = append(f.weeks, w)
		model.SortWeeks(f.weeks)
		f.weekly[ordinal] = make(map[model.Category]*model.Table)
	}
	t := &model.Table{Scope: model.Scope{Week: &w, Category: c}}
	for i, l := range labels {
		t.Records = append(t.Records, model.Record{Label: l, Category: c, FantasyPoints: float64(10*ordinal + i)})
	}
	f.weekly[ordinal][c] = t
	return f
}

func (f *fakeTables) seasonRows(c model.Category, labels ...string) *fakeTables {
	t := &model.Table{Scope: model.Scope{Category: c}}
	for _, l := range labels {
		t.Records = append(t.Records, model.Record{Label: l, Category: c})
	}
	f.season[c] = t
	return f
}

func (f *fakeTables) Categories() []model.Category { return model.DefaultCategories }
func (f *fakeTables) Weeks() []model.WeekKey        { return f.weeks }

func (f *fakeTables) Weekly(w model.WeekKey, c model.Category) (*model.Table, bool) {
	t, ok := f.weekly[w.Ordinal][c]
	return t, ok
}

func (f *fakeTables) Season(c model.Category) (*model.Table, bool) {
	t, ok := f.season[c]
	return t, ok
}

func weeksOf(obs []model.Observation) []int {
	out := make([]int, len(obs))
	for i, o := range obs {
		out[i] = o.Week.Ordinal
	}
	return out
}

func TestParseMatchMode(t *testing.T) {
	Convey("Given match mode names", t, func() {
		m, err := identity.ParseMatchMode("")
		So(err, ShouldBeNil)
		So(m, ShouldEqual, identity.MatchSubstring)

		m, err = identity.ParseMatchMode("Substring_Fold")
		So(err, ShouldBeNil)
		So(m, ShouldEqual, identity.MatchSubstringFold)
		So(m.String(), ShouldEqual, "substring_fold")

		m, err = identity.ParseMatchMode("exact")
		So(err, ShouldBeNil)
		So(m, ShouldEqual, identity.MatchExact)

		_, err = identity.ParseMatchMode("regex")
		So(errors.Is(err, model.ErrInvalidArgument), ShouldBeTrue)
	})
}

func TestLookup(t *testing.T) {
	Convey("Given season and weekly tables with differently formatted labels", t, func() {
		tables := newFakeTables().
			seasonRows(model.QB, "Josh Allen (BUF)", "Jalen Hurts (PHI)").
			week(2, model.QB, "Jalen Hurts (PHI) Q", "Josh Allen (BUF) vs MIA").
			week(1, model.QB, "Josh Allen (BUF) @ NYJ").
			week(10, model.QB, "Josh Allen (BUF) - bye?", "Jalen Hurts (PHI)")

		ix := identity.Build(tables)

		Convey("When looking up a season name", func() {
			obs := ix.Lookup(model.QB, "Josh Allen")

			Convey("Then every week with a match is returned in chronological order", func() {
				So(weeksOf(obs), ShouldResemble, []int{1, 2, 10})
				So(obs[1].Record.Label, ShouldEqual, "Josh Allen (BUF) vs MIA")
			})
		})

		Convey("When a week has no match", func() {
			obs := ix.Lookup(model.QB, "Jalen Hurts")
			So(weeksOf(obs), ShouldResemble, []int{2, 10})
		})

		Convey("When the name is unknown or empty", func() {
			So(ix.Lookup(model.QB, "Nobody"), ShouldBeEmpty)
			So(ix.Lookup(model.QB, ""), ShouldBeEmpty)
			So(ix.Lookup(model.RB, "Josh Allen"), ShouldBeEmpty)
		})

		Convey("When the name was not seen at build time", func() {
			obs := ix.Lookup(model.QB, "Allen")
			So(weeksOf(obs), ShouldResemble, []int{1, 2, 10})
		})

		Convey("When the caller mutates the result", func() {
			obs := ix.Lookup(model.QB, "Josh Allen")
			obs[0].Record.Label = "changed"
			So(ix.Lookup(model.QB, "Josh Allen")[0].Record.Label, ShouldEqual, "Josh Allen (BUF) @ NYJ")
		})
	})
}

func TestAmbiguity(t *testing.T) {
	Convey("Given a name that is a substring of another player's name", t, func() {
		tables := newFakeTables().
			seasonRows(model.WR, "Mike Williams (NYJ)").
			week(1, model.WR, "Mike Williams Jr. (SEA)", "Mike Williams (NYJ)").
			week(2, model.WR, "Mike Williams (NYJ)")

		Convey("When matching by substring", func() {
			ix := identity.Build(tables)
			obs := ix.Lookup(model.WR, "Mike Williams")

			Convey("Then the first row in table order wins", func() {
				So(obs[0].Record.Label, ShouldEqual, "Mike Williams Jr. (SEA)")
			})

			Convey("Then the collision is reported", func() {
				amb := ix.Ambiguities(model.WR)
				So(amb, ShouldHaveLength, 1)
				So(amb[0].Week, ShouldEqual, "Week 1")
				So(amb[0].Chosen, ShouldEqual, "Mike Williams Jr. (SEA)")
				So(amb[0].Candidates, ShouldHaveLength, 2)
				So(amb[0].String(), ShouldContainSubstring, "matched 2 rows")
				So(ix.Ambiguities(""), ShouldHaveLength, 1)
				So(ix.Ambiguities(model.QB), ShouldBeEmpty)
			})
		})

		Convey("When matching exactly", func() {
			ix := identity.Build(tables, identity.WithMatchMode(identity.MatchExact))
			obs := ix.Lookup(model.WR, "Mike Williams")

			So(obs, ShouldHaveLength, 2)
			So(obs[0].Record.Label, ShouldEqual, "Mike Williams (NYJ)")
			So(ix.Ambiguities(""), ShouldBeEmpty)
		})
	})
}

func TestFoldMode(t *testing.T) {
	Convey("Given labels with inconsistent case", t, func() {
		tables := newFakeTables().
			seasonRows(model.TE, "Travis Kelce (KC)").
			week(1, model.TE, "TRAVIS KELCE (KC)").
			week(2, model.TE, "Travis Kelce (KC)")

		Convey("When matching case-sensitively", func() {
			ix := identity.Build(tables)
			So(weeksOf(ix.Lookup(model.TE, "Travis Kelce")), ShouldResemble, []int{2})
			So(ix.Key("Travis Kelce (KC)"), ShouldEqual, "Travis Kelce")
		})

		Convey("When folding case", func() {
			ix := identity.Build(tables, identity.WithMatchMode(identity.MatchSubstringFold))
			So(ix.Mode(), ShouldEqual, identity.MatchSubstringFold)
			So(weeksOf(ix.Lookup(model.TE, "travis kelce")), ShouldResemble, []int{1, 2})
			So(ix.Key("TRAVIS KELCE (KC)"), ShouldEqual, ix.Key("Travis Kelce (KC)"))
		})
	})
}
