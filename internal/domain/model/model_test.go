package model_test

import (
	"errors"
	"fmt"
	"testing"

	model "github.com/okian/rosterlens/internal/domain/model"
	"github.com/smartystreets/goconvey/convey"
)

func TestBareName(t *testing.T) {
	convey.Convey("Given player labels", t, func() {
		convey.Convey("When the label carries a team suffix", func() {
			convey.So(model.BareName("Josh Allen (BUF)"), convey.ShouldEqual, "Josh Allen")
		})

		convey.Convey("When the label has no suffix", func() {
			convey.So(model.BareName("Josh Allen"), convey.ShouldEqual, "Josh Allen")
		})

		convey.Convey("When the label has more than one delimiter", func() {
			convey.So(model.BareName("A (B) (C)"), convey.ShouldEqual, "A")
		})

		convey.Convey("When the parenthesis is not preceded by a space", func() {
			convey.So(model.BareName("Name(TEAM)"), convey.ShouldEqual, "Name(TEAM)")
		})

		convey.Convey("Then Record.Identity matches BareName", func() {
			r := model.Record{Label: "Travis Kelce (KC)"}
			convey.So(r.Identity(), convey.ShouldEqual, "Travis Kelce")
		})
	})
}

func TestParseCategory(t *testing.T) {
	convey.Convey("Given category strings", t, func() {
		c, err := model.ParseCategory("  qb ")
		convey.So(err, convey.ShouldBeNil)
		convey.So(c, convey.ShouldEqual, model.QB)

		_, err = model.ParseCategory("   ")
		convey.So(errors.Is(err, model.ErrInvalidArgument), convey.ShouldBeTrue)
	})
}

func TestWeekKey(t *testing.T) {
	convey.Convey("Given week labels", t, func() {
		convey.Convey("When parsing a conventional label", func() {
			w, err := model.ParseWeekKey(" Week 12 ")
			convey.So(err, convey.ShouldBeNil)
			convey.So(w.Ordinal, convey.ShouldEqual, 12)
			convey.So(w.String(), convey.ShouldEqual, "Week 12")
		})

		convey.Convey("When parsing a label without digits", func() {
			_, err := model.ParseWeekKey("Full Season")
			convey.So(errors.Is(err, model.ErrInvalidArgument), convey.ShouldBeTrue)
		})

		convey.Convey("When sorting", func() {
			var weeks []model.WeekKey
			for _, l := range []string{"Week 10", "Week 2", "Week 1", "Week 18", "Week 9"} {
				w, err := model.ParseWeekKey(l)
				convey.So(err, convey.ShouldBeNil)
				weeks = append(weeks, w)
			}
			model.SortWeeks(weeks)

			convey.Convey("Then the ordinal decides, not the text", func() {
				got := make([]string, len(weeks))
				for i, w := range weeks {
					got[i] = w.Label
				}
				convey.So(got, convey.ShouldResemble, []string{"Week 1", "Week 2", "Week 9", "Week 10", "Week 18"})
			})
		})
	})
}

func TestTable(t *testing.T) {
	convey.Convey("Given a table", t, func() {
		w := model.WeekKey{Label: "Week 3", Ordinal: 3}
		tbl := &model.Table{
			Scope:   model.Scope{Week: &w, Category: model.WR},
			Columns: []string{model.ColumnPlayer, model.ColumnPoints},
			Records: []model.Record{{Label: "A (X)"}, {Label: "B (Y)"}},
		}

		convey.So(tbl.HasColumn(model.ColumnPoints), convey.ShouldBeTrue)
		convey.So(tbl.HasColumn(model.ColumnRoster), convey.ShouldBeFalse)
		convey.So(tbl.Len(), convey.ShouldEqual, 2)
		convey.So(tbl.Scope.String(), convey.ShouldEqual, "Week 3/WR")
		convey.So(model.Scope{Category: model.TE}.String(), convey.ShouldEqual, "season/TE")

		var nilTable *model.Table
		convey.So(nilTable.Len(), convey.ShouldEqual, 0)
	})
}

func TestErrors(t *testing.T) {
	convey.Convey("Given typed errors", t, func() {
		convey.Convey("When a ParseError is wrapped", func() {
			err := fmt.Errorf("load: %w", &model.ParseError{Path: "qb.csv", Row: 4, Column: "FPTS", Err: errors.New("bad number")})

			convey.So(errors.Is(err, model.ErrParseFailure), convey.ShouldBeTrue)
			convey.So(err.Error(), convey.ShouldContainSubstring, `row 4 column "FPTS"`)

			var pe *model.ParseError
			convey.So(errors.As(err, &pe), convey.ShouldBeTrue)
			convey.So(pe.Path, convey.ShouldEqual, "qb.csv")
		})

		convey.Convey("When a MissingColumnError is returned", func() {
			err := &model.MissingColumnError{Column: "FPTS", Scope: model.Scope{Category: model.QB}}
			convey.So(errors.Is(err, model.ErrMissingColumn), convey.ShouldBeTrue)
			convey.So(model.IsEmpty(err), convey.ShouldBeFalse)
			convey.So(err.Error(), convey.ShouldContainSubstring, "season/QB")
		})

		convey.Convey("When the empty marker is wrapped", func() {
			convey.So(model.IsEmpty(fmt.Errorf("x: %w", model.ErrEmptyResult)), convey.ShouldBeTrue)
		})
	})
}

func TestPoints(t *testing.T) {
	convey.Convey("Given observations", t, func() {
		obs := []model.Observation{
			{Record: model.Record{FantasyPoints: 1.5}},
			{Record: model.Record{FantasyPoints: 3}},
		}
		convey.So(model.Points(obs), convey.ShouldResemble, []float64{1.5, 3})
	})
}
