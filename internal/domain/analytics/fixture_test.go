package analytics_test

import (
	"strconv"

	"github.com/okian/rosterlens/internal/domain/analytics"
	"github.com/okian/rosterlens/internal/domain/identity"
	"github.com/okian/rosterlens/internal/domain/model"
)

var allColumns = []string{ //nolint:gochecknoglobals // test fixture
	model.ColumnRank, model.ColumnPlayer, model.ColumnPoints, model.ColumnGames, model.ColumnRoster,
}

// snapshot is an in-memory table set for engine tests.
type snapshot struct {
	weeks  []model.WeekKey
	weekly map[int]map[model.Category]*model.Table
	season map[model.Category]*model.Table
}

func newSnapshot() *snapshot {
	return &snapshot{
		weekly: make(map[int]map[model.Category]*model.Table),
		season: make(map[model.Category]*model.Table),
	}
}

func (s *snapshot) Categories() []model.Category { return model.DefaultCategories }
func (s *snapshot) Weeks() []model.WeekKey        { return append([]model.WeekKey(nil), s.weeks...) }

func (s *snapshot) Weekly(w model.WeekKey, c model.Category) (*model.Table, bool) {
	t, ok := s.weekly[w.Ordinal][c]
	return t, ok
}

func (s *snapshot) Season(c model.Category) (*model.Table, bool) {
	t, ok := s.season[c]
	return t, ok
}

// week registers a week, optionally with a table for c.
func (s *snapshot) week(ordinal int, c model.Category, rows ...model.Record) *snapshot {
	return s.weekWithColumns(ordinal, c, allColumns, rows...)
}

func (s *snapshot) weekWithColumns(ordinal int, c model.Category, columns []string, rows ...model.Record) *snapshot {
	w := model.WeekKey{Label: "Week " + strconv.Itoa(ordinal), Ordinal: ordinal}
	if _, ok := s.weekly[ordinal]; !ok {
		s.weeks = append(s.weeks, w)
		model.SortWeeks(s.weeks)
		s.weekly[ordinal] = make(map[model.Category]*model.Table)
	}
	if c != "" {
		s.weekly[ordinal][c] = table(model.Scope{Week: &w, Category: c}, columns, rows)
	}
	return s
}

func (s *snapshot) seasonTable(c model.Category, rows ...model.Record) *snapshot {
	return s.seasonWithColumns(c, allColumns, rows...)
}

func (s *snapshot) seasonWithColumns(c model.Category, columns []string, rows ...model.Record) *snapshot {
	s.season[c] = table(model.Scope{Category: c}, columns, rows)
	return s
}

func (s *snapshot) engine(opts ...identity.Option) *analytics.Engine {
	return analytics.New(s, identity.Build(s, opts...))
}

func table(scope model.Scope, columns []string, rows []model.Record) *model.Table {
	t := &model.Table{Scope: scope, Columns: columns}
	for i, r := range rows {
		r.Category = scope.Category
		r.Row = i
		t.Records = append(t.Records, r)
	}
	return t
}

// pts is a weekly row.
func pts(label string, fpts float64) model.Record {
	return model.Record{Label: label, FantasyPoints: fpts, GamesPlayed: 1}
}

// season is a season row; a negative roster means the cell was unparsable.
func season(label string, fpts float64, games int, roster float64) model.Record {
	r := model.Record{Label: label, FantasyPoints: fpts, GamesPlayed: games}
	if roster >= 0 {
		r.RosterPercentage, r.RosterKnown = roster, true
	}
	return r
}

// qbScenario is two season QBs observed over three weeks.
func qbScenario() *snapshot {
	return newSnapshot().
		seasonTable(model.QB,
			season("A (X)", 300, 15, 0.9),
			season("B (Y)", 200, 10, 0),
			season("C (Z)", 150, 10, -1),
			season("D (W)", 60, 6, 0.1),
		).
		week(1, model.QB, pts("A (X)", 10), pts("B (Y)", 25)).
		week(2, model.QB, pts("A (X)", 12), pts("B (Y)", 5)).
		week(3, model.QB, pts("A (X)", 11), pts("B (Y)", 5))
}

func players[T any](rows []T, name func(T) string) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = name(r)
	}
	return out
}
