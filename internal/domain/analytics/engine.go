// Package analytics answers ranking and statistical queries over a table
// snapshot. Every query is a pure function of the snapshot and the player
// index it is given; nothing here mutates state or blocks.
package analytics

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/okian/rosterlens/internal/domain/model"
)

// Query defaults.
const (
	DefaultTopN              = 10
	DefaultMinGames          = 3
	DefaultValueMinGames     = 5
	DefaultVolatilityTopN    = 20
	DefaultBreakoutThreshold = 0.5
	DefaultTrendRecentWeeks  = 3
	DefaultSummaryN          = 3
	DefaultLeadersN          = 5
	DefaultSeriesTopN        = 5
)

const (
	// breakoutMinGames is the season games needed before a breakout is considered.
	breakoutMinGames = 3
	// breakoutEarlyWeeks is the last week ordinal of the early-season window.
	breakoutEarlyWeeks = 3
	// breakoutMinEarly is the early-window observations needed.
	breakoutMinEarly = 2
	// volatilityMinGames is the weekly observations needed for a volatility row.
	volatilityMinGames = 3
	// trendEarlierWeeks caps the earlier window.
	trendEarlierWeeks = 3
	// trendMinRecent is the recent-window observations needed.
	trendMinRecent = 2
	// trendFactor is the fixed 20% improvement threshold.
	trendFactor = 1.2
)

// Tables is the read-only snapshot view queries run against.
type Tables interface {
	Categories() []model.Category
	Weeks() []model.WeekKey
	Weekly(week model.WeekKey, category model.Category) (*model.Table, bool)
	Season(category model.Category) (*model.Table, bool)
}

// Players resolves a bare name to its weekly observations.
type Players interface {
	Lookup(category model.Category, name string) []model.Observation
	Key(label string) string
}

// Engine composes a snapshot and its player index.
type Engine struct {
	tables  Tables
	players Players
}

// New returns an Engine over tables and players.
func New(tables Tables, players Players) *Engine {
	return &Engine{tables: tables, players: players}
}

func empty(format string, args ...any) error {
	return fmt.Errorf("%w: %s", model.ErrEmptyResult, fmt.Sprintf(format, args...))
}

// seasonTable returns the season table for category, requiring the points column.
func (e *Engine) seasonTable(category model.Category) (*model.Table, error) {
	t, ok := e.tables.Season(category)
	if !ok {
		return nil, empty("no season table for %s", category)
	}
	if !t.HasColumn(model.ColumnPoints) {
		return nil, &model.MissingColumnError{Column: model.ColumnPoints, Scope: t.Scope}
	}
	return t, nil
}

type weekTable struct {
	week  model.WeekKey
	table *model.Table
}

// weeklyTables returns the category's weekly tables in chronological order.
// Every table must carry the points column.
func (e *Engine) weeklyTables(category model.Category, weeks []model.WeekKey) ([]weekTable, error) {
	var out []weekTable
	for _, w := range weeks {
		t, ok := e.tables.Weekly(w, category)
		if !ok {
			continue
		}
		if !t.HasColumn(model.ColumnPoints) {
			return nil, &model.MissingColumnError{Column: model.ColumnPoints, Scope: t.Scope}
		}
		out = append(out, weekTable{week: w, table: t})
	}
	if len(out) == 0 {
		return nil, empty("no weekly tables for %s", category)
	}
	return out, nil
}

// sortDesc orders rows by key, highest first, keeping input order for ties.
func sortDesc[T any](rows []T, key func(T) float64) {
	slices.SortStableFunc(rows, func(a, b T) int {
		return cmp.Compare(key(b), key(a))
	})
}

func nonEmpty[T any](rows []T, format string, args ...any) ([]T, error) {
	if len(rows) == 0 {
		return nil, empty(format, args...)
	}
	return rows, nil
}

func positive(name string, v int) error {
	if v < 1 {
		return model.InvalidArgument("%s must be at least 1, got %d", name, v)
	}
	return nil
}

func nonNegative(name string, v int) error {
	if v < 0 {
		return model.InvalidArgument("%s must not be negative, got %d", name, v)
	}
	return nil
}
