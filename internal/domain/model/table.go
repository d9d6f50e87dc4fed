package model

// Canonical column names after header normalization and alias resolution.
const (
	ColumnPlayer        = "Player"
	ColumnPoints        = "FPTS"
	ColumnPointsPerGame = "FPTS/G"
	ColumnGames         = "G"
	ColumnRoster        = "ROST"
	ColumnRank          = "Rank"
)

// Scope describes which unit a table belongs to. A nil Week means season.
type Scope struct {
	Week     *WeekKey
	Category Category
}

// IsSeason reports whether the scope is the season aggregate.
func (s Scope) IsSeason() bool { return s.Week == nil }

// String renders the scope as "Week 3/QB" or "season/QB".
func (s Scope) String() string {
	if s.Week == nil {
		return "season/" + string(s.Category)
	}
	return s.Week.Label + "/" + string(s.Category)
}

// Table is an immutable snapshot of one source. Callers must not modify
// Records or Columns.
type Table struct {
	Scope   Scope
	Source  string
	Columns []string // normalized header names, in source order
	Records []Record
}

// HasColumn reports whether the normalized header contains name.
func (t *Table) HasColumn(name string) bool {
	for _, c := range t.Columns {
		if c == name {
			return true
		}
	}
	return false
}

// Len returns the number of records.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Records)
}
