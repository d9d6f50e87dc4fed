// Package model contains domain models passed between layers.
package model

import "strings"

// Category is a roster slot such as QB, RB, WR or TE.
type Category string

// Known categories.
const (
	QB Category = "QB"
	RB Category = "RB"
	WR Category = "WR"
	TE Category = "TE"
)

// DefaultCategories lists the categories loaded when none are configured.
var DefaultCategories = []Category{QB, RB, WR, TE} //nolint:gochecknoglobals // fixed domain set

// ParseCategory normalizes s (trimmed, upper-cased).
func ParseCategory(s string) (Category, error) {
	c := Category(strings.ToUpper(strings.TrimSpace(s)))
	if c == "" {
		return "", InvalidArgument("category must not be empty")
	}
	return c, nil
}

// identityDelimiter separates the bare name from the team suffix in a label.
const identityDelimiter = " ("

// Record is one row of a snapshot.
type Record struct {
	Label            string   // player label, conventionally "Name (TEAM)"
	Category         Category // slot the row was loaded under
	FantasyPoints    float64  // clamped to >= 0
	PointsPerGame    *float64 // FPTS/G when the source carries it
	GamesPlayed      int      // defaults to 1 when absent
	RosterPercentage float64  // fraction in [0,1]
	RosterKnown      bool     // false when the roster cell was absent or unparsable
	Rank             *int     // optional source rank
	Row              int      // zero-based position in the source table
}

// Identity returns the PlayerIdentity of the record.
func (r Record) Identity() string { return BareName(r.Label) }

// BareName truncates label at the first " (" delimiter.
func BareName(label string) string {
	if i := strings.Index(label, identityDelimiter); i >= 0 {
		return label[:i]
	}
	return label
}

// Observation pairs a record with the week it was observed in.
type Observation struct {
	Week   WeekKey
	Record Record
}

// Points extracts fantasy points from a list of observations.
func Points(obs []Observation) []float64 {
	out := make([]float64, len(obs))
	for i, o := range obs {
		out[i] = o.Record.FantasyPoints
	}
	return out
}
