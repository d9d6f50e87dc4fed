package repository

import (
	"slices"
	"time"

	"github.com/okian/rosterlens/internal/domain/identity"
	"github.com/okian/rosterlens/internal/domain/model"
)

// Snapshot is an immutable set of weekly and season tables plus the player
// index built over them. Every load publishes a new Snapshot.
type Snapshot struct {
	ID       string
	LoadedAt time.Time

	categories []model.Category
	weeks      []model.WeekKey
	weekly     map[int]map[model.Category]*model.Table
	season     map[model.Category]*model.Table
	players    *identity.Index

	weeklyWarnings []error
	seasonWarnings []error
}

// Stats describes the size of a snapshot.
type Stats struct {
	SnapshotID   string    `json:"snapshot_id"`
	LoadedAt     time.Time `json:"loaded_at"`
	Categories   []string  `json:"categories"`
	Weeks        []string  `json:"weeks"`
	WeeklyTables int       `json:"weekly_tables"`
	SeasonTables int       `json:"season_tables"`
	Rows         int       `json:"rows"`
	Warnings     int       `json:"warnings"`
	Ambiguities  int       `json:"ambiguities"`
	MatchMode    string    `json:"match_mode"`
}

// Categories returns the categories the snapshot was loaded for.
func (s *Snapshot) Categories() []model.Category { return s.categories }

// Weeks returns every discovered week in chronological order, including
// weeks without tables.
func (s *Snapshot) Weeks() []model.WeekKey { return slices.Clone(s.weeks) }

// Weekly returns the table for (week, category).
func (s *Snapshot) Weekly(week model.WeekKey, category model.Category) (*model.Table, bool) {
	t, ok := s.weekly[week.Ordinal][category]
	return t, ok
}

// Season returns the season table for category.
func (s *Snapshot) Season(category model.Category) (*model.Table, bool) {
	t, ok := s.season[category]
	return t, ok
}

// weeklySource returns the source path of the weekly table for a week label.
func (s *Snapshot) weeklySource(week string, category model.Category) string {
	w, err := model.ParseWeekKey(week)
	if err != nil {
		return ""
	}
	if t, ok := s.Weekly(w, category); ok {
		return t.Source
	}
	return ""
}

// Players returns the player index built for this snapshot.
func (s *Snapshot) Players() *identity.Index { return s.players }

// Warnings returns the warnings collected by the loads that built this snapshot.
func (s *Snapshot) Warnings() []error {
	return slices.Concat(s.seasonWarnings, s.weeklyWarnings)
}

// Stats counts tables and rows.
func (s *Snapshot) Stats() Stats {
	st := Stats{
		SnapshotID:   s.ID,
		LoadedAt:     s.LoadedAt,
		SeasonTables: len(s.season),
		Warnings:     len(s.seasonWarnings) + len(s.weeklyWarnings),
		Ambiguities:  len(s.players.Ambiguities("")),
		MatchMode:    s.players.Mode().String(),
	}
	for _, c := range s.categories {
		st.Categories = append(st.Categories, string(c))
		st.Rows += s.season[c].Len()
	}
	for _, w := range s.weeks {
		st.Weeks = append(st.Weeks, w.Label)
		for _, t := range s.weekly[w.Ordinal] {
			st.WeeklyTables++
			st.Rows += t.Len()
		}
	}
	return st
}
