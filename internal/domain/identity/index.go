// Package identity resolves a player label from one snapshot to matching
// rows in the weekly snapshots.
//
// Season labels and weekly labels for the same player may differ in
// formatting, so lookups match on the bare name (the label up to the first
// " ("). The default mode looks for the bare name as a substring of each
// weekly label and takes the first row in table order when several rows
// match. This is best-effort: a name that is a substring of another name
// ("Mike Williams" inside "Mike Williams Jr.") can be misattributed. Such
// collisions are recorded as ambiguities at build time so callers can see
// them, and MatchExact is available when labels are known to be consistent.
package identity

import (
	"fmt"
	"slices"
	"strings"

	"github.com/okian/rosterlens/internal/domain/model"
)

// MatchMode selects how a bare name is compared with weekly labels.
type MatchMode int

// Match modes.
const (
	// MatchSubstring is case-sensitive containment of the bare name in the label.
	MatchSubstring MatchMode = iota
	// MatchSubstringFold is case-insensitive containment.
	MatchSubstringFold
	// MatchExact requires the label's bare name to equal the name.
	MatchExact
)

var modeNames = map[MatchMode]string{ //nolint:gochecknoglobals // lookup table
	MatchSubstring:     "substring",
	MatchSubstringFold: "substring_fold",
	MatchExact:         "exact",
}

// String returns the configuration name of the mode.
func (m MatchMode) String() string {
	if s, ok := modeNames[m]; ok {
		return s
	}
	return fmt.Sprintf("MatchMode(%d)", int(m))
}

// ParseMatchMode accepts substring, substring_fold or exact.
func ParseMatchMode(s string) (MatchMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "substring":
		return MatchSubstring, nil
	case "substring_fold", "fold", "case_insensitive":
		return MatchSubstringFold, nil
	case "exact", "strict":
		return MatchExact, nil
	}
	return 0, model.InvalidArgument("unknown match mode %q", s)
}

// Tables is the read-only view of a snapshot the index is built from.
type Tables interface {
	Categories() []model.Category
	Weeks() []model.WeekKey
	Weekly(week model.WeekKey, category model.Category) (*model.Table, bool)
	Season(category model.Category) (*model.Table, bool)
}

// Ambiguity records a weekly table in which more than one row matched a name.
type Ambiguity struct {
	Category   model.Category `json:"category"`
	Week       string         `json:"week"`
	Name       string         `json:"name"`
	Chosen     string         `json:"chosen"`
	Candidates []string       `json:"candidates"`
}

func (a Ambiguity) String() string {
	return fmt.Sprintf("%s %s: %q matched %d rows %q, using %q",
		a.Week, a.Category, a.Name, len(a.Candidates), a.Candidates, a.Chosen)
}

// Index maps bare names to their weekly observations per category. It is
// immutable after Build and safe for concurrent reads.
type Index struct {
	mode        MatchMode
	tables      Tables
	entries     map[model.Category]map[string][]model.Observation
	ambiguities []Ambiguity
}

// Option applies a configuration option to the Index.
type Option func(*Index)

// WithMatchMode sets the matching mode.
func WithMatchMode(mode MatchMode) Option {
	return func(ix *Index) {
		ix.mode = mode
	}
}

// Build scans every season and weekly label once and records, for each bare
// name, the first matching row of every weekly table in chronological order.
func Build(tables Tables, opts ...Option) *Index {
	ix := &Index{
		mode:    MatchSubstring,
		tables:  tables,
		entries: make(map[model.Category]map[string][]model.Observation),
	}
	for _, opt := range opts {
		opt(ix)
	}

	weeks := tables.Weeks()
	for _, c := range tables.Categories() {
		byName := make(map[string][]model.Observation)
		for _, name := range ix.names(c, weeks) {
			obs, amb := ix.scan(c, name, weeks)
			byName[ix.key(name)] = obs
			ix.ambiguities = append(ix.ambiguities, amb...)
		}
		ix.entries[c] = byName
	}
	return ix
}

// Mode returns the matching mode.
func (ix *Index) Mode() MatchMode { return ix.mode }

// Key returns the identity key of a label: its bare name, folded to lower
// case in MatchSubstringFold mode.
func (ix *Index) Key(label string) string {
	return ix.key(model.BareName(label))
}

// Lookup returns the weekly observations matching name in category, in
// chronological order, at most one per week. Names not seen at build time
// are resolved with the same rules on demand.
func (ix *Index) Lookup(category model.Category, name string) []model.Observation {
	if name == "" {
		return nil
	}
	if obs, ok := ix.entries[category][ix.key(name)]; ok {
		return slices.Clone(obs)
	}
	obs, _ := ix.scan(category, name, ix.tables.Weeks())
	return obs
}

// Ambiguities returns the ambiguities found for category, or for every
// category when category is empty.
func (ix *Index) Ambiguities(category model.Category) []Ambiguity {
	var out []Ambiguity
	for _, a := range ix.ambiguities {
		if category == "" || a.Category == category {
			out = append(out, a)
		}
	}
	return out
}

func (ix *Index) key(name string) string {
	if ix.mode == MatchSubstringFold {
		return strings.ToLower(name)
	}
	return name
}

func (ix *Index) matches(label, name string) bool {
	switch ix.mode {
	case MatchSubstringFold:
		return strings.Contains(strings.ToLower(label), strings.ToLower(name))
	case MatchExact:
		return model.BareName(label) == name
	default:
		return strings.Contains(label, name)
	}
}

// names collects the distinct bare names of a category, season rows first,
// then weekly rows in chronological order.
func (ix *Index) names(category model.Category, weeks []model.WeekKey) []string {
	var (
		out  []string
		seen = make(map[string]bool)
	)
	add := func(t *model.Table) {
		for _, r := range t.Records {
			name := r.Identity()
			k := ix.key(name)
			if name == "" || seen[k] {
				continue
			}
			seen[k] = true
			out = append(out, name)
		}
	}
	if t, ok := ix.tables.Season(category); ok {
		add(t)
	}
	for _, w := range weeks {
		if t, ok := ix.tables.Weekly(w, category); ok {
			add(t)
		}
	}
	return out
}

func (ix *Index) scan(category model.Category, name string, weeks []model.WeekKey) ([]model.Observation, []Ambiguity) {
	var (
		obs []model.Observation
		amb []Ambiguity
	)
	for _, w := range weeks {
		t, ok := ix.tables.Weekly(w, category)
		if !ok {
			continue
		}
		var hits []string
		for _, r := range t.Records {
			if !ix.matches(r.Label, name) {
				continue
			}
			if len(hits) == 0 {
				obs = append(obs, model.Observation{Week: w, Record: r})
			}
			hits = append(hits, r.Label)
		}
		if len(hits) > 1 {
			amb = append(amb, Ambiguity{
				Category:   category,
				Week:       w.Label,
				Name:       name,
				Chosen:     hits[0],
				Candidates: hits,
			})
		}
	}
	return obs, amb
}
