package model

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
)

var weekOrdinal = regexp.MustCompile(`\d+`) //nolint:gochecknoglobals // compiled once

// WeekKey identifies a week unit. Ordering follows the embedded ordinal,
// so "Week 2" sorts before "Week 10".
type WeekKey struct {
	Label   string
	Ordinal int
}

// ParseWeekKey extracts the first integer embedded in label.
func ParseWeekKey(label string) (WeekKey, error) {
	label = strings.TrimSpace(label)
	m := weekOrdinal.FindString(label)
	if m == "" {
		return WeekKey{}, InvalidArgument("week label has no ordinal: %q", label)
	}
	n, err := strconv.Atoi(m)
	if err != nil {
		return WeekKey{}, InvalidArgument("week ordinal out of range: %q", label)
	}
	return WeekKey{Label: label, Ordinal: n}, nil
}

// String returns the source label.
func (w WeekKey) String() string { return w.Label }

// Less reports whether w precedes o chronologically.
func (w WeekKey) Less(o WeekKey) bool {
	if w.Ordinal != o.Ordinal {
		return w.Ordinal < o.Ordinal
	}
	return w.Label < o.Label
}

// SortWeeks orders weeks chronologically in place.
func SortWeeks(weeks []WeekKey) {
	sort.SliceStable(weeks, func(i, j int) bool { return weeks[i].Less(weeks[j]) })
}
