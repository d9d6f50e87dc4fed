package analytics

import (
	"strings"

	"github.com/okian/rosterlens/internal/domain/model"
)

// WeeklySummary returns the top n of every category for one week.
// Categories without a table that week are left out.
func (e *Engine) WeeklySummary(week string, n int) ([]CategoryLeaders, error) {
	if err := positive("n", n); err != nil {
		return nil, err
	}
	w, err := model.ParseWeekKey(week)
	if err != nil {
		return nil, err
	}

	var out []CategoryLeaders
	for _, c := range e.tables.Categories() {
		players, err := e.TopPerformers(c, w.Label, n)
		if model.IsEmpty(err) {
			continue
		}
		if err != nil {
			return nil, err
		}
		out = append(out, CategoryLeaders{Category: c, Players: players})
	}
	return nonEmpty(out, "no tables for %s", week)
}

// WeeklyLeaders returns the top n of a category for every week, in
// chronological order.
func (e *Engine) WeeklyLeaders(category model.Category, n int) ([]WeekLeaders, error) {
	if err := positive("n", n); err != nil {
		return nil, err
	}
	weekly, err := e.weeklyTables(category, e.tables.Weeks())
	if err != nil {
		return nil, err
	}

	var out []WeekLeaders
	for _, wt := range weekly {
		if wt.table.Len() == 0 {
			continue
		}
		out = append(out, WeekLeaders{Week: wt.week.Label, Players: top(wt.table, n)})
	}
	return nonEmpty(out, "no weekly rows for %s", category)
}

// WeeklySeries returns, for the season's top topN players, their points in
// every week, with 0 for weeks they do not appear in.
func (e *Engine) WeeklySeries(category model.Category, topN int) (*Series, error) {
	if err := positive("top_n", topN); err != nil {
		return nil, err
	}
	leaders, err := e.TopPerformers(category, "", topN)
	if err != nil {
		return nil, err
	}
	weekly, err := e.weeklyTables(category, e.tables.Weeks())
	if err != nil {
		return nil, err
	}

	s := &Series{Category: category}
	column := make(map[int]int, len(weekly))
	for i, wt := range weekly {
		s.Weeks = append(s.Weeks, wt.week.Label)
		column[wt.week.Ordinal] = i
	}
	for _, p := range leaders {
		line := SeriesLine{Player: p.Player, Points: make([]float64, len(weekly))}
		for _, o := range e.players.Lookup(category, model.BareName(p.Player)) {
			if i, ok := column[o.Week.Ordinal]; ok {
				line.Points[i] = o.Record.FantasyPoints
			}
		}
		s.Lines = append(s.Lines, line)
	}
	return s, nil
}

// SearchPlayers returns season rows in any category whose label contains
// term, ignoring case, by descending fantasy points.
func (e *Engine) SearchPlayers(term string) ([]SearchHit, error) {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return nil, model.InvalidArgument("search term is empty")
	}

	var hits []SearchHit
	for _, c := range e.tables.Categories() {
		t, ok := e.tables.Season(c)
		if !ok {
			continue
		}
		for _, r := range t.Records {
			if strings.Contains(strings.ToLower(r.Label), term) {
				hits = append(hits, SearchHit{Category: c, Performer: NewPerformer(r)})
			}
		}
	}
	sortDesc(hits, func(h SearchHit) float64 { return h.FantasyPoints })
	return nonEmpty(hits, "no player matches %q", term)
}

// WindowTotals aggregates each player's points over the given weeks. Players
// with a zero total are left out; rows are ordered by descending total.
func (e *Engine) WindowTotals(category model.Category, weeks []string) ([]WindowRow, error) {
	if len(weeks) == 0 {
		return nil, model.InvalidArgument("no weeks selected")
	}
	keys := make([]model.WeekKey, 0, len(weeks))
	for _, label := range weeks {
		w, err := model.ParseWeekKey(label)
		if err != nil {
			return nil, err
		}
		for _, known := range e.tables.Weeks() {
			if known.Ordinal == w.Ordinal {
				keys = append(keys, known)
				break
			}
		}
	}
	model.SortWeeks(keys)
	weekly, err := e.weeklyTables(category, dedupeWeeks(keys))
	if err != nil {
		return nil, err
	}

	type total struct {
		label  string
		points []float64
		games  int
	}
	var (
		order  []string
		totals = make(map[string]*total)
	)
	for _, wt := range weekly {
		for _, r := range wt.table.Records {
			key := e.players.Key(r.Label)
			t, ok := totals[key]
			if !ok {
				t = &total{}
				totals[key] = t
				order = append(order, key)
			}
			t.label = r.Label
			t.points = append(t.points, r.FantasyPoints)
			t.games += r.GamesPlayed
		}
	}

	var rows []WindowRow
	for _, key := range order {
		t := totals[key]
		s := summarize(t.points)
		if s.sum <= 0 {
			continue
		}
		rows = append(rows, WindowRow{
			Player:      t.label,
			TotalFPTS:   s.sum,
			AvgFPTS:     s.mean,
			GamesPlayed: t.games,
			WeeksPlayed: s.n,
		})
	}
	sortDesc(rows, func(r WindowRow) float64 { return r.TotalFPTS })
	return nonEmpty(rows, "no %s points in the selected weeks", category)
}

func dedupeWeeks(weeks []model.WeekKey) []model.WeekKey {
	var out []model.WeekKey
	for i, w := range weeks {
		if i > 0 && weeks[i-1].Ordinal == w.Ordinal {
			continue
		}
		out = append(out, w)
	}
	return out
}
