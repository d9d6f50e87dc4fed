package analytics

import (
	"github.com/okian/rosterlens/internal/domain/model"
)

// TopPerformers returns at most n rows of the season table (week == "") or
// of a weekly table, by descending fantasy points. Ties keep table order.
func (e *Engine) TopPerformers(category model.Category, week string, n int) ([]Performer, error) {
	if err := positive("n", n); err != nil {
		return nil, err
	}

	var t *model.Table
	if week == "" {
		var err error
		if t, err = e.seasonTable(category); err != nil {
			return nil, err
		}
	} else {
		w, err := model.ParseWeekKey(week)
		if err != nil {
			return nil, err
		}
		var ok bool
		if t, ok = e.tables.Weekly(w, category); !ok {
			return nil, empty("no table for %s/%s", week, category)
		}
		if !t.HasColumn(model.ColumnPoints) {
			return nil, &model.MissingColumnError{Column: model.ColumnPoints, Scope: t.Scope}
		}
	}
	return nonEmpty(top(t, n), "%s has no rows", t.Scope)
}

// top ranks a table without copying more than it returns.
func top(t *model.Table, n int) []Performer {
	idx := make([]int, len(t.Records))
	for i := range idx {
		idx[i] = i
	}
	sortDesc(idx, func(i int) float64 { return t.Records[i].FantasyPoints })
	if len(idx) > n {
		idx = idx[:n]
	}
	out := make([]Performer, len(idx))
	for i, j := range idx {
		out[i] = NewPerformer(t.Records[j])
	}
	return out
}

// Consistency summarises every player with at least minGames weekly
// observations. Observations are grouped by player identity and the row is
// labelled with the most recent weekly label.
func (e *Engine) Consistency(category model.Category, minGames int) ([]ConsistencyRow, error) {
	if err := nonNegative("min_games", minGames); err != nil {
		return nil, err
	}
	weekly, err := e.weeklyTables(category, e.tables.Weeks())
	if err != nil {
		return nil, err
	}

	type group struct {
		label  string
		points []float64
	}
	var (
		order  []string
		groups = make(map[string]*group)
	)
	for _, wt := range weekly {
		seen := make(map[string]bool)
		for _, r := range wt.table.Records {
			key := e.players.Key(r.Label)
			if seen[key] {
				continue
			}
			seen[key] = true
			g, ok := groups[key]
			if !ok {
				g = &group{}
				groups[key] = g
				order = append(order, key)
			}
			g.label = r.Label
			g.points = append(g.points, r.FantasyPoints)
		}
	}

	var rows []ConsistencyRow
	for _, key := range order {
		g := groups[key]
		if len(g.points) < minGames {
			continue
		}
		s := summarize(g.points)
		rows = append(rows, ConsistencyRow{
			Player:           g.label,
			GamesPlayed:      s.n,
			AvgFPTS:          s.mean,
			StdFPTS:          s.std,
			MinFPTS:          s.min,
			MaxFPTS:          s.max,
			ConsistencyScore: s.mean / (s.std + 1),
		})
	}
	sortDesc(rows, func(r ConsistencyRow) float64 { return r.ConsistencyScore })
	return nonEmpty(rows, "no %s player has %d weekly games", category, minGames)
}

// Volatility ranks the season's top topN performers by coefficient of
// variation of their weekly points. Players with fewer than three weekly
// observations or a zero mean are left out.
func (e *Engine) Volatility(category model.Category, topN int) ([]VolatilityRow, error) {
	if err := positive("top_n", topN); err != nil {
		return nil, err
	}
	leaders, err := e.TopPerformers(category, "", topN)
	if err != nil {
		return nil, err
	}
	if _, err := e.weeklyTables(category, e.tables.Weeks()); err != nil {
		return nil, err
	}

	var rows []VolatilityRow
	for _, p := range leaders {
		obs := e.players.Lookup(category, model.BareName(p.Player))
		if len(obs) < volatilityMinGames {
			continue
		}
		s := summarize(model.Points(obs))
		if s.mean == 0 {
			continue
		}
		rows = append(rows, VolatilityRow{
			Player:                 p.Player,
			AvgFPTS:                s.mean,
			StdFPTS:                s.std,
			CoefficientOfVariation: s.std / s.mean,
			MinFPTS:                s.min,
			MaxFPTS:                s.max,
			GamesPlayed:            s.n,
		})
	}
	sortDesc(rows, func(r VolatilityRow) float64 { return r.CoefficientOfVariation })
	return nonEmpty(rows, "no %s top performer has %d weekly games", category, volatilityMinGames)
}

// Value scores season per-game output against roster percentage. Rows with
// fewer than minGames games, zero games, or a roster percentage that is zero
// or unparsable are left out.
func (e *Engine) Value(category model.Category, minGames int) ([]ValueRow, error) {
	if err := nonNegative("min_games", minGames); err != nil {
		return nil, err
	}
	t, err := e.seasonTable(category)
	if err != nil {
		return nil, err
	}

	var rows []ValueRow
	for _, r := range t.Records {
		if r.GamesPlayed < minGames || r.GamesPlayed == 0 {
			continue
		}
		if !r.RosterKnown || r.RosterPercentage <= 0 {
			continue
		}
		avg := r.FantasyPoints / float64(r.GamesPlayed)
		rows = append(rows, ValueRow{
			Player:           r.Label,
			AvgFPTS:          avg,
			RosterPercentage: r.RosterPercentage,
			ValueScore:       avg / r.RosterPercentage,
			GamesPlayed:      r.GamesPlayed,
		})
	}
	sortDesc(rows, func(r ValueRow) float64 { return r.ValueScore })
	return nonEmpty(rows, "no rostered %s player has %d games", category, minGames)
}

// Breakout finds season players whose per-game average exceeds their
// early-season average by more than threshold (0.5 means 50%). The early
// window is weeks 1 to 3, however many of them are present.
func (e *Engine) Breakout(category model.Category, threshold float64) ([]BreakoutRow, error) {
	if threshold < 0 {
		return nil, model.InvalidArgument("threshold must not be negative, got %g", threshold)
	}
	t, err := e.seasonTable(category)
	if err != nil {
		return nil, err
	}
	var early []model.WeekKey
	for _, w := range e.tables.Weeks() {
		if w.Ordinal >= 1 && w.Ordinal <= breakoutEarlyWeeks {
			early = append(early, w)
		}
	}
	if _, err := e.weeklyTables(category, early); err != nil {
		return nil, err
	}

	var rows []BreakoutRow
	for _, r := range t.Records {
		if r.GamesPlayed < breakoutMinGames {
			continue
		}
		var points []float64
		for _, o := range e.players.Lookup(category, r.Identity()) {
			if o.Week.Ordinal >= 1 && o.Week.Ordinal <= breakoutEarlyWeeks {
				points = append(points, o.Record.FantasyPoints)
			}
		}
		if len(points) < breakoutMinEarly {
			continue
		}
		earlyAvg := mean(points)
		seasonAvg := r.FantasyPoints / float64(r.GamesPlayed)
		if earlyAvg <= 0 || seasonAvg <= earlyAvg*(1+threshold) {
			continue
		}
		rows = append(rows, BreakoutRow{
			Player:            r.Label,
			EarlyAvgFPTS:      earlyAvg,
			SeasonAvgFPTS:     seasonAvg,
			ImprovementFactor: seasonAvg / earlyAvg,
			GamesPlayed:       r.GamesPlayed,
		})
	}
	sortDesc(rows, func(r BreakoutRow) float64 { return r.ImprovementFactor })
	return nonEmpty(rows, "no %s breakout above %g", category, threshold)
}

// Trend finds players whose average over the last recentWeeks weeks exceeds
// their average over the (up to three) weeks just before by more than 20%.
// Candidates are the players appearing in the recent window.
func (e *Engine) Trend(category model.Category, recentWeeks int) ([]TrendRow, error) {
	if err := positive("recent_weeks", recentWeeks); err != nil {
		return nil, err
	}
	weeks := e.tables.Weeks()
	split := max(0, len(weeks)-recentWeeks)
	recent, earlier := weeks[split:], weeks[max(0, split-trendEarlierWeeks):split]
	if len(earlier) == 0 {
		return nil, empty("no weeks precede the last %d", recentWeeks)
	}

	recentTables, err := e.weeklyTables(category, recent)
	if err != nil {
		return nil, err
	}
	if _, err := e.weeklyTables(category, earlier); err != nil {
		return nil, err
	}

	inRecent := ordinals(recent)
	inEarlier := ordinals(earlier)

	var (
		rows []TrendRow
		seen = make(map[string]bool)
	)
	for _, wt := range recentTables {
		for _, r := range wt.table.Records {
			key := e.players.Key(r.Label)
			if seen[key] {
				continue
			}
			seen[key] = true

			var recentPts, earlierPts []float64
			for _, o := range e.players.Lookup(category, r.Identity()) {
				switch {
				case inRecent[o.Week.Ordinal]:
					recentPts = append(recentPts, o.Record.FantasyPoints)
				case inEarlier[o.Week.Ordinal]:
					earlierPts = append(earlierPts, o.Record.FantasyPoints)
				}
			}
			if len(recentPts) < trendMinRecent || len(earlierPts) == 0 {
				continue
			}
			recentAvg, earlierAvg := mean(recentPts), mean(earlierPts)
			if earlierAvg <= 0 || recentAvg <= earlierAvg*trendFactor {
				continue
			}
			rows = append(rows, TrendRow{
				Player:                r.Label,
				EarlierAvgFPTS:        earlierAvg,
				RecentAvgFPTS:         recentAvg,
				ImprovementPercentage: (recentAvg - earlierAvg) / earlierAvg * 100,
				RecentGames:           len(recentPts),
			})
		}
	}
	sortDesc(rows, func(r TrendRow) float64 { return r.ImprovementPercentage })
	return nonEmpty(rows, "no %s player is trending up over the last %d weeks", category, recentWeeks)
}

func ordinals(weeks []model.WeekKey) map[int]bool {
	out := make(map[int]bool, len(weeks))
	for _, w := range weeks {
		out[w.Ordinal] = true
	}
	return out
}
