package analytics

import "github.com/okian/rosterlens/internal/domain/model"

// Result rows. JSON field names are the stable column names consumers read.

// Performer is one source row as ranked by TopPerformers.
type Performer struct {
	Rank             *int     `json:"Rank,omitempty"`
	Player           string   `json:"Player"`
	FantasyPoints    float64  `json:"FPTS"`
	PointsPerGame    *float64 `json:"FPTS/G,omitempty"`
	GamesPlayed      int      `json:"G"`
	RosterPercentage *float64 `json:"ROST,omitempty"`
}

// NewPerformer converts a source record to its result row.
func NewPerformer(r model.Record) Performer {
	p := Performer{
		Rank:          r.Rank,
		Player:        r.Label,
		FantasyPoints: r.FantasyPoints,
		PointsPerGame: r.PointsPerGame,
		GamesPlayed:   r.GamesPlayed,
	}
	if r.RosterKnown {
		rost := r.RosterPercentage
		p.RosterPercentage = &rost
	}
	return p
}

// ConsistencyRow summarises a player's weekly output.
type ConsistencyRow struct {
	Player           string  `json:"Player"`
	GamesPlayed      int     `json:"Games_Played"`
	AvgFPTS          float64 `json:"Avg_FPTS"`
	StdFPTS          float64 `json:"Std_FPTS"`
	MinFPTS          float64 `json:"Min_FPTS"`
	MaxFPTS          float64 `json:"Max_FPTS"`
	ConsistencyScore float64 `json:"Consistency_Score"`
}

// VolatilityRow summarises how erratic a season top performer is.
type VolatilityRow struct {
	Player                 string  `json:"Player"`
	AvgFPTS                float64 `json:"Avg_FPTS"`
	StdFPTS                float64 `json:"Std_FPTS"`
	CoefficientOfVariation float64 `json:"Coefficient_of_Variation"`
	MinFPTS                float64 `json:"Min_FPTS"`
	MaxFPTS                float64 `json:"Max_FPTS"`
	GamesPlayed            int     `json:"Games_Played"`
}

// ValueRow relates per-game output to roster scarcity.
type ValueRow struct {
	Player           string  `json:"Player"`
	AvgFPTS          float64 `json:"Avg_FPTS"`
	RosterPercentage float64 `json:"Roster_Percentage"`
	ValueScore       float64 `json:"Value_Score"`
	GamesPlayed      int     `json:"Games_Played"`
}

// BreakoutRow compares season per-game output with the early-season baseline.
type BreakoutRow struct {
	Player            string  `json:"Player"`
	EarlyAvgFPTS      float64 `json:"Early_Avg_FPTS"`
	SeasonAvgFPTS     float64 `json:"Season_Avg_FPTS"`
	ImprovementFactor float64 `json:"Improvement_Factor"`
	GamesPlayed       int     `json:"Games_Played"`
}

// TrendRow compares the recent window with the weeks just before it.
type TrendRow struct {
	Player                string  `json:"Player"`
	EarlierAvgFPTS        float64 `json:"Earlier_Avg_FPTS"`
	RecentAvgFPTS         float64 `json:"Recent_Avg_FPTS"`
	ImprovementPercentage float64 `json:"Improvement_Percentage"`
	RecentGames           int     `json:"Recent_Games"`
}

// CategoryLeaders is the top of one category for one week.
type CategoryLeaders struct {
	Category model.Category `json:"category"`
	Players  []Performer    `json:"players"`
}

// WeekLeaders is the top of one week for one category.
type WeekLeaders struct {
	Week    string      `json:"week"`
	Players []Performer `json:"players"`
}

// SeriesLine is one player's points per week, 0 where absent.
type SeriesLine struct {
	Player string    `json:"Player"`
	Points []float64 `json:"points"`
}

// Series aligns SeriesLine points with Weeks.
type Series struct {
	Category model.Category `json:"category"`
	Weeks    []string       `json:"weeks"`
	Lines    []SeriesLine   `json:"lines"`
}

// SearchHit is a season row matching a search term.
type SearchHit struct {
	Category model.Category `json:"Category"`
	Performer
}

// WindowRow aggregates a player over a set of weeks. GamesPlayed sums the
// games column of the weekly rows; WeeksPlayed counts the weeks the player
// appears in.
type WindowRow struct {
	Player      string  `json:"Player"`
	TotalFPTS   float64 `json:"Total_FPTS"`
	AvgFPTS     float64 `json:"Avg_FPTS"`
	GamesPlayed int     `json:"Games_Played"`
	WeeksPlayed int     `json:"Weeks_Played"`
}
