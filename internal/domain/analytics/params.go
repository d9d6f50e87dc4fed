package analytics

// DefaultMaxLimit caps n-style parameters supplied by callers.
const DefaultMaxLimit = 100

// Params holds the values used when a caller omits a query parameter.
type Params struct {
	TopN              int     `json:"top_n"`
	MinGames          int     `json:"min_games"`
	ValueMinGames     int     `json:"value_min_games"`
	VolatilityTopN    int     `json:"volatility_top_n"`
	BreakoutThreshold float64 `json:"breakout_threshold"`
	TrendRecentWeeks  int     `json:"trend_recent_weeks"`
	SummaryN          int     `json:"summary_n"`
	LeadersN          int     `json:"leaders_n"`
	SeriesTopN        int     `json:"series_top_n"`
	MaxLimit          int     `json:"max_limit"`
}

// DefaultParams returns the built-in query defaults.
func DefaultParams() Params {
	return Params{
		TopN:              DefaultTopN,
		MinGames:          DefaultMinGames,
		ValueMinGames:     DefaultValueMinGames,
		VolatilityTopN:    DefaultVolatilityTopN,
		BreakoutThreshold: DefaultBreakoutThreshold,
		TrendRecentWeeks:  DefaultTrendRecentWeeks,
		SummaryN:          DefaultSummaryN,
		LeadersN:          DefaultLeadersN,
		SeriesTopN:        DefaultSeriesTopN,
		MaxLimit:          DefaultMaxLimit,
	}
}
