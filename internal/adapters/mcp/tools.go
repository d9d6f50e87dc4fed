package mcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/okian/rosterlens/internal/domain/model"
)

// Tool argument schemas. Optional numeric fields fall back to the service
// defaults when zero or absent.

// CategoryArgs selects a category.
type CategoryArgs struct {
	Category string `json:"category" jsonschema:"Player category such as QB, RB, WR or TE"`
}

// TopPerformersArgs is the input of top_performers.
type TopPerformersArgs struct {
	Category string `json:"category" jsonschema:"Player category such as QB, RB, WR or TE"`
	Week     string `json:"week,omitempty" jsonschema:"Week label such as Week 3; omit for the season table"`
	N        int    `json:"n,omitempty" jsonschema:"Number of players (default 10)"`
}

// MinGamesArgs is the input of consistency and value.
type MinGamesArgs struct {
	Category string `json:"category" jsonschema:"Player category such as QB, RB, WR or TE"`
	MinGames *int   `json:"min_games,omitempty" jsonschema:"Minimum games played (default 3 for consistency, 5 for value)"`
}

// TopNArgs is the input of volatility and weekly_series.
type TopNArgs struct {
	Category string `json:"category" jsonschema:"Player category such as QB, RB, WR or TE"`
	TopN     int    `json:"top_n,omitempty" jsonschema:"Number of season leaders to consider"`
}

// BreakoutArgs is the input of breakout.
type BreakoutArgs struct {
	Category  string   `json:"category" jsonschema:"Player category such as QB, RB, WR or TE"`
	Threshold *float64 `json:"threshold,omitempty" jsonschema:"Minimum improvement factor above 1 (default 0.5)"`
}

// TrendArgs is the input of trend.
type TrendArgs struct {
	Category    string `json:"category" jsonschema:"Player category such as QB, RB, WR or TE"`
	RecentWeeks int    `json:"recent_weeks,omitempty" jsonschema:"Size of the recent window (default 3)"`
}

// SummaryArgs is the input of weekly_summary.
type SummaryArgs struct {
	Week string `json:"week" jsonschema:"Week label such as Week 3"`
	N    int    `json:"n,omitempty" jsonschema:"Players per category (default 3)"`
}

// LeadersArgs is the input of weekly_leaders.
type LeadersArgs struct {
	Category string `json:"category" jsonschema:"Player category such as QB, RB, WR or TE"`
	N        int    `json:"n,omitempty" jsonschema:"Players per week (default 5)"`
}

// SearchArgs is the input of search_players.
type SearchArgs struct {
	Term string `json:"term" jsonschema:"Case-insensitive text to find in player labels"`
}

// WindowArgs is the input of window_totals.
type WindowArgs struct {
	Category string   `json:"category" jsonschema:"Player category such as QB, RB, WR or TE"`
	Weeks    []string `json:"weeks" jsonschema:"Week labels to aggregate"`
}

// NoArgs is the input of tools without parameters.
type NoArgs struct{}

func orDefault(v, def int) int {
	if v == 0 {
		return def
	}
	return v
}

func (s *Server) registerTools() {
	addTool(s, &mcp.Tool{
		Name:        "top_performers",
		Description: "Top players of a category by fantasy points, for the season or one week",
	}, func(ctx context.Context, _ *mcp.CallToolRequest, args TopPerformersArgs) (*mcp.CallToolResult, any, error) {
		c, err := model.ParseCategory(args.Category)
		if err != nil {
			return s.toolResult(ctx, "top_performers", nil, err)
		}
		rows, err := s.deps.TopPerformers(ctx, c, args.Week, orDefault(args.N, s.deps.Params().TopN))
		return s.toolResult(ctx, "top_performers", rows, err)
	})

	addTool(s, &mcp.Tool{
		Name:        "consistency",
		Description: "Players ranked by consistency score (weekly mean over standard deviation plus one)",
	}, func(ctx context.Context, _ *mcp.CallToolRequest, args MinGamesArgs) (*mcp.CallToolResult, any, error) {
		c, err := model.ParseCategory(args.Category)
		if err != nil {
			return s.toolResult(ctx, "consistency", nil, err)
		}
		minGames := s.deps.Params().MinGames
		if args.MinGames != nil {
			minGames = *args.MinGames
		}
		rows, err := s.deps.Consistency(ctx, c, minGames)
		return s.toolResult(ctx, "consistency", rows, err)
	})

	addTool(s, &mcp.Tool{
		Name:        "volatility",
		Description: "Season top performers ranked by coefficient of variation of their weekly points",
	}, func(ctx context.Context, _ *mcp.CallToolRequest, args TopNArgs) (*mcp.CallToolResult, any, error) {
		c, err := model.ParseCategory(args.Category)
		if err != nil {
			return s.toolResult(ctx, "volatility", nil, err)
		}
		rows, err := s.deps.Volatility(ctx, c, orDefault(args.TopN, s.deps.Params().VolatilityTopN))
		return s.toolResult(ctx, "volatility", rows, err)
	})

	addTool(s, &mcp.Tool{
		Name:        "value",
		Description: "Players ranked by points per game relative to roster percentage",
	}, func(ctx context.Context, _ *mcp.CallToolRequest, args MinGamesArgs) (*mcp.CallToolResult, any, error) {
		c, err := model.ParseCategory(args.Category)
		if err != nil {
			return s.toolResult(ctx, "value", nil, err)
		}
		minGames := s.deps.Params().ValueMinGames
		if args.MinGames != nil {
			minGames = *args.MinGames
		}
		rows, err := s.deps.Value(ctx, c, minGames)
		return s.toolResult(ctx, "value", rows, err)
	})

	addTool(s, &mcp.Tool{
		Name:        "breakout",
		Description: "Players whose season per-game average beats their weeks 1-3 average by the threshold",
	}, func(ctx context.Context, _ *mcp.CallToolRequest, args BreakoutArgs) (*mcp.CallToolResult, any, error) {
		c, err := model.ParseCategory(args.Category)
		if err != nil {
			return s.toolResult(ctx, "breakout", nil, err)
		}
		threshold := s.deps.Params().BreakoutThreshold
		if args.Threshold != nil {
			threshold = *args.Threshold
		}
		rows, err := s.deps.Breakout(ctx, c, threshold)
		return s.toolResult(ctx, "breakout", rows, err)
	})

	addTool(s, &mcp.Tool{
		Name:        "trend",
		Description: "Players whose recent weekly average is at least 20% above the preceding weeks",
	}, func(ctx context.Context, _ *mcp.CallToolRequest, args TrendArgs) (*mcp.CallToolResult, any, error) {
		c, err := model.ParseCategory(args.Category)
		if err != nil {
			return s.toolResult(ctx, "trend", nil, err)
		}
		rows, err := s.deps.Trend(ctx, c, orDefault(args.RecentWeeks, s.deps.Params().TrendRecentWeeks))
		return s.toolResult(ctx, "trend", rows, err)
	})

	addTool(s, &mcp.Tool{
		Name:        "weekly_summary",
		Description: "Top players of every category for one week",
	}, func(ctx context.Context, _ *mcp.CallToolRequest, args SummaryArgs) (*mcp.CallToolResult, any, error) {
		rows, err := s.deps.WeeklySummary(ctx, args.Week, orDefault(args.N, s.deps.Params().SummaryN))
		return s.toolResult(ctx, "weekly_summary", rows, err)
	})

	addTool(s, &mcp.Tool{
		Name:        "weekly_leaders",
		Description: "Top players of a category for every loaded week",
	}, func(ctx context.Context, _ *mcp.CallToolRequest, args LeadersArgs) (*mcp.CallToolResult, any, error) {
		c, err := model.ParseCategory(args.Category)
		if err != nil {
			return s.toolResult(ctx, "weekly_leaders", nil, err)
		}
		rows, err := s.deps.WeeklyLeaders(ctx, c, orDefault(args.N, s.deps.Params().LeadersN))
		return s.toolResult(ctx, "weekly_leaders", rows, err)
	})

	addTool(s, &mcp.Tool{
		Name:        "weekly_series",
		Description: "Weekly points of the season leaders of a category, 0 where a player is absent",
	}, func(ctx context.Context, _ *mcp.CallToolRequest, args TopNArgs) (*mcp.CallToolResult, any, error) {
		c, err := model.ParseCategory(args.Category)
		if err != nil {
			return s.toolResult(ctx, "weekly_series", nil, err)
		}
		series, err := s.deps.WeeklySeries(ctx, c, orDefault(args.TopN, s.deps.Params().SeriesTopN))
		return s.toolResult(ctx, "weekly_series", series, err)
	})

	addTool(s, &mcp.Tool{
		Name:        "search_players",
		Description: "Find season rows whose player label contains the term",
	}, func(ctx context.Context, _ *mcp.CallToolRequest, args SearchArgs) (*mcp.CallToolResult, any, error) {
		rows, err := s.deps.SearchPlayers(ctx, args.Term)
		return s.toolResult(ctx, "search_players", rows, err)
	})

	addTool(s, &mcp.Tool{
		Name:        "window_totals",
		Description: "Total and average points per player over the selected weeks",
	}, func(ctx context.Context, _ *mcp.CallToolRequest, args WindowArgs) (*mcp.CallToolResult, any, error) {
		c, err := model.ParseCategory(args.Category)
		if err != nil {
			return s.toolResult(ctx, "window_totals", nil, err)
		}
		rows, err := s.deps.WindowTotals(ctx, c, args.Weeks)
		return s.toolResult(ctx, "window_totals", rows, err)
	})

	addTool(s, &mcp.Tool{
		Name:        "list_weeks",
		Description: "Loaded week labels in chronological order",
	}, func(ctx context.Context, _ *mcp.CallToolRequest, _ NoArgs) (*mcp.CallToolResult, any, error) {
		weeks, err := s.deps.Weeks(ctx)
		return s.toolResult(ctx, "list_weeks", weeks, err)
	})

	addTool(s, &mcp.Tool{
		Name:        "reload_data",
		Description: "Re-read the data directory and swap in a new snapshot",
	}, func(ctx context.Context, _ *mcp.CallToolRequest, _ NoArgs) (*mcp.CallToolResult, any, error) {
		report, err := s.deps.Reload(ctx)
		return s.toolResult(ctx, "reload_data", report, err)
	})
}
