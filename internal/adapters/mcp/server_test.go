package mcp_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"
	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/rosterlens/internal/adapters/mcp"
	repository "github.com/okian/rosterlens/internal/adapters/repository"
	"github.com/okian/rosterlens/internal/domain/analytics"
	"github.com/okian/rosterlens/internal/domain/model"
	"github.com/okian/rosterlens/pkg/logger"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

type fakeDeps struct {
	err error

	lastCategory model.Category
	lastWeek     string
	lastN        int
	lastFloat    float64
	lastWeeks    []string
}

func (f *fakeDeps) Params() analytics.Params { return analytics.DefaultParams() }

func (f *fakeDeps) TopPerformers(_ context.Context, c model.Category, week string, n int) ([]analytics.Performer, error) {
	f.lastCategory, f.lastWeek, f.lastN = c, week, n
	if f.err != nil {
		return nil, f.err
	}
	return []analytics.Performer{{Player: "Josh Allen (BUF)", FantasyPoints: 301.5}}, nil
}

func (f *fakeDeps) Consistency(_ context.Context, c model.Category, minGames int) ([]analytics.ConsistencyRow, error) {
	f.lastCategory, f.lastN = c, minGames
	return nil, f.err
}

func (f *fakeDeps) Volatility(_ context.Context, c model.Category, topN int) ([]analytics.VolatilityRow, error) {
	f.lastCategory, f.lastN = c, topN
	return nil, f.err
}

func (f *fakeDeps) Value(_ context.Context, c model.Category, minGames int) ([]analytics.ValueRow, error) {
	f.lastCategory, f.lastN = c, minGames
	return nil, f.err
}

func (f *fakeDeps) Breakout(_ context.Context, c model.Category, threshold float64) ([]analytics.BreakoutRow, error) {
	f.lastCategory, f.lastFloat = c, threshold
	return nil, f.err
}

func (f *fakeDeps) Trend(_ context.Context, c model.Category, recentWeeks int) ([]analytics.TrendRow, error) {
	f.lastCategory, f.lastN = c, recentWeeks
	return nil, f.err
}

func (f *fakeDeps) WeeklySummary(_ context.Context, week string, n int) ([]analytics.CategoryLeaders, error) {
	f.lastWeek, f.lastN = week, n
	return nil, f.err
}

func (f *fakeDeps) WeeklyLeaders(_ context.Context, c model.Category, n int) ([]analytics.WeekLeaders, error) {
	f.lastCategory, f.lastN = c, n
	return nil, f.err
}

func (f *fakeDeps) WeeklySeries(_ context.Context, c model.Category, topN int) (*analytics.Series, error) {
	f.lastCategory, f.lastN = c, topN
	return &analytics.Series{}, f.err
}

func (f *fakeDeps) SearchPlayers(_ context.Context, term string) ([]analytics.SearchHit, error) {
	f.lastWeek = term
	return nil, f.err
}

func (f *fakeDeps) WindowTotals(_ context.Context, c model.Category, weeks []string) ([]analytics.WindowRow, error) {
	f.lastCategory, f.lastWeeks = c, weeks
	return nil, f.err
}

func (f *fakeDeps) Weeks(context.Context) ([]string, error) {
	return []string{"Week 1", "Week 2"}, f.err
}

func (f *fakeDeps) Reload(context.Context) (repository.ReloadReport, error) {
	return repository.ReloadReport{Warnings: []string{"w"}}, f.err
}

func connect(ctx context.Context, s *mcp.Server) *sdk.ClientSession {
	serverT, clientT := sdk.NewInMemoryTransports()
	_, err := s.MCP().Connect(ctx, serverT, nil)
	So(err, ShouldBeNil)

	client := sdk.NewClient(&sdk.Implementation{Name: "test-client", Version: "v0.0.1"}, nil)
	cs, err := client.Connect(ctx, clientT, nil)
	So(err, ShouldBeNil)
	return cs
}

func call(ctx context.Context, cs *sdk.ClientSession, name string, args map[string]any) (*sdk.CallToolResult, string) {
	res, err := cs.CallTool(ctx, &sdk.CallToolParams{Name: name, Arguments: args})
	So(err, ShouldBeNil)
	So(res.Content, ShouldNotBeEmpty)
	text, ok := res.Content[0].(*sdk.TextContent)
	So(ok, ShouldBeTrue)
	return res, text.Text
}

func TestToolRegistry(t *testing.T) {
	Convey("Given a new MCP server", t, func() {
		s := mcp.NewServer(&fakeDeps{})

		Convey("Then every analytics tool is listed", func() {
			names := make([]string, 0, len(s.Tools()))
			for _, tool := range s.Tools() {
				names = append(names, tool.Name)
				So(tool.Description, ShouldNotBeEmpty)
			}
			So(names, ShouldResemble, []string{
				"top_performers", "consistency", "volatility", "value", "breakout", "trend",
				"weekly_summary", "weekly_leaders", "weekly_series", "search_players",
				"window_totals", "list_weeks", "reload_data",
			})
		})

		Convey("Then the HTTP handler is available", func() {
			So(s.Handler(), ShouldNotBeNil)
		})

		Convey("Then the tool listing is served as JSON", func() {
			w := httptest.NewRecorder()
			s.ToolsHandler()(w, httptest.NewRequest(http.MethodGet, "/mcp/tools", nil))

			var tools []mcp.ToolInfo
			So(json.Unmarshal(w.Body.Bytes(), &tools), ShouldBeNil)
			So(tools, ShouldHaveLength, 13)
			So(tools[0].Name, ShouldEqual, "top_performers")
		})
	})
}

func TestToolCalls(t *testing.T) {
	Convey("Given a connected client", t, func() {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		deps := &fakeDeps{}
		cs := connect(ctx, mcp.NewServer(deps))
		defer cs.Close()

		Convey("When listing tools over the protocol", func() {
			res, err := cs.ListTools(ctx, &sdk.ListToolsParams{})
			So(err, ShouldBeNil)
			So(len(res.Tools), ShouldEqual, 13)
		})

		Convey("When calling top_performers without n", func() {
			res, text := call(ctx, cs, "top_performers", map[string]any{"category": "qb", "week": "Week 2"})

			Convey("Then the default limit and parsed category are used", func() {
				So(res.IsError, ShouldBeFalse)
				So(deps.lastCategory, ShouldEqual, model.QB)
				So(deps.lastWeek, ShouldEqual, "Week 2")
				So(deps.lastN, ShouldEqual, analytics.DefaultParams().TopN)

				var rows []analytics.Performer
				So(json.Unmarshal([]byte(text), &rows), ShouldBeNil)
				So(rows, ShouldHaveLength, 1)
				So(rows[0].Player, ShouldEqual, "Josh Allen (BUF)")
			})
		})

		Convey("When an explicit zero min_games is passed", func() {
			res, _ := call(ctx, cs, "consistency", map[string]any{"category": "WR", "min_games": 0})
			So(res.IsError, ShouldBeFalse)
			So(deps.lastN, ShouldEqual, 0)
		})

		Convey("When breakout omits the threshold", func() {
			call(ctx, cs, "breakout", map[string]any{"category": "RB"})
			So(deps.lastFloat, ShouldEqual, analytics.DefaultParams().BreakoutThreshold)
		})

		Convey("When window_totals receives weeks", func() {
			call(ctx, cs, "window_totals", map[string]any{"category": "TE", "weeks": []string{"Week 1", "Week 3"}})
			So(deps.lastCategory, ShouldEqual, model.TE)
			So(deps.lastWeeks, ShouldResemble, []string{"Week 1", "Week 3"})
		})

		Convey("When the query has no qualifying players", func() {
			deps.err = model.ErrEmptyResult
			res, text := call(ctx, cs, "trend", map[string]any{"category": "QB"})

			Convey("Then the result is not an error and is marked empty", func() {
				So(res.IsError, ShouldBeFalse)
				So(text, ShouldContainSubstring, `"empty": true`)
			})
		})

		Convey("When the category is blank", func() {
			res, text := call(ctx, cs, "value", map[string]any{"category": " "})
			So(res.IsError, ShouldBeTrue)
			So(text, ShouldStartWith, "error:")
		})

		Convey("When the service fails", func() {
			deps.err = errors.New("boom")
			res, text := call(ctx, cs, "reload_data", map[string]any{})
			So(res.IsError, ShouldBeTrue)
			So(text, ShouldContainSubstring, "boom")
		})

		Convey("When listing weeks", func() {
			_, text := call(ctx, cs, "list_weeks", map[string]any{})
			So(text, ShouldContainSubstring, "Week 2")
		})
	})
}
