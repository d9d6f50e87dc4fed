// Package mcp exposes the analytics queries as Model Context Protocol tools
// served over streamable HTTP.
package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	repository "github.com/okian/rosterlens/internal/adapters/repository"
	"github.com/okian/rosterlens/internal/domain/analytics"
	"github.com/okian/rosterlens/internal/domain/model"
	"github.com/okian/rosterlens/pkg/logger"
	"github.com/okian/rosterlens/pkg/metrics"
)

// Server identity reported to MCP clients.
const (
	ServerName    = "rosterlens"
	ServerVersion = "1.0.0"
)

// Dependencies are the operations the tools call.
type Dependencies interface {
	TopPerformers(ctx context.Context, category model.Category, week string, n int) ([]analytics.Performer, error)
	Consistency(ctx context.Context, category model.Category, minGames int) ([]analytics.ConsistencyRow, error)
	Volatility(ctx context.Context, category model.Category, topN int) ([]analytics.VolatilityRow, error)
	Value(ctx context.Context, category model.Category, minGames int) ([]analytics.ValueRow, error)
	Breakout(ctx context.Context, category model.Category, threshold float64) ([]analytics.BreakoutRow, error)
	Trend(ctx context.Context, category model.Category, recentWeeks int) ([]analytics.TrendRow, error)
	WeeklySummary(ctx context.Context, week string, n int) ([]analytics.CategoryLeaders, error)
	WeeklyLeaders(ctx context.Context, category model.Category, n int) ([]analytics.WeekLeaders, error)
	WeeklySeries(ctx context.Context, category model.Category, topN int) (*analytics.Series, error)
	SearchPlayers(ctx context.Context, term string) ([]analytics.SearchHit, error)
	WindowTotals(ctx context.Context, category model.Category, weeks []string) ([]analytics.WindowRow, error)
	Weeks(ctx context.Context) ([]string, error)
	Reload(ctx context.Context) (repository.ReloadReport, error)
	Params() analytics.Params
}

// ToolInfo names a registered tool.
type ToolInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Server wraps an MCP server with the analytics tools registered.
type Server struct {
	server *mcp.Server
	deps   Dependencies
	tools  []ToolInfo
	log    logger.Logger
}

// Option applies a configuration option to the Server.
type Option func(*Server)

// WithLogger sets the logger used for tool failures.
func WithLogger(l logger.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.log = l
		}
	}
}

// NewServer creates the MCP server and registers every tool.
func NewServer(deps Dependencies, opts ...Option) *Server {
	s := &Server{
		server: mcp.NewServer(&mcp.Implementation{Name: ServerName, Version: ServerVersion}, nil),
		deps:   deps,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.log == nil {
		s.log = logger.Get()
	}
	s.registerTools()
	return s
}

// MCP returns the underlying protocol server.
func (s *Server) MCP() *mcp.Server { return s.server }

// Tools lists the registered tools in registration order.
func (s *Server) Tools() []ToolInfo { return s.tools }

// Handler serves the tools over streamable HTTP with JSON responses.
func (s *Server) Handler() http.Handler {
	return mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server {
		return s.server
	}, &mcp.StreamableHTTPOptions{JSONResponse: true})
}

// ToolsHandler lists the registered tools as JSON.
func (s *Server) ToolsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(s.tools)
	}
}

func addTool[T any](s *Server, tool *mcp.Tool, handler func(context.Context, *mcp.CallToolRequest, T) (*mcp.CallToolResult, any, error)) {
	s.tools = append(s.tools, ToolInfo{Name: tool.Name, Description: tool.Description})
	mcp.AddTool(s.server, tool, handler)
}

// emptyResult is what a tool returns when no player qualifies.
type emptyResult struct {
	Empty   bool   `json:"empty"`
	Message string `json:"message"`
}

// toolResult renders v as JSON text, maps err to an error result, and
// records the call outcome.
func (s *Server) toolResult(ctx context.Context, tool string, v any, err error) (*mcp.CallToolResult, any, error) {
	metrics.RecordToolCall(tool, outcome(err))
	switch {
	case err == nil:
	case model.IsEmpty(err):
		v = emptyResult{Empty: true, Message: err.Error()}
	default:
		if outcome(err) == metrics.OutcomeError {
			s.log.Warn(ctx, "tool call failed", logger.String("tool", tool), logger.Error(err))
		}
		return toolError(err), nil, nil
	}

	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return toolError(err), nil, nil
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: string(b)}},
	}, nil, nil
}

func toolError(err error) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{
			&mcp.TextContent{Text: fmt.Sprintf("error: %v", err)},
		},
	}
}

func outcome(err error) string {
	switch {
	case err == nil:
		return metrics.OutcomeOK
	case model.IsEmpty(err):
		return metrics.OutcomeEmpty
	case errors.Is(err, model.ErrInvalidArgument):
		return metrics.OutcomeInvalid
	default:
		return metrics.OutcomeError
	}
}
