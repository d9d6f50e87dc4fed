// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/okian/rosterlens/internal/domain/analytics"
	"github.com/okian/rosterlens/internal/domain/identity"
	"github.com/okian/rosterlens/internal/domain/model"
)

// QueryDependencies are the read operations the query handlers call.
type QueryDependencies interface {
	Table(ctx context.Context, week string, category model.Category) (*model.Table, error)
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
	Ambiguities(ctx context.Context, category model.Category) ([]identity.Ambiguity, error)

	// Params supplies the values used for omitted query parameters.
	Params() analytics.Params
}

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	QueryDependencies
	Reloader
	StatsProvider
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler    *HealthHandler
	statsHandler     *StatsHandler
	queryHandler     *QueryHandler
	reloadHandler    *ReloadHandler
	chartHandler     *ChartHandler
	dashboardHandler *dashboardHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies) *Server {
	return &Server{
		healthHandler:    NewHealthHandler(),
		statsHandler:     NewStatsHandler(deps),
		queryHandler:     NewQueryHandler(deps),
		reloadHandler:    NewReloadHandler(deps),
		chartHandler:     NewChartHandler(deps),
		dashboardHandler: newDashboardHandler(),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	if mux == nil {
		panic("mux is nil")
	}
	q := s.queryHandler

	mux.HandleFunc("GET /healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("GET /stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("GET /dashboard", s.dashboardHandler.HandleDashboard)
	mux.HandleFunc("POST /reload", MetricsMiddleware(s.reloadHandler.HandleReload, "reload"))

	mux.HandleFunc("GET /tables/{category}", MetricsMiddleware(q.HandleTable, "tables"))
	mux.HandleFunc("GET /top/{category}", MetricsMiddleware(q.HandleTop, "top"))
	mux.HandleFunc("GET /consistency/{category}", MetricsMiddleware(q.HandleConsistency, "consistency"))
	mux.HandleFunc("GET /volatility/{category}", MetricsMiddleware(q.HandleVolatility, "volatility"))
	mux.HandleFunc("GET /value/{category}", MetricsMiddleware(q.HandleValue, "value"))
	mux.HandleFunc("GET /breakout/{category}", MetricsMiddleware(q.HandleBreakout, "breakout"))
	mux.HandleFunc("GET /trend/{category}", MetricsMiddleware(q.HandleTrend, "trend"))
	mux.HandleFunc("GET /leaders/{category}", MetricsMiddleware(q.HandleLeaders, "leaders"))
	mux.HandleFunc("GET /series/{category}", MetricsMiddleware(q.HandleSeries, "series"))
	mux.HandleFunc("GET /window/{category}", MetricsMiddleware(q.HandleWindow, "window"))
	mux.HandleFunc("GET /summary", MetricsMiddleware(q.HandleSummary, "summary"))
	mux.HandleFunc("GET /search", MetricsMiddleware(q.HandleSearch, "search"))
	mux.HandleFunc("GET /weeks", MetricsMiddleware(q.HandleWeeks, "weeks"))
	mux.HandleFunc("GET /ambiguities", MetricsMiddleware(q.HandleAmbiguities, "ambiguities"))

	mux.HandleFunc("GET /charts/top/{category}", MetricsMiddleware(s.chartHandler.HandleTopChart, "chart_top"))
	mux.HandleFunc("GET /charts/series/{category}", MetricsMiddleware(s.chartHandler.HandleSeriesChart, "chart_series"))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// queryResponse wraps every query result. An empty result is a normal
// outcome and is reported with Empty set and no data.
type queryResponse struct {
	Empty   bool   `json:"empty"`
	Count   int    `json:"count"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// writeQueryError maps domain error kinds to HTTP statuses.
func writeQueryError(w http.ResponseWriter, op string, err error) {
	switch {
	case model.IsEmpty(err):
		writeJSON(w, http.StatusOK, queryResponse{Empty: true, Message: err.Error(), Data: []any{}})
	case errors.Is(err, model.ErrInvalidArgument), errors.Is(err, ErrBadRequest):
		writeError(w, http.StatusBadRequest, "bad_request", Wrap(op, err))
	case errors.Is(err, ErrLimitExceeded):
		writeError(w, http.StatusBadRequest, "limit_exceeded", Wrap(op, err))
	case errors.Is(err, model.ErrMissingColumn):
		writeError(w, http.StatusUnprocessableEntity, "missing_column", Wrap(op, err))
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
	}
}

// respond writes rows, or the error they came with.
func respond[T any](w http.ResponseWriter, op string, rows []T, err error) {
	if err != nil {
		writeQueryError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, queryResponse{Count: len(rows), Data: rows})
}
