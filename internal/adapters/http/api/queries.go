package api

import (
	"net/http"
	"strings"

	"github.com/okian/rosterlens/internal/domain/analytics"
	"github.com/okian/rosterlens/internal/domain/model"
)

// QueryHandler serves the analytics queries.
type QueryHandler struct {
	deps QueryDependencies
}

// NewQueryHandler creates a new query handler.
func NewQueryHandler(deps QueryDependencies) *QueryHandler {
	return &QueryHandler{deps: deps}
}

// tableView is the transport shape of a snapshot table.
type tableView struct {
	Scope   string                `json:"scope"`
	Source  string                `json:"source"`
	Columns []string              `json:"columns"`
	Rows    []analytics.Performer `json:"rows"`
}

func newTableView(t *model.Table) tableView {
	v := tableView{
		Scope:   t.Scope.String(),
		Source:  t.Source,
		Columns: t.Columns,
		Rows:    make([]analytics.Performer, len(t.Records)),
	}
	for i, r := range t.Records {
		v.Rows[i] = analytics.NewPerformer(r)
	}
	return v
}

// HandleTable handles GET /tables/{category}?week=.
func (h *QueryHandler) HandleTable(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_table"
	c, err := categoryParam(r)
	if err != nil {
		writeQueryError(w, op, err)
		return
	}
	t, err := h.deps.Table(r.Context(), r.URL.Query().Get("week"), c)
	if err != nil {
		writeQueryError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, queryResponse{Count: t.Len(), Data: newTableView(t)})
}

// HandleTop handles GET /top/{category}?week=&n=.
func (h *QueryHandler) HandleTop(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_top"
	p := h.deps.Params()
	c, err := categoryParam(r)
	if err != nil {
		writeQueryError(w, op, err)
		return
	}
	n, err := intParam(r, "n", p.TopN, p.MaxLimit)
	if err != nil {
		writeQueryError(w, op, err)
		return
	}
	rows, err := h.deps.TopPerformers(r.Context(), c, r.URL.Query().Get("week"), n)
	respond(w, op, rows, err)
}

// HandleConsistency handles GET /consistency/{category}?min_games=.
func (h *QueryHandler) HandleConsistency(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_consistency"
	c, err := categoryParam(r)
	if err != nil {
		writeQueryError(w, op, err)
		return
	}
	minGames, err := intParam(r, "min_games", h.deps.Params().MinGames, 0)
	if err != nil {
		writeQueryError(w, op, err)
		return
	}
	rows, err := h.deps.Consistency(r.Context(), c, minGames)
	respond(w, op, rows, err)
}

// HandleVolatility handles GET /volatility/{category}?top_n=.
func (h *QueryHandler) HandleVolatility(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_volatility"
	p := h.deps.Params()
	c, err := categoryParam(r)
	if err != nil {
		writeQueryError(w, op, err)
		return
	}
	topN, err := intParam(r, "top_n", p.VolatilityTopN, p.MaxLimit)
	if err != nil {
		writeQueryError(w, op, err)
		return
	}
	rows, err := h.deps.Volatility(r.Context(), c, topN)
	respond(w, op, rows, err)
}

// HandleValue handles GET /value/{category}?min_games=.
func (h *QueryHandler) HandleValue(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_value"
	c, err := categoryParam(r)
	if err != nil {
		writeQueryError(w, op, err)
		return
	}
	minGames, err := intParam(r, "min_games", h.deps.Params().ValueMinGames, 0)
	if err != nil {
		writeQueryError(w, op, err)
		return
	}
	rows, err := h.deps.Value(r.Context(), c, minGames)
	respond(w, op, rows, err)
}

// HandleBreakout handles GET /breakout/{category}?threshold=.
func (h *QueryHandler) HandleBreakout(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_breakout"
	c, err := categoryParam(r)
	if err != nil {
		writeQueryError(w, op, err)
		return
	}
	threshold, err := floatParam(r, "threshold", h.deps.Params().BreakoutThreshold)
	if err != nil {
		writeQueryError(w, op, err)
		return
	}
	rows, err := h.deps.Breakout(r.Context(), c, threshold)
	respond(w, op, rows, err)
}

// HandleTrend handles GET /trend/{category}?recent_weeks=.
func (h *QueryHandler) HandleTrend(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_trend"
	c, err := categoryParam(r)
	if err != nil {
		writeQueryError(w, op, err)
		return
	}
	recent, err := intParam(r, "recent_weeks", h.deps.Params().TrendRecentWeeks, 0)
	if err != nil {
		writeQueryError(w, op, err)
		return
	}
	rows, err := h.deps.Trend(r.Context(), c, recent)
	respond(w, op, rows, err)
}

// HandleLeaders handles GET /leaders/{category}?n=.
func (h *QueryHandler) HandleLeaders(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_leaders"
	p := h.deps.Params()
	c, err := categoryParam(r)
	if err != nil {
		writeQueryError(w, op, err)
		return
	}
	n, err := intParam(r, "n", p.LeadersN, p.MaxLimit)
	if err != nil {
		writeQueryError(w, op, err)
		return
	}
	rows, err := h.deps.WeeklyLeaders(r.Context(), c, n)
	respond(w, op, rows, err)
}

// HandleSeries handles GET /series/{category}?top_n=.
func (h *QueryHandler) HandleSeries(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_series"
	p := h.deps.Params()
	c, err := categoryParam(r)
	if err != nil {
		writeQueryError(w, op, err)
		return
	}
	topN, err := intParam(r, "top_n", p.SeriesTopN, p.MaxLimit)
	if err != nil {
		writeQueryError(w, op, err)
		return
	}
	series, err := h.deps.WeeklySeries(r.Context(), c, topN)
	if err != nil {
		writeQueryError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, queryResponse{Count: len(series.Lines), Data: series})
}

// HandleWindow handles GET /window/{category}?weeks=Week 1,Week 2.
func (h *QueryHandler) HandleWindow(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_window"
	c, err := categoryParam(r)
	if err != nil {
		writeQueryError(w, op, err)
		return
	}
	rows, err := h.deps.WindowTotals(r.Context(), c, listParam(r, "weeks"))
	respond(w, op, rows, err)
}

// HandleSummary handles GET /summary?week=&n=.
func (h *QueryHandler) HandleSummary(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_summary"
	p := h.deps.Params()
	week := strings.TrimSpace(r.URL.Query().Get("week"))
	if week == "" {
		writeQueryError(w, op, NewKind(op, ErrBadRequest))
		return
	}
	n, err := intParam(r, "n", p.SummaryN, p.MaxLimit)
	if err != nil {
		writeQueryError(w, op, err)
		return
	}
	rows, err := h.deps.WeeklySummary(r.Context(), week, n)
	respond(w, op, rows, err)
}

// HandleSearch handles GET /search?q=.
func (h *QueryHandler) HandleSearch(w http.ResponseWriter, r *http.Request) {
	const op = "api.search"
	rows, err := h.deps.SearchPlayers(r.Context(), r.URL.Query().Get("q"))
	respond(w, op, rows, err)
}

// HandleWeeks handles GET /weeks.
func (h *QueryHandler) HandleWeeks(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_weeks"
	weeks, err := h.deps.Weeks(r.Context())
	respond(w, op, weeks, err)
}

// HandleAmbiguities handles GET /ambiguities?category=.
func (h *QueryHandler) HandleAmbiguities(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_ambiguities"
	var c model.Category
	if raw := strings.TrimSpace(r.URL.Query().Get("category")); raw != "" {
		c = model.Category(strings.ToUpper(raw))
	}
	amb, err := h.deps.Ambiguities(r.Context(), c)
	respond(w, op, amb, err)
}
