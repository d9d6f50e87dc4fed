package api

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"slices"

	"github.com/wcharczuk/go-chart/v2"

	"github.com/okian/rosterlens/internal/domain/analytics"
	"github.com/okian/rosterlens/internal/domain/model"
)

// Chart geometry.
const (
	chartHeight     = 512
	chartMinWidth   = 640
	barWidth        = 48
	barSpacing      = 24
	chartPadding    = 96
	chartHeadroom   = 1.1
	seriesDotWidth  = 3
	seriesLineWidth = 2
)

// ChartDependencies are the queries the chart handlers render.
type ChartDependencies interface {
	TopPerformers(ctx context.Context, category model.Category, week string, n int) ([]analytics.Performer, error)
	WeeklySeries(ctx context.Context, category model.Category, topN int) (*analytics.Series, error)
	Params() analytics.Params
}

// ChartHandler renders query results as PNG images.
type ChartHandler struct {
	deps ChartDependencies
}

// NewChartHandler creates a new chart handler.
func NewChartHandler(deps ChartDependencies) *ChartHandler {
	return &ChartHandler{deps: deps}
}

// HandleTopChart handles GET /charts/top/{category}?week=&n= with a bar chart.
func (h *ChartHandler) HandleTopChart(w http.ResponseWriter, r *http.Request) {
	const op = "api.chart_top"
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
	week := r.URL.Query().Get("week")
	rows, err := h.deps.TopPerformers(r.Context(), c, week, n)
	if err != nil {
		writeQueryError(w, op, err)
		return
	}

	title := fmt.Sprintf("Top %d %s", len(rows), c)
	if week != "" {
		title += " - " + week
	}
	png, err := renderTopChart(title, rows)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "render_failed", WrapKind(op, ErrRender, err))
		return
	}
	writePNG(w, png)
}

// HandleSeriesChart handles GET /charts/series/{category}?top_n= with a line chart.
func (h *ChartHandler) HandleSeriesChart(w http.ResponseWriter, r *http.Request) {
	const op = "api.chart_series"
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
	png, err := renderSeriesChart(fmt.Sprintf("%s weekly points", c), series)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "render_failed", WrapKind(op, ErrRender, err))
		return
	}
	writePNG(w, png)
}

func writePNG(w http.ResponseWriter, b []byte) {
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(b)
}

// yRange spans [0, top*headroom]; a flat zero chart still gets a unit range.
func yRange(top float64) *chart.ContinuousRange {
	if top <= 0 {
		top = 1
	}
	return &chart.ContinuousRange{Min: 0, Max: top * chartHeadroom}
}

func renderTopChart(title string, rows []analytics.Performer) ([]byte, error) {
	bars := make([]chart.Value, len(rows))
	maxPts := 0.0
	for i, r := range rows {
		bars[i] = chart.Value{Label: model.BareName(r.Player), Value: r.FantasyPoints}
		maxPts = max(maxPts, r.FantasyPoints)
	}

	bc := chart.BarChart{
		Title:      title,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16}},
		Width:      max(chartMinWidth, len(bars)*(barWidth+barSpacing)+chartPadding),
		Height:     chartHeight,
		BarWidth:   barWidth,
		BarSpacing: barSpacing,
		YAxis:      chart.YAxis{Name: model.ColumnPoints, Range: yRange(maxPts)},
		Bars:       bars,
	}

	var buf bytes.Buffer
	if err := bc.Render(chart.PNG, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func renderSeriesChart(title string, s *analytics.Series) ([]byte, error) {
	xs := make([]float64, len(s.Weeks))
	ticks := make([]chart.Tick, len(s.Weeks))
	for i, w := range s.Weeks {
		xs[i] = float64(i + 1)
		ticks[i] = chart.Tick{Value: xs[i], Label: w}
	}
	// A single week still needs a non-zero x range.
	xMax := float64(max(len(s.Weeks), 2))

	maxPts := 0.0
	series := make([]chart.Series, 0, len(s.Lines))
	for _, l := range s.Lines {
		maxPts = max(maxPts, slices.Max(append([]float64{0}, l.Points...)))
		series = append(series, chart.ContinuousSeries{
			Name:    model.BareName(l.Player),
			XValues: xs,
			YValues: l.Points,
			Style:   chart.Style{StrokeWidth: seriesLineWidth, DotWidth: seriesDotWidth},
		})
	}

	ch := chart.Chart{
		Title:      title,
		Width:      max(chartMinWidth, len(s.Weeks)*barWidth*2+chartPadding),
		Height:     chartHeight,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16}},
		XAxis:      chart.XAxis{Name: "Week", Ticks: ticks, Range: &chart.ContinuousRange{Min: 1, Max: xMax}},
		YAxis:      chart.YAxis{Name: model.ColumnPoints, Range: yRange(maxPts)},
		Series:     series,
	}
	ch.Elements = []chart.Renderable{chart.Legend(&ch)}

	var buf bytes.Buffer
	if err := ch.Render(chart.PNG, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
