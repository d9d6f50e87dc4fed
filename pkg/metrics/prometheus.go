package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager manages all Prometheus metrics for the rosterlens service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	constLabels      map[string]string
	registry         prometheus.Registerer

	// Load Metrics - Reading exports from disk
	loadsTotal   *prometheus.CounterVec
	loadDuration *prometheus.HistogramVec
	loadWarnings *prometheus.CounterVec

	// Snapshot Metrics - What the current snapshot holds
	snapshotPublished   prometheus.Counter
	snapshotLastUnix    prometheus.Gauge
	snapshotTables      prometheus.Gauge
	snapshotRows        prometheus.Gauge
	snapshotWeeks       prometheus.Gauge
	identityAmbiguities prometheus.Gauge

	// Query Metrics - Analytics engine usage
	queriesTotal *prometheus.CounterVec
	queryLatency *prometheus.HistogramVec
	toolCalls    *prometheus.CounterVec

	// HTTP Performance Metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Error Metrics
	errorRateByComponent *prometheus.CounterVec
	errorRateByEndpoint  *prometheus.CounterVec

	// System Performance Metrics
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

// Initialize global metrics.
func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager and registers its collectors.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "rosterlens",
		subsystem:        "analytics",
		histogramBuckets: prometheus.DefBuckets,
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()
	return m
}

func (m *Manager) counterOpts(name, help string) prometheus.CounterOpts {
	return prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.constLabels,
	}
}

func (m *Manager) gaugeOpts(name, help string) prometheus.GaugeOpts {
	return prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.constLabels,
	}
}

func (m *Manager) histogramOpts(name, help string, buckets []float64) prometheus.HistogramOpts {
	return prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		Buckets:     buckets,
		ConstLabels: m.constLabels,
	}
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() { //nolint:funlen // long function required for comprehensive metrics initialization
	auto := promauto.With(m.registry)

	m.loadsTotal = auto.NewCounterVec(
		m.counterOpts("loads_total", "Total number of snapshot loads by kind and outcome"),
		[]string{"kind", "outcome"},
	)
	m.loadDuration = auto.NewHistogramVec(
		m.histogramOpts("load_duration_milliseconds", "Snapshot load duration in milliseconds", m.histogramBuckets),
		[]string{"kind"},
	)
	m.loadWarnings = auto.NewCounterVec(
		m.counterOpts("load_warnings_total", "Rows and files skipped while loading"),
		[]string{"kind"},
	)

	m.snapshotPublished = auto.NewCounter(m.counterOpts("snapshot_published_total", "Total number of snapshots published"))
	m.snapshotLastUnix = auto.NewGauge(m.gaugeOpts("snapshot_last_unix", "Unix timestamp of the last snapshot publish"))
	m.snapshotTables = auto.NewGauge(m.gaugeOpts("snapshot_tables", "Number of tables in the current snapshot"))
	m.snapshotRows = auto.NewGauge(m.gaugeOpts("snapshot_rows", "Number of player rows in the current snapshot"))
	m.snapshotWeeks = auto.NewGauge(m.gaugeOpts("snapshot_weeks", "Number of weeks in the current snapshot"))
	m.identityAmbiguities = auto.NewGauge(m.gaugeOpts("identity_ambiguities", "Weekly tables where a player name matched more than one row"))

	m.queriesTotal = auto.NewCounterVec(
		m.counterOpts("queries_total", "Total number of analytics queries by operation and outcome"),
		[]string{"operation", "outcome"},
	)
	m.queryLatency = auto.NewHistogramVec(
		m.histogramOpts("query_latency_milliseconds", "Analytics query latency in milliseconds", m.histogramBuckets),
		[]string{"operation"},
	)
	m.toolCalls = auto.NewCounterVec(
		m.counterOpts("mcp_tool_calls_total", "Total number of MCP tool calls by tool and outcome"),
		[]string{"tool", "outcome"},
	)

	m.httpRequests = auto.NewCounterVec(
		m.counterOpts("http_requests_total", "Total number of HTTP requests by endpoint and method"),
		[]string{"endpoint", "method", "status_code"},
	)
	m.httpRequestDuration = auto.NewHistogramVec(
		m.histogramOpts("http_request_duration_milliseconds", "HTTP request duration in milliseconds", m.histogramBuckets),
		[]string{"endpoint", "method", "status_code"},
	)

	m.errorRateByComponent = auto.NewCounterVec(
		m.counterOpts("errors_by_component_total", "Total number of errors by component"),
		[]string{"component", "error_type"},
	)
	m.errorRateByEndpoint = auto.NewCounterVec(
		m.counterOpts("errors_by_endpoint_total", "Total number of errors by endpoint"),
		[]string{"endpoint", "method", "error_type"},
	)

	m.systemMemoryUsage = auto.NewGauge(m.gaugeOpts("system_memory_usage_bytes", "System memory usage in bytes"))
	m.systemGoroutineCount = auto.NewGauge(m.gaugeOpts("system_goroutine_count", "Number of goroutines"))
	m.systemGCPauseTime = auto.NewHistogram(m.histogramOpts(
		"system_gc_pause_time_milliseconds",
		"GC pause time in milliseconds",
		[]float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000},
	))
}

// Load Metrics Functions.

// RecordLoad counts a snapshot load of kind (weekly or season) with its outcome.
func RecordLoad(kind, outcome string) {
	globalManager.loadsTotal.WithLabelValues(kind, outcome).Inc()
}

// RecordLoadDuration records how long a load took in milliseconds.
func RecordLoadDuration(kind string, durationMs float64) {
	globalManager.loadDuration.WithLabelValues(kind).Observe(durationMs)
}

// RecordLoadWarnings adds n skipped rows or files to the warning counter.
func RecordLoadWarnings(kind string, n int) {
	if n > 0 {
		globalManager.loadWarnings.WithLabelValues(kind).Add(float64(n))
	}
}

// Snapshot Metrics Functions.

// RecordSnapshotPublished counts a published snapshot and stamps its time.
func RecordSnapshotPublished(unix float64) {
	globalManager.snapshotPublished.Inc()
	globalManager.snapshotLastUnix.Set(unix)
}

// UpdateSnapshotSize sets the table, row and week gauges.
func UpdateSnapshotSize(tables, rows, weeks int) {
	globalManager.snapshotTables.Set(float64(tables))
	globalManager.snapshotRows.Set(float64(rows))
	globalManager.snapshotWeeks.Set(float64(weeks))
}

// UpdateIdentityAmbiguities sets the number of ambiguous name matches.
func UpdateIdentityAmbiguities(n int) {
	globalManager.identityAmbiguities.Set(float64(n))
}

// Query Metrics Functions.

// RecordQuery counts an analytics query with its outcome.
func RecordQuery(operation, outcome string) {
	globalManager.queriesTotal.WithLabelValues(operation, outcome).Inc()
}

// RecordQueryLatency records analytics query latency in milliseconds.
func RecordQueryLatency(operation string, latencyMs float64) {
	globalManager.queryLatency.WithLabelValues(operation).Observe(latencyMs)
}

// RecordToolCall counts an MCP tool invocation.
func RecordToolCall(tool, outcome string) {
	globalManager.toolCalls.WithLabelValues(tool, outcome).Inc()
}

// HTTP Metrics Functions.

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// Error Metrics Functions.

// RecordErrorByComponent records an error with component and type labels.
func RecordErrorByComponent(component, errorType string) {
	globalManager.errorRateByComponent.WithLabelValues(component, errorType).Inc()
}

// RecordErrorByEndpoint records an error with endpoint, method, and error type labels.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	globalManager.errorRateByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// System Performance Metrics Functions.

// UpdateSystemMemoryUsage sets the system memory usage in bytes.
func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the number of goroutines.
func UpdateSystemGoroutineCount(count int) {
	globalManager.systemGoroutineCount.Set(float64(count))
}

// RecordSystemGCPauseTime records GC pause time in milliseconds.
func RecordSystemGCPauseTime(pauseMs float64) {
	globalManager.systemGCPauseTime.Observe(pauseMs)
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
