// Package metrics provides Prometheus metrics for the Ladder personalization service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager manages all Prometheus metrics for the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	constLabels      prometheus.Labels
	registry         prometheus.Registerer

	// Personalization metrics
	behaviorsTracked    *prometheus.CounterVec
	behaviorsDuplicate  prometheus.Counter
	unknownActions      prometheus.Counter
	preferenceUpdates   prometheus.Counter
	scoringLatency      *prometheus.HistogramVec
	opportunitiesScored prometheus.Counter
	rankInvalidInput    prometheus.Counter
	snapshotRestores    *prometheus.CounterVec

	// Operational gauges
	activeSessions prometheus.Gauge
	catalogSize    prometheus.Gauge
	dedupeSize     prometheus.Gauge

	// Catalog latency
	catalogUpdateLatency prometheus.Histogram
	catalogQueryLatency  prometheus.Histogram

	// HTTP metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Error metrics
	errorRateByComponent *prometheus.CounterVec
	errorRateByType      *prometheus.CounterVec
	errorRateByEndpoint  *prometheus.CounterVec
	errorLatency         *prometheus.HistogramVec

	// System metrics
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager and registers its collectors.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "ladder",
		subsystem:        "personalization",
		histogramBuckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 25, 50, 100},
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) counter(name, help string) prometheus.CounterOpts {
	return prometheus.CounterOpts{Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels}
}

func (m *Manager) gauge(name, help string) prometheus.GaugeOpts {
	return prometheus.GaugeOpts{Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels}
}

func (m *Manager) histogram(name, help string, buckets []float64) prometheus.HistogramOpts {
	return prometheus.HistogramOpts{Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, Buckets: buckets, ConstLabels: m.constLabels}
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() { //nolint:funlen // long function required for comprehensive metrics initialization
	auto := promauto.With(m.registry)

	m.behaviorsTracked = auto.NewCounterVec(m.counter("behaviors_tracked_total", "Behavior events tracked, by action"), []string{"action"})
	m.behaviorsDuplicate = auto.NewCounter(m.counter("behaviors_duplicate_total", "Behavior posts skipped as retries of an already applied event"))
	m.unknownActions = auto.NewCounter(m.counter("behaviors_unknown_action_total", "Behavior events with an unrecognized action"))
	m.preferenceUpdates = auto.NewCounter(m.counter("preference_updates_total", "Explicit preference updates"))
	m.scoringLatency = auto.NewHistogramVec(m.histogram("scoring_latency_milliseconds", "Scoring latency in milliseconds by operation", m.histogramBuckets), []string{"operation"})
	m.opportunitiesScored = auto.NewCounter(m.counter("opportunities_scored_total", "Opportunities scored"))
	m.rankInvalidInput = auto.NewCounter(m.counter("rank_invalid_input_total", "Rank requests whose candidate list was missing or not a list"))
	m.snapshotRestores = auto.NewCounterVec(m.counter("snapshot_restores_total", "Snapshot restores by result"), []string{"result"})

	m.activeSessions = auto.NewGauge(m.gauge("active_sessions", "User sessions held in memory"))
	m.catalogSize = auto.NewGauge(m.gauge("catalog_size", "Opportunities in the catalog"))
	m.dedupeSize = auto.NewGauge(m.gauge("dedupe_size", "Idempotency keys remembered"))

	m.catalogUpdateLatency = auto.NewHistogram(m.histogram("catalog_update_latency_milliseconds", "Catalog write latency in milliseconds", m.histogramBuckets))
	m.catalogQueryLatency = auto.NewHistogram(m.histogram("catalog_query_latency_milliseconds", "Catalog read latency in milliseconds", m.histogramBuckets))

	m.httpRequests = auto.NewCounterVec(m.counter("http_requests_total", "Total number of HTTP requests by endpoint and method"), []string{"endpoint", "method", "status_code"})
	m.httpRequestDuration = auto.NewHistogramVec(m.histogram("http_request_duration_milliseconds", "HTTP request duration in milliseconds", m.histogramBuckets), []string{"endpoint", "method", "status_code"})

	m.errorRateByComponent = auto.NewCounterVec(m.counter("errors_by_component_total", "Total number of errors by component"), []string{"component", "error_type"})
	m.errorRateByType = auto.NewCounterVec(m.counter("errors_by_type_total", "Total number of errors by type"), []string{"error_type", "severity"})
	m.errorRateByEndpoint = auto.NewCounterVec(m.counter("errors_by_endpoint_total", "Total number of errors by endpoint"), []string{"endpoint", "method", "error_type"})
	m.errorLatency = auto.NewHistogramVec(m.histogram("error_latency_milliseconds", "Latency of operations that resulted in errors", m.histogramBuckets), []string{"component", "error_type"})

	m.systemMemoryUsage = auto.NewGauge(m.gauge("system_memory_usage_bytes", "System memory usage in bytes"))
	m.systemGoroutineCount = auto.NewGauge(m.gauge("system_goroutine_count", "Number of goroutines"))
	m.systemGCPauseTime = auto.NewHistogram(m.histogram("system_gc_pause_time_milliseconds", "GC pause time in milliseconds",
		[]float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000}))
}

// RecordBehaviorTracked counts a tracked behavior.
func RecordBehaviorTracked(action string) {
	globalManager.behaviorsTracked.WithLabelValues(action).Inc()
}

// RecordBehaviorDuplicate counts a retried behavior that was skipped.
func RecordBehaviorDuplicate() {
	globalManager.behaviorsDuplicate.Inc()
}

// RecordUnknownAction counts a behavior with an unrecognized action.
func RecordUnknownAction() {
	globalManager.unknownActions.Inc()
}

// RecordPreferenceUpdate counts an explicit preference update.
func RecordPreferenceUpdate() {
	globalManager.preferenceUpdates.Inc()
}

// RecordScoringLatency records scoring latency in milliseconds.
func RecordScoringLatency(operation string, latencyMs float64) {
	globalManager.scoringLatency.WithLabelValues(operation).Observe(latencyMs)
}

// RecordOpportunitiesScored adds n to the scored opportunities counter.
func RecordOpportunitiesScored(n int) {
	globalManager.opportunitiesScored.Add(float64(n))
}

// RecordRankInvalidInput counts a rank request without a candidate list.
func RecordRankInvalidInput() {
	globalManager.rankInvalidInput.Inc()
}

// RecordSnapshotRestore counts a restore attempt by result ("ok" or "invalid").
func RecordSnapshotRestore(result string) {
	globalManager.snapshotRestores.WithLabelValues(result).Inc()
}

// UpdateActiveSessions sets the session gauge.
func UpdateActiveSessions(n int) {
	globalManager.activeSessions.Set(float64(n))
}

// UpdateCatalogSize sets the catalog size gauge.
func UpdateCatalogSize(n int) {
	globalManager.catalogSize.Set(float64(n))
}

// UpdateDedupeSize sets the idempotency key gauge.
func UpdateDedupeSize(n int64) {
	globalManager.dedupeSize.Set(float64(n))
}

// RecordCatalogUpdateLatency records catalog write latency.
func RecordCatalogUpdateLatency(latencyMs float64) {
	globalManager.catalogUpdateLatency.Observe(latencyMs)
}

// RecordCatalogQueryLatency records catalog read latency.
func RecordCatalogQueryLatency(latencyMs float64) {
	globalManager.catalogQueryLatency.Observe(latencyMs)
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// RecordErrorByComponent records an error with component and type labels.
func RecordErrorByComponent(component, errorType string) {
	globalManager.errorRateByComponent.WithLabelValues(component, errorType).Inc()
}

// RecordErrorByType records an error with type and severity labels.
func RecordErrorByType(errorType, severity string) {
	globalManager.errorRateByType.WithLabelValues(errorType, severity).Inc()
}

// RecordErrorByEndpoint records an error with endpoint, method, and error type labels.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	globalManager.errorRateByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// RecordErrorLatency records the latency of an operation that resulted in an error.
func RecordErrorLatency(component, errorType string, latencyMs float64) {
	globalManager.errorLatency.WithLabelValues(component, errorType).Observe(latencyMs)
}

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
