// Package metrics provides Prometheus metrics for the teamforge service.
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Validation failure kinds accepted by RecordValidationFailure. Keeping the
// set closed bounds label cardinality.
const (
	KindEmptyRoster   = "empty_roster"
	KindNotDivisible  = "not_divisible"
	KindInvalidRating = "invalid_rating"
	KindDuplicateID   = "duplicate_id"
	KindRunCount      = "run_count"
	KindBadRequest    = "bad_request"
)

var validationKinds = map[string]struct{}{ //nolint:gochecknoglobals // closed label set
	KindEmptyRoster:   {},
	KindNotDivisible:  {},
	KindInvalidRating: {},
	KindDuplicateID:   {},
	KindRunCount:      {},
	KindBadRequest:    {},
}

// Manager manages all Prometheus metrics for the teamforge service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	constLabels      map[string]string
	registry         prometheus.Registerer

	// Balancing
	balanceRequests        prometheus.Counter
	validationFailures     *prometheus.CounterVec
	optimizationDuration   prometheus.Histogram
	optimizationRuns       prometheus.Histogram
	optimizationIterations prometheus.Counter
	optimizationSpread     prometheus.Histogram
	optimizationTruncated  prometheus.Counter
	optimizationTimeouts   prometheus.Counter
	internalFaults         prometheus.Counter

	// Assignment store
	storeReplaceLatency prometheus.Histogram
	storeQueryLatency   prometheus.Histogram
	storedScopes        prometheus.Gauge

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	httpRateLimited     *prometheus.CounterVec

	// Errors
	errorRateByComponent *prometheus.CounterVec
	errorRateByType      *prometheus.CounterVec
	errorRateByEndpoint  *prometheus.CounterVec

	// System
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

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "teamforge",
		subsystem:        "balancer",
		histogramBuckets: prometheus.DefBuckets,
		constLabels:      map[string]string{},
		registry:         prometheus.DefaultRegisterer,
	}

	// Apply all options
	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

func (m *Manager) counterOpts(name, help string) prometheus.CounterOpts {
	return prometheus.CounterOpts{Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels}
}

func (m *Manager) gaugeOpts(name, help string) prometheus.GaugeOpts {
	return prometheus.GaugeOpts{Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels}
}

func (m *Manager) histogramOpts(name, help string, buckets []float64) prometheus.HistogramOpts {
	return prometheus.HistogramOpts{Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, Buckets: buckets, ConstLabels: m.constLabels}
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() { //nolint:funlen // long function required for comprehensive metrics initialization
	auto := promauto.With(m.registry)

	m.balanceRequests = auto.NewCounter(m.counterOpts("balance_requests_total",
		"Total number of team generation requests"))
	m.validationFailures = auto.NewCounterVec(m.counterOpts("validation_failures_total",
		"Rosters rejected before optimization, by failure kind"), []string{"kind"})
	m.optimizationDuration = auto.NewHistogram(m.histogramOpts("optimization_duration_milliseconds",
		"Wall-clock duration of one optimization call in milliseconds",
		[]float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 2000, 5000}))
	m.optimizationRuns = auto.NewHistogram(m.histogramOpts("optimization_runs_executed",
		"Number of runs executed per optimization call",
		[]float64{1, 10, 50, 100, 200, 300, 500, 1000}))
	m.optimizationIterations = auto.NewCounter(m.counterOpts("optimization_swap_attempts_total",
		"Total swap attempts across all runs"))
	m.optimizationSpread = auto.NewHistogram(m.histogramOpts("optimization_spread",
		"Spread between strongest and weakest team of returned partitions",
		[]float64{0, 0.5, 1, 2, 5, 10, 25, 50, 100, 250}))
	m.optimizationTruncated = auto.NewCounter(m.counterOpts("optimization_truncated_total",
		"Optimizations that stopped at their deadline and returned a partial result"))
	m.optimizationTimeouts = auto.NewCounter(m.counterOpts("optimization_timeouts_total",
		"Optimizations rejected for exceeding their time budget"))
	m.internalFaults = auto.NewCounter(m.counterOpts("internal_faults_total",
		"Invariant violations detected after optimization"))

	m.storeReplaceLatency = auto.NewHistogram(m.histogramOpts("store_replace_latency_milliseconds",
		"Assignment store replace latency in milliseconds", m.histogramBuckets))
	m.storeQueryLatency = auto.NewHistogram(m.histogramOpts("store_query_latency_milliseconds",
		"Assignment store query latency in milliseconds", m.histogramBuckets))
	m.storedScopes = auto.NewGauge(m.gaugeOpts("stored_scopes",
		"Tournament scopes with a stored team assignment"))

	m.httpRequests = auto.NewCounterVec(m.counterOpts("http_requests_total",
		"Total number of HTTP requests by endpoint and method"), []string{"endpoint", "method", "status_code"})
	m.httpRequestDuration = auto.NewHistogramVec(m.histogramOpts("http_request_duration_milliseconds",
		"HTTP request duration in milliseconds", m.histogramBuckets), []string{"endpoint", "method", "status_code"})
	m.httpRateLimited = auto.NewCounterVec(m.counterOpts("http_rate_limited_total",
		"Requests rejected by the rate limiter"), []string{"endpoint"})

	m.errorRateByComponent = auto.NewCounterVec(m.counterOpts("errors_by_component_total",
		"Errors by component and error type"), []string{"component", "error_type"})
	m.errorRateByType = auto.NewCounterVec(m.counterOpts("errors_by_type_total",
		"Errors by type and severity"), []string{"error_type", "severity"})
	m.errorRateByEndpoint = auto.NewCounterVec(m.counterOpts("errors_by_endpoint_total",
		"Errors by endpoint, method and error type"), []string{"endpoint", "method", "error_type"})

	m.systemMemoryUsage = auto.NewGauge(m.gaugeOpts("system_memory_usage_bytes",
		"System memory usage in bytes"))
	m.systemGoroutineCount = auto.NewGauge(m.gaugeOpts("system_goroutine_count",
		"Number of goroutines"))
	m.systemGCPauseTime = auto.NewHistogram(m.histogramOpts("system_gc_pause_time_milliseconds",
		"GC pause time in milliseconds", []float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000}))
}

// Balancing Metrics Functions.

// RecordBalanceRequest increments the balance request counter.
func RecordBalanceRequest() {
	globalManager.balanceRequests.Inc()
}

// RecordValidationFailure counts a rejected roster. kind must be one of the
// Kind* constants.
func RecordValidationFailure(kind string) error {
	if _, ok := validationKinds[kind]; !ok {
		return fmt.Errorf("%w: %q", ErrUnknownValidationKind, kind)
	}
	globalManager.validationFailures.WithLabelValues(kind).Inc()
	return nil
}

// RecordOptimization records the outcome of one optimization call.
func RecordOptimization(durationMs float64, runsExecuted, iterations int, spread float64, truncated bool) {
	globalManager.optimizationDuration.Observe(durationMs)
	globalManager.optimizationRuns.Observe(float64(runsExecuted))
	globalManager.optimizationIterations.Add(float64(iterations))
	globalManager.optimizationSpread.Observe(spread)
	if truncated {
		globalManager.optimizationTruncated.Inc()
	}
}

// RecordOptimizationTimeout increments the timeout counter.
func RecordOptimizationTimeout() {
	globalManager.optimizationTimeouts.Inc()
}

// RecordInternalFault increments the internal fault counter.
func RecordInternalFault() {
	globalManager.internalFaults.Inc()
}

// Store Metrics Functions.

// RecordStoreReplaceLatency records assignment store replace latency.
func RecordStoreReplaceLatency(latencyMs float64) {
	globalManager.storeReplaceLatency.Observe(latencyMs)
}

// RecordStoreQueryLatency records assignment store query latency.
func RecordStoreQueryLatency(latencyMs float64) {
	globalManager.storeQueryLatency.Observe(latencyMs)
}

// UpdateStoredScopes sets the number of stored tournament scopes.
func UpdateStoredScopes(count int) {
	globalManager.storedScopes.Set(float64(count))
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

// RecordRateLimited counts a request rejected by the rate limiter.
func RecordRateLimited(endpoint string) {
	globalManager.httpRateLimited.WithLabelValues(endpoint).Inc()
}

// Error Metrics Functions.

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
