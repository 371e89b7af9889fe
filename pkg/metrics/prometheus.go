// Package metrics provides Prometheus metrics for the fplboard service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager manages all Prometheus metrics for the fplboard service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	registry         prometheus.Registerer

	// Data freshness
	refreshes          *prometheus.CounterVec
	refreshLatency     *prometheus.HistogramVec
	refreshDeduplicate prometheus.Counter
	upstreamLatency    *prometheus.HistogramVec
	datasetRecords     *prometheus.GaugeVec
	datasetFetchedUnix *prometheus.GaugeVec
	schedulerRuns      prometheus.Counter

	// Derived views
	classifications *prometheus.CounterVec
	viewRequests    *prometheus.CounterVec
	viewRows        *prometheus.HistogramVec

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Repository
	repositorySnapshots    prometheus.Gauge
	repositoryWriteLatency prometheus.Histogram
	repositoryQueryLatency prometheus.Histogram

	// Queue
	queueSize              prometheus.Gauge
	queueCapacity          prometheus.Gauge
	queueUtilization       prometheus.Gauge
	queueEnqueued          prometheus.Counter
	queueDequeued          prometheus.Counter
	queueEnqueueErrors     prometheus.Counter
	queueProcessingLatency prometheus.Histogram

	// Workers
	workerActiveCount       prometheus.Gauge
	workerProcessingLatency prometheus.Histogram
	workerErrors            prometheus.Counter

	// Errors
	errorsByComponent *prometheus.CounterVec
	errorsByEndpoint  *prometheus.CounterVec

	// System
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

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "fplboard",
		subsystem:        "dashboard",
		histogramBuckets: prometheus.DefBuckets,
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

func (m *Manager) counter(name, help string) prometheus.Counter {
	return promauto.With(m.registry).NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help,
	})
}

func (m *Manager) counterVec(name, help string, labels ...string) *prometheus.CounterVec {
	return promauto.With(m.registry).NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help,
	}, labels)
}

func (m *Manager) gauge(name, help string) prometheus.Gauge {
	return promauto.With(m.registry).NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help,
	})
}

func (m *Manager) gaugeVec(name, help string, labels ...string) *prometheus.GaugeVec {
	return promauto.With(m.registry).NewGaugeVec(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help,
	}, labels)
}

func (m *Manager) histogram(name, help string, buckets []float64) prometheus.Histogram {
	return promauto.With(m.registry).NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, Buckets: buckets,
	})
}

func (m *Manager) histogramVec(name, help string, buckets []float64, labels ...string) *prometheus.HistogramVec {
	return promauto.With(m.registry).NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, Buckets: buckets,
	}, labels)
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() { //nolint:funlen // long function required for comprehensive metrics initialization
	b := m.histogramBuckets

	m.refreshes = m.counterVec("refreshes_total", "Dataset refreshes by outcome", "dataset", "outcome")
	m.refreshLatency = m.histogramVec("refresh_latency_milliseconds", "End-to-end dataset refresh latency", b, "dataset")
	m.refreshDeduplicate = m.counter("refresh_deduplicated_total", "Refresh requests dropped because one was already pending")
	m.upstreamLatency = m.histogramVec("upstream_latency_milliseconds", "Analytics service request latency", b, "dataset")
	m.datasetRecords = m.gaugeVec("dataset_records", "Records in the latest snapshot of each dataset", "dataset")
	m.datasetFetchedUnix = m.gaugeVec("dataset_fetched_unixtime", "Unix time of the latest snapshot of each dataset", "dataset")
	m.schedulerRuns = m.counter("scheduler_runs_total", "Scheduled full refreshes triggered")

	m.classifications = m.counterVec("classifications_total", "Classifications by rule set and label", "rule_set", "label")
	m.viewRequests = m.counterVec("view_requests_total", "Table views served", "view")
	m.viewRows = m.histogramVec("view_rows", "Rows returned per table view", []float64{0, 5, 10, 20, 50, 100, 250, 500, 1000}, "view")

	m.httpRequests = m.counterVec("http_requests_total", "Total number of HTTP requests by endpoint and method", "endpoint", "method", "status_code")
	m.httpRequestDuration = m.histogramVec("http_request_duration_milliseconds", "HTTP request duration in milliseconds", b, "endpoint", "method", "status_code")

	m.repositorySnapshots = m.gauge("repository_snapshots", "Datasets with a stored snapshot")
	m.repositoryWriteLatency = m.histogram("repository_write_latency_milliseconds", "Snapshot write latency", b)
	m.repositoryQueryLatency = m.histogram("repository_query_latency_milliseconds", "Snapshot read latency", b)

	m.queueSize = m.gauge("queue_size", "Current size of the refresh queue")
	m.queueCapacity = m.gauge("queue_capacity", "Maximum capacity of the refresh queue")
	m.queueUtilization = m.gauge("queue_utilization_ratio", "Refresh queue utilization (0.0 to 1.0)")
	m.queueEnqueued = m.counter("queue_enqueue_total", "Refresh jobs enqueued")
	m.queueDequeued = m.counter("queue_dequeue_total", "Refresh jobs dequeued")
	m.queueEnqueueErrors = m.counter("queue_enqueue_errors_total", "Refresh jobs rejected by the queue")
	m.queueProcessingLatency = m.histogram("queue_processing_latency_milliseconds", "Enqueue latency", b)

	m.workerActiveCount = m.gauge("worker_active_count", "Refresh workers running")
	m.workerProcessingLatency = m.histogram("worker_processing_latency_milliseconds", "Refresh job processing latency", b)
	m.workerErrors = m.counter("worker_errors_total", "Refresh jobs that failed")

	m.errorsByComponent = m.counterVec("errors_by_component_total", "Errors by component and type", "component", "error_type")
	m.errorsByEndpoint = m.counterVec("errors_by_endpoint_total", "Errors by endpoint, method and type", "endpoint", "method", "error_type")

	m.systemMemoryUsage = m.gauge("system_memory_usage_bytes", "System memory usage in bytes")
	m.systemGoroutineCount = m.gauge("system_goroutine_count", "Number of goroutines")
	m.systemGCPauseTime = m.histogram("system_gc_pause_time_milliseconds", "GC pause time in milliseconds",
		[]float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000})
}

// RecordRefresh counts a refresh outcome ("ok", "error", "not_found").
func RecordRefresh(dataset, outcome string) {
	globalManager.refreshes.WithLabelValues(dataset, outcome).Inc()
}

// RecordRefreshLatency records refresh latency in milliseconds.
func RecordRefreshLatency(dataset string, latencyMs float64) {
	globalManager.refreshLatency.WithLabelValues(dataset).Observe(latencyMs)
}

// RecordRefreshDeduplicated counts a dropped duplicate refresh.
func RecordRefreshDeduplicated() {
	globalManager.refreshDeduplicate.Inc()
}

// RecordUpstreamLatency records analytics service latency in milliseconds.
func RecordUpstreamLatency(dataset string, latencyMs float64) {
	globalManager.upstreamLatency.WithLabelValues(dataset).Observe(latencyMs)
}

// UpdateDatasetRecords sets the record count of a dataset snapshot.
func UpdateDatasetRecords(dataset string, count int) {
	globalManager.datasetRecords.WithLabelValues(dataset).Set(float64(count))
}

// UpdateDatasetFetched sets the fetch time of a dataset snapshot.
func UpdateDatasetFetched(dataset string, unix int64) {
	globalManager.datasetFetchedUnix.WithLabelValues(dataset).Set(float64(unix))
}

// RecordSchedulerRun counts a scheduled refresh.
func RecordSchedulerRun() {
	globalManager.schedulerRuns.Inc()
}

// RecordClassification counts one classification result.
func RecordClassification(ruleSet, label string) {
	globalManager.classifications.WithLabelValues(ruleSet, label).Inc()
}

// RecordView counts a served table view and its row count.
func RecordView(view string, rows int) {
	globalManager.viewRequests.WithLabelValues(view).Inc()
	globalManager.viewRows.WithLabelValues(view).Observe(float64(rows))
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// UpdateRepositorySnapshots sets the number of stored snapshots.
func UpdateRepositorySnapshots(count int) {
	globalManager.repositorySnapshots.Set(float64(count))
}

// RecordRepositoryWriteLatency records snapshot write latency.
func RecordRepositoryWriteLatency(latencyMs float64) {
	globalManager.repositoryWriteLatency.Observe(latencyMs)
}

// RecordRepositoryQueryLatency records snapshot read latency.
func RecordRepositoryQueryLatency(latencyMs float64) {
	globalManager.repositoryQueryLatency.Observe(latencyMs)
}

// UpdateQueueSize sets the current queue size.
func UpdateQueueSize(size int) {
	globalManager.queueSize.Set(float64(size))
}

// UpdateQueueCapacity sets the maximum queue capacity.
func UpdateQueueCapacity(capacity int) {
	globalManager.queueCapacity.Set(float64(capacity))
}

// UpdateQueueUtilization sets the queue utilization ratio.
func UpdateQueueUtilization(utilization float64) {
	globalManager.queueUtilization.Set(utilization)
}

// RecordQueueEnqueue increments the enqueue counter.
func RecordQueueEnqueue() {
	globalManager.queueEnqueued.Inc()
}

// RecordQueueDequeue increments the dequeue counter.
func RecordQueueDequeue() {
	globalManager.queueDequeued.Inc()
}

// RecordQueueEnqueueError increments the enqueue error counter.
func RecordQueueEnqueueError() {
	globalManager.queueEnqueueErrors.Inc()
}

// RecordQueueProcessingLatency records queue processing latency.
func RecordQueueProcessingLatency(latencyMs float64) {
	globalManager.queueProcessingLatency.Observe(latencyMs)
}

// UpdateWorkerActiveCount sets the number of active workers.
func UpdateWorkerActiveCount(count int) {
	globalManager.workerActiveCount.Set(float64(count))
}

// RecordWorkerProcessingLatency records worker processing latency.
func RecordWorkerProcessingLatency(latencyMs float64) {
	globalManager.workerProcessingLatency.Observe(latencyMs)
}

// RecordWorkerError increments the worker error counter.
func RecordWorkerError() {
	globalManager.workerErrors.Inc()
}

// RecordErrorByComponent records an error with component and type labels.
func RecordErrorByComponent(component, errorType string) {
	globalManager.errorsByComponent.WithLabelValues(component, errorType).Inc()
}

// RecordErrorByEndpoint records an error with endpoint, method, and error type labels.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	globalManager.errorsByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
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
