package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus metrics for the wellness tracker

var (
	// HTTP metrics
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tqr_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"route", "method", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "tqr_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route", "method"},
	)

	// Database metrics
	DBQueriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tqr_db_queries_total",
			Help: "Total number of database queries",
		},
		[]string{"operation", "table", "status"},
	)

	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "tqr_db_query_duration_seconds",
			Help:    "Duration of database queries in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation", "table"},
	)

	// Cache metrics
	CacheHitsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "tqr_cache_hits_total",
			Help: "Total number of token cache hits",
		},
	)

	CacheMissesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "tqr_cache_misses_total",
			Help: "Total number of token cache misses",
		},
	)

	// Sheets API metrics
	SheetAPICallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tqr_sheets_api_calls_total",
			Help: "Total number of Google Sheets API calls",
		},
		[]string{"operation", "status"},
	)

	SheetAPICallDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "tqr_sheets_api_call_duration_seconds",
			Help:    "Duration of Google Sheets API calls in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	// Sync metrics
	SyncOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tqr_sync_operations_total",
			Help: "Total number of spreadsheet sync operations",
		},
		[]string{"mode", "status"},
	)

	SyncDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "tqr_sync_duration_seconds",
			Help:    "Duration of spreadsheet sync operations in seconds",
			Buckets: []float64{0.5, 1, 2, 5, 10, 30, 60, 120},
		},
		[]string{"mode"},
	)

	LastSuccessfulSync = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "tqr_last_successful_sync_timestamp",
			Help: "Timestamp of last successful sync operation",
		},
	)

	// Domain metrics
	EntriesSubmitted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "tqr_entries_submitted_total",
			Help: "Total number of questionnaire submissions accepted",
		},
	)

	PlayersRegistered = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "tqr_players_registered",
			Help: "Number of players in the database",
		},
	)

	// Error metrics
	ErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tqr_errors_total",
			Help: "Total number of errors",
		},
		[]string{"component", "error_type"},
	)
)

// RecordHTTPRequest records an HTTP request metric
func RecordHTTPRequest(route, method, status string, duration float64) {
	HTTPRequestsTotal.WithLabelValues(route, method, status).Inc()
	HTTPRequestDuration.WithLabelValues(route, method).Observe(duration)
}

// RecordDBQuery records a database query metric
func RecordDBQuery(operation, table, status string, duration float64) {
	DBQueriesTotal.WithLabelValues(operation, table, status).Inc()
	DBQueryDuration.WithLabelValues(operation, table).Observe(duration)
}

// RecordCacheHit records a token cache hit
func RecordCacheHit() {
	CacheHitsTotal.Inc()
}

// RecordCacheMiss records a token cache miss
func RecordCacheMiss() {
	CacheMissesTotal.Inc()
}

// RecordSheetAPICall records a Google Sheets API call
func RecordSheetAPICall(operation, status string, duration float64) {
	SheetAPICallsTotal.WithLabelValues(operation, status).Inc()
	SheetAPICallDuration.WithLabelValues(operation).Observe(duration)
}

// RecordSync records a sync operation
func RecordSync(mode, status string, duration float64) {
	SyncOperationsTotal.WithLabelValues(mode, status).Inc()
	SyncDuration.WithLabelValues(mode).Observe(duration)

	if status == "success" {
		LastSuccessfulSync.SetToCurrentTime()
	}
}

// RecordEntrySubmitted records an accepted questionnaire submission
func RecordEntrySubmitted() {
	EntriesSubmitted.Inc()
}

// UpdatePlayerCount updates the registered-players gauge
func UpdatePlayerCount(count int) {
	PlayersRegistered.Set(float64(count))
}

// RecordError records an error
func RecordError(component, errorType string) {
	ErrorsTotal.WithLabelValues(component, errorType).Inc()
}
