package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"
)

const (
	namespace = "barangay_projects"
)

// Metrics holds all application metrics
type Metrics struct {
	// HTTP metrics
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	// Database metrics
	DBConnectionsOpen        prometheus.Gauge
	DBConnectionsInUse       prometheus.Gauge
	DBConnectionsIdle        prometheus.Gauge
	DBConnectionsMax         prometheus.Gauge
	DBConnectionWaitTotal    prometheus.Counter
	DBConnectionWaitDuration prometheus.Counter
	DBQueryDuration          *prometheus.HistogramVec
	DBQueryErrors            *prometheus.CounterVec

	// Object store metrics
	ObjectStoreRequestDuration *prometheus.HistogramVec
	ObjectStoreRequestsTotal   *prometheus.CounterVec
	ObjectStoreErrors          *prometheus.CounterVec

	// Business metrics
	ProjectsTotal         prometheus.Gauge
	UpdatesTotal          prometheus.Gauge
	MediaTotal            prometheus.Gauge
	ProjectCreatedTotal   prometheus.Counter
	UpdateCreatedTotal    prometheus.Counter
	MediaStoredTotal      *prometheus.CounterVec
	MediaCleanupFailures  *prometheus.CounterVec
	TransactionRollbacks  *prometheus.CounterVec
	StagedFilesSweptTotal prometheus.Counter

	dbStatsMu        sync.Mutex
	lastWaitCount    int64
	lastWaitDuration time.Duration

	logger *zap.Logger
}

// New creates and registers all metrics with the default registry
func New(logger *zap.Logger) *Metrics {
	return NewWithRegistry(prometheus.DefaultRegisterer, logger)
}

// NewWithRegistry creates and registers all metrics with a custom registry
func NewWithRegistry(registerer prometheus.Registerer, logger *zap.Logger) *Metrics {
	factory := promauto.With(registerer)
	if logger == nil {
		logger = zap.NewNop()
	}

	counter := func(name, help string) prometheus.Counter {
		return factory.NewCounter(prometheus.CounterOpts{Namespace: namespace, Name: name, Help: help})
	}
	counterVec := func(name, help string, labels ...string) *prometheus.CounterVec {
		return factory.NewCounterVec(prometheus.CounterOpts{Namespace: namespace, Name: name, Help: help}, labels)
	}
	gauge := func(name, help string) prometheus.Gauge {
		return factory.NewGauge(prometheus.GaugeOpts{Namespace: namespace, Name: name, Help: help})
	}
	histogramVec := func(name, help string, buckets []float64, labels ...string) *prometheus.HistogramVec {
		return factory.NewHistogramVec(prometheus.HistogramOpts{Namespace: namespace, Name: name, Help: help, Buckets: buckets}, labels)
	}

	return &Metrics{
		HTTPRequestsTotal: counterVec("http_requests_total",
			"Total number of HTTP requests", "method", "endpoint", "status"),
		HTTPRequestDuration: histogramVec("http_request_duration_seconds",
			"HTTP request duration in seconds",
			[]float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10}, "method", "endpoint"),

		DBConnectionsOpen:  gauge("db_connections_open", "Current number of open database connections"),
		DBConnectionsInUse: gauge("db_connections_in_use", "Current number of in-use database connections"),
		DBConnectionsIdle:  gauge("db_connections_idle", "Current number of idle database connections"),
		DBConnectionsMax:   gauge("db_connections_max", "Maximum number of open database connections configured"),
		DBConnectionWaitTotal: counter("db_connection_wait_total",
			"Total number of times waited for a database connection"),
		DBConnectionWaitDuration: counter("db_connection_wait_duration_seconds_total",
			"Total duration waited for database connections in seconds"),
		DBQueryDuration: histogramVec("db_query_duration_seconds",
			"Database query duration in seconds",
			[]float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5}, "operation", "table"),
		DBQueryErrors: counterVec("db_query_errors_total",
			"Total number of database query errors", "operation", "table"),

		ObjectStoreRequestDuration: histogramVec("object_store_request_duration_seconds",
			"Object store request duration in seconds",
			[]float64{.01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10}, "operation"),
		ObjectStoreRequestsTotal: counterVec("object_store_requests_total",
			"Total number of object store requests, by outcome", "operation", "outcome"),
		ObjectStoreErrors: counterVec("object_store_errors_total",
			"Total number of failed object store requests", "operation", "error_type"),

		ProjectsTotal:       gauge("projects_total", "Total number of projects"),
		UpdatesTotal:        gauge("updates_total", "Total number of project updates"),
		MediaTotal:          gauge("media_total", "Total number of media records"),
		ProjectCreatedTotal: counter("project_created_total", "Total number of project creation events"),
		UpdateCreatedTotal:  counter("update_created_total", "Total number of update creation events"),
		MediaStoredTotal: counterVec("media_stored_total",
			"Total number of media files stored, by backend", "backend"),
		MediaCleanupFailures: counterVec("media_cleanup_failures_total",
			"Total number of media files that could not be removed from storage", "backend"),
		TransactionRollbacks: counterVec("transaction_rollbacks_total",
			"Total number of rolled back transactions, by operation", "operation"),
		StagedFilesSweptTotal: counter("staged_files_swept_total",
			"Total number of abandoned staged uploads removed"),

		logger: logger,
	}
}

// safeExecute wraps metric operations with panic recovery
func (m *Metrics) safeExecute(operation string, fn func()) {
	if m == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			m.logger.Error("Panic in metrics operation",
				zap.String("operation", operation),
				zap.Any("panic", r),
			)
		}
	}()
	fn()
}
