package metrics

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

const (
	metricPrefix = "energia_"

	resultSuccess  = "success"
	resultError    = "error"
	resultNotFound = "not_found"
	resultRejected = "rejected"
)

var (
	registerOnce sync.Once

	httpRequests *prometheus.CounterVec
	httpLatency  *prometheus.HistogramVec

	clientOperations *prometheus.CounterVec

	invoiceCreateTotal   *prometheus.CounterVec
	invoiceCreateLatency *prometheus.HistogramVec

	dashboardTotal   *prometheus.CounterVec
	dashboardLatency *prometheus.HistogramVec

	exportTotal   *prometheus.CounterVec
	exportLatency *prometheus.HistogramVec
)

// RowCounter reports the number of stored rows of one table.
type RowCounter interface {
	Count(ctx context.Context) (int64, error)
}

// Init registers the service metrics and the row-count gauges.
// Gauges are skipped for nil counters.
func Init(clientRows, invoiceRows RowCounter, logger *zap.Logger) {
	registerOnce.Do(func() {
		httpRequests = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "http_requests_total",
				Help: "Total HTTP requests by route, method and status",
			},
			[]string{"route", "method", "status"},
		)
		httpLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "http_request_duration_seconds",
				Help:    "HTTP request latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"route", "method"},
		)

		clientOperations = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "client_operations_total",
				Help: "Total client registry operations by operation and result",
			},
			[]string{"operation", "result"},
		)

		invoiceCreateTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "invoice_create_total",
				Help: "Total invoice create operations by result",
			},
			[]string{"result"},
		)
		invoiceCreateLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "invoice_create_latency_seconds",
				Help:    "Invoice create latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"result"},
		)

		dashboardTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "dashboard_summary_total",
				Help: "Total dashboard summary computations by result",
			},
			[]string{"result"},
		)
		dashboardLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "dashboard_summary_latency_seconds",
				Help:    "Dashboard summary latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"result"},
		)

		exportTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "export_total",
				Help: "Total document exports by format and result",
			},
			[]string{"format", "result"},
		)
		exportLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "export_latency_seconds",
				Help:    "Document export latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"format", "result"},
		)

		prometheus.MustRegister(
			httpRequests,
			httpLatency,
			clientOperations,
			invoiceCreateTotal,
			invoiceCreateLatency,
			dashboardTotal,
			dashboardLatency,
			exportTotal,
			exportLatency,
		)

		registerRowGauges(clientRows, invoiceRows, logger)
	})
}

// ObserveHTTP records one served request.
func ObserveHTTP(route, method string, status int, duration time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	if httpRequests != nil {
		httpRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	}
	if httpLatency != nil {
		httpLatency.WithLabelValues(route, method).Observe(duration.Seconds())
	}
}

// IncClientOperation counts a client registry operation.
func IncClientOperation(operation, result string) {
	if operation == "" {
		operation = "unknown"
	}
	if result == "" {
		result = resultSuccess
	}
	if clientOperations != nil {
		clientOperations.WithLabelValues(operation, result).Inc()
	}
}

// ObserveInvoiceCreate records invoice create latency and result.
func ObserveInvoiceCreate(result string, duration time.Duration) {
	if result == "" {
		result = resultSuccess
	}
	if invoiceCreateTotal != nil {
		invoiceCreateTotal.WithLabelValues(result).Inc()
	}
	if invoiceCreateLatency != nil {
		invoiceCreateLatency.WithLabelValues(result).Observe(duration.Seconds())
	}
}

// ObserveDashboard records dashboard summary latency and result.
func ObserveDashboard(result string, duration time.Duration) {
	if result == "" {
		result = resultSuccess
	}
	if dashboardTotal != nil {
		dashboardTotal.WithLabelValues(result).Inc()
	}
	if dashboardLatency != nil {
		dashboardLatency.WithLabelValues(result).Observe(duration.Seconds())
	}
}

// ObserveExport records export latency and result.
func ObserveExport(format, result string, duration time.Duration) {
	if format == "" {
		format = "unknown"
	}
	if result == "" {
		result = resultSuccess
	}
	if exportTotal != nil {
		exportTotal.WithLabelValues(format, result).Inc()
	}
	if exportLatency != nil {
		exportLatency.WithLabelValues(format, result).Observe(duration.Seconds())
	}
}

// Exported constants for callers.
const (
	ResultSuccess  = resultSuccess
	ResultError    = resultError
	ResultNotFound = resultNotFound
	ResultRejected = resultRejected
)
