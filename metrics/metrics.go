// Package metrics holds the Prometheus collectors of the pricing service.
// Recording functions are no-ops until Init has been called.
package metrics

import (
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	metricPrefix = "pricing_"

	ResultSuccess = "success"
	ResultError   = "error"
)

var (
	registerOnce sync.Once

	httpRequests *prometheus.CounterVec
	httpLatency  *prometheus.HistogramVec

	calculationWrites *prometheus.CounterVec
	exportsTotal      *prometheus.CounterVec
	importRows        *prometheus.CounterVec
	fxFetches         *prometheus.CounterVec
)

// Init creates and registers the collectors with the default registry.
func Init() {
	registerOnce.Do(func() {
		httpRequests = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "http_requests_total",
				Help: "Total HTTP requests by method, route and status",
			},
			[]string{"method", "route", "status"},
		)
		httpLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "http_request_duration_seconds",
				Help:    "HTTP request latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		)
		calculationWrites = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "calculation_writes_total",
				Help: "Calculation create/update/delete operations",
			},
			[]string{"op"},
		)
		exportsTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "exports_total",
				Help: "Report exports by format and result",
			},
			[]string{"format", "result"},
		)
		importRows = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "import_rows_total",
				Help: "Imported rows by result",
			},
			[]string{"result"},
		)
		fxFetches = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "fx_fetch_total",
				Help: "Live exchange rate lookups by result",
			},
			[]string{"result"},
		)

		prometheus.MustRegister(
			httpRequests,
			httpLatency,
			calculationWrites,
			exportsTotal,
			importRows,
			fxFetches,
		)
	})
}

// ObserveHTTP records one finished request. route should be the pattern,
// not the raw path, to keep label cardinality bounded.
func ObserveHTTP(method, route string, status int, duration time.Duration) {
	if httpRequests == nil {
		return
	}
	httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	httpLatency.WithLabelValues(method, route).Observe(duration.Seconds())
}

// IncCalculationWrite counts a create, update or delete.
func IncCalculationWrite(op string) {
	if calculationWrites == nil {
		return
	}
	calculationWrites.WithLabelValues(op).Inc()
}

// IncExport counts one report export by format and result.
func IncExport(format, result string) {
	if exportsTotal == nil {
		return
	}
	exportsTotal.WithLabelValues(format, result).Inc()
}

// AddImportRows adds created and failed row counts of one import run.
func AddImportRows(created, failed int) {
	if importRows == nil {
		return
	}
	importRows.WithLabelValues(ResultSuccess).Add(float64(created))
	importRows.WithLabelValues(ResultError).Add(float64(failed))
}

// IncFXFetch counts one live exchange rate lookup by result.
func IncFXFetch(result string) {
	if fxFetches == nil {
		return
	}
	fxFetches.WithLabelValues(result).Inc()
}
