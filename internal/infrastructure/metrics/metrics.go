// Package metrics holds the Prometheus collectors. Observe helpers are no-ops
// until Init has run.
package metrics

import (
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	metricPrefix = "storefront_"

	resultSuccess = "success"
	resultError   = "error"
)

var (
	registerOnce sync.Once

	httpRequests *prometheus.CounterVec
	httpLatency  *prometheus.HistogramVec

	statementBuildTotal   *prometheus.CounterVec
	statementBuildLatency *prometheus.HistogramVec
	statementEntries      prometheus.Histogram
	statementSkipped      *prometheus.CounterVec
	statementExportTotal  *prometheus.CounterVec
	statementExportBytes  *prometheus.HistogramVec

	eventsPublished *prometheus.CounterVec
)

// Init registers the collectors with reg (prometheus.DefaultRegisterer when nil)
func Init(reg prometheus.Registerer) {
	registerOnce.Do(func() {
		if reg == nil {
			reg = prometheus.DefaultRegisterer
		}

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

		statementBuildTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "statement_build_total",
				Help: "Total statement builds by result",
			},
			[]string{"result"},
		)
		statementBuildLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "statement_build_latency_seconds",
				Help:    "Statement build latency in seconds, row loading included",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"result"},
		)
		statementEntries = prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "statement_entries",
				Help:    "Number of entries in a built statement",
				Buckets: prometheus.ExponentialBuckets(1, 4, 8),
			},
		)
		statementSkipped = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "statement_skipped_entries_total",
				Help: "Malformed rows left out of statements by kind",
			},
			[]string{"kind"},
		)
		statementExportTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "statement_export_total",
				Help: "Total statement exports by format and result",
			},
			[]string{"format", "result"},
		)
		statementExportBytes = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "statement_export_bytes",
				Help:    "Size of exported statement files",
				Buckets: prometheus.ExponentialBuckets(1024, 4, 8),
			},
			[]string{"format"},
		)

		eventsPublished = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "events_published_total",
				Help: "Domain events published by type and result",
			},
			[]string{"type", "result"},
		)

		reg.MustRegister(
			httpRequests,
			httpLatency,
			statementBuildTotal,
			statementBuildLatency,
			statementEntries,
			statementSkipped,
			statementExportTotal,
			statementExportBytes,
			eventsPublished,
		)
	})
}

// ObserveHTTPRequest records one served request. route is the gin route
// template, never the raw path.
func ObserveHTTPRequest(method, route string, status int, elapsed time.Duration) {
	if httpRequests == nil {
		return
	}
	httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	httpLatency.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// ObserveStatementBuild records a statement build
func ObserveStatementBuild(elapsed time.Duration, entries int, err error) {
	if statementBuildTotal == nil {
		return
	}
	result := resultLabel(err)
	statementBuildTotal.WithLabelValues(result).Inc()
	statementBuildLatency.WithLabelValues(result).Observe(elapsed.Seconds())
	if err == nil {
		statementEntries.Observe(float64(entries))
	}
}

// AddStatementSkipped counts malformed rows of kind
func AddStatementSkipped(kind string, n int) {
	if statementSkipped == nil || n == 0 {
		return
	}
	statementSkipped.WithLabelValues(kind).Add(float64(n))
}

// ObserveStatementExport records a PDF or XLSX render
func ObserveStatementExport(format string, size int, err error) {
	if statementExportTotal == nil {
		return
	}
	statementExportTotal.WithLabelValues(format, resultLabel(err)).Inc()
	if err == nil {
		statementExportBytes.WithLabelValues(format).Observe(float64(size))
	}
}

// ObserveEventPublish records a domain event delivery attempt
func ObserveEventPublish(eventType string, err error) {
	if eventsPublished == nil {
		return
	}
	eventsPublished.WithLabelValues(eventType, resultLabel(err)).Inc()
}

func resultLabel(err error) string {
	if err != nil {
		return resultError
	}
	return resultSuccess
}
