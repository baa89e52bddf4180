package service

import (
	"fmt"
	"net/http"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Report card generation outcomes.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
	OutcomeTimeout = "timeout"
)

// MetricsService encapsulates Prometheus instrumentation for the results engine.
type MetricsService struct {
	registry             *prometheus.Registry
	handler              http.Handler
	requestDuration      *prometheus.HistogramVec
	requestTotal         *prometheus.CounterVec
	cacheLatency         prometheus.Observer
	cacheWrite           prometheus.Observer
	cacheHitRatio        prometheus.Gauge
	cacheHits            prometheus.Counter
	cacheMisses          prometheus.Counter
	reportCards          *prometheus.CounterVec
	autoPublished        prometheus.Counter
	recalcDuration       prometheus.Histogram
	positionChanges      prometheus.Counter
	notifications        *prometheus.CounterVec
	bulkTransitions      *prometheus.CounterVec
	cacheHitCount        uint64
	cacheMissCount       uint64
	reportCardFailures   uint64
	notificationFailures uint64
}

// NewMetricsService registers the collectors on a private registry.
func NewMetricsService() *MetricsService {
	registry := prometheus.NewRegistry()

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	requestTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	cacheLatency := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "cache_latency_seconds",
		Help:    "Latency for ranking cache lookups",
		Buckets: prometheus.DefBuckets,
	})

	cacheWrite := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "cache_write_seconds",
		Help:    "Latency for ranking cache writes",
		Buckets: prometheus.DefBuckets,
	})

	cacheHitRatio := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "cache_hit_ratio",
		Help: "Ratio of cache hits to total cache lookups",
	})

	cacheHits := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cache_hits_total",
		Help: "Total cache hits",
	})

	cacheMisses := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cache_misses_total",
		Help: "Total cache misses",
	})

	reportCards := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "report_card_generations_total",
		Help: "Report card renders by outcome",
	}, []string{"outcome"})

	autoPublished := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "results_auto_published_total",
		Help: "Scheduled results published by the due-date sweep",
	})

	recalcDuration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "position_recalculation_seconds",
		Help:    "Duration of cohort position recalculations",
		Buckets: prometheus.DefBuckets,
	})

	positionChanges := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "position_changes_total",
		Help: "Results whose overall or course positions changed",
	})

	notifications := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "result_notifications_total",
		Help: "Publication notices by outcome",
	}, []string{"outcome"})

	bulkTransitions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "bulk_status_results_total",
		Help: "Results processed by bulk status updates",
	}, []string{"status", "outcome"})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(requestDuration, requestTotal, cacheLatency, cacheWrite, cacheHitRatio, cacheHits, cacheMisses,
		reportCards, autoPublished, recalcDuration, positionChanges, notifications, bulkTransitions, goroutines)

	return &MetricsService{
		registry:        registry,
		handler:         promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestDuration: requestDuration,
		requestTotal:    requestTotal,
		cacheLatency:    cacheLatency,
		cacheWrite:      cacheWrite,
		cacheHitRatio:   cacheHitRatio,
		cacheHits:       cacheHits,
		cacheMisses:     cacheMisses,
		reportCards:     reportCards,
		autoPublished:   autoPublished,
		recalcDuration:  recalcDuration,
		positionChanges: positionChanges,
		notifications:   notifications,
		bulkTransitions: bulkTransitions,
	}
}

// Handler exposes the Prometheus HTTP handler.
func (m *MetricsService) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// ObserveHTTPRequest records request metrics.
func (m *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	labelStatus := fmt.Sprintf("%d", status)
	m.requestDuration.WithLabelValues(method, path, labelStatus).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(method, path, labelStatus).Inc()
}

// RecordCacheOperation records cache hit/miss metrics and updates hit ratio.
func (m *MetricsService) RecordCacheOperation(hit bool, duration time.Duration) {
	if m == nil {
		return
	}
	m.cacheLatency.Observe(duration.Seconds())
	if hit {
		m.cacheHits.Inc()
		atomic.AddUint64(&m.cacheHitCount, 1)
	} else {
		m.cacheMisses.Inc()
		atomic.AddUint64(&m.cacheMissCount, 1)
	}
	hits := atomic.LoadUint64(&m.cacheHitCount)
	total := hits + atomic.LoadUint64(&m.cacheMissCount)
	if total > 0 {
		m.cacheHitRatio.Set(float64(hits) / float64(total))
	}
}

// ObserveCacheWrite tracks the duration for cache write operations.
func (m *MetricsService) ObserveCacheWrite(duration time.Duration) {
	if m == nil {
		return
	}
	m.cacheWrite.Observe(duration.Seconds())
}

// RecordReportCard counts one render attempt.
func (m *MetricsService) RecordReportCard(outcome string) {
	if m == nil {
		return
	}
	m.reportCards.WithLabelValues(outcome).Inc()
	if outcome != OutcomeSuccess {
		atomic.AddUint64(&m.reportCardFailures, 1)
	}
}

// RecordAutoPublished counts results flipped by a sweep.
func (m *MetricsService) RecordAutoPublished(count int) {
	if m == nil || count <= 0 {
		return
	}
	m.autoPublished.Add(float64(count))
}

// ObserveRecalculation records a cohort recalculation.
func (m *MetricsService) ObserveRecalculation(duration time.Duration, changed int) {
	if m == nil {
		return
	}
	m.recalcDuration.Observe(duration.Seconds())
	if changed > 0 {
		m.positionChanges.Add(float64(changed))
	}
}

// RecordNotification counts one publication notice.
func (m *MetricsService) RecordNotification(outcome string) {
	if m == nil {
		return
	}
	m.notifications.WithLabelValues(outcome).Inc()
	if outcome != OutcomeSuccess {
		atomic.AddUint64(&m.notificationFailures, 1)
	}
}

// RecordBulkTransition counts updated and skipped rows of a bulk status update.
func (m *MetricsService) RecordBulkTransition(status string, updated, skipped int) {
	if m == nil {
		return
	}
	m.bulkTransitions.WithLabelValues(status, "updated").Add(float64(updated))
	m.bulkTransitions.WithLabelValues(status, "skipped").Add(float64(skipped))
}

// CollaboratorFailures returns failed renders and failed notices since start.
func (m *MetricsService) CollaboratorFailures() (reportCards, notifications uint64) {
	if m == nil {
		return 0, 0
	}
	return atomic.LoadUint64(&m.reportCardFailures), atomic.LoadUint64(&m.notificationFailures)
}
