package monitoring

import (
	"fmt"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type MetricsService interface {
	// HTTP metrics
	RecordHTTPRequest(method, endpoint string, statusCode int, duration time.Duration)

	// Ledger metrics
	RecordLedgerOperation(operation, status string, duration time.Duration)
	IncrementBalanceRejections(operation string)

	// External service metrics
	RecordExternalServiceCall(service string, success bool, duration time.Duration)

	// System metrics
	RecordSystemMetrics()
}

type prometheusMetrics struct {
	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	ledgerOperationsTotal   *prometheus.CounterVec
	ledgerOperationDuration *prometheus.HistogramVec
	balanceRejectionsTotal  *prometheus.CounterVec

	externalServiceCallsTotal *prometheus.CounterVec
	externalServiceDuration   *prometheus.HistogramVec

	memoryUsageGauge    prometheus.Gauge
	goroutineCountGauge prometheus.Gauge
	uptimeGauge         prometheus.Gauge

	startTime time.Time
}

func NewPrometheusMetrics() MetricsService {
	m := &prometheusMetrics{
		startTime: time.Now(),
	}

	m.initMetrics()
	return m
}

func (m *prometheusMetrics) initMetrics() {
	m.httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wwwallet_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	m.httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "wwwallet_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	m.ledgerOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wwwallet_ledger_operations_total",
			Help: "Total number of ledger operations",
		},
		[]string{"operation", "status"},
	)

	m.ledgerOperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "wwwallet_ledger_operation_duration_seconds",
			Help:    "Ledger operation duration in seconds",
			Buckets: []float64{0.01, 0.1, 0.5, 1.0, 2.0},
		},
		[]string{"operation"},
	)

	m.balanceRejectionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wwwallet_balance_rejections_total",
			Help: "Total number of operations rejected by the balance check",
		},
		[]string{"operation"},
	)

	m.externalServiceCallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wwwallet_external_service_calls_total",
			Help: "Total number of external service calls",
		},
		[]string{"service", "success"},
	)

	m.externalServiceDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "wwwallet_external_service_duration_seconds",
			Help:    "External service call duration in seconds",
			Buckets: []float64{0.1, 0.5, 1.0, 5.0, 10.0, 30.0},
		},
		[]string{"service"},
	)

	m.memoryUsageGauge = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "wwwallet_memory_usage_bytes",
			Help: "Current memory usage in bytes",
		},
	)

	m.goroutineCountGauge = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "wwwallet_goroutines_count",
			Help: "Current number of goroutines",
		},
	)

	m.uptimeGauge = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "wwwallet_uptime_seconds",
			Help: "Application uptime in seconds",
		},
	)
}

func (m *prometheusMetrics) RecordHTTPRequest(method, endpoint string, statusCode int, duration time.Duration) {
	m.httpRequestsTotal.WithLabelValues(method, endpoint, fmt.Sprintf("%d", statusCode)).Inc()
	m.httpRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

func (m *prometheusMetrics) RecordLedgerOperation(operation, status string, duration time.Duration) {
	m.ledgerOperationsTotal.WithLabelValues(operation, status).Inc()
	m.ledgerOperationDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

func (m *prometheusMetrics) IncrementBalanceRejections(operation string) {
	m.balanceRejectionsTotal.WithLabelValues(operation).Inc()
}

func (m *prometheusMetrics) RecordExternalServiceCall(service string, success bool, duration time.Duration) {
	successStr := "false"
	if success {
		successStr = "true"
	}
	m.externalServiceCallsTotal.WithLabelValues(service, successStr).Inc()
	m.externalServiceDuration.WithLabelValues(service).Observe(duration.Seconds())
}

func (m *prometheusMetrics) RecordSystemMetrics() {
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	m.memoryUsageGauge.Set(float64(memStats.Alloc))
	m.goroutineCountGauge.Set(float64(runtime.NumGoroutine()))
	m.uptimeGauge.Set(time.Since(m.startTime).Seconds())
}

// Middleware records request count and latency per route. The route template
// is used as the endpoint label so path parameters do not explode cardinality.
func Middleware(metrics MetricsService) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		endpoint := c.FullPath()
		if endpoint == "" {
			endpoint = "unmatched"
		}
		metrics.RecordHTTPRequest(c.Request.Method, endpoint, c.Writer.Status(), time.Since(start))
	}
}

// StartSystemMetricsRecording refreshes the system gauges on a fixed interval.
func StartSystemMetricsRecording(metrics MetricsService, interval time.Duration) {
	ticker := time.NewTicker(interval)
	go func() {
		for range ticker.C {
			metrics.RecordSystemMetrics()
		}
	}()
}
