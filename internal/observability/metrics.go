package observability

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the service's Prometheus collectors on a private registry.
type Metrics struct {
	Registry *prometheus.Registry

	requests        *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	errors          *prometheus.CounterVec
	callsLogged     *prometheus.CounterVec
	logins          *prometheus.CounterVec
	reportDuration  *prometheus.HistogramVec
}

// NewMetrics registers all collectors on a fresh registry.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	factory := promauto.With(registry)

	return &Metrics{
		Registry: registry,
		requests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "calllog",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by route, method and status",
		}, []string{"path", "method", "status"}),
		requestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "calllog",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency by route and method",
			Buckets:   prometheus.DefBuckets,
		}, []string{"path", "method"}),
		errors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "calllog",
			Subsystem: "http",
			Name:      "errors_total",
			Help:      "Failed requests by route, method and error code",
		}, []string{"path", "method", "code"}),
		callsLogged: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "calllog",
			Name:      "calls_logged_total",
			Help:      "Calls logged, split by whether they were answered",
		}, []string{"answered"}),
		logins: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "calllog",
			Name:      "logins_total",
			Help:      "Login attempts by role and result",
		}, []string{"role", "result"}),
		reportDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "calllog",
			Name:      "report_duration_seconds",
			Help:      "Time taken to build a dashboard report",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0},
		}, []string{"report"}),
	}
}

// RecordRequest counts a finished request.
func (m *Metrics) RecordRequest(path, method string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(path, method, strconv.Itoa(status)).Inc()
	m.requestDuration.WithLabelValues(path, method).Observe(duration.Seconds())
}

// RecordError counts a request that ended in a domain error.
func (m *Metrics) RecordError(path, method, code string) {
	if m == nil {
		return
	}
	m.errors.WithLabelValues(path, method, code).Inc()
}

// RecordCallLogged counts a newly logged call.
func (m *Metrics) RecordCallLogged(answered bool) {
	if m == nil {
		return
	}
	m.callsLogged.WithLabelValues(strconv.FormatBool(answered)).Inc()
}

// RecordLogin counts a login attempt.
func (m *Metrics) RecordLogin(role, result string) {
	if m == nil {
		return
	}
	m.logins.WithLabelValues(role, result).Inc()
}

// ObserveReport records how long a report took to build.
func (m *Metrics) ObserveReport(report string, duration time.Duration) {
	if m == nil {
		return
	}
	m.reportDuration.WithLabelValues(report).Observe(duration.Seconds())
}
