package service

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics are the gateway's Prometheus collectors.
type Metrics struct {
	requests      *prometheus.CounterVec
	duration      *prometheus.HistogramVec
	retries       *prometheus.CounterVec
	noInstance    *prometheus.CounterVec
	resolveErrors *prometheus.CounterVec
}

// NewMetrics creates the collectors and registers them with reg.
//
// Called from cmd/main with prometheus.DefaultRegisterer and from tests with a fresh prometheus.NewRegistry().
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "edgemesh",
			Subsystem: "gateway",
			Name:      "requests_total",
			Help:      "Proxied requests by target service and response status",
		}, []string{"service", "code"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "edgemesh",
			Subsystem: "gateway",
			Name:      "request_duration_seconds",
			Help:      "Time from request receipt to response headers",
			Buckets:   prometheus.DefBuckets,
		}, []string{"service"}),
		retries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "edgemesh",
			Subsystem: "gateway",
			Name:      "retries_total",
			Help:      "Forwarding attempts repeated on another instance",
		}, []string{"service"}),
		noInstance: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "edgemesh",
			Subsystem: "gateway",
			Name:      "no_instance_total",
			Help:      "Requests rejected because the service had no routable instance",
		}, []string{"service"}),
		resolveErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "edgemesh",
			Subsystem: "gateway",
			Name:      "resolve_errors_total",
			Help:      "Failed registry lookups by service",
		}, []string{"service"}),
	}
	reg.MustRegister(m.requests, m.duration, m.retries, m.noInstance, m.resolveErrors)
	return m
}

func (m *Metrics) observe(service string, code int, elapsed time.Duration) {
	if service == "" {
		service = "none"
	}
	m.requests.WithLabelValues(service, strconv.Itoa(code)).Inc()
	m.duration.WithLabelValues(service).Observe(elapsed.Seconds())
}
