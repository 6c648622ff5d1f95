package service

import (
	"edgemesh/registry/domain"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics are the registry's Prometheus collectors.
type Metrics struct {
	instances     *prometheus.GaugeVec
	registrations *prometheus.CounterVec
	renewals      prometheus.Counter
	evictions     *prometheus.CounterVec
	sweepsSkipped *prometheus.CounterVec
}

// NewMetrics creates the collectors and registers them with reg.
//
// Called from cmd/main with prometheus.DefaultRegisterer and from tests with a fresh prometheus.NewRegistry().
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		instances: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "edgemesh",
			Subsystem: "registry",
			Name:      "instances",
			Help:      "Registered instances by service and status",
		}, []string{"service", "status"}),
		registrations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "edgemesh",
			Subsystem: "registry",
			Name:      "registrations_total",
			Help:      "Register calls by outcome",
		}, []string{"outcome"}), // outcome: new/refresh/conflict
		renewals: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "edgemesh",
			Subsystem: "registry",
			Name:      "renewals_total",
			Help:      "Successful lease renewals",
		}),
		evictions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "edgemesh",
			Subsystem: "registry",
			Name:      "evictions_total",
			Help:      "Instances removed by the eviction sweep",
		}, []string{"service"}),
		sweepsSkipped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "edgemesh",
			Subsystem: "registry",
			Name:      "sweeps_skipped_total",
			Help:      "Per-service sweeps suppressed by self-preservation",
		}, []string{"service"}),
	}
	reg.MustRegister(m.instances, m.registrations, m.renewals, m.evictions, m.sweepsSkipped)
	return m
}

// setInstances replaces the gauge values with the counts in services.
func (m *Metrics) setInstances(services map[string]map[string]*domain.ServiceInstance) {
	m.instances.Reset()
	for name, instances := range services {
		for _, inst := range instances {
			m.instances.WithLabelValues(name, string(inst.Status)).Inc()
		}
	}
}
