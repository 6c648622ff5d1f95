package service

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"edgemesh/helpers"
	"edgemesh/registry/domain"
	"edgemesh/registry/interfaces"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/google/uuid"
)

const (
	DefaultTTL                          = 30 * time.Second
	DefaultSelfPreservationThreshold    = 0.8
	DefaultSelfPreservationMinInstances = 3
)

// Config holds the lease and eviction parameters. Zero values are replaced by defaults in NewRegistry.
type Config struct {
	// TTL is the lease length granted on register and on every renewal.
	TTL time.Duration
	// SweepInterval is the eviction period; defaults to TTL/3.
	SweepInterval time.Duration
	// SelfPreservationThreshold is the expired fraction of a service above which its sweep is skipped.
	SelfPreservationThreshold float64
	// SelfPreservationMinInstances is the service size from which self-preservation applies.
	SelfPreservationMinInstances int
}

func (c Config) withDefaults() Config {
	if c.TTL <= 0 {
		c.TTL = DefaultTTL
	}
	if c.SweepInterval <= 0 {
		c.SweepInterval = c.TTL / 3
	}
	if c.SelfPreservationThreshold <= 0 || c.SelfPreservationThreshold > 1 {
		c.SelfPreservationThreshold = DefaultSelfPreservationThreshold
	}
	if c.SelfPreservationMinInstances <= 0 {
		c.SelfPreservationMinInstances = DefaultSelfPreservationMinInstances
	}
	return c
}

// Registry implements interfaces.Registry. It owns the instance map (service name → instance id →
// instance) behind one RWMutex; the lock only covers map access, never logging or observers.
// The eviction sweep runs in Run until its context is cancelled.
type Registry struct {
	cfg          Config
	timeProvider interfaces.TimeProvider
	metrics      *Metrics
	logger       log.Logger

	mu         sync.RWMutex
	services   map[string]map[string]*domain.ServiceInstance
	preserving map[string]bool
	observers  []interfaces.SweepObserver
}

// NewRegistry creates an empty registry. Panics on nil timeProvider, metrics or logger.
//
// Parameters: cfg: lease/eviction settings (zero fields get defaults); timeProvider: clock for lease
// arithmetic; metrics: collectors from NewMetrics; logger: base logger.
//
// Called from registry cmd/main and from the gateway cmd/main in embedded mode.
func NewRegistry(cfg Config, timeProvider interfaces.TimeProvider, metrics *Metrics, logger log.Logger) *Registry {
	logger = helpers.NilPanic(logger, "service.registry.go: logger is required")
	return &Registry{
		cfg:          cfg.withDefaults(),
		timeProvider: helpers.NilPanic(timeProvider, "service.registry.go: time provider is required"),
		metrics:      helpers.NilPanic(metrics, "service.registry.go: metrics is required"),
		logger:       log.With(logger, "component", "Registry"),
		services:     make(map[string]map[string]*domain.ServiceInstance),
		preserving:   make(map[string]bool),
	}
}

// Config returns the effective configuration (defaults applied).
func (r *Registry) Config() Config {
	return r.cfg
}

// AddSweepObserver subscribes o to sweep results. Call before Run.
func (r *Registry) AddSweepObserver(o interfaces.SweepObserver) {
	r.mu.Lock()
	r.observers = append(r.observers, helpers.NilPanic(o, "service.registry.go: observer is required"))
	r.mu.Unlock()
}

// Register stores instance with a lease of TTL.
//
// A new key, or an existing key whose host/port changed, gets a fresh lease id and status STARTING;
// the endpoint change is logged as a registry conflict and overwrites the old entry. Re-registering
// the same endpoint only extends the lease, keeping status and lease id.
//
// Returns: (stored instance, nil); (zero, err wrapping domain.ErrInvalidInstance) on a bad instance.
func (r *Registry) Register(instance domain.ServiceInstance) (domain.ServiceInstance, error) {
	if err := instance.Validate(); err != nil {
		return domain.ServiceInstance{}, err
	}
	now := r.timeProvider.Now()

	r.mu.Lock()
	instances, ok := r.services[instance.ServiceName]
	if !ok {
		instances = make(map[string]*domain.ServiceInstance)
		r.services[instance.ServiceName] = instances
	}
	existing, found := instances[instance.InstanceID]
	outcome := "new"
	var previous domain.ServiceInstance
	switch {
	case found && existing.SameEndpoint(instance):
		outcome = "refresh"
		existing.LeaseExpiry = now.Add(r.cfg.TTL)
	default:
		if found {
			outcome = "conflict"
			previous = *existing
		}
		existing = &domain.ServiceInstance{
			ServiceName:  instance.ServiceName,
			InstanceID:   instance.InstanceID,
			Host:         instance.Host,
			Port:         instance.Port,
			Status:       domain.StatusStarting,
			LeaseID:      uuid.NewString(),
			RegisteredAt: now,
			LeaseExpiry:  now.Add(r.cfg.TTL),
		}
		instances[instance.InstanceID] = existing
	}
	stored := *existing
	r.metrics.setInstances(r.services)
	r.mu.Unlock()

	r.metrics.registrations.WithLabelValues(outcome).Inc()
	if outcome == "conflict" {
		level.Warn(r.logger).Log(
			"msg", "registry conflict, overwriting instance",
			"service", instance.ServiceName,
			"instance", instance.InstanceID,
			"old_addr", previous.Address(),
			"new_addr", stored.Address(),
		)
	} else {
		level.Info(r.logger).Log(
			"msg", "instance registered",
			"service", stored.ServiceName,
			"instance", stored.InstanceID,
			"addr", stored.Address(),
			"outcome", outcome,
		)
	}
	return stored, nil
}

// Renew extends the lease to now+TTL and sets status UP (first renewal ends STARTING; a DOWN instance
// recovers). An instance whose lease already passed but that has not been swept yet can still renew.
//
// Returns: (renewed instance, nil); (zero, domain.ErrInstanceNotFound) when absent.
func (r *Registry) Renew(serviceName, instanceID string) (domain.ServiceInstance, error) {
	now := r.timeProvider.Now()

	r.mu.Lock()
	inst, ok := r.lookup(serviceName, instanceID)
	if !ok {
		r.mu.Unlock()
		return domain.ServiceInstance{}, fmt.Errorf("renew %s/%s: %w", serviceName, instanceID, domain.ErrInstanceNotFound)
	}
	promoted := inst.Status != domain.StatusUp
	inst.Status = domain.StatusUp
	inst.LastRenewedAt = now
	inst.LeaseExpiry = now.Add(r.cfg.TTL)
	renewed := *inst
	if promoted {
		r.metrics.setInstances(r.services)
	}
	r.mu.Unlock()

	r.metrics.renewals.Inc()
	if promoted {
		level.Info(r.logger).Log("msg", "instance up", "service", serviceName, "instance", instanceID)
	}
	return renewed, nil
}

// Deregister removes the instance immediately.
//
// Returns: nil; domain.ErrInstanceNotFound when absent.
func (r *Registry) Deregister(serviceName, instanceID string) error {
	r.mu.Lock()
	if _, ok := r.lookup(serviceName, instanceID); !ok {
		r.mu.Unlock()
		return fmt.Errorf("deregister %s/%s: %w", serviceName, instanceID, domain.ErrInstanceNotFound)
	}
	r.remove(serviceName, instanceID)
	r.metrics.setInstances(r.services)
	r.mu.Unlock()

	level.Info(r.logger).Log("msg", "instance deregistered", "service", serviceName, "instance", instanceID)
	return nil
}

// MarkDown sets status DOWN; the lease is left as is so the instance is still evicted if it stops renewing.
func (r *Registry) MarkDown(serviceName, instanceID string) error {
	r.mu.Lock()
	inst, ok := r.lookup(serviceName, instanceID)
	if !ok {
		r.mu.Unlock()
		return fmt.Errorf("mark down %s/%s: %w", serviceName, instanceID, domain.ErrInstanceNotFound)
	}
	inst.Status = domain.StatusDown
	r.metrics.setInstances(r.services)
	r.mu.Unlock()

	level.Warn(r.logger).Log("msg", "instance marked down", "service", serviceName, "instance", instanceID)
	return nil
}

// Resolve returns copies of the routable instances of serviceName (UP, lease unexpired at call time),
// sorted by instance id. Expired instances are filtered here even before the sweep removes them.
func (r *Registry) Resolve(serviceName string) []domain.ServiceInstance {
	now := r.timeProvider.Now()

	r.mu.RLock()
	out := make([]domain.ServiceInstance, 0, len(r.services[serviceName]))
	for _, inst := range r.services[serviceName] {
		if inst.Routable(now) {
			out = append(out, *inst)
		}
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].InstanceID < out[j].InstanceID })
	return out
}

// Services returns one summary per known service, sorted by name.
func (r *Registry) Services() []domain.ServiceSummary {
	now := r.timeProvider.Now()

	r.mu.RLock()
	out := make([]domain.ServiceSummary, 0, len(r.services))
	for name, instances := range r.services {
		s := domain.ServiceSummary{Name: name, Total: len(instances), SelfPreservation: r.preserving[name]}
		for _, inst := range instances {
			if inst.Routable(now) {
				s.Up++
			}
		}
		out = append(out, s)
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Sweep runs one eviction pass and notifies observers.
//
// Per service: when at least SelfPreservationMinInstances instances exist and the expired fraction is
// above SelfPreservationThreshold, nothing is evicted and the service enters self-preservation
// (logged as SweepSkipped). Otherwise every expired instance is removed and the warning clears.
//
// Called from Run on every tick; tests call it directly.
func (r *Registry) Sweep() domain.SweepResult {
	now := r.timeProvider.Now()
	var result domain.SweepResult
	var cleared []string
	skippedRatio := make(map[string]float64)

	r.mu.Lock()
	for name, instances := range r.services {
		var expired []string
		for id, inst := range instances {
			if inst.Expired(now) {
				expired = append(expired, id)
			}
		}
		ratio := float64(len(expired)) / float64(len(instances))
		if len(instances) >= r.cfg.SelfPreservationMinInstances && ratio > r.cfg.SelfPreservationThreshold {
			r.preserving[name] = true
			result.Skipped = append(result.Skipped, name)
			skippedRatio[name] = ratio
			continue
		}
		if r.preserving[name] {
			delete(r.preserving, name)
			cleared = append(cleared, name)
		}
		for _, id := range expired {
			result.Evicted = append(result.Evicted, *instances[id])
			r.remove(name, id)
		}
	}
	r.metrics.setInstances(r.services)
	observers := append([]interfaces.SweepObserver(nil), r.observers...)
	r.mu.Unlock()

	sort.Strings(result.Skipped)
	for _, name := range result.Skipped {
		r.metrics.sweepsSkipped.WithLabelValues(name).Inc()
		level.Warn(r.logger).Log(
			"msg", "SweepSkipped: self-preservation engaged",
			"service", name,
			"expired_ratio", skippedRatio[name],
		)
	}
	for _, name := range cleared {
		level.Info(r.logger).Log("msg", "self-preservation cleared", "service", name)
	}
	for _, inst := range result.Evicted {
		r.metrics.evictions.WithLabelValues(inst.ServiceName).Inc()
		level.Info(r.logger).Log(
			"msg", "instance evicted",
			"service", inst.ServiceName,
			"instance", inst.InstanceID,
			"lease_expiry", inst.LeaseExpiry.Format(time.RFC3339),
		)
	}

	if len(observers) > 0 {
		services := r.Services()
		for _, o := range observers {
			o.OnSweep(services)
		}
	}
	return result
}

// Run sweeps every SweepInterval until ctx is cancelled; the ticker is stopped before returning.
//
// Called from cmd/main in its own goroutine; main waits for it on shutdown.
func (r *Registry) Run(ctx context.Context) {
	ticker := time.NewTicker(r.cfg.SweepInterval)
	defer ticker.Stop()

	level.Info(r.logger).Log("msg", "sweeper started", "interval", r.cfg.SweepInterval, "ttl", r.cfg.TTL)
	for {
		select {
		case <-ctx.Done():
			level.Info(r.logger).Log("msg", "sweeper stopped")
			return
		case <-ticker.C:
			r.Sweep()
		}
	}
}

// lookup must be called with r.mu held.
func (r *Registry) lookup(serviceName, instanceID string) (*domain.ServiceInstance, bool) {
	inst, ok := r.services[serviceName][instanceID]
	return inst, ok
}

// remove must be called with r.mu held.
func (r *Registry) remove(serviceName, instanceID string) {
	instances := r.services[serviceName]
	delete(instances, instanceID)
	if len(instances) == 0 {
		delete(r.services, serviceName)
		delete(r.preserving, serviceName)
	}
}

var _ interfaces.Registry = (*Registry)(nil)
