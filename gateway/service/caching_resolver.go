package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"edgemesh/gateway/domain"
	"edgemesh/gateway/interfaces"
	"edgemesh/helpers"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
)

// CachingResolver keeps the last successful answer of source per service and refreshes every known
// service in the background. Reads never go to the source once a service is cached, so a registry
// outage does not stall requests; reads filter out instances whose lease has expired, so a stale
// snapshot cannot route beyond the leases it was given.
type CachingResolver struct {
	source   interfaces.Resolver
	tp       interfaces.TimeProvider
	interval time.Duration
	logger   log.Logger

	mu    sync.RWMutex
	cache map[string][]domain.Instance
}

// NewCachingResolver creates the cache. Panics on nil dependencies or a non-positive interval.
//
// Parameters: source: the authoritative resolver (adapters.RegistryHTTP); tp: clock for lease
// filtering; interval: background refresh period; logger: refresh failures are logged.
//
// Called from gateway cmd/main in remote registry mode.
func NewCachingResolver(source interfaces.Resolver, tp interfaces.TimeProvider, interval time.Duration, logger log.Logger) *CachingResolver {
	if interval <= 0 {
		panic("service.caching_resolver.go: interval must be positive")
	}
	return &CachingResolver{
		source:   helpers.NilPanic(source, "service.caching_resolver.go: source is required"),
		tp:       helpers.NilPanic(tp, "service.caching_resolver.go: time provider is required"),
		interval: interval,
		logger:   log.With(helpers.NilPanic(logger, "service.caching_resolver.go: logger is required"), "component", "caching_resolver"),
		cache:    make(map[string][]domain.Instance),
	}
}

// Resolve implements interfaces.Resolver. The first lookup of a service goes to the source and its
// error is returned as is; later lookups are served from the snapshot.
func (r *CachingResolver) Resolve(ctx context.Context, service string) ([]domain.Instance, error) {
	r.mu.RLock()
	cached, ok := r.cache[service]
	r.mu.RUnlock()
	if !ok {
		fetched, err := r.source.Resolve(ctx, service)
		if err != nil {
			return nil, err
		}
		r.store(service, fetched)
		cached = fetched
	}
	now := r.tp.Now()
	out := make([]domain.Instance, 0, len(cached))
	for _, inst := range cached {
		if inst.LeaseValid(now) {
			out = append(out, inst)
		}
	}
	return out, nil
}

// Refresh asks the source for every cached service. A failed lookup keeps the previous snapshot.
//
// Called from Run on every tick and from tests.
func (r *CachingResolver) Refresh(ctx context.Context) {
	r.mu.RLock()
	services := make([]string, 0, len(r.cache))
	for name := range r.cache {
		services = append(services, name)
	}
	r.mu.RUnlock()
	sort.Strings(services)

	for _, name := range services {
		fetched, err := r.source.Resolve(ctx, name)
		if err != nil {
			level.Warn(r.logger).Log("msg", "refresh failed, keeping last snapshot", "service", name, "err", err)
			continue
		}
		r.store(name, fetched)
	}
}

// Run refreshes every interval until ctx is done.
//
// Called from gateway cmd/main in its own goroutine; main waits for it on shutdown.
func (r *CachingResolver) Run(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.Refresh(ctx)
		}
	}
}

func (r *CachingResolver) store(service string, instances []domain.Instance) {
	snapshot := make([]domain.Instance, len(instances))
	copy(snapshot, instances)
	r.mu.Lock()
	r.cache[service] = snapshot
	r.mu.Unlock()
}

var _ interfaces.Resolver = (*CachingResolver)(nil)
