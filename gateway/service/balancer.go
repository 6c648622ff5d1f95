package service

import (
	"sync"
	"sync/atomic"

	"edgemesh/gateway/domain"
)

// RoundRobin spreads requests over a service's instances with one atomic counter per service,
// shared by all concurrent requests.
type RoundRobin struct {
	counters sync.Map // service name -> *atomic.Uint64
}

// NewRoundRobin creates an empty balancer.
func NewRoundRobin() *RoundRobin {
	return &RoundRobin{}
}

// Order returns instances rotated so the first element is the next round-robin pick for service
// and the rest follow in rotation; the proxy retries on the second element. The input is not
// modified. With a stable instance list, consecutive calls never start at the same instance when
// len(instances) >= 2.
func (b *RoundRobin) Order(service string, instances []domain.Instance) []domain.Instance {
	n := len(instances)
	if n == 0 {
		return nil
	}
	start := int(b.next(service) % uint64(n))
	out := make([]domain.Instance, 0, n)
	out = append(out, instances[start:]...)
	out = append(out, instances[:start]...)
	return out
}

func (b *RoundRobin) next(service string) uint64 {
	v, ok := b.counters.Load(service)
	if !ok {
		v, _ = b.counters.LoadOrStore(service, new(atomic.Uint64))
	}
	return v.(*atomic.Uint64).Add(1) - 1
}
