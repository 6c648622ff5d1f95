package interfaces

import (
	"context"

	"edgemesh/gateway/domain"
)

// Resolver returns the routable instances of a logical service. Implemented by adapters.RegistryHTTP
// (remote registry), adapters.InProcessRegistry (embedded registry) and service.CachingResolver
// (snapshot cache in front of either). Called from service.Proxy.Handler once per request.
//
//go:generate moq -stub -out mock/resolver.go -pkg mock . Resolver
type Resolver interface {
	// Resolve returns the instances of service that may receive traffic, in a stable order.
	// An empty slice with a nil error means "no healthy instance"; an error means the source
	// could not be asked.
	Resolve(ctx context.Context, service string) ([]domain.Instance, error)
}
