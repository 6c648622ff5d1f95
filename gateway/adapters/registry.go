// Package adapters connects the gateway to the service registry, either over HTTP or in process.
package adapters

import (
	"context"
	"net/http"

	"edgemesh/gateway/domain"
	"edgemesh/gateway/interfaces"
	"edgemesh/helpers"
	"edgemesh/registry/client"
	registryinterfaces "edgemesh/registry/interfaces"
)

// RegistryHTTP creates an interfaces.Resolver that asks a remote registry with GET
// baseURL/registry/{service}. Panics on empty baseURL or nil client.
//
// Parameters: baseURL: registry base URL (e.g. http://registry:8761), no trailing slash; client:
// HTTP client (timeout recommended; main uses 5s).
//
// Called from gateway cmd/main in remote registry mode; the result is wrapped in service.CachingResolver.
func RegistryHTTP(baseURL string, httpClient *http.Client) interfaces.Resolver {
	return &registryHTTP{
		client: client.New(
			helpers.StrPanic(baseURL, "adapters.registry.go: baseURL is required"),
			helpers.NilPanic(httpClient, "adapters.registry.go: http client is required"),
		),
	}
}

type registryHTTP struct {
	client *client.Client
}

// Resolve maps the registry's resolve answer to domain.Instance. Only UP instances are returned by
// the registry; the lease expiry travels along so the cache can drop stale entries.
func (r *registryHTTP) Resolve(ctx context.Context, service string) ([]domain.Instance, error) {
	resolved, err := r.client.Resolve(ctx, service)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Instance, 0, len(resolved))
	for _, inst := range resolved {
		out = append(out, domain.Instance{
			ID:          inst.InstanceID,
			Host:        inst.Host,
			Port:        inst.Port,
			LeaseExpiry: inst.LeaseExpiry,
		})
	}
	return out, nil
}

// InProcessRegistry creates an interfaces.Resolver over a registry running in the same process
// (REGISTRY_MODE=embedded). Every call reads the live table, so no cache is needed. Panics on nil registry.
func InProcessRegistry(registry registryinterfaces.Registry) interfaces.Resolver {
	return &inProcessRegistry{registry: helpers.NilPanic(registry, "adapters.registry.go: registry is required")}
}

type inProcessRegistry struct {
	registry registryinterfaces.Registry
}

func (r *inProcessRegistry) Resolve(_ context.Context, service string) ([]domain.Instance, error) {
	resolved := r.registry.Resolve(service)
	out := make([]domain.Instance, 0, len(resolved))
	for _, inst := range resolved {
		out = append(out, domain.Instance{
			ID:          inst.InstanceID,
			Host:        inst.Host,
			Port:        inst.Port,
			LeaseExpiry: inst.LeaseExpiry,
		})
	}
	return out, nil
}
