package interfaces

import "edgemesh/registry/domain"

// Registry is the instance directory: the four lease operations plus the operator views. Implemented
// by service.Registry; consumed by handlers.HTTPServer and by the gateway in embedded mode.
//
//go:generate moq -stub -out mock/registry.go -pkg mock . Registry
type Registry interface {
	// Register adds or refreshes (ServiceName, InstanceID). A new or endpoint-changed registration
	// starts in STARTING with a fresh lease id; an identical one only extends the lease.
	// Returns the stored instance, or an error wrapping domain.ErrInvalidInstance.
	Register(instance domain.ServiceInstance) (domain.ServiceInstance, error)

	// Renew extends the lease by the TTL and sets status UP. Returns domain.ErrInstanceNotFound when absent.
	Renew(serviceName, instanceID string) (domain.ServiceInstance, error)

	// Deregister removes the instance immediately. Returns domain.ErrInstanceNotFound when absent.
	Deregister(serviceName, instanceID string) error

	// MarkDown sets status DOWN without touching the lease. Returns domain.ErrInstanceNotFound when absent.
	MarkDown(serviceName, instanceID string) error

	// Resolve returns the UP instances with unexpired leases, ordered by instance id. Empty is not an error.
	Resolve(serviceName string) []domain.ServiceInstance

	// Services returns a summary per known service, ordered by name.
	Services() []domain.ServiceSummary
}
