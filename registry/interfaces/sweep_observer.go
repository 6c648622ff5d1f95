package interfaces

import "edgemesh/registry/domain"

// SweepObserver is notified after every eviction pass with the fresh per-service summaries.
// Implemented by adapters/grpchealth to keep the gRPC health statuses in step with the registry.
//
//go:generate moq -stub -out mock/sweep_observer.go -pkg mock . SweepObserver
type SweepObserver interface {
	OnSweep(services []domain.ServiceSummary)
}
