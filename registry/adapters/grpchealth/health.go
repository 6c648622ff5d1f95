// Package grpchealth exposes registry liveness through the standard gRPC health service: one entry per
// service name, SERVING while it has at least one routable instance.
package grpchealth

import (
	"sync"

	"edgemesh/helpers"
	"edgemesh/registry/domain"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// Reporter implements interfaces.SweepObserver on top of health.Server.
type Reporter struct {
	server *health.Server
	logger log.Logger

	mu    sync.Mutex
	known map[string]healthpb.HealthCheckResponse_ServingStatus
}

// NewReporter creates a Reporter; the overall ("") status starts SERVING. Panics on nil logger.
func NewReporter(logger log.Logger) *Reporter {
	logger = helpers.NilPanic(logger, "grpchealth.health.go: logger is required")
	return &Reporter{
		server: health.NewServer(),
		logger: log.With(logger, "component", "GRPCHealth"),
		known:  make(map[string]healthpb.HealthCheckResponse_ServingStatus),
	}
}

// Register attaches the health service to s.
func (r *Reporter) Register(s *grpc.Server) {
	healthpb.RegisterHealthServer(s, r.server)
}

// HealthServer returns the underlying health server (tests call Check on it directly).
func (r *Reporter) HealthServer() healthpb.HealthServer {
	return r.server
}

// OnSweep updates every service status from the summaries. Services that vanished from the registry
// are reported NOT_SERVING rather than forgotten, so watchers see the transition.
//
// Called from service.Registry.Sweep after every pass.
func (r *Reporter) OnSweep(services []domain.ServiceSummary) {
	seen := make(map[string]bool, len(services))

	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range services {
		seen[s.Name] = true
		status := healthpb.HealthCheckResponse_NOT_SERVING
		if s.Up > 0 {
			status = healthpb.HealthCheckResponse_SERVING
		}
		r.set(s.Name, status)
	}
	for name := range r.known {
		if !seen[name] {
			r.set(name, healthpb.HealthCheckResponse_NOT_SERVING)
		}
	}
}

// Shutdown sets every status to NOT_SERVING and ignores later updates.
//
// Called from cmd/main before stopping the gRPC server.
func (r *Reporter) Shutdown() {
	r.server.Shutdown()
}

// set must be called with r.mu held.
func (r *Reporter) set(name string, status healthpb.HealthCheckResponse_ServingStatus) {
	if prev, ok := r.known[name]; ok && prev == status {
		return
	}
	r.known[name] = status
	r.server.SetServingStatus(name, status)
	level.Debug(r.logger).Log("msg", "health status changed", "service", name, "status", status.String())
}
