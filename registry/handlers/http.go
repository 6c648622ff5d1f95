// Package handlers contains the registry HTTP surface described by api/registry.openapi.yaml.
package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"edgemesh/helpers"
	"edgemesh/myerror"
	"edgemesh/registry/domain"
	"edgemesh/registry/interfaces"

	"github.com/go-kit/log"
	"github.com/labstack/echo/v4"
)

// HTTPServer implements ServerInterface over an interfaces.Registry.
type HTTPServer struct {
	registry interfaces.Registry
	logger   log.Logger
}

// NewHTTPServer creates a new HTTPServer. Panics on nil registry or logger.
func NewHTTPServer(registry interfaces.Registry, logger log.Logger) *HTTPServer {
	logger = helpers.NilPanic(logger, "handlers.http.go: logger is required")
	return &HTTPServer{
		registry: helpers.NilPanic(registry, "handlers.http.go: registry is required"),
		logger:   log.WithPrefix(logger, "component", "HTTPServer"),
	}
}

// RegisterInstance (POST /registry/{service}/{instance}) registers or refreshes the instance. Returns 200
// with the lease, 400 on a bad body.
func (h *HTTPServer) RegisterInstance(ectx echo.Context, service string, instance string) error {
	var req RegisterRequest
	if err := ectx.Bind(&req); err != nil {
		return myerror.NewBadParameterError("invalid request body", err)
	}

	stored, err := h.registry.Register(fromRegisterRequest(service, instance, req))
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInstance) {
			return myerror.NewBadParameterError(err.Error(), err)
		}
		return fmt.Errorf("registerInstance failed to register %s/%s, err: %w", service, instance, err)
	}
	return ectx.JSON(http.StatusOK, toLeaseResponse(stored))
}

// RenewInstance (PUT /registry/{service}/{instance}) extends the lease. 404 when not registered; the
// client reacts by registering again.
func (h *HTTPServer) RenewInstance(ectx echo.Context, service string, instance string) error {
	renewed, err := h.registry.Renew(service, instance)
	if err != nil {
		return h.notFoundOr(err, "renewInstance")
	}
	return ectx.JSON(http.StatusOK, toLeaseResponse(renewed))
}

// DeregisterInstance (DELETE /registry/{service}/{instance}) removes the instance immediately.
func (h *HTTPServer) DeregisterInstance(ectx echo.Context, service string, instance string) error {
	if err := h.registry.Deregister(service, instance); err != nil {
		return h.notFoundOr(err, "deregisterInstance")
	}
	return ectx.NoContent(http.StatusOK)
}

// MarkInstanceDown (POST /registry/{service}/{instance}/down) takes the instance out of rotation until it renews.
func (h *HTTPServer) MarkInstanceDown(ectx echo.Context, service string, instance string) error {
	if err := h.registry.MarkDown(service, instance); err != nil {
		return h.notFoundOr(err, "markInstanceDown")
	}
	return ectx.NoContent(http.StatusOK)
}

// ResolveService (GET /registry/{service}) returns the routable instances; an empty array, not 404, when none.
func (h *HTTPServer) ResolveService(ectx echo.Context, service string) error {
	return ectx.JSON(http.StatusOK, toInstancesResponse(h.registry.Resolve(service)))
}

// ListServices (GET /registry) returns the per-service summary.
func (h *HTTPServer) ListServices(ectx echo.Context) error {
	return ectx.JSON(http.StatusOK, toServicesResponse(h.registry.Services()))
}

func (h *HTTPServer) notFoundOr(err error, op string) error {
	if errors.Is(err, domain.ErrInstanceNotFound) {
		return myerror.NewEntityNotFoundError("instance not registered", err)
	}
	return fmt.Errorf("%s failed, err: %w", op, err)
}

// Health (GET /health) reports process liveness with the number of known services.
func (h *HTTPServer) Health(ectx echo.Context) error {
	return ectx.JSON(http.StatusOK, map[string]any{"status": "UP", "services": len(h.registry.Services())})
}
