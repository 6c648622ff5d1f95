package handlers

import (
	"time"

	"github.com/labstack/echo/v4"
)

// RegisterRequest is the body of POST /registry/{service}/{instance}.
type RegisterRequest struct {
	Host string `json:"host"`
	Port int    `json:"port"`
}

// LeaseResponse is returned by register and renew.
type LeaseResponse struct {
	Service     string    `json:"service"`
	InstanceId  string    `json:"instanceId"`
	LeaseId     string    `json:"leaseId"`
	Status      string    `json:"status"`
	LeaseExpiry time.Time `json:"leaseExpiry"`
}

// InstanceInfo is one element of the resolve response.
type InstanceInfo struct {
	InstanceId  string    `json:"instanceId"`
	Host        string    `json:"host"`
	Port        int       `json:"port"`
	Status      string    `json:"status"`
	LeaseExpiry time.Time `json:"leaseExpiry"`
}

// ServiceSummary is one element of ServicesResponse.
type ServiceSummary struct {
	Name             string `json:"name"`
	Total            int    `json:"total"`
	Up               int    `json:"up"`
	SelfPreservation bool   `json:"selfPreservation"`
}

// ServicesResponse is the body of GET /registry.
type ServicesResponse struct {
	Services []ServiceSummary `json:"services"`
}

// ServerInterface lists the operations of api/registry.openapi.yaml.
type ServerInterface interface {
	// (GET /registry)
	ListServices(ctx echo.Context) error
	// (GET /registry/{service})
	ResolveService(ctx echo.Context, service string) error
	// (POST /registry/{service}/{instance})
	RegisterInstance(ctx echo.Context, service string, instance string) error
	// (PUT /registry/{service}/{instance})
	RenewInstance(ctx echo.Context, service string, instance string) error
	// (DELETE /registry/{service}/{instance})
	DeregisterInstance(ctx echo.Context, service string, instance string) error
	// (POST /registry/{service}/{instance}/down)
	MarkInstanceDown(ctx echo.Context, service string, instance string) error
}

// ServerInterfaceWrapper converts echo contexts to parameters.
type ServerInterfaceWrapper struct {
	Handler ServerInterface
}

func (w *ServerInterfaceWrapper) ListServices(ctx echo.Context) error {
	return w.Handler.ListServices(ctx)
}

func (w *ServerInterfaceWrapper) ResolveService(ctx echo.Context) error {
	return w.Handler.ResolveService(ctx, ctx.Param("service"))
}

func (w *ServerInterfaceWrapper) RegisterInstance(ctx echo.Context) error {
	return w.Handler.RegisterInstance(ctx, ctx.Param("service"), ctx.Param("instance"))
}

func (w *ServerInterfaceWrapper) RenewInstance(ctx echo.Context) error {
	return w.Handler.RenewInstance(ctx, ctx.Param("service"), ctx.Param("instance"))
}

func (w *ServerInterfaceWrapper) DeregisterInstance(ctx echo.Context) error {
	return w.Handler.DeregisterInstance(ctx, ctx.Param("service"), ctx.Param("instance"))
}

func (w *ServerInterfaceWrapper) MarkInstanceDown(ctx echo.Context) error {
	return w.Handler.MarkInstanceDown(ctx, ctx.Param("service"), ctx.Param("instance"))
}

// EchoRouter is satisfied by *echo.Echo and *echo.Group.
type EchoRouter interface {
	GET(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
	POST(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
	PUT(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
	DELETE(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
}

// RegisterHandlers adds each server route to the router; m is applied to every route.
func RegisterHandlers(router EchoRouter, si ServerInterface, m ...echo.MiddlewareFunc) {
	wrapper := ServerInterfaceWrapper{Handler: si}

	router.GET("/registry", wrapper.ListServices, m...)
	router.GET("/registry/:service", wrapper.ResolveService, m...)
	router.POST("/registry/:service/:instance", wrapper.RegisterInstance, m...)
	router.PUT("/registry/:service/:instance", wrapper.RenewInstance, m...)
	router.DELETE("/registry/:service/:instance", wrapper.DeregisterInstance, m...)
	router.POST("/registry/:service/:instance/down", wrapper.MarkInstanceDown, m...)
}
