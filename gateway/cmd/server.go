package main

import (
	"net/http"

	"edgemesh/gateway/service"
	"edgemesh/myerror"
	"edgemesh/registry/api"
	"edgemesh/registry/handlers"
	"edgemesh/registry/interfaces"

	"github.com/go-kit/log"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// newPublicServer builds the edge-facing echo server: /health, /metrics and every other path through
// the proxy. The registry API is never mounted here, so /registry/... is routed like any client path.
func newPublicServer(matcher *service.RouteMatcher, proxy *service.Proxy, logger log.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())
	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{Generator: uuid.NewString}))
	fallback := myerror.NewHTTPErrorHandler(myerror.NewErrorCodeToStatusCodeMaps(), logger).Handler
	e.HTTPErrorHandler = service.GatewayErrorHandler(fallback, logger)

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]any{"status": "UP", "routes": len(matcher.Rules())})
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	e.Any("/*", proxy.Handler)
	return e
}

// newRegistryServer builds the internal echo server for the embedded registry API (REGISTRY_PORT).
//
// Returns: (*echo.Echo, nil) on success; (nil, error) when the OpenAPI document fails to load.
func newRegistryServer(registry interfaces.Registry, logger log.Logger) (*echo.Echo, error) {
	validator, err := handlers.NewOpenAPIValidator(api.Spec)
	if err != nil {
		return nil, err
	}
	httpServer := handlers.NewHTTPServer(registry, logger)

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())
	myerror.RegisterErrorHandler(e, logger)
	handlers.RegisterHandlers(e, httpServer, validator)
	e.GET("/health", httpServer.Health)
	return e, nil
}
