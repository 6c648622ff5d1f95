// Package handlers is the HTTP surface of the config server.
package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"edgemesh/configserver/domain"
	"edgemesh/configserver/interfaces"
	"edgemesh/helpers"
	"edgemesh/myerror"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/labstack/echo/v4"
)

// EchoRouter is satisfied by *echo.Echo and *echo.Group.
type EchoRouter interface {
	GET(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
}

// HTTPServer serves environments from an interfaces.Repository.
type HTTPServer struct {
	repo   interfaces.Repository
	logger log.Logger
}

// NewHTTPServer creates a new HTTPServer. Panics on nil repo or logger.
func NewHTTPServer(repo interfaces.Repository, logger log.Logger) *HTTPServer {
	logger = helpers.NilPanic(logger, "handlers.http.go: logger is required")
	return &HTTPServer{
		repo:   helpers.NilPanic(repo, "handlers.http.go: repo is required"),
		logger: log.WithPrefix(logger, "component", "HTTPServer"),
	}
}

// RegisterHandlers mounts the config routes and /health.
func RegisterHandlers(router EchoRouter, server *HTTPServer) {
	router.GET("/config/:service", server.GetDefaultEnvironment)
	router.GET("/config/:service/:profile", server.GetEnvironment)
	router.GET("/health", server.Health)
}

// GetEnvironment (GET /config/{service}/{profile}) returns the property sources, most specific
// first. profile may be a comma separated list. 400 for unsafe names.
func (h *HTTPServer) GetEnvironment(ectx echo.Context) error {
	return h.find(ectx, ectx.Param("service"), ectx.Param("profile"))
}

// GetDefaultEnvironment (GET /config/{service}) is GetEnvironment for the default profile.
func (h *HTTPServer) GetDefaultEnvironment(ectx echo.Context) error {
	return h.find(ectx, ectx.Param("service"), "")
}

func (h *HTTPServer) find(ectx echo.Context, service, rawProfiles string) error {
	profiles, err := domain.ParseProfiles(rawProfiles)
	if err != nil {
		return myerror.NewBadParameterError("invalid profile", err)
	}
	env, err := h.repo.Find(ectx.Request().Context(), service, profiles)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidName) {
			return myerror.NewBadParameterError("invalid service name", err)
		}
		return fmt.Errorf("find environment %s/%v, err: %w", service, profiles, err)
	}
	level.Debug(h.logger).Log("msg", "environment served", "service", service, "version", env.Version, "sources", len(env.PropertySources))
	return ectx.JSON(http.StatusOK, env)
}

// Health (GET /health) reports process liveness.
func (h *HTTPServer) Health(ectx echo.Context) error {
	return ectx.JSON(http.StatusOK, map[string]string{"status": "UP"})
}
