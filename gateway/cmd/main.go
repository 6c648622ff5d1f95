// Package main is the entry point of the gateway. It loads configuration (env, optional config
// server) and the route table, builds the resolver (remote registry behind a cache, or an embedded
// registry), and serves every path through the proxy on echo. An embedded registry serves its API on a
// separate internal port. Routes are reloaded on SIGHUP and on config-server changes; SIGINT/SIGTERM
// stop background loops and the servers.
package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"edgemesh/configclient"
	"edgemesh/gateway/adapters"
	"edgemesh/gateway/interfaces"
	"edgemesh/gateway/service"
	registryservice "edgemesh/registry/service"
	"edgemesh/token"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	// Initialize logger
	logger := log.NewLogfmtLogger(log.NewSyncWriter(os.Stderr))
	logger = log.WithPrefix(logger, "ts", log.DefaultTimestampUTC)
	logger = log.WithPrefix(logger, "caller", log.DefaultCaller)

	level.Info(logger).Log("msg", "Starting gateway service")

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		level.Warn(logger).Log("msg", "Failed to read .env", "err", err)
	}
	configClient, getenv := configclient.Bootstrap("gateway", logger)

	// Load configuration
	config, err := LoadConfig(getenv)
	if err != nil {
		level.Error(logger).Log("msg", "Failed to load configuration", "err", err)
		os.Exit(1)
	}
	level.Info(logger).Log(
		"msg", "Configuration loaded",
		"service_port_http", config.HTTPPort,
		"routes", len(config.Routes.Routes),
		"registry_mode", config.RegistryMode,
		"registry_url", config.RegistryURL,
		"registry_port", config.RegistryPort,
	)

	matcher, err := service.NewRouteMatcher(config.Routes)
	if err != nil {
		level.Error(logger).Log("msg", "Invalid route config", "err", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	var wg sync.WaitGroup

	var resolver interfaces.Resolver
	var registry *registryservice.Registry
	switch config.RegistryMode {
	case RegistryModeEmbedded:
		timeProvider := registryservice.NewTimeProvider(func() time.Time { return time.Now().UTC() })
		registry = registryservice.NewRegistry(config.Registry, timeProvider, registryservice.NewMetrics(prometheus.DefaultRegisterer), logger)
		resolver = adapters.InProcessRegistry(registry)
		wg.Add(1)
		go func() {
			defer wg.Done()
			registry.Run(ctx)
		}()
	default:
		cache := service.NewCachingResolver(
			adapters.RegistryHTTP(config.RegistryURL, &http.Client{Timeout: 5 * time.Second}),
			service.NewTimeProvider(func() time.Time { return time.Now().UTC() }),
			config.ResolverRefresh,
			logger,
		)
		resolver = cache
		wg.Add(1)
		go func() {
			defer wg.Done()
			cache.Run(ctx)
		}()
	}

	var proxy *service.Proxy
	{
		validator := token.NewValidator(config.SigningKey, time.Now)
		proxy = service.NewProxy(
			matcher,
			validator,
			resolver,
			service.NewTransport(config.Proxy),
			service.NewMetrics(prometheus.DefaultRegisterer),
			logger,
			config.Proxy,
		)
	}

	// Create HTTP servers (Echo): the public edge and, in embedded mode, the internal registry API
	e := newPublicServer(matcher, proxy, logger)
	var registryEcho *echo.Echo
	if registry != nil {
		registryEcho, err = newRegistryServer(registry, logger)
		if err != nil {
			level.Error(logger).Log("msg", "Failed to load OpenAPI document", "err", err)
			os.Exit(1)
		}
	}

	if configClient != nil {
		configClient.OnChange(func(map[string]string) {
			reloadRoutes(matcher, configClient.Getenv, config.ConfigPath, logger, "config_server")
		})
		if err := configClient.Start(config.ConfigPollInterval); err != nil {
			level.Warn(logger).Log("msg", "Config polling disabled", "err", err)
		}
	}

	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)
	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-ctx.Done():
				return
			case <-hup:
				reloadRoutes(matcher, getenv, config.ConfigPath, logger, "sighup")
			}
		}
	}()

	go func() {
		addr := fmt.Sprintf(":%d", config.HTTPPort)
		level.Info(logger).Log("msg", "Starting HTTP server", "addr", addr)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			level.Error(logger).Log("msg", "HTTP server error", "err", err)
		}
	}()

	if registryEcho != nil {
		go func() {
			addr := fmt.Sprintf(":%d", config.RegistryPort)
			level.Info(logger).Log("msg", "Starting registry HTTP server", "addr", addr)
			if err := registryEcho.Start(addr); err != nil && err != http.ErrServerClosed {
				level.Error(logger).Log("msg", "Registry HTTP server error", "err", err)
			}
		}()
	}

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	level.Info(logger).Log("msg", "Shutting down server...")

	if configClient != nil {
		configClient.Stop()
	}
	signal.Stop(hup)
	cancel()
	wg.Wait()

	// Graceful shutdown with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		level.Error(logger).Log("msg", "Error during server shutdown", "err", err)
	}
	if registryEcho != nil {
		if err := registryEcho.Shutdown(shutdownCtx); err != nil {
			level.Error(logger).Log("msg", "Error during registry server shutdown", "err", err)
		}
	}

	level.Info(logger).Log("msg", "Server stopped")
}
