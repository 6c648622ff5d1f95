// Package main is the entry point of the service registry. It loads configuration (env, optional
// config server), builds the in-memory registry with its Prometheus metrics, mounts the OpenAPI
// validated HTTP surface on echo, optionally serves grpc.health.v1 fed by the sweeper, and runs the
// eviction sweep until SIGINT/SIGTERM, when the sweeper is cancelled and joined and both servers stop.
package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"edgemesh/configclient"
	"edgemesh/myerror"
	"edgemesh/registry/adapters/grpchealth"
	"edgemesh/registry/api"
	"edgemesh/registry/handlers"
	"edgemesh/registry/service"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"google.golang.org/grpc"
)

func main() {
	// Initialize logger
	logger := log.NewLogfmtLogger(log.NewSyncWriter(os.Stderr))
	logger = log.WithPrefix(logger, "ts", log.DefaultTimestampUTC)
	logger = log.WithPrefix(logger, "caller", log.DefaultCaller)

	level.Info(logger).Log("msg", "Starting registry service")

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		level.Warn(logger).Log("msg", "Failed to read .env", "err", err)
	}
	_, getenv := configclient.Bootstrap("registry", logger)

	// Load configuration
	config, err := LoadConfig(getenv)
	if err != nil {
		level.Error(logger).Log("msg", "Failed to load configuration", "err", err)
		os.Exit(1)
	}
	level.Info(logger).Log(
		"msg", "Configuration loaded",
		"service_port_http", config.HTTPPort,
		"grpc_health_port", config.GRPCHealthPort,
		"ttl", config.Registry.TTL,
	)

	var registry *service.Registry
	{
		timeProvider := service.NewTimeProvider(func() time.Time { return time.Now().UTC() })
		registry = service.NewRegistry(config.Registry, timeProvider, service.NewMetrics(prometheus.DefaultRegisterer), logger)
	}

	var reporter *grpchealth.Reporter
	var grpcServer *grpc.Server
	if config.GRPCHealthPort != 0 {
		reporter = grpchealth.NewReporter(logger)
		registry.AddSweepObserver(reporter)
		grpcServer = grpc.NewServer()
		reporter.Register(grpcServer)
	}

	// Create HTTP server (Echo)
	var e *echo.Echo
	{
		validator, err := handlers.NewOpenAPIValidator(api.Spec)
		if err != nil {
			level.Error(logger).Log("msg", "Failed to load OpenAPI document", "err", err)
			os.Exit(1)
		}
		httpServer := handlers.NewHTTPServer(registry, logger)

		e = echo.New()
		e.HideBanner = true
		e.Use(middleware.Recover())
		myerror.RegisterErrorHandler(e, logger)
		handlers.RegisterHandlers(e, httpServer, validator)
		e.GET("/health", httpServer.Health)
		e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
		e.GET("/openapi.yaml", func(c echo.Context) error {
			return c.Blob(http.StatusOK, "application/yaml", api.Spec)
		})
	}

	ctx, cancel := context.WithCancel(context.Background())
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		registry.Run(ctx)
	}()

	go func() {
		addr := fmt.Sprintf(":%d", config.HTTPPort)
		level.Info(logger).Log("msg", "Starting HTTP server", "addr", addr)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			level.Error(logger).Log("msg", "HTTP server error", "err", err)
		}
	}()

	if grpcServer != nil {
		lis, err := net.Listen("tcp", fmt.Sprintf(":%d", config.GRPCHealthPort))
		if err != nil {
			level.Error(logger).Log("msg", "Failed to listen for gRPC health", "err", err)
			os.Exit(1)
		}
		go func() {
			level.Info(logger).Log("msg", "Starting gRPC health server", "addr", lis.Addr().String())
			if err := grpcServer.Serve(lis); err != nil {
				level.Error(logger).Log("msg", "gRPC health server error", "err", err)
			}
		}()
	}

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	level.Info(logger).Log("msg", "Shutting down server...")

	cancel()
	wg.Wait()

	if grpcServer != nil {
		reporter.Shutdown()
		stopped := make(chan struct{})
		go func() {
			grpcServer.GracefulStop()
			close(stopped)
		}()
		select {
		case <-stopped:
		case <-time.After(5 * time.Second):
			grpcServer.Stop()
		}
	}

	// Graceful shutdown with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		level.Error(logger).Log("msg", "Error during server shutdown", "err", err)
	}

	level.Info(logger).Log("msg", "Server stopped")
}
