// Package main is the entry point of the config server. It serves the YAML files of CONFIG_DIR as
// property sources on GET /config/{service}/{profile} until SIGINT/SIGTERM.
package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"edgemesh/configserver/adapters/filerepo"
	"edgemesh/configserver/handlers"
	"edgemesh/myerror"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	// Initialize logger
	logger := log.NewLogfmtLogger(log.NewSyncWriter(os.Stderr))
	logger = log.WithPrefix(logger, "ts", log.DefaultTimestampUTC)
	logger = log.WithPrefix(logger, "caller", log.DefaultCaller)

	level.Info(logger).Log("msg", "Starting config server")

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		level.Warn(logger).Log("msg", "Failed to read .env", "err", err)
	}

	// Load configuration
	config, err := LoadConfig(os.Getenv)
	if err != nil {
		level.Error(logger).Log("msg", "Failed to load configuration", "err", err)
		os.Exit(1)
	}
	level.Info(logger).Log("msg", "Configuration loaded", "service_port_http", config.HTTPPort, "config_dir", config.Dir)

	// Create HTTP server (Echo)
	var e *echo.Echo
	{
		e = echo.New()
		e.HideBanner = true
		e.Use(middleware.Recover())
		e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{Generator: uuid.NewString}))
		myerror.RegisterErrorHandler(e, logger)
		handlers.RegisterHandlers(e, handlers.NewHTTPServer(filerepo.New(config.Dir, logger), logger))
		e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	}

	go func() {
		addr := fmt.Sprintf(":%d", config.HTTPPort)
		level.Info(logger).Log("msg", "Starting HTTP server", "addr", addr)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			level.Error(logger).Log("msg", "HTTP server error", "err", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	level.Info(logger).Log("msg", "Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		level.Error(logger).Log("msg", "Error during server shutdown", "err", err)
	}

	level.Info(logger).Log("msg", "Server stopped")
}
