// Package main is the entry point of the auth service: signup and login over echo, users in Redis,
// HS256 tokens, per-IP login throttling, and self-registration with the registry when REGISTRY_URL
// is set.
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

	"edgemesh/auth/adapters/redis"
	"edgemesh/auth/handlers"
	"edgemesh/auth/service"
	"edgemesh/configclient"
	"edgemesh/myerror"
	registryclient "edgemesh/registry/client"
	"edgemesh/token"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

func main() {
	// Initialize logger
	logger := log.NewLogfmtLogger(log.NewSyncWriter(os.Stderr))
	logger = log.WithPrefix(logger, "ts", log.DefaultTimestampUTC)
	logger = log.WithPrefix(logger, "caller", log.DefaultCaller)

	level.Info(logger).Log("msg", "Starting auth service")

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		level.Warn(logger).Log("msg", "Failed to read .env", "err", err)
	}
	_, getenv := configclient.Bootstrap("auth-service", logger)

	// Load configuration
	config, err := LoadConfig(getenv)
	if err != nil {
		level.Error(logger).Log("msg", "Failed to load configuration", "err", err)
		os.Exit(1)
	}
	level.Info(logger).Log(
		"msg", "Configuration loaded",
		"service_port_http", config.HTTPPort,
		"token_ttl", config.TokenTTL,
		"registry_url", config.RegistryURL,
		"instance_id", config.InstanceID,
	)

	redisClient, err := redis.NewRedisUniversalClient(config.RedisURL, redis.WithPoolSize(config.RedisPoolSize))
	if err != nil {
		level.Error(logger).Log("msg", "Failed to create redis client", "err", err)
		os.Exit(1)
	}
	defer redisClient.Close()

	var authService *service.AuthService
	{
		issuer := token.NewIssuer(config.SigningKey, config.TokenTTL, time.Now)
		authService = service.NewAuthService(redis.NewUserStore(redisClient), issuer, config.BcryptCost, logger)
	}
	limiter := service.NewLoginLimiter(config.LoginRatePerMinute, config.LoginBurst, time.Now, logger)

	// Create HTTP server (Echo)
	var e *echo.Echo
	{
		e = echo.New()
		e.HideBanner = true
		e.Use(middleware.Recover())
		e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{Generator: uuid.NewString}))
		myerror.RegisterErrorHandler(e, logger)
		handlers.RegisterHandlers(e, handlers.NewHTTPServer(authService, logger), limiter.Middleware())
	}

	ctx, cancel := context.WithCancel(context.Background())
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		limiter.Run(ctx, time.Minute, 10*time.Minute)
	}()

	go func() {
		addr := fmt.Sprintf(":%d", config.HTTPPort)
		level.Info(logger).Log("msg", "Starting HTTP server", "addr", addr)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			level.Error(logger).Log("msg", "HTTP server error", "err", err)
		}
	}()

	if config.RegistryURL != "" {
		heartbeat := registryclient.NewHeartbeat(
			registryclient.New(config.RegistryURL, &http.Client{Timeout: 5 * time.Second}),
			registryclient.HeartbeatConfig{
				Service:    config.ServiceName,
				InstanceID: config.InstanceID,
				Host:       config.AdvertiseHost,
				Port:       config.HTTPPort,
				Interval:   config.HeartbeatInterval,
			},
			logger,
		)
		wg.Add(1)
		go func() {
			defer wg.Done()
			heartbeat.Run(ctx)
		}()
	}

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	level.Info(logger).Log("msg", "Shutting down server...")

	// Deregisters before the listener closes.
	cancel()
	wg.Wait()

	// Graceful shutdown with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		level.Error(logger).Log("msg", "Error during server shutdown", "err", err)
	}

	level.Info(logger).Log("msg", "Server stopped")
}
