package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"edgemesh/gateway/domain"
	"edgemesh/gateway/service"
	"edgemesh/helpers"
	registryservice "edgemesh/registry/service"
	"edgemesh/token"
)

// Env variable (or config-server property) names.
const (
	envHTTPPort              = "SERVICE_PORT_HTTP"
	envConfigPath            = "CONFIG_PATH"
	envRoutesYAML            = "ROUTES_YAML"
	envJWTSecret             = "JWT_SECRET"
	envRegistryMode          = "REGISTRY_MODE"
	envRegistryURL           = "REGISTRY_URL"
	envRegistryPort          = "REGISTRY_PORT"
	envResolverRefresh       = "RESOLVER_REFRESH_INTERVAL"
	envConnectTimeout        = "CONNECT_TIMEOUT"
	envResponseHeaderTimeout = "RESPONSE_HEADER_TIMEOUT"
	envMaxConnsPerHost       = "MAX_CONNS_PER_HOST"
	envConfigPollInterval    = "CONFIG_POLL_INTERVAL"
)

// Registry modes: remote asks a registry process over HTTP through a cache; embedded runs the
// registry inside the gateway and serves its API on a separate internal port (REGISTRY_PORT).
const (
	RegistryModeRemote   = "remote"
	RegistryModeEmbedded = "embedded"
)

const (
	defaultResolverRefresh    = 5 * time.Second
	defaultRegistryPort       = 8761
	defaultConfigPollInterval = 30 * time.Second
)

// GatewayConfig holds the full gateway configuration loaded by LoadConfig.
type GatewayConfig struct {
	HTTPPort int
	// ConfigPath is the absolute path of the routes YAML file; empty when routes come from ROUTES_YAML.
	ConfigPath string
	Routes     domain.RouteConfig
	SigningKey []byte

	RegistryMode    string
	RegistryURL     string
	ResolverRefresh time.Duration
	// Registry tunes the embedded registry (RegistryModeEmbedded only).
	Registry registryservice.Config
	// RegistryPort is the internal listener for the embedded registry API; 0 in remote mode.
	RegistryPort int

	Proxy              service.ProxyConfig
	ConfigPollInterval time.Duration
}

// LoadConfig builds the gateway config through getenv (os.Getenv, or the config client's Getenv so
// env vars override config-server properties). Reads SERVICE_PORT_HTTP (required), JWT_SECRET
// (required, see token.LoadSigningKey), routes from ROUTES_YAML or the file at CONFIG_PATH (one of
// them is required), REGISTRY_MODE (remote|embedded; defaults to remote when REGISTRY_URL is set,
// embedded otherwise), REGISTRY_URL (required for remote), REGISTRY_PORT (embedded only, 8761, must
// differ from SERVICE_PORT_HTTP), RESOLVER_REFRESH_INTERVAL (5s),
// CONNECT_TIMEOUT (5s), RESPONSE_HEADER_TIMEOUT (10s), MAX_CONNS_PER_HOST (64) and
// CONFIG_POLL_INTERVAL (30s).
//
// Returns: (*GatewayConfig, nil) on success; (nil, error) on any missing or invalid value. A
// signing key failure is an error so the process never starts without one.
//
// Called only from main at startup.
func LoadConfig(getenv helpers.Getenv) (*GatewayConfig, error) {
	httpPort, err := helpers.RequiredPort(getenv, envHTTPPort)
	if err != nil {
		return nil, err
	}

	signingKey, err := token.LoadSigningKey(getenv(envJWTSecret))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", envJWTSecret, err)
	}

	configPath := strings.TrimSpace(getenv(envConfigPath))
	if configPath != "" && !filepath.IsAbs(configPath) {
		abs, absErr := filepath.Abs(configPath)
		if absErr != nil {
			return nil, absErr
		}
		configPath = abs
	}
	routes, err := loadRoutes(getenv, configPath)
	if err != nil {
		return nil, err
	}

	registryURL := strings.TrimRight(strings.TrimSpace(getenv(envRegistryURL)), "/")
	mode := strings.TrimSpace(getenv(envRegistryMode))
	if mode == "" {
		mode = RegistryModeEmbedded
		if registryURL != "" {
			mode = RegistryModeRemote
		}
	}
	var registryConfig registryservice.Config
	var registryPort int
	switch mode {
	case RegistryModeRemote:
		if registryURL == "" {
			return nil, fmt.Errorf("%s is required when %s=%s", envRegistryURL, envRegistryMode, RegistryModeRemote)
		}
	case RegistryModeEmbedded:
		registryConfig, err = registryservice.ConfigFromEnv(getenv)
		if err != nil {
			return nil, err
		}
		registryPort, err = helpers.EnvInt(getenv, envRegistryPort, defaultRegistryPort)
		if err != nil {
			return nil, err
		}
		if registryPort < 1 || registryPort > 65535 {
			return nil, fmt.Errorf("%s must be a port number, got %d", envRegistryPort, registryPort)
		}
		if registryPort == httpPort {
			return nil, fmt.Errorf("%s must differ from %s", envRegistryPort, envHTTPPort)
		}
	default:
		return nil, fmt.Errorf("%s must be %s|%s, got %q", envRegistryMode, RegistryModeRemote, RegistryModeEmbedded, mode)
	}

	refresh, err := positiveDuration(getenv, envResolverRefresh, defaultResolverRefresh)
	if err != nil {
		return nil, err
	}
	connectTimeout, err := positiveDuration(getenv, envConnectTimeout, service.DefaultConnectTimeout)
	if err != nil {
		return nil, err
	}
	headerTimeout, err := positiveDuration(getenv, envResponseHeaderTimeout, service.DefaultResponseHeaderTimeout)
	if err != nil {
		return nil, err
	}
	maxConns, err := helpers.EnvInt(getenv, envMaxConnsPerHost, service.DefaultMaxConnsPerHost)
	if err != nil {
		return nil, err
	}
	if maxConns < 1 {
		return nil, fmt.Errorf("%s must be a positive integer, got %d", envMaxConnsPerHost, maxConns)
	}
	pollInterval, err := positiveDuration(getenv, envConfigPollInterval, defaultConfigPollInterval)
	if err != nil {
		return nil, err
	}

	return &GatewayConfig{
		HTTPPort:        httpPort,
		ConfigPath:      configPath,
		Routes:          routes,
		SigningKey:      signingKey,
		RegistryMode:    mode,
		RegistryURL:     registryURL,
		ResolverRefresh: refresh,
		Registry:        registryConfig,
		RegistryPort:    registryPort,
		Proxy: service.ProxyConfig{
			ConnectTimeout:        connectTimeout,
			ResponseHeaderTimeout: headerTimeout,
			MaxConnsPerHost:       maxConns,
		},
		ConfigPollInterval: pollInterval,
	}, nil
}

// loadRoutes returns the route config from the ROUTES_YAML property when set, otherwise from the
// file at path.
//
// Called from LoadConfig at startup and from reloadRoutes on SIGHUP and config-server changes.
func loadRoutes(getenv helpers.Getenv, path string) (domain.RouteConfig, error) {
	if inline := getenv(envRoutesYAML); strings.TrimSpace(inline) != "" {
		cfg, err := domain.ParseRouteConfig([]byte(inline))
		if err != nil {
			return domain.RouteConfig{}, fmt.Errorf("parse %s: %w", envRoutesYAML, err)
		}
		return cfg, nil
	}
	if path == "" {
		return domain.RouteConfig{}, fmt.Errorf("%s or %s is required", envConfigPath, envRoutesYAML)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.RouteConfig{}, fmt.Errorf("load routes %s: %w", path, err)
	}
	cfg, err := domain.ParseRouteConfig(data)
	if err != nil {
		return domain.RouteConfig{}, fmt.Errorf("parse routes %s: %w", path, err)
	}
	return cfg, nil
}

func positiveDuration(getenv helpers.Getenv, key string, def time.Duration) (time.Duration, error) {
	d, err := helpers.EnvDuration(getenv, key, def)
	if err != nil {
		return 0, err
	}
	if d == 0 {
		return 0, fmt.Errorf("%s must be positive", key)
	}
	return d, nil
}
