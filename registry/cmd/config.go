package main

import (
	"fmt"

	"edgemesh/helpers"
	"edgemesh/registry/service"
)

// RegistryConfig is the registry process configuration.
type RegistryConfig struct {
	HTTPPort int
	// GRPCHealthPort serves grpc.health.v1; 0 disables it.
	GRPCHealthPort int
	Registry       service.Config
}

// LoadConfig reads the configuration through getenv (os.Getenv, or the config client's Getenv).
//
// SERVICE_PORT_HTTP is required; GRPC_HEALTH_PORT is optional. Registry tuning is read by
// service.ConfigFromEnv.
func LoadConfig(getenv helpers.Getenv) (*RegistryConfig, error) {
	httpPort, err := helpers.RequiredPort(getenv, "SERVICE_PORT_HTTP")
	if err != nil {
		return nil, err
	}
	grpcPort, err := helpers.EnvInt(getenv, "GRPC_HEALTH_PORT", 0)
	if err != nil {
		return nil, err
	}
	if grpcPort < 0 || grpcPort > 65535 {
		return nil, fmt.Errorf("invalid GRPC_HEALTH_PORT: %d out of range", grpcPort)
	}
	if grpcPort != 0 && grpcPort == httpPort {
		return nil, fmt.Errorf("GRPC_HEALTH_PORT must differ from SERVICE_PORT_HTTP")
	}

	registryConfig, err := service.ConfigFromEnv(getenv)
	if err != nil {
		return nil, err
	}

	return &RegistryConfig{
		HTTPPort:       httpPort,
		GRPCHealthPort: grpcPort,
		Registry:       registryConfig,
	}, nil
}
