package main

import (
	"fmt"
	"os"
	"path/filepath"

	"edgemesh/helpers"
)

// ConfigServerConfig is the config server configuration.
type ConfigServerConfig struct {
	HTTPPort int
	// Dir holds the {service}[-{profile}].yml files; absolute.
	Dir string
}

// LoadConfig reads SERVICE_PORT_HTTP and CONFIG_DIR (both required; CONFIG_DIR must be a directory).
func LoadConfig(getenv helpers.Getenv) (*ConfigServerConfig, error) {
	httpPort, err := helpers.RequiredPort(getenv, "SERVICE_PORT_HTTP")
	if err != nil {
		return nil, err
	}
	dir := getenv("CONFIG_DIR")
	if dir == "" {
		return nil, fmt.Errorf("CONFIG_DIR is required")
	}
	dir, err = filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("invalid CONFIG_DIR: %w", err)
	}
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("invalid CONFIG_DIR: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("invalid CONFIG_DIR: %s is not a directory", dir)
	}
	return &ConfigServerConfig{HTTPPort: httpPort, Dir: dir}, nil
}
