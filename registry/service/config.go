package service

import (
	"fmt"

	"edgemesh/helpers"
)

// ConfigFromEnv reads the registry tuning through getenv: REGISTRY_TTL (default 30s),
// REGISTRY_SWEEP_INTERVAL (default TTL/3), SELF_PRESERVATION_THRESHOLD in (0, 1] (default 0.8) and
// SELF_PRESERVATION_MIN_INSTANCES (default 3).
//
// Called from the registry cmd and from the gateway cmd in embedded mode.
func ConfigFromEnv(getenv helpers.Getenv) (Config, error) {
	ttl, err := helpers.EnvDuration(getenv, "REGISTRY_TTL", DefaultTTL)
	if err != nil {
		return Config{}, err
	}
	sweep, err := helpers.EnvDuration(getenv, "REGISTRY_SWEEP_INTERVAL", 0)
	if err != nil {
		return Config{}, err
	}
	threshold, err := helpers.EnvFloat(getenv, "SELF_PRESERVATION_THRESHOLD", DefaultSelfPreservationThreshold)
	if err != nil {
		return Config{}, err
	}
	if threshold <= 0 || threshold > 1 {
		return Config{}, fmt.Errorf("invalid SELF_PRESERVATION_THRESHOLD: %v not in (0, 1]", threshold)
	}
	minInstances, err := helpers.EnvInt(getenv, "SELF_PRESERVATION_MIN_INSTANCES", DefaultSelfPreservationMinInstances)
	if err != nil {
		return Config{}, err
	}
	return Config{
		TTL:                          ttl,
		SweepInterval:                sweep,
		SelfPreservationThreshold:    threshold,
		SelfPreservationMinInstances: minInstances,
	}, nil
}
