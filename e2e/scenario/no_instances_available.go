package scenario

import (
	"context"
	"fmt"
	"net/http"
	"time"
)

const scenarioNoInstancesAvailable = "no_instances_available"

const codeServiceUnavailable = "service_unavailable"

func init() {
	Register(scenarioNoInstancesAvailable, runNoInstancesAvailable)
}

// runNoInstancesAvailable calls a route whose service has no instances with a valid token and expects
// 503. Skipped when cfg.UnavailablePath is empty.
func runNoInstancesAvailable(ctx context.Context, cfg *Config) error {
	if cfg.UnavailablePath == "" {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, token, err := NewUser(ctx, cfg, "unavail")
	if err != nil {
		return fmt.Errorf("new user: %w", err)
	}
	resp, err := call(ctx, cfg, http.MethodGet, cfg.UnavailablePath, "Bearer "+token, nil)
	if err != nil {
		return err
	}
	return resp.expect("unavailable", http.StatusServiceUnavailable, codeServiceUnavailable)
}
