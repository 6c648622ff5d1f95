package scenario

import (
	"context"
	"fmt"
	"time"
)

const scenarioRoundRobin = "round_robin"

func init() {
	Register(scenarioRoundRobin, runRoundRobin)
}

// runRoundRobin checks that consecutive calls spread over at least cfg.MinEchoInstances echo
// instances. Nothing to check when fewer than two are expected.
func runRoundRobin(ctx context.Context, cfg *Config) error {
	if cfg.MinEchoInstances < 2 {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, token, err := NewUser(ctx, cfg, "rr")
	if err != nil {
		return fmt.Errorf("new user: %w", err)
	}

	seen := map[string]int{}
	for i := 0; i < 2*cfg.MinEchoInstances; i++ {
		res, err := Echo(ctx, cfg, token)
		if err != nil {
			return fmt.Errorf("echo (iteration %d): %w", i, err)
		}
		seen[res.Instance]++
	}
	if len(seen) < cfg.MinEchoInstances {
		return fmt.Errorf("expected calls on %d instances, got %v", cfg.MinEchoInstances, seen)
	}
	return nil
}
