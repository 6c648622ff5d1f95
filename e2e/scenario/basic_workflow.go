package scenario

import (
	"context"
	"fmt"
	"time"
)

const scenarioBasicWorkflow = "basic_workflow"

func init() {
	Register(scenarioBasicWorkflow, runBasicWorkflow)
}

// runBasicWorkflow signs up, logs in and calls the protected echo route several times; the backend
// must see the token subject on every call.
func runBasicWorkflow(ctx context.Context, cfg *Config) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	email, token, err := NewUser(ctx, cfg, "basic")
	if err != nil {
		return fmt.Errorf("new user: %w", err)
	}

	for i := 0; i < 4; i++ {
		res, err := Echo(ctx, cfg, token)
		if err != nil {
			return fmt.Errorf("echo (iteration %d): %w", i, err)
		}
		if res.Subject != email {
			return fmt.Errorf("echo (iteration %d): backend saw subject %q, want %q", i, res.Subject, email)
		}
	}
	return nil
}
