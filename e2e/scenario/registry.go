// Package scenario holds end-to-end scenarios that drive a running edgemesh deployment through
// the gateway only, the way an outside client would.
package scenario

import "context"

// Runner runs a single scenario with the given config. Each scenario builds its own client.
type Runner func(ctx context.Context, cfg *Config) error

var scenarios = make(map[string]Runner)

// Register adds a scenario by name. Call from init() in scenario files.
func Register(name string, fn Runner) {
	scenarios[name] = fn
}

// All returns all registered scenario names and their runners.
func All() map[string]Runner {
	out := make(map[string]Runner, len(scenarios))
	for k, v := range scenarios {
		out[k] = v
	}
	return out
}

// Run runs the named scenario. Returns *UnknownScenarioError when no scenario has that name.
func Run(ctx context.Context, name string, cfg *Config) error {
	fn, ok := scenarios[name]
	if !ok {
		return &UnknownScenarioError{Name: name}
	}
	return fn(ctx, cfg)
}
