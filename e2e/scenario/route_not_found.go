package scenario

import (
	"context"
	"net/http"
	"time"
)

const scenarioRouteNotFound = "route_not_found"

const codeRouteNotFound = "route_not_found"

// unroutedPath must not fall under any configured prefix.
const unroutedPath = "/__edgemesh_unrouted__/x"

func init() {
	Register(scenarioRouteNotFound, runRouteNotFound)
}

func runRouteNotFound(ctx context.Context, cfg *Config) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	resp, err := call(ctx, cfg, http.MethodGet, unroutedPath, "", nil)
	if err != nil {
		return err
	}
	return resp.expect("unrouted", http.StatusNotFound, codeRouteNotFound)
}
