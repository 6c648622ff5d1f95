// Package main runs the end-to-end scenarios against a deployed gateway.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"edgemesh/e2e/scenario"
)

const defaultGateway = "http://localhost:8080"

func main() {
	list := flag.Bool("list", false, "list available scenarios and exit")
	scenarioName := flag.String("scenario", "", "scenario to run (or pass as positional arg); \"all\" runs every scenario")
	gateway := flag.String("gateway", "", "gateway base URL (default: GATEWAY_URL env or http://localhost:8080)")
	echoPath := flag.String("echo-path", "/api/v1/expenses/echo", "protected route answered by an echo backend")
	unavailablePath := flag.String("unavailable-path", "", "protected route with no registered instances (empty skips no_instances_available)")
	minInstances := flag.Int("min-echo-instances", 1, "distinct echo instances round_robin must observe (below 2 skips it)")
	flag.Parse()

	if *gateway == "" {
		*gateway = os.Getenv("GATEWAY_URL")
	}
	if *gateway == "" {
		*gateway = defaultGateway
	}

	all := scenario.All()
	names := make([]string, 0, len(all))
	for n := range all {
		names = append(names, n)
	}
	sort.Strings(names)

	if *list {
		for _, name := range names {
			fmt.Println(name)
		}
		os.Exit(0)
	}

	name := *scenarioName
	if name == "" && flag.NArg() > 0 {
		name = flag.Arg(0)
	}
	if name == "" {
		fmt.Fprintln(os.Stderr, "usage: e2e [--list] [--scenario=NAME|all] [--gateway=URL] [--echo-path=P] [--unavailable-path=P] [--min-echo-instances=N] [scenario_name]")
		os.Exit(2)
	}

	cfg := &scenario.Config{
		GatewayURL:       *gateway,
		EchoPath:         *echoPath,
		UnavailablePath:  *unavailablePath,
		MinEchoInstances: *minInstances,
	}

	run := []string{name}
	if name == "all" {
		run = names
	}

	failed := 0
	for _, n := range run {
		ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
		err := scenario.Run(ctx, n, cfg)
		cancel()

		fmt.Printf("=== %s: ", n)
		if err != nil {
			var unknown *scenario.UnknownScenarioError
			if errors.As(err, &unknown) {
				fmt.Println("UNKNOWN")
				fmt.Fprintf(os.Stderr, "available scenarios: %s\n", strings.Join(names, ", "))
				os.Exit(2)
			}
			fmt.Printf("FAILED\n    %v\n", err)
			failed++
			continue
		}
		fmt.Println("PASSED")
	}
	if failed > 0 {
		os.Exit(1)
	}
}
