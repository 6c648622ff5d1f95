package main

import (
	"edgemesh/gateway/service"
	"edgemesh/helpers"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
)

// reloadRoutes loads the routes again (ROUTES_YAML property, else the file at path) and swaps the
// matcher's table. A load or validation failure keeps the current table and is logged.
//
// Parameters: trigger: what caused the reload ("sighup", "config_server"), for the log line.
//
// Returns: true when the table was replaced.
//
// Called from main on SIGHUP and from the config client's OnChange callback.
func reloadRoutes(matcher *service.RouteMatcher, getenv helpers.Getenv, path string, logger log.Logger, trigger string) bool {
	cfg, err := loadRoutes(getenv, path)
	if err == nil {
		err = matcher.Reload(cfg)
	}
	if err != nil {
		level.Error(logger).Log("msg", "route reload rejected, keeping current table", "trigger", trigger, "err", err)
		return false
	}
	level.Info(logger).Log("msg", "routes reloaded", "trigger", trigger, "routes", len(cfg.Routes))
	return true
}
