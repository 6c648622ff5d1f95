package configclient

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
)

// DefaultProfile is used when CONFIG_PROFILE is unset.
const DefaultProfile = "default"

// Bootstrap reads CONFIG_SERVER_URL and CONFIG_PROFILE from the environment. Without a URL it returns
// (nil, os.Getenv). Otherwise it loads the properties once (failures are logged, not returned) and
// returns the client with its Getenv, so env vars override remote properties.
//
// Called at the top of every cmd/main before LoadConfig.
func Bootstrap(service string, logger log.Logger) (*Client, func(string) string) {
	baseURL := os.Getenv("CONFIG_SERVER_URL")
	if baseURL == "" {
		return nil, os.Getenv
	}
	profile := os.Getenv("CONFIG_PROFILE")
	if profile == "" {
		profile = DefaultProfile
	}
	c := New(baseURL, service, profile, &http.Client{Timeout: 5 * time.Second}, logger)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if _, err := c.Refresh(ctx); err != nil {
		level.Warn(c.logger).Log("msg", "config server unreachable, continuing with environment only", "err", err)
	} else {
		level.Info(c.logger).Log("msg", "configuration loaded", "version", c.Version())
	}
	return c, c.Getenv
}
