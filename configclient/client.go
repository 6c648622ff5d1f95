// Package configclient pulls property sources from the config server at startup and, when started,
// polls for changes on a cron schedule. Properties are bootstrap input: an unreachable server is
// logged and the process keeps running on its environment alone.
package configclient

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"sync"
	"time"

	"edgemesh/helpers"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/robfig/cron/v3"
)

// PropertySource is one named key/value source, most specific first in Environment.PropertySources.
type PropertySource struct {
	Name   string            `json:"name"`
	Source map[string]string `json:"source"`
}

// Environment is the body of GET /config/{service}/{profile}.
type Environment struct {
	Name            string           `json:"name"`
	Profiles        []string         `json:"profiles"`
	Version         string           `json:"version"`
	PropertySources []PropertySource `json:"propertySources"`
}

// Flatten merges the sources into one map; the first source holding a key wins.
func (e Environment) Flatten() map[string]string {
	out := make(map[string]string)
	for _, ps := range e.PropertySources {
		for k, v := range ps.Source {
			if _, ok := out[k]; !ok {
				out[k] = v
			}
		}
	}
	return out
}

// Client fetches and caches the properties of one (service, profile).
type Client struct {
	baseURL string
	service string
	profile string
	client  *http.Client
	logger  log.Logger

	mu        sync.RWMutex
	props     map[string]string
	version   string
	listeners []func(map[string]string)

	cron *cron.Cron
}

// New creates a Client. Panics on empty baseURL, service or profile, or nil client/logger.
//
// Called from Bootstrap; tests call it directly with an httptest server URL.
func New(baseURL, service, profile string, client *http.Client, logger log.Logger) *Client {
	logger = helpers.NilPanic(logger, "configclient.client.go: logger is required")
	return &Client{
		baseURL: helpers.StrPanic(baseURL, "configclient.client.go: baseURL is required"),
		service: helpers.StrPanic(service, "configclient.client.go: service is required"),
		profile: helpers.StrPanic(profile, "configclient.client.go: profile is required"),
		client:  helpers.NilPanic(client, "configclient.client.go: http client is required"),
		logger:  log.With(logger, "component", "ConfigClient", "service", service, "profile", profile),
		props:   map[string]string{},
	}
}

// Fetch performs GET /config/{service}/{profile}.
func (c *Client) Fetch(ctx context.Context) (Environment, error) {
	reqURL := c.baseURL + "/config/" + url.PathEscape(c.service) + "/" + url.PathEscape(c.profile)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return Environment{}, err
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return Environment{}, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return Environment{}, fmt.Errorf("config server returned %d", resp.StatusCode)
	}
	var env Environment
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return Environment{}, fmt.Errorf("decode config response: %w", err)
	}
	return env, nil
}

// Refresh fetches and stores the properties. When the version changed after a previous successful load,
// OnChange listeners are called with the new properties (outside the lock).
//
// Returns: (changed, nil) on success; (false, err) when the server is unreachable, the cache is kept.
func (c *Client) Refresh(ctx context.Context) (bool, error) {
	env, err := c.Fetch(ctx)
	if err != nil {
		return false, err
	}
	props := env.Flatten()

	c.mu.Lock()
	first := c.version == ""
	changed := env.Version != c.version
	c.props = props
	c.version = env.Version
	listeners := append([]func(map[string]string){}, c.listeners...)
	c.mu.Unlock()

	if changed && !first {
		level.Info(c.logger).Log("msg", "configuration changed", "version", env.Version)
		for _, fn := range listeners {
			fn(copyMap(props))
		}
	}
	return changed, nil
}

// Version returns the version of the last successful load ("" before any).
func (c *Client) Version() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.version
}

// Properties returns a copy of the cached properties.
func (c *Client) Properties() map[string]string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return copyMap(c.props)
}

// Lookup returns the cached property key.
func (c *Client) Lookup(key string) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.props[key]
	return v, ok
}

// Getenv returns the environment variable key when set and non-empty, else the remote property.
// It has the signature of os.Getenv so LoadConfig functions accept either.
func (c *Client) Getenv(key string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	v, _ := c.Lookup(key)
	return v
}

// OnChange registers fn to be called with the new properties after every change detected by Refresh.
func (c *Client) OnChange(fn func(map[string]string)) {
	c.mu.Lock()
	c.listeners = append(c.listeners, helpers.NilPanic(fn, "configclient.client.go: listener is required"))
	c.mu.Unlock()
}

// Start polls the server every interval on a cron schedule. Failures are logged and retried on the next run.
//
// Called from the gateway cmd/main after bootstrap; Stop must be called on shutdown.
func (c *Client) Start(interval time.Duration) error {
	if interval <= 0 {
		return fmt.Errorf("poll interval must be positive, got %s", interval)
	}
	c.cron = cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))
	if _, err := c.cron.AddFunc("@every "+interval.String(), c.poll); err != nil {
		return fmt.Errorf("schedule config polling: %w", err)
	}
	c.cron.Start()
	level.Info(c.logger).Log("msg", "config polling started", "interval", interval)
	return nil
}

// Stop stops polling and waits for a running poll to finish. Safe to call without Start.
func (c *Client) Stop() {
	if c.cron == nil {
		return
	}
	<-c.cron.Stop().Done()
}

func (c *Client) poll() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if _, err := c.Refresh(ctx); err != nil {
		level.Warn(c.logger).Log("msg", "config refresh failed, keeping last properties", "err", err)
	}
}

func copyMap(in map[string]string) map[string]string {
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
