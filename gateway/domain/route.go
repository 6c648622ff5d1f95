// Package domain holds the gateway's routing model: the route rules loaded from YAML and the
// backend instances they resolve to.
package domain

import (
	"bytes"
	"errors"
	"io"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// RouteRule maps a path prefix to a logical service name.
// Prefix starts with "/" and matches on path-segment boundaries: "/orders" matches "/orders" and
// "/orders/1" but not "/ordersx". Public routes skip token validation.
type RouteRule struct {
	Prefix               string `yaml:"prefix"`
	Service              string `yaml:"service"`
	Public               bool   `yaml:"public"`
	StripPrefix          bool   `yaml:"strip_prefix"`
	ForwardAuthorization bool   `yaml:"forward_authorization"`
}

// Matches reports whether path falls under the rule's prefix on a segment boundary.
func (r RouteRule) Matches(path string) bool {
	if r.Prefix == "/" {
		return strings.HasPrefix(path, "/")
	}
	if !strings.HasPrefix(path, r.Prefix) {
		return false
	}
	return len(path) == len(r.Prefix) || path[len(r.Prefix)] == '/'
}

// UpstreamPath returns the path forwarded to the backend: path itself, or path without the prefix
// when StripPrefix is set ("/" when nothing is left).
func (r RouteRule) UpstreamPath(path string) string {
	if !r.StripPrefix || r.Prefix == "/" {
		return path
	}
	rest := strings.TrimPrefix(path, r.Prefix)
	if rest == "" {
		return "/"
	}
	return rest
}

// RouteConfig is the route file: an unordered list of rules. Matching order is decided by the
// matcher (longest prefix first), not by position in the file.
type RouteConfig struct {
	Routes []RouteRule `yaml:"routes"`
}

// ParseRouteConfig decodes YAML route config, normalizes prefixes and validates the result.
// Unknown keys are rejected so a typo such as "publc: true" does not silently protect nothing.
//
// Returns: (RouteConfig, nil) when valid; yaml decode error or *RouteConfigError otherwise.
//
// Called from gateway cmd when loading CONFIG_PATH or the ROUTES_YAML property.
func ParseRouteConfig(data []byte) (RouteConfig, error) {
	var cfg RouteConfig
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return RouteConfig{}, err
	}
	for i := range cfg.Routes {
		cfg.Routes[i].Prefix = NormalizePrefix(cfg.Routes[i].Prefix)
		cfg.Routes[i].Service = strings.TrimSpace(cfg.Routes[i].Service)
	}
	if err := ValidateRouteConfig(cfg); err != nil {
		return RouteConfig{}, err
	}
	return cfg, nil
}

// NormalizePrefix trims spaces, a trailing "*" and trailing slashes, and adds the leading "/".
// "" stays "" so validation can reject it.
func NormalizePrefix(prefix string) string {
	p := strings.TrimSpace(prefix)
	p = strings.TrimSuffix(p, "*")
	if p == "" {
		return ""
	}
	if p[0] != '/' {
		p = "/" + p
	}
	for len(p) > 1 && strings.HasSuffix(p, "/") {
		p = strings.TrimSuffix(p, "/")
	}
	return p
}

// ValidateRouteConfig checks every rule: non-empty prefix starting with "/", non-empty service and
// no duplicate prefixes.
//
// Returns: nil when config is valid; *RouteConfigError for the first invalid rule.
//
// Called from ParseRouteConfig and service.NewRouteTable.
func ValidateRouteConfig(cfg RouteConfig) error {
	seen := make(map[string]int, len(cfg.Routes))
	for i, r := range cfg.Routes {
		if r.Prefix == "" {
			return &RouteConfigError{Index: i, Reason: "prefix must be non-empty"}
		}
		if r.Prefix[0] != '/' {
			return &RouteConfigError{Index: i, Reason: "prefix must start with /"}
		}
		if strings.TrimSpace(r.Service) == "" {
			return &RouteConfigError{Index: i, Reason: "service must be non-empty"}
		}
		if prev, ok := seen[r.Prefix]; ok {
			return &RouteConfigError{Index: i, Reason: "prefix " + r.Prefix + " duplicates route[" + strconv.Itoa(prev) + "]"}
		}
		seen[r.Prefix] = i
	}
	return nil
}

// RouteConfigError is returned by ValidateRouteConfig when a rule is invalid.
// Index is the 0-based rule index; Reason is a human-readable message.
type RouteConfigError struct {
	Index  int
	Reason string
}

// Error returns "route[N]: reason".
func (e *RouteConfigError) Error() string {
	return "route[" + strconv.Itoa(e.Index) + "]: " + e.Reason
}
