package service

import (
	"sort"
	"sync/atomic"

	"edgemesh/gateway/domain"
	"edgemesh/gateway/interfaces"
)

// RouteTable is an immutable, validated set of rules sorted by descending prefix length so the first
// match is the longest one.
type RouteTable struct {
	rules []domain.RouteRule
}

// NewRouteTable validates cfg via domain.ValidateRouteConfig, copies the rules and sorts them by
// descending prefix length (ties by prefix, for a deterministic order).
//
// Returns: (*RouteTable, nil) on success; (nil, *domain.RouteConfigError) on invalid config.
func NewRouteTable(cfg domain.RouteConfig) (*RouteTable, error) {
	if err := domain.ValidateRouteConfig(cfg); err != nil {
		return nil, err
	}
	rules := make([]domain.RouteRule, len(cfg.Routes))
	copy(rules, cfg.Routes)
	sort.Slice(rules, func(i, j int) bool {
		if len(rules[i].Prefix) != len(rules[j].Prefix) {
			return len(rules[i].Prefix) > len(rules[j].Prefix)
		}
		return rules[i].Prefix < rules[j].Prefix
	})
	return &RouteTable{rules: rules}, nil
}

// Match returns the longest rule matching path on a segment boundary.
func (t *RouteTable) Match(path string) (domain.RouteRule, bool) {
	for _, rule := range t.rules {
		if rule.Matches(path) {
			return rule, true
		}
	}
	return domain.RouteRule{}, false
}

// Rules returns a copy of the sorted rules.
func (t *RouteTable) Rules() []domain.RouteRule {
	out := make([]domain.RouteRule, len(t.rules))
	copy(out, t.rules)
	return out
}

// RouteMatcher implements interfaces.RouteMatcher over a RouteTable that can be replaced at runtime.
// Readers never see a half-applied reload: Reload builds and validates a new table, then swaps
// the pointer.
type RouteMatcher struct {
	table atomic.Pointer[RouteTable]
}

// NewRouteMatcher builds the initial table from cfg.
//
// Returns: (*RouteMatcher, nil) on success; (nil, error) when cfg is invalid.
//
// Called from gateway cmd/main at startup.
func NewRouteMatcher(cfg domain.RouteConfig) (*RouteMatcher, error) {
	table, err := NewRouteTable(cfg)
	if err != nil {
		return nil, err
	}
	m := &RouteMatcher{}
	m.table.Store(table)
	return m, nil
}

// Reload replaces the table with one built from cfg. On error the current table stays in place.
//
// Called from gateway cmd on SIGHUP and on config-server changes.
func (m *RouteMatcher) Reload(cfg domain.RouteConfig) error {
	table, err := NewRouteTable(cfg)
	if err != nil {
		return err
	}
	m.table.Store(table)
	return nil
}

// Match implements interfaces.RouteMatcher.
func (m *RouteMatcher) Match(path string) (domain.RouteRule, bool) {
	return m.table.Load().Match(path)
}

// Rules returns the rules of the current table.
func (m *RouteMatcher) Rules() []domain.RouteRule {
	return m.table.Load().Rules()
}

var _ interfaces.RouteMatcher = (*RouteMatcher)(nil)
