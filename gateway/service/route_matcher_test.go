package service

import (
	"sync"
	"testing"

	"edgemesh/gateway/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRouteTable(t *testing.T) {
	t.Run("invalid_config_returns_error", func(t *testing.T) {
		_, err := NewRouteTable(domain.RouteConfig{Routes: []domain.RouteRule{{Prefix: "", Service: "a"}}})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "prefix must be non-empty")
	})

	t.Run("empty_routes_match_nothing", func(t *testing.T) {
		table, err := NewRouteTable(domain.RouteConfig{})
		require.NoError(t, err)
		_, ok := table.Match("/any")
		assert.False(t, ok)
	})

	t.Run("rules_sorted_by_prefix_length_desc", func(t *testing.T) {
		table, err := NewRouteTable(domain.RouteConfig{Routes: []domain.RouteRule{
			{Prefix: "/a", Service: "short"},
			{Prefix: "/a/b/c", Service: "long"},
			{Prefix: "/a/b", Service: "medium"},
		}})
		require.NoError(t, err)
		rules := table.Rules()
		assert.Equal(t, []string{"/a/b/c", "/a/b", "/a"}, []string{rules[0].Prefix, rules[1].Prefix, rules[2].Prefix})
	})
}

func TestRouteTable_Match(t *testing.T) {
	table, err := NewRouteTable(domain.RouteConfig{Routes: []domain.RouteRule{
		{Prefix: "/api", Service: "api"},
		{Prefix: "/api/orders", Service: "orders"},
		{Prefix: "/api/v1/auth", Service: "auth", Public: true},
	}})
	require.NoError(t, err)

	tests := []struct {
		path    string
		service string
		ok      bool
	}{
		{"/api/orders", "orders", true},
		{"/api/orders/42", "orders", true},
		{"/api/ordersx", "api", true},
		{"/api/v1/auth/login", "auth", true},
		{"/api", "api", true},
		{"/apix", "", false},
		{"/", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rule, ok := table.Match(tt.path)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.service, rule.Service)
		})
	}
}

func TestRouteMatcher_Reload(t *testing.T) {
	m, err := NewRouteMatcher(domain.RouteConfig{Routes: []domain.RouteRule{{Prefix: "/a", Service: "old"}}})
	require.NoError(t, err)

	t.Run("invalid_reload_keeps_table", func(t *testing.T) {
		err := m.Reload(domain.RouteConfig{Routes: []domain.RouteRule{{Prefix: "/a", Service: "x"}, {Prefix: "/a", Service: "y"}}})
		require.Error(t, err)
		rule, ok := m.Match("/a/1")
		require.True(t, ok)
		assert.Equal(t, "old", rule.Service)
	})

	t.Run("valid_reload_swaps_table", func(t *testing.T) {
		require.NoError(t, m.Reload(domain.RouteConfig{Routes: []domain.RouteRule{{Prefix: "/b", Service: "new"}}}))
		_, ok := m.Match("/a/1")
		assert.False(t, ok)
		rule, ok := m.Match("/b")
		require.True(t, ok)
		assert.Equal(t, "new", rule.Service)
		assert.Len(t, m.Rules(), 1)
	})
}

func TestRouteMatcher_ConcurrentReload(t *testing.T) {
	cfgA := domain.RouteConfig{Routes: []domain.RouteRule{{Prefix: "/x", Service: "a"}, {Prefix: "/x/y", Service: "a"}}}
	cfgB := domain.RouteConfig{Routes: []domain.RouteRule{{Prefix: "/x", Service: "b"}, {Prefix: "/x/y", Service: "b"}}}
	m, err := NewRouteMatcher(cfgA)
	require.NoError(t, err)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 500; i++ {
			if i%2 == 0 {
				_ = m.Reload(cfgB)
			} else {
				_ = m.Reload(cfgA)
			}
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 500; i++ {
			outer, ok1 := m.Match("/x")
			inner, ok2 := m.Match("/x/y/z")
			assert.True(t, ok1)
			assert.True(t, ok2)
			assert.Contains(t, []string{"a", "b"}, outer.Service)
			assert.Contains(t, []string{"a", "b"}, inner.Service)
		}
	}()
	wg.Wait()
}
