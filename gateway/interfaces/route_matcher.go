package interfaces

import "edgemesh/gateway/domain"

// RouteMatcher resolves a request path to a route rule. Implemented by service.RouteMatcher.
// Called from service.Proxy.Handler at the start of each request.
//
//go:generate moq -stub -out mock/route_matcher.go -pkg mock . RouteMatcher
type RouteMatcher interface {
	// Match returns the rule with the longest prefix matching path on a segment boundary.
	// Returns: (rule, true) on match; (domain.RouteRule{}, false) when no rule matches.
	Match(path string) (domain.RouteRule, bool)
}
