package service

import (
	"errors"
	"net/http"

	"edgemesh/myerror"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/labstack/echo/v4"
)

var (
	// ErrRouteNotFound is returned when no route prefix matches the request path.
	ErrRouteNotFound = errors.New("route not found")
	// ErrAuthInvalid is returned when a non-public route gets a missing, malformed, invalid or expired token.
	ErrAuthInvalid = errors.New("missing or invalid token")
	// ErrNoHealthyInstance is returned when the resolver has no routable instance, or could not be asked.
	ErrNoHealthyInstance = errors.New("no healthy instance")
	// ErrBackendUnreachable is returned when forwarding failed before a response arrived.
	ErrBackendUnreachable = errors.New("backend unreachable")
	// ErrBackendTimeout is returned when the backend did not answer in time.
	ErrBackendTimeout = errors.New("backend timeout")
)

// Error codes of gateway rejections, in the same {"error":{"code","message"}} body as myerror.
const (
	CodeRouteNotFound      = "route_not_found"
	CodeAuthInvalid        = "auth_invalid"
	CodeServiceUnavailable = "service_unavailable"
	CodeBadGateway         = "bad_gateway"
	CodeGatewayTimeout     = "gateway_timeout"
)

// GatewayErrorHandler returns an echo HTTPErrorHandler that maps the proxy's sentinel errors via
// gatewayErrorToHTTP and hands every other error to fallback (the myerror handler, which serves
// /health and /metrics). 401 responses carry WWW-Authenticate: Bearer.
//
// Called from gateway cmd/main when building the public echo server.
func GatewayErrorHandler(fallback echo.HTTPErrorHandler, logger log.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		statusCode, myErr, ok := gatewayErrorToHTTP(err)
		if !ok {
			fallback(err, c)
			return
		}
		if c.Response().Committed {
			return
		}
		level.Info(logger).Log(
			"msg", "request rejected",
			"method", c.Request().Method,
			"path", c.Request().URL.Path,
			"status", statusCode,
			"err", err,
		)
		if statusCode == http.StatusUnauthorized {
			c.Response().Header().Set("WWW-Authenticate", `Bearer realm="edgemesh"`)
		}
		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(statusCode)
			return
		}
		_ = c.JSON(statusCode, myerror.ErrResponse{Error: myErr})
	}
}

// gatewayErrorToHTTP maps proxy errors to a status and client-facing error: ErrRouteNotFound → 404,
// ErrAuthInvalid → 401, ErrNoHealthyInstance → 503, ErrBackendTimeout → 504, ErrBackendUnreachable → 502.
// The wrapped cause stays in Inner and is never serialized.
//
// Returns: (status, error body, true) for a gateway error; (0, nil, false) for anything else.
func gatewayErrorToHTTP(err error) (int, *myerror.MyError, bool) {
	switch {
	case err == nil:
		return 0, nil, false
	case errors.Is(err, ErrRouteNotFound):
		return http.StatusNotFound, myerror.NewMyError(CodeRouteNotFound, "no route for path", err), true
	case errors.Is(err, ErrAuthInvalid):
		return http.StatusUnauthorized, myerror.NewMyError(CodeAuthInvalid, "missing or invalid token", err), true
	case errors.Is(err, ErrNoHealthyInstance):
		return http.StatusServiceUnavailable, myerror.NewMyError(CodeServiceUnavailable, "service unavailable", err), true
	case errors.Is(err, ErrBackendTimeout):
		return http.StatusGatewayTimeout, myerror.NewMyError(CodeGatewayTimeout, "backend did not respond in time", err), true
	case errors.Is(err, ErrBackendUnreachable):
		return http.StatusBadGateway, myerror.NewMyError(CodeBadGateway, "backend unreachable", err), true
	default:
		return 0, nil, false
	}
}
