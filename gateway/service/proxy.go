package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"time"

	"edgemesh/gateway/domain"
	gwhelpers "edgemesh/gateway/helpers"
	"edgemesh/gateway/interfaces"
	"edgemesh/helpers"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/labstack/echo/v4"
)

// ProxyConfig holds forwarding limits. Zero fields take the defaults below.
type ProxyConfig struct {
	// ConnectTimeout bounds the TCP dial to a backend (default 5s).
	ConnectTimeout time.Duration
	// ResponseHeaderTimeout bounds the wait for backend response headers (default 10s).
	ResponseHeaderTimeout time.Duration
	// MaxConnsPerHost bounds concurrent connections to one backend instance (default 64).
	MaxConnsPerHost int
	// MaxReplayBody is the largest request body buffered for a retry (default 1 MiB). Larger bodies
	// are streamed and never retried.
	MaxReplayBody int64
}

const (
	DefaultConnectTimeout        = 5 * time.Second
	DefaultResponseHeaderTimeout = 10 * time.Second
	DefaultMaxConnsPerHost       = 64
	DefaultMaxReplayBody         = 1 << 20
)

// WithDefaults returns c with zero fields replaced by defaults.
func (c ProxyConfig) WithDefaults() ProxyConfig {
	if c.ConnectTimeout <= 0 {
		c.ConnectTimeout = DefaultConnectTimeout
	}
	if c.ResponseHeaderTimeout <= 0 {
		c.ResponseHeaderTimeout = DefaultResponseHeaderTimeout
	}
	if c.MaxConnsPerHost <= 0 {
		c.MaxConnsPerHost = DefaultMaxConnsPerHost
	}
	if c.MaxReplayBody <= 0 {
		c.MaxReplayBody = DefaultMaxReplayBody
	}
	return c
}

// NewTransport builds the backend transport: dial and response-header timeouts, bounded
// connections per instance, no transparent compression (bodies pass through as sent) and no
// environment proxy.
//
// Called from gateway cmd/main; tests build their own with short timeouts.
func NewTransport(cfg ProxyConfig) *http.Transport {
	cfg = cfg.WithDefaults()
	return &http.Transport{
		DialContext: (&net.Dialer{
			Timeout:   cfg.ConnectTimeout,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		ResponseHeaderTimeout: cfg.ResponseHeaderTimeout,
		MaxConnsPerHost:       cfg.MaxConnsPerHost,
		MaxIdleConns:          4 * cfg.MaxConnsPerHost,
		MaxIdleConnsPerHost:   cfg.MaxConnsPerHost,
		IdleConnTimeout:       90 * time.Second,
		DisableCompression:    true,
	}
}

var idempotentMethods = map[string]bool{
	http.MethodGet:     true,
	http.MethodHead:    true,
	http.MethodOptions: true,
	http.MethodTrace:   true,
	http.MethodPut:     true,
	http.MethodDelete:  true,
}

// Proxy is the gateway's request pipeline. Every request not served by a local route reaches
// Handler, which walks RECEIVED → AUTH_CHECKED → RESOLVED → FORWARDED → RESPONDED:
// (1) match the path to a route, (2) on non-public routes validate the bearer token,
// (3) resolve the service's instances, (4) forward to the next round-robin instance with one retry
// on a different instance when that is safe, (5) copy the backend response to the client.
// Rejections are returned as sentinel errors and rendered by GatewayErrorHandler.
type Proxy struct {
	routes    interfaces.RouteMatcher
	validator interfaces.TokenValidator
	resolver  interfaces.Resolver
	transport http.RoundTripper
	balancer  *RoundRobin
	metrics   *Metrics
	logger    log.Logger
	cfg       ProxyConfig
}

// NewProxy creates the proxy. Panics on nil dependencies (fail-fast at startup).
//
// Parameters: routes: path-to-route matching; validator: bearer token validation; resolver:
// service-to-instances lookup; transport: backend round tripper (NewTransport); metrics:
// collectors (NewMetrics); logger: logger; cfg: forwarding limits.
//
// Called from gateway cmd/main when building the server.
func NewProxy(
	routes interfaces.RouteMatcher,
	validator interfaces.TokenValidator,
	resolver interfaces.Resolver,
	transport http.RoundTripper,
	metrics *Metrics,
	logger log.Logger,
	cfg ProxyConfig,
) *Proxy {
	return &Proxy{
		routes:    helpers.NilPanic(routes, "service.proxy.go: routes is required"),
		validator: helpers.NilPanic(validator, "service.proxy.go: validator is required"),
		resolver:  helpers.NilPanic(resolver, "service.proxy.go: resolver is required"),
		transport: helpers.NilPanic(transport, "service.proxy.go: transport is required"),
		balancer:  NewRoundRobin(),
		metrics:   helpers.NilPanic(metrics, "service.proxy.go: metrics is required"),
		logger:    log.With(helpers.NilPanic(logger, "service.proxy.go: logger is required"), "component", "proxy"),
		cfg:       cfg.WithDefaults(),
	}
}

// Handler is the echo handler mounted on the catch-all route.
//
// Returns: nil once the backend response has been copied to the client; ErrRouteNotFound,
// ErrAuthInvalid, ErrNoHealthyInstance, ErrBackendUnreachable or ErrBackendTimeout (wrapped with
// detail) when the request is rejected; an *echo.HTTPError when the client body cannot be read.
func (p *Proxy) Handler(c echo.Context) (err error) {
	start := time.Now()
	in := c.Request()
	var service string
	defer func() {
		code := c.Response().Status
		if err != nil {
			code = http.StatusInternalServerError
			if status, _, ok := gatewayErrorToHTTP(err); ok {
				code = status
			}
		}
		p.metrics.observe(service, code, time.Since(start))
	}()

	route, ok := p.routes.Match(in.URL.Path)
	if !ok {
		return fmt.Errorf("%w: %s", ErrRouteNotFound, in.URL.Path)
	}
	service = route.Service

	var subject string
	if !route.Public {
		raw, ok := gwhelpers.GetBearerToken(in.Header)
		if !ok {
			return fmt.Errorf("%w: bearer token required", ErrAuthInvalid)
		}
		validated, err := p.validator.Validate(raw)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrAuthInvalid, err)
		}
		subject = validated.Subject
	}

	instances, err := p.resolver.Resolve(in.Context(), route.Service)
	if err != nil {
		p.metrics.resolveErrors.WithLabelValues(route.Service).Inc()
		return fmt.Errorf("%w: resolve %s: %v", ErrNoHealthyInstance, route.Service, err)
	}
	if len(instances) == 0 {
		p.metrics.noInstance.WithLabelValues(route.Service).Inc()
		return fmt.Errorf("%w: %s", ErrNoHealthyInstance, route.Service)
	}

	body, err := newReplayBody(in, p.cfg.MaxReplayBody)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "unreadable request body").SetInternal(err)
	}

	order := p.balancer.Order(route.Service, instances)
	attempts := 1
	if len(order) > 1 && body.replayable {
		attempts = 2
	}
	var lastErr error
	for i := 0; i < attempts; i++ {
		inst := order[i]
		resp, err := p.forward(c, route, inst, subject, body)
		if err == nil {
			p.copyResponse(c, route, inst, resp)
			return nil
		}
		lastErr = err
		level.Warn(p.logger).Log(
			"msg", "forward failed",
			"service", route.Service,
			"instance", inst.ID,
			"addr", inst.Address(),
			"attempt", i+1,
			"err", err,
		)
		if i+1 < attempts && retrySafe(in.Method, err) && in.Context().Err() == nil {
			p.metrics.retries.WithLabelValues(route.Service).Inc()
			continue
		}
		break
	}
	if isTimeout(lastErr) {
		return fmt.Errorf("%w: %s: %v", ErrBackendTimeout, route.Service, lastErr)
	}
	return fmt.Errorf("%w: %s: %v", ErrBackendUnreachable, route.Service, lastErr)
}

// forward sends one attempt to inst.
func (p *Proxy) forward(c echo.Context, route domain.RouteRule, inst domain.Instance, subject string, body *replayBody) (*http.Response, error) {
	in := c.Request()
	target := &url.URL{
		Scheme:   "http",
		Host:     inst.Address(),
		Path:     route.UpstreamPath(in.URL.Path),
		RawPath:  route.UpstreamPath(in.URL.EscapedPath()),
		RawQuery: in.URL.RawQuery,
	}
	out, err := http.NewRequestWithContext(in.Context(), in.Method, target.String(), body.reader())
	if err != nil {
		return nil, err
	}
	out.ContentLength = body.length
	out.Header = gwhelpers.OutboundHeaders(in.Header, gwhelpers.OutboundRequest{
		Subject:              subject,
		ForwardAuthorization: route.ForwardAuthorization,
		RequestID:            c.Response().Header().Get(echo.HeaderXRequestID),
		RemoteAddr:           in.RemoteAddr,
		Host:                 in.Host,
		TLS:                  in.TLS != nil,
	})
	return p.transport.RoundTrip(out)
}

// copyResponse writes status, end-to-end headers and body of resp to the client. A copy error
// after the status line has been sent can only be logged.
func (p *Proxy) copyResponse(c echo.Context, route domain.RouteRule, inst domain.Instance, resp *http.Response) {
	defer resp.Body.Close()
	gwhelpers.CopyResponseHeaders(c.Response().Header(), resp.Header)
	c.Response().WriteHeader(resp.StatusCode)
	if _, err := io.Copy(c.Response(), resp.Body); err != nil {
		level.Warn(p.logger).Log(
			"msg", "response copy interrupted",
			"service", route.Service,
			"instance", inst.ID,
			"err", err,
		)
	}
}

// retrySafe reports whether a failed attempt may be repeated on another instance: the connection
// was never established, or the method is idempotent (RoundTrip returned no response).
func retrySafe(method string, err error) bool {
	var opErr *net.OpError
	if errors.As(err, &opErr) && opErr.Op == "dial" {
		return true
	}
	return idempotentMethods[method]
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

// replayBody holds a request body so it can be sent more than once. Bodies above the replay
// limit keep streaming from the client and are sent once.
type replayBody struct {
	data       []byte
	stream     io.Reader
	length     int64
	replayable bool
}

func newReplayBody(r *http.Request, limit int64) (*replayBody, error) {
	if r.Body == nil || r.Body == http.NoBody {
		return &replayBody{replayable: true}, nil
	}
	buf, err := io.ReadAll(io.LimitReader(r.Body, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(buf)) <= limit {
		return &replayBody{data: buf, length: int64(len(buf)), replayable: true}, nil
	}
	return &replayBody{
		stream: io.MultiReader(bytes.NewReader(buf), r.Body),
		length: r.ContentLength,
	}, nil
}

func (b *replayBody) reader() io.Reader {
	switch {
	case b.stream != nil:
		return b.stream
	case len(b.data) == 0:
		return http.NoBody
	default:
		return bytes.NewReader(b.data)
	}
}
