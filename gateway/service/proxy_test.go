package service

import (
	"context"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"edgemesh/gateway/domain"
	gwhelpers "edgemesh/gateway/helpers"
	"edgemesh/gateway/interfaces/mock"
	"edgemesh/myerror"
	"edgemesh/token"

	"github.com/go-kit/log"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testRoutes = []domain.RouteRule{
	{Prefix: "/api/v1/auth", Service: "auth-service", Public: true},
	{Prefix: "/api/v1/expenses", Service: "expense-service"},
	{Prefix: "/legacy", Service: "legacy-service", StripPrefix: true, ForwardAuthorization: true},
}

type proxyFixture struct {
	e         *echo.Echo
	resolver  *mock.ResolverMock
	validator *mock.TokenValidatorMock
}

func newProxyFixture(t *testing.T, instances ...domain.Instance) *proxyFixture {
	t.Helper()
	routes, err := NewRouteMatcher(domain.RouteConfig{Routes: testRoutes})
	require.NoError(t, err)
	f := &proxyFixture{
		resolver: &mock.ResolverMock{
			ResolveFunc: func(context.Context, string) ([]domain.Instance, error) {
				return instances, nil
			},
		},
		validator: &mock.TokenValidatorMock{
			ValidateFunc: func(raw string) (token.ValidatedToken, error) {
				if raw != "good-token" {
					return token.ValidatedToken{}, token.ErrTokenInvalid
				}
				return token.ValidatedToken{Subject: "alice@example.com"}, nil
			},
		},
	}
	transport := NewTransport(ProxyConfig{ConnectTimeout: time.Second, ResponseHeaderTimeout: 200 * time.Millisecond})
	t.Cleanup(transport.CloseIdleConnections)
	proxy := NewProxy(routes, f.validator, f.resolver, transport, NewMetrics(prometheus.NewRegistry()), log.NewNopLogger(), ProxyConfig{})

	f.e = echo.New()
	f.e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{Generator: uuid.NewString}))
	fallback := myerror.NewHTTPErrorHandler(myerror.NewErrorCodeToStatusCodeMaps(), log.NewNopLogger()).Handler
	f.e.HTTPErrorHandler = GatewayErrorHandler(fallback, log.NewNopLogger())
	f.e.Any("/*", proxy.Handler)
	return f
}

func (f *proxyFixture) do(method, target string, body io.Reader, header http.Header) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, body)
	for k, v := range header {
		req.Header[k] = v
	}
	rec := httptest.NewRecorder()
	f.e.ServeHTTP(rec, req)
	return rec
}

func bearer(tok string) http.Header {
	return http.Header{gwhelpers.HeaderAuthorization: {"Bearer " + tok}}
}

// backend is an httptest server that records what it receives.
type backend struct {
	srv  *httptest.Server
	hits atomic.Int32

	mu       sync.Mutex
	requests []*http.Request
	bodies   []string
}

func newBackend(t *testing.T, handler http.HandlerFunc) *backend {
	t.Helper()
	b := &backend{}
	b.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b.hits.Add(1)
		data, _ := io.ReadAll(r.Body)
		b.mu.Lock()
		b.requests = append(b.requests, r)
		b.bodies = append(b.bodies, string(data))
		b.mu.Unlock()
		if handler != nil {
			handler(w, r)
			return
		}
		_, _ = io.WriteString(w, "ok")
	}))
	t.Cleanup(b.srv.Close)
	return b
}

func (b *backend) instance(id string) domain.Instance {
	return domain.Instance{ID: id, Host: "127.0.0.1", Port: b.srv.Listener.Addr().(*net.TCPAddr).Port}
}

func (b *backend) last() (*http.Request, string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.requests[len(b.requests)-1], b.bodies[len(b.bodies)-1]
}

// deadInstance returns an address nothing listens on.
func deadInstance(t *testing.T, id string) domain.Instance {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := l.Addr().(*net.TCPAddr).Port
	require.NoError(t, l.Close())
	return domain.Instance{ID: id, Host: "127.0.0.1", Port: port}
}

func TestNewProxy_Panics(t *testing.T) {
	assert.PanicsWithValue(t, "service.proxy.go: routes is required", func() {
		NewProxy(nil, &mock.TokenValidatorMock{}, &mock.ResolverMock{}, http.DefaultTransport, NewMetrics(prometheus.NewRegistry()), log.NewNopLogger(), ProxyConfig{})
	})
	assert.PanicsWithValue(t, "service.proxy.go: resolver is required", func() {
		NewProxy(&mock.RouteMatcherMock{}, &mock.TokenValidatorMock{}, nil, http.DefaultTransport, NewMetrics(prometheus.NewRegistry()), log.NewNopLogger(), ProxyConfig{})
	})
}

func TestProxy_RouteNotFound(t *testing.T) {
	f := newProxyFixture(t)
	rec := f.do(http.MethodGet, "/unknown/path", nil, nil)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), CodeRouteNotFound)
	assert.Empty(t, f.resolver.ResolveCalls())
}

func TestProxy_Unauthorized(t *testing.T) {
	b := newBackend(t, nil)
	f := newProxyFixture(t, b.instance("e-1"))

	tests := []struct {
		name   string
		header http.Header
	}{
		{"missing_token", nil},
		{"wrong_scheme", http.Header{gwhelpers.HeaderAuthorization: {"Basic abc"}}},
		{"invalid_token", bearer("forged")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := f.do(http.MethodGet, "/api/v1/expenses/1", nil, tt.header)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Contains(t, rec.Header().Get("WWW-Authenticate"), "Bearer")
			assert.Contains(t, rec.Body.String(), CodeAuthInvalid)
		})
	}
	assert.Empty(t, f.resolver.ResolveCalls())
	assert.Zero(t, b.hits.Load())
}

func TestProxy_NoInstance(t *testing.T) {
	b := newBackend(t, nil)
	f := newProxyFixture(t)

	rec := f.do(http.MethodGet, "/api/v1/auth/login", nil, nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), CodeServiceUnavailable)

	f.resolver.ResolveFunc = func(context.Context, string) ([]domain.Instance, error) {
		return nil, assert.AnError
	}
	rec = f.do(http.MethodGet, "/api/v1/auth/login", nil, nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.NotContains(t, rec.Body.String(), assert.AnError.Error())

	assert.Zero(t, b.hits.Load())
}

func TestProxy_ForwardsAuthenticatedRequest(t *testing.T) {
	b := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Backend", "expense")
		w.Header().Set("Connection", "close")
		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, `{"id":7}`)
	})
	f := newProxyFixture(t, b.instance("e-1"))

	header := bearer("good-token")
	header.Set(gwhelpers.HeaderAuthSubject, "mallory@example.com")
	header.Set("Content-Type", "application/json")
	rec := f.do(http.MethodPost, "/api/v1/expenses?sort=desc", strings.NewReader(`{"amount":12}`), header)

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, `{"id":7}`, rec.Body.String())
	assert.Equal(t, "expense", rec.Header().Get("X-Backend"))
	assert.Empty(t, rec.Header().Get("Connection"))

	got, body := b.last()
	assert.Equal(t, http.MethodPost, got.Method)
	assert.Equal(t, "/api/v1/expenses", got.URL.Path)
	assert.Equal(t, "sort=desc", got.URL.RawQuery)
	assert.Equal(t, `{"amount":12}`, body)
	assert.Equal(t, []string{"alice@example.com"}, got.Header.Values(gwhelpers.HeaderAuthSubject))
	assert.Empty(t, got.Header.Get(gwhelpers.HeaderAuthorization))
	assert.Equal(t, "application/json", got.Header.Get("Content-Type"))
	assert.NotEmpty(t, got.Header.Get(gwhelpers.HeaderRequestID))
	assert.Equal(t, rec.Header().Get(echo.HeaderXRequestID), got.Header.Get(gwhelpers.HeaderRequestID))

	require.Len(t, f.validator.ValidateCalls(), 1)
	assert.Equal(t, "good-token", f.validator.ValidateCalls()[0].Raw)
	assert.Equal(t, "expense-service", f.resolver.ResolveCalls()[0].Service)
}

func TestProxy_PublicRouteStripsClientSubject(t *testing.T) {
	b := newBackend(t, nil)
	f := newProxyFixture(t, b.instance("a-1"))

	rec := f.do(http.MethodPost, "/api/v1/auth/login", strings.NewReader(`{}`),
		http.Header{gwhelpers.HeaderAuthSubject: {"admin@example.com"}})

	require.Equal(t, http.StatusOK, rec.Code)
	got, _ := b.last()
	assert.Empty(t, got.Header.Values(gwhelpers.HeaderAuthSubject))
	assert.Empty(t, f.validator.ValidateCalls())
}

func TestProxy_StripPrefixAndForwardAuthorization(t *testing.T) {
	b := newBackend(t, nil)
	f := newProxyFixture(t, b.instance("l-1"))

	rec := f.do(http.MethodGet, "/legacy/reports/2026", nil, bearer("good-token"))

	require.Equal(t, http.StatusOK, rec.Code)
	got, _ := b.last()
	assert.Equal(t, "/reports/2026", got.URL.Path)
	assert.Equal(t, "Bearer good-token", got.Header.Get(gwhelpers.HeaderAuthorization))
}

func TestProxy_RoundRobin(t *testing.T) {
	var mu sync.Mutex
	var seen []string
	handler := func(id string) http.HandlerFunc {
		return func(w http.ResponseWriter, _ *http.Request) {
			mu.Lock()
			seen = append(seen, id)
			mu.Unlock()
		}
	}
	b1 := newBackend(t, handler("one"))
	b2 := newBackend(t, handler("two"))
	f := newProxyFixture(t, b1.instance("one"), b2.instance("two"))

	for i := 0; i < 6; i++ {
		rec := f.do(http.MethodGet, "/api/v1/auth/health", nil, nil)
		require.Equal(t, http.StatusOK, rec.Code)
	}
	require.Len(t, seen, 6)
	for i := 1; i < len(seen); i++ {
		assert.NotEqual(t, seen[i-1], seen[i], "instance %d repeated", i)
	}
	assert.EqualValues(t, 3, b1.hits.Load())
	assert.EqualValues(t, 3, b2.hits.Load())
}

func TestProxy_RetryOnDialFailure(t *testing.T) {
	live := newBackend(t, nil)
	f := newProxyFixture(t, deadInstance(t, "dead"), live.instance("live"))

	rec := f.do(http.MethodPost, "/api/v1/auth/signup", strings.NewReader(`{"email":"a@b.c"}`), nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 1, live.hits.Load())
	_, body := live.last()
	assert.Equal(t, `{"email":"a@b.c"}`, body)
}

func TestProxy_BadGateway(t *testing.T) {
	f := newProxyFixture(t, deadInstance(t, "dead"))

	rec := f.do(http.MethodGet, "/api/v1/auth/health", nil, nil)

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Contains(t, rec.Body.String(), CodeBadGateway)
}

func TestProxy_BadGatewayAfterRetry(t *testing.T) {
	f := newProxyFixture(t, deadInstance(t, "dead-1"), deadInstance(t, "dead-2"))

	rec := f.do(http.MethodGet, "/api/v1/auth/health", nil, nil)

	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func slowHandler(w http.ResponseWriter, r *http.Request) {
	select {
	case <-r.Context().Done():
	case <-time.After(2 * time.Second):
	}
}

func TestProxy_Timeout(t *testing.T) {
	slow := newBackend(t, slowHandler)
	f := newProxyFixture(t, slow.instance("slow"))

	rec := f.do(http.MethodGet, "/api/v1/auth/health", nil, nil)

	assert.Equal(t, http.StatusGatewayTimeout, rec.Code)
	assert.Contains(t, rec.Body.String(), CodeGatewayTimeout)
}

func TestProxy_NonIdempotentNotRetriedAfterTimeout(t *testing.T) {
	slow := newBackend(t, slowHandler)
	other := newBackend(t, nil)
	f := newProxyFixture(t, slow.instance("slow"), other.instance("other"))

	rec := f.do(http.MethodPost, "/api/v1/auth/signup", strings.NewReader(`{}`), nil)

	assert.Equal(t, http.StatusGatewayTimeout, rec.Code)
	assert.EqualValues(t, 1, slow.hits.Load())
	assert.Zero(t, other.hits.Load())
}

func TestProxy_IdempotentRetriedAfterConnectionReset(t *testing.T) {
	broken := newBackend(t, func(w http.ResponseWriter, _ *http.Request) {
		conn, _, err := w.(http.Hijacker).Hijack()
		if err == nil {
			_ = conn.Close()
		}
	})
	live := newBackend(t, nil)
	f := newProxyFixture(t, broken.instance("broken"), live.instance("live"))

	rec := f.do(http.MethodGet, "/api/v1/auth/health", nil, nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 1, broken.hits.Load())
	assert.EqualValues(t, 1, live.hits.Load())
}
