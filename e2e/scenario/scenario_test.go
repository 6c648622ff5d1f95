package scenario

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"edgemesh/auth/domain"
	authhandlers "edgemesh/auth/handlers"
	authservice "edgemesh/auth/service"
	"edgemesh/gateway/adapters"
	gatewaydomain "edgemesh/gateway/domain"
	gatewayservice "edgemesh/gateway/service"
	"edgemesh/myerror"
	registrydomain "edgemesh/registry/domain"
	registryhandlers "edgemesh/registry/handlers"
	registryservice "edgemesh/registry/service"
	"edgemesh/token"

	"github.com/go-kit/log"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

var testKey = []byte(strings.Repeat("k", 32))

// memoryUsers is an in-memory auth user store.
type memoryUsers struct {
	mu    sync.Mutex
	users map[string]domain.User
}

func (m *memoryUsers) GetByEmail(_ context.Context, email string) (domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[email]
	if !ok {
		return domain.User{}, domain.ErrUserNotFound
	}
	return u, nil
}

func (m *memoryUsers) Create(_ context.Context, user domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[user.Email]; ok {
		return domain.ErrUserExists
	}
	m.users[user.Email] = user
	return nil
}

func hostPort(t *testing.T, rawURL string) (string, int) {
	t.Helper()
	u, err := url.Parse(rawURL)
	require.NoError(t, err)
	host, portStr, err := net.SplitHostPort(u.Host)
	require.NoError(t, err)
	port, err := strconv.Atoi(portStr)
	require.NoError(t, err)
	return host, port
}

// registerUp registers srv under service and renews once so the instance is routable.
func registerUp(t *testing.T, registry *registryservice.Registry, service, instance string, srv *httptest.Server) {
	t.Helper()
	host, port := hostPort(t, srv.URL)
	_, err := registry.Register(registrydomain.ServiceInstance{ServiceName: service, InstanceID: instance, Host: host, Port: port})
	require.NoError(t, err)
	_, err = registry.Renew(service, instance)
	require.NoError(t, err)
}

func echoBackend(t *testing.T, instance string) *httptest.Server {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(EchoResult{Instance: instance, Subject: r.Header.Get("X-Auth-Subject")})
	}))
	t.Cleanup(srv.Close)
	return srv
}

// startStack runs registry, auth, two echo backends and the gateway on httptest servers, wired the
// way the binaries wire them, and returns the scenario config pointing at the gateway.
func startStack(t *testing.T) *Config {
	t.Helper()
	logger := log.NewNopLogger()

	registry := registryservice.NewRegistry(
		registryservice.Config{TTL: time.Minute},
		registryservice.NewTimeProvider(time.Now),
		registryservice.NewMetrics(prometheus.NewRegistry()),
		logger,
	)
	registryEcho := echo.New()
	myerror.RegisterErrorHandler(registryEcho, logger)
	registryhandlers.RegisterHandlers(registryEcho, registryhandlers.NewHTTPServer(registry, logger))
	registrySrv := httptest.NewServer(registryEcho)
	t.Cleanup(registrySrv.Close)

	authService := authservice.NewAuthService(
		&memoryUsers{users: map[string]domain.User{}},
		token.NewIssuer(testKey, time.Hour, time.Now),
		bcrypt.MinCost,
		logger,
	)
	limiter := authservice.NewLoginLimiter(6000, 100, time.Now, logger)
	authEcho := echo.New()
	myerror.RegisterErrorHandler(authEcho, logger)
	authhandlers.RegisterHandlers(authEcho, authhandlers.NewHTTPServer(authService, logger), limiter.Middleware())
	authSrv := httptest.NewServer(authEcho)
	t.Cleanup(authSrv.Close)

	registerUp(t, registry, "auth-service", "auth-1", authSrv)
	registerUp(t, registry, "expense-service", "expense-1", echoBackend(t, "expense-1"))
	registerUp(t, registry, "expense-service", "expense-2", echoBackend(t, "expense-2"))

	matcher, err := gatewayservice.NewRouteMatcher(gatewaydomain.RouteConfig{Routes: []gatewaydomain.RouteRule{
		{Prefix: "/api/v1/auth", Service: "auth-service", Public: true},
		{Prefix: "/api/v1/expenses", Service: "expense-service"},
		{Prefix: "/api/v1/reports", Service: "report-service"},
	}})
	require.NoError(t, err)
	proxy := gatewayservice.NewProxy(
		matcher,
		token.NewValidator(testKey, time.Now),
		adapters.RegistryHTTP(registrySrv.URL, registrySrv.Client()),
		gatewayservice.NewTransport(gatewayservice.ProxyConfig{}),
		gatewayservice.NewMetrics(prometheus.NewRegistry()),
		logger,
		gatewayservice.ProxyConfig{},
	)
	gatewayEcho := echo.New()
	gatewayEcho.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{Generator: uuid.NewString}))
	fallback := myerror.NewHTTPErrorHandler(myerror.NewErrorCodeToStatusCodeMaps(), logger).Handler
	gatewayEcho.HTTPErrorHandler = gatewayservice.GatewayErrorHandler(fallback, logger)
	gatewayEcho.Any("/*", proxy.Handler)
	gatewaySrv := httptest.NewServer(gatewayEcho)
	t.Cleanup(gatewaySrv.Close)

	return &Config{
		GatewayURL:       gatewaySrv.URL,
		EchoPath:         "/api/v1/expenses/echo",
		UnavailablePath:  "/api/v1/reports/monthly",
		MinEchoInstances: 2,
		Client:           gatewaySrv.Client(),
	}
}

func TestScenarios(t *testing.T) {
	cfg := startStack(t)
	all := All()
	require.NotEmpty(t, all)
	for name, run := range all {
		t.Run(name, func(t *testing.T) {
			assert.NoError(t, run(context.Background(), cfg))
		})
	}
}

func TestRun_UnknownScenario(t *testing.T) {
	err := Run(context.Background(), "nope", &Config{})
	var unknown *UnknownScenarioError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "nope", unknown.Name)
}

func TestResponse_Expect(t *testing.T) {
	r := response{status: http.StatusUnauthorized, body: []byte(`{"error":{"code":"auth_invalid","message":"missing or invalid token"}}`)}
	assert.NoError(t, r.expect("step", http.StatusUnauthorized, codeAuthInvalid))
	assert.NoError(t, r.expect("step", http.StatusUnauthorized, ""))

	err := r.expect("step", http.StatusOK, "")
	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, "auth_invalid", statusErr.Code)
	assert.Error(t, r.expect("step", http.StatusUnauthorized, codeConflict))
}
