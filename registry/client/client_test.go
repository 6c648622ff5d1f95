package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"edgemesh/myerror"
	"edgemesh/registry/api"
	"edgemesh/registry/domain"
	"edgemesh/registry/handlers"
	"edgemesh/registry/service"

	"github.com/go-kit/log"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newRegistryServer serves a real registry over httptest.
func newRegistryServer(t *testing.T) (*service.Registry, *httptest.Server) {
	t.Helper()
	registry := service.NewRegistry(service.Config{}, service.NewTimeProvider(time.Now),
		service.NewMetrics(prometheus.NewRegistry()), log.NewNopLogger())
	validator, err := handlers.NewOpenAPIValidator(api.Spec)
	require.NoError(t, err)

	e := echo.New()
	myerror.RegisterErrorHandler(e, log.NewNopLogger())
	handlers.RegisterHandlers(e, handlers.NewHTTPServer(registry, log.NewNopLogger()), validator)
	srv := httptest.NewServer(e)
	t.Cleanup(srv.Close)
	return registry, srv
}

func TestNew_Panics(t *testing.T) {
	assert.PanicsWithValue(t, "client.client.go: baseURL is required", func() {
		New("", http.DefaultClient)
	})
	assert.PanicsWithValue(t, "client.client.go: http client is required", func() {
		New("http://registry", nil)
	})
}

func TestClient_Lifecycle(t *testing.T) {
	registry, srv := newRegistryServer(t)
	c := New(srv.URL, srv.Client())
	ctx := context.Background()

	lease, err := c.Register(ctx, "orders-svc", "i1", "10.0.0.1", 8080)
	require.NoError(t, err)
	assert.Equal(t, "STARTING", lease.Status)
	assert.NotEmpty(t, lease.LeaseID)

	got, err := c.Resolve(ctx, "orders-svc")
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.NotNil(t, got)

	renewed, err := c.Renew(ctx, "orders-svc", "i1")
	require.NoError(t, err)
	assert.Equal(t, "UP", renewed.Status)
	assert.Equal(t, lease.LeaseID, renewed.LeaseID)

	got, err = c.Resolve(ctx, "orders-svc")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, Instance{InstanceID: "i1", Host: "10.0.0.1", Port: 8080, Status: "UP", LeaseExpiry: got[0].LeaseExpiry}, got[0])

	require.NoError(t, c.Deregister(ctx, "orders-svc", "i1"))
	assert.Empty(t, registry.Resolve("orders-svc"))

	_, err = c.Renew(ctx, "orders-svc", "i1")
	assert.ErrorIs(t, err, ErrNotRegistered)
	assert.ErrorIs(t, c.Deregister(ctx, "orders-svc", "i1"), ErrNotRegistered)
}

func TestClient_Errors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			_, _ = w.Write([]byte(`{not json`))
			return
		}
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()
	c := New(srv.URL, srv.Client())

	_, err := c.Register(context.Background(), "orders-svc", "i1", "10.0.0.1", 8080)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotRegistered)
	assert.Contains(t, err.Error(), "500")

	_, err = c.Resolve(context.Background(), "orders-svc")
	assert.ErrorContains(t, err, "decode registry response")
}

func TestHeartbeat_Panics(t *testing.T) {
	c := New("http://registry", http.DefaultClient)
	assert.PanicsWithValue(t, "client.heartbeat.go: service is required", func() {
		NewHeartbeat(c, HeartbeatConfig{InstanceID: "i1"}, log.NewNopLogger())
	})
	assert.PanicsWithValue(t, "client.heartbeat.go: instance id is required", func() {
		NewHeartbeat(c, HeartbeatConfig{Service: "orders-svc"}, log.NewNopLogger())
	})
	assert.PanicsWithValue(t, "client.heartbeat.go: client is required", func() {
		NewHeartbeat(nil, HeartbeatConfig{Service: "orders-svc", InstanceID: "i1"}, log.NewNopLogger())
	})
}

func TestHeartbeat_Run(t *testing.T) {
	registry, srv := newRegistryServer(t)
	hb := NewHeartbeat(New(srv.URL, srv.Client()), HeartbeatConfig{
		Service:    "orders-svc",
		InstanceID: "i1",
		Host:       "10.0.0.1",
		Port:       8080,
		Interval:   10 * time.Millisecond,
	}, log.NewNopLogger())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		hb.Run(ctx)
		close(done)
	}()

	up := func() bool { return len(registry.Resolve("orders-svc")) == 1 }
	require.Eventually(t, up, 2*time.Second, 5*time.Millisecond)

	// Lease lost on the registry side: the next renewal gets 404 and registers again.
	require.NoError(t, registry.Deregister("orders-svc", "i1"))
	require.Eventually(t, up, 2*time.Second, 5*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("heartbeat did not stop")
	}
	_, err := registry.Renew("orders-svc", "i1")
	assert.ErrorIs(t, err, domain.ErrInstanceNotFound, "deregistered on stop")
}
