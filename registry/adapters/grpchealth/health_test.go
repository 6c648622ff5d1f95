package grpchealth

import (
	"context"
	"testing"

	"edgemesh/registry/domain"

	"github.com/go-kit/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"
)

func check(t *testing.T, r *Reporter, service string) (healthpb.HealthCheckResponse_ServingStatus, error) {
	t.Helper()
	resp, err := r.HealthServer().Check(context.Background(), &healthpb.HealthCheckRequest{Service: service})
	if err != nil {
		return healthpb.HealthCheckResponse_UNKNOWN, err
	}
	return resp.GetStatus(), nil
}

func TestNewReporter_Panics(t *testing.T) {
	assert.PanicsWithValue(t, "grpchealth.health.go: logger is required", func() {
		NewReporter(nil)
	})
}

func TestReporter_OnSweep(t *testing.T) {
	r := NewReporter(log.NewNopLogger())

	st, err := check(t, r, "")
	require.NoError(t, err)
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, st)

	_, err = check(t, r, "orders-svc")
	assert.Equal(t, codes.NotFound, status.Code(err))

	r.OnSweep([]domain.ServiceSummary{
		{Name: "orders-svc", Total: 2, Up: 1},
		{Name: "users-svc", Total: 1, Up: 0},
	})
	st, err = check(t, r, "orders-svc")
	require.NoError(t, err)
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, st)
	st, err = check(t, r, "users-svc")
	require.NoError(t, err)
	assert.Equal(t, healthpb.HealthCheckResponse_NOT_SERVING, st)

	// orders-svc evicted entirely.
	r.OnSweep([]domain.ServiceSummary{{Name: "users-svc", Total: 1, Up: 1}})
	st, err = check(t, r, "orders-svc")
	require.NoError(t, err)
	assert.Equal(t, healthpb.HealthCheckResponse_NOT_SERVING, st)
	st, err = check(t, r, "users-svc")
	require.NoError(t, err)
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, st)
}

func TestReporter_Shutdown(t *testing.T) {
	r := NewReporter(log.NewNopLogger())
	r.OnSweep([]domain.ServiceSummary{{Name: "orders-svc", Total: 1, Up: 1}})
	r.Shutdown()

	st, err := check(t, r, "")
	require.NoError(t, err)
	assert.Equal(t, healthpb.HealthCheckResponse_NOT_SERVING, st)
	st, err = check(t, r, "orders-svc")
	require.NoError(t, err)
	assert.Equal(t, healthpb.HealthCheckResponse_NOT_SERVING, st)
}
