package client

import (
	"context"
	"errors"
	"time"

	"edgemesh/helpers"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
)

// HeartbeatConfig identifies the instance a Heartbeat keeps registered.
type HeartbeatConfig struct {
	Service    string
	InstanceID string
	Host       string
	Port       int
	// Interval between renewals; must stay well under the registry TTL (default 10s for a 30s TTL).
	Interval time.Duration
}

// Heartbeat holds one instance's lease: it registers, renews every Interval, registers again when
// the registry no longer knows the instance, and deregisters when stopped.
type Heartbeat struct {
	client *Client
	cfg    HeartbeatConfig
	logger log.Logger
}

// NewHeartbeat creates a Heartbeat. Panics on nil client or logger, or empty service/instance id.
func NewHeartbeat(client *Client, cfg HeartbeatConfig, logger log.Logger) *Heartbeat {
	helpers.StrPanic(cfg.Service, "client.heartbeat.go: service is required")
	helpers.StrPanic(cfg.InstanceID, "client.heartbeat.go: instance id is required")
	if cfg.Interval <= 0 {
		cfg.Interval = 10 * time.Second
	}
	logger = helpers.NilPanic(logger, "client.heartbeat.go: logger is required")
	return &Heartbeat{
		client: helpers.NilPanic(client, "client.heartbeat.go: client is required"),
		cfg:    cfg,
		logger: log.With(logger, "component", "Heartbeat", "service", cfg.Service, "instance", cfg.InstanceID),
	}
}

// Run blocks until ctx is cancelled, then deregisters with a short detached timeout. Registry errors are
// logged and retried on the next tick; they never stop the loop.
//
// Called from cmd/main in its own goroutine.
func (h *Heartbeat) Run(ctx context.Context) {
	registered := h.register(ctx)

	ticker := time.NewTicker(h.cfg.Interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			if registered {
				h.deregister()
			}
			return
		case <-ticker.C:
			if !registered {
				registered = h.register(ctx)
				continue
			}
			registered = h.renew(ctx)
		}
	}
}

func (h *Heartbeat) register(ctx context.Context) bool {
	lease, err := h.client.Register(ctx, h.cfg.Service, h.cfg.InstanceID, h.cfg.Host, h.cfg.Port)
	if err != nil {
		level.Warn(h.logger).Log("msg", "register failed", "err", err)
		return false
	}
	level.Info(h.logger).Log("msg", "registered", "lease_id", lease.LeaseID, "status", lease.Status)
	return true
}

// renew returns false when the registry lost the instance, so the next tick registers again.
func (h *Heartbeat) renew(ctx context.Context) bool {
	_, err := h.client.Renew(ctx, h.cfg.Service, h.cfg.InstanceID)
	switch {
	case err == nil:
		return true
	case errors.Is(err, ErrNotRegistered):
		level.Warn(h.logger).Log("msg", "lease lost, registering again")
		return h.register(ctx)
	default:
		level.Warn(h.logger).Log("msg", "renew failed", "err", err)
		return true
	}
}

func (h *Heartbeat) deregister() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := h.client.Deregister(ctx, h.cfg.Service, h.cfg.InstanceID); err != nil {
		level.Warn(h.logger).Log("msg", "deregister failed", "err", err)
		return
	}
	level.Info(h.logger).Log("msg", "deregistered")
}
