// Package domain holds the registry data model: service instances, their lease state and the
// per-service summaries reported on GET /registry.
package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Status is the lifecycle state of a registered instance.
type Status string

const (
	// StatusStarting is set on registration; the instance is not routable until its first renewal.
	StatusStarting Status = "STARTING"
	// StatusUp marks an instance eligible for routing while its lease is unexpired.
	StatusUp Status = "UP"
	// StatusDown is set by MarkDown; the next renewal brings the instance back UP.
	StatusDown Status = "DOWN"
)

// ErrInstanceNotFound is returned by Renew, Deregister and MarkDown for an unknown (service, instance) pair.
var ErrInstanceNotFound = errors.New("instance not registered")

// ErrInvalidInstance is returned by Register when the instance fails Validate.
var ErrInvalidInstance = errors.New("invalid instance")

// ServiceInstance is one registered endpoint of a service, keyed by (ServiceName, InstanceID).
type ServiceInstance struct {
	ServiceName   string
	InstanceID    string
	Host          string
	Port          int
	Status        Status
	LeaseID       string
	RegisteredAt  time.Time
	LastRenewedAt time.Time
	LeaseExpiry   time.Time
}

// Routable reports whether the instance may be returned by Resolve at now: status UP and now before LeaseExpiry.
func (i ServiceInstance) Routable(now time.Time) bool {
	return i.Status == StatusUp && now.Before(i.LeaseExpiry)
}

// Expired reports whether the lease has run out at now.
func (i ServiceInstance) Expired(now time.Time) bool {
	return !now.Before(i.LeaseExpiry)
}

// SameEndpoint reports whether other advertises the same host and port.
func (i ServiceInstance) SameEndpoint(other ServiceInstance) bool {
	return i.Host == other.Host && i.Port == other.Port
}

// Address returns "host:port".
func (i ServiceInstance) Address() string {
	return fmt.Sprintf("%s:%d", i.Host, i.Port)
}

// Validate checks the fields a registration must carry.
func (i ServiceInstance) Validate() error {
	switch {
	case strings.TrimSpace(i.ServiceName) == "":
		return fmt.Errorf("%w: service name is required", ErrInvalidInstance)
	case strings.TrimSpace(i.InstanceID) == "":
		return fmt.Errorf("%w: instance id is required", ErrInvalidInstance)
	case strings.TrimSpace(i.Host) == "":
		return fmt.Errorf("%w: host is required", ErrInvalidInstance)
	case i.Port < 1 || i.Port > 65535:
		return fmt.Errorf("%w: port %d out of range", ErrInvalidInstance, i.Port)
	}
	return nil
}

// ServiceSummary is the per-service view returned by Registry.Services.
type ServiceSummary struct {
	Name             string
	Total            int
	Up               int
	SelfPreservation bool
}

// SweepResult describes one eviction pass.
type SweepResult struct {
	Evicted []ServiceInstance
	// Skipped lists the services whose eviction was suppressed by self-preservation.
	Skipped []string
}
