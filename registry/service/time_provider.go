package service

import (
	"time"

	"edgemesh/helpers"
	"edgemesh/registry/interfaces"
)

// timeProvider implements interfaces.TimeProvider over an injected now func.
type timeProvider struct {
	now func() time.Time
}

// NewTimeProvider creates a TimeProvider that returns time via the given now func. Panics on nil now.
//
// Parameter now: no-arg function returning the current time (time.Now().UTC in prod, helpers.Clock.Now in tests).
//
// Called from cmd/main when building the registry.
func NewTimeProvider(now func() time.Time) interfaces.TimeProvider {
	return &timeProvider{now: helpers.NilPanic(now, "service.time_provider.go: now is required")}
}

// Now returns current time from the injected function.
func (t *timeProvider) Now() time.Time {
	return t.now()
}
