package service

import (
	"time"

	"edgemesh/gateway/interfaces"
	"edgemesh/helpers"
)

type timeProvider struct {
	now func() time.Time
}

// NewTimeProvider creates a TimeProvider over now. Panics on nil now.
//
// Called from gateway cmd/main with time.Now and from tests with helpers.Clock.Now.
func NewTimeProvider(now func() time.Time) interfaces.TimeProvider {
	return &timeProvider{now: helpers.NilPanic(now, "service.time_provider.go: now is required")}
}

func (t *timeProvider) Now() time.Time {
	return t.now()
}
