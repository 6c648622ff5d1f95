package interfaces

import "time"

// TimeProvider supplies the current time for lease arithmetic.
// Injected so tests can drive lease expiry with a manual clock instead of time.Now().
//
//go:generate moq -stub -out mock/time_provider.go -pkg mock . TimeProvider
type TimeProvider interface {
	// Now returns current time (UTC in prod; a fixed or manually advanced time in tests).
	Now() time.Time
}
