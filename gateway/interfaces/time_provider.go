package interfaces

import "time"

// TimeProvider supplies the current time for lease filtering in the caching resolver.
//
//go:generate moq -stub -out mock/time_provider.go -pkg mock . TimeProvider
type TimeProvider interface {
	Now() time.Time
}
