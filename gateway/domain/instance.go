package domain

import (
	"net"
	"strconv"
	"time"
)

// Instance is one routable backend address returned by a Resolver.
// LeaseExpiry is zero when the source does not report one (embedded registry reads are always fresh).
type Instance struct {
	ID          string
	Host        string
	Port        int
	LeaseExpiry time.Time
}

// Address returns host:port.
func (i Instance) Address() string {
	return net.JoinHostPort(i.Host, strconv.Itoa(i.Port))
}

// LeaseValid reports whether the instance may still receive traffic at now.
func (i Instance) LeaseValid(now time.Time) bool {
	return i.LeaseExpiry.IsZero() || now.Before(i.LeaseExpiry)
}
