package service

import (
	"context"
	"math"
	"strconv"
	"sync"
	"time"

	"edgemesh/helpers"
	"edgemesh/myerror"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/labstack/echo/v4"
	"golang.org/x/time/rate"
)

// LoginLimiter throttles login attempts per client IP with a token bucket per key.
type LoginLimiter struct {
	limit     rate.Limit
	burst     int
	now       func() time.Time
	logger    log.Logger
	extractIP echo.IPExtractor

	mu       sync.Mutex
	visitors map[string]*visitor
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewLoginLimiter creates a limiter allowing perMinute attempts per key with the given burst.
// Panics on non-positive perMinute or burst, or nil now/logger.
//
// Called from auth cmd/main; tests pass helpers.Clock.Now as now.
func NewLoginLimiter(perMinute float64, burst int, now func() time.Time, logger log.Logger) *LoginLimiter {
	if perMinute <= 0 || burst <= 0 {
		panic("service.ratelimit.go: rate and burst must be positive")
	}
	return &LoginLimiter{
		limit:  rate.Limit(perMinute / 60),
		burst:  burst,
		now:    helpers.NilPanic(now, "service.ratelimit.go: now is required"),
		logger: log.With(helpers.NilPanic(logger, "service.ratelimit.go: logger is required"), "component", "login_limiter"),
		// X-Real-IP is honored only from loopback, link-local and private peers (the gateway).
		// X-Forwarded-For is never read.
		extractIP: echo.ExtractIPFromRealIPHeader(),
		visitors:  make(map[string]*visitor),
	}
}

// Allow reports whether key may make one more attempt now.
func (l *LoginLimiter) Allow(key string) bool {
	now := l.now()
	l.mu.Lock()
	v, ok := l.visitors[key]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.visitors[key] = v
	}
	v.lastSeen = now
	l.mu.Unlock()
	return v.limiter.AllowN(now, 1)
}

// Middleware rejects requests over the limit with 429 too_many_requests and a Retry-After header.
// The key is the X-Real-IP set by the gateway when the direct peer is on a trusted network, otherwise
// the peer address itself.
func (l *LoginLimiter) Middleware() echo.MiddlewareFunc {
	retryAfter := strconv.Itoa(int(math.Ceil(1 / float64(l.limit))))
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ip := l.extractIP(c.Request())
			if !l.Allow(ip) {
				level.Warn(l.logger).Log("msg", "login rate limit exceeded", "ip", ip)
				c.Response().Header().Set("Retry-After", retryAfter)
				return myerror.NewTooManyRequestsError("too many login attempts, retry later")
			}
			return next(c)
		}
	}
}

// Prune drops keys not seen for idle and returns how many were removed.
func (l *LoginLimiter) Prune(idle time.Duration) int {
	cutoff := l.now().Add(-idle)
	l.mu.Lock()
	defer l.mu.Unlock()
	removed := 0
	for key, v := range l.visitors {
		if v.lastSeen.Before(cutoff) {
			delete(l.visitors, key)
			removed++
		}
	}
	return removed
}

// Run prunes keys idle for longer than idle every interval until ctx is done.
//
// Called from auth cmd/main in its own goroutine.
func (l *LoginLimiter) Run(ctx context.Context, interval, idle time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := l.Prune(idle); n > 0 {
				level.Debug(l.logger).Log("msg", "pruned idle limiters", "count", n)
			}
		}
	}
}
