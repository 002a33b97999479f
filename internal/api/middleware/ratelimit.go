package middleware

import (
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"golang.org/x/time/rate"
)

// LoginLimiterConfig holds the throttle settings for credential endpoints.
type LoginLimiterConfig struct {
	Rate            rate.Limit // sustained attempts per second
	Burst           int
	CleanupInterval time.Duration
}

// DefaultLoginLimiterConfig allows 10 attempts per minute per client with a
// burst of 10.
func DefaultLoginLimiterConfig() LoginLimiterConfig {
	return LoginLimiterConfig{
		Rate:            rate.Limit(10.0 / 60.0),
		Burst:           10,
		CleanupInterval: 5 * time.Minute,
	}
}

// clientLimiter pairs a limiter with its last use so idle entries can be
// dropped.
type clientLimiter struct {
	limiter    *rate.Limiter
	lastAccess time.Time
}

// LoginLimiter throttles credential guessing per client IP. It slows an
// online attack; it does not replace the uniform error responses that keep
// guesses uninformative.
type LoginLimiter struct {
	config LoginLimiterConfig

	mu       sync.RWMutex
	limiters map[string]*clientLimiter

	stopCh chan struct{}
}

// NewLoginLimiter creates a LoginLimiter and starts its background cleanup.
func NewLoginLimiter(config LoginLimiterConfig) *LoginLimiter {
	l := &LoginLimiter{
		config:   config,
		limiters: make(map[string]*clientLimiter),
		stopCh:   make(chan struct{}),
	}

	go l.cleanupLoop()

	return l
}

// Stop terminates the background cleanup goroutine.
func (l *LoginLimiter) Stop() {
	close(l.stopCh)
}

// Middleware returns the echo middleware enforcing the throttle.
func (l *LoginLimiter) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !l.getOrCreate(c.RealIP()).Allow() {
				c.Response().Header().Set("Retry-After", l.retryAfter())
				return echo.NewHTTPError(http.StatusTooManyRequests, "too many attempts")
			}
			return next(c)
		}
	}
}

// Count returns the number of tracked clients, for tests.
func (l *LoginLimiter) Count() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.limiters)
}

func (l *LoginLimiter) getOrCreate(ip string) *rate.Limiter {
	l.mu.RLock()
	cl, exists := l.limiters[ip]
	l.mu.RUnlock()

	if exists {
		l.mu.Lock()
		cl.lastAccess = time.Now()
		l.mu.Unlock()
		return cl.limiter
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	// Another request may have created the entry between the locks.
	if cl, exists := l.limiters[ip]; exists {
		cl.lastAccess = time.Now()
		return cl.limiter
	}

	limiter := rate.NewLimiter(l.config.Rate, l.config.Burst)
	l.limiters[ip] = &clientLimiter{limiter: limiter, lastAccess: time.Now()}
	return limiter
}

// retryAfter estimates the seconds until one token refills.
func (l *LoginLimiter) retryAfter() string {
	sec := int(math.Ceil(1.0 / float64(l.config.Rate)))
	if sec < 1 {
		sec = 1
	}
	return strconv.Itoa(sec)
}

func (l *LoginLimiter) cleanupLoop() {
	ticker := time.NewTicker(l.config.CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			l.cleanup()
		case <-l.stopCh:
			return
		}
	}
}

// cleanup drops entries idle for more than twice the cleanup interval.
func (l *LoginLimiter) cleanup() {
	ttl := l.config.CleanupInterval * 2
	now := time.Now()

	l.mu.Lock()
	for ip, cl := range l.limiters {
		if now.Sub(cl.lastAccess) > ttl {
			delete(l.limiters, ip)
		}
	}
	l.mu.Unlock()
}
