package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/decrypto-hq/decrypto-api/internal/api/metrics"
	"github.com/decrypto-hq/decrypto-api/internal/core/domain"
	"github.com/decrypto-hq/decrypto-api/internal/core/ports"
)

// RequireSuperuser rejects requests from users without the superuser role.
// Must run after Authenticate.
func RequireSuperuser(guard ports.GuardService) echo.MiddlewareFunc {
	return requirePolicy(guard, ports.PolicySuperuser, "forbidden")
}

// RequireEventActive rejects regular users outside the event window.
// Superusers pass at any time. Must run after Authenticate.
func RequireEventActive(guard ports.GuardService) echo.MiddlewareFunc {
	return requirePolicy(guard, ports.PolicyActiveEvent, "event_not_active")
}

func requirePolicy(guard ports.GuardService, policy ports.Policy, denialReason string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user, ok := c.Get(userKey).(*domain.User)
			if !ok {
				metrics.GuardDenialsTotal.WithLabelValues("unauthenticated").Inc()
				return domain.ErrUnauthenticated
			}
			if err := guard.Check(user, policy); err != nil {
				metrics.GuardDenialsTotal.WithLabelValues(denialReason).Inc()
				return err
			}
			return next(c)
		}
	}
}
