package middleware

import (
	"errors"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/decrypto-hq/decrypto-api/internal/api/metrics"
	"github.com/decrypto-hq/decrypto-api/internal/core/domain"
	"github.com/decrypto-hq/decrypto-api/internal/core/ports"
)

// userKey is the echo context key the authenticated user is stored under.
// handler.currentUser reads the same key.
const userKey = "user"

// Authenticate resolves the bearer token through the guard and stores the
// authenticated user in the request context. Missing and malformed headers
// take the same path as bad tokens, so every failure renders the same 401.
func Authenticate(guard ports.GuardService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user, err := guard.Authorize(c.Request().Context(), bearerToken(c), ports.PolicyAuthenticated)
			if err != nil {
				metrics.TokenValidationsTotal.WithLabelValues("rejected").Inc()
				if errors.Is(err, domain.ErrUnauthenticated) {
					metrics.GuardDenialsTotal.WithLabelValues("unauthenticated").Inc()
				}
				return err
			}

			metrics.TokenValidationsTotal.WithLabelValues("ok").Inc()
			c.Set(userKey, user)
			return next(c)
		}
	}
}

// bearerToken extracts the RFC 6750 credential from the Authorization
// header; empty when the header is absent or not a bearer scheme.
func bearerToken(c echo.Context) string {
	header := c.Request().Header.Get(echo.HeaderAuthorization)
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
