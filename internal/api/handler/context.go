package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/decrypto-hq/decrypto-api/internal/core/domain"
)

// currentUser extracts the user injected by the Authenticate middleware
// under the "user" key. Absence means the route was wired without the
// middleware; deny rather than panic.
func currentUser(c echo.Context) (*domain.User, error) {
	user, ok := c.Get("user").(*domain.User)
	if !ok || user == nil {
		return nil, domain.ErrUnauthenticated
	}
	return user, nil
}
