package ports

import (
	"context"

	"github.com/decrypto-hq/decrypto-api/internal/core/domain"
)

// Policy names the access requirement a route declares.
type Policy int

const (
	// PolicyAuthenticated admits any active user with a valid token.
	PolicyAuthenticated Policy = iota
	// PolicySuperuser additionally requires the superuser role.
	PolicySuperuser
	// PolicyActiveEvent additionally requires the event to be in its active
	// phase; superusers are exempt.
	PolicyActiveEvent
)

// GuardService is the single decision point for access control. Every guarded
// request passes through Authorize; no handler re-checks tokens or roles on
// its own.
type GuardService interface {
	// Authorize resolves rawToken to a user and applies policy. Token-level
	// failures of any kind come back as domain.ErrUnauthenticated; policy
	// failures as domain.ErrForbidden or domain.ErrEventNotActive. A store
	// failure is returned wrapped and is distinguishable from a denial.
	Authorize(ctx context.Context, rawToken string, policy Policy) (*domain.User, error)

	// Check applies policy to an already-authenticated user.
	Check(user *domain.User, policy Policy) error
}
