package ports

import (
	"context"

	"github.com/decrypto-hq/decrypto-api/internal/core/domain"
)

// UserRepository defines the interface for user persistence.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)

	// List returns a page of users ordered by creation time.
	List(ctx context.Context, offset, limit int) ([]*domain.User, error)

	// Update persists the mutable fields of user and returns the stored state.
	Update(ctx context.Context, user *domain.User) (*domain.User, error)

	UpdatePasswordHash(ctx context.Context, id, hash string) error

	// Deactivate flips the active flag; user records are never removed by the
	// authentication paths.
	Deactivate(ctx context.Context, id string) error

	// Leaderboard returns active regular users ordered by question number
	// descending, then by the time the question number was last advanced
	// ascending (earlier progress wins ties).
	Leaderboard(ctx context.Context) ([]*domain.User, error)
}
