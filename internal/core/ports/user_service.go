package ports

import (
	"context"
	"time"

	"github.com/decrypto-hq/decrypto-api/internal/core/domain"
)

// CreateUserInput carries the fields for an operator-created account.
type CreateUserInput struct {
	Email     string
	Username  string
	FullName  string
	Password  string
	Superuser bool
}

// UpdateUserInput carries the operator-editable fields; nil means unchanged.
type UpdateUserInput struct {
	FullName       *string
	Email          *string
	Password       *string
	QuestionNumber *int
	Active         *bool
}

// UpdateProfileInput carries the self-service editable fields.
type UpdateProfileInput struct {
	FullName *string
	Email    *string
	Password *string
}

// LeaderboardEntry is one row of the ranked standings. Rank is dense: users
// with identical progress share a rank and the next distinct progress gets
// the following rank.
type LeaderboardEntry struct {
	Rank                    int
	Username                string
	FullName                string
	QuestionNumber          int
	QuestionNumberUpdatedAt time.Time
}

// UserService defines the account management use cases.
type UserService interface {
	Create(ctx context.Context, input CreateUserInput) (*domain.User, error)
	GetByID(ctx context.Context, id string) (*domain.User, error)
	List(ctx context.Context, page, limit int) ([]*domain.User, error)
	Update(ctx context.Context, id string, input UpdateUserInput) (*domain.User, error)
	UpdateProfile(ctx context.Context, user *domain.User, input UpdateProfileInput) (*domain.User, error)
	Deactivate(ctx context.Context, id string) error
	Leaderboard(ctx context.Context) ([]LeaderboardEntry, error)
}
