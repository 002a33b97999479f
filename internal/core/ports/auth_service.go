package ports

import (
	"context"

	"github.com/decrypto-hq/decrypto-api/internal/core/domain"
)

// RegisterInput carries the fields a self-registering participant supplies.
type RegisterInput struct {
	Email    string
	Username string
	FullName string
	Password string
}

type AuthService interface {
	// Login verifies credentials and returns an access token plus the user.
	// Unknown email, wrong password and inactive account all collapse into
	// domain.ErrInvalidCredentials.
	Login(ctx context.Context, email, password string) (string, *domain.User, error)

	// Register creates a regular user through open registration. Returns
	// domain.ErrRegistrationClosed while the switch is off.
	Register(ctx context.Context, input RegisterInput) (*domain.User, error)

	// RecoverPassword issues a reset token for the account and hands it to
	// the mailer.
	RecoverPassword(ctx context.Context, email string) error

	// ResetPassword redeems a reset token exactly once and stores the new
	// password hash.
	ResetPassword(ctx context.Context, token, newPassword string) error
}
