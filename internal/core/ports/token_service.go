package ports

import "time"

// TokenService issues and validates the signed bearer tokens used for
// authentication, plus the short-lived single-purpose password-reset tokens.
type TokenService interface {
	// Issue creates an access token whose subject is the user id.
	Issue(userID string, ttl time.Duration) (string, error)

	// Validate verifies the signature and claims of an access token and
	// returns its subject. Rejections are domain.ErrTokenExpired or
	// domain.ErrTokenInvalid.
	Validate(token string) (string, error)

	// IssueReset creates a password-reset token whose subject is the email.
	IssueReset(email string) (string, error)

	// ValidateReset verifies a password-reset token and returns the email it
	// was issued for. Access tokens are rejected here and vice versa.
	ValidateReset(token string) (string, error)
}
