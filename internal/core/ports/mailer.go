package ports

import "context"

// Mailer delivers account-related messages. Transport is an infrastructure
// concern; the core only hands over the recipient and the reset token.
type Mailer interface {
	SendPasswordReset(ctx context.Context, to, token string) error
}
