package domain

import "errors"

// Sentinel errors for the authentication and access-control flows. Services
// wrap infrastructure failures with fmt.Errorf("%w", ...) and callers dispatch
// with errors.Is; the HTTP layer maps each sentinel to a fixed status code.
var (
	// ErrUnauthenticated covers every token-level denial: absent, malformed,
	// expired, tampered, or referencing an unknown or inactive user. The
	// sub-causes are deliberately indistinguishable to callers.
	ErrUnauthenticated = errors.New("authentication required")

	// ErrForbidden rejects an authenticated user lacking the required role.
	ErrForbidden = errors.New("insufficient privileges")

	// ErrEventNotActive rejects time-gated operations outside the active phase.
	ErrEventNotActive = errors.New("event is not active")

	// ErrMalformedHash signals a stored credential that cannot be parsed.
	// It is an internal fault, never an ordinary verification failure.
	ErrMalformedHash = errors.New("malformed password hash")

	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
	ErrUserExists         = errors.New("user already exists")

	ErrTokenExpired = errors.New("token expired")
	ErrTokenInvalid = errors.New("token invalid")

	// ErrRegistrationClosed rejects self-registration while the open
	// registration switch is off.
	ErrRegistrationClosed = errors.New("open registration is disabled")

	// ErrInvalidWindow marks an absent or inverted event window. Surfacing it
	// at startup is fatal.
	ErrInvalidWindow = errors.New("event window is invalid")
)
