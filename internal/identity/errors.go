package identity

import "errors"

var (
	// ErrInvalidInput marks missing or malformed fields; wrap it with a
	// field-describing message via fmt.Errorf("%w: ...").
	ErrInvalidInput = errors.New("invalid input")

	// ErrDuplicateEmail means the normalized email already has a record.
	ErrDuplicateEmail = errors.New("email already registered")

	// ErrInvalidCredentials is deliberately generic: unknown email and wrong
	// password are indistinguishable to the caller.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrInvalidTicket covers unknown, expired, and already-consumed reset
	// tickets alike.
	ErrInvalidTicket = errors.New("invalid or expired reset token")

	ErrNotFound = errors.New("identity not found")
)
