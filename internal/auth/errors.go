package auth

import "errors"

// ErrInvalidToken covers malformed encoding, signature mismatch, and expiry
// alike. Callers cannot tell which check failed; the server log may record
// the distinction.
var ErrInvalidToken = errors.New("invalid token")
