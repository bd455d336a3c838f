package identity

import (
	"context"
	"time"
)

// Store describes persistence operations required by the credential store.
// Implementations must serialize mutations so the duplicate-email check plus
// insert, and the ticket lookup plus consume, each behave as an atomic unit.
type Store interface {
	// CreateUser allocates the next id (max existing id + 1, or 1 when
	// empty), sets CreatedAt, and inserts the record. Returns
	// ErrDuplicateEmail when the normalized email already exists.
	CreateUser(ctx context.Context, u *User) error

	// UserByEmail looks up by exact normalized email. Returns ErrNotFound.
	UserByEmail(ctx context.Context, email string) (*User, error)

	UserByID(ctx context.Context, id int64) (*User, error)

	// ListUsers returns records ordered by id.
	ListUsers(ctx context.Context) ([]*User, error)

	// SetResetTicket stores a ticket and its absolute expiry on the record.
	SetResetTicket(ctx context.Context, id int64, ticket string, expiresAt time.Time) error

	// ConsumeResetTicket atomically finds the record whose ticket matches and
	// whose expiry is after now, replaces the password hash, and clears the
	// ticket fields. Returns ErrNotFound when no such record exists.
	ConsumeResetTicket(ctx context.Context, ticket string, now time.Time, newHash string) (*User, error)

	// DeleteUser removes the record; absent id is not an error.
	DeleteUser(ctx context.Context, id int64) error
}
