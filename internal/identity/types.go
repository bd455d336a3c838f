package identity

import (
	"time"

	"acadcollab.org/internal/auth"
)

// User is a stored identity record. The password hash and reset ticket are
// persisted by the store but must never reach an outward-facing response;
// handlers serialize PublicUser instead.
type User struct {
	ID             int64     `json:"id"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	PasswordHash   string    `json:"passwordHash"`
	Role           auth.Role `json:"role"`
	CreatedAt      time.Time `json:"createdAt"`
	ResetTicket    string    `json:"resetTicket,omitempty"`
	ResetExpiresAt time.Time `json:"resetExpiresAt,omitzero"`
}

// PublicUser is the projection safe to return to callers: secret and ticket
// fields stripped.
type PublicUser struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      auth.Role `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

// Public returns the outward-facing projection of the record.
func (u *User) Public() PublicUser {
	return PublicUser{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
	}
}
