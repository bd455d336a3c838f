package identity

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"acadcollab.org/internal/auth"
)

const (
	defaultTicketTTL  = time.Hour
	minPasswordLength = 6
	ticketBytes       = 32
)

// Service owns identity records and their mutation. All credential material
// passes through here as bcrypt hashes; plaintext is never persisted or
// logged.
type Service struct {
	store            Store
	now              func() time.Time
	bcryptCost       int
	ticketTTL        time.Duration
	allowAdminSignup bool
}

// ServiceOption configures Service behavior.
type ServiceOption func(*Service)

// WithBcryptCost overrides the hashing cost (tests use bcrypt.MinCost).
func WithBcryptCost(cost int) ServiceOption {
	return func(s *Service) {
		if cost > 0 {
			s.bcryptCost = cost
		}
	}
}

// WithClock overrides the time source.
func WithClock(fn func() time.Time) ServiceOption {
	return func(s *Service) {
		if fn != nil {
			s.now = fn
		}
	}
}

// WithTicketTTL configures the reset ticket validity window.
func WithTicketTTL(ttl time.Duration) ServiceOption {
	return func(s *Service) {
		if ttl > 0 {
			s.ticketTTL = ttl
		}
	}
}

// WithAdminSignup controls whether a caller-supplied admin role is honored
// during registration.
func WithAdminSignup(allow bool) ServiceOption {
	return func(s *Service) { s.allowAdminSignup = allow }
}

// NewService constructs a Service over the given store.
func NewService(store Store, opts ...ServiceOption) (*Service, error) {
	if store == nil {
		return nil, errors.New("identity store is required")
	}
	s := &Service{
		store:            store,
		now:              time.Now,
		ticketTTL:        defaultTicketTTL,
		allowAdminSignup: true,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Register creates an identity record with a freshly hashed credential.
func (s *Service) Register(ctx context.Context, name, email, password, role string) (*User, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	email, err := normalizeEmail(email)
	if err != nil {
		return nil, err
	}
	if err := validatePassword(password); err != nil {
		return nil, err
	}

	resolved := auth.RoleResearcher
	if strings.TrimSpace(role) != "" {
		parsed, err := auth.ParseRole(role)
		if err != nil {
			return nil, fmt.Errorf("%w: %s", ErrInvalidInput, err)
		}
		if parsed == auth.RoleAdmin && !s.allowAdminSignup {
			return nil, fmt.Errorf("%w: admin self-signup is disabled", ErrInvalidInput)
		}
		resolved = parsed
	}

	hash, err := auth.HashPassword(strings.TrimSpace(password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         resolved,
		CreatedAt:    s.now().UTC(),
	}
	if err := s.store.CreateUser(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// VerifyCredentials answers whether the plaintext credential matches the
// identity. Unknown email and wrong password return the same failure.
func (s *Service) VerifyCredentials(ctx context.Context, email, password string) (*User, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || strings.TrimSpace(password) == "" {
		return nil, ErrInvalidCredentials
	}
	user, err := s.store.UserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if err := auth.VerifyPassword(user.PasswordHash, strings.TrimSpace(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// IssueResetTicket generates a one-time, time-boxed ticket for the account.
// An unknown email yields an empty ticket and no error so the HTTP layer can
// report success without confirming account existence.
func (s *Service) IssueResetTicket(ctx context.Context, email string) (string, time.Time, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" {
		return "", time.Time{}, fmt.Errorf("%w: email is required", ErrInvalidInput)
	}
	user, err := s.store.UserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return "", time.Time{}, nil
		}
		return "", time.Time{}, err
	}

	ticket, err := generateTicket()
	if err != nil {
		return "", time.Time{}, err
	}
	expiresAt := s.now().UTC().Add(s.ticketTTL)
	if err := s.store.SetResetTicket(ctx, user.ID, ticket, expiresAt); err != nil {
		return "", time.Time{}, err
	}
	return ticket, expiresAt, nil
}

// ConsumeResetTicket sets a new credential for the record holding the ticket
// and invalidates the ticket in the same operation.
func (s *Service) ConsumeResetTicket(ctx context.Context, ticket, newPassword string) (*User, error) {
	ticket = strings.TrimSpace(ticket)
	if ticket == "" {
		return nil, fmt.Errorf("%w: reset token is required", ErrInvalidInput)
	}
	if err := validatePassword(newPassword); err != nil {
		return nil, err
	}
	hash, err := auth.HashPassword(strings.TrimSpace(newPassword), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	user, err := s.store.ConsumeResetTicket(ctx, ticket, s.now().UTC(), hash)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrInvalidTicket
		}
		return nil, err
	}
	return user, nil
}

// ListPublicUsers returns all identity records with secret and ticket fields
// stripped, ordered by id. Administrative listing only.
func (s *Service) ListPublicUsers(ctx context.Context) ([]PublicUser, error) {
	users, err := s.store.ListUsers(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]PublicUser, 0, len(users))
	for _, u := range users {
		out = append(out, u.Public())
	}
	return out, nil
}

// DeleteUser removes the record. Idempotent when the id is absent.
func (s *Service) DeleteUser(ctx context.Context, id int64) error {
	if id <= 0 {
		return fmt.Errorf("%w: user id must be positive", ErrInvalidInput)
	}
	return s.store.DeleteUser(ctx, id)
}

func normalizeEmail(email string) (string, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" {
		return "", fmt.Errorf("%w: email is required", ErrInvalidInput)
	}
	if !validEmail(email) {
		return "", fmt.Errorf("%w: valid email is required", ErrInvalidInput)
	}
	return email, nil
}

// validEmail requires a non-empty local part and a dotted domain.
func validEmail(email string) bool {
	at := strings.IndexByte(email, '@')
	if at <= 0 || at == len(email)-1 {
		return false
	}
	domain := email[at+1:]
	if strings.ContainsAny(email, " \t") || strings.Contains(domain, "@") {
		return false
	}
	dot := strings.IndexByte(domain, '.')
	return dot > 0 && dot < len(domain)-1
}

func validatePassword(password string) error {
	password = strings.TrimSpace(password)
	if password == "" {
		return fmt.Errorf("%w: password is required", ErrInvalidInput)
	}
	if len(password) < minPasswordLength {
		return fmt.Errorf("%w: password must be at least %d characters", ErrInvalidInput, minPasswordLength)
	}
	return nil
}

func generateTicket() (string, error) {
	buf := make([]byte, ticketBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate reset ticket: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
